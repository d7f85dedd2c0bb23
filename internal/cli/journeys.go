package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flowlens/flowlens/pkg/loader"
	"github.com/flowlens/flowlens/pkg/statemachine"
)

// newJourneysCmd creates the journeys command: process a document and list
// its journeys with the states each one covers.
func newJourneysCmd() *cobra.Command {
	var showStates bool

	cmd := &cobra.Command{
		Use:   "journeys <path|url>",
		Short: "List the journeys declared in a state-machine document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			doc, err := loader.Load(ctx, args[0])
			if err != nil {
				return err
			}
			sm, err := statemachine.Process(doc)
			if err != nil {
				return err
			}

			if len(sm.Metadata.Journeys) == 0 {
				printInfo("No journeys defined")
				return nil
			}

			fmt.Println(StyleTitle.Render("Journeys"))
			printNewline()
			for _, j := range sm.Metadata.Journeys {
				members := sm.NodesByJourney(j.ID)
				printKeyValue(j.ID, fmt.Sprintf("%s (%d states)", j.Label, len(members)))
				if j.Intent != "" && j.Intent != j.Label {
					printDetail("%s", j.Intent)
				}
				if showStates {
					for _, n := range members {
						printDetail("- %s", n.ID)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showStates, "states", false, "list the states on each journey")

	return cmd
}
