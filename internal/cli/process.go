package cli

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flowlens/flowlens/pkg/cache"
	"github.com/flowlens/flowlens/pkg/export"
	"github.com/flowlens/flowlens/pkg/loader"
	"github.com/flowlens/flowlens/pkg/statemachine"
)

// Output formats for the process command.
const (
	formatJSON = "json"
	formatBSON = "bson"
	formatDOT  = "dot"
)

// newProcessCmd creates the process command: load a raw document, normalize
// it into the canonical graph, and write the result.
func newProcessCmd(cfg Config) *cobra.Command {
	var (
		format  string
		output  string
		noCache bool
		color   bool
	)

	cmd := &cobra.Command{
		Use:   "process <path|url>",
		Short: "Normalize a raw state-machine document into a canonical graph",
		Long: `Process reads a policy state-machine document (JSON or YAML, from a local
file or an http(s) URL), reconciles its mixed naming conventions into the
canonical graph model, and writes the result.

Identical documents are served from the local cache; pass --no-cache to
force recomputation.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			source := args[0]

			if format != formatJSON && format != formatBSON && format != formatDOT {
				return fmt.Errorf("unsupported format %q (json, bson, dot)", format)
			}

			spin := newSpinnerWithContext(ctx, "Loading document...")
			spin.Start()
			doc, err := loader.Load(ctx, source)
			spin.Stop()
			if err != nil {
				return err
			}
			logger.Debug("document loaded", "source", source)

			c := openCache(ctx, cfg, noCache, logger)
			defer c.Close()

			sm, cached, err := processWithCache(cmd, c, doc, cfg)
			if err != nil {
				return err
			}

			data, err := encodeGraph(sm, format, color)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				os.Stdout.Write(data)
			} else {
				if err := os.WriteFile(output, data, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", output, err)
				}
				printSuccess("Processed %s", StyleValue.Render(displayName(sm, source)))
				printFile(output)
			}
			printStats(len(sm.Nodes), len(sm.Edges), len(sm.Metadata.Journeys), cached)

			if dangling := sm.DanglingTargets(); len(dangling) > 0 {
				printWarning("%d transition target(s) do not resolve to a declared state", len(dangling))
				printDetail(strings.Join(dangling, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "output format: json, bson, or dot")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the result cache")
	cmd.Flags().BoolVar(&color, "color-journeys", false, "color DOT nodes by journey membership")

	return cmd
}

// processWithCache runs the pipeline, consulting the cache first. The cache
// stores the canonical JSON; other output formats re-encode from it.
func processWithCache(cmd *cobra.Command, c cache.Cache, doc map[string]any, cfg Config) (*statemachine.ProcessedStateMachine, bool, error) {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	key := cache.DocumentKey(doc)

	if data, ok, err := c.Get(ctx, key); err == nil && ok {
		sm, err := export.ReadJSON(bytes.NewReader(data))
		if err == nil {
			logger.Debug("cache hit", "key", key)
			return sm, true, nil
		}
		// A corrupt entry falls through to recomputation.
		logger.Debug("discarding corrupt cache entry", "key", key)
	}

	p := newProgress(logger)
	sm, err := statemachine.Process(doc)
	if err != nil {
		return nil, false, err
	}
	p.done(fmt.Sprintf("Processed %d states into %d edges", len(sm.Nodes), len(sm.Edges)))

	if data, err := export.MarshalJSON(sm); err == nil {
		if err := c.Set(ctx, key, data, cfg.cacheTTL()); err != nil {
			logger.Debug("cache set failed", "err", err)
		}
	}
	return sm, false, nil
}

func encodeGraph(sm *statemachine.ProcessedStateMachine, format string, color bool) ([]byte, error) {
	switch format {
	case formatBSON:
		return export.MarshalBSON(sm)
	case formatDOT:
		return []byte(export.ToDOT(sm, export.DOTOptions{ColorByJourney: color})), nil
	default:
		return export.MarshalJSON(sm)
	}
}

func displayName(sm *statemachine.ProcessedStateMachine, source string) string {
	if sm.Metadata.Name != "" {
		return sm.Metadata.Name
	}
	return source
}
