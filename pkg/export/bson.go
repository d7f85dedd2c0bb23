package export

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/flowlens/flowlens/pkg/statemachine"
)

// MarshalBSON converts a processed graph to BSON bytes using the bson tags
// on the canonical types. Consumers that keep review artifacts in a document
// store can insert the result as-is.
func MarshalBSON(sm *statemachine.ProcessedStateMachine) ([]byte, error) {
	data, err := bson.Marshal(sm)
	if err != nil {
		return nil, fmt.Errorf("bson encode: %w", err)
	}
	return data, nil
}

// UnmarshalBSON decodes a processed graph from BSON bytes.
func UnmarshalBSON(data []byte) (*statemachine.ProcessedStateMachine, error) {
	var sm statemachine.ProcessedStateMachine
	if err := bson.Unmarshal(data, &sm); err != nil {
		return nil, fmt.Errorf("bson decode: %w", err)
	}
	return &sm, nil
}
