package simulator

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/chrisdamba/freshsim/internal/models"
	"github.com/xitongsys/parquet-go/schema"
)

// GetSchema returns the parquet schema handler for a topic.
func GetSchema(topic string) (*schema.SchemaHandler, error) {
	var sh *schema.SchemaHandler
	var err error

	switch topic {
	case models.TopicLedgerSnapshots:
		sh, err = schema.NewSchemaHandlerFromStruct(new(models.LedgerSnapshotEvent))
	case models.TopicTrades:
		sh, err = schema.NewSchemaHandlerFromStruct(new(models.TradeEvent))
	default:
		return nil, fmt.Errorf("unknown event type: %s", topic)
	}

	if err != nil {
		log.Printf("Error creating schema for %s: %v", topic, err)
		return nil, fmt.Errorf("error creating schema for %s: %w", topic, err)
	}

	return sh, nil
}

// decodeRecord turns a serialized message back into the typed record for its topic.
func decodeRecord(topic string, msg []byte) (interface{}, error) {
	switch topic {
	case models.TopicLedgerSnapshots:
		var event models.LedgerSnapshotEvent
		if err := json.Unmarshal(msg, &event); err != nil {
			return nil, err
		}
		return event, nil
	case models.TopicTrades:
		var event models.TradeEvent
		if err := json.Unmarshal(msg, &event); err != nil {
			return nil, err
		}
		return event, nil
	default:
		return nil, fmt.Errorf("unknown event type: %s", topic)
	}
}
