package amqp

import (
	"encoding/json"
	"time"
)

// FeeExportMessage asks the worker to write one paid fee record to the
// payments ledger. It carries only the record id; the worker fetches the
// current row from the store so a stale message never exports stale data.
type FeeExportMessage struct {
	FeeID     string    `json:"feeId"`
	Timestamp time.Time `json:"timestamp"`
}

func NewFeeExportMessage(feeID string) *FeeExportMessage {
	return &FeeExportMessage{
		FeeID:     feeID,
		Timestamp: time.Now(),
	}
}

func (m *FeeExportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func FeeExportMessageFromJSON(data []byte) (*FeeExportMessage, error) {
	var msg FeeExportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
