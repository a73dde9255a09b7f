package event

import (
	"encoding/json"
	"time"

	"tally/internal/core"
)

// EntryCreatedMessage is the wire payload for a committed ledger entry.
// The worker re-reads the authoritative row from the store by ID; the
// remaining fields are for logging and routing only.
type EntryCreatedMessage struct {
	ID          int64     `json:"id"`
	Type        string    `json:"type"`
	Category    string    `json:"category"`
	AmountCents int64     `json:"amount_cents"`
	Date        time.Time `json:"date"`
	Timestamp   time.Time `json:"timestamp"`
}

func NewEntryCreatedMessage(e core.Entry) *EntryCreatedMessage {
	return &EntryCreatedMessage{
		ID:          e.ID,
		Type:        string(e.Type),
		Category:    e.Category,
		AmountCents: e.Amount.Cents,
		Date:        e.Date,
		Timestamp:   time.Now(),
	}
}

func (m *EntryCreatedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func EntryCreatedMessageFromJSON(data []byte) (*EntryCreatedMessage, error) {
	var msg EntryCreatedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
