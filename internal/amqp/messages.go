package amqp

import (
	"encoding/json"
	"time"
)

// CategorizeMessage asks the worker to retry automatic categorization for an
// expense whose initial attempt failed. It carries only the expense ID; the
// worker fetches the current record from the database.
type CategorizeMessage struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewCategorizeMessage creates a retry message for the given expense ID.
func NewCategorizeMessage(id string) *CategorizeMessage {
	return &CategorizeMessage{
		ID:        id,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *CategorizeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// CategorizeMessageFromJSON creates a message from JSON bytes.
func CategorizeMessageFromJSON(data []byte) (*CategorizeMessage, error) {
	var msg CategorizeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
