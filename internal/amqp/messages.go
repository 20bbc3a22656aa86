package amqp

import (
	"encoding/json"
	"time"
)

// ChangeMessage announces one entity write. The audit worker fetches nothing;
// the message carries everything the audit row needs.
type ChangeMessage struct {
	Entity    string    `json:"entity"`
	ID        string    `json:"id"`
	Op        string    `json:"op"`
	Actor     string    `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
}

// NewChangeMessage creates a change message stamped with the current time.
func NewChangeMessage(entity, id, op, actor string) *ChangeMessage {
	return &ChangeMessage{
		Entity:    entity,
		ID:        id,
		Op:        op,
		Actor:     actor,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ChangeMessageFromJSON creates a message from JSON bytes
func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
