package amqp

import (
	"encoding/json"
	"time"
)

// Record actions carried on transaction events.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// TransactionEvent tells the alert worker that a user's transactions
// changed. It carries only identifiers; the worker reloads the user's
// records before evaluating budgets.
type TransactionEvent struct {
	UserID        string    `json:"userId"`
	TransactionID string    `json:"transactionId"`
	Category      string    `json:"category"`
	Action        string    `json:"action"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewTransactionEvent(userID, transactionID, category, action string) *TransactionEvent {
	return &TransactionEvent{
		UserID:        userID,
		TransactionID: transactionID,
		Category:      category,
		Action:        action,
		Timestamp:     time.Now(),
	}
}

func (m *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var msg TransactionEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
