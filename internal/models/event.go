package models

// LedgerEvent is published to Kafka for every committed ledger mutation:
// transaction creation, review decisions and admin recharges.
type LedgerEvent struct {
	TransactionID string `json:"transaction_id"` // Unique transaction identifier
	UserID        string `json:"user_id"`        // Owning account identifier
	Amount        string `json:"amount"`         // Decimal amount as string
	Type          string `json:"type"`           // deposit or withdraw
	Status        string `json:"status"`         // Status after the mutation
	Timestamp     int64  `json:"timestamp"`      // Unix timestamp of the event
}
