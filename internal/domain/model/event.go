package model

import "time"

// TransactionEvent describes a committed point transaction for downstream consumers.
type TransactionEvent struct {
	HistoryID  int64           `json:"historyId"`
	UserID     int64           `json:"userId"`
	Amount     int64           `json:"amount"`
	Type       TransactionType `json:"type"`
	Balance    int64           `json:"balance"`
	OccurredAt time.Time       `json:"occurredAt"`
}

// NewTransactionEvent builds the event for a history record and the balance it produced.
func NewTransactionEvent(h *PointHistory, balance *UserPoint) TransactionEvent {
	return TransactionEvent{
		HistoryID:  h.ID,
		UserID:     h.UserID,
		Amount:     h.Amount,
		Type:       h.Type,
		Balance:    balance.Point,
		OccurredAt: h.CreatedAt,
	}
}
