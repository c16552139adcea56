package dto

import (
	"time"

	"github.com/polkiloo/pointledger/internal/domain/model"
)

// UserPointResponse is the wire form of a user balance.
type UserPointResponse struct {
	ID           int64 `json:"id"`
	Point        int64 `json:"point"`
	UpdateMillis int64 `json:"updateMillis"`
}

// PointHistoryResponse is the wire form of one history record.
type PointHistoryResponse struct {
	ID           int64  `json:"id"`
	UserID       int64  `json:"userId"`
	Amount       int64  `json:"amount"`
	Type         string `json:"type"`
	UpdateMillis int64  `json:"updateMillis"`
}

// ErrorResponse is returned with every non-2xx status produced by the point handlers.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewUserPointResponse converts a balance record.
func NewUserPointResponse(p *model.UserPoint) UserPointResponse {
	return UserPointResponse{ID: p.ID, Point: p.Point, UpdateMillis: millis(p.UpdatedAt)}
}

// NewPointHistoryResponses converts records keeping their order.
func NewPointHistoryResponses(records []model.PointHistory) []PointHistoryResponse {
	resp := make([]PointHistoryResponse, 0, len(records))
	for _, h := range records {
		resp = append(resp, PointHistoryResponse{
			ID:           h.ID,
			UserID:       h.UserID,
			Amount:       h.Amount,
			Type:         string(h.Type),
			UpdateMillis: millis(h.CreatedAt),
		})
	}
	return resp
}

func millis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}
