package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/pointledger/internal/domain/errors"
	"github.com/polkiloo/pointledger/internal/domain/model"
	"github.com/polkiloo/pointledger/internal/server/http/dto"
)

const (
	codeBadRequest = "BAD_REQUEST"
	userIDParam    = "id"
)

// PointHandler serves the /point endpoints.
type PointHandler struct {
	facade PointFacade
}

// NewPointHandler constructs PointHandler.
func NewPointHandler(facade PointFacade) *PointHandler {
	return &PointHandler{facade: facade}
}

// Point handles GET /point/:id.
func (h *PointHandler) Point(c *gin.Context) {
	userID, ok := bindUserID(c)
	if !ok {
		return
	}
	point, err := h.facade.Point(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserPointResponse(point))
}

// Histories handles GET /point/:id/histories.
func (h *PointHandler) Histories(c *gin.Context) {
	userID, ok := bindUserID(c)
	if !ok {
		return
	}
	records, err := h.facade.History(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPointHistoryResponses(records))
}

// Charge handles PATCH /point/:id/charge.
func (h *PointHandler) Charge(c *gin.Context) {
	h.mutate(c, h.facade.Charge)
}

// Use handles PATCH /point/:id/use.
func (h *PointHandler) Use(c *gin.Context) {
	h.mutate(c, h.facade.Use)
}

func (h *PointHandler) mutate(c *gin.Context, op func(context.Context, int64, int64) (*model.UserPoint, error)) {
	userID, ok := bindUserID(c)
	if !ok {
		return
	}
	var amount int64
	if err := c.ShouldBindJSON(&amount); err != nil {
		abortBadRequest(c, "amount must be a JSON integer")
		return
	}
	point, err := op(c.Request.Context(), userID, amount)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserPointResponse(point))
}

func bindUserID(c *gin.Context) (int64, bool) {
	userID, err := strconv.ParseInt(c.Param(userIDParam), 10, 64)
	if err != nil {
		abortBadRequest(c, "user id must be an integer")
		return 0, false
	}
	return userID, true
}

func abortBadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Code: codeBadRequest, Message: message})
}

func writeError(c *gin.Context, err error) {
	kind := domainErrors.Kind(err)
	var status int
	switch {
	case errors.Is(err, domainErrors.ErrInvalidAmount):
		status = http.StatusBadRequest
	case errors.Is(err, domainErrors.ErrLimitExceeded), errors.Is(err, domainErrors.ErrInsufficientBalance):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domainErrors.ErrEmptyHistory):
		status = http.StatusNotFound
	default:
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{Code: string(kind), Message: "internal error"})
		return
	}
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Code: string(kind), Message: err.Error()})
}
