package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/pointledger/internal/domain/errors"
	"github.com/polkiloo/pointledger/internal/domain/model"
	"github.com/polkiloo/pointledger/internal/server/http/dto"
	testhelpers "github.com/polkiloo/pointledger/internal/test"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(t *testing.T, method, route, target string, handler gin.HandlerFunc, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.Handle(method, route, handler)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var body dto.ErrorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", resp.Body.String(), err)
	}
	return body
}

func TestPointHandlerPoint(t *testing.T) {
	at := time.UnixMilli(1700000000000)
	facade := &testhelpers.PointFacadeStub{PointFn: func(_ context.Context, userID int64) (*model.UserPoint, error) {
		return &model.UserPoint{ID: userID, Point: 7000, UpdatedAt: at}, nil
	}}

	resp := performRequest(t, http.MethodGet, "/point/:id", "/point/42", NewPointHandler(facade).Point, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var body dto.UserPointResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body != (dto.UserPointResponse{ID: 42, Point: 7000, UpdateMillis: at.UnixMilli()}) {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestPointHandlerHistories(t *testing.T) {
	facade := &testhelpers.PointFacadeStub{HistoryFn: func(_ context.Context, userID int64) ([]model.PointHistory, error) {
		return []model.PointHistory{
			{ID: 1, UserID: userID, Amount: 5000, Type: model.TransactionCharge},
			{ID: 2, UserID: userID, Amount: 2000, Type: model.TransactionUse},
		}, nil
	}}

	resp := performRequest(t, http.MethodGet, "/point/:id/histories", "/point/3/histories", NewPointHandler(facade).Histories, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var body []dto.PointHistoryResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body) != 2 || body[0].Type != "CHARGE" || body[1].Type != "USE" || body[1].UserID != 3 {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestPointHandlerEmptyHistory(t *testing.T) {
	facade := &testhelpers.PointFacadeStub{HistoryFn: func(context.Context, int64) ([]model.PointHistory, error) {
		return nil, domainErrors.ErrEmptyHistory
	}}

	resp := performRequest(t, http.MethodGet, "/point/:id/histories", "/point/3/histories", NewPointHandler(facade).Histories, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
	if body := decodeError(t, resp); body.Code != string(domainErrors.KindEmptyHistory) {
		t.Fatalf("unexpected error body %+v", body)
	}
}

func TestPointHandlerCharge(t *testing.T) {
	facade := &testhelpers.PointFacadeStub{}
	resp := performRequest(t, http.MethodPatch, "/point/:id/charge", "/point/9/charge", NewPointHandler(facade).Charge, []byte("5000"))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	calls := facade.Calls()
	if len(calls) != 1 || calls[0] != (testhelpers.PointCall{Operation: "charge", UserID: 9, Amount: 5000}) {
		t.Fatalf("unexpected calls %+v", calls)
	}
}

func TestPointHandlerUse(t *testing.T) {
	facade := &testhelpers.PointFacadeStub{UseFn: func(_ context.Context, userID, amount int64) (*model.UserPoint, error) {
		return &model.UserPoint{ID: userID, Point: 10000 - amount}, nil
	}}
	resp := performRequest(t, http.MethodPatch, "/point/:id/use", "/point/9/use", NewPointHandler(facade).Use, []byte("3000"))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var body dto.UserPointResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Point != 7000 {
		t.Fatalf("expected balance 7000, got %d", body.Point)
	}
}

func TestPointHandlerMutationFailures(t *testing.T) {
	failing := func(err error) func(context.Context, int64, int64) (*model.UserPoint, error) {
		return func(context.Context, int64, int64) (*model.UserPoint, error) { return nil, err }
	}

	tests := []struct {
		name   string
		target string
		body   []byte
		fn     func(context.Context, int64, int64) (*model.UserPoint, error)
		status int
		code   string
	}{
		{name: "bad id", target: "/point/abc/charge", body: []byte("1000"), status: http.StatusBadRequest, code: codeBadRequest},
		{name: "bad json", target: "/point/1/charge", body: []byte("not json"), status: http.StatusBadRequest, code: codeBadRequest},
		{name: "fractional amount", target: "/point/1/charge", body: []byte("1000.5"), status: http.StatusBadRequest, code: codeBadRequest},
		{name: "missing body", target: "/point/1/charge", status: http.StatusBadRequest, code: codeBadRequest},
		{name: "invalid amount", target: "/point/1/charge", body: []byte("999"), fn: failing(domainErrors.ErrBelowMinimumCharge), status: http.StatusBadRequest, code: string(domainErrors.KindInvalidAmount)},
		{name: "limit exceeded", target: "/point/1/charge", body: []byte("1000"), fn: failing(domainErrors.ErrLimitExceeded), status: http.StatusUnprocessableEntity, code: string(domainErrors.KindLimitExceeded)},
		{name: "insufficient", target: "/point/1/charge", body: []byte("1000"), fn: failing(domainErrors.ErrInsufficientBalance), status: http.StatusUnprocessableEntity, code: string(domainErrors.KindInsufficientBalance)},
		{name: "internal", target: "/point/1/charge", body: []byte("1000"), fn: failing(fmt.Errorf("update user point: %w", errors.New("boom"))), status: http.StatusInternalServerError, code: string(domainErrors.KindInternal)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facade := &testhelpers.PointFacadeStub{ChargeFn: tt.fn}
			resp := performRequest(t, http.MethodPatch, "/point/:id/charge", tt.target, NewPointHandler(facade).Charge, tt.body)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
			if body := decodeError(t, resp); body.Code != tt.code {
				t.Fatalf("expected code %s, got %+v", tt.code, body)
			}
			if tt.fn == nil && len(facade.Calls()) != 0 {
				t.Fatalf("facade must not be called for malformed requests")
			}
		})
	}
}

func TestPointHandlerInternalHidesCause(t *testing.T) {
	facade := &testhelpers.PointFacadeStub{PointFn: func(context.Context, int64) (*model.UserPoint, error) {
		return nil, errors.New("dial tcp 10.0.0.1: refused")
	}}
	resp := performRequest(t, http.MethodGet, "/point/:id", "/point/1", NewPointHandler(facade).Point, nil)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", resp.Code)
	}
	if body := decodeError(t, resp); body.Message != "internal error" {
		t.Fatalf("unexpected message %q", body.Message)
	}
}

func TestHealthHandler(t *testing.T) {
	resp := performRequest(t, http.MethodGet, "/healthz", "/healthz", NewHealthHandler(testhelpers.PingerStub{}).Check, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodGet, "/healthz", "/healthz", NewHealthHandler(testhelpers.PingerStub{Err: errors.New("down")}).Check, nil)
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", resp.Code)
	}
}

var _ PointFacade = (*testhelpers.PointFacadeStub)(nil)
