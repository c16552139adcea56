package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	domainErrors "github.com/polkiloo/pointledger/internal/domain/errors"
	"github.com/polkiloo/pointledger/internal/domain/model"
	"github.com/polkiloo/pointledger/internal/domain/repository"
)

const (
	keyPrefix     = "pointledger:"
	historySeqKey = keyPrefix + "history:seq"

	fieldPoint     = "point"
	fieldUpdatedAt = "updated_at"
)

// Storage keeps balances in hashes and histories in lists.
// Each command is atomic on its own; ordering across commands relies on the caller's user lock.
type Storage struct {
	client *goredis.Client
	logger *slog.Logger
}

type userPointRepository struct {
	storage *Storage
}

type pointHistoryRepository struct {
	storage *Storage
}

type historyRecord struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"userId"`
	Amount    int64  `json:"amount"`
	Type      string `json:"type"`
	CreatedAt int64  `json:"createdAt"`
}

// New connects to addr and verifies the connection.
func New(ctx context.Context, addr string, logger *slog.Logger) (*Storage, error) {
	client := goredis.NewClient(&goredis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", addr, err)
	}
	logger.Info("redis storage ready", slog.String("addr", addr))
	return newWithClient(client, logger), nil
}

func newWithClient(client *goredis.Client, logger *slog.Logger) *Storage {
	return &Storage{client: client, logger: logger}
}

// Close releases the client.
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ping verifies connectivity.
func (s *Storage) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.client.Ping(ctx).Err()
}

// UserPoints returns the balance repository.
func (s *Storage) UserPoints() repository.UserPointRepository {
	return &userPointRepository{storage: s}
}

// PointHistories returns the history repository.
func (s *Storage) PointHistories() repository.PointHistoryRepository {
	return &pointHistoryRepository{storage: s}
}

func userPointKey(userID int64) string {
	return keyPrefix + "user:" + strconv.FormatInt(userID, 10)
}

func historyKey(userID int64) string {
	return keyPrefix + "history:" + strconv.FormatInt(userID, 10)
}

// --- UserPointRepository implementation ---

func (r *userPointRepository) SelectByID(ctx context.Context, userID int64) (*model.UserPoint, error) {
	vals, err := r.storage.client.HMGet(ctx, userPointKey(userID), fieldPoint, fieldUpdatedAt).Result()
	if err != nil {
		return nil, err
	}
	if vals[0] == nil {
		return model.EmptyUserPoint(userID), nil
	}

	point, err := parseInt(vals[0])
	if err != nil {
		return nil, fmt.Errorf("decode point of user %d: %w", userID, err)
	}
	p := &model.UserPoint{ID: userID, Point: point}
	if vals[1] != nil {
		millis, err := parseInt(vals[1])
		if err != nil {
			return nil, fmt.Errorf("decode updated_at of user %d: %w", userID, err)
		}
		p.UpdatedAt = time.UnixMilli(millis)
	}
	return p, nil
}

func (r *userPointRepository) InsertOrUpdate(ctx context.Context, userID, point int64, at time.Time) (*model.UserPoint, error) {
	err := r.storage.client.HSet(ctx, userPointKey(userID),
		fieldPoint, point,
		fieldUpdatedAt, at.UnixMilli(),
	).Err()
	if err != nil {
		return nil, err
	}
	return &model.UserPoint{ID: userID, Point: point, UpdatedAt: time.UnixMilli(at.UnixMilli())}, nil
}

func parseInt(v any) (int64, error) {
	s, ok := v.(string)
	if !ok {
		return 0, fmt.Errorf("unexpected value type %T", v)
	}
	return strconv.ParseInt(s, 10, 64)
}

// --- PointHistoryRepository implementation ---

func (r *pointHistoryRepository) Insert(ctx context.Context, userID, amount int64, typ model.TransactionType, at time.Time) (*model.PointHistory, error) {
	if !typ.Valid() {
		return nil, fmt.Errorf("%w: %q", domainErrors.ErrUnknownTransactionType, typ)
	}
	id, err := r.storage.client.Incr(ctx, historySeqKey).Result()
	if err != nil {
		return nil, fmt.Errorf("next history id: %w", err)
	}

	rec := historyRecord{ID: id, UserID: userID, Amount: amount, Type: string(typ), CreatedAt: at.UnixMilli()}
	payload, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	if err := r.storage.client.RPush(ctx, historyKey(userID), payload).Err(); err != nil {
		return nil, err
	}
	return &model.PointHistory{ID: id, UserID: userID, Amount: amount, Type: typ, CreatedAt: at}, nil
}

func (r *pointHistoryRepository) ListByUserID(ctx context.Context, userID int64) ([]model.PointHistory, error) {
	raw, err := r.storage.client.LRange(ctx, historyKey(userID), 0, -1).Result()
	if err != nil && !errors.Is(err, goredis.Nil) {
		return nil, err
	}

	result := make([]model.PointHistory, 0, len(raw))
	for _, item := range raw {
		var rec historyRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, fmt.Errorf("decode history of user %d: %w", userID, err)
		}
		result = append(result, model.PointHistory{
			ID:        rec.ID,
			UserID:    rec.UserID,
			Amount:    rec.Amount,
			Type:      model.TransactionType(rec.Type),
			CreatedAt: time.UnixMilli(rec.CreatedAt),
		})
	}
	return result, nil
}
