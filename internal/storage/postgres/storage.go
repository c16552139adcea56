package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/polkiloo/pointledger/internal/domain/errors"
	"github.com/polkiloo/pointledger/internal/domain/model"
	"github.com/polkiloo/pointledger/internal/domain/repository"
)

// querier is satisfied by both the pool and a pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type pgxPool interface {
	querier
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type userPointRepository struct {
	db querier
}

type pointHistoryRepository struct {
	db querier
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("postgres storage ready", slog.String("host", cfg.ConnConfig.Host))
	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// UserPoints returns the balance repository.
func (s *Storage) UserPoints() repository.UserPointRepository {
	return &userPointRepository{db: s.pool}
}

// PointHistories returns the history repository.
func (s *Storage) PointHistories() repository.PointHistoryRepository {
	return &pointHistoryRepository{db: s.pool}
}

// WithinTransaction runs fn with repositories bound to a single transaction.
func (s *Storage) WithinTransaction(ctx context.Context, fn repository.TxFunc) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(ctx, &userPointRepository{db: tx}, &pointHistoryRepository{db: tx})
	return err
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS user_points (
            user_id BIGINT PRIMARY KEY,
            point BIGINT NOT NULL DEFAULT 0 CHECK (point >= 0),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS point_histories (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL,
            amount BIGINT NOT NULL CHECK (amount > 0),
            type TEXT NOT NULL CHECK (type IN ('CHARGE', 'USE')),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_point_histories_user ON point_histories(user_id, id)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- UserPointRepository implementation ---

func (r *userPointRepository) SelectByID(ctx context.Context, userID int64) (*model.UserPoint, error) {
	const query = `SELECT user_id, point, updated_at FROM user_points WHERE user_id=$1`
	var p model.UserPoint
	err := r.db.QueryRow(ctx, query, userID).Scan(&p.ID, &p.Point, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.EmptyUserPoint(userID), nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *userPointRepository) InsertOrUpdate(ctx context.Context, userID, point int64, at time.Time) (*model.UserPoint, error) {
	const query = `INSERT INTO user_points (user_id, point, updated_at)
                   VALUES ($1, $2, $3)
                   ON CONFLICT (user_id) DO UPDATE
                   SET point = EXCLUDED.point, updated_at = EXCLUDED.updated_at
                   RETURNING user_id, point, updated_at`
	var p model.UserPoint
	if err := r.db.QueryRow(ctx, query, userID, point, at).Scan(&p.ID, &p.Point, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// --- PointHistoryRepository implementation ---

func (r *pointHistoryRepository) Insert(ctx context.Context, userID, amount int64, typ model.TransactionType, at time.Time) (*model.PointHistory, error) {
	const query = `INSERT INTO point_histories (user_id, amount, type, created_at)
                   VALUES ($1, $2, $3, $4)
                   RETURNING id`
	if !typ.Valid() {
		return nil, fmt.Errorf("%w: %q", domainErrors.ErrUnknownTransactionType, typ)
	}
	h := model.PointHistory{UserID: userID, Amount: amount, Type: typ, CreatedAt: at}
	if err := r.db.QueryRow(ctx, query, userID, amount, string(typ), at).Scan(&h.ID); err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *pointHistoryRepository) ListByUserID(ctx context.Context, userID int64) ([]model.PointHistory, error) {
	const query = `SELECT id, user_id, amount, type, created_at
                   FROM point_histories WHERE user_id=$1 ORDER BY id`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]model.PointHistory, 0)
	for rows.Next() {
		var (
			h   model.PointHistory
			typ string
		)
		if err := rows.Scan(&h.ID, &h.UserID, &h.Amount, &typ, &h.CreatedAt); err != nil {
			return nil, err
		}
		h.Type = model.TransactionType(typ)
		result = append(result, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Ping verifies database connectivity.
func (s *Storage) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}
