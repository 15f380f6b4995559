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

	domainErrors "github.com/ashtari/pointledger/internal/domain/errors"
	"github.com/ashtari/pointledger/internal/domain/model"
	"github.com/ashtari/pointledger/internal/domain/repository"
)

type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
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

// Storage acts as the ledger repository factory backed by PostgreSQL.
// Outside a transaction queries run on the pool; Atomic hands out a copy
// whose queries run on one pgx.Tx.
type Storage struct {
	pool   pgxPool
	q      querier
	inTx   bool
	logger *slog.Logger
}

type accumulationRepository struct {
	storage *Storage
}

type usageRepository struct {
	storage *Storage
}

type usageDetailRepository struct {
	storage *Storage
}

type balanceRepository struct {
	storage *Storage
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

	storage := &Storage{pool: pool, q: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Accumulations() repository.AccumulationRepository {
	return &accumulationRepository{storage: s}
}

func (s *Storage) Usages() repository.UsageRepository {
	return &usageRepository{storage: s}
}

func (s *Storage) UsageDetails() repository.UsageDetailRepository {
	return &usageDetailRepository{storage: s}
}

func (s *Storage) Balances() repository.BalanceRepository {
	return &balanceRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS accumulations (
            id BIGSERIAL PRIMARY KEY,
            key TEXT UNIQUE NOT NULL,
            member_id BIGINT NOT NULL,
            amount BIGINT NOT NULL,
            available_amount BIGINT NOT NULL,
            expires_at TIMESTAMPTZ NOT NULL,
            manual_grant BOOLEAN NOT NULL DEFAULT FALSE,
            status TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS usages (
            id BIGSERIAL PRIMARY KEY,
            key TEXT UNIQUE NOT NULL,
            member_id BIGINT NOT NULL,
            order_number TEXT NOT NULL,
            total_amount BIGINT NOT NULL,
            cancelled_amount BIGINT NOT NULL DEFAULT 0,
            status TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS usage_details (
            id BIGSERIAL PRIMARY KEY,
            usage_key TEXT NOT NULL,
            accumulation_key TEXT NOT NULL,
            amount BIGINT NOT NULL,
            cancelled_amount BIGINT NOT NULL DEFAULT 0,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            UNIQUE (usage_key, accumulation_key)
        )`,
		`CREATE TABLE IF NOT EXISTS member_point_balances (
            member_id BIGINT PRIMARY KEY,
            available_balance BIGINT NOT NULL DEFAULT 0,
            total_accumulated BIGINT NOT NULL DEFAULT 0,
            total_used BIGINT NOT NULL DEFAULT 0,
            total_expired BIGINT NOT NULL DEFAULT 0,
            version BIGINT NOT NULL DEFAULT 0,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_accumulations_member ON accumulations(member_id, status, expires_at)`,
		`CREATE INDEX IF NOT EXISTS idx_usages_member ON usages(member_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_usage_details_usage ON usage_details(usage_key)`,
		`CREATE INDEX IF NOT EXISTS idx_usage_details_accumulation ON usage_details(accumulation_key)`,
	}

	for _, stmt := range statements {
		if _, err := s.q.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// Atomic executes fn with repositories bound to a single transaction.
// Nested calls join the enclosing transaction.
func (s *Storage) Atomic(ctx context.Context, fn func(repository.Factory) error) (err error) {
	if s.inTx {
		return fn(s)
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	txStorage := &Storage{pool: s.pool, q: tx, inTx: true, logger: s.logger}
	err = fn(txStorage)
	return err
}

// --- AccumulationRepository implementation ---

const accumulationColumns = `key, member_id, amount, available_amount, expires_at, manual_grant, status, created_at, updated_at`

func scanAccumulation(row pgx.Row) (*model.Accumulation, error) {
	var (
		acc       model.Accumulation
		amount    int64
		available int64
	)
	err := row.Scan(&acc.Key, &acc.MemberID, &amount, &available, &acc.ExpiresAt, &acc.ManualGrant, &acc.Status, &acc.CreatedAt, &acc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	acc.Amount = model.Money(amount)
	acc.AvailableAmount = model.Money(available)
	return &acc, nil
}

func (r *accumulationRepository) Save(ctx context.Context, acc *model.Accumulation) error {
	const query = `INSERT INTO accumulations (key, member_id, amount, available_amount, expires_at, manual_grant, status, created_at, updated_at)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
                   ON CONFLICT (key) DO UPDATE
                   SET available_amount = EXCLUDED.available_amount,
                       status = EXCLUDED.status,
                       updated_at = NOW()`
	_, err := r.storage.q.Exec(ctx, query,
		acc.Key, acc.MemberID, acc.Amount.Int64(), acc.AvailableAmount.Int64(),
		acc.ExpiresAt, acc.ManualGrant, acc.Status, acc.CreatedAt)
	return err
}

func (r *accumulationRepository) SaveAll(ctx context.Context, accs []*model.Accumulation) error {
	for _, acc := range accs {
		if err := r.Save(ctx, acc); err != nil {
			return err
		}
	}
	return nil
}

func (r *accumulationRepository) GetByKey(ctx context.Context, key string) (*model.Accumulation, error) {
	query := `SELECT ` + accumulationColumns + ` FROM accumulations WHERE key=$1`
	acc, err := scanAccumulation(r.storage.q.QueryRow(ctx, query, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return acc, nil
}

func (r *accumulationRepository) list(ctx context.Context, query string, args ...any) ([]*model.Accumulation, error) {
	rows, err := r.storage.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*model.Accumulation
	for rows.Next() {
		acc, err := scanAccumulation(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *accumulationRepository) ListAvailable(ctx context.Context, memberID int64) ([]*model.Accumulation, error) {
	query := `SELECT ` + accumulationColumns + `
              FROM accumulations
              WHERE member_id=$1 AND status='ACCUMULATED' AND available_amount > 0 AND expires_at > NOW()
              ORDER BY id`
	return r.list(ctx, query, memberID)
}

func (r *accumulationRepository) ListAvailableForUpdate(ctx context.Context, memberID int64) ([]*model.Accumulation, error) {
	query := `SELECT ` + accumulationColumns + `
              FROM accumulations
              WHERE member_id=$1 AND status='ACCUMULATED' AND available_amount > 0 AND expires_at > NOW()
              ORDER BY id
              FOR UPDATE`
	return r.list(ctx, query, memberID)
}

func (r *accumulationRepository) GetByKeysForUpdate(ctx context.Context, keys []string) (map[string]*model.Accumulation, error) {
	if len(keys) == 0 {
		return map[string]*model.Accumulation{}, nil
	}
	// Locking in primary key order keeps concurrent cancellations from
	// deadlocking each other.
	query := `SELECT ` + accumulationColumns + `
              FROM accumulations
              WHERE key = ANY($1)
              ORDER BY id
              FOR UPDATE`
	accs, err := r.list(ctx, query, keys)
	if err != nil {
		return nil, err
	}
	result := make(map[string]*model.Accumulation, len(accs))
	for _, acc := range accs {
		result[acc.Key] = acc
	}
	return result, nil
}

func (r *accumulationRepository) SumAvailable(ctx context.Context, memberID int64) (model.Money, error) {
	const query = `SELECT COALESCE(SUM(available_amount), 0)
                   FROM accumulations
                   WHERE member_id=$1 AND status='ACCUMULATED' AND expires_at > NOW()`
	var sum int64
	if err := r.storage.q.QueryRow(ctx, query, memberID).Scan(&sum); err != nil {
		return 0, err
	}
	return model.Money(sum), nil
}

// --- UsageRepository implementation ---

const usageColumns = `key, member_id, order_number, total_amount, cancelled_amount, status, created_at, updated_at`

func scanUsage(row pgx.Row) (*model.Usage, error) {
	var (
		usage     model.Usage
		total     int64
		cancelled int64
	)
	err := row.Scan(&usage.Key, &usage.MemberID, &usage.OrderNumber, &total, &cancelled, &usage.Status, &usage.CreatedAt, &usage.UpdatedAt)
	if err != nil {
		return nil, err
	}
	usage.TotalAmount = model.Money(total)
	usage.CancelledAmount = model.Money(cancelled)
	return &usage, nil
}

func (r *usageRepository) Save(ctx context.Context, usage *model.Usage) error {
	const query = `INSERT INTO usages (key, member_id, order_number, total_amount, cancelled_amount, status, created_at, updated_at)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
                   ON CONFLICT (key) DO UPDATE
                   SET cancelled_amount = EXCLUDED.cancelled_amount,
                       status = EXCLUDED.status,
                       updated_at = NOW()`
	_, err := r.storage.q.Exec(ctx, query,
		usage.Key, usage.MemberID, usage.OrderNumber, usage.TotalAmount.Int64(),
		usage.CancelledAmount.Int64(), usage.Status, usage.CreatedAt)
	return err
}

func (r *usageRepository) GetByKey(ctx context.Context, key string) (*model.Usage, error) {
	query := `SELECT ` + usageColumns + ` FROM usages WHERE key=$1`
	usage, err := scanUsage(r.storage.q.QueryRow(ctx, query, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return usage, nil
}

func (r *usageRepository) ListByMember(ctx context.Context, memberID int64, orderNumber string, limit, offset int) ([]model.Usage, error) {
	query := `SELECT ` + usageColumns + `
              FROM usages WHERE member_id=$1`
	args := []any{memberID}
	if orderNumber != "" {
		query += ` AND order_number=$2 ORDER BY created_at DESC LIMIT $3 OFFSET $4`
		args = append(args, orderNumber, limit, offset)
	} else {
		query += ` ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		args = append(args, limit, offset)
	}

	rows, err := r.storage.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Usage
	for rows.Next() {
		usage, err := scanUsage(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *usage)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- UsageDetailRepository implementation ---

func (r *usageDetailRepository) SaveAll(ctx context.Context, details []*model.UsageDetail) error {
	const query = `INSERT INTO usage_details (usage_key, accumulation_key, amount, cancelled_amount, created_at)
                   VALUES ($1, $2, $3, $4, $5)
                   ON CONFLICT (usage_key, accumulation_key) DO UPDATE
                   SET cancelled_amount = EXCLUDED.cancelled_amount`
	for _, d := range details {
		if _, err := r.storage.q.Exec(ctx, query,
			d.UsageKey, d.AccumulationKey, d.Amount.Int64(), d.CancelledAmount.Int64(), d.CreatedAt); err != nil {
			return err
		}
	}
	return nil
}

func (r *usageDetailRepository) listDetails(ctx context.Context, query string, arg string) ([]*model.UsageDetail, error) {
	rows, err := r.storage.q.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*model.UsageDetail
	for rows.Next() {
		var (
			d         model.UsageDetail
			amount    int64
			cancelled int64
		)
		if err := rows.Scan(&d.UsageKey, &d.AccumulationKey, &amount, &cancelled, &d.CreatedAt); err != nil {
			return nil, err
		}
		d.Amount = model.Money(amount)
		d.CancelledAmount = model.Money(cancelled)
		result = append(result, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *usageDetailRepository) ListByUsageKey(ctx context.Context, usageKey string) ([]*model.UsageDetail, error) {
	const query = `SELECT usage_key, accumulation_key, amount, cancelled_amount, created_at
                   FROM usage_details WHERE usage_key=$1 ORDER BY id`
	return r.listDetails(ctx, query, usageKey)
}

func (r *usageDetailRepository) ListByAccumulationKey(ctx context.Context, accumulationKey string) ([]*model.UsageDetail, error) {
	const query = `SELECT usage_key, accumulation_key, amount, cancelled_amount, created_at
                   FROM usage_details WHERE accumulation_key=$1 ORDER BY id`
	return r.listDetails(ctx, query, accumulationKey)
}

// --- BalanceRepository implementation ---

const balanceColumns = `member_id, available_balance, total_accumulated, total_used, total_expired, version, updated_at`

func scanBalance(row pgx.Row) (*model.MemberPointBalance, error) {
	var b model.MemberPointBalance
	err := row.Scan(&b.MemberID, &b.AvailableBalance, &b.TotalAccumulated, &b.TotalUsed, &b.TotalExpired, &b.Version, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *balanceRepository) get(ctx context.Context, memberID int64, forUpdate bool) (*model.MemberPointBalance, error) {
	query := `SELECT ` + balanceColumns + ` FROM member_point_balances WHERE member_id=$1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	balance, err := scanBalance(r.storage.q.QueryRow(ctx, query, memberID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return balance, nil
}

func (r *balanceRepository) Get(ctx context.Context, memberID int64) (*model.MemberPointBalance, error) {
	return r.get(ctx, memberID, false)
}

func (r *balanceRepository) GetForUpdate(ctx context.Context, memberID int64) (*model.MemberPointBalance, error) {
	return r.get(ctx, memberID, true)
}

func (r *balanceRepository) Save(ctx context.Context, balance *model.MemberPointBalance) error {
	const query = `INSERT INTO member_point_balances (member_id, available_balance, total_accumulated, total_used, total_expired, version, updated_at)
                   VALUES ($1, $2, $3, $4, $5, $6, NOW())
                   ON CONFLICT (member_id) DO UPDATE
                   SET available_balance = EXCLUDED.available_balance,
                       total_accumulated = EXCLUDED.total_accumulated,
                       total_used = EXCLUDED.total_used,
                       total_expired = EXCLUDED.total_expired,
                       version = EXCLUDED.version,
                       updated_at = NOW()`
	_, err := r.storage.q.Exec(ctx, query,
		balance.MemberID, balance.AvailableBalance, balance.TotalAccumulated,
		balance.TotalUsed, balance.TotalExpired, balance.Version)
	return err
}

func (r *balanceRepository) ListMemberIDs(ctx context.Context) ([]int64, error) {
	const query = `SELECT member_id FROM member_point_balances ORDER BY member_id`
	rows, err := r.storage.q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		result = append(result, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}
