package services

import (
	"context"
	"time"

	"oshalog/internal/database"
	"oshalog/internal/logger"
	"oshalog/internal/metrics"

	"gorm.io/gorm"
)

type txKey struct{}

type holdKey struct{}

// TransactionService runs engine operations one at a time against the
// store. The lock is taken once per operation and held until it returns,
// so multi-statement sequences (case number read then insert, multi-query
// reports) never interleave with another caller.
type TransactionService struct {
	db      database.DB
	metrics *metrics.Recorder
	log     logger.Logger
}

func NewTransactionService(db database.DB, recorder *metrics.Recorder) *TransactionService {
	return &TransactionService{
		db:      db,
		metrics: recorder,
		log:     logger.New("TransactionService"),
	}
}

// GetTransaction returns the gorm transaction bound to ctx by Execute.
func GetTransaction(ctx context.Context) (*gorm.DB, bool) {
	tx, ok := ctx.Value(txKey{}).(*gorm.DB)
	return tx, ok && tx != nil
}

func holdsLock(ctx context.Context) bool {
	held, _ := ctx.Value(holdKey{}).(bool)
	return held
}

// Execute runs fn under the store lock inside a single transaction. Any
// error from fn rolls the transaction back. Calls nested inside another
// Execute or Read reuse the outer hold.
func (s *TransactionService) Execute(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	if holdsLock(ctx) {
		if _, ok := GetTransaction(ctx); ok {
			return fn(ctx)
		}
		return s.inTransaction(ctx, fn)
	}

	return s.serialize(ctx, operation, func(ctx context.Context) error {
		return s.inTransaction(ctx, fn)
	})
}

// Read runs fn under the store lock without a transaction.
func (s *TransactionService) Read(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	if holdsLock(ctx) {
		return fn(ctx)
	}
	return s.serialize(ctx, operation, fn)
}

func (s *TransactionService) serialize(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	waitStart := time.Now()
	s.db.Lock()
	defer s.db.Unlock()
	s.metrics.LockWait(time.Since(waitStart))

	start := time.Now()
	err := fn(context.WithValue(ctx, holdKey{}, true))
	s.metrics.Observe(operation, err, time.Since(start))

	if err != nil {
		s.log.Function("serialize").Debug("operation failed", "operation", operation, "error", err)
	}
	return err
}

func (s *TransactionService) inTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.db.SQLWithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}
