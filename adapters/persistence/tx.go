package persistence

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnector/internal/application/service"
	"github.com/khoahotran/devconnector/pkg/logger"
)

type pgTxManager struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

func NewTxManager(pool *pgxpool.Pool, log logger.Logger) service.TxManager {
	return &pgTxManager{pool: pool, logger: log}
}

// Execute hands fn repositories bound to one transaction, committing when fn
// succeeds and rolling back when it fails or panics.
func (m *pgTxManager) Execute(ctx context.Context, fn service.TxFunc) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback(context.Background())
			panic(r)
		}
	}()

	if err := fn(NewPostgresProfileRepo(tx, m.logger), NewPostgresUserRepo(tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			m.logger.Warn("Transaction rollback failed", zap.Error(rbErr))
			return fmt.Errorf("transaction rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
