package service

import (
	"context"

	"github.com/khoahotran/devconnector/internal/domain/profile"
	"github.com/khoahotran/devconnector/internal/domain/user"
)

// TxFunc runs against repositories bound to a single transaction.
type TxFunc func(profiles profile.Repository, users user.Repository) error

// TxManager commits when fn returns nil and rolls back otherwise.
type TxManager interface {
	Execute(ctx context.Context, fn TxFunc) error
}
