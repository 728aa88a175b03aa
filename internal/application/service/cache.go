package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/khoahotran/devconnector/internal/domain/profile"
)

// ProfileCache holds assembled profiles keyed by user id. A miss returns
// (nil, nil); errors are transport failures and callers fall back to storage.
type ProfileCache interface {
	Get(ctx context.Context, userID uuid.UUID) (*profile.Profile, error)
	Set(ctx context.Context, p *profile.Profile) error
	Invalidate(ctx context.Context, userID uuid.UUID) error
}
