package profile

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/khoahotran/devconnector/internal/application/service"
	"github.com/khoahotran/devconnector/internal/domain/profile"
	"github.com/khoahotran/devconnector/pkg/logger"
)

// ProcessProfileEventUseCase keeps the profile cache in step with the events
// the API publishes: deletions evict, everything else re-warms.
type ProcessProfileEventUseCase struct {
	profileRepo profile.Repository
	cache       service.ProfileCache
	logger      logger.Logger
}

func NewProcessProfileEventUseCase(repo profile.Repository, cache service.ProfileCache, log logger.Logger) *ProcessProfileEventUseCase {
	return &ProcessProfileEventUseCase{profileRepo: repo, cache: cache, logger: log}
}

func (uc *ProcessProfileEventUseCase) Execute(ctx context.Context, e profile.Event) error {
	log := uc.logger.With(zap.String("event_type", string(e.Type)), zap.String("user_id", e.UserID.String()))

	if e.Type == profile.EventDeleted {
		if err := uc.cache.Invalidate(ctx, e.UserID); err != nil {
			return fmt.Errorf("evict profile cache: %w", err)
		}
		log.Info("Evicted profile from cache")
		return nil
	}

	p, err := uc.profileRepo.FindByUserID(ctx, e.UserID)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			log.Warn("Profile no longer exists, evicting")
			if err := uc.cache.Invalidate(ctx, e.UserID); err != nil {
				return fmt.Errorf("evict profile cache: %w", err)
			}
			return nil
		}
		return fmt.Errorf("load profile: %w", err)
	}

	if err := uc.cache.Set(ctx, p); err != nil {
		return fmt.Errorf("warm profile cache: %w", err)
	}
	log.Info("Re-warmed profile cache")
	return nil
}
