package profile

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnector/internal/application/service"
	"github.com/khoahotran/devconnector/internal/domain/profile"
	"github.com/khoahotran/devconnector/internal/domain/user"
	"github.com/khoahotran/devconnector/pkg/apperror"
	"github.com/khoahotran/devconnector/pkg/logger"
)

var tracer = otel.Tracer("profile_usecase")

const publishTimeout = 5 * time.Second

type ProfileUseCase struct {
	profileRepo profile.Repository
	txManager   service.TxManager
	cache       service.ProfileCache
	events      service.ProfileEventPublisher
	logger      logger.Logger
	maxRetries  int
	now         func() time.Time
}

func NewProfileUseCase(
	repo profile.Repository,
	tx service.TxManager,
	cache service.ProfileCache,
	events service.ProfileEventPublisher,
	log logger.Logger,
	maxWriteRetries int,
) *ProfileUseCase {
	if maxWriteRetries < 1 {
		maxWriteRetries = 1
	}
	return &ProfileUseCase{
		profileRepo: repo,
		txManager:   tx,
		cache:       cache,
		events:      events,
		logger:      log,
		maxRetries:  maxWriteRetries,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// GetByUser looks a profile up by a user id taken from the URL. A malformed
// id is reported exactly like a missing profile.
func (uc *ProfileUseCase) GetByUser(ctx context.Context, rawUserID string) (*profile.Profile, error) {
	userID, err := uuid.Parse(rawUserID)
	if err != nil {
		return nil, apperror.NewProfileNotFound(rawUserID)
	}
	return uc.GetMine(ctx, userID)
}

func (uc *ProfileUseCase) GetMine(ctx context.Context, userID uuid.UUID) (*profile.Profile, error) {
	ctx, span := tracer.Start(ctx, "GetProfile", userSpan(userID))
	defer span.End()

	if cached, err := uc.cache.Get(ctx, userID); err != nil {
		uc.logger.Warn("Profile cache read failed", zap.String("user_id", userID.String()), zap.Error(err))
	} else if cached != nil {
		span.SetAttributes(attribute.Bool("cache_hit", true))
		return cached, nil
	}

	p, err := uc.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		err = storeError("find profile", userID, err)
		span.RecordError(err)
		return nil, err
	}

	if err := uc.cache.Set(ctx, p); err != nil {
		uc.logger.Warn("Profile cache write failed", zap.String("user_id", userID.String()), zap.Error(err))
	}
	return p, nil
}

func (uc *ProfileUseCase) List(ctx context.Context) ([]*profile.Profile, error) {
	ctx, span := tracer.Start(ctx, "ListProfiles")
	defer span.End()

	profiles, err := uc.profileRepo.List(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, apperror.NewInternal("failed to list profiles", err)
	}
	span.SetAttributes(attribute.Int("count", len(profiles)))
	return profiles, nil
}

// Upsert creates the caller's profile on first write and merges into it
// afterwards. Losing a create race to a concurrent request turns the create
// into a merge.
func (uc *ProfileUseCase) Upsert(ctx context.Context, userID uuid.UUID, u profile.Update) (*profile.Profile, error) {
	ctx, span := tracer.Start(ctx, "UpsertProfile", userSpan(userID))
	defer span.End()

	p, err := uc.profileRepo.FindByUserID(ctx, userID)
	switch {
	case errors.Is(err, profile.ErrProfileNotFound):
		p = profile.New(userID, u, uc.now())
		err = uc.profileRepo.Create(ctx, p)
		if errors.Is(err, profile.ErrProfileExists) {
			uc.logger.Info("Profile created concurrently, merging instead", zap.String("user_id", userID.String()))
			p, err = uc.profileRepo.Merge(ctx, userID, u)
		}
	case err == nil:
		p, err = uc.profileRepo.Merge(ctx, userID, u)
	}
	if err != nil {
		err = storeError("upsert profile", userID, err)
		span.RecordError(err)
		return nil, err
	}

	uc.afterWrite(ctx, profile.EventUpserted, userID)
	return p, nil
}

// DeleteAccount removes the caller's profile and user record together.
// Deleting an account that is already gone succeeds.
func (uc *ProfileUseCase) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	ctx, span := tracer.Start(ctx, "DeleteAccount", userSpan(userID))
	defer span.End()

	err := uc.txManager.Execute(ctx, func(profiles profile.Repository, users user.Repository) error {
		if err := profiles.DeleteByUserID(ctx, userID); err != nil {
			return err
		}
		return users.Delete(ctx, userID)
	})
	if err != nil {
		span.RecordError(err)
		return apperror.NewInternal("failed to delete account", err)
	}

	uc.afterWrite(ctx, profile.EventDeleted, userID)
	return nil
}

// afterWrite drops the cached copy and announces the change. Neither step can
// fail the request.
func (uc *ProfileUseCase) afterWrite(ctx context.Context, eventType profile.EventType, userID uuid.UUID) {
	if err := uc.cache.Invalidate(ctx, userID); err != nil {
		uc.logger.Warn("Profile cache invalidation failed", zap.String("user_id", userID.String()), zap.Error(err))
	}

	e := profile.Event{Type: eventType, UserID: userID, OccurredAt: uc.now()}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := uc.events.PublishProfileEvent(ctx, e); err != nil {
			uc.logger.Error("Failed to publish profile event", err,
				zap.String("event_type", string(e.Type)),
				zap.String("user_id", userID.String()),
			)
		}
	}()
}

func storeError(op string, userID uuid.UUID, err error) error {
	if errors.Is(err, profile.ErrProfileNotFound) {
		return apperror.NewProfileNotFound(userID.String())
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.NewInternal("failed to "+op, err)
}

func userSpan(userID uuid.UUID) trace.SpanStartOption {
	return trace.WithAttributes(attribute.String("user_id", userID.String()))
}
