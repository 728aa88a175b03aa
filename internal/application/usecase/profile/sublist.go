package profile

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnector/internal/domain/profile"
	"github.com/khoahotran/devconnector/pkg/apperror"
)

type ExperienceInput struct {
	Title       string
	Company     string
	Location    string
	From        time.Time
	To          *time.Time
	Current     bool
	Description string
}

type EducationInput struct {
	School       string
	Degree       string
	FieldOfStudy string
	From         time.Time
	To           *time.Time
	Current      bool
	Description  string
}

func (uc *ProfileUseCase) AddExperience(ctx context.Context, userID uuid.UUID, in ExperienceInput) (*profile.Profile, error) {
	entry := profile.Experience{
		ID:          uuid.New(),
		Title:       in.Title,
		Company:     in.Company,
		Location:    in.Location,
		From:        in.From,
		To:          in.To,
		Current:     in.Current,
		Description: in.Description,
	}
	return uc.editLists(ctx, "AddExperience", profile.EventExperienceAdded, userID, func(p *profile.Profile) bool {
		p.Experience = profile.Prepend(p.Experience, entry)
		return true
	})
}

// RemoveExperience drops one experience entry. An unknown or malformed id
// leaves the profile untouched.
func (uc *ProfileUseCase) RemoveExperience(ctx context.Context, userID uuid.UUID, rawExpID string) (*profile.Profile, error) {
	expID := parseEntryID(rawExpID)
	return uc.editLists(ctx, "RemoveExperience", profile.EventExperienceRemoved, userID, func(p *profile.Profile) bool {
		var removed bool
		p.Experience, removed = profile.Remove(p.Experience, expID)
		return removed
	})
}

func (uc *ProfileUseCase) AddEducation(ctx context.Context, userID uuid.UUID, in EducationInput) (*profile.Profile, error) {
	entry := profile.Education{
		ID:           uuid.New(),
		School:       in.School,
		Degree:       in.Degree,
		FieldOfStudy: in.FieldOfStudy,
		From:         in.From,
		To:           in.To,
		Current:      in.Current,
		Description:  in.Description,
	}
	return uc.editLists(ctx, "AddEducation", profile.EventEducationAdded, userID, func(p *profile.Profile) bool {
		p.Education = profile.Prepend(p.Education, entry)
		return true
	})
}

func (uc *ProfileUseCase) RemoveEducation(ctx context.Context, userID uuid.UUID, rawEduID string) (*profile.Profile, error) {
	eduID := parseEntryID(rawEduID)
	return uc.editLists(ctx, "RemoveEducation", profile.EventEducationRemoved, userID, func(p *profile.Profile) bool {
		var removed bool
		p.Education, removed = profile.Remove(p.Education, eduID)
		return removed
	})
}

// editLists reloads the profile, applies mutate and saves the embedded lists
// under the version check, retrying from a fresh read on conflict. mutate
// reports whether it changed anything; when it did not, nothing is written.
func (uc *ProfileUseCase) editLists(
	ctx context.Context,
	spanName string,
	eventType profile.EventType,
	userID uuid.UUID,
	mutate func(p *profile.Profile) bool,
) (*profile.Profile, error) {
	ctx, span := tracer.Start(ctx, spanName, userSpan(userID))
	defer span.End()

	for attempt := 1; attempt <= uc.maxRetries; attempt++ {
		p, err := uc.profileRepo.FindByUserID(ctx, userID)
		if err != nil {
			err = storeError("load profile", userID, err)
			span.RecordError(err)
			return nil, err
		}

		if !mutate(p) {
			return p, nil
		}
		p.UpdatedAt = uc.now()

		err = uc.profileRepo.SaveLists(ctx, p)
		if err == nil {
			span.SetAttributes(attribute.Int("attempts", attempt))
			uc.afterWrite(ctx, eventType, userID)
			return p, nil
		}
		if !errors.Is(err, profile.ErrVersionConflict) {
			err = storeError("save profile lists", userID, err)
			span.RecordError(err)
			return nil, err
		}
		uc.logger.Warn("Profile changed during list edit, retrying",
			zap.String("user_id", userID.String()),
			zap.Int("attempt", attempt),
		)
	}

	err := apperror.NewInternal("profile list edit retries exhausted", profile.ErrVersionConflict)
	span.RecordError(err)
	return nil, err
}

// parseEntryID maps a malformed id to uuid.Nil, which no stored entry carries.
func parseEntryID(raw string) uuid.UUID {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}
	return id
}
