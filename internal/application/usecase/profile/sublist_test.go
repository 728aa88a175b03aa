package profile

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/devconnector/adapters/memory"
	"github.com/khoahotran/devconnector/internal/domain/profile"
	"github.com/khoahotran/devconnector/pkg/apperror"
	"github.com/khoahotran/devconnector/pkg/logger"
)

func date(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestAddExperience_WithoutProfile(t *testing.T) {
	f := newFixture(t, 3)

	_, err := f.uc.AddExperience(context.Background(), f.owner.ID, ExperienceInput{
		Title: "Engineer", Company: "Acme", From: date("2020-01-01"),
	})
	assertNoProfile(t, err)
	assert.Empty(t, f.events.Events())
}

func TestAddExperience_MostRecentFirst(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()
	f.seedProfile(t)

	_, err := f.uc.AddExperience(ctx, f.owner.ID, ExperienceInput{Title: "Junior", Company: "A", From: date("2018-01-01")})
	require.NoError(t, err)
	p, err := f.uc.AddExperience(ctx, f.owner.ID, ExperienceInput{Title: "Senior", Company: "B", From: date("2021-01-01")})
	require.NoError(t, err)

	require.Len(t, p.Experience, 2)
	assert.Equal(t, "Senior", p.Experience[0].Title)
	assert.Equal(t, "Junior", p.Experience[1].Title)
	assert.NotEqual(t, uuid.Nil, p.Experience[0].ID)
	assert.NotEqual(t, p.Experience[0].ID, p.Experience[1].ID)

	stored, err := f.store.Profiles().FindByUserID(ctx, f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Experience, stored.Experience)
	assert.Equal(t, []string{"go", "sql"}, stored.Skills, "list edits leave scalar fields alone")
}

func TestRemoveExperience(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()
	f.seedProfile(t)

	p, err := f.uc.AddExperience(ctx, f.owner.ID, ExperienceInput{Title: "Only", Company: "A", From: date("2018-01-01")})
	require.NoError(t, err)
	onlyID := p.Experience[0].ID
	require.Eventually(t, func() bool { return len(f.events.Events()) == 2 }, time.Second, 10*time.Millisecond)

	t.Run("unknown id leaves profile unchanged", func(t *testing.T) {
		got, err := f.uc.RemoveExperience(ctx, f.owner.ID, uuid.NewString())
		require.NoError(t, err)
		assert.Len(t, got.Experience, 1)
		time.Sleep(20 * time.Millisecond)
		assert.Len(t, f.events.Events(), 2, "no write, no event")
	})

	t.Run("malformed id leaves profile unchanged", func(t *testing.T) {
		got, err := f.uc.RemoveExperience(ctx, f.owner.ID, "garbage")
		require.NoError(t, err)
		assert.Len(t, got.Experience, 1)
	})

	t.Run("removing the only entry yields an empty list", func(t *testing.T) {
		got, err := f.uc.RemoveExperience(ctx, f.owner.ID, onlyID.String())
		require.NoError(t, err)
		assert.NotNil(t, got.Experience)
		assert.Empty(t, got.Experience)
	})
}

func TestEducation_AddAndRemove(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()
	f.seedProfile(t)

	to := date("2016-06-01")
	p, err := f.uc.AddEducation(ctx, f.owner.ID, EducationInput{
		School: "MIT", Degree: "BSc", FieldOfStudy: "CS", From: date("2012-09-01"), To: &to,
	})
	require.NoError(t, err)
	p, err = f.uc.AddEducation(ctx, f.owner.ID, EducationInput{
		School: "Stanford", Degree: "MSc", FieldOfStudy: "CS", From: date("2016-09-01"), Current: true,
	})
	require.NoError(t, err)
	require.Len(t, p.Education, 2)
	assert.Equal(t, "Stanford", p.Education[0].School)

	p, err = f.uc.RemoveEducation(ctx, f.owner.ID, p.Education[1].ID.String())
	require.NoError(t, err)
	require.Len(t, p.Education, 1)
	assert.Equal(t, "Stanford", p.Education[0].School)

	assert.Eventually(t, func() bool { return len(f.events.Events()) == 4 }, time.Second, 10*time.Millisecond)
	assert.ElementsMatch(t, []profile.EventType{
		profile.EventUpserted, profile.EventEducationAdded, profile.EventEducationAdded, profile.EventEducationRemoved,
	}, f.eventTypes())
}

func TestAddExperience_ConcurrentAddsAreAllKept(t *testing.T) {
	const writers = 10
	f := newFixture(t, writers+1)
	ctx := context.Background()
	f.seedProfile(t)

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.AddExperience(ctx, f.owner.ID, ExperienceInput{Title: "Job", Company: "Co", From: date("2020-01-01")})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	p, err := f.store.Profiles().FindByUserID(ctx, f.owner.ID)
	require.NoError(t, err)
	assert.Len(t, p.Experience, writers)
}

func TestEditLists_RetriesOnVersionConflict(t *testing.T) {
	repo := new(mockProfileRepo)
	uc := NewProfileUseCase(repo, nil, memory.NewProfileCache(), memory.NewEventSink(), logger.NewNop(), 3)
	userID := uuid.New()

	repo.On("FindByUserID", mock.Anything, userID).
		Return(func(context.Context, uuid.UUID) *profile.Profile {
			return &profile.Profile{UserID: userID, Version: 1}
		}, nil)
	repo.On("SaveLists", mock.Anything, mock.Anything).Return(profile.ErrVersionConflict).Once()
	repo.On("SaveLists", mock.Anything, mock.Anything).Return(nil).Once()

	p, err := uc.AddExperience(context.Background(), userID, ExperienceInput{Title: "T", Company: "C", From: date("2020-01-01")})
	require.NoError(t, err)
	assert.Len(t, p.Experience, 1)
	repo.AssertNumberOfCalls(t, "FindByUserID", 2)
	repo.AssertNumberOfCalls(t, "SaveLists", 2)
}

func TestEditLists_RetriesExhausted(t *testing.T) {
	repo := new(mockProfileRepo)
	uc := NewProfileUseCase(repo, nil, memory.NewProfileCache(), memory.NewEventSink(), logger.NewNop(), 2)
	userID := uuid.New()

	repo.On("FindByUserID", mock.Anything, userID).
		Return(func(context.Context, uuid.UUID) *profile.Profile {
			return &profile.Profile{UserID: userID, Version: 7}
		}, nil)
	repo.On("SaveLists", mock.Anything, mock.Anything).Return(profile.ErrVersionConflict)

	_, err := uc.AddEducation(context.Background(), userID, EducationInput{School: "S", Degree: "D", FieldOfStudy: "F"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrInternal)
	assert.ErrorIs(t, err, profile.ErrVersionConflict)
	repo.AssertNumberOfCalls(t, "SaveLists", 2)
}
