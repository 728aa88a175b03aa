package profile

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/khoahotran/devconnector/internal/application/service"
	"github.com/khoahotran/devconnector/internal/domain/profile"
)

type mockProfileRepo struct {
	mock.Mock
}

func (m *mockProfileRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*profile.Profile, error) {
	args := m.Called(ctx, userID)
	if fn, ok := args.Get(0).(func(context.Context, uuid.UUID) *profile.Profile); ok {
		return fn(ctx, userID), args.Error(1)
	}
	p, _ := args.Get(0).(*profile.Profile)
	return p, args.Error(1)
}

func (m *mockProfileRepo) List(ctx context.Context) ([]*profile.Profile, error) {
	args := m.Called(ctx)
	ps, _ := args.Get(0).([]*profile.Profile)
	return ps, args.Error(1)
}

func (m *mockProfileRepo) Create(ctx context.Context, p *profile.Profile) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockProfileRepo) Merge(ctx context.Context, userID uuid.UUID, u profile.Update) (*profile.Profile, error) {
	args := m.Called(ctx, userID, u)
	p, _ := args.Get(0).(*profile.Profile)
	return p, args.Error(1)
}

func (m *mockProfileRepo) SaveLists(ctx context.Context, p *profile.Profile) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockProfileRepo) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

type mockTxManager struct {
	mock.Mock
}

func (m *mockTxManager) Execute(ctx context.Context, fn service.TxFunc) error {
	return m.Called(ctx, fn).Error(0)
}
