package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOutboxRepository struct {
	mock.Mock
}

func (m *MockOutboxRepository) Save(ctx context.Context, entries ...*shared.OutboxEntry) error {
	return m.Called(ctx, entries).Error(0)
}

func (m *MockOutboxRepository) FindPending(ctx context.Context, limit int) ([]*shared.OutboxEntry, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]*shared.OutboxEntry), args.Error(1)
}

func (m *MockOutboxRepository) FindRetryable(ctx context.Context, before time.Time, limit int) ([]*shared.OutboxEntry, error) {
	args := m.Called(ctx, before, limit)
	return args.Get(0).([]*shared.OutboxEntry), args.Error(1)
}

func (m *MockOutboxRepository) MarkProcessing(ctx context.Context, ids []uuid.UUID) ([]*shared.OutboxEntry, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]*shared.OutboxEntry), args.Error(1)
}

func (m *MockOutboxRepository) Update(ctx context.Context, entry *shared.OutboxEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockOutboxRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOutboxRepository) CountByStatus(ctx context.Context) (map[shared.OutboxStatus]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[shared.OutboxStatus]int64), args.Error(1)
}

func TestOutboxService_Stats(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		counts  map[shared.OutboxStatus]int64
		total   int64
		healthy bool
	}{
		{"empty", map[shared.OutboxStatus]int64{}, 0, true},
		{"delivering", map[shared.OutboxStatus]int64{
			shared.OutboxStatusPending: 3,
			shared.OutboxStatusSent:    10,
			shared.OutboxStatusFailed:  1,
		}, 14, true},
		{"dead letters", map[shared.OutboxStatus]int64{
			shared.OutboxStatusSent: 4,
			shared.OutboxStatusDead: 2,
		}, 6, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockOutboxRepository)
			repo.On("CountByStatus", ctx).Return(tt.counts, nil)

			stats, err := NewOutboxService(repo, nil).Stats(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.total, stats.Total)
			assert.Equal(t, tt.healthy, stats.Healthy)
			assert.Equal(t, tt.counts[shared.OutboxStatusDead], stats.Dead)
		})
	}

	t.Run("repository failure", func(t *testing.T) {
		repo := new(MockOutboxRepository)
		repo.On("CountByStatus", ctx).Return(nil, errors.New("db down"))

		_, err := NewOutboxService(repo, nil).Stats(ctx)
		assert.Error(t, err)
	})
}
