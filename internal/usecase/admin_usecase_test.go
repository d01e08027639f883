package usecase

import (
	"context"
	"testing"

	"fanhouse/internal/entity"
	"fanhouse/internal/repo/persistent"
	"fanhouse/pkg/metrics"
	"fanhouse/pkg/realtime"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type adminFixture struct {
	uc        AdminUseCase
	users     *MockUserRepository
	creators  *MockCreatorRepository
	posts     *MockPostRepository
	ledger    *MockLedgerRepository
	publisher *MockPublisher
}

func newAdminFixture() *adminFixture {
	f := &adminFixture{
		users:     new(MockUserRepository),
		creators:  new(MockCreatorRepository),
		posts:     new(MockPostRepository),
		ledger:    new(MockLedgerRepository),
		publisher: new(MockPublisher),
	}
	log := testLogger()
	f.uc = NewAdminUseCase(f.users, f.creators, f.posts, f.ledger, NewEventBus(f.publisher, metrics.New(), log), log)
	return f
}

func TestListUsers_UsesAdminLimit(t *testing.T) {
	f := newAdminFixture()
	ctx := context.Background()

	f.users.On("List", ctx, 100).Return([]*entity.User{{ID: "u1"}}, nil)

	users, err := f.uc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestApproveAndRejectCreator(t *testing.T) {
	f := newAdminFixture()
	ctx := context.Background()

	f.creators.On("UpdateStatus", ctx, "c1", entity.VerificationApproved).
		Return(&entity.Creator{ID: "c1", UserID: "u1", VerificationStatus: entity.VerificationApproved}, nil)
	f.creators.On("UpdateStatus", ctx, "c1", entity.VerificationRejected).
		Return(&entity.Creator{ID: "c1", UserID: "u1", VerificationStatus: entity.VerificationRejected}, nil)
	f.publisher.On("Publish", ctx, realtime.ChannelAdmin, realtime.EventCreatorApproved, mock.Anything).Return(nil).Once()
	f.publisher.On("Publish", ctx, realtime.ChannelAdmin, realtime.EventCreatorRejected, mock.Anything).Return(nil).Once()

	creator, err := f.uc.ApproveCreator(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, creator.IsApproved())

	creator, err = f.uc.RejectCreator(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, entity.VerificationRejected, creator.VerificationStatus)

	f.publisher.AssertExpectations(t)
}

func TestApproveCreator_NotFound(t *testing.T) {
	f := newAdminFixture()
	ctx := context.Background()

	f.creators.On("UpdateStatus", ctx, "nope", entity.VerificationApproved).Return(nil, persistent.ErrNotFound)

	_, err := f.uc.ApproveCreator(ctx, "nope")
	assert.ErrorIs(t, err, ErrCreatorNotFound)
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDisable(t *testing.T) {
	f := newAdminFixture()
	ctx := context.Background()

	f.creators.On("Disable", ctx, "c1").Return(&entity.Creator{ID: "c1", VerificationStatus: entity.VerificationRejected}, nil)
	f.creators.On("Disable", ctx, "nope").Return(nil, persistent.ErrNotFound)
	f.posts.On("Deactivate", ctx, "p1").Return(&entity.Post{ID: "p1", IsActive: false}, nil)
	f.posts.On("Deactivate", ctx, "nope").Return(nil, persistent.ErrNotFound)

	creator, err := f.uc.DisableCreator(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, entity.VerificationRejected, creator.VerificationStatus)

	_, err = f.uc.DisableCreator(ctx, "nope")
	assert.ErrorIs(t, err, ErrCreatorNotFound)

	post, err := f.uc.DisablePost(ctx, "p1")
	require.NoError(t, err)
	assert.False(t, post.IsActive)

	_, err = f.uc.DisablePost(ctx, "nope")
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestTransactions_PassesFilter(t *testing.T) {
	f := newAdminFixture()
	ctx := context.Background()

	filter := entity.LedgerFilter{FanID: "fan", TransactionType: entity.TransactionPPVUnlock, Limit: 10}
	f.ledger.On("List", ctx, filter).Return([]*entity.LedgerEntry{{ID: "l1"}}, nil)

	entries, err := f.uc.Transactions(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, "l1", entries[0].ID)
}
