package substitution

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kanzleiworks/fristen-api/internal/domain"
	"github.com/kanzleiworks/fristen-api/internal/pkg/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) ListAway(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}
func (m *mockUserStore) ClearAway(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

// --- helpers ---

var now = time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC) // a Thursday

func ptr[T any](v T) *T { return &v }

func awayUser(sub *domain.User, from, until *time.Time) *domain.User {
	u := &domain.User{UserID: "u1", Name: "Anna", Email: "anna@kanzlei.example", Away: 1,
		AwayFrom: from, AwayUntil: until, Substitute: sub}
	if sub != nil {
		u.SubstituteID = &sub.UserID
	}
	return u
}

// --- Resolve tests ---

func TestResolve_NotAway_RoutesToSelf(t *testing.T) {
	r := NewResolver(nil, clock.Fixed(now))
	u := &domain.User{UserID: "u1", Away: 0, Substitute: &domain.User{UserID: "u2"}}

	routing := r.Resolve(u)

	assert.False(t, routing.Delegated)
	assert.Equal(t, u, routing.Recipient)
	assert.Nil(t, routing.Substitute)
}

func TestResolve_AwayWithoutSubstitute_RoutesToSelf(t *testing.T) {
	r := NewResolver(nil, clock.Fixed(now))
	u := awayUser(nil, nil, nil)

	routing := r.Resolve(u)

	assert.False(t, routing.Delegated)
	assert.Equal(t, u, routing.Recipient)
}

func TestResolve_AwayWithSubstitute_Delegates(t *testing.T) {
	r := NewResolver(nil, clock.Fixed(now))
	sub := &domain.User{UserID: "u2", Name: "Ben"}
	u := awayUser(sub, nil, nil)

	routing := r.Resolve(u)

	assert.True(t, routing.Delegated)
	assert.Equal(t, sub, routing.Recipient)
	assert.Equal(t, sub, routing.Substitute)
}

func TestResolve_AwayWindowNotStarted_RoutesToSelf(t *testing.T) {
	r := NewResolver(nil, clock.Fixed(now))
	sub := &domain.User{UserID: "u2"}
	u := awayUser(sub, ptr(now.AddDate(0, 0, 3)), nil)

	routing := r.Resolve(u)

	assert.False(t, routing.Delegated)
	assert.Equal(t, u, routing.Recipient)
}

func TestResolve_AwayWindowEnded_RoutesToSelf(t *testing.T) {
	// Flag still set but the window end lies in the past: resolution
	// self-corrects even before auto-expiry persists the cleared flag.
	r := NewResolver(nil, clock.Fixed(now))
	sub := &domain.User{UserID: "u2"}
	u := awayUser(sub, nil, ptr(now.AddDate(0, 0, -1)))

	routing := r.Resolve(u)

	assert.False(t, routing.Delegated)
	assert.Equal(t, u, routing.Recipient)
}

func TestResolve_IndefinitelyAway_Delegates(t *testing.T) {
	r := NewResolver(nil, clock.Fixed(now))
	sub := &domain.User{UserID: "u2"}
	u := awayUser(sub, nil, nil)

	assert.True(t, r.Resolve(u).Delegated)
}

func TestResolve_SelfSubstitution_RoutesToSelf(t *testing.T) {
	r := NewResolver(nil, clock.Fixed(now))
	u := awayUser(&domain.User{UserID: "u1"}, nil, nil)

	routing := r.Resolve(u)

	assert.False(t, routing.Delegated)
	assert.Equal(t, u, routing.Recipient)
}

func TestResolve_SubstituteAlsoAway_DelegatesSingleHop(t *testing.T) {
	r := NewResolver(nil, clock.Fixed(now))
	subsSub := &domain.User{UserID: "u3"}
	sub := &domain.User{UserID: "u2", Away: 1, Substitute: subsSub}
	u := awayUser(sub, nil, nil)

	routing := r.Resolve(u)

	assert.True(t, routing.Delegated)
	assert.Equal(t, sub, routing.Recipient) // never u3
}

// --- ExpireStale tests ---

func TestExpireStale_ClearsOnlyPastWindows(t *testing.T) {
	us := &mockUserStore{}
	us.On("ListAway", mock.Anything).Return([]domain.User{
		{UserID: "past", Away: 1, AwayUntil: ptr(now.AddDate(0, 0, -2))},
		{UserID: "future", Away: 1, AwayUntil: ptr(now.AddDate(0, 0, 2))},
		{UserID: "open-ended", Away: 1},
	}, nil)
	us.On("ClearAway", mock.Anything, "past").Return(nil)

	r := NewResolver(us, clock.Fixed(now))
	expired, err := r.ExpireStale(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, 1, expired)
	us.AssertExpectations(t)
	us.AssertNotCalled(t, "ClearAway", mock.Anything, "future")
	us.AssertNotCalled(t, "ClearAway", mock.Anything, "open-ended")
}

func TestExpireStale_ListError(t *testing.T) {
	us := &mockUserStore{}
	storeErr := errors.New("dynamo error")
	us.On("ListAway", mock.Anything).Return([]domain.User{}, storeErr)

	r := NewResolver(us, clock.Fixed(now))
	_, err := r.ExpireStale(context.Background(), now)

	require.Error(t, err)
	assert.Equal(t, storeErr, err)
}

func TestExpireStale_ClearFailureSkipsUser(t *testing.T) {
	us := &mockUserStore{}
	us.On("ListAway", mock.Anything).Return([]domain.User{
		{UserID: "a", Away: 1, AwayUntil: ptr(now.AddDate(0, 0, -1))},
		{UserID: "b", Away: 1, AwayUntil: ptr(now.AddDate(0, 0, -1))},
	}, nil)
	us.On("ClearAway", mock.Anything, "a").Return(errors.New("throttled"))
	us.On("ClearAway", mock.Anything, "b").Return(nil)

	r := NewResolver(us, clock.Fixed(now))
	expired, err := r.ExpireStale(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, 1, expired)
	us.AssertExpectations(t)
}
