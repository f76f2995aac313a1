package appstate_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/sportly/internal/appstate"
	svcErr "github.com/oggyb/sportly/internal/errors"
)

var start = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

// newStore builds a demo store whose clock ticks one second per read and
// whose ids are id-1, id-2, ...
func newStore(t *testing.T) *appstate.Store {
	t.Helper()
	return newStoreWith(t, appstate.DemoDirectory())
}

func newStoreWith(t *testing.T, dir appstate.Directory) *appstate.Store {
	t.Helper()
	clock := start
	n := 0
	return appstate.NewStore(dir,
		appstate.WithClock(func() time.Time {
			clock = clock.Add(time.Second)
			return clock
		}),
		appstate.WithIDs(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	)
}

func signIn(t *testing.T, s *appstate.Store, id string) {
	t.Helper()
	_, err := s.SignIn(id)
	require.NoError(t, err)
}

func TestSignIn(t *testing.T) {
	s := newStore(t)

	_, ok := s.Current()
	assert.False(t, ok)

	_, err := s.SignIn("nobody")
	assert.ErrorIs(t, err, appstate.ErrNotFound)

	a, err := s.SignIn("104")
	require.NoError(t, err)
	assert.Equal(t, appstate.RolePartner, a.ActorRole())

	// The snapshot is detached from the store.
	a.(*appstate.Partner).Revenue = 1_000_000
	rev, err := s.Revenue("104")
	require.NoError(t, err)
	assert.Zero(t, rev)

	s.SignOut()
	_, ok = s.Current()
	assert.False(t, ok)
}

func TestSentinelsMapToServiceErrors(t *testing.T) {
	assert.ErrorIs(t, appstate.ErrUnauthorized, svcErr.ErrUnauthorized)
	assert.ErrorIs(t, appstate.ErrForbidden, svcErr.ErrPermissionDenied)
	assert.ErrorIs(t, appstate.ErrNotFound, svcErr.ErrNotFound)
}

func TestCan(t *testing.T) {
	user := &appstate.User{}
	partner := &appstate.Partner{}
	admin := &appstate.Admin{}

	tests := []struct {
		actor appstate.Actor
		cap   appstate.Capability
		want  bool
	}{
		{user, appstate.CapSwipe, true},
		{user, appstate.CapBook, true},
		{user, appstate.CapManageOffers, false},
		{user, appstate.CapConfirmBookings, false},
		{partner, appstate.CapManageOffers, true},
		{partner, appstate.CapConfirmBookings, true},
		{partner, appstate.CapBook, false},
		{admin, appstate.CapModerate, true},
		{admin, appstate.CapSwipe, false},
		{admin, appstate.CapConfirmBookings, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, appstate.Can(tt.actor, tt.cap), "%s %s", tt.actor.ActorRole(), tt.cap)
	}
}

func TestReset(t *testing.T) {
	s := newStore(t)
	signIn(t, s, "101")
	_, err := s.Decide("101", "104", appstate.Like)
	require.NoError(t, err)
	_, err = s.CreateBooking("101", "104", "s1", "")
	require.NoError(t, err)

	s.Reset()

	assert.Empty(t, s.Matches())
	assert.Empty(t, s.Conversations())
	assert.Empty(t, s.Bookings(""))
	assert.Empty(t, s.GetMessages(appstate.ConversationKey("101", "104")))

	rev, err := s.Revenue("104")
	require.NoError(t, err)
	assert.Equal(t, 50, rev)
	_, ok := s.Current()
	assert.True(t, ok)
}

func TestReset_DropsReviews(t *testing.T) {
	s := newStore(t)
	signIn(t, s, "201")
	ok, err := s.AddReview("1", "b101", 5, "")
	require.NoError(t, err)
	require.True(t, ok)
	rated, _ := s.Partner("1")

	s.Reset()

	assert.Empty(t, s.Bookings(""))
	assert.Empty(t, s.Reviews("1"))
	assert.False(t, s.CanReviewBooking("b101"))
	after, _ := s.Partner("1")
	assert.Equal(t, rated.Rating, after.Rating)
	assert.Equal(t, rated.ReviewCount, after.ReviewCount)
}

func TestConcurrentSends(t *testing.T) {
	s := appstate.NewStore(appstate.DemoDirectory())
	signIn(t, s, "101")
	res, err := s.Decide("101", "104", appstate.Like)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.SendMessage(res.Conversation.ID, fmt.Sprintf("msg %d", i), appstate.MessageText, nil)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	msgs := s.GetMessages(res.Conversation.ID)
	assert.Len(t, msgs, 20)
	seen := map[string]bool{}
	for _, m := range msgs {
		seen[m.ID] = true
	}
	assert.Len(t, seen, 20)
}
