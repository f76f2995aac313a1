package appstate_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/sportly/internal/appstate"
)

func TestCanReviewBooking(t *testing.T) {
	s := newStore(t)

	assert.True(t, s.CanReviewBooking("b101"))  // confirmed
	assert.False(t, s.CanReviewBooking("b102")) // pending
	assert.False(t, s.CanReviewBooking("nope"))
}

func TestAddReview(t *testing.T) {
	s := newStore(t)
	signIn(t, s, "201")

	ok, err := s.AddReview("1", "b101", 5, "Great energy!")
	require.NoError(t, err)
	assert.True(t, ok)

	bassi, found := s.Partner("1")
	require.True(t, found)
	assert.Equal(t, 11, bassi.ReviewCount)
	assert.InDelta(t, (4.9*10+5)/11, bassi.Rating, 1e-9)

	reviews := s.Reviews("1")
	require.Len(t, reviews, 1)
	assert.Equal(t, "201", reviews[0].UserID)
	assert.Equal(t, 5, reviews[0].Rating)

	assert.False(t, s.CanReviewBooking("b101"))
	ok, err = s.AddReview("1", "b101", 4, "again")
	assert.ErrorIs(t, err, appstate.ErrNotReviewable)
	assert.False(t, ok)
	assert.Len(t, s.Reviews("1"), 1)
}

func TestAddReview_Validation(t *testing.T) {
	s := newStore(t)
	signIn(t, s, "201")

	for _, rating := range []int{0, 6, -1} {
		_, err := s.AddReview("1", "b101", rating, "")
		assert.ErrorIs(t, err, appstate.ErrInvalidArgument, "rating %d", rating)
	}

	// The limit counts characters, not bytes.
	_, err := s.AddReview("1", "b101", 4, strings.Repeat("é", appstate.MaxReviewComment+1))
	assert.ErrorIs(t, err, appstate.ErrInvalidArgument)

	_, err = s.AddReview("104", "b101", 4, "")
	assert.ErrorIs(t, err, appstate.ErrInvalidArgument)

	_, err = s.AddReview("1", "nope", 4, "")
	assert.ErrorIs(t, err, appstate.ErrNotFound)

	ok, err := s.AddReview("1", "b101", 4, strings.Repeat("é", appstate.MaxReviewComment))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAddReview_OnlyTheBookingUser(t *testing.T) {
	s := newStore(t)

	_, err := s.AddReview("1", "b101", 5, "")
	assert.ErrorIs(t, err, appstate.ErrUnauthorized)

	signIn(t, s, "202")
	_, err = s.AddReview("1", "b101", 5, "")
	assert.ErrorIs(t, err, appstate.ErrForbidden)

	_, err = s.AddReview("1", "b102", 5, "")
	assert.ErrorIs(t, err, appstate.ErrNotReviewable)
}
