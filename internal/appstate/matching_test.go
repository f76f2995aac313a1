package appstate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/sportly/internal/appstate"
)

func TestConversationKey(t *testing.T) {
	assert.Equal(t, "101:104", appstate.ConversationKey("101", "104"))
	assert.Equal(t, appstate.ConversationKey("101", "104"), appstate.ConversationKey("104", "101"))
}

func TestDecide_LikeCreatesMatchAndConversation(t *testing.T) {
	s := newStore(t)
	signIn(t, s, "101")

	res, err := s.Decide("101", "104", appstate.Like)
	require.NoError(t, err)
	require.NotNil(t, res.Match)
	require.NotNil(t, res.Conversation)
	assert.True(t, res.Created)
	assert.False(t, res.Exhausted)

	assert.Equal(t, "101", res.Match.ActorID)
	assert.Equal(t, "104", res.Match.ProfileID)
	assert.Equal(t, "101:104", res.Match.ConversationID)

	conv := res.Conversation
	assert.Equal(t, "101:104", conv.ID)
	assert.True(t, conv.Unread)
	assert.Equal(t, "Up for a session?", conv.LastMessage)
	assert.Equal(t, "Lucas", conv.Title)
	assert.True(t, conv.Has("101"))
	assert.True(t, conv.Has("104"))
	assert.Empty(t, s.GetMessages(conv.ID))
}

func TestDecide_DistinctLikesMatchOnce(t *testing.T) {
	s := newStore(t)
	signIn(t, s, "101")

	for _, target := range []string{"102", "103", "104", "102", "104"} {
		_, err := s.Decide("101", target, appstate.Like)
		require.NoError(t, err)
	}

	matches := s.Matches()
	require.Len(t, matches, 3)
	convs := s.Conversations()
	require.Len(t, convs, 3)

	ids := map[string]bool{}
	for _, m := range matches {
		ids[m.ConversationID] = true
	}
	assert.Len(t, ids, 3)

	again, err := s.Decide("101", "103", appstate.Like)
	require.NoError(t, err)
	assert.False(t, again.Created)
	assert.Equal(t, matches[1].ID, again.Match.ID)
}

func TestDecide_PassOnlyAdvances(t *testing.T) {
	s := newStore(t)
	signIn(t, s, "101")

	top, ok := s.NextCard()
	require.True(t, ok)
	assert.Equal(t, "102", top.ID)

	res, err := s.Decide("101", "102", appstate.Pass)
	require.NoError(t, err)
	assert.Nil(t, res.Match)
	assert.Empty(t, s.Matches())
	assert.Empty(t, s.Conversations())

	top, ok = s.NextCard()
	require.True(t, ok)
	assert.Equal(t, "103", top.ID)
	for _, p := range s.Feed() {
		assert.NotEqual(t, "102", p.ID)
	}

	s.ResetFeed()
	top, _ = s.NextCard()
	assert.Equal(t, "102", top.ID)
}

func TestDecide_ExhaustedDeck(t *testing.T) {
	s := newStore(t)
	signIn(t, s, "101")

	feed := s.Feed()
	require.Len(t, feed, 8) // everyone but the signed-in user

	var res appstate.MatchResult
	var err error
	for _, p := range feed {
		res, err = s.Decide("101", p.ID, appstate.Pass)
		require.NoError(t, err)
	}
	assert.True(t, res.Exhausted)

	res, err = s.Decide("101", "104", appstate.Like)
	require.NoError(t, err)
	assert.True(t, res.Exhausted)
	assert.Nil(t, res.Match)
	assert.Empty(t, s.Matches())
}

func TestDecide_Errors(t *testing.T) {
	s := newStore(t)

	_, err := s.Decide("101", "104", appstate.Like)
	assert.ErrorIs(t, err, appstate.ErrUnauthorized)

	signIn(t, s, "101")
	_, err = s.Decide("102", "104", appstate.Like)
	assert.ErrorIs(t, err, appstate.ErrForbidden)

	_, err = s.Decide("101", "nobody", appstate.Like)
	assert.ErrorIs(t, err, appstate.ErrNotFound)

	_, err = s.Decide("101", "101", appstate.Like)
	assert.ErrorIs(t, err, appstate.ErrInvalidArgument)

	_, err = s.Decide("101", "104", appstate.Decision("superlike"))
	assert.ErrorIs(t, err, appstate.ErrInvalidArgument)

	signIn(t, s, "900")
	_, err = s.Decide("900", "104", appstate.Like)
	assert.ErrorIs(t, err, appstate.ErrForbidden)
}

func TestDecide_PartnersSwipeToo(t *testing.T) {
	s := newStore(t)
	signIn(t, s, "1")

	res, err := s.Decide("1", "101", appstate.Like)
	require.NoError(t, err)
	assert.Equal(t, "1:101", res.Conversation.ID)
	assert.Equal(t, "Sophie", res.Conversation.Title)
}

func TestSignInStartsFreshDeck(t *testing.T) {
	s := newStore(t)
	signIn(t, s, "101")
	_, err := s.Decide("101", "102", appstate.Pass)
	require.NoError(t, err)

	signIn(t, s, "103")
	top, ok := s.NextCard()
	require.True(t, ok)
	assert.Equal(t, "101", top.ID)
	assert.Len(t, s.Feed(), 8)
}

func TestConversations_MostRecentFirst(t *testing.T) {
	s := newStore(t)
	signIn(t, s, "101")

	_, err := s.Decide("101", "102", appstate.Like)
	require.NoError(t, err)
	_, err = s.Decide("101", "103", appstate.Like)
	require.NoError(t, err)

	convs := s.Conversations()
	require.Len(t, convs, 2)
	assert.Equal(t, "101:103", convs[0].ID)

	_, err = s.SendMessage("101:102", "hello", appstate.MessageText, nil)
	require.NoError(t, err)

	convs = s.Conversations()
	assert.Equal(t, "101:102", convs[0].ID)
	assert.Equal(t, "hello", convs[0].LastMessage)
}
