package appstate

import (
	"cmp"
	"fmt"
	"slices"
	"time"
)

// Decision is the verdict on a feed card.
type Decision string

const (
	Like Decision = "like"
	Pass Decision = "pass"
)

// openingLine is the preview of a conversation nobody has written in yet.
const openingLine = "Up for a session?"

// Match records that ActorID liked ProfileID.
// Matches are one-sided: a like alone creates one.
type Match struct {
	ID             string    `json:"id"`
	ActorID        string    `json:"actorId"`
	ProfileID      string    `json:"profileId"`
	ConversationID string    `json:"conversationId"`
	CreatedAt      time.Time `json:"createdAt"`
}

// MatchResult reports the effect of a Decide call.
type MatchResult struct {
	// Match and Conversation are set for likes.
	Match        *Match
	Conversation *Conversation
	// Created is false when the pair was already matched.
	Created bool
	// Exhausted is true when no undecided card is left.
	Exhausted bool
}

// ConversationKey is the id of the conversation between a and b.
// The key is symmetric.
func ConversationKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + ":" + b
}

// Decide applies a like or pass of the signed-in actor to a feed profile.
//
// Behavior:
//   - Deck already exhausted → Exhausted result, nothing changes.
//   - like → Match plus a Conversation seeded unread, each created at most
//     once per pair.
//   - pass → the card is only marked decided.
func (s *Store) Decide(actorID, targetID string, d Decision) (MatchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.actingAs(actorID)
	if err != nil {
		return MatchResult{}, err
	}
	if !Can(a, CapSwipe) {
		return MatchResult{}, fmt.Errorf("%w: %s cannot swipe", ErrForbidden, a.ActorRole())
	}
	if d != Like && d != Pass {
		return MatchResult{}, fmt.Errorf("%w: decision %q", ErrInvalidArgument, d)
	}
	if _, ok := s.nextCard(actorID); !ok {
		return MatchResult{Exhausted: true}, nil
	}

	target, ok := s.profile(targetID)
	if !ok {
		return MatchResult{}, fmt.Errorf("%w: profile %s", ErrNotFound, targetID)
	}
	if targetID == actorID {
		return MatchResult{}, fmt.Errorf("%w: cannot decide on yourself", ErrInvalidArgument)
	}
	s.decided[targetID] = true

	var res MatchResult
	if d == Like {
		m, created := s.ensureMatch(actorID, target)
		conv := s.conversations[m.ConversationID]
		mc, cc := *m, *conv
		res = MatchResult{Match: &mc, Conversation: &cc, Created: created}
		if created {
			s.logger.Info("match created", "actor_id", actorID, "profile_id", targetID)
		}
	}
	_, more := s.nextCard(actorID)
	res.Exhausted = !more
	return res, nil
}

// Feed returns the undecided cards in deck order.
func (s *Store) Feed() []Profile {
	s.mu.Lock()
	defer s.mu.Unlock()

	self := ""
	if s.session.actor != nil {
		self = s.session.actor.ActorID()
	}
	var out []Profile
	for _, p := range s.feed {
		if p.ID != self && !s.decided[p.ID] {
			out = append(out, p)
		}
	}
	return out
}

// NextCard returns the card on top of the deck.
func (s *Store) NextCard() (Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	self := ""
	if s.session.actor != nil {
		self = s.session.actor.ActorID()
	}
	return s.nextCard(self)
}

// ResetFeed forgets every decision so the deck starts over.
// Matches are kept.
func (s *Store) ResetFeed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decided = map[string]bool{}
}

// Matches returns the matches in creation order.
func (s *Store) Matches() []Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.matches)
}

// Conversations returns the signed-in actor's conversations, most recently
// active first. Admins see every conversation.
func (s *Store) Conversations() []Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.session.actor
	out := make([]Conversation, 0, len(s.conversations))
	for _, c := range s.conversations {
		if a != nil && (c.Has(a.ActorID()) || Can(a, CapModerate)) {
			out = append(out, *c)
		}
	}
	slices.SortFunc(out, func(a, b Conversation) int { return cmp.Compare(b.seq, a.seq) })
	return out
}

// Conversation returns one conversation by id.
func (s *Store) Conversation(id string) (Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.conversations[id]
	if !ok {
		return Conversation{}, false
	}
	return *c, true
}

func (s *Store) nextCard(self string) (Profile, bool) {
	for _, p := range s.feed {
		if p.ID != self && !s.decided[p.ID] {
			return p, true
		}
	}
	return Profile{}, false
}

func (s *Store) profile(id string) (Profile, bool) {
	for _, p := range s.feed {
		if p.ID == id {
			return p, true
		}
	}
	return Profile{}, false
}

func (s *Store) ensureMatch(actorID string, target Profile) (*Match, bool) {
	for i := range s.matches {
		if s.matches[i].ActorID == actorID && s.matches[i].ProfileID == target.ID {
			return &s.matches[i], false
		}
	}
	conv, _ := s.ensureConversation(actorID, target.ID)
	s.matches = append(s.matches, Match{
		ID:             s.newID(),
		ActorID:        actorID,
		ProfileID:      target.ID,
		ConversationID: conv.ID,
		CreatedAt:      s.now(),
	})
	return &s.matches[len(s.matches)-1], true
}

// ensureConversation returns the conversation between a and b, creating it
// unread with the opening preview. Caller holds s.mu.
func (s *Store) ensureConversation(a, b string) (*Conversation, bool) {
	key := ConversationKey(a, b)
	if c, ok := s.conversations[key]; ok {
		return c, false
	}
	c := &Conversation{
		ID:           key,
		Participants: [2]string{a, b},
		Title:        s.displayName(b),
		LastMessage:  openingLine,
		UpdatedAt:    s.now(),
		Unread:       true,
	}
	s.seq++
	c.seq = s.seq
	s.conversations[key] = c
	return c, true
}

func (s *Store) displayName(id string) string {
	switch a, _ := s.lookup(id); v := a.(type) {
	case *User:
		return v.Name
	case *Partner:
		return v.Name
	case *Admin:
		return v.Name
	}
	return id
}
