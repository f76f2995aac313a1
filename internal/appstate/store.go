// Package appstate is the client-side domain state of one Sportly session:
// the swipe feed and its matches, conversations and their message logs,
// bookings against partner slots, reviews, and the partner offer catalog.
//
// A Store is an explicit object built once per session and passed to its
// consumers. All state is in memory; every method is safe for concurrent
// use.
package appstate

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	svcErr "github.com/oggyb/sportly/internal/errors"
	"github.com/oggyb/sportly/internal/logger"
)

var (
	ErrUnauthorized      = fmt.Errorf("%w: no signed-in actor", svcErr.ErrUnauthorized)
	ErrForbidden         = fmt.Errorf("%w: actor may not perform this action", svcErr.ErrPermissionDenied)
	ErrNotFound          = svcErr.ErrNotFound
	ErrInvalidArgument   = svcErr.ErrInvalidArgument
	ErrInvalidTransition = errors.New("invalid booking status transition")
	ErrSlotUnavailable   = errors.New("time slot is no longer available")
	ErrNotReviewable     = errors.New("booking cannot be reviewed")
)

// Store holds the domain state of one session.
type Store struct {
	mu     sync.Mutex
	now    func() time.Time
	newID  func() string
	logger *slog.Logger

	// directory
	users    map[string]*User
	partners map[string]*Partner
	admins   map[string]*Admin

	session Session

	// matching
	feed    []Profile
	decided map[string]bool
	matches []Match

	// conversations
	conversations map[string]*Conversation
	messages      map[string][]Message
	seq           int64

	// bookings
	bookings     []*Booking
	bookingIndex map[string]*Booking
	reviews      []Review
	reviewed     map[string]bool

	// catalog
	offers []*Offer
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDs replaces the uuid generator.
func WithIDs(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// WithLogger sets the logger; the default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// NewStore builds a session store over the given directory of actors.
// The feed holds every user and partner profile in directory order.
func NewStore(dir Directory, opts ...Option) *Store {
	s := &Store{
		now:           time.Now,
		newID:         uuid.NewString,
		logger:        logger.Discard(),
		users:         map[string]*User{},
		partners:      map[string]*Partner{},
		admins:        map[string]*Admin{},
		decided:       map[string]bool{},
		conversations: map[string]*Conversation{},
		messages:      map[string][]Message{},
		bookingIndex:  map[string]*Booking{},
		reviewed:      map[string]bool{},
	}
	for _, o := range opts {
		o(s)
	}

	for _, u := range dir.Users {
		c := *u
		s.users[c.ID] = &c
		s.feed = append(s.feed, c.Profile)
	}
	for _, p := range dir.Partners {
		c := p.clone()
		s.partners[c.ID] = c
		s.feed = append(s.feed, c.Profile)
	}
	for _, a := range dir.Admins {
		c := *a
		s.admins[c.ID] = &c
	}
	for _, o := range dir.Offers {
		c := o
		s.offers = append(s.offers, &c)
	}
	for _, b := range dir.Bookings {
		c := b
		conv, _ := s.ensureConversation(c.UserID, c.PartnerID)
		c.ConversationID = conv.ID
		s.bookings = append(s.bookings, &c)
		s.bookingIndex[c.ID] = &c
	}
	return s
}

// Reset clears matches, conversations, messages, bookings and their
// reviews. The directory, the session, the feed position, partner revenue
// and ratings, and the catalog are kept.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.matches = nil
	s.conversations = map[string]*Conversation{}
	s.messages = map[string][]Message{}
	s.bookings = nil
	s.bookingIndex = map[string]*Booking{}
	s.reviews = nil
	s.reviewed = map[string]bool{}
	s.logger.Info("session state reset")
}

// actor returns the signed-in actor. Caller holds s.mu.
func (s *Store) actor() (Actor, error) {
	if s.session.actor == nil {
		return nil, ErrUnauthorized
	}
	return s.session.actor, nil
}

// actingAs checks that id names the signed-in actor. Caller holds s.mu.
func (s *Store) actingAs(id string) (Actor, error) {
	a, err := s.actor()
	if err != nil {
		return nil, err
	}
	if a.ActorID() != id {
		return nil, fmt.Errorf("%w: signed in as %s, not %s", ErrForbidden, a.ActorID(), id)
	}
	return a, nil
}

// lookup resolves any known actor by id. Caller holds s.mu.
func (s *Store) lookup(id string) (Actor, bool) {
	if u, ok := s.users[id]; ok {
		return u, true
	}
	if p, ok := s.partners[id]; ok {
		return p, true
	}
	if a, ok := s.admins[id]; ok {
		return a, true
	}
	return nil, false
}
