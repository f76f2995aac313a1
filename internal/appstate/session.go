package appstate

import "fmt"

// Session holds the signed-in actor.
type Session struct {
	actor Actor
}

// SignIn makes the actor with id the session actor and starts a fresh feed.
func (s *Store) SignIn(id string) (Actor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: actor %s", ErrNotFound, id)
	}
	s.session = Session{actor: a}
	s.decided = map[string]bool{}
	s.logger.Info("signed in", "actor_id", id, "role", a.ActorRole())
	return cloneActor(a), nil
}

// SignOut clears the session actor.
func (s *Store) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = Session{}
}

// Current returns a snapshot of the session actor.
func (s *Store) Current() (Actor, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session.actor == nil {
		return nil, false
	}
	return cloneActor(s.session.actor), true
}

// Partner returns a snapshot of a partner.
func (s *Store) Partner(id string) (Partner, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.partners[id]
	if !ok {
		return Partner{}, false
	}
	return *p.clone(), true
}
