package appstate

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Offer is a partner-published listing.
type Offer struct {
	ID          string    `json:"id"`
	PartnerID   string    `json:"partnerId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       int       `json:"price"`
	Date        string    `json:"date"`
	Image       string    `json:"image"`
	Active      bool      `json:"active"`
	Boosted     bool      `json:"boosted"`
	CreatedAt   time.Time `json:"createdAt"`
}

// OfferSpec is the partner-provided part of an offer.
type OfferSpec struct {
	Title       string
	Description string
	Price       int
	Date        string
	Image       string
}

// AddOffer publishes an offer owned by the signed-in partner. New offers
// are active and not boosted.
func (s *Store) AddOffer(spec OfferSpec) (Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.actor()
	if err != nil {
		return Offer{}, err
	}
	if !Can(a, CapManageOffers) {
		return Offer{}, fmt.Errorf("%w: %s cannot publish offers", ErrForbidden, a.ActorRole())
	}
	if strings.TrimSpace(spec.Title) == "" {
		return Offer{}, fmt.Errorf("%w: title is required", ErrInvalidArgument)
	}
	if spec.Price < 0 {
		return Offer{}, fmt.Errorf("%w: negative price", ErrInvalidArgument)
	}

	o := &Offer{
		ID:          s.newID(),
		PartnerID:   a.ActorID(),
		Title:       spec.Title,
		Description: spec.Description,
		Price:       spec.Price,
		Date:        spec.Date,
		Image:       spec.Image,
		Active:      true,
		CreatedAt:   s.now(),
	}
	s.offers = append(s.offers, o)
	s.logger.Info("offer added", "offer_id", o.ID, "partner_id", o.PartnerID)
	return *o, nil
}

// ToggleOfferStatus flips the offer between active and hidden.
func (s *Store) ToggleOfferStatus(id string) (Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.ownedOffer(id)
	if err != nil {
		return Offer{}, err
	}
	s.offers[i].Active = !s.offers[i].Active
	return *s.offers[i], nil
}

// DeleteOffer removes the offer for good.
func (s *Store) DeleteOffer(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.ownedOffer(id)
	if err != nil {
		return err
	}
	s.offers = slices.Delete(s.offers, i, i+1)
	s.logger.Info("offer deleted", "offer_id", id)
	return nil
}

// BoostOffer gives the offer priority placement. Payment happens
// elsewhere, so boosting always succeeds for the owner.
func (s *Store) BoostOffer(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.ownedOffer(id)
	if err != nil {
		return false, err
	}
	s.offers[i].Boosted = true
	return true, nil
}

// Offers lists every offer in insertion order.
func (s *Store) Offers() []Offer {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Offer, len(s.offers))
	for i, o := range s.offers {
		out[i] = *o
	}
	return out
}

// ActiveOffers lists the visible offers, boosted ones first.
func (s *Store) ActiveOffers() []Offer {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Offer
	for _, o := range s.offers {
		if o.Active {
			out = append(out, *o)
		}
	}
	slices.SortStableFunc(out, func(a, b Offer) int {
		switch {
		case a.Boosted == b.Boosted:
			return 0
		case a.Boosted:
			return -1
		}
		return 1
	})
	return out
}

// ownedOffer finds an offer the signed-in actor owns. Caller holds s.mu.
func (s *Store) ownedOffer(id string) (int, error) {
	a, err := s.actor()
	if err != nil {
		return -1, err
	}
	i := slices.IndexFunc(s.offers, func(o *Offer) bool { return o.ID == id })
	if i < 0 {
		return -1, fmt.Errorf("%w: offer %s", ErrNotFound, id)
	}
	if s.offers[i].PartnerID != a.ActorID() {
		return -1, fmt.Errorf("%w: offer %s belongs to another partner", ErrForbidden, id)
	}
	return i, nil
}
