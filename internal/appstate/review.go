package appstate

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// MaxReviewComment is the comment limit in characters.
const MaxReviewComment = 500

// Review rates a partner after a confirmed booking.
type Review struct {
	ID        string    `json:"id"`
	BookingID string    `json:"bookingId"`
	PartnerID string    `json:"partnerId"`
	UserID    string    `json:"userId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

// CanReviewBooking reports whether the booking is confirmed and not yet
// reviewed.
func (s *Store) CanReviewBooking(bookingID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reviewable(bookingID)
}

// AddReview records the signed-in user's review of a booking and refreshes
// the partner's average rating.
func (s *Store) AddReview(partnerID, bookingID string, rating int, comment string) (bool, error) {
	if rating < 1 || rating > 5 {
		return false, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidArgument)
	}
	if utf8.RuneCountInString(comment) > MaxReviewComment {
		return false, fmt.Errorf("%w: comment exceeds %d characters", ErrInvalidArgument, MaxReviewComment)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.actor()
	if err != nil {
		return false, err
	}
	b, ok := s.bookingIndex[bookingID]
	if !ok {
		return false, fmt.Errorf("%w: booking %s", ErrNotFound, bookingID)
	}
	if b.PartnerID != partnerID {
		return false, fmt.Errorf("%w: booking %s is not with partner %s", ErrInvalidArgument, bookingID, partnerID)
	}
	if a.ActorID() != b.UserID {
		return false, fmt.Errorf("%w: only the booking's user may review it", ErrForbidden)
	}
	if !s.reviewable(bookingID) {
		return false, fmt.Errorf("%w: %s is %s", ErrNotReviewable, bookingID, b.Status)
	}

	s.reviews = append(s.reviews, Review{
		ID:        s.newID(),
		BookingID: bookingID,
		PartnerID: partnerID,
		UserID:    b.UserID,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: s.now(),
	})
	s.reviewed[bookingID] = true

	if p, ok := s.partners[partnerID]; ok {
		total := p.Rating*float64(p.ReviewCount) + float64(rating)
		p.ReviewCount++
		p.Rating = total / float64(p.ReviewCount)
	}
	s.logger.Info("review added", "booking_id", bookingID, "partner_id", partnerID, "rating", rating)
	return true, nil
}

// Reviews lists the reviews of a partner, oldest first.
func (s *Store) Reviews(partnerID string) []Review {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Review
	for _, r := range s.reviews {
		if r.PartnerID == partnerID {
			out = append(out, r)
		}
	}
	return out
}

func (s *Store) reviewable(bookingID string) bool {
	b, ok := s.bookingIndex[bookingID]
	return ok && b.Status == BookingConfirmed && !s.reviewed[bookingID]
}
