package appstate

import (
	"fmt"
	"time"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// Terminal reports whether no further transition is allowed.
func (b BookingStatus) Terminal() bool {
	return b == BookingConfirmed || b == BookingCancelled
}

const (
	// ManualSlot is the slot id of bookings made without a partner slot.
	ManualSlot = "manual"
	// Unscheduled fills date and time when the requested slot does not exist.
	Unscheduled = "TBD"

	requestTime  = "10:00"
	defaultPrice = 50
)

// Booking reserves a partner's time for a user.
type Booking struct {
	ID             string        `json:"id"`
	UserID         string        `json:"userId"`
	PartnerID      string        `json:"partnerId"`
	SlotID         string        `json:"slotId"`
	ConversationID string        `json:"conversationId"`
	Title          string        `json:"title"`
	Date           string        `json:"date"`
	Time           string        `json:"time"`
	Price          int           `json:"price"`
	Status         BookingStatus `json:"status"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

func (b *Booking) payload() *BookingPayload {
	return &BookingPayload{
		BookingID: b.ID,
		PartnerID: b.PartnerID,
		Title:     b.Title,
		Date:      b.Date,
		Time:      b.Time,
		Price:     b.Price,
		Status:    b.Status,
	}
}

// bookingDraft carries everything book needs; both entry points fill one.
type bookingDraft struct {
	user           Actor
	partner        *Partner
	slotID         string
	conversationID string
	title          string
	date           string
	time           string
	price          int
	status         BookingStatus
}

// CreateBooking books one of the partner's slots. The booking starts
// confirmed.
//
// Behavior:
//   - Slot found and available → the slot is consumed.
//   - Slot found but taken → ErrSlotUnavailable.
//   - Slot unknown → date and time are "TBD".
//   - Empty conversationID → the pair's conversation, created if needed.
//   - A given conversation must be between the actor and the partner.
//
// Price is the partner's session price.
func (s *Store) CreateBooking(actorID, partnerID, slotID, conversationID string) (Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, p, err := s.bookingParties(actorID, partnerID)
	if err != nil {
		return Booking{}, err
	}
	if conversationID != "" {
		conv, ok := s.conversations[conversationID]
		if !ok {
			return Booking{}, fmt.Errorf("%w: conversation %s", ErrNotFound, conversationID)
		}
		if !conv.Has(a.ActorID()) || !conv.Has(p.ID) {
			return Booking{}, fmt.Errorf("%w: conversation %s is not between %s and %s",
				ErrInvalidArgument, conversationID, a.ActorID(), p.ID)
		}
	}

	d := bookingDraft{
		user:           a,
		partner:        p,
		slotID:         slotID,
		conversationID: conversationID,
		title:          "Session with " + p.Name,
		date:           Unscheduled,
		time:           Unscheduled,
		price:          p.Price,
		status:         BookingConfirmed,
	}
	if i := p.slotIndex(slotID); i >= 0 {
		slot := &p.Slots[i]
		if !slot.Available {
			return Booking{}, fmt.Errorf("%w: %s", ErrSlotUnavailable, slotID)
		}
		slot.Available = false
		d.date, d.time = slot.Date, slot.Time
	}
	return *s.book(d), nil
}

// RequestBooking asks a partner for a session on date. The booking starts
// pending at 10:00 on a manual slot. Price is the partner's price, or 50
// when the partner has none.
func (s *Store) RequestBooking(actorID, partnerID, eventTitle, date string) (Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, p, err := s.bookingParties(actorID, partnerID)
	if err != nil {
		return Booking{}, err
	}
	if date == "" {
		return Booking{}, fmt.Errorf("%w: date is required", ErrInvalidArgument)
	}

	title := eventTitle
	if title == "" {
		title = "Session with " + p.Name
	}
	price := p.Price
	if price <= 0 {
		price = defaultPrice
	}
	return *s.book(bookingDraft{
		user:    a,
		partner: p,
		slotID:  ManualSlot,
		title:   title,
		date:    date,
		time:    requestTime,
		price:   price,
		status:  BookingPending,
	}), nil
}

// UpdateBookingStatus moves a pending booking to confirmed or cancelled.
//
// Behavior:
//   - The owning partner or an admin may confirm or cancel; the booking's
//     user may cancel.
//   - Same status again → false, nothing changes.
//   - Terminal booking → ErrInvalidTransition.
//   - Confirming credits the price to the partner's revenue.
func (s *Store) UpdateBookingStatus(bookingID string, status BookingStatus) (bool, error) {
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
	if status != BookingConfirmed && status != BookingCancelled {
		return false, fmt.Errorf("%w: status %q", ErrInvalidArgument, status)
	}
	if !mayUpdate(a, b, status) {
		return false, fmt.Errorf("%w: %s may not set booking %s to %s", ErrForbidden, a.ActorID(), bookingID, status)
	}

	if b.Status == status {
		return false, nil
	}
	if b.Status.Terminal() {
		return false, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, status)
	}

	b.Status = status
	b.UpdatedAt = s.now()
	if status == BookingConfirmed {
		s.credit(b)
	}

	text := "Booking confirmed"
	if status == BookingCancelled {
		text = "Booking cancelled"
	}
	if conv, ok := s.conversations[b.ConversationID]; ok {
		s.appendMessage(conv, a.ActorID(), text, MessageSystem, b.payload())
	}
	s.logger.Info("booking status updated", "booking_id", b.ID, "status", status, "actor_id", a.ActorID())
	return true, nil
}

// Bookings lists bookings in creation order. A non-empty actorID keeps
// only the bookings it takes part in, as user or as partner.
func (s *Store) Bookings(actorID string) []Booking {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Booking
	for _, b := range s.bookings {
		if actorID == "" || b.UserID == actorID || b.PartnerID == actorID {
			out = append(out, *b)
		}
	}
	return out
}

// Booking returns one booking by id.
func (s *Store) Booking(id string) (Booking, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookingIndex[id]
	if !ok {
		return Booking{}, false
	}
	return *b, true
}

// Revenue is the partner's credited revenue.
func (s *Store) Revenue(partnerID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.partners[partnerID]
	if !ok {
		return 0, fmt.Errorf("%w: partner %s", ErrNotFound, partnerID)
	}
	return p.Revenue, nil
}

// bookingParties resolves the booking user and partner. Caller holds s.mu.
func (s *Store) bookingParties(actorID, partnerID string) (Actor, *Partner, error) {
	a, err := s.actingAs(actorID)
	if err != nil {
		return nil, nil, err
	}
	if !Can(a, CapBook) {
		return nil, nil, fmt.Errorf("%w: %s cannot book", ErrForbidden, a.ActorRole())
	}
	p, ok := s.partners[partnerID]
	if !ok {
		return nil, nil, fmt.Errorf("%w: partner %s", ErrNotFound, partnerID)
	}
	return a, p, nil
}

// book records a booking with the draft's initial status and posts its
// card to the conversation. Caller holds s.mu.
func (s *Store) book(d bookingDraft) *Booking {
	userID := d.user.ActorID()

	var conv *Conversation
	if d.conversationID != "" {
		conv = s.conversations[d.conversationID]
	} else {
		conv, _ = s.ensureConversation(userID, d.partner.ID)
	}

	now := s.now()
	b := &Booking{
		ID:             s.newID(),
		UserID:         userID,
		PartnerID:      d.partner.ID,
		SlotID:         d.slotID,
		ConversationID: conv.ID,
		Title:          d.title,
		Date:           d.date,
		Time:           d.time,
		Price:          d.price,
		Status:         d.status,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.bookings = append(s.bookings, b)
	s.bookingIndex[b.ID] = b
	if b.Status == BookingConfirmed {
		s.credit(b)
	}

	s.appendMessage(conv, userID, "", MessageBooking, b.payload())
	s.logger.Info("booking created",
		"booking_id", b.ID, "user_id", userID, "partner_id", b.PartnerID, "slot_id", b.SlotID, "status", b.Status)
	return b
}

func (s *Store) credit(b *Booking) {
	if p, ok := s.partners[b.PartnerID]; ok {
		p.Revenue += b.Price
	}
}

func mayUpdate(a Actor, b *Booking, status BookingStatus) bool {
	switch a.(type) {
	case *Admin:
		return Can(a, CapConfirmBookings)
	case *Partner:
		return a.ActorID() == b.PartnerID && Can(a, CapConfirmBookings)
	case *User:
		return a.ActorID() == b.UserID && status == BookingCancelled
	}
	return false
}

func (p *Partner) slotIndex(id string) int {
	for i := range p.Slots {
		if p.Slots[i].ID == id {
			return i
		}
	}
	return -1
}
