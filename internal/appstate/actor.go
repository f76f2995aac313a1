package appstate

// Role tags the three kinds of actor.
type Role string

const (
	RoleUser    Role = "user"
	RolePartner Role = "partner"
	RoleAdmin   Role = "admin"
)

// Profile is the card shown in the swipe feed.
type Profile struct {
	ID     string
	Name   string
	Age    int
	City   string
	Sport  string
	Photo  string
	Online bool
	Role   Role
}

// TimeSlot is a bookable session of a partner.
type TimeSlot struct {
	ID        string
	Date      string
	Time      string
	Available bool
}

// User is a sport enthusiast.
type User struct {
	Profile
	Email string
	Bio   string
}

// Partner is a coach or venue that sells sessions.
type Partner struct {
	Profile
	Email       string
	Type        string
	Description string
	// Price is the per-session price in whole currency units.
	Price       int
	Slots       []TimeSlot
	Revenue     int
	Rating      float64
	ReviewCount int
}

// Admin moderates the platform. Admins have no feed card.
type Admin struct {
	ID    string
	Name  string
	Email string
}

// Actor is the closed set {*User, *Partner, *Admin}.
type Actor interface {
	ActorID() string
	ActorRole() Role
	actor()
}

func (u *User) ActorID() string    { return u.ID }
func (u *User) ActorRole() Role    { return RoleUser }
func (*User) actor()               {}
func (p *Partner) ActorID() string { return p.ID }
func (p *Partner) ActorRole() Role { return RolePartner }
func (*Partner) actor()            {}
func (a *Admin) ActorID() string   { return a.ID }
func (a *Admin) ActorRole() Role   { return RoleAdmin }
func (*Admin) actor()              {}

// Capability names an operation gated by actor kind.
type Capability string

const (
	CapSwipe           Capability = "swipe"
	CapMessage         Capability = "message"
	CapBook            Capability = "book"
	CapManageOffers    Capability = "manage_offers"
	CapConfirmBookings Capability = "confirm_bookings"
	CapModerate        Capability = "moderate"
)

// Can reports whether a holds capability c.
//
//	user:    swipe, message, book
//	partner: swipe, message, manage offers, confirm own bookings
//	admin:   message, confirm any booking, moderate
func Can(a Actor, c Capability) bool {
	switch a.(type) {
	case *User:
		return c == CapSwipe || c == CapMessage || c == CapBook
	case *Partner:
		return c == CapSwipe || c == CapMessage || c == CapManageOffers || c == CapConfirmBookings
	case *Admin:
		return c == CapMessage || c == CapConfirmBookings || c == CapModerate
	}
	return false
}

// Directory is the set of known actors and catalog entries a Store starts
// from.
type Directory struct {
	Users    []*User
	Partners []*Partner
	Admins   []*Admin
	Offers   []Offer
	// Bookings are history; their revenue is already part of the
	// partner's Revenue.
	Bookings []Booking
}

func (p *Partner) clone() *Partner {
	c := *p
	c.Slots = append([]TimeSlot(nil), p.Slots...)
	return &c
}

func cloneActor(a Actor) Actor {
	switch v := a.(type) {
	case *User:
		c := *v
		return &c
	case *Partner:
		return v.clone()
	case *Admin:
		c := *v
		return &c
	}
	return nil
}
