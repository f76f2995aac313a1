package appstate

import (
	"fmt"
	"strings"
	"time"
)

// MessageType classifies a chat message.
type MessageType string

const (
	MessageText    MessageType = "text"
	MessageBooking MessageType = "booking"
	MessageSystem  MessageType = "system"
	MessageImage   MessageType = "image"
)

func (t MessageType) valid() bool {
	switch t {
	case MessageText, MessageBooking, MessageSystem, MessageImage:
		return true
	}
	return false
}

// Conversation is a message thread between two actors.
type Conversation struct {
	ID           string    `json:"id"`
	Participants [2]string `json:"participants"`
	Title        string    `json:"title"`
	LastMessage  string    `json:"lastMessage"`
	UpdatedAt    time.Time `json:"updatedAt"`
	Unread       bool      `json:"unread"`

	seq int64
}

// Has reports whether id takes part in the conversation.
func (c Conversation) Has(id string) bool {
	return c.Participants[0] == id || c.Participants[1] == id
}

// BookingPayload is the booking card rendered inside a chat.
type BookingPayload struct {
	BookingID string        `json:"bookingId"`
	PartnerID string        `json:"partnerId"`
	Title     string        `json:"title"`
	Date      string        `json:"date"`
	Time      string        `json:"time"`
	Price     int           `json:"price"`
	Status    BookingStatus `json:"status"`
}

// Message is one entry of a conversation log. Logs are append-only.
type Message struct {
	ID             string          `json:"id"`
	ConversationID string          `json:"conversationId"`
	SenderID       string          `json:"senderId"`
	Text           string          `json:"text"`
	Type           MessageType     `json:"type"`
	Booking        *BookingPayload `json:"booking,omitempty"`
	SentAt         time.Time       `json:"sentAt"`
}

// GetMessages returns a copy of the conversation log in send order.
// Unknown ids yield an empty log.
func (s *Store) GetMessages(conversationID string) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.messages[conversationID]
	out := make([]Message, len(log))
	for i, m := range log {
		out[i] = m.clone()
	}
	return out
}

// SendMessage appends a message from the signed-in actor.
// An empty msgType means MessageText. Booking and system messages need
// the moderate capability; booking cards come with a payload.
func (s *Store) SendMessage(conversationID, text string, msgType MessageType, payload *BookingPayload) (Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.actor()
	if err != nil {
		return Message{}, err
	}
	if !Can(a, CapMessage) {
		return Message{}, fmt.Errorf("%w: %s cannot message", ErrForbidden, a.ActorRole())
	}

	if msgType == "" {
		msgType = MessageText
	}
	if !msgType.valid() {
		return Message{}, fmt.Errorf("%w: message type %q", ErrInvalidArgument, msgType)
	}
	switch {
	case (msgType == MessageBooking) != (payload != nil):
		return Message{}, fmt.Errorf("%w: booking messages and only they carry a booking", ErrInvalidArgument)
	case (msgType == MessageBooking || msgType == MessageSystem) && !Can(a, CapModerate):
		return Message{}, fmt.Errorf("%w: %s cannot post %s messages", ErrForbidden, a.ActorRole(), msgType)
	}
	if msgType == MessageText && strings.TrimSpace(text) == "" {
		return Message{}, fmt.Errorf("%w: empty message", ErrInvalidArgument)
	}

	conv, ok := s.conversations[conversationID]
	if !ok {
		return Message{}, fmt.Errorf("%w: conversation %s", ErrNotFound, conversationID)
	}
	if !conv.Has(a.ActorID()) && !Can(a, CapModerate) {
		return Message{}, fmt.Errorf("%w: not a participant of %s", ErrForbidden, conversationID)
	}

	return s.appendMessage(conv, a.ActorID(), text, msgType, payload).clone(), nil
}

// MarkRead clears the unread flag. Unknown ids are ignored.
func (s *Store) MarkRead(conversationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.conversations[conversationID]; ok {
		c.Unread = false
	}
}

// appendMessage writes to the log and refreshes the conversation preview.
// Caller holds s.mu.
func (s *Store) appendMessage(conv *Conversation, senderID, text string, msgType MessageType, payload *BookingPayload) Message {
	m := Message{
		ID:             s.newID(),
		ConversationID: conv.ID,
		SenderID:       senderID,
		Text:           text,
		Type:           msgType,
		SentAt:         s.now(),
	}
	if payload != nil {
		p := *payload
		m.Booking = &p
	}
	s.messages[conv.ID] = append(s.messages[conv.ID], m)

	conv.LastMessage = preview(m)
	conv.UpdatedAt = m.SentAt
	s.seq++
	conv.seq = s.seq
	return m
}

func preview(m Message) string {
	switch {
	case m.Type == MessageImage && m.Text == "":
		return "Photo"
	case m.Type == MessageBooking && m.Text == "" && m.Booking != nil:
		return "Booking: " + m.Booking.Title
	}
	return m.Text
}

func (m Message) clone() Message {
	if m.Booking != nil {
		p := *m.Booking
		m.Booking = &p
	}
	return m
}
