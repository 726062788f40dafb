package model

import "time"

// Swap is a proposed or in-progress exchange of two items between two users.
type Swap struct {
	ID             int64     `json:"id"`
	ProposerID     int64     `json:"proposer_id"`
	ProposerItemID int64     `json:"proposer_item_id"`
	ReceiverID     int64     `json:"receiver_id"`
	ReceiverItemID int64     `json:"receiver_item_id"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Populated on list and detail reads.
	ProposerItem *Item `json:"proposer_item,omitempty"`
	ReceiverItem *Item `json:"receiver_item,omitempty"`
	UnreadCount  int   `json:"unread_count"`
}

// Swap statuses.
const (
	SwapStatusPending       = "pending"
	SwapStatusAccepted      = "accepted"
	SwapStatusDeclined      = "declined"
	SwapStatusMeetupPending = "meetup_pending"
	SwapStatusCompleted     = "completed"
	SwapStatusCancelled     = "cancelled"
)

// SwapStatuses lists every swap status.
var SwapStatuses = []string{
	SwapStatusPending,
	SwapStatusAccepted,
	SwapStatusDeclined,
	SwapStatusMeetupPending,
	SwapStatusCompleted,
	SwapStatusCancelled,
}

// ValidSwapStatus reports whether status is one of SwapStatuses.
func ValidSwapStatus(status string) bool {
	for _, s := range SwapStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// SwapTerminal reports whether no further transition is permitted from status.
func SwapTerminal(status string) bool {
	switch status {
	case SwapStatusDeclined, SwapStatusCompleted, SwapStatusCancelled:
		return true
	}
	return false
}

// IsParticipant reports whether userID is the proposer or receiver.
func (s *Swap) IsParticipant(userID int64) bool {
	return userID == s.ProposerID || userID == s.ReceiverID
}

// Counterpart returns the other participant.
func (s *Swap) Counterpart(userID int64) int64 {
	if userID == s.ProposerID {
		return s.ReceiverID
	}
	return s.ProposerID
}

// Message is one entry in a swap's message thread.
type Message struct {
	ID        int64     `json:"id"`
	SwapID    int64     `json:"swap_id"`
	SenderID  int64     `json:"sender_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`

	// Joined fields (not always populated).
	SenderName string `json:"sender_name,omitempty"`
}
