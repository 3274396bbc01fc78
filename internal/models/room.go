package models

import "time"

type Room struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	IsPrivate bool      `json:"isPrivate"`
	IsDirect  bool      `json:"isDirect"`
	Members   IDSet     `json:"members"`
	OwnerID   string    `json:"ownerId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (r Room) IsMember(userID string) bool {
	return r.Members.Has(userID)
}

// VisibleTo reports whether the user may see the room at all. Private rooms
// are hidden from non-members unless the viewer is an admin.
func (r Room) VisibleTo(userID string, isAdmin bool) bool {
	return !r.IsPrivate || isAdmin || r.IsMember(userID)
}

type CreateRoomParams struct {
	OwnerID   string
	Name      string
	IsPrivate bool
}
