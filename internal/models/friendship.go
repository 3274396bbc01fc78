package models

type FriendshipAction string

const (
	FriendshipRequested FriendshipAction = "requested"
	FriendshipAccepted  FriendshipAction = "accepted"
	FriendshipDeclined  FriendshipAction = "declined"
	FriendshipCancelled FriendshipAction = "cancelled"
	FriendshipRemoved   FriendshipAction = "removed"
)

// FriendshipChange is the result of a relationship operation: the two user
// records after the mutation was persisted.
type FriendshipChange struct {
	Action FriendshipAction `json:"action"`
	Actor  PublicUser       `json:"actor"`
	Other  PublicUser       `json:"other"`
}

// FriendLists groups every relationship edge a user holds.
type FriendLists struct {
	Friends []UserSummary `json:"friends"`
	Pending []UserSummary `json:"pending"`
	Sent    []UserSummary `json:"sent"`
}
