package services

import (
	"github.com/HammerMeetNail/chatcore/internal/apperr"
	"github.com/HammerMeetNail/chatcore/internal/store"
)

var (
	ErrUserNotFound       = apperr.New(apperr.CodeNotFound, "user not found")
	ErrUsernameTaken      = apperr.New(apperr.CodeUsernameTaken, "username is already taken")
	ErrInvalidCredentials = apperr.New(apperr.CodeInvalidCredentials, "invalid username or password")
	ErrInvalidToken       = apperr.New(apperr.CodeUnauthenticated, "invalid or expired token")
	ErrInvalidInput       = apperr.New(apperr.CodeInvalidInput, "invalid input")

	ErrSelfRequest       = apperr.New(apperr.CodeSelfRequest, "cannot send a friend request to yourself")
	ErrAlreadyFriends    = apperr.New(apperr.CodeAlreadyFriends, "you are already friends with this user")
	ErrAlreadyRequested  = apperr.New(apperr.CodeAlreadyRequested, "friend request already sent")
	ErrReciprocalPending = apperr.New(apperr.CodeReciprocalPending, "this user already sent you a friend request")
	ErrNoPendingRequest  = apperr.New(apperr.CodeNoPendingRequest, "no pending friend request from this user")
	ErrNoActiveRequest   = apperr.New(apperr.CodeNoActiveRequest, "no friend request between you and this user")
	ErrNotFriends        = apperr.New(apperr.CodeNotFriends, "you are not friends with this user")

	ErrRoomNotFound     = apperr.New(apperr.CodeRoomNotFound, "room not found")
	ErrRoomIsPublic     = apperr.New(apperr.CodeRoomIsPublic, "public rooms are joined directly, not by invite")
	ErrRoomIsPrivate    = apperr.New(apperr.CodeRoomIsPrivate, "private rooms require an invite")
	ErrNotAuthorized    = apperr.New(apperr.CodeNotAuthorized, "not authorized")
	ErrAlreadyMember    = apperr.New(apperr.CodeAlreadyMember, "user is already a member of this room")
	ErrNotMember        = apperr.New(apperr.CodeNotMember, "not a member of this room")
	ErrOwnerCannotLeave = apperr.New(apperr.CodeOwnerCannotLeave, "the room owner cannot leave the room")

	ErrNotificationNotFound = apperr.New(apperr.CodeNotFoundOrForbidden, "notification not found")

	ErrStorageWriteFailed = store.ErrStorageWriteFailed
	ErrStorageCorrupted   = store.ErrStorageCorrupted
)
