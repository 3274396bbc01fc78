package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/HammerMeetNail/chatcore/internal/logging"
	"github.com/HammerMeetNail/chatcore/internal/models"
	"github.com/HammerMeetNail/chatcore/internal/store"
)

const (
	maxMessageLength    = 2000
	defaultMessageLimit = 50
	maxMessageLimit     = 200
)

// MessageService stores room messages. Clients poll List with the timestamp
// of the last message they saw.
type MessageService struct {
	messages *store.Collection[models.Message]
	rooms    *store.Collection[models.Room]
	users    *store.Collection[models.User]
	now      func() time.Time
	newID    func() string
	logger   *logging.Logger
}

func NewMessageService(st *store.Store) *MessageService {
	return &MessageService{
		messages: store.NewCollection[models.Message](st, store.KindMessages),
		rooms:    store.NewCollection[models.Room](st, store.KindRooms),
		users:    store.NewCollection[models.User](st, store.KindUsers),
		now:      utcNow,
		newID:    newUUID,
		logger:   logging.Default.WithField("service", "message"),
	}
}

func (s *MessageService) Post(ctx context.Context, roomID, senderID, body string) (*models.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" || utf8.RuneCountInString(body) > maxMessageLength {
		return nil, ErrInvalidInput.WithMessage("message must be between 1 and 2000 characters")
	}

	var msg models.Message
	// Lock order is users, rooms, messages: the sender and their membership
	// stay valid until the message is written.
	err := s.users.View(ctx, func(users []models.User) error {
		ui := findUser(users, senderID)
		if ui < 0 {
			return ErrUserNotFound
		}
		sender := users[ui]

		return s.rooms.View(ctx, func(rooms []models.Room) error {
			idx := findRoom(rooms, roomID)
			if idx < 0 || !rooms[idx].VisibleTo(sender.ID, sender.IsAdmin) {
				return ErrRoomNotFound
			}
			if !rooms[idx].IsMember(sender.ID) {
				return ErrNotMember
			}

			msg = models.Message{
				ID:             s.newID(),
				RoomID:         rooms[idx].ID,
				SenderID:       sender.ID,
				SenderUsername: sender.Username,
				Body:           body,
				Timestamp:      s.now(),
			}
			return s.messages.Update(ctx, func(all []models.Message) ([]models.Message, error) {
				return append(all, msg), nil
			})
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("message posted", map[string]interface{}{
		"room_id":    msg.RoomID,
		"message_id": msg.ID,
	})
	return &msg, nil
}

// List returns messages oldest first. Without Since it returns the latest
// Limit messages. With Since it returns the first Limit messages after it, so
// a poller that advances Since to the last message it saw never skips any.
func (s *MessageService) List(ctx context.Context, roomID, viewerID string, params models.MessageListParams) ([]models.Message, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultMessageLimit
	}
	if limit > maxMessageLimit {
		limit = maxMessageLimit
	}

	users, err := s.users.Load(ctx)
	if err != nil {
		return nil, err
	}
	ui := findUser(users, viewerID)
	if ui < 0 {
		return nil, ErrUserNotFound
	}
	if _, err := s.roomFor(ctx, roomID, viewerID, users[ui].IsAdmin); err != nil {
		return nil, err
	}

	all, err := s.messages.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := []models.Message{}
	for _, m := range all {
		if m.RoomID != roomID {
			continue
		}
		if params.Since != nil && !m.Timestamp.After(*params.Since) {
			continue
		}
		out = append(out, m)
	}
	if len(out) > limit {
		if params.Since != nil {
			out = out[:limit]
		} else {
			out = out[len(out)-limit:]
		}
	}
	return out, nil
}

func (s *MessageService) roomFor(ctx context.Context, roomID, userID string, isAdmin bool) (*models.Room, error) {
	rooms, err := s.rooms.Load(ctx)
	if err != nil {
		return nil, err
	}
	idx := findRoom(rooms, roomID)
	if idx < 0 || !rooms[idx].VisibleTo(userID, isAdmin) {
		return nil, ErrRoomNotFound
	}
	return &rooms[idx], nil
}
