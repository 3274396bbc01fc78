package services

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/HammerMeetNail/chatcore/internal/logging"
	"github.com/HammerMeetNail/chatcore/internal/models"
	"github.com/HammerMeetNail/chatcore/internal/store"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 32
	maxSearchResults  = 20
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

type UserService struct {
	users  *store.Collection[models.User]
	now    func() time.Time
	newID  func() string
	logger *logging.Logger
}

func NewUserService(st *store.Store) *UserService {
	return &UserService{
		users:  store.NewCollection[models.User](st, store.KindUsers),
		now:    utcNow,
		newID:  newUUID,
		logger: logging.Default.WithField("service", "user"),
	}
}

func ValidateUsername(username string) error {
	if len(username) < minUsernameLength || len(username) > maxUsernameLength {
		return ErrInvalidInput.WithMessage("username must be between 3 and 32 characters")
	}
	if !usernamePattern.MatchString(username) {
		return ErrInvalidInput.WithMessage("username may only contain letters, digits, '.', '_' and '-'")
	}
	return nil
}

func (s *UserService) Create(ctx context.Context, params models.CreateUserParams) (*models.User, error) {
	username := strings.TrimSpace(params.Username)
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}

	var created models.User
	err := s.users.Update(ctx, func(users []models.User) ([]models.User, error) {
		if findUserByUsername(users, username) >= 0 {
			return nil, ErrUsernameTaken
		}
		created = models.User{
			ID:              s.newID(),
			Username:        username,
			PasswordHash:    params.PasswordHash,
			IsGuest:         params.IsGuest,
			IsAdmin:         params.IsAdmin,
			FriendIDs:       models.IDSet{},
			PendingReceived: models.IDSet{},
			SentRequests:    models.IDSet{},
			CreatedAt:       s.now(),
		}
		return append(users, created), nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user created", map[string]interface{}{
		"user_id":  created.ID,
		"is_guest": created.IsGuest,
	})
	return &created, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	users, err := s.users.Load(ctx)
	if err != nil {
		return nil, err
	}
	idx := findUser(users, id)
	if idx < 0 {
		return nil, ErrUserNotFound
	}
	return &users[idx], nil
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	users, err := s.users.Load(ctx)
	if err != nil {
		return nil, err
	}
	idx := findUserByUsername(users, strings.TrimSpace(username))
	if idx < 0 {
		return nil, ErrUserNotFound
	}
	return &users[idx], nil
}

// Search matches usernames containing query, case-insensitively, skipping the
// caller. Queries shorter than two characters return nothing.
func (s *UserService) Search(ctx context.Context, currentUserID, query string) ([]models.UserSummary, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if len(query) < 2 {
		return []models.UserSummary{}, nil
	}

	users, err := s.users.Load(ctx)
	if err != nil {
		return nil, err
	}

	results := []models.UserSummary{}
	for i := range users {
		if users[i].ID == currentUserID {
			continue
		}
		if strings.Contains(strings.ToLower(users[i].Username), query) {
			results = append(results, users[i].Summary())
		}
	}
	sortSummaries(results)
	if len(results) > maxSearchResults {
		results = results[:maxSearchResults]
	}
	return results, nil
}

func (s *UserService) SetAdmin(ctx context.Context, actorID, targetID string, isAdmin bool) (*models.User, error) {
	var updated models.User
	err := s.users.Update(ctx, func(users []models.User) ([]models.User, error) {
		ai := findUser(users, actorID)
		if ai < 0 || !users[ai].IsAdmin {
			return nil, ErrNotAuthorized
		}
		ti := findUser(users, targetID)
		if ti < 0 {
			return nil, ErrUserNotFound
		}
		if users[ti].IsAdmin == isAdmin {
			updated = users[ti]
			return nil, store.ErrNoChange
		}
		users[ti].IsAdmin = isAdmin
		updated = users[ti]
		return users, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("admin flag changed", map[string]interface{}{
		"actor_id":  actorID,
		"target_id": targetID,
		"is_admin":  isAdmin,
	})
	return &updated, nil
}

// EnsureAdmin makes sure an admin account named username exists, creating it
// with passwordHash when absent and promoting it otherwise.
func (s *UserService) EnsureAdmin(ctx context.Context, username, passwordHash string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}

	var admin models.User
	err := s.users.Update(ctx, func(users []models.User) ([]models.User, error) {
		if idx := findUserByUsername(users, username); idx >= 0 {
			if users[idx].IsAdmin {
				admin = users[idx]
				return nil, store.ErrNoChange
			}
			users[idx].IsAdmin = true
			admin = users[idx]
			return users, nil
		}
		admin = models.User{
			ID:              s.newID(),
			Username:        username,
			PasswordHash:    passwordHash,
			IsAdmin:         true,
			FriendIDs:       models.IDSet{},
			PendingReceived: models.IDSet{},
			SentRequests:    models.IDSet{},
			CreatedAt:       s.now(),
		}
		return append(users, admin), nil
	})
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func findUser(users []models.User, id string) int {
	for i := range users {
		if users[i].ID == id {
			return i
		}
	}
	return -1
}

func findUserByUsername(users []models.User, username string) int {
	for i := range users {
		if strings.EqualFold(users[i].Username, username) {
			return i
		}
	}
	return -1
}

func sortSummaries(list []models.UserSummary) {
	sort.SliceStable(list, func(i, j int) bool {
		return strings.ToLower(list[i].Username) < strings.ToLower(list[j].Username)
	})
}
