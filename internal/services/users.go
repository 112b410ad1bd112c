package services

import (
	"sync"

	"github.com/hamroaawaz/complaint-server/internal/auth"
	"github.com/hamroaawaz/complaint-server/internal/models"
	"github.com/hamroaawaz/complaint-server/internal/storage"
)

const usersFile = "users.json"

// UserService is the credential store. It exclusively owns the users
// collection; mu serializes every load-mutate-save cycle against it.
type UserService struct {
	mu    sync.Mutex
	store *storage.Store
}

// NewUserService creates a user service over the given store.
func NewUserService(store *storage.Store) *UserService {
	return &UserService{store: store}
}

// Register creates a new account. The phone number must be unique across
// the collection; a duplicate fails with ErrDuplicatePhone and leaves the
// collection untouched. When req.ID is zero the next available id is
// assigned; a non-zero id that is already taken fails with ErrIDTaken.
func (s *UserService) Register(req models.RegisterRequest) (*models.User, error) {
	if !req.Role.Valid() {
		return nil, ErrInvalidRole
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var users []models.User
	s.store.Load(usersFile, &users)

	maxID := 0
	for _, u := range users {
		if u.Phone == req.Phone {
			return nil, ErrDuplicatePhone
		}
		if req.ID != 0 && u.ID == req.ID {
			return nil, ErrIDTaken
		}
		if u.ID > maxID {
			maxID = u.ID
		}
	}

	id := req.ID
	if id == 0 {
		id = maxID + 1
	}

	user := models.User{
		ID:           id,
		Name:         req.Name,
		Phone:        req.Phone,
		PasswordHash: hash,
		Role:         req.Role,
		City:         req.City,
		Municipality: req.Municipality,
		Ward:         req.Ward,
	}

	users = append(users, user)
	if err := s.store.Save(usersFile, users); err != nil {
		return nil, dependency("save users", err)
	}
	return &user, nil
}

// Authenticate verifies phone and password. The whole collection is scanned
// before concluding the phone is unregistered; the password is only compared
// against the matching record.
func (s *UserService) Authenticate(phone, password string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var users []models.User
	s.store.Load(usersFile, &users)

	for i := range users {
		if users[i].Phone == phone {
			if !auth.CheckPassword(users[i].PasswordHash, password) {
				return nil, ErrBadPassword
			}
			return &users[i], nil
		}
	}
	return nil, ErrPhoneNotRegistered
}

// GetByID returns the user with the given id, or ErrUserNotFound.
func (s *UserService) GetByID(id int) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var users []models.User
	s.store.Load(usersFile, &users)

	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, ErrUserNotFound
}

// List returns a snapshot of all users.
func (s *UserService) List() ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var users []models.User
	s.store.Load(usersFile, &users)
	return users, nil
}
