package project

import "fmt"

// UserService creates and looks up users.
type UserService struct {
	repo Repository
}

// NewUserService returns a UserService backed by repo.
func NewUserService(repo Repository) *UserService {
	return &UserService{repo: repo}
}

// GetUser loads a user by ID.
func (s *UserService) GetUser(id int) (*User, error) {
	user, err := s.repo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// CreateUser stores a new user and returns it.
func (s *UserService) CreateUser(name, email string) (*User, error) {
	user := newUser(name, email)
	if err := s.repo.Save(user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, validate(user)
}

func validate(u *User) error {
	if u.Email == "" {
		return fmt.Errorf("user %d: missing email", int64(u.ID))
	}
	return nil
}
