package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"rentora/internal/domain"
	"rentora/internal/repository"
)

var (
	// ErrInvalidInput indicates missing or malformed registration fields.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUserNotFound is returned when no user matches the login identifier.
	ErrUserNotFound = errors.New("no user found")
	// ErrInvalidCredentials indicates the password did not match.
	ErrInvalidCredentials = errors.New("incorrect password")
	// ErrEmailTaken is returned when registering with an email already in use.
	ErrEmailTaken = errors.New("user already exists")
)

// RegisterInput carries the signup fields. Role must be explicit; there is
// no default on this path.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
	Phone    string
}

// UserService describes account lifecycle and credential verification.
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Authenticate(ctx context.Context, identifier, password string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

type userService struct {
	users      repository.UserRepository
	properties repository.PropertyRepository
	bcryptCost int
}

func NewUserService(users repository.UserRepository, properties repository.PropertyRepository, bcryptCost int) UserService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &userService{
		users:      users,
		properties: properties,
		bcryptCost: bcryptCost,
	}
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	password := strings.TrimSpace(in.Password)
	phone := strings.TrimSpace(in.Phone)

	if name == "" || email == "" || password == "" || in.Role == "" {
		return nil, fmt.Errorf("%w: all fields are required", ErrInvalidInput)
	}
	if len(name) < 2 {
		return nil, fmt.Errorf("%w: name must be at least 2 characters", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email address", ErrInvalidInput)
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", ErrInvalidInput)
	}
	if !in.Role.Valid() {
		return nil, fmt.Errorf("%w: invalid role", ErrInvalidInput)
	}

	// Advisory pre-check; the UNIQUE index on email is the real guard
	// against concurrent signups.
	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         in.Role,
		Phone:        phone,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return sanitizeUser(user), nil
}

// Authenticate locates a user by identifier and verifies the password.
// Lookup is two-step with an explicit tie-break: exact email match wins over
// exact display-name match.
func (s *userService) Authenticate(ctx context.Context, identifier, password string) (*domain.User, error) {
	identifier = strings.TrimSpace(identifier)
	password = strings.TrimSpace(password)
	if identifier == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, identifier)
	if errors.Is(err, repository.ErrNotFound) {
		user, err = s.users.GetByName(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return sanitizeUser(user), nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if s.properties != nil {
		switch user.Role {
		case domain.RoleOwner:
			ids, err := s.properties.ListIDsByOwner(ctx, user.ID)
			if err != nil {
				return nil, err
			}
			user.Properties = ids
		case domain.RoleTenant:
			ids, err := s.properties.ListIDsByTenant(ctx, user.ID)
			if err != nil {
				return nil, err
			}
			user.RentedProperties = ids
		}
	}

	return sanitizeUser(user), nil
}

// sanitizeUser strips the password hash; it must never leave the service
// layer.
func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	clone := *user
	clone.PasswordHash = ""
	return &clone
}
