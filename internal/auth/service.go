package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mrlokans/readinglists/internal/config"
	"github.com/mrlokans/readinglists/internal/database"
	"github.com/mrlokans/readinglists/internal/database/users"
	"github.com/mrlokans/readinglists/internal/entities"
	"github.com/mrlokans/readinglists/internal/validation"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("no active account found with the given credentials")
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	CreateUser(ctx context.Context, user *entities.User) error
	GetUserByID(ctx context.Context, id uint) (*entities.User, error)
	GetUserByUsername(ctx context.Context, username string) (*entities.User, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	EmailTaken(ctx context.Context, email string, exceptID uint) (bool, error)
	UpdateProfile(ctx context.Context, id uint, fields map[string]any) (*entities.User, error)
}

// RegisterInput is the registration payload.
type RegisterInput struct {
	Username  string `json:"username" validate:"required,alpha,max=150"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,password,max=72"`
	Password2 string `json:"password2" validate:"required,eqfield=Password"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
}

// ProfileInput is the profile update payload. Omitted fields keep their value.
type ProfileInput struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name" validate:"omitempty,max=150"`
	Email     *string `json:"email" validate:"omitempty,email,max=255"`
}

// Service handles registration, credential checks and profiles.
type Service struct {
	users     UserRepository
	validator *validation.Validator
	config    config.Auth
}

// NewService creates a new authentication service.
func NewService(repo UserRepository, cfg config.Auth) *Service {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 12
	}
	return &Service{
		users:     repo,
		validator: validation.New(),
		config:    cfg,
	}
}

// Register validates the input and creates a user with a hashed password.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*entities.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)

	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	taken, err := s.users.UsernameTaken(ctx, input.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return nil, validation.NewError("username", "a user with that username already exists")
	}

	if err := s.checkEmailFree(ctx, input.Email, 0); err != nil {
		return nil, err
	}

	passwordHash, err := HashPassword(input.Password, s.config.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entities.User{
		Username:     input.Username,
		Email:        input.Email,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: passwordHash,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		// Lost a race with a concurrent registration.
		if database.IsUniqueViolation(err) {
			return nil, validation.NewError("username", "a user with that username or email already exists")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Authenticate validates credentials and returns the user.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*entities.User, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, ErrInvalidPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	return user, nil
}

// GetProfile retrieves a user by their ID.
func (s *Service) GetProfile(ctx context.Context, userID uint) (*entities.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile changes the names and email of a user.
func (s *Service) UpdateProfile(ctx context.Context, userID uint, input ProfileInput) (*entities.User, error) {
	if input.Email != nil {
		trimmed := strings.TrimSpace(*input.Email)
		input.Email = &trimmed
	}
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	fields := make(map[string]any)
	if input.FirstName != nil {
		fields["first_name"] = *input.FirstName
	}
	if input.LastName != nil {
		fields["last_name"] = *input.LastName
	}
	if input.Email != nil {
		if *input.Email == "" {
			return nil, validation.NewError("email", "this field may not be blank")
		}
		if err := s.checkEmailFree(ctx, *input.Email, userID); err != nil {
			return nil, err
		}
		fields["email"] = *input.Email
	}

	if len(fields) == 0 {
		return s.GetProfile(ctx, userID)
	}

	user, err := s.users.UpdateProfile(ctx, userID, fields)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		if database.IsUniqueViolation(err) {
			return nil, validation.NewError("email", "this email is already in use")
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

// CreateUser registers a user without the confirmation field. Used by the CLI.
func (s *Service) CreateUser(ctx context.Context, username, email, password string) (*entities.User, error) {
	return s.Register(ctx, RegisterInput{
		Username:  username,
		Email:     email,
		Password:  password,
		Password2: password,
	})
}

func (s *Service) checkEmailFree(ctx context.Context, email string, exceptID uint) error {
	taken, err := s.users.EmailTaken(ctx, email, exceptID)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return validation.NewError("email", "this email is already in use")
	}
	return nil
}
