package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nurpe/contracts-service/internal/model"
)

type Users interface {
	Create(ctx context.Context, user model.User, passwordHash string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, string, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

type Session struct {
	Token     string
	ExpiresAt time.Time
	User      model.User
}

type SignUpInput struct {
	Email       string
	Password    string
	FullName    string
	CompanyName string
}

type Service struct {
	users  Users
	issuer *Issuer
	now    func() time.Time
}

func NewService(users Users, issuer *Issuer) *Service {
	return &Service{users: users, issuer: issuer, now: time.Now}
}

func (s *Service) SignUp(ctx context.Context, input SignUpInput) (*Session, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if len(input.Password) < MinPasswordLength {
		return nil, fmt.Errorf("%w: password must have at least %d characters", ErrInvalidInput, MinPasswordLength)
	}
	if len(input.Password) > MaxPasswordLength {
		return nil, fmt.Errorf("%w: password must have at most %d bytes", ErrInvalidInput, MaxPasswordLength)
	}
	fullName := strings.TrimSpace(input.FullName)
	if fullName == "" {
		return nil, fmt.Errorf("%w: full name is required", ErrInvalidInput)
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, model.User{
		ID:          uuid.New(),
		Email:       email,
		FullName:    fullName,
		CompanyName: strings.TrimSpace(input.CompanyName),
		CreatedAt:   s.now().UTC(),
	}, hash)
	if err != nil {
		return nil, err
	}
	return s.session(*user)
}

func (s *Service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	user, hash, err := s.users.FindByEmail(ctx, normalized)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !CheckPassword(hash, password) {
		return nil, ErrInvalidCredentials
	}
	return s.session(*user)
}

// CurrentUser resolves the principal of an authenticated request.
func (s *Service) CurrentUser(ctx context.Context, principal model.Principal) (*model.User, error) {
	if !principal.IsAuthenticated() {
		return nil, ErrInvalidToken
	}
	return s.users.FindByID(ctx, principal.UserID)
}

func (s *Service) session(user model.User) (*Session, error) {
	token, expiresAt, err := s.issuer.Issue(user)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func normalizeEmail(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	addr, err := mail.ParseAddress(raw)
	if err != nil || addr.Address != raw {
		return "", fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}
	return strings.ToLower(addr.Address), nil
}
