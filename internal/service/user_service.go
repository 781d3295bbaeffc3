package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/samohiani/simple-ecommerce/internal/auth"
	"github.com/samohiani/simple-ecommerce/internal/domain"
	"github.com/samohiani/simple-ecommerce/internal/repository"
)

type UserService struct {
	users  repository.UserRepository
	tokens *auth.TokenManager
}

func NewUserService(users repository.UserRepository, tokens *auth.TokenManager) *UserService {
	return &UserService{users: users, tokens: tokens}
}

// AuthResult is a user plus a freshly issued token.
type AuthResult struct {
	User  domain.UserSummary `json:"user"`
	Token string             `json:"token"`
}

func (s *UserService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, storeFailure(err, "failed to hash password")
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if errCreate := s.users.Create(ctx, user); errCreate != nil {
		if errors.Is(errCreate, repository.ErrDuplicateEmail) {
			return nil, invalidInput("email already registered")
		}
		return nil, storeFailure(errCreate, "failed to create user")
	}

	return s.issueToken(user)
}

// Login checks credentials. An unknown email and a wrong password are
// reported identically.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, unauthorized("invalid email or password")
	}
	if err != nil {
		return nil, storeFailure(err, "failed to load user")
	}

	if !auth.ComparePasswords(password, user.PasswordHash) {
		return nil, unauthorized("invalid email or password")
	}

	return s.issueToken(user)
}

func (s *UserService) Profile(ctx context.Context, userID string) (*domain.UserSummary, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, notFound("user not found")
	}
	if err != nil {
		return nil, storeFailure(err, "failed to load user")
	}

	summary := user.Summary()
	return &summary, nil
}

func (s *UserService) issueToken(user *domain.User) (*AuthResult, error) {
	token, err := s.tokens.Generate(user.ID, user.Email)
	if err != nil {
		return nil, storeFailure(err, "failed to issue token")
	}
	return &AuthResult{User: user.Summary(), Token: token}, nil
}
