package services

import (
	"context"

	"github.com/aurumgold/aurum_backend/internal/core/domain"
	"github.com/aurumgold/aurum_backend/internal/dto"
)

// UserSvcFacade manages users and their Aurum accounts.
type UserSvcFacade interface {
	// Register creates a user and their (single) Aurum account.
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// GetUserByEmail retrieves a user by their unique email.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetAccountForUser retrieves the user's Aurum account.
	GetAccountForUser(ctx context.Context, userID string) (*domain.Account, error)
}

// AuthSvcFacade authenticates users and issues access tokens.
type AuthSvcFacade interface {
	// Login verifies credentials and returns a signed access token.
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
}
