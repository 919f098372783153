package service

import (
	"context"

	"octoberpages/auth-service/internal/app/auth/entity"
	"octoberpages/auth-service/internal/app/auth/util"

	"github.com/google/uuid"
)

type AuthServiceInterface interface {
	Register(ctx context.Context, req *entity.RegisterRequest) (*entity.AuthResponse, error)
	Login(ctx context.Context, req *entity.LoginRequest) (*entity.AuthResponse, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*entity.TokenPair, error)
	Logout(ctx context.Context, userID uuid.UUID, accessToken string) error
	ValidateToken(ctx context.Context, token string) (*util.JWTClaims, error)
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error)
}

type UserServiceInterface interface {
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *entity.UpdateProfileRequest) (*entity.User, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, req *entity.UpdatePasswordRequest) error
	UpdateAvatar(ctx context.Context, userID uuid.UUID, data []byte, filename string) (*entity.User, error)
}
