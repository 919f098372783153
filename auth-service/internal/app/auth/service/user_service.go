package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"octoberpages/auth-service/internal/app/auth/entity"
	"octoberpages/auth-service/internal/app/auth/infrastructure"
	"octoberpages/auth-service/internal/app/auth/repository"
	"octoberpages/auth-service/internal/app/auth/util"
	"octoberpages/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// UserService обрабатывает операции над профилем пользователя
type UserService struct {
	userRepo     repository.UserRepository
	tokenRepo    repository.TokenRepository
	media        infrastructure.MediaStore
	producer     infrastructure.MessagePublisher
	avatarFolder string
}

// NewUserService создает новый сервис профилей
func NewUserService(
	userRepo repository.UserRepository,
	tokenRepo repository.TokenRepository,
	media infrastructure.MediaStore,
	producer infrastructure.MessagePublisher,
	avatarFolder string,
) *UserService {
	return &UserService{
		userRepo:     userRepo,
		tokenRepo:    tokenRepo,
		media:        media,
		producer:     producer,
		avatarFolder: avatarFolder,
	}
}

// UpdateProfile обновляет имя и email пользователя
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *entity.UpdateProfileRequest) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if req.Email != "" && req.Email != user.Email {
		// Новый email не должен принадлежать другому пользователю
		existing, err := s.userRepo.GetByEmail(ctx, req.Email)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if existing != nil && existing.ID != user.ID {
			return nil, ErrUserExists
		}
		user.Email = req.Email
	}

	if req.Fullname != "" {
		user.Fullname = req.Fullname
	}

	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.publishUserUpdated(ctx, user)

	return user, nil
}

// UpdatePassword меняет пароль после проверки старого
// Все refresh токены пользователя отзываются
func (s *UserService) UpdatePassword(ctx context.Context, userID uuid.UUID, req *entity.UpdatePasswordRequest) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if !util.CheckPassword(req.OldPassword, user.PasswordHash) {
		return ErrWrongPassword
	}

	passwordHash, err := util.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = passwordHash
	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	if err := s.tokenRepo.DeleteUserRefreshTokens(ctx, userID); err != nil {
		logger.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to revoke refresh tokens after password change")
	}

	return nil
}

// UpdateAvatar загружает новый аватар и удаляет предыдущий
func (s *UserService) UpdateAvatar(ctx context.Context, userID uuid.UUID, data []byte, filename string) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	url, publicID, err := s.media.Upload(ctx, data, s.avatarFolder, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to upload avatar: %w", err)
	}

	oldPublicID := user.AvatarPublicID
	user.AvatarURL = url
	user.AvatarPublicID = publicID
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		// Откатываем загрузку, чтобы не копить осиротевшие аватары
		if destroyErr := s.media.Destroy(ctx, publicID); destroyErr != nil {
			logger.Error().Err(destroyErr).Str("public_id", publicID).Msg("Failed to release avatar after update failure")
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	if oldPublicID != "" {
		if err := s.media.Destroy(ctx, oldPublicID); err != nil {
			logger.Error().Err(err).Str("public_id", oldPublicID).Msg("Failed to release previous avatar")
		}
	}

	s.publishUserUpdated(ctx, user)

	return user, nil
}

func (s *UserService) publishUserUpdated(ctx context.Context, user *entity.User) {
	if s.producer == nil {
		return
	}

	event := entity.UserEvent{
		EventType: "USER_UPDATED",
		UserID:    user.ID.String(),
		Fullname:  user.Fullname,
		Email:     user.Email,
		AvatarURL: user.AvatarURL,
		Timestamp: time.Now(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to marshal user event")
		return
	}

	if err := s.producer.PublishMessage(ctx, user.ID.String(), payload); err != nil {
		logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to publish user event")
	}
}
