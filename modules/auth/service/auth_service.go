package service

import (
	"context"
	"fmt"
	"io"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"meetly/core/constants"
	"meetly/core/errors"
	"meetly/core/logger"
	"meetly/core/utils"
	"meetly/modules/auth/dto"
	"meetly/modules/auth/entity"
	"meetly/modules/auth/repository"
	availentity "meetly/modules/availability/entity"
)

const minPasswordLength = 8

// AvailabilitySeeder creates a new host's default weekly availability.
type AvailabilitySeeder interface {
	CreateWithDays(ctx context.Context, userID uuid.UUID, timeGap int, days []availentity.DayAvailability) error
}

// TokenBlacklist retires access tokens on logout.
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, token string) error
}

// ImageStore uploads profile images and returns their public URL.
type ImageStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// AuthService handles registration, login and profile management.
type AuthService struct {
	repo         repository.UserRepositoryInterface
	availability AvailabilitySeeder
	blacklist    TokenBlacklist
	images       ImageStore
}

// AuthServiceInterface defines the service contract.
type AuthServiceInterface interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, *errors.AppError)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, *errors.AppError)
	Logout(ctx context.Context, token string) *errors.AppError
	GetProfile(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, *errors.AppError)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserResponse, *errors.AppError)
	UploadProfileImage(ctx context.Context, userID uuid.UUID, filename, contentType string, body io.Reader) (*dto.UserResponse, *errors.AppError)
}

func NewAuthService(repo repository.UserRepositoryInterface, availability AvailabilitySeeder, blacklist TokenBlacklist, images ImageStore) AuthServiceInterface {
	return &AuthService{
		repo:         repo,
		availability: availability,
		blacklist:    blacklist,
		images:       images,
	}
}

// Register creates a host account, derives a unique username from the
// email and seeds a default Monday-to-Friday 09:00-17:00 week so new
// accounts are bookable out of the box.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, *errors.AppError) {
	logger.Info("AuthService:Register:Start", "email", req.Email)

	if appErr := validateRegistration(req); appErr != nil {
		return nil, appErr
	}

	timezone := req.Timezone
	if timezone == "" {
		timezone = "UTC"
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidTimezone, fmt.Sprintf("unknown timezone %q", timezone), err)
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create account", err)
	}

	username, appErr := s.uniqueUsername(ctx, req.Email)
	if appErr != nil {
		return nil, appErr
	}

	user := &entity.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Username: username,
		Password: hashed,
		Timezone: timezone,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, errors.NewAppError(errors.ErrAlreadyExists, "an account with this email already exists", err)
		}
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create account", err)
	}

	if err := s.availability.CreateWithDays(ctx, created.ID, constants.DefaultTimeGapMinutes, defaultWeek()); err != nil {
		// The account exists; a missing default week only means the host
		// must configure availability before going live.
		logger.Error("AuthService:Register:SeedAvailability", "user_id", created.ID, "error", err)
	}

	token, expiresAt, err := utils.GenerateToken(created.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to issue token", err)
	}

	logger.Info("AuthService:Register:Success", "user_id", created.ID, "username", created.Username)
	return &dto.AuthResponse{User: dto.ToUserResponse(created), Token: token, ExpiresAt: expiresAt}, nil
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, *errors.AppError) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to log in", err)
	}
	if user == nil || !utils.ComparePassword(user.Password, req.Password) {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "invalid email or password", nil)
	}

	token, expiresAt, err := utils.GenerateToken(user.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to issue token", err)
	}

	logger.Info("AuthService:Login:Success", "user_id", user.ID)
	return &dto.AuthResponse{User: dto.ToUserResponse(user), Token: token, ExpiresAt: expiresAt}, nil
}

// Logout blacklists the presented token until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, token string) *errors.AppError {
	if token == "" {
		return errors.NewAppError(errors.ErrInvalidInput, "no token to revoke", nil)
	}
	if err := s.blacklist.BlacklistToken(ctx, token); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to log out", err)
	}
	return nil
}

func (s *AuthService) GetProfile(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, *errors.AppError) {
	user, appErr := s.getUser(ctx, userID)
	if appErr != nil {
		return nil, appErr
	}
	resp := dto.ToUserResponse(user)
	return &resp, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserResponse, *errors.AppError) {
	user, appErr := s.getUser(ctx, userID)
	if appErr != nil {
		return nil, appErr
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		user.Name = name
	}
	if req.Timezone != "" {
		if _, err := time.LoadLocation(req.Timezone); err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidTimezone, fmt.Sprintf("unknown timezone %q", req.Timezone), err)
		}
		user.Timezone = req.Timezone
	}

	if err := s.repo.UpdateProfile(ctx, user); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to update profile", err)
	}

	resp := dto.ToUserResponse(user)
	return &resp, nil
}

func (s *AuthService) UploadProfileImage(ctx context.Context, userID uuid.UUID, filename, contentType string, body io.Reader) (*dto.UserResponse, *errors.AppError) {
	user, appErr := s.getUser(ctx, userID)
	if appErr != nil {
		return nil, appErr
	}

	key := fmt.Sprintf("avatars/%s/%s-%s", userID, utils.GenerateID(), filename)
	url, err := s.images.Upload(ctx, key, contentType, body)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to upload image", err)
	}

	user.ImageURL = &url
	if err := s.repo.UpdateProfile(ctx, user); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to update profile", err)
	}

	logger.Info("AuthService:UploadProfileImage:Success", "user_id", userID, "key", key)
	resp := dto.ToUserResponse(user)
	return &resp, nil
}

func (s *AuthService) getUser(ctx context.Context, userID uuid.UUID) (*entity.User, *errors.AppError) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load user", err)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "user not found", nil)
	}
	return user, nil
}

// uniqueUsername derives the handle from the email local part and appends
// a random suffix on collision.
func (s *AuthService) uniqueUsername(ctx context.Context, email string) (string, *errors.AppError) {
	base := utils.UsernameFromEmail(email)
	exists, err := s.repo.UsernameExists(ctx, base)
	if err != nil {
		return "", errors.NewAppError(errors.ErrInternalServer, "failed to create account", err)
	}
	if !exists {
		return base, nil
	}
	return fmt.Sprintf("%s-%s", base, strings.ToLower(utils.GenerateID())), nil
}

func defaultWeek() []availentity.DayAvailability {
	days := make([]availentity.DayAvailability, 0, len(availentity.WeekDays))
	for _, d := range availentity.WeekDays {
		days = append(days, availentity.DayAvailability{
			Day:         d,
			StartTime:   constants.DefaultDayStart,
			EndTime:     constants.DefaultDayEnd,
			IsAvailable: d != availentity.Saturday && d != availentity.Sunday,
		})
	}
	return days
}

func validateRegistration(req *dto.RegisterRequest) *errors.AppError {
	if strings.TrimSpace(req.Name) == "" {
		return errors.NewAppError(errors.ErrInvalidInput, "name is required", nil)
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return errors.NewAppError(errors.ErrInvalidInput, "a valid email is required", err)
	}
	if len(req.Password) < minPasswordLength {
		return errors.NewAppError(errors.ErrInvalidInput, fmt.Sprintf("password must be at least %d characters", minPasswordLength), nil)
	}
	return nil
}
