package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/heartlinkapp/heartlink-backend/internal/domain"
	"github.com/heartlinkapp/heartlink-backend/internal/repository"
)

// UseCase is the session/auth provider: it issues and verifies the
// tokens the rest of the API treats as the session handle.
type UseCase struct {
	userRepo  repository.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewUseCase(userRepo repository.UserRepository, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *UseCase {
	return &UseCase{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		log:       log,
	}
}

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FullName  string `json:"full_name" binding:"required"`
	Username  string `json:"username" binding:"required,alphanum,min=3,max=32"`
	Gender    string `json:"gender" binding:"required,oneof=male female other"`
	Birthdate string `json:"birthdate" binding:"required,datetime=2006-01-02"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token     string              `json:"token"`
	ExpiresAt time.Time           `json:"expires_at"`
	User      *domain.UserProfile `json:"user"`
}

func (uc *UseCase) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	birthdate, err := time.Parse("2006-01-02", req.Birthdate)
	if err != nil {
		return nil, fmt.Errorf("invalid birthdate: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.UserProfile{
		ID:           uuid.NewString(),
		Email:        req.Email,
		Username:     req.Username,
		FullName:     req.FullName,
		Gender:       domain.Gender(req.Gender),
		Birthdate:    birthdate,
		IsVerified:   true,
		PasswordHash: string(hash),
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	uc.log.Info().Str("user_id", user.ID).Msg("user registered")
	return uc.issueFor(user)
}

func (uc *UseCase) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return uc.issueFor(user)
}

// CurrentUserID resolves a bearer token to a user id. Any absent,
// malformed or expired token maps to domain.ErrNotAuthenticated.
func (uc *UseCase) CurrentUserID(_ context.Context, tokenString string) (string, error) {
	if tokenString == "" {
		return "", domain.ErrNotAuthenticated
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return uc.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", domain.ErrNotAuthenticated
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", domain.ErrNotAuthenticated
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", domain.ErrNotAuthenticated
	}
	return sub, nil
}

// CurrentUser resolves a token to the full profile, for /auth/me.
func (uc *UseCase) CurrentUser(ctx context.Context, tokenString string) (*domain.UserProfile, error) {
	userID, err := uc.CurrentUserID(ctx, tokenString)
	if err != nil {
		return nil, err
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrNotAuthenticated
		}
		return nil, err
	}
	return user, nil
}

func (uc *UseCase) issueFor(user *domain.UserProfile) (*AuthResponse, error) {
	expiresAt := time.Now().Add(uc.tokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": user.ID,
		"iat": time.Now().Unix(),
		"exp": expiresAt.Unix(),
	})
	signed, err := token.SignedString(uc.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &AuthResponse{Token: signed, ExpiresAt: expiresAt, User: user}, nil
}
