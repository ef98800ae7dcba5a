package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fitai/fitai/internal/config"
	"github.com/fitai/fitai/internal/storage"
	"github.com/fitai/fitai/internal/validation"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrUserNotFound       = errors.New("user not found")
)

// Service registers users, checks passwords and issues access tokens.
type Service struct {
	config  *config.Config
	storage storage.UsersStorage
	logger  *zap.Logger
	now     func() time.Time
}

func NewService(cfg *config.Config, store storage.UsersStorage, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		config:  cfg,
		storage: store,
		logger:  logger,
		now:     time.Now,
	}
}

// Register creates the account and returns it with a fresh token.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*storage.User, string, error) {
	email := normalizeEmail(req.Email)

	if _, err := s.storage.GetUserByEmail(ctx, email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, "", fmt.Errorf("failed to look up email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.BcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &storage.User{
		Email:         email,
		PasswordHash:  string(hash),
		Name:          strings.TrimSpace(req.Name),
		WeightKg:      firstFloat(req.WeightKg, req.Weight),
		HeightCm:      firstFloat(req.HeightCm, req.Height),
		Goal:          optionalString(req.Goal),
		ActivityLevel: optionalString(req.ActivityLevel),
		Restrictions:  req.Restrictions,
	}

	switch {
	case req.DateOfBirth != "":
		dob, err := validation.ParseDate(req.DateOfBirth)
		if err != nil {
			return nil, "", fmt.Errorf("invalid date_of_birth: %w", err)
		}
		user.DateOfBirth = dob
	case req.Age != nil:
		dob := BirthDateFromAge(*req.Age, s.now())
		user.DateOfBirth = &dob
	}

	if err := s.storage.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID.String()))
	return user, token, nil
}

// Login verifies the password. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*storage.User, string, error) {
	user, err := s.storage.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, req *ChangePasswordRequest) error {
	user, err := s.storage.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)) != nil {
		return ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.config.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.storage.UpdatePasswordHash(ctx, userID, string(hash)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// IssueToken signs an HS256 access token for the user.
func (s *Service) IssueToken(user *storage.User) (string, error) {
	now := s.now()
	claims := Claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    s.config.JWTIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.config.JWTTTLMinutes) * time.Minute)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyJWT returns the user id carried by a valid token.
func (s *Service) VerifyJWT(tokenString string) (uuid.UUID, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.config.JWTSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.config.JWTIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil || userID == uuid.Nil {
		return uuid.Nil, ErrInvalidToken
	}
	return userID, nil
}

// BirthDateFromAge approximates a date of birth as January 1st of the
// year the user was born.
func BirthDateFromAge(age int, now time.Time) time.Time {
	return time.Date(now.Year()-age, time.January, 1, 0, 0, 0, 0, time.UTC)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func firstFloat(values ...*float64) *float64 {
	for _, v := range values {
		if v != nil {
			out := *v
			return &out
		}
	}
	return nil
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
