package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fitai/fitai/internal/fitness"
	"github.com/fitai/fitai/internal/storage"
	"github.com/fitai/fitai/internal/validation"
	"github.com/google/uuid"
)

const defaultAge = 25

var ErrUserNotFound = errors.New("user not found")

// Service reads and updates the fitness profile stored on the user record.
type Service struct {
	storage storage.UsersStorage
	now     func() time.Time
}

func NewService(st storage.UsersStorage) *Service {
	return &Service{
		storage: st,
		now:     time.Now,
	}
}

func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	dto := toDTOAt(user, s.now())
	return &dto, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*UserDTO, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	switch {
	case req.DateOfBirth != nil:
		dob, err := validation.ParseDate(*req.DateOfBirth)
		if err != nil {
			return nil, fmt.Errorf("invalid date_of_birth: %w", err)
		}
		user.DateOfBirth = dob
	case req.Age != nil:
		dob := time.Date(s.now().Year()-*req.Age, time.January, 1, 0, 0, 0, 0, time.UTC)
		user.DateOfBirth = &dob
	}
	if v := firstFloat(req.WeightKg, req.Weight); v != nil {
		user.WeightKg = v
	}
	if v := firstFloat(req.HeightCm, req.Height); v != nil {
		user.HeightCm = v
	}
	if req.Goal != nil {
		user.Goal = req.Goal
	}
	if req.ActivityLevel != nil {
		user.ActivityLevel = req.ActivityLevel
	}
	if req.Restrictions != nil {
		user.Restrictions = *req.Restrictions
	}

	if err := s.storage.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	dto := toDTOAt(user, s.now())
	return &dto, nil
}

// LoadFitnessProfile loads the user and converts it for plan generation.
func (s *Service) LoadFitnessProfile(ctx context.Context, userID uuid.UUID) (*storage.User, fitness.UserProfile, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, fitness.UserProfile{}, err
	}
	return user, FitnessProfile(user, s.now()), nil
}

func (s *Service) load(ctx context.Context, userID uuid.UUID) (*storage.User, error) {
	user, err := s.storage.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// ToDTO converts a user record to its public representation.
func ToDTO(user *storage.User) UserDTO {
	return toDTOAt(user, time.Now())
}

func toDTOAt(user *storage.User, now time.Time) UserDTO {
	dto := UserDTO{
		ID:            user.ID,
		Email:         user.Email,
		Name:          user.Name,
		WeightKg:      user.WeightKg,
		HeightCm:      user.HeightCm,
		Goal:          user.Goal,
		ActivityLevel: user.ActivityLevel,
		Restrictions:  user.Restrictions,
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
	}
	if dto.Restrictions == nil {
		dto.Restrictions = []string{}
	}
	if user.DateOfBirth != nil {
		dob := user.DateOfBirth.Format(validation.DateLayout)
		age := AgeAt(*user.DateOfBirth, now)
		dto.DateOfBirth = &dob
		dto.Age = &age
	}
	return dto
}

// FitnessProfile builds the generation profile from a user record. Age
// defaults to 25 without a date of birth and goal defaults to maintain.
func FitnessProfile(user *storage.User, now time.Time) fitness.UserProfile {
	p := fitness.UserProfile{
		Name:                user.Name,
		Age:                 defaultAge,
		Goal:                fitness.GoalMaintain,
		DietaryRestrictions: user.Restrictions,
	}
	if user.DateOfBirth != nil {
		p.Age = AgeAt(*user.DateOfBirth, now)
	}
	if user.WeightKg != nil {
		p.WeightKg = *user.WeightKg
	}
	if user.HeightCm != nil {
		p.HeightCm = *user.HeightCm
	}
	if user.Goal != nil && *user.Goal != "" {
		p.Goal = fitness.Goal(*user.Goal)
	}
	if user.ActivityLevel != nil {
		p.ActivityLevel = fitness.ActivityLevel(*user.ActivityLevel)
	}
	return p
}

// AgeAt returns full years between dob and now.
func AgeAt(dob, now time.Time) int {
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age
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
