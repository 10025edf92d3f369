package profile

import (
	"context"
	"time"

	"github.com/heartlinkapp/heartlink-backend/internal/domain"
	"github.com/heartlinkapp/heartlink-backend/internal/repository"
)

type ProfileUseCase struct {
	userRepo repository.UserRepository
}

func NewProfileUseCase(userRepo repository.UserRepository) *ProfileUseCase {
	return &ProfileUseCase{userRepo: userRepo}
}

// UpdateProfileRequest carries partial profile updates; nil fields are
// left untouched.
type UpdateProfileRequest struct {
	FullName  *string `json:"full_name" binding:"omitempty,min=2,max=100"`
	Username  *string `json:"username" binding:"omitempty,alphanum,min=3,max=32"`
	Bio       *string `json:"bio" binding:"omitempty,max=500"`
	AvatarURL *string `json:"avatar_url" binding:"omitempty,url"`
	Gender    *string `json:"gender" binding:"omitempty,oneof=male female other"`
	Birthdate *string `json:"birthdate" binding:"omitempty,datetime=2006-01-02"`
	IsOnline  *bool   `json:"is_online"`
}

// UpdatePreferencesRequest replaces the whole preference blob.
type UpdatePreferencesRequest struct {
	AgeMin           int      `json:"age_min" binding:"required,min=18,max=100"`
	AgeMax           int      `json:"age_max" binding:"required,min=18,max=100,gtefield=AgeMin"`
	Distance         int      `json:"distance" binding:"required,min=1,max=1000"`
	GenderPreference []string `json:"gender_preference" binding:"omitempty,dive,oneof=male female other"`
}

func (uc *ProfileUseCase) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	return uc.userRepo.GetByID(ctx, userID)
}

func (uc *ProfileUseCase) UpdateProfile(ctx context.Context, userID string, req *UpdateProfileRequest) (*domain.UserProfile, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}
	if req.Gender != nil {
		user.Gender = domain.Gender(*req.Gender)
	}
	if req.Birthdate != nil {
		birthdate, err := time.Parse("2006-01-02", *req.Birthdate)
		if err != nil {
			return nil, err
		}
		user.Birthdate = birthdate
	}
	if req.IsOnline != nil {
		user.IsOnline = *req.IsOnline
		now := time.Now().UTC()
		user.LastActive = &now
	}

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (uc *ProfileUseCase) UpdatePreferences(ctx context.Context, userID string, req *UpdatePreferencesRequest) (domain.UserPreferences, error) {
	genders := make([]domain.Gender, 0, len(req.GenderPreference))
	for _, g := range req.GenderPreference {
		genders = append(genders, domain.Gender(g))
	}

	prefs := domain.UserPreferences{
		AgeRange:         domain.AgeRange{Min: req.AgeMin, Max: req.AgeMax},
		Distance:         req.Distance,
		GenderPreference: genders,
	}
	if err := uc.userRepo.UpdatePreferences(ctx, userID, prefs); err != nil {
		return domain.UserPreferences{}, err
	}
	return prefs, nil
}
