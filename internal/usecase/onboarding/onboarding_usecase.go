package onboarding

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ERSinclair/haven/internal/domain"
	"github.com/ERSinclair/haven/internal/infrastructure/session"
	"github.com/ERSinclair/haven/internal/repository"
)

// OnboardingUseCase drives the multi-step signup wizard: classifying how
// far a profile has progressed, routing resumes, and saving one step at a
// time without ever letting a later step land before an earlier one.
type OnboardingUseCase struct {
	profileRepo repository.ProfileRepository
	sessions    *session.Accessor
	validate    *validator.Validate
	log         *zap.Logger
}

func NewOnboardingUseCase(
	profileRepo repository.ProfileRepository,
	sessions *session.Accessor,
	log *zap.Logger,
) *OnboardingUseCase {
	return &OnboardingUseCase{
		profileRepo: profileRepo,
		sessions:    sessions,
		validate:    validator.New(),
		log:         log,
	}
}

// ResumeState tells the client where an interrupted signup should pick up.
type ResumeState struct {
	Completion domain.CompletionStep `json:"completion"`
	WizardStep int                   `json:"wizard_step"`
	Path       string                `json:"path"`
	Message    string                `json:"message"`
}

// Resume fetches the caller's profile and maps it to the step to land on.
// A missing profile row resumes at about-you, the first wizard step after
// account creation.
func (uc *OnboardingUseCase) Resume(ctx context.Context) (*ResumeState, error) {
	userID, err := uc.sessions.UserID()
	if err != nil {
		return nil, err
	}

	profile, err := uc.profileRepo.GetByID(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrProfileNotFound) {
		return nil, err
	}

	step := domain.ClassifyProfile(profile)
	return &ResumeState{
		Completion: step,
		WizardStep: domain.ResumeStep(step),
		Path:       domain.ResumePath(step),
		Message:    domain.StepMessage(step),
	}, nil
}

// AboutYouRequest carries wizard step 2.
type AboutYouRequest struct {
	Name         string   `json:"name" validate:"required,min=2,max=100"`
	Username     string   `json:"username" validate:"required,min=3,max=30,lowercase,alphanum"`
	LocationName string   `json:"location_name" validate:"required,max=120"`
	Status       []string `json:"status" validate:"required,min=1,dive,oneof=considering new experienced connecting"`
	Bio          string   `json:"bio" validate:"omitempty,max=500"`
}

// SaveAboutYou saves step 2, checking username availability first. The row
// is created here if account creation left none behind.
func (uc *OnboardingUseCase) SaveAboutYou(ctx context.Context, req *AboutYouRequest) error {
	if err := uc.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	userID, err := uc.sessions.UserID()
	if err != nil {
		return err
	}

	taken, err := uc.profileRepo.UsernameTaken(ctx, req.Username, userID)
	if err != nil {
		return err
	}
	if taken {
		return domain.ErrUsernameTaken
	}

	fields := map[string]any{
		"name":          req.Name,
		"username":      req.Username,
		"location_name": req.LocationName,
		"status":        req.Status,
	}
	if req.Bio != "" {
		fields["bio"] = req.Bio
	}

	_, err = uc.profileRepo.GetByID(ctx, userID)
	if errors.Is(err, domain.ErrProfileNotFound) {
		return uc.profileRepo.Create(ctx, &domain.Profile{
			ID:           userID,
			Name:         req.Name,
			Username:     req.Username,
			LocationName: req.LocationName,
			Status:       req.Status,
			Bio:          req.Bio,
		})
	}
	if err != nil {
		return err
	}
	return uc.profileRepo.Update(ctx, userID, fields)
}

// KidsRequest carries wizard step 3.
type KidsRequest struct {
	KidsAges []int `json:"kids_ages" validate:"required,min=1,dive,gte=1,lte=18"`
}

// SaveKidsAges saves step 3. The about-you fields must already be in
// place: the completion order is a contract, never skipped.
func (uc *OnboardingUseCase) SaveKidsAges(ctx context.Context, req *KidsRequest) error {
	if err := uc.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	userID, profile, err := uc.currentProfile(ctx)
	if err != nil {
		return err
	}
	if domain.ClassifyProfile(profile) == domain.StepAboutYou {
		return domain.ErrStepOrder
	}
	return uc.profileRepo.Update(ctx, userID, map[string]any{"kids_ages": req.KidsAges})
}

// ContactRequest carries wizard step 4.
type ContactRequest struct {
	ContactMethods []string `json:"contact_methods" validate:"required,min=1,dive,oneof=app phone email"`
}

// SaveContactMethods saves the final wizard step, requiring both earlier
// steps to be complete.
func (uc *OnboardingUseCase) SaveContactMethods(ctx context.Context, req *ContactRequest) error {
	if err := uc.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	userID, profile, err := uc.currentProfile(ctx)
	if err != nil {
		return err
	}
	switch domain.ClassifyProfile(profile) {
	case domain.StepAboutYou, domain.StepKids:
		return domain.ErrStepOrder
	}
	return uc.profileRepo.Update(ctx, userID, map[string]any{"contact_methods": req.ContactMethods})
}

// EditProfileRequest is a partial update from the profile page; nil fields
// are left untouched.
type EditProfileRequest struct {
	Name           *string   `json:"name" validate:"omitempty,min=2,max=100"`
	LocationName   *string   `json:"location_name" validate:"omitempty,max=120"`
	Bio            *string   `json:"bio" validate:"omitempty,max=500"`
	Status         *[]string `json:"status" validate:"omitempty,min=1,dive,oneof=considering new experienced connecting"`
	KidsAges       *[]int    `json:"kids_ages" validate:"omitempty,min=1,dive,gte=1,lte=18"`
	ContactMethods *[]string `json:"contact_methods" validate:"omitempty,min=1,dive,oneof=app phone email"`
	Interests      *[]string `json:"interests" validate:"omitempty,max=10"`
	AvatarURL      *string   `json:"avatar_url"`
}

// EditProfile applies a partial update to the caller's profile.
func (uc *OnboardingUseCase) EditProfile(ctx context.Context, req *EditProfileRequest) error {
	if err := uc.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	userID, err := uc.sessions.UserID()
	if err != nil {
		return err
	}

	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.LocationName != nil {
		fields["location_name"] = *req.LocationName
	}
	if req.Bio != nil {
		fields["bio"] = *req.Bio
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if req.KidsAges != nil {
		fields["kids_ages"] = *req.KidsAges
	}
	if req.ContactMethods != nil {
		fields["contact_methods"] = *req.ContactMethods
	}
	if req.Interests != nil {
		fields["interests"] = *req.Interests
	}
	if req.AvatarURL != nil {
		fields["avatar_url"] = *req.AvatarURL
	}
	if len(fields) == 0 {
		return nil
	}
	return uc.profileRepo.Update(ctx, userID, fields)
}

// MyProfile returns the caller's profile row.
func (uc *OnboardingUseCase) MyProfile(ctx context.Context) (*domain.Profile, error) {
	_, profile, err := uc.currentProfile(ctx)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, domain.ErrProfileNotFound
	}
	return profile, nil
}

func (uc *OnboardingUseCase) currentProfile(ctx context.Context) (string, *domain.Profile, error) {
	userID, err := uc.sessions.UserID()
	if err != nil {
		return "", nil, err
	}
	profile, err := uc.profileRepo.GetByID(ctx, userID)
	if errors.Is(err, domain.ErrProfileNotFound) {
		return userID, nil, nil
	}
	if err != nil {
		return "", nil, err
	}
	return userID, profile, nil
}
