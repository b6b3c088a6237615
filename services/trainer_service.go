package services

import (
	"context"
	"errors"

	"github.com/voglerhub/club-system/models"
	"github.com/voglerhub/club-system/repositories"
)

type TrainerInput struct {
	Name        string  `json:"name"`
	Stammverein *string `json:"stammverein,omitempty"`
	LicenseType *string `json:"license_type,omitempty"`
}

type TrainerService interface {
	CreateTrainer(ctx context.Context, input TrainerInput) (*models.Trainer, error)
	GetTrainerByID(ctx context.Context, id int) (*models.Trainer, error)
	ListTrainers(ctx context.Context) ([]models.Trainer, error)
	UpdateTrainer(ctx context.Context, id int, input TrainerInput) (*models.Trainer, error)
	DeleteTrainer(ctx context.Context, id int) error
}

type trainerService struct {
	trainerRepo repositories.TrainerRepository
}

func NewTrainerService(trainerRepo repositories.TrainerRepository) TrainerService {
	return &trainerService{trainerRepo: trainerRepo}
}

func (s *trainerService) CreateTrainer(ctx context.Context, input TrainerInput) (*models.Trainer, error) {
	licenseType, err := parseLicenseType(input.LicenseType)
	if err != nil {
		return nil, err
	}
	if input.Name == "" {
		return nil, ErrTrainerNameRequired
	}

	trainer := &models.Trainer{
		Name:        input.Name,
		Stammverein: input.Stammverein,
		LicenseType: licenseType,
	}
	if err := s.trainerRepo.Create(ctx, trainer); err != nil {
		return nil, err
	}
	return trainer, nil
}

func (s *trainerService) GetTrainerByID(ctx context.Context, id int) (*models.Trainer, error) {
	trainer, err := s.trainerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTrainerNotFound) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}
	return trainer, nil
}

func (s *trainerService) ListTrainers(ctx context.Context) ([]models.Trainer, error) {
	return s.trainerRepo.List(ctx)
}

func (s *trainerService) UpdateTrainer(ctx context.Context, id int, input TrainerInput) (*models.Trainer, error) {
	licenseType, err := parseLicenseType(input.LicenseType)
	if err != nil {
		return nil, err
	}
	if input.Name == "" {
		return nil, ErrTrainerNameRequired
	}

	trainer := &models.Trainer{
		ID:          id,
		Name:        input.Name,
		Stammverein: input.Stammverein,
		LicenseType: licenseType,
	}
	if err := s.trainerRepo.Update(ctx, trainer); err != nil {
		if errors.Is(err, repositories.ErrTrainerNotFound) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}
	return trainer, nil
}

func (s *trainerService) DeleteTrainer(ctx context.Context, id int) error {
	err := s.trainerRepo.Delete(ctx, id)
	switch {
	case errors.Is(err, repositories.ErrTrainerNotFound):
		return ErrTrainerNotFound
	case errors.Is(err, repositories.ErrTrainerInUse):
		return ErrTrainerInUse
	}
	return err
}

// parseLicenseType accepts nil (no tier) and any of the known tiers. Unknown
// strings are rejected on write even though pricing would tolerate them, so
// typos don't silently produce zero-rate trainers.
func parseLicenseType(s *string) (*models.LicenseType, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	lt := models.LicenseType(*s)
	if !lt.Valid() {
		return nil, ErrInvalidLicenseType
	}
	return &lt, nil
}
