package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voglerhub/club-system/models"
)

func strPtr(s string) *string { return &s }

func TestCreateTrainer(t *testing.T) {
	svc := NewTrainerService(&fakeTrainerRepo{trainers: make(map[int]*models.Trainer)})

	t.Run("with license tier", func(t *testing.T) {
		trainer, err := svc.CreateTrainer(context.Background(), TrainerInput{
			Name:        "Maik Vogler",
			Stammverein: strPtr("HSG Beispiel"),
			LicenseType: strPtr("c_lizenz"),
		})

		require.NoError(t, err)
		require.NotNil(t, trainer.LicenseType)
		assert.Equal(t, models.LicenseC, *trainer.LicenseType)
	})

	t.Run("without license tier", func(t *testing.T) {
		trainer, err := svc.CreateTrainer(context.Background(), TrainerInput{Name: "Ohne Lizenz"})

		require.NoError(t, err)
		assert.Nil(t, trainer.LicenseType)
	})

	t.Run("unknown license tier is rejected on write", func(t *testing.T) {
		_, err := svc.CreateTrainer(context.Background(), TrainerInput{
			Name:        "Maik Vogler",
			LicenseType: strPtr("d_lizenz"),
		})

		assert.ErrorIs(t, err, ErrInvalidLicenseType)
	})

	t.Run("missing name is rejected", func(t *testing.T) {
		_, err := svc.CreateTrainer(context.Background(), TrainerInput{})

		assert.ErrorIs(t, err, ErrTrainerNameRequired)
	})
}

func TestGetTrainerByID(t *testing.T) {
	license := models.LicenseB
	svc := NewTrainerService(&fakeTrainerRepo{trainers: map[int]*models.Trainer{
		1: {ID: 1, Name: "Maik Vogler", LicenseType: &license},
	}})

	trainer, err := svc.GetTrainerByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Maik Vogler", trainer.Name)

	_, err = svc.GetTrainerByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrTrainerNotFound)
}
