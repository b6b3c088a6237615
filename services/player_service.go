package services

import (
	"context"
	"errors"
	"time"

	"github.com/voglerhub/club-system/models"
	"github.com/voglerhub/club-system/repositories"
)

type PlayerInput struct {
	Name     string     `json:"name"`
	Birthday *time.Time `json:"birthday,omitempty"`
	Gender   *string    `json:"gender,omitempty"`
	TeamIDs  []int      `json:"team_ids,omitempty"`
}

type PlayerService interface {
	CreatePlayer(ctx context.Context, input PlayerInput) (*models.Player, error)
	GetPlayerByID(ctx context.Context, id int) (*models.Player, error)
	ListPlayers(ctx context.Context) ([]models.Player, error)
	UpdatePlayer(ctx context.Context, id int, input PlayerInput) (*models.Player, error)
	DeletePlayer(ctx context.Context, id int) error
}

type playerService struct {
	playerRepo repositories.PlayerRepository
}

func NewPlayerService(playerRepo repositories.PlayerRepository) PlayerService {
	return &playerService{playerRepo: playerRepo}
}

func (s *playerService) CreatePlayer(ctx context.Context, input PlayerInput) (*models.Player, error) {
	if input.Name == "" {
		return nil, ErrPlayerNameRequired
	}

	player := &models.Player{
		Name:     input.Name,
		Birthday: input.Birthday,
		Gender:   parseGender(input.Gender),
	}
	if err := s.playerRepo.Create(ctx, player, input.TeamIDs); err != nil {
		return nil, err
	}
	return player, nil
}

func (s *playerService) GetPlayerByID(ctx context.Context, id int) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return player, nil
}

func (s *playerService) ListPlayers(ctx context.Context) ([]models.Player, error) {
	return s.playerRepo.List(ctx)
}

func (s *playerService) UpdatePlayer(ctx context.Context, id int, input PlayerInput) (*models.Player, error) {
	if input.Name == "" {
		return nil, ErrPlayerNameRequired
	}

	player := &models.Player{
		ID:       id,
		Name:     input.Name,
		Birthday: input.Birthday,
		Gender:   parseGender(input.Gender),
	}
	if err := s.playerRepo.Update(ctx, player, input.TeamIDs); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return player, nil
}

func (s *playerService) DeletePlayer(ctx context.Context, id int) error {
	err := s.playerRepo.Delete(ctx, id)
	if errors.Is(err, repositories.ErrPlayerNotFound) {
		return ErrPlayerNotFound
	}
	return err
}

// parseGender keeps the stored value within the known set, anything else is
// treated as not specified.
func parseGender(s *string) *models.Gender {
	if s == nil || *s == "" {
		return nil
	}
	g := models.Gender(*s)
	switch g {
	case models.GenderMaennlich, models.GenderWeiblich, models.GenderDivers:
		return &g
	}
	return nil
}
