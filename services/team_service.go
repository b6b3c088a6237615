package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/voglerhub/club-system/models"
	"github.com/voglerhub/club-system/repositories"
	"github.com/voglerhub/club-system/storage"
)

type TeamInput struct {
	Name       string `json:"name"`
	TrainerIDs []int  `json:"trainer_ids,omitempty"`
}

// TeamDetails carries the team with its full trainer and player rosters, the
// view behind the team detail dialog and the roster export.
type TeamDetails struct {
	Team *models.Team `json:"team"`
}

type TeamService interface {
	CreateTeam(ctx context.Context, input TeamInput) (*models.Team, error)
	GetTeamByID(ctx context.Context, id int) (*models.Team, error)
	GetTeamDetails(ctx context.Context, id int) (*TeamDetails, error)
	ListTeams(ctx context.Context) ([]models.Team, error)
	UpdateTeam(ctx context.Context, id int, input TeamInput) (*models.Team, error)
	UploadTeamLogo(ctx context.Context, teamID int, contentType string, file io.Reader) (*models.Team, error)
	DeleteTeam(ctx context.Context, id int) error
}

type teamService struct {
	teamRepo    repositories.TeamRepository
	trainerRepo repositories.TrainerRepository
	playerRepo  repositories.PlayerRepository
	uploader    storage.FileUploader
}

func NewTeamService(
	teamRepo repositories.TeamRepository,
	trainerRepo repositories.TrainerRepository,
	playerRepo repositories.PlayerRepository,
	uploader storage.FileUploader,
) TeamService {
	return &teamService{
		teamRepo:    teamRepo,
		trainerRepo: trainerRepo,
		playerRepo:  playerRepo,
		uploader:    uploader,
	}
}

func (s *teamService) CreateTeam(ctx context.Context, input TeamInput) (*models.Team, error) {
	if input.Name == "" {
		return nil, ErrTeamNameRequired
	}

	team := &models.Team{Name: input.Name}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNameConflict) {
			return nil, ErrTeamNameConflict
		}
		return nil, err
	}

	if len(input.TrainerIDs) > 0 {
		if err := s.teamRepo.SetTrainers(ctx, team.ID, input.TrainerIDs); err != nil {
			return nil, err
		}
	}
	return team, nil
}

func (s *teamService) GetTeamByID(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	s.attachLogoURL(team)
	return team, nil
}

// GetTeamDetails loads trainers and players of the team in parallel. Players
// come back ordered by name.
func (s *teamService) GetTeamDetails(ctx context.Context, id int) (*TeamDetails, error) {
	team, err := s.GetTeamByID(ctx, id)
	if err != nil {
		return nil, err
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		trainers, err := s.trainerRepo.ListByTeamID(gCtx, id)
		if err == nil {
			team.Trainers = trainers
		}
		return err
	})
	g.Go(func() error {
		players, err := s.playerRepo.ListByTeamID(gCtx, id)
		if err == nil {
			team.Players = players
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &TeamDetails{Team: team}, nil
}

func (s *teamService) ListTeams(ctx context.Context) ([]models.Team, error) {
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range teams {
		s.attachLogoURL(&teams[i])
	}
	return teams, nil
}

func (s *teamService) UpdateTeam(ctx context.Context, id int, input TeamInput) (*models.Team, error) {
	if input.Name == "" {
		return nil, ErrTeamNameRequired
	}

	team := &models.Team{ID: id, Name: input.Name}
	if err := s.teamRepo.Update(ctx, team); err != nil {
		switch {
		case errors.Is(err, repositories.ErrTeamNotFound):
			return nil, ErrTeamNotFound
		case errors.Is(err, repositories.ErrTeamNameConflict):
			return nil, ErrTeamNameConflict
		}
		return nil, err
	}

	if input.TrainerIDs != nil {
		if err := s.teamRepo.SetTrainers(ctx, id, input.TrainerIDs); err != nil {
			return nil, err
		}
	}
	return s.GetTeamByID(ctx, id)
}

func (s *teamService) UploadTeamLogo(ctx context.Context, teamID int, contentType string, file io.Reader) (*models.Team, error) {
	team, err := s.GetTeamByID(ctx, teamID)
	if err != nil {
		return nil, err
	}

	ext := "png"
	if parts := strings.Split(contentType, "/"); len(parts) == 2 && parts[1] != "" {
		ext = parts[1]
	}
	key := fmt.Sprintf("teams/%d/logo.%s", teamID, ext)

	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload team logo: %w", err)
	}

	// An old logo under a different key is deleted best-effort.
	if team.LogoKey != nil && *team.LogoKey != result.Key {
		_ = s.uploader.Delete(ctx, *team.LogoKey)
	}

	if err := s.teamRepo.UpdateLogoKey(ctx, teamID, &result.Key); err != nil {
		return nil, err
	}
	team.LogoKey = &result.Key
	s.attachLogoURL(team)
	return team, nil
}

func (s *teamService) DeleteTeam(ctx context.Context, id int) error {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return err
	}

	if err := s.teamRepo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repositories.ErrTeamNotFound):
			return ErrTeamNotFound
		case errors.Is(err, repositories.ErrTeamInUse):
			return ErrTeamInUse
		}
		return err
	}

	if team.LogoKey != nil {
		_ = s.uploader.Delete(ctx, *team.LogoKey)
	}
	return nil
}

func (s *teamService) attachLogoURL(team *models.Team) {
	if team.LogoKey == nil || s.uploader == nil {
		return
	}
	url := s.uploader.GetPublicURL(*team.LogoKey)
	team.LogoURL = &url
}
