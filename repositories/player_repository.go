package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/voglerhub/club-system/models"
)

var ErrPlayerNotFound = errors.New("player not found")

type PlayerRepository interface {
	// Create persists the player and the team assignments in one transaction.
	Create(ctx context.Context, player *models.Player, teamIDs []int) error
	GetByID(ctx context.Context, id int) (*models.Player, error)
	List(ctx context.Context) ([]models.Player, error)
	ListByTeamID(ctx context.Context, teamID int) ([]models.Player, error)
	// Update rewrites the player fields and replaces the team assignments.
	Update(ctx context.Context, player *models.Player, teamIDs []int) error
	Delete(ctx context.Context, id int) error
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) Create(ctx context.Context, player *models.Player, teamIDs []int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin player transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO players (name, birthday, gender)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	if err := tx.QueryRowContext(ctx, query,
		player.Name, player.Birthday, player.Gender,
	).Scan(&player.ID, &player.CreatedAt); err != nil {
		return err
	}

	if err := insertPlayerTeams(ctx, tx, player.ID, teamIDs); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	query := `
		SELECT id, name, birthday, gender, created_at
		FROM players
		WHERE id = $1`

	p := &models.Player{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.Birthday, &p.Gender, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresPlayerRepository) List(ctx context.Context) ([]models.Player, error) {
	query := `
		SELECT id, name, birthday, gender, created_at
		FROM players
		ORDER BY name ASC`

	return r.queryPlayers(ctx, query)
}

func (r *postgresPlayerRepository) ListByTeamID(ctx context.Context, teamID int) ([]models.Player, error) {
	query := `
		SELECT p.id, p.name, p.birthday, p.gender, p.created_at
		FROM players p
		JOIN player_teams pt ON pt.player_id = p.id
		WHERE pt.team_id = $1
		ORDER BY p.name ASC`

	return r.queryPlayers(ctx, query, teamID)
}

func (r *postgresPlayerRepository) queryPlayers(ctx context.Context, query string, args ...interface{}) ([]models.Player, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]models.Player, 0)
	for rows.Next() {
		var p models.Player
		if scanErr := rows.Scan(&p.ID, &p.Name, &p.Birthday, &p.Gender, &p.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		players = append(players, p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return players, nil
}

func (r *postgresPlayerRepository) Update(ctx context.Context, player *models.Player, teamIDs []int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin player transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE players SET name = $1, birthday = $2, gender = $3
		WHERE id = $4`

	result, err := tx.ExecContext(ctx, query, player.Name, player.Birthday, player.Gender, player.ID)
	if err != nil {
		return err
	}
	if err := checkAffectedRows(result, ErrPlayerNotFound); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM player_teams WHERE player_id = $1`, player.ID); err != nil {
		return err
	}
	if err := insertPlayerTeams(ctx, tx, player.ID, teamIDs); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *postgresPlayerRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM players WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func insertPlayerTeams(ctx context.Context, exec SQLExecutor, playerID int, teamIDs []int) error {
	for _, teamID := range teamIDs {
		if _, err := exec.ExecContext(ctx,
			`INSERT INTO player_teams (player_id, team_id) VALUES ($1, $2)`,
			playerID, teamID,
		); err != nil {
			return err
		}
	}
	return nil
}
