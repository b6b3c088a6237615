package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/voglerhub/club-system/models"
)

var (
	ErrTrainerNotFound = errors.New("trainer not found")
	ErrTrainerInUse    = errors.New("trainer is referenced by existing bills")
)

type TrainerRepository interface {
	Create(ctx context.Context, trainer *models.Trainer) error
	GetByID(ctx context.Context, id int) (*models.Trainer, error)
	List(ctx context.Context) ([]models.Trainer, error)
	ListByTeamID(ctx context.Context, teamID int) ([]models.Trainer, error)
	Update(ctx context.Context, trainer *models.Trainer) error
	Delete(ctx context.Context, id int) error
}

type postgresTrainerRepository struct {
	db *sql.DB
}

func NewPostgresTrainerRepository(db *sql.DB) TrainerRepository {
	return &postgresTrainerRepository{db: db}
}

func (r *postgresTrainerRepository) Create(ctx context.Context, trainer *models.Trainer) error {
	query := `
		INSERT INTO trainers (name, stammverein, license_type)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		trainer.Name, trainer.Stammverein, trainer.LicenseType,
	).Scan(&trainer.ID, &trainer.CreatedAt)
}

func (r *postgresTrainerRepository) GetByID(ctx context.Context, id int) (*models.Trainer, error) {
	query := `
		SELECT id, name, stammverein, license_type, created_at
		FROM trainers
		WHERE id = $1`

	t := &models.Trainer{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.Name, &t.Stammverein, &t.LicenseType, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *postgresTrainerRepository) List(ctx context.Context) ([]models.Trainer, error) {
	query := `
		SELECT id, name, stammverein, license_type, created_at
		FROM trainers
		ORDER BY name ASC`

	return r.queryTrainers(ctx, query)
}

func (r *postgresTrainerRepository) ListByTeamID(ctx context.Context, teamID int) ([]models.Trainer, error) {
	query := `
		SELECT t.id, t.name, t.stammverein, t.license_type, t.created_at
		FROM trainers t
		JOIN trainer_teams tt ON tt.trainer_id = t.id
		WHERE tt.team_id = $1
		ORDER BY t.name ASC`

	return r.queryTrainers(ctx, query, teamID)
}

func (r *postgresTrainerRepository) queryTrainers(ctx context.Context, query string, args ...interface{}) ([]models.Trainer, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trainers := make([]models.Trainer, 0)
	for rows.Next() {
		var t models.Trainer
		if scanErr := rows.Scan(&t.ID, &t.Name, &t.Stammverein, &t.LicenseType, &t.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		trainers = append(trainers, t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return trainers, nil
}

func (r *postgresTrainerRepository) Update(ctx context.Context, trainer *models.Trainer) error {
	query := `
		UPDATE trainers SET name = $1, stammverein = $2, license_type = $3
		WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query,
		trainer.Name, trainer.Stammverein, trainer.LicenseType, trainer.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTrainerNotFound)
}

func (r *postgresTrainerRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM trainers WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrTrainerInUse
		}
		return err
	}
	return checkAffectedRows(result, ErrTrainerNotFound)
}
