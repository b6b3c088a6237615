package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/voglerhub/club-system/models"
)

var (
	ErrBillNotFound       = errors.New("bill not found")
	ErrBillDuplicate      = errors.New("bill already exists for this trainer, team and quarter")
	ErrBillInvalidTrainer = errors.New("invalid trainer reference")
	ErrBillInvalidTeam    = errors.New("invalid team reference")
	ErrBillInvalidUser    = errors.New("invalid user reference")
)

type ListBillsFilter struct {
	// UserID restricts the listing to bills created by that user. Nil lists
	// all bills (admin/kassenwart view).
	UserID *int
}

type BillRepository interface {
	// Create persists the bill and all its training events in one
	// transaction. The (trainer, team, quarter, year) uniqueness is enforced
	// by the database, a violation surfaces as ErrBillDuplicate.
	Create(ctx context.Context, bill *models.Bill) error
	GetByID(ctx context.Context, id int) (*models.Bill, error)
	List(ctx context.Context, filter ListBillsFilter) ([]models.Bill, error)
	ListEventsByBillID(ctx context.Context, billID int) ([]models.TrainingEvent, error)
	UpdateStatus(ctx context.Context, id int, status models.PaymentStatus) error
}

type postgresBillRepository struct {
	db *sql.DB
}

func NewPostgresBillRepository(db *sql.DB) BillRepository {
	return &postgresBillRepository{db: db}
}

func (r *postgresBillRepository) Create(ctx context.Context, bill *models.Bill) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin bill transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO bills (trainer_id, team_id, user_id, iban, quarter, year, hourly_rate, total_cost, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	err = tx.QueryRowContext(ctx, query,
		bill.TrainerID, bill.TeamID, bill.UserID, bill.IBAN,
		bill.Quarter, bill.Year, bill.HourlyRate, bill.TotalCost, bill.Status,
	).Scan(&bill.ID, &bill.CreatedAt)
	if err != nil {
		return r.handleBillError(err)
	}

	eventQuery := `
		INSERT INTO training_events (bill_id, location, start_date, end_date, duration_hours, hourly_rate, cost, canceled)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	for i := range bill.Events {
		ev := &bill.Events[i]
		ev.BillID = bill.ID
		if err := tx.QueryRowContext(ctx, eventQuery,
			ev.BillID, ev.Location, ev.StartDate, ev.EndDate,
			ev.DurationHours, ev.HourlyRate, ev.Cost, ev.Canceled,
		).Scan(&ev.ID); err != nil {
			return fmt.Errorf("failed to insert training event: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit bill transaction: %w", err)
	}
	return nil
}

func (r *postgresBillRepository) GetByID(ctx context.Context, id int) (*models.Bill, error) {
	query := `
		SELECT
			b.id, b.trainer_id, b.team_id, b.user_id, b.iban, b.quarter, b.year,
			b.hourly_rate, b.total_cost, b.status, b.created_at
		FROM bills b
		WHERE b.id = $1`

	b := &models.Bill{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&b.ID, &b.TrainerID, &b.TeamID, &b.UserID, &b.IBAN, &b.Quarter, &b.Year,
		&b.HourlyRate, &b.TotalCost, &b.Status, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBillNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *postgresBillRepository) List(ctx context.Context, filter ListBillsFilter) ([]models.Bill, error) {
	query := `
		SELECT
			b.id, b.trainer_id, b.team_id, b.user_id, b.iban, b.quarter, b.year,
			b.hourly_rate, b.total_cost, b.status, b.created_at,
			tr.name, tm.name
		FROM bills b
		JOIN trainers tr ON b.trainer_id = tr.id
		JOIN teams tm ON b.team_id = tm.id`

	args := []interface{}{}
	if filter.UserID != nil {
		query += ` WHERE b.user_id = $1`
		args = append(args, *filter.UserID)
	}
	query += ` ORDER BY b.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bills := make([]models.Bill, 0)
	for rows.Next() {
		var b models.Bill
		var trainerName, teamName string
		if scanErr := rows.Scan(
			&b.ID, &b.TrainerID, &b.TeamID, &b.UserID, &b.IBAN, &b.Quarter, &b.Year,
			&b.HourlyRate, &b.TotalCost, &b.Status, &b.CreatedAt,
			&trainerName, &teamName,
		); scanErr != nil {
			return nil, scanErr
		}
		b.Trainer = &models.Trainer{ID: b.TrainerID, Name: trainerName}
		b.Team = &models.Team{ID: b.TeamID, Name: teamName}
		bills = append(bills, b)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return bills, nil
}

func (r *postgresBillRepository) ListEventsByBillID(ctx context.Context, billID int) ([]models.TrainingEvent, error) {
	query := `
		SELECT id, bill_id, location, start_date, end_date, duration_hours, hourly_rate, cost, canceled
		FROM training_events
		WHERE bill_id = $1
		ORDER BY start_date ASC`

	rows, err := r.db.QueryContext(ctx, query, billID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]models.TrainingEvent, 0)
	for rows.Next() {
		var ev models.TrainingEvent
		if scanErr := rows.Scan(
			&ev.ID, &ev.BillID, &ev.Location, &ev.StartDate, &ev.EndDate,
			&ev.DurationHours, &ev.HourlyRate, &ev.Cost, &ev.Canceled,
		); scanErr != nil {
			return nil, scanErr
		}
		events = append(events, ev)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *postgresBillRepository) UpdateStatus(ctx context.Context, id int, status models.PaymentStatus) error {
	query := `UPDATE bills SET status = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrBillNotFound)
}

func (r *postgresBillRepository) handleBillError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505": // unique_violation
			if pqErr.Constraint == "bills_trainer_id_team_id_quarter_year_key" {
				return ErrBillDuplicate
			}
		case "23503": // foreign_key_violation
			switch pqErr.Constraint {
			case "bills_trainer_id_fkey":
				return ErrBillInvalidTrainer
			case "bills_team_id_fkey":
				return ErrBillInvalidTeam
			case "bills_user_id_fkey":
				return ErrBillInvalidUser
			}
		}
	}
	return err
}
