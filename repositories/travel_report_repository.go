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
	ErrTravelReportNotFound    = errors.New("travel report not found")
	ErrTravelReportInvalidTeam = errors.New("invalid team reference")
	ErrTravelReportInvalidUser = errors.New("invalid user reference")
)

type ListTravelReportsFilter struct {
	// UserID restricts the listing to reports created by that user. Nil lists
	// all reports (admin/kassenwart view).
	UserID *int
}

type TravelReportRepository interface {
	// Create persists the report and all its vehicles in one transaction.
	Create(ctx context.Context, report *models.TravelReport) error
	GetByID(ctx context.Context, id int) (*models.TravelReport, error)
	List(ctx context.Context, filter ListTravelReportsFilter) ([]models.TravelReport, error)
	ListVehiclesByReportID(ctx context.Context, reportID int) ([]models.Vehicle, error)
	UpdateStatus(ctx context.Context, id int, status models.PaymentStatus) error
	Delete(ctx context.Context, id int) error
}

type postgresTravelReportRepository struct {
	db *sql.DB
}

func NewPostgresTravelReportRepository(db *sql.DB) TravelReportRepository {
	return &postgresTravelReportRepository{db: db}
}

func (r *postgresTravelReportRepository) Create(ctx context.Context, report *models.TravelReport) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin travel report transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO travel_reports (travel_date, destination, reason, team_id, user_id, distance, total_cost, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err = tx.QueryRowContext(ctx, query,
		report.TravelDate, report.Destination, report.Reason, report.TeamID,
		report.UserID, report.Distance, report.TotalCost, report.Status,
	).Scan(&report.ID, &report.CreatedAt)
	if err != nil {
		return r.handleTravelReportError(err)
	}

	vehicleQuery := `
		INSERT INTO vehicles (travel_report_id, driver, distance, cost, no_charge)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	for i := range report.Vehicles {
		v := &report.Vehicles[i]
		v.TravelReportID = report.ID
		if err := tx.QueryRowContext(ctx, vehicleQuery,
			v.TravelReportID, v.Driver, v.Distance, v.Cost, v.NoCharge,
		).Scan(&v.ID); err != nil {
			return fmt.Errorf("failed to insert vehicle: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit travel report transaction: %w", err)
	}
	return nil
}

func (r *postgresTravelReportRepository) GetByID(ctx context.Context, id int) (*models.TravelReport, error) {
	query := `
		SELECT
			tr.id, tr.travel_date, tr.destination, tr.reason, tr.team_id, tr.user_id,
			tr.distance, tr.total_cost, tr.status, tr.created_at
		FROM travel_reports tr
		WHERE tr.id = $1`

	report := &models.TravelReport{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&report.ID, &report.TravelDate, &report.Destination, &report.Reason,
		&report.TeamID, &report.UserID, &report.Distance, &report.TotalCost,
		&report.Status, &report.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTravelReportNotFound
		}
		return nil, err
	}
	return report, nil
}

func (r *postgresTravelReportRepository) List(ctx context.Context, filter ListTravelReportsFilter) ([]models.TravelReport, error) {
	query := `
		SELECT
			tr.id, tr.travel_date, tr.destination, tr.reason, tr.team_id, tr.user_id,
			tr.distance, tr.total_cost, tr.status, tr.created_at,
			tm.name, u.name
		FROM travel_reports tr
		JOIN teams tm ON tr.team_id = tm.id
		JOIN users u ON tr.user_id = u.id`

	args := []interface{}{}
	if filter.UserID != nil {
		query += ` WHERE tr.user_id = $1`
		args = append(args, *filter.UserID)
	}
	query += ` ORDER BY tr.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := make([]models.TravelReport, 0)
	for rows.Next() {
		var report models.TravelReport
		var teamName, userName string
		if scanErr := rows.Scan(
			&report.ID, &report.TravelDate, &report.Destination, &report.Reason,
			&report.TeamID, &report.UserID, &report.Distance, &report.TotalCost,
			&report.Status, &report.CreatedAt,
			&teamName, &userName,
		); scanErr != nil {
			return nil, scanErr
		}
		report.Team = &models.Team{ID: report.TeamID, Name: teamName}
		report.User = &models.User{ID: report.UserID, Name: userName}
		reports = append(reports, report)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *postgresTravelReportRepository) ListVehiclesByReportID(ctx context.Context, reportID int) ([]models.Vehicle, error) {
	query := `
		SELECT id, travel_report_id, driver, distance, cost, no_charge
		FROM vehicles
		WHERE travel_report_id = $1
		ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vehicles := make([]models.Vehicle, 0)
	for rows.Next() {
		var v models.Vehicle
		if scanErr := rows.Scan(&v.ID, &v.TravelReportID, &v.Driver, &v.Distance, &v.Cost, &v.NoCharge); scanErr != nil {
			return nil, scanErr
		}
		vehicles = append(vehicles, v)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (r *postgresTravelReportRepository) UpdateStatus(ctx context.Context, id int, status models.PaymentStatus) error {
	query := `UPDATE travel_reports SET status = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTravelReportNotFound)
}

func (r *postgresTravelReportRepository) Delete(ctx context.Context, id int) error {
	// Vehicles go with the report via ON DELETE CASCADE.
	query := `DELETE FROM travel_reports WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTravelReportNotFound)
}

func (r *postgresTravelReportRepository) handleTravelReportError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		if pqErr.Code == "23503" {
			switch pqErr.Constraint {
			case "travel_reports_team_id_fkey":
				return ErrTravelReportInvalidTeam
			case "travel_reports_user_id_fkey":
				return ErrTravelReportInvalidUser
			}
		}
	}
	return err
}
