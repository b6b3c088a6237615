package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/voglerhub/club-system/models"
	"github.com/voglerhub/club-system/repositories"
)

type CreateVehicleInput struct {
	Driver   *string `json:"driver,omitempty"`
	Distance float64 `json:"distance" validate:"required,gt=0"`
	NoCharge bool    `json:"no_charge"`
}

type CreateTravelReportInput struct {
	TravelDate  time.Time            `json:"travel_date" validate:"required"`
	Destination string               `json:"destination" validate:"required"`
	Reason      *string              `json:"reason,omitempty"`
	TeamID      int                  `json:"team_id" validate:"required"`
	Vehicles    []CreateVehicleInput `json:"vehicles" validate:"min=1,dive"`

	// CreatorID is taken from the session, never from the request body.
	CreatorID int `json:"-"`
}

type TravelNotifier interface {
	SendTravelReportCreatedEmail(report *models.TravelReport, creatorEmail string) error
}

type TravelReportService interface {
	CreateTravelReport(ctx context.Context, input CreateTravelReportInput) (*models.TravelReport, error)
	ListTravelReports(ctx context.Context, userID int, role models.UserRole) ([]models.TravelReport, error)
	GetTravelReport(ctx context.Context, reportID, userID int, role models.UserRole) (*models.TravelReport, error)
	UpdateTravelReportStatus(ctx context.Context, reportID int, status models.PaymentStatus, role models.UserRole) (*models.TravelReport, error)
	DeleteTravelReport(ctx context.Context, reportID, userID int, role models.UserRole) error
}

type travelReportService struct {
	reportRepo repositories.TravelReportRepository
	teamRepo   repositories.TeamRepository
	userRepo   repositories.UserRepository
	rates      *RateResolver
	notifier   TravelNotifier
	validate   *validator.Validate
	logger     *slog.Logger
}

func NewTravelReportService(
	reportRepo repositories.TravelReportRepository,
	teamRepo repositories.TeamRepository,
	userRepo repositories.UserRepository,
	rates *RateResolver,
	notifier TravelNotifier,
	logger *slog.Logger,
) TravelReportService {
	return &travelReportService{
		reportRepo: reportRepo,
		teamRepo:   teamRepo,
		userRepo:   userRepo,
		rates:      rates,
		notifier:   notifier,
		validate:   validator.New(),
		logger:     logger,
	}
}

// CreateTravelReport prices all vehicles server-side with the configured km
// rate and persists report plus vehicles atomically. Client-supplied costs
// are ignored, the totals are always derived here.
func (s *travelReportService) CreateTravelReport(ctx context.Context, input CreateTravelReportInput) (*models.TravelReport, error) {
	if err := s.validateCreateInput(input); err != nil {
		return nil, err
	}

	vehicles := make([]models.Vehicle, len(input.Vehicles))
	for i, v := range input.Vehicles {
		vehicles[i] = models.Vehicle{
			Driver:   v.Driver,
			Distance: v.Distance,
			NoCharge: v.NoCharge,
		}
	}
	totalDistance, totalCost := PriceVehicles(vehicles, s.rates.KmRate())

	report := &models.TravelReport{
		TravelDate:  input.TravelDate,
		Destination: input.Destination,
		Reason:      input.Reason,
		TeamID:      input.TeamID,
		UserID:      input.CreatorID,
		Distance:    totalDistance,
		TotalCost:   totalCost,
		Status:      models.StatusUnpaid,
		Vehicles:    vehicles,
	}

	if err := s.reportRepo.Create(ctx, report); err != nil {
		switch {
		case errors.Is(err, repositories.ErrTravelReportInvalidTeam):
			return nil, ErrTeamNotFound
		case errors.Is(err, repositories.ErrTravelReportInvalidUser):
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if team, teamErr := s.teamRepo.GetByID(ctx, input.TeamID); teamErr == nil {
		report.Team = team
	}

	// Best-effort notification, detached from the request.
	go s.notifyReportCreated(report)

	return report, nil
}

func (s *travelReportService) validateCreateInput(input CreateTravelReportInput) error {
	err := s.validate.Struct(input)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		if verrs[0].Field() == "Vehicles" {
			return ErrReportNoVehicles
		}
	}
	return ErrReportMissingFields
}

func (s *travelReportService) notifyReportCreated(report *models.TravelReport) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("travel report notification panicked", slog.Any("panic", r))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	creatorEmail := ""
	if creator, err := s.userRepo.GetByID(ctx, report.UserID); err == nil {
		creatorEmail = creator.Email
	}

	if err := s.notifier.SendTravelReportCreatedEmail(report, creatorEmail); err != nil {
		s.logger.Error("failed to send travel report creation email",
			slog.Int("report_id", report.ID), slog.Any("error", err))
		return
	}
	s.logger.Info("travel report creation email sent", slog.Int("report_id", report.ID))
}

// ListTravelReports returns all reports for privileged roles, and only the
// user's own reports otherwise.
func (s *travelReportService) ListTravelReports(ctx context.Context, userID int, role models.UserRole) ([]models.TravelReport, error) {
	filter := repositories.ListTravelReportsFilter{}
	if !role.IsPrivileged() {
		filter.UserID = &userID
	}
	return s.reportRepo.List(ctx, filter)
}

// GetTravelReport loads one report with its vehicles. Only the creator and
// privileged roles may read it; the check sits here at the service boundary
// and is repeated on every entry point.
func (s *travelReportService) GetTravelReport(ctx context.Context, reportID, userID int, role models.UserRole) (*models.TravelReport, error) {
	report, err := s.loadAuthorized(ctx, reportID, userID, role)
	if err != nil {
		return nil, err
	}

	vehicles, err := s.reportRepo.ListVehiclesByReportID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	report.Vehicles = vehicles

	if team, teamErr := s.teamRepo.GetByID(ctx, report.TeamID); teamErr == nil {
		report.Team = team
	}
	if user, userErr := s.userRepo.GetByID(ctx, report.UserID); userErr == nil {
		user.PasswordHash = ""
		report.User = user
	}
	return report, nil
}

// UpdateTravelReportStatus mirrors the bill status machine: unpaid and paid,
// bidirectional, privileged roles only, idempotent re-entry.
func (s *travelReportService) UpdateTravelReportStatus(ctx context.Context, reportID int, status models.PaymentStatus, role models.UserRole) (*models.TravelReport, error) {
	if !role.IsPrivileged() {
		return nil, ErrForbiddenOperation
	}
	if !status.Valid() {
		return nil, ErrInvalidPaymentStatus
	}

	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, repositories.ErrTravelReportNotFound) {
			return nil, ErrTravelReportNotFound
		}
		return nil, err
	}

	if report.Status == status {
		return report, nil
	}

	if err := s.reportRepo.UpdateStatus(ctx, reportID, status); err != nil {
		if errors.Is(err, repositories.ErrTravelReportNotFound) {
			return nil, ErrTravelReportNotFound
		}
		return nil, err
	}
	report.Status = status
	return report, nil
}

// DeleteTravelReport removes the report and its vehicles. Creator or
// privileged roles only.
func (s *travelReportService) DeleteTravelReport(ctx context.Context, reportID, userID int, role models.UserRole) error {
	if _, err := s.loadAuthorized(ctx, reportID, userID, role); err != nil {
		return err
	}
	if err := s.reportRepo.Delete(ctx, reportID); err != nil {
		if errors.Is(err, repositories.ErrTravelReportNotFound) {
			return ErrTravelReportNotFound
		}
		return err
	}
	return nil
}

func (s *travelReportService) loadAuthorized(ctx context.Context, reportID, userID int, role models.UserRole) (*models.TravelReport, error) {
	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, repositories.ErrTravelReportNotFound) {
			return nil, ErrTravelReportNotFound
		}
		return nil, err
	}
	if report.UserID != userID && !role.IsPrivileged() {
		return nil, ErrForbiddenOperation
	}
	return report, nil
}
