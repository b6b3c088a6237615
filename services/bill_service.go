package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/voglerhub/club-system/models"
	"github.com/voglerhub/club-system/repositories"
)

type CreateBillEventInput struct {
	Location  string    `json:"location" validate:"required"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required"`
	Canceled  bool      `json:"canceled"`
}

type CreateBillInput struct {
	TrainerID int                    `json:"trainer_id" validate:"required"`
	TeamID    int                    `json:"team_id" validate:"required"`
	Quarter   int                    `json:"quarter" validate:"required,min=1,max=4"`
	Year      int                    `json:"year" validate:"required"`
	IBAN      *string                `json:"iban,omitempty"`
	Events    []CreateBillEventInput `json:"events" validate:"min=1,dive"`

	// CreatorID is taken from the session, never from the request body.
	CreatorID int `json:"-"`
}

// BillDetails is the read-side view of a bill: the record with its relations
// plus the groupings re-derived through the aggregator.
type BillDetails struct {
	Bill   *models.Bill `json:"bill"`
	Groups []EventGroup `json:"groups"`
}

type BillNotifier interface {
	SendBillCreatedEmail(bill *models.Bill, groups []EventGroup, creatorEmail string) error
}

type BillService interface {
	CreateBill(ctx context.Context, input CreateBillInput) (*models.Bill, error)
	ListBills(ctx context.Context, userID int, role models.UserRole) ([]models.Bill, error)
	GetBillDetails(ctx context.Context, billID int) (*BillDetails, error)
	UpdateBillStatus(ctx context.Context, billID int, status models.PaymentStatus, role models.UserRole) (*models.Bill, error)
}

type billService struct {
	billRepo    repositories.BillRepository
	trainerRepo repositories.TrainerRepository
	teamRepo    repositories.TeamRepository
	userRepo    repositories.UserRepository
	rates       *RateResolver
	notifier    BillNotifier
	validate    *validator.Validate
	logger      *slog.Logger
}

func NewBillService(
	billRepo repositories.BillRepository,
	trainerRepo repositories.TrainerRepository,
	teamRepo repositories.TeamRepository,
	userRepo repositories.UserRepository,
	rates *RateResolver,
	notifier BillNotifier,
	logger *slog.Logger,
) BillService {
	return &billService{
		billRepo:    billRepo,
		trainerRepo: trainerRepo,
		teamRepo:    teamRepo,
		userRepo:    userRepo,
		rates:       rates,
		notifier:    notifier,
		validate:    validator.New(),
		logger:      logger,
	}
}

// CreateBill validates the proposal, prices all events with the trainer's
// current rate and persists bill plus events atomically. The duplicate check
// is the database unique constraint on (trainer, team, quarter, year): two
// concurrent proposals for the same key yield exactly one success.
func (s *billService) CreateBill(ctx context.Context, input CreateBillInput) (*models.Bill, error) {
	if err := s.validateCreateInput(input); err != nil {
		return nil, err
	}

	trainer, err := s.trainerRepo.GetByID(ctx, input.TrainerID)
	if err != nil {
		if errors.Is(err, repositories.ErrTrainerNotFound) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}

	// One rate for the whole bill. Unknown license tiers price at 0 rather
	// than failing the proposal.
	hourlyRate := s.rates.HourlyRate(trainer.LicenseType)

	events := make([]models.TrainingEvent, len(input.Events))
	for i, ev := range input.Events {
		events[i] = models.TrainingEvent{
			Location:  ev.Location,
			StartDate: ev.StartDate,
			EndDate:   ev.EndDate,
			Canceled:  ev.Canceled,
		}
	}
	PriceEvents(events, hourlyRate)

	// Canceled events are struck through in the display but still counted
	// into the total at creation time.
	groups := GroupEventsByLocation(events)

	bill := &models.Bill{
		TrainerID:  input.TrainerID,
		TeamID:     input.TeamID,
		UserID:     input.CreatorID,
		IBAN:       input.IBAN,
		Quarter:    input.Quarter,
		Year:       input.Year,
		HourlyRate: hourlyRate,
		TotalCost:  TotalEventCost(groups),
		Status:     models.StatusUnpaid,
		Events:     events,
	}

	if err := s.billRepo.Create(ctx, bill); err != nil {
		switch {
		case errors.Is(err, repositories.ErrBillDuplicate):
			return nil, fmt.Errorf("%w for Q%d/%d", ErrBillDuplicate, input.Quarter, input.Year)
		case errors.Is(err, repositories.ErrBillInvalidTrainer):
			return nil, ErrTrainerNotFound
		case errors.Is(err, repositories.ErrBillInvalidTeam):
			return nil, ErrTeamNotFound
		case errors.Is(err, repositories.ErrBillInvalidUser):
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	bill.Trainer = trainer
	if team, teamErr := s.teamRepo.GetByID(ctx, input.TeamID); teamErr == nil {
		bill.Team = team
	}

	// Best-effort notification. A slow or failing mail transport must never
	// fail or delay the creation, so this runs detached and swallows errors.
	go s.notifyBillCreated(bill, groups)

	return bill, nil
}

func (s *billService) validateCreateInput(input CreateBillInput) error {
	err := s.validate.Struct(input)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		first := verrs[0]
		switch first.Field() {
		case "Events":
			return ErrBillNoEvents
		case "Quarter":
			if first.Tag() != "required" {
				return ErrInvalidQuarter
			}
		}
	}
	return ErrBillMissingFields
}

func (s *billService) notifyBillCreated(bill *models.Bill, groups []EventGroup) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("bill notification panicked", slog.Any("panic", r))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	creatorEmail := ""
	if creator, err := s.userRepo.GetByID(ctx, bill.UserID); err == nil {
		creatorEmail = creator.Email
	}

	if err := s.notifier.SendBillCreatedEmail(bill, groups, creatorEmail); err != nil {
		s.logger.Error("failed to send bill creation email",
			slog.Int("bill_id", bill.ID), slog.Any("error", err))
		return
	}
	s.logger.Info("bill creation email sent", slog.Int("bill_id", bill.ID))
}

// ListBills returns all bills for privileged roles, and only the user's own
// bills otherwise.
func (s *billService) ListBills(ctx context.Context, userID int, role models.UserRole) ([]models.Bill, error) {
	filter := repositories.ListBillsFilter{}
	if !role.IsPrivileged() {
		filter.UserID = &userID
	}
	return s.billRepo.List(ctx, filter)
}

// GetBillDetails loads the bill with its relations and re-derives the
// per-location groupings for display and export.
func (s *billService) GetBillDetails(ctx context.Context, billID int) (*BillDetails, error) {
	bill, err := s.billRepo.GetByID(ctx, billID)
	if err != nil {
		if errors.Is(err, repositories.ErrBillNotFound) {
			return nil, ErrBillNotFound
		}
		return nil, err
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		events, err := s.billRepo.ListEventsByBillID(gCtx, bill.ID)
		if err == nil {
			bill.Events = events
		}
		return err
	})
	g.Go(func() error {
		trainer, err := s.trainerRepo.GetByID(gCtx, bill.TrainerID)
		if err == nil {
			bill.Trainer = trainer
		}
		return err
	})
	g.Go(func() error {
		team, err := s.teamRepo.GetByID(gCtx, bill.TeamID)
		if err == nil {
			bill.Team = team
		}
		return err
	})
	g.Go(func() error {
		user, err := s.userRepo.GetByID(gCtx, bill.UserID)
		if err == nil {
			user.PasswordHash = ""
			bill.User = user
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &BillDetails{
		Bill:   bill,
		Groups: GroupEventsByLocation(bill.Events),
	}, nil
}

// UpdateBillStatus flips the payment status. Only admin and kassenwart may do
// this, transitions are bidirectional and re-entering the current status is a
// successful no-op.
func (s *billService) UpdateBillStatus(ctx context.Context, billID int, status models.PaymentStatus, role models.UserRole) (*models.Bill, error) {
	if !role.IsPrivileged() {
		return nil, ErrForbiddenOperation
	}
	if !status.Valid() {
		return nil, ErrInvalidPaymentStatus
	}

	bill, err := s.billRepo.GetByID(ctx, billID)
	if err != nil {
		if errors.Is(err, repositories.ErrBillNotFound) {
			return nil, ErrBillNotFound
		}
		return nil, err
	}

	if bill.Status == status {
		return bill, nil
	}

	if err := s.billRepo.UpdateStatus(ctx, billID, status); err != nil {
		if errors.Is(err, repositories.ErrBillNotFound) {
			return nil, ErrBillNotFound
		}
		return nil, err
	}
	bill.Status = status
	return bill, nil
}
