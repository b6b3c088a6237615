package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voglerhub/club-system/models"
	"github.com/voglerhub/club-system/repositories"
)

// --- fakes ---

type fakeBillRepo struct {
	bills     map[int]*models.Bill
	events    map[int][]models.TrainingEvent
	createErr error
	nextID    int
	statuses  map[int]models.PaymentStatus
}

func newFakeBillRepo() *fakeBillRepo {
	return &fakeBillRepo{
		bills:    make(map[int]*models.Bill),
		events:   make(map[int][]models.TrainingEvent),
		statuses: make(map[int]models.PaymentStatus),
		nextID:   1,
	}
}

func (r *fakeBillRepo) Create(ctx context.Context, bill *models.Bill) error {
	if r.createErr != nil {
		return r.createErr
	}
	bill.ID = r.nextID
	bill.CreatedAt = time.Now()
	r.nextID++
	stored := *bill
	r.bills[bill.ID] = &stored
	r.events[bill.ID] = bill.Events
	return nil
}

func (r *fakeBillRepo) GetByID(ctx context.Context, id int) (*models.Bill, error) {
	bill, ok := r.bills[id]
	if !ok {
		return nil, repositories.ErrBillNotFound
	}
	copied := *bill
	return &copied, nil
}

func (r *fakeBillRepo) List(ctx context.Context, filter repositories.ListBillsFilter) ([]models.Bill, error) {
	var out []models.Bill
	for _, bill := range r.bills {
		if filter.UserID != nil && bill.UserID != *filter.UserID {
			continue
		}
		out = append(out, *bill)
	}
	return out, nil
}

func (r *fakeBillRepo) ListEventsByBillID(ctx context.Context, billID int) ([]models.TrainingEvent, error) {
	return r.events[billID], nil
}

func (r *fakeBillRepo) UpdateStatus(ctx context.Context, id int, status models.PaymentStatus) error {
	bill, ok := r.bills[id]
	if !ok {
		return repositories.ErrBillNotFound
	}
	bill.Status = status
	r.statuses[id] = status
	return nil
}

type fakeTrainerRepo struct {
	trainers map[int]*models.Trainer
}

func (r *fakeTrainerRepo) Create(ctx context.Context, trainer *models.Trainer) error { return nil }
func (r *fakeTrainerRepo) GetByID(ctx context.Context, id int) (*models.Trainer, error) {
	trainer, ok := r.trainers[id]
	if !ok {
		return nil, repositories.ErrTrainerNotFound
	}
	return trainer, nil
}
func (r *fakeTrainerRepo) List(ctx context.Context) ([]models.Trainer, error) { return nil, nil }
func (r *fakeTrainerRepo) ListByTeamID(ctx context.Context, teamID int) ([]models.Trainer, error) {
	return nil, nil
}
func (r *fakeTrainerRepo) Update(ctx context.Context, trainer *models.Trainer) error { return nil }
func (r *fakeTrainerRepo) Delete(ctx context.Context, id int) error                  { return nil }

type fakeTeamRepo struct {
	teams map[int]*models.Team
}

func (r *fakeTeamRepo) Create(ctx context.Context, team *models.Team) error { return nil }
func (r *fakeTeamRepo) GetByID(ctx context.Context, id int) (*models.Team, error) {
	team, ok := r.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	return team, nil
}
func (r *fakeTeamRepo) List(ctx context.Context) ([]models.Team, error)     { return nil, nil }
func (r *fakeTeamRepo) Update(ctx context.Context, team *models.Team) error { return nil }
func (r *fakeTeamRepo) UpdateLogoKey(ctx context.Context, teamID int, logoKey *string) error {
	return nil
}
func (r *fakeTeamRepo) SetTrainers(ctx context.Context, teamID int, trainerIDs []int) error {
	return nil
}
func (r *fakeTeamRepo) Delete(ctx context.Context, id int) error { return nil }

type fakeUserRepo struct {
	users map[int]*models.User
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error { return nil }
func (r *fakeUserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}
func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}
func (r *fakeUserRepo) List(ctx context.Context) ([]models.User, error)     { return nil, nil }
func (r *fakeUserRepo) Update(ctx context.Context, user *models.User) error { return nil }
func (r *fakeUserRepo) UpdateRole(ctx context.Context, id int, role models.UserRole) error {
	return nil
}
func (r *fakeUserRepo) Delete(ctx context.Context, id int) error { return nil }

type fakeNotifier struct {
	billCalls   chan string
	reportCalls chan string
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{
		billCalls:   make(chan string, 8),
		reportCalls: make(chan string, 8),
	}
}

func (n *fakeNotifier) SendBillCreatedEmail(bill *models.Bill, groups []EventGroup, creatorEmail string) error {
	n.billCalls <- creatorEmail
	return nil
}

func (n *fakeNotifier) SendTravelReportCreatedEmail(report *models.TravelReport, creatorEmail string) error {
	n.reportCalls <- creatorEmail
	return nil
}

// --- fixtures ---

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(discardWriter{}, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func newBillServiceFixture() (BillService, *fakeBillRepo, *fakeNotifier) {
	license := models.LicenseC
	billRepo := newFakeBillRepo()
	trainerRepo := &fakeTrainerRepo{trainers: map[int]*models.Trainer{
		1: {ID: 1, Name: "Maik Vogler", LicenseType: &license},
		2: {ID: 2, Name: "Ohne Lizenz"},
	}}
	teamRepo := &fakeTeamRepo{teams: map[int]*models.Team{
		1: {ID: 1, Name: "mC-Jugend"},
	}}
	userRepo := &fakeUserRepo{users: map[int]*models.User{
		7: {ID: 7, Name: "Creator", Email: "creator@example.com", Role: models.RoleTrainer},
	}}
	notifier := newFakeNotifier()

	svc := NewBillService(billRepo, trainerRepo, teamRepo, userRepo, NewRateResolver(0.30), notifier, testLogger())
	return svc, billRepo, notifier
}

func validBillInput() CreateBillInput {
	return CreateBillInput{
		TrainerID: 1,
		TeamID:    1,
		Quarter:   1,
		Year:      2025,
		CreatorID: 7,
		Events: []CreateBillEventInput{
			{Location: "bbs", StartDate: at(17, 0), EndDate: at(18, 30)},
			{Location: "bbs", StartDate: at(17, 0), EndDate: at(18, 30)},
		},
	}
}

// --- tests ---

func TestCreateBill(t *testing.T) {
	t.Run("prices events with the trainer's rate", func(t *testing.T) {
		svc, _, notifier := newBillServiceFixture()

		bill, err := svc.CreateBill(context.Background(), validBillInput())

		require.NoError(t, err)
		assert.Equal(t, 12.50, bill.HourlyRate)
		assert.Equal(t, 37.50, bill.TotalCost)
		assert.Equal(t, models.StatusUnpaid, bill.Status)
		require.Len(t, bill.Events, 2)
		assert.Equal(t, 1.5, bill.Events[0].DurationHours)
		assert.Equal(t, 18.75, bill.Events[0].Cost)

		select {
		case email := <-notifier.billCalls:
			assert.Equal(t, "creator@example.com", email)
		case <-time.After(2 * time.Second):
			t.Fatal("expected bill creation notification")
		}
	})

	t.Run("unknown license prices at zero instead of failing", func(t *testing.T) {
		svc, _, _ := newBillServiceFixture()
		input := validBillInput()
		input.TrainerID = 2

		bill, err := svc.CreateBill(context.Background(), input)

		require.NoError(t, err)
		assert.Equal(t, 0.0, bill.HourlyRate)
		assert.Equal(t, 0.0, bill.TotalCost)
	})

	t.Run("canceled events still count into the total", func(t *testing.T) {
		svc, _, _ := newBillServiceFixture()
		input := validBillInput()
		input.Events[1].Canceled = true

		bill, err := svc.CreateBill(context.Background(), input)

		require.NoError(t, err)
		assert.Equal(t, 37.50, bill.TotalCost)
	})

	t.Run("rejects empty event list", func(t *testing.T) {
		svc, _, _ := newBillServiceFixture()
		input := validBillInput()
		input.Events = nil

		_, err := svc.CreateBill(context.Background(), input)

		assert.ErrorIs(t, err, ErrBillNoEvents)
	})

	t.Run("rejects missing trainer reference", func(t *testing.T) {
		svc, _, _ := newBillServiceFixture()
		input := validBillInput()
		input.TrainerID = 0

		_, err := svc.CreateBill(context.Background(), input)

		assert.ErrorIs(t, err, ErrBillMissingFields)
	})

	t.Run("rejects out-of-range quarter", func(t *testing.T) {
		svc, _, _ := newBillServiceFixture()
		input := validBillInput()
		input.Quarter = 5

		_, err := svc.CreateBill(context.Background(), input)

		assert.ErrorIs(t, err, ErrInvalidQuarter)
	})

	t.Run("unknown trainer", func(t *testing.T) {
		svc, _, _ := newBillServiceFixture()
		input := validBillInput()
		input.TrainerID = 99

		_, err := svc.CreateBill(context.Background(), input)

		assert.ErrorIs(t, err, ErrTrainerNotFound)
	})

	t.Run("duplicate bill surfaces as conflict", func(t *testing.T) {
		svc, billRepo, _ := newBillServiceFixture()
		billRepo.createErr = repositories.ErrBillDuplicate

		_, err := svc.CreateBill(context.Background(), validBillInput())

		assert.ErrorIs(t, err, ErrBillDuplicate)
	})
}

func TestListBills(t *testing.T) {
	svc, billRepo, _ := newBillServiceFixture()
	billRepo.bills[1] = &models.Bill{ID: 1, UserID: 7}
	billRepo.bills[2] = &models.Bill{ID: 2, UserID: 8}

	t.Run("trainer sees only own bills", func(t *testing.T) {
		bills, err := svc.ListBills(context.Background(), 7, models.RoleTrainer)
		require.NoError(t, err)
		require.Len(t, bills, 1)
		assert.Equal(t, 7, bills[0].UserID)
	})

	t.Run("kassenwart sees all bills", func(t *testing.T) {
		bills, err := svc.ListBills(context.Background(), 7, models.RoleKassenwart)
		require.NoError(t, err)
		assert.Len(t, bills, 2)
	})
}

func TestGetBillDetails(t *testing.T) {
	svc, _, _ := newBillServiceFixture()

	created, err := svc.CreateBill(context.Background(), validBillInput())
	require.NoError(t, err)

	details, err := svc.GetBillDetails(context.Background(), created.ID)
	require.NoError(t, err)

	assert.Equal(t, created.ID, details.Bill.ID)
	require.NotNil(t, details.Bill.Trainer)
	require.NotNil(t, details.Bill.Team)
	require.NotNil(t, details.Bill.User)
	assert.Empty(t, details.Bill.User.PasswordHash)

	require.Len(t, details.Groups, 1)
	assert.Equal(t, "bbs", details.Groups[0].Location)
	assert.Equal(t, 37.50, details.Groups[0].TotalCost)

	_, err = svc.GetBillDetails(context.Background(), 999)
	assert.ErrorIs(t, err, ErrBillNotFound)
}

func TestUpdateBillStatus(t *testing.T) {
	setup := func(t *testing.T) (BillService, int) {
		svc, _, _ := newBillServiceFixture()
		bill, err := svc.CreateBill(context.Background(), validBillInput())
		require.NoError(t, err)
		return svc, bill.ID
	}

	t.Run("kassenwart marks paid and back", func(t *testing.T) {
		svc, id := setup(t)

		bill, err := svc.UpdateBillStatus(context.Background(), id, models.StatusPaid, models.RoleKassenwart)
		require.NoError(t, err)
		assert.Equal(t, models.StatusPaid, bill.Status)

		bill, err = svc.UpdateBillStatus(context.Background(), id, models.StatusUnpaid, models.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, models.StatusUnpaid, bill.Status)
	})

	t.Run("re-entering the current status is a no-op", func(t *testing.T) {
		svc, id := setup(t)

		bill, err := svc.UpdateBillStatus(context.Background(), id, models.StatusUnpaid, models.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, models.StatusUnpaid, bill.Status)
	})

	t.Run("trainer may not change the status", func(t *testing.T) {
		svc, id := setup(t)

		_, err := svc.UpdateBillStatus(context.Background(), id, models.StatusPaid, models.RoleTrainer)
		assert.ErrorIs(t, err, ErrForbiddenOperation)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		svc, id := setup(t)

		_, err := svc.UpdateBillStatus(context.Background(), id, models.PaymentStatus("open"), models.RoleAdmin)
		assert.ErrorIs(t, err, ErrInvalidPaymentStatus)
	})

	t.Run("unknown bill", func(t *testing.T) {
		svc, _ := setup(t)

		_, err := svc.UpdateBillStatus(context.Background(), 999, models.StatusPaid, models.RoleAdmin)
		assert.ErrorIs(t, err, ErrBillNotFound)
	})
}
