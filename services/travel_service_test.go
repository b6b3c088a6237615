package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voglerhub/club-system/models"
	"github.com/voglerhub/club-system/repositories"
)

type fakeTravelRepo struct {
	reports  map[int]*models.TravelReport
	vehicles map[int][]models.Vehicle
	nextID   int
}

func newFakeTravelRepo() *fakeTravelRepo {
	return &fakeTravelRepo{
		reports:  make(map[int]*models.TravelReport),
		vehicles: make(map[int][]models.Vehicle),
		nextID:   1,
	}
}

func (r *fakeTravelRepo) Create(ctx context.Context, report *models.TravelReport) error {
	report.ID = r.nextID
	report.CreatedAt = time.Now()
	r.nextID++
	stored := *report
	r.reports[report.ID] = &stored
	r.vehicles[report.ID] = report.Vehicles
	return nil
}

func (r *fakeTravelRepo) GetByID(ctx context.Context, id int) (*models.TravelReport, error) {
	report, ok := r.reports[id]
	if !ok {
		return nil, repositories.ErrTravelReportNotFound
	}
	copied := *report
	return &copied, nil
}

func (r *fakeTravelRepo) List(ctx context.Context, filter repositories.ListTravelReportsFilter) ([]models.TravelReport, error) {
	var out []models.TravelReport
	for _, report := range r.reports {
		if filter.UserID != nil && report.UserID != *filter.UserID {
			continue
		}
		out = append(out, *report)
	}
	return out, nil
}

func (r *fakeTravelRepo) ListVehiclesByReportID(ctx context.Context, reportID int) ([]models.Vehicle, error) {
	return r.vehicles[reportID], nil
}

func (r *fakeTravelRepo) UpdateStatus(ctx context.Context, id int, status models.PaymentStatus) error {
	report, ok := r.reports[id]
	if !ok {
		return repositories.ErrTravelReportNotFound
	}
	report.Status = status
	return nil
}

func (r *fakeTravelRepo) Delete(ctx context.Context, id int) error {
	if _, ok := r.reports[id]; !ok {
		return repositories.ErrTravelReportNotFound
	}
	delete(r.reports, id)
	delete(r.vehicles, id)
	return nil
}

func newTravelServiceFixture() (TravelReportService, *fakeTravelRepo, *fakeNotifier) {
	reportRepo := newFakeTravelRepo()
	teamRepo := &fakeTeamRepo{teams: map[int]*models.Team{
		1: {ID: 1, Name: "mC-Jugend"},
	}}
	userRepo := &fakeUserRepo{users: map[int]*models.User{
		7: {ID: 7, Name: "Creator", Email: "creator@example.com", Role: models.RoleTrainer},
	}}
	notifier := newFakeNotifier()

	svc := NewTravelReportService(reportRepo, teamRepo, userRepo, NewRateResolver(0.30), notifier, testLogger())
	return svc, reportRepo, notifier
}

func validTravelInput() CreateTravelReportInput {
	driver := "A. Fahrer"
	return CreateTravelReportInput{
		TravelDate:  time.Date(2025, 4, 12, 0, 0, 0, 0, time.UTC),
		Destination: "Hildesheim",
		TeamID:      1,
		CreatorID:   7,
		Vehicles: []CreateVehicleInput{
			{Driver: &driver, Distance: 12.5},
			{Distance: 30, NoCharge: true},
		},
	}
}

func TestCreateTravelReport(t *testing.T) {
	t.Run("prices vehicles with the configured km rate", func(t *testing.T) {
		svc, _, notifier := newTravelServiceFixture()

		report, err := svc.CreateTravelReport(context.Background(), validTravelInput())

		require.NoError(t, err)
		// One-way distances sum to 42.5, the report covers the return leg.
		assert.Equal(t, 85.0, report.Distance)
		assert.Equal(t, 7.50, report.TotalCost)
		assert.Equal(t, models.StatusUnpaid, report.Status)
		require.Len(t, report.Vehicles, 2)
		assert.Equal(t, 7.50, report.Vehicles[0].Cost)
		assert.Equal(t, 0.0, report.Vehicles[1].Cost)

		select {
		case email := <-notifier.reportCalls:
			assert.Equal(t, "creator@example.com", email)
		case <-time.After(2 * time.Second):
			t.Fatal("expected travel report notification")
		}
	})

	t.Run("rejects empty vehicle list", func(t *testing.T) {
		svc, _, _ := newTravelServiceFixture()
		input := validTravelInput()
		input.Vehicles = nil

		_, err := svc.CreateTravelReport(context.Background(), input)

		assert.ErrorIs(t, err, ErrReportNoVehicles)
	})

	t.Run("rejects missing destination", func(t *testing.T) {
		svc, _, _ := newTravelServiceFixture()
		input := validTravelInput()
		input.Destination = ""

		_, err := svc.CreateTravelReport(context.Background(), input)

		assert.ErrorIs(t, err, ErrReportMissingFields)
	})

	t.Run("rejects non-positive vehicle distance", func(t *testing.T) {
		svc, _, _ := newTravelServiceFixture()
		input := validTravelInput()
		input.Vehicles[0].Distance = 0

		_, err := svc.CreateTravelReport(context.Background(), input)

		assert.ErrorIs(t, err, ErrReportMissingFields)
	})
}

func TestListTravelReports(t *testing.T) {
	svc, reportRepo, _ := newTravelServiceFixture()
	reportRepo.reports[1] = &models.TravelReport{ID: 1, UserID: 7}
	reportRepo.reports[2] = &models.TravelReport{ID: 2, UserID: 8}

	t.Run("trainer sees only own reports", func(t *testing.T) {
		reports, err := svc.ListTravelReports(context.Background(), 7, models.RoleTrainer)
		require.NoError(t, err)
		require.Len(t, reports, 1)
		assert.Equal(t, 7, reports[0].UserID)
	})

	t.Run("admin sees all reports", func(t *testing.T) {
		reports, err := svc.ListTravelReports(context.Background(), 7, models.RoleAdmin)
		require.NoError(t, err)
		assert.Len(t, reports, 2)
	})
}

func TestGetTravelReport(t *testing.T) {
	svc, _, _ := newTravelServiceFixture()

	created, err := svc.CreateTravelReport(context.Background(), validTravelInput())
	require.NoError(t, err)

	t.Run("creator reads own report with vehicles", func(t *testing.T) {
		report, err := svc.GetTravelReport(context.Background(), created.ID, 7, models.RoleTrainer)
		require.NoError(t, err)
		assert.Len(t, report.Vehicles, 2)
		require.NotNil(t, report.Team)
		require.NotNil(t, report.User)
		assert.Empty(t, report.User.PasswordHash)
	})

	t.Run("privileged role reads any report", func(t *testing.T) {
		_, err := svc.GetTravelReport(context.Background(), created.ID, 99, models.RoleKassenwart)
		assert.NoError(t, err)
	})

	t.Run("other trainer is rejected", func(t *testing.T) {
		_, err := svc.GetTravelReport(context.Background(), created.ID, 99, models.RoleTrainer)
		assert.ErrorIs(t, err, ErrForbiddenOperation)
	})

	t.Run("unknown report", func(t *testing.T) {
		_, err := svc.GetTravelReport(context.Background(), 999, 7, models.RoleTrainer)
		assert.ErrorIs(t, err, ErrTravelReportNotFound)
	})
}

func TestUpdateTravelReportStatus(t *testing.T) {
	setup := func(t *testing.T) (TravelReportService, int) {
		svc, _, _ := newTravelServiceFixture()
		report, err := svc.CreateTravelReport(context.Background(), validTravelInput())
		require.NoError(t, err)
		return svc, report.ID
	}

	t.Run("privileged roles flip the status both ways", func(t *testing.T) {
		svc, id := setup(t)

		report, err := svc.UpdateTravelReportStatus(context.Background(), id, models.StatusPaid, models.RoleKassenwart)
		require.NoError(t, err)
		assert.Equal(t, models.StatusPaid, report.Status)

		report, err = svc.UpdateTravelReportStatus(context.Background(), id, models.StatusUnpaid, models.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, models.StatusUnpaid, report.Status)
	})

	t.Run("re-entering the current status is a no-op", func(t *testing.T) {
		svc, id := setup(t)

		report, err := svc.UpdateTravelReportStatus(context.Background(), id, models.StatusUnpaid, models.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, models.StatusUnpaid, report.Status)
	})

	t.Run("trainer may not change the status", func(t *testing.T) {
		svc, id := setup(t)

		_, err := svc.UpdateTravelReportStatus(context.Background(), id, models.StatusPaid, models.RoleTrainer)
		assert.ErrorIs(t, err, ErrForbiddenOperation)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		svc, id := setup(t)

		_, err := svc.UpdateTravelReportStatus(context.Background(), id, models.PaymentStatus("open"), models.RoleAdmin)
		assert.ErrorIs(t, err, ErrInvalidPaymentStatus)
	})
}

func TestDeleteTravelReport(t *testing.T) {
	t.Run("creator deletes own report", func(t *testing.T) {
		svc, reportRepo, _ := newTravelServiceFixture()
		report, err := svc.CreateTravelReport(context.Background(), validTravelInput())
		require.NoError(t, err)

		require.NoError(t, svc.DeleteTravelReport(context.Background(), report.ID, 7, models.RoleTrainer))
		assert.Empty(t, reportRepo.reports)
	})

	t.Run("other trainer may not delete", func(t *testing.T) {
		svc, _, _ := newTravelServiceFixture()
		report, err := svc.CreateTravelReport(context.Background(), validTravelInput())
		require.NoError(t, err)

		err = svc.DeleteTravelReport(context.Background(), report.ID, 99, models.RoleTrainer)
		assert.ErrorIs(t, err, ErrForbiddenOperation)
	})

	t.Run("unknown report", func(t *testing.T) {
		svc, _, _ := newTravelServiceFixture()
		err := svc.DeleteTravelReport(context.Background(), 999, 7, models.RoleAdmin)
		assert.ErrorIs(t, err, ErrTravelReportNotFound)
	})
}
