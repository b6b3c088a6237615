package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voglerhub/club-system/models"
)

func event(location string, start, end time.Time) models.TrainingEvent {
	return models.TrainingEvent{Location: location, StartDate: start, EndDate: end}
}

func at(hour, min int) time.Time {
	return time.Date(2025, 3, 10, hour, min, 0, 0, time.UTC)
}

func TestDurationHours(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  float64
	}{
		{
			name:  "full hour",
			start: at(17, 0),
			end:   at(18, 0),
			want:  1.0,
		},
		{
			name:  "ninety minutes",
			start: at(17, 0),
			end:   at(18, 30),
			want:  1.5,
		},
		{
			name:  "quarter hour",
			start: at(9, 0),
			end:   at(9, 15),
			want:  0.25,
		},
		{
			name:  "zero span",
			start: at(12, 0),
			end:   at(12, 0),
			want:  0,
		},
		{
			name:  "crosses midnight",
			start: time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC),
			end:   time.Date(2025, 3, 11, 1, 0, 0, 0, time.UTC),
			want:  2.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DurationHours(tt.start, tt.end))
		})
	}
}

func TestPriceEvents(t *testing.T) {
	events := []models.TrainingEvent{
		event("bbs", at(17, 0), at(18, 30)),
		event("bbs", at(17, 0), at(18, 30)),
	}

	PriceEvents(events, 12.50)

	for _, ev := range events {
		assert.Equal(t, 1.5, ev.DurationHours)
		assert.Equal(t, 12.50, ev.HourlyRate)
		assert.Equal(t, 18.75, ev.Cost)
	}
}

func TestGroupEventsByLocation(t *testing.T) {
	t.Run("single location", func(t *testing.T) {
		events := []models.TrainingEvent{
			event("bbs", at(17, 0), at(18, 30)),
			event("bbs", at(17, 0), at(18, 30)),
		}
		PriceEvents(events, 12.50)

		groups := GroupEventsByLocation(events)

		require.Len(t, groups, 1)
		assert.Equal(t, "bbs", groups[0].Location)
		assert.Equal(t, 2, groups[0].Count)
		assert.Equal(t, 3.0, groups[0].TotalHours)
		assert.Equal(t, 37.50, groups[0].TotalCost)
		assert.Equal(t, 37.50, TotalEventCost(groups))
	})

	t.Run("groups keep first-seen order", func(t *testing.T) {
		events := []models.TrainingEvent{
			event("halle-nord", at(17, 0), at(18, 0)),
			event("bbs", at(18, 0), at(19, 0)),
			event("halle-nord", at(19, 0), at(20, 0)),
			event("sporthalle", at(20, 0), at(21, 0)),
			event("bbs", at(21, 0), at(22, 0)),
		}
		PriceEvents(events, 10.00)

		groups := GroupEventsByLocation(events)

		require.Len(t, groups, 3)
		assert.Equal(t, "halle-nord", groups[0].Location)
		assert.Equal(t, "bbs", groups[1].Location)
		assert.Equal(t, "sporthalle", groups[2].Location)
		assert.Equal(t, 2, groups[0].Count)
		assert.Equal(t, 2, groups[1].Count)
		assert.Equal(t, 1, groups[2].Count)
	})

	t.Run("group totals sum to event totals", func(t *testing.T) {
		events := []models.TrainingEvent{
			event("a", at(17, 0), at(18, 30)),
			event("b", at(17, 0), at(17, 45)),
			event("a", at(9, 0), at(11, 0)),
			event("c", at(12, 0), at(12, 30)),
		}
		PriceEvents(events, 15.00)

		var rawTotal float64
		for _, ev := range events {
			rawTotal += ev.Cost
		}

		groups := GroupEventsByLocation(events)
		assert.Equal(t, rawTotal, TotalEventCost(groups))
	})

	t.Run("no events", func(t *testing.T) {
		groups := GroupEventsByLocation(nil)
		assert.Empty(t, groups)
		assert.Equal(t, 0.0, TotalEventCost(groups))
	})
}

func TestVehicleCost(t *testing.T) {
	tests := []struct {
		name    string
		vehicle models.Vehicle
		kmRate  float64
		want    float64
	}{
		{
			name:    "round trip at default rate",
			vehicle: models.Vehicle{Distance: 12.5},
			kmRate:  0.30,
			want:    7.50,
		},
		{
			name:    "no charge prices at zero",
			vehicle: models.Vehicle{Distance: 12.5, NoCharge: true},
			kmRate:  0.30,
			want:    0,
		},
		{
			name:    "zero distance",
			vehicle: models.Vehicle{Distance: 0},
			kmRate:  0.30,
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VehicleCost(tt.vehicle, tt.kmRate))
		})
	}
}

func TestPriceVehicles(t *testing.T) {
	vehicles := []models.Vehicle{
		{Distance: 12.5},
		{Distance: 30, NoCharge: true},
		{Distance: 10},
	}

	totalDistance, totalCost := PriceVehicles(vehicles, 0.30)

	// Distances are stored one-way, the report total covers the return leg.
	assert.Equal(t, 105.0, totalDistance)
	assert.Equal(t, 13.50, totalCost)

	assert.Equal(t, 7.50, vehicles[0].Cost)
	assert.Equal(t, 0.0, vehicles[1].Cost)
	assert.Equal(t, 6.00, vehicles[2].Cost)
}
