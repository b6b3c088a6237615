package services

import (
	"time"

	"github.com/voglerhub/club-system/models"
)

// EventGroup is the per-location reduction of a bill's training events. All
// consumers of grouped events (detail view, creation summary, notification
// email) share this one reduction so their totals cannot drift apart.
type EventGroup struct {
	Location   string  `json:"location"`
	Count      int     `json:"count"`
	TotalHours float64 `json:"total_hours"`
	TotalCost  float64 `json:"total_cost"`
}

// DurationHours is the span between start and end in hours, computed as pure
// millisecond wall-clock subtraction. Deliberately no calendar arithmetic: an
// event crossing a DST boundary reports the elapsed time, not the
// calendar-intuitive hours.
func DurationHours(start, end time.Time) float64 {
	return float64(end.Sub(start).Milliseconds()) / 3_600_000
}

// PriceEvents fills the derived fields of each event from its time span and
// the bill-wide hourly rate. A bill does not support mixed per-event rates,
// the one resolved rate applies uniformly.
func PriceEvents(events []models.TrainingEvent, hourlyRate float64) {
	for i := range events {
		ev := &events[i]
		ev.DurationHours = DurationHours(ev.StartDate, ev.EndDate)
		ev.HourlyRate = hourlyRate
		ev.Cost = ev.DurationHours * hourlyRate
	}
}

// GroupEventsByLocation reduces events into per-location groups. Group order
// is first-seen order of the location, matching display expectations, and the
// sum over all groups equals the sum over all raw event costs exactly.
func GroupEventsByLocation(events []models.TrainingEvent) []EventGroup {
	index := make(map[string]int)
	groups := make([]EventGroup, 0)

	for _, ev := range events {
		i, ok := index[ev.Location]
		if !ok {
			i = len(groups)
			index[ev.Location] = i
			groups = append(groups, EventGroup{Location: ev.Location})
		}
		groups[i].Count++
		groups[i].TotalHours += ev.DurationHours
		groups[i].TotalCost += ev.Cost
	}
	return groups
}

// TotalEventCost is the grand total over all groups. No rounding happens at
// the group level, formatting is left to the final display.
func TotalEventCost(groups []EventGroup) float64 {
	var total float64
	for _, g := range groups {
		total += g.TotalCost
	}
	return total
}

// VehicleCost prices a single travel report vehicle. The stored distance is
// one-way, the cost always covers the return leg as well.
func VehicleCost(v models.Vehicle, kmRate float64) float64 {
	if v.NoCharge {
		return 0
	}
	return v.Distance * 2 * kmRate
}

// PriceVehicles fills each vehicle's cost and returns the report totals:
// total distance as the doubled sum of one-way distances, total cost as the
// sum of vehicle costs.
func PriceVehicles(vehicles []models.Vehicle, kmRate float64) (totalDistance, totalCost float64) {
	for i := range vehicles {
		v := &vehicles[i]
		v.Cost = VehicleCost(*v, kmRate)
		totalDistance += v.Distance
		totalCost += v.Cost
	}
	return totalDistance * 2, totalCost
}
