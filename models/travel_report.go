package models

import "time"

// Vehicle is a line item of a TravelReport. Distance is the one-way distance,
// the cost always covers the return leg as well.
type Vehicle struct {
	ID             int     `json:"id"`
	TravelReportID int     `json:"travel_report_id"`
	Driver         *string `json:"driver,omitempty"`
	Distance       float64 `json:"distance"`
	Cost           float64 `json:"cost"`
	NoCharge       bool    `json:"no_charge"`
}

type TravelReport struct {
	ID          int           `json:"id"`
	TravelDate  time.Time     `json:"travel_date"`
	Destination string        `json:"destination"`
	Reason      *string       `json:"reason,omitempty"`
	TeamID      int           `json:"team_id"`
	UserID      int           `json:"user_id"`
	Distance    float64       `json:"distance"`
	TotalCost   float64       `json:"total_cost"`
	Status      PaymentStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`

	Team     *Team     `json:"team,omitempty"`
	User     *User     `json:"user,omitempty"`
	Vehicles []Vehicle `json:"vehicles,omitempty"`
}
