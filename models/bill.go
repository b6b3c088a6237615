package models

import "time"

// PaymentStatus is shared by bills and travel reports. There is no terminal
// state, paid can be reverted to unpaid and back indefinitely.
type PaymentStatus string

const (
	StatusUnpaid PaymentStatus = "unpaid"
	StatusPaid   PaymentStatus = "paid"
)

func (s PaymentStatus) Valid() bool {
	return s == StatusUnpaid || s == StatusPaid
}

// TrainingEvent is a line item of a Bill. Events are created atomically with
// their bill and never mutated afterwards.
type TrainingEvent struct {
	ID            int       `json:"id"`
	BillID        int       `json:"bill_id"`
	Location      string    `json:"location"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	DurationHours float64   `json:"duration_hours"`
	HourlyRate    float64   `json:"hourly_rate"`
	Cost          float64   `json:"cost"`
	Canceled      bool      `json:"canceled"`
}

// Bill is a quarterly trainer compensation statement. At most one bill may
// exist per (trainer, team, quarter, year), enforced by the database.
type Bill struct {
	ID         int           `json:"id"`
	TrainerID  int           `json:"trainer_id"`
	TeamID     int           `json:"team_id"`
	UserID     int           `json:"user_id"`
	IBAN       *string       `json:"iban,omitempty"`
	Quarter    int           `json:"quarter"`
	Year       int           `json:"year"`
	HourlyRate float64       `json:"hourly_rate"`
	TotalCost  float64       `json:"total_cost"`
	Status     PaymentStatus `json:"status"`
	CreatedAt  time.Time     `json:"created_at"`

	Trainer *Trainer        `json:"trainer,omitempty"`
	Team    *Team           `json:"team,omitempty"`
	User    *User           `json:"user,omitempty"`
	Events  []TrainingEvent `json:"events,omitempty"`
}
