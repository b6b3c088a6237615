package models

import "time"

type Gender string

const (
	GenderMaennlich Gender = "männlich"
	GenderWeiblich  Gender = "weiblich"
	GenderDivers    Gender = "divers"
)

func (g Gender) Label() string {
	switch g {
	case GenderMaennlich:
		return "Männlich"
	case GenderWeiblich:
		return "Weiblich"
	case GenderDivers:
		return "Divers"
	default:
		return "-"
	}
}

type Player struct {
	ID        int        `json:"id"`
	Name      string     `json:"name"`
	Birthday  *time.Time `json:"birthday,omitempty"`
	Gender    *Gender    `json:"gender,omitempty"`
	CreatedAt time.Time  `json:"created_at"`

	Teams []Team `json:"teams,omitempty"`
}
