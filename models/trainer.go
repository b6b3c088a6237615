package models

import "time"

// LicenseType is the qualification tier of a trainer. The set is closed:
// unknown values are tolerated everywhere but carry an hourly rate of 0.
type LicenseType string

const (
	LicenseHelfer         LicenseType = "helfer"
	LicenseOhneLizenz     LicenseType = "ohne_lizenz"
	LicenseKinderhandball LicenseType = "kinderhandball"
	LicenseC              LicenseType = "c_lizenz"
	LicenseB              LicenseType = "b_lizenz"
	LicenseA              LicenseType = "a_lizenz"
)

type licenseInfo struct {
	Label      string
	HourlyRate float64
}

var licenseTypes = map[LicenseType]licenseInfo{
	LicenseHelfer:         {Label: "Helfer", HourlyRate: 5.00},
	LicenseOhneLizenz:     {Label: "ÜL ohne Lizenz", HourlyRate: 7.50},
	LicenseKinderhandball: {Label: "ÜL mit Kinderhandballtrainer", HourlyRate: 10.00},
	LicenseC:              {Label: "ÜL mit C Lizenz", HourlyRate: 12.50},
	LicenseB:              {Label: "ÜL mit B Lizenz", HourlyRate: 15.00},
	LicenseA:              {Label: "ÜL mit A Lizenz", HourlyRate: 20.00},
}

// HourlyRate returns the compensation per hour for the tier, 0 for unknown
// tiers. Unknown tiers never block data entry.
func (l LicenseType) HourlyRate() float64 {
	return licenseTypes[l].HourlyRate
}

// Label returns the display name of the tier, "-" for unknown tiers.
func (l LicenseType) Label() string {
	if info, ok := licenseTypes[l]; ok {
		return info.Label
	}
	return "-"
}

func (l LicenseType) Valid() bool {
	_, ok := licenseTypes[l]
	return ok
}

type Trainer struct {
	ID          int          `json:"id"`
	Name        string       `json:"name"`
	Stammverein *string      `json:"stammverein,omitempty"`
	LicenseType *LicenseType `json:"license_type,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`

	Teams []Team `json:"teams,omitempty"`
}
