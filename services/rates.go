package services

import "github.com/voglerhub/club-system/models"

// RateResolver maps trainer license tiers to hourly rates and holds the
// process-wide mileage rate. It is configured once at startup, nothing in it
// re-reads the environment.
type RateResolver struct {
	kmRate float64
}

func NewRateResolver(kmRate float64) *RateResolver {
	return &RateResolver{kmRate: kmRate}
}

// HourlyRate returns the hourly rate for the given license tier. A nil or
// unknown tier resolves to 0: pricing never refuses an event, it prices it at
// zero instead of blocking data entry.
func (r *RateResolver) HourlyRate(licenseType *models.LicenseType) float64 {
	if licenseType == nil {
		return 0
	}
	return licenseType.HourlyRate()
}

// KmRate returns the reimbursement per kilometer for travel report vehicles.
func (r *RateResolver) KmRate() float64 {
	return r.kmRate
}
