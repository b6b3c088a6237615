package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/voglerhub/club-system/models"
)

func licensePtr(l models.LicenseType) *models.LicenseType {
	return &l
}

func TestRateResolverHourlyRate(t *testing.T) {
	resolver := NewRateResolver(0.30)

	tests := []struct {
		name    string
		license *models.LicenseType
		want    float64
	}{
		{"helfer", licensePtr(models.LicenseHelfer), 5.00},
		{"ohne lizenz", licensePtr(models.LicenseOhneLizenz), 7.50},
		{"kinderhandball", licensePtr(models.LicenseKinderhandball), 10.00},
		{"c lizenz", licensePtr(models.LicenseC), 12.50},
		{"b lizenz", licensePtr(models.LicenseB), 15.00},
		{"a lizenz", licensePtr(models.LicenseA), 20.00},
		{"nil license", nil, 0},
		{"unknown license", licensePtr(models.LicenseType("d_lizenz")), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolver.HourlyRate(tt.license))
		})
	}
}

func TestRateResolverKmRate(t *testing.T) {
	assert.Equal(t, 0.30, NewRateResolver(0.30).KmRate())
	assert.Equal(t, 0.35, NewRateResolver(0.35).KmRate())
}

func TestLicenseTypeLabel(t *testing.T) {
	assert.Equal(t, "ÜL mit C Lizenz", models.LicenseC.Label())
	assert.Equal(t, "-", models.LicenseType("d_lizenz").Label())
}
