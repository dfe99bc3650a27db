package dto

import (
	"regexp"
	"strings"
)

// CreatePersonnelRequest represents a personnel registration request
type CreatePersonnelRequest struct {
	RG     string `json:"rg" binding:"required"`
	Name   string `json:"name" binding:"required,min=2,max=120"`
	RankID string `json:"rank_id" binding:"required"`
}

// UpdatePersonnelRequest represents a personnel update request
type UpdatePersonnelRequest struct {
	Name     string `json:"name"`
	RankID   string `json:"rank_id"`
	IsActive *bool  `json:"is_active"`
}

// CreateRankRequest represents a rank creation request
type CreateRankRequest struct {
	Name         string `json:"name" binding:"required,min=2,max=60"`
	Abbreviation string `json:"abbreviation" binding:"required,max=10"`
	Order        int    `json:"order" binding:"required,min=1"`
}

// CreateVehicleRequest represents a vehicle registration request
type CreateVehicleRequest struct {
	Plate       string `json:"plate" binding:"required"`
	Model       string `json:"model" binding:"required,min=2,max=80"`
	PersonnelID string `json:"personnel_id"`
}

// UpdateVehicleRequest represents a vehicle update request
type UpdateVehicleRequest struct {
	Model       string `json:"model"`
	PersonnelID string `json:"personnel_id"`
}

// Mercosul plates (ABC1D23) and the legacy format (ABC1234)
var platePattern = regexp.MustCompile(`^[A-Z]{3}[0-9][A-Z0-9][0-9]{2}$`)

// SanitizePlate normalizes a plate to the stored form: uppercase, no
// separators.
func SanitizePlate(plate string) string {
	plate = strings.ToUpper(strings.TrimSpace(plate))
	return strings.ReplaceAll(plate, "-", "")
}

// ValidatePlate checks the plate format after sanitization
func ValidatePlate(plate string) (bool, string) {
	if !platePattern.MatchString(plate) {
		return false, "Plate must match ABC1234 or ABC1D23"
	}
	return true, ""
}

// SanitizeName collapses inner whitespace and trims the ends
func SanitizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}
