package domain

import (
	"time"
)

// Role represents a user role within the force hierarchy
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleChief    Role = "chief"
	RoleOperator Role = "operator"
	RoleStandard Role = "standard"
)

// Rank represents a military rank (e.g. Colonel, Major, Sergeant)
type Rank struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Abbreviation string    `json:"abbreviation"`
	Order        int       `json:"order"` // hierarchy position, lower is higher
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Personnel represents a registry record for a member of the force.
// RG is the registry identifier used as the login username-equivalent.
type Personnel struct {
	ID        string    `json:"id"`
	RG        string    `json:"rg"`
	Name      string    `json:"name"`
	RankID    string    `json:"rank_id"`
	Rank      *Rank     `json:"rank,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Vehicle represents a vehicle assigned to the force fleet
type Vehicle struct {
	ID          string    `json:"id"`
	Plate       string    `json:"plate"`
	Model       string    `json:"model"`
	PersonnelID string    `json:"personnel_id,omitempty"` // current assignee, if any
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// User represents a login account bound to a personnel record.
// MilitaryID references the personnel record the account belongs to.
type User struct {
	ID           string     `json:"id"`
	MilitaryID   string     `json:"military_id"`
	PasswordHash string     `json:"-"` // Never serialize password
	Role         Role       `json:"role"`
	IsActive     bool       `json:"is_active"`
	Personnel    *Personnel `json:"personnel,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
