package model

import "time"

// User is the directory shape the core consumes. Account management lives
// outside this service; only read-side lookups are exposed here.
type User struct {
	UserID         string    `json:"user_id"`
	OrganizationID string    `json:"organization_id"`
	Role           string    `json:"role"`
	FullName       string    `json:"full_name"`
	Phone          string    `json:"phone,omitempty"`
	Email          string    `json:"email"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

// Organization and Site exist for tenancy scoping and foreign-key integrity;
// their directories are managed by an external collaborator.
type Organization struct {
	OrganizationID string    `json:"organization_id"`
	Name           string    `json:"name"`
	Timezone       string    `json:"timezone"`
	CreatedAt      time.Time `json:"created_at"`
}

type Site struct {
	SiteID         string    `json:"site_id"`
	OrganizationID string    `json:"organization_id"`
	Name           string    `json:"name"`
	Address        string    `json:"address,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
