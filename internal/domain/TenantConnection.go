package domain

import "time"

type ConnectionStatus string

const (
	ConnectionStatusActive   ConnectionStatus = "active"
	ConnectionStatusDisabled ConnectionStatus = "disabled"
)

// TenantConnection is one row of the explicit connection-to-tenant registry.
// Every downstream fact row is resolved through this mapping; rows whose
// connection is missing or ambiguous are dropped, never defaulted to a tenant.
type TenantConnection struct {
	ID           string
	ConnectionID string
	Source       string
	TenantID     string
	Status       ConnectionStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
