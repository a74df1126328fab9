package domain

import "github.com/shopspring/decimal"

// Service represents a salon service from the catalog
type Service struct {
	ID              int64
	Name            string
	DurationMinutes int
	Price           decimal.Decimal
	IsActive        bool
}

// Customer represents a salon client.
// Phone is stored in E.164 and is the stable identifier for find-or-create.
type Customer struct {
	ID     int64
	Name   string
	Phone  string
	Email  *string
	Gender *string
}
