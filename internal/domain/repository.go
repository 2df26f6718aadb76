package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// ShipmentRepository defines read and write access to stored shipments
type ShipmentRepository interface {
	List(ctx context.Context, filter ShipmentFilter) ([]Shipment, error)
	Create(ctx context.Context, shipments []Shipment) error
	DistinctStrings(ctx context.Context, column string) ([]string, error)
	DistinctYears(ctx context.Context) ([]int, error)
}

// UserRepository defines persistence for dashboard accounts
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, user *User) error
}
