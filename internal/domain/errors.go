package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrInvalidShipment is returned when a shipment row fails validation on import
	ErrInvalidShipment = errors.New("invalid shipment row")

	// ErrUnsupportedFilterColumn is returned when filter options are requested for a column that is not exposed
	ErrUnsupportedFilterColumn = errors.New("unsupported filter column")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")

	// ErrUserNotFound is returned when no account matches the given email
	ErrUserNotFound = errors.New("user not found")

	// ErrUserExists is returned when registering an email that already has an account
	ErrUserExists = errors.New("user already exists")

	// ErrInvalidCredentials is returned for a wrong email or password
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUnauthenticated is returned when a session is missing or expired
	ErrUnauthenticated = errors.New("authentication required")
)
