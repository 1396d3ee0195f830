package utils

import "time"

// Application constants
const (
	AppName    = "gotours"
	AppVersion = "1.0.0"

	// Pagination
	DefaultPage     = 1
	DefaultPageSize = 100
	MaxPageSize     = 500

	// Authentication
	DefaultJWTTTL        = 24 * time.Hour
	DefaultCookieTTLDays = 90
	PasswordMinLength    = 8
	BcryptCost           = 10
)

// Response status classes
const (
	StatusSuccess = "success"
	StatusFail    = "fail"
	StatusError   = "error"
)

// Error messages
const (
	ErrInvalidCredentials = "Incorrect email or password"
	ErrNotLoggedIn        = "You are not logged in. Please log in to get access"
	ErrStaleToken         = "Password was recently changed. Please log in again"
	ErrTokenUserGone      = "The user belonging to this token no longer exists"
	ErrNoPermission       = "You do not have permission to perform this action"
	ErrResetTokenInvalid  = "Token is invalid or has expired"
	ErrRateLimited        = "Too many requests from this IP, please try again later"
)

// Cache keys
const (
	CacheUserPrefix = "user:"
	CacheUserTTL    = 15 * time.Minute
)
