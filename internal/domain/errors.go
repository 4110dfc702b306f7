package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrEmptyQuery indicates a search was requested without any keywords
	ErrEmptyQuery = errors.New("search query is empty")

	// ErrServerOffline indicates the search API is unreachable
	ErrServerOffline = errors.New("search API is unreachable")

	// ErrAuthFailed indicates the API key was rejected
	ErrAuthFailed = errors.New("API key is invalid")

	// ErrRateLimited indicates the search API refused the request due to quota
	ErrRateLimited = errors.New("search API rate limit exceeded")

	// ErrNotConfigured indicates no API key has been configured yet
	ErrNotConfigured = errors.New("locker is not configured")
)
