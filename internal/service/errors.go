package service

import "errors"

// Typed failures surfaced by the fetch-by-id and ping-authorization
// families. Lifecycle operations that report outcomes (Delete, Update)
// return structured results instead; see each method.
var (
	ErrUserNotFound           = errors.New("user not found")
	ErrUsernameTaken          = errors.New("username already in use")
	ErrInvalidRole            = errors.New("role must be API_USER or SYSTEM_ADMIN")
	ErrInvalidPagination      = errors.New("page and limit must be positive")
	ErrSecurityModuleDisabled = errors.New("security module is not enabled")
	ErrPingNotAuthorized      = errors.New("not authorized to ping")
)
