package domain

import "errors"

var (
	// ErrInvalidQuery signals a search query shorter than the minimum length.
	ErrInvalidQuery = errors.New("query must be at least 3 characters")
	// ErrInvalidBody signals a request body that is not valid JSON.
	ErrInvalidBody = errors.New("request body must be valid JSON")
	// ErrInvalidAction signals an unrecognized favorite toggle action.
	ErrInvalidAction = errors.New(`action must be "add", "remove", or omitted`)
	// ErrInvalidParameter signals a malformed query parameter.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrUnauthenticated signals a request without a resolvable caller identity.
	ErrUnauthenticated = errors.New("no authenticated user")
	// ErrNotFound signals a missing course.
	ErrNotFound = errors.New("course not found")
	// ErrRouteNotFound signals an unmatched method/path pair.
	ErrRouteNotFound = errors.New("route not found")
	// ErrCatalogUnavailable signals a catalog store failure.
	ErrCatalogUnavailable = errors.New("course catalog unavailable")
	// ErrServiceUnavailable signals a collaborator failure after retries.
	ErrServiceUnavailable = errors.New("service unavailable")
)
