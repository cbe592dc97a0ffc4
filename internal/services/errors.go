// Package services holds the domain core: the comment tree engine, the
// submission registry, the identity/karma ledger and the search scanner.
// Handlers call into it with an already-authenticated principal and translate
// the typed errors below into HTTP status codes, so nothing in this package
// knows about gin or JSON.
package services

// ValidationError reports missing or malformed input. Maps to HTTP 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError reports a referenced entity that does not exist. Maps to 404.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// ConflictError reports a duplicate where at most one is allowed, such as a
// second vote from the same user or a taken username. Maps to HTTP 400 to
// stay compatible with what clients already expect.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// AuthError reports bad credentials or a blocked account. Maps to 401, or
// 403 when Forbidden is set (the caller is known but not allowed).
type AuthError struct {
	Message   string
	Forbidden bool
}

func (e *AuthError) Error() string { return e.Message }
