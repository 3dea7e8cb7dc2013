// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to perform an operation on a habit owned by someone
// else, while ErrNotFound signals that the requested row does not
// exist at all. The two must stay distinct: an ownership violation
// leaves the row untouched, a missing row is a plain 404.
package repository

import "errors"

// ErrNotFound is returned when a requested user, habit or session row
// does not exist. Handlers should translate this into an HTTP 404
// response.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation on a
// habit they do not own. The habit is left unmodified. Handlers should
// translate this into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")
