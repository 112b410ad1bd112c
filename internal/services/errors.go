// Package services contains the business logic layer: the three
// lock-guarded, file-backed stores for users, complaints, and municipality
// activity feeds. Every mutating operation holds its collection's lock
// across the full load-mutate-save cycle, since the backing store has no
// transactions of its own.
//
// Failures are returned as typed errors; the stores never log and never
// retry. The handler layer maps these onto HTTP status codes.
package services

import (
	"errors"
	"fmt"
)

var (
	// Conflict-class failures.
	ErrDuplicatePhone = errors.New("phone number already registered")
	ErrIDTaken        = errors.New("user id already in use")
	ErrAlreadyVoted   = errors.New("complaint already upvoted by this user")
	ErrNotVoted       = errors.New("complaint not upvoted by this user")

	// Not-found failures.
	ErrPhoneNotRegistered   = errors.New("phone number not registered")
	ErrUserNotFound         = errors.New("user not found")
	ErrComplaintNotFound    = errors.New("complaint not found")
	ErrMunicipalityNotFound = errors.New("municipality not found")

	// Validation failures.
	ErrBadPassword   = errors.New("incorrect password")
	ErrInvalidRole   = errors.New("invalid role")
	ErrInvalidStatus = errors.New("invalid status")
)

// DependencyError marks a failure of the backing storage itself, as opposed
// to a domain-level rejection. A failed collection write always surfaces as
// one of these.
type DependencyError struct {
	Op  string
	Err error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}

func dependency(op string, err error) error {
	return &DependencyError{Op: op, Err: err}
}
