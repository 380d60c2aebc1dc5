package activity

import "errors"

var (
	// ErrNotFound is returned when the target user, post or comment does not exist
	ErrNotFound = errors.New("activity: not found")
	// ErrInvalid is returned for malformed requests such as following yourself
	ErrInvalid = errors.New("activity: invalid request")
	// ErrForbidden is returned when the actor may not modify the target
	ErrForbidden = errors.New("activity: forbidden")
)
