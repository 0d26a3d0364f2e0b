package services

import "errors"

var (
	// ErrSelfFollow is returned when a user targets themselves.
	ErrSelfFollow = errors.New("cannot follow yourself")
	// ErrAlreadyFollowing is returned on a duplicate follow attempt,
	// including the check-then-act race lost at the storage layer.
	ErrAlreadyFollowing = errors.New("already following this user")
	// ErrNotFollowing is returned when unfollowing a non-existent edge.
	ErrNotFollowing = errors.New("not following this user")
	// ErrUserNotFound is returned when the target user does not exist.
	ErrUserNotFound = errors.New("user not found")
)
