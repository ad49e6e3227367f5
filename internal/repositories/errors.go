package repositories

import "errors"

// Sentinel errors returned by repositories so handlers can map predictable
// cases to HTTP statuses without string matching.
var (
	ErrSelfRequest     = errors.New("cannot send a friend request to yourself")
	ErrAlreadyFriends  = errors.New("users are already friends")
	ErrRequestPending  = errors.New("a pending friend request already exists between these users")
	ErrRequestResolved = errors.New("friend request has already been resolved")
	ErrNotFriends      = errors.New("users are not friends")
	ErrLikeNotFound    = errors.New("like not found")
	ErrNotMessageOwner = errors.New("message does not belong to this user")
)
