package domain

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUserExists          = errors.New("user already exists")
	ErrInvalidSignUp       = errors.New("invalid sign-up details")
	ErrUserNotFound        = errors.New("user not found")
	ErrNoSession           = errors.New("no active session")
	ErrIdentityMissing     = errors.New("identity missing after account creation")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrPartialRegistration = errors.New("account created without profile")
	ErrUnauthenticated     = errors.New("authentication required")
	ErrForbidden           = errors.New("access forbidden")
)

var (
	ErrDestinationNotFound = errors.New("destination not found")
	ErrInvalidDestination  = errors.New("invalid destination")
	ErrInvalidFeedback     = errors.New("invalid feedback")
	ErrDuplicateFeedback   = errors.New("feedback already received")
	ErrRecordNotFound      = errors.New("record not found")
	ErrFileNotFound        = errors.New("file not found")
	ErrInvalidAvatar       = errors.New("invalid avatar")
)
