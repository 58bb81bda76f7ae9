package application

import "errors"

// Application-level failures that are not domain state-guard violations.
var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInvalidRefreshToken  = errors.New("invalid refresh token")
	ErrUserNotFound         = errors.New("user not found")
	ErrModeratorNotFound    = errors.New("moderator not found")
	ErrSongNotFound         = errors.New("song not found")
	ErrEmailAlreadyTaken    = errors.New("email is already taken")
	ErrInvalidConfirmation  = errors.New("invalid or expired confirmation code")
	ErrStorageNotConfigured = errors.New("object storage not configured")
)
