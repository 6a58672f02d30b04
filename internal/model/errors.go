package model

import "errors"

var (
	ErrProfileNotFound    = errors.New("profile not found")
	ErrInvalidUpdate      = errors.New("invalid profile update")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailConflict      = errors.New("email already in use")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenRevoked       = errors.New("token has been revoked")
)
