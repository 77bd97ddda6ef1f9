package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound     = errors.New("player not found")
	ErrNameTaken          = errors.New("player name is already registered")
	ErrClientIDRegistered = errors.New("device is already registered")

	// Match errors
	ErrMatchNotFound = errors.New("match not found")
)
