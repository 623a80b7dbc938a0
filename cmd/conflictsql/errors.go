package main

import "errors"

// Sentinel errors for command operations
var (
	ErrInvalidParam          = errors.New("invalid parameter, expected key=value")
	ErrNoDatabasesConfigured = errors.New("no databases configured")
	ErrEnvironmentNotFound   = errors.New("environment not found")
	ErrConfigExists          = errors.New("configuration file already exists")
)
