// Package repository holds the errors shared by every AnalysisRepository
// backend. Backends wrap them with goerr so callers can match with errors.Is.
package repository

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrNotFound is returned by FindByID and Update for an unknown analysis.
	ErrNotFound = goerr.New("analysis not found")
	// ErrAlreadyExists is returned by Create when the ID is taken.
	ErrAlreadyExists = goerr.New("analysis already exists")
	// ErrInvalidInput is returned for an empty or malformed analysis ID.
	ErrInvalidInput = goerr.New("invalid analysis input")
)
