package domain

import "errors"

// Sentinel errors shared by every repository backend so the application
// layer can translate storage outcomes without knowing the backend.
var (
	// ErrDuplicateKey is returned by insert operations when a record
	// already exists at the derived key.
	ErrDuplicateKey = errors.New("record already exists at key")
	// ErrKeyNotFound is returned by get/delete operations when no record
	// exists at the derived key.
	ErrKeyNotFound = errors.New("no record at key")
)
