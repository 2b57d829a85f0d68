package models

import "errors"

var (
	ErrNotFound      = errors.New("file not found")
	ErrStoreNotFound = errors.New("store not found")
	ErrStoreExists   = errors.New("store already registered")
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrInvalidFileID = errors.New("invalid file id")
)
