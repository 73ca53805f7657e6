package repository

import "errors"

// Storage outcome kinds. Handlers translate these to HTTP status codes; the
// raw gorm errors never cross the repository boundary.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
	ErrInvalid   = errors.New("invalid record")
)
