package config

import "errors"

// Errors returned by Load and Validate. Match them with errors.Is.
var (
	// ErrInvalidConfig marks a setting that is present but unusable.
	ErrInvalidConfig = errors.New("invalid hub config")
	// ErrLoadConfig marks a config source that could not be read or parsed.
	ErrLoadConfig = errors.New("read hub config")
)
