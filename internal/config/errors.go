package config

import "errors"

// ErrLoadConfig wraps failures reading the config file or environment.
var ErrLoadConfig = errors.New("cannot load configuration")

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")
