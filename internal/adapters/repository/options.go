package repository

import "github.com/okian/tastesearch/pkg/logger"

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithLogger sets the store logger.
func WithLogger(l logger.Logger) Option {
	return func(s *MemStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithWriteBack persists the snapshot to its source file after every
// mutation. It has no effect on stores that were not loaded from a file.
func WithWriteBack(enabled bool) Option {
	return func(s *MemStore) {
		s.writeBack = enabled
	}
}
