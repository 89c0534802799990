package cache

import "github.com/okian/tastesearch/pkg/logger"

// Option applies a configuration option to the ResultCache.
type Option func(*ResultCache)

// WithLogger sets the logger used for hit/miss/invalidation debug output.
func WithLogger(l logger.Logger) Option {
	return func(c *ResultCache) {
		if l != nil {
			c.logger = l
		}
	}
}
