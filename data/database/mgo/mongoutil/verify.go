package mongoutil

import (
	"github.com/SNTejaswi/MERN-CHAT-APP/tools/errs"
)

// ValidateAndSetDefaults validates the configuration and fills defaults.
func (c *Config) ValidateAndSetDefaults() error {
	if c.Uri == "" && len(c.Address) == 0 {
		return errs.New("either Uri or Address must be set")
	}
	if c.Database == "" {
		return errs.New("database is required")
	}
	if c.MaxPoolSize <= 0 {
		c.MaxPoolSize = defaultMaxPoolSize
	}
	if c.MaxRetry <= 0 {
		c.MaxRetry = defaultMaxRetry
	}
	if c.Username != "" && c.AuthSource == "" {
		c.AuthSource = defaultAuthSource
	}
	return nil
}
