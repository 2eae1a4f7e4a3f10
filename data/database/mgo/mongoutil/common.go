package mongoutil

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	defaultMaxPoolSize = 100
	defaultMaxRetry    = 3
	defaultAuthSource  = "admin"
)

// shouldRetry determines whether an error should trigger a retry.
func shouldRetry(ctx context.Context, err error) bool {
	select {
	case <-ctx.Done():
		return false
	default:
		if cmdErr, ok := err.(mongo.CommandError); ok {
			// 13: unauthorized, 18: auth failed; retrying cannot help
			return cmdErr.Code != 13 && cmdErr.Code != 18
		}
		return true
	}
}
