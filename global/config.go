package global

import (
	"context"
	"time"

	mongoutil "github.com/SNTejaswi/MERN-CHAT-APP/data/database/mgo/mongoutil"
	"github.com/SNTejaswi/MERN-CHAT-APP/logger"
	mgoSrv "github.com/SNTejaswi/MERN-CHAT-APP/service/mgo"
	"github.com/SNTejaswi/MERN-CHAT-APP/service/storage"
	"github.com/SNTejaswi/MERN-CHAT-APP/tools"
	ids "github.com/SNTejaswi/MERN-CHAT-APP/tools/ids"
)

// GatewayID names this routing node in logs and presence values.
func GatewayID() string {
	return tools.GetEnv("GATEWAY_ID", "chat_gw-1")
}

func HTTPAddr() string {
	return ":" + tools.GetEnv("PORT", "5000")
}

func GetJwtSecret() []byte {
	return []byte(tools.GetEnv("JWT_SECRET", "mN9b1f8zPq+W2xjX/45sKcVd0TfyoG+3Hp5Z8q9Rj1o="))
}

// PresenceTTL is how long a presence key stays valid without renewal.
func PresenceTTL() time.Duration {
	return tools.GetEnvDuration("PRESENCE_TTL", 90*time.Second)
}

func ConfigIds() {
	ids.SetNodeID(int64(tools.GetEnvInt("NODE_ID", 100)))
}

func ConfigRedis() {
	cfg := storage.Config{
		Addr:     tools.GetEnv("REDIS_ADDR", "127.0.0.1:6379"),
		Password: tools.GetEnv("REDIS_PASSWORD", ""),
		DB:       tools.GetEnvInt("REDIS_DB", 0),
	}
	if err := storage.InitRedis(cfg); err != nil {
		// presence is additive; the gateway runs without it
		logger.Warnf("[global] redis unavailable, presence disabled: %v", err)
	}
}

// ConfigMgo connects to MongoDB and blocks until the store is reachable.
func ConfigMgo(ctx context.Context) error {
	cfg := &mongoutil.Config{
		Uri:         tools.GetEnv("MONGO_URI", "mongodb://localhost:27017"),
		Database:    tools.GetEnv("MONGO_DB", "chatApp"),
		Username:    tools.GetEnv("MONGO_USER", ""),
		Password:    tools.GetEnv("MONGO_PASSWORD", ""),
		MaxPoolSize: tools.GetEnvInt("MONGO_POOL", 20),
		MaxRetry:    3,
	}

	mgoSrv.StartAsync(ctx, cfg)

	waitCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	return mgoSrv.WaitReady(waitCtx, mgoSrv.Manager())
}
