package mgo

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	mongoutil "github.com/SNTejaswi/MERN-CHAT-APP/data/database/mgo/mongoutil"
	"github.com/SNTejaswi/MERN-CHAT-APP/logger"
)

type MongoManager struct {
	mu        sync.RWMutex
	client    *mongoutil.Client
	readyCh   chan struct{} // closed exactly once, on first successful connect
	readyOnce sync.Once

	lastErr atomic.Value // error
}

var globalMgr MongoManager

func Manager() *MongoManager { return &globalMgr }

// StartAsync runs until ctx is done; closes the ready channel on the first
// successful connect and keeps reconnecting with backoff if the server drops.
func StartAsync(ctx context.Context, cfg *mongoutil.Config) {
	if globalMgr.readyCh == nil {
		globalMgr.readyCh = make(chan struct{})
	}

	go func() {
		const (
			baseBackoff = 200 * time.Millisecond
			maxBackoff  = 5 * time.Second
			healthEvery = 10 * time.Second
			failThresh  = 3
		)

		for {
			// connect phase, backoff with jitter
			attempt := 0
			for {
				select {
				case <-ctx.Done():
					return
				default:
				}

				cli, err := mongoutil.NewMongoDB(ctx, cfg)
				if err == nil {
					globalMgr.mu.Lock()
					globalMgr.client = cli
					globalMgr.mu.Unlock()
					globalMgr.readyOnce.Do(func() { close(globalMgr.readyCh) })
					break
				}

				globalMgr.lastErr.Store(err)
				logger.Warnf("[mgo] connect failed (attempt %d): %v", attempt, err)

				backoff := baseBackoff << attempt
				if backoff > maxBackoff {
					backoff = maxBackoff
				}
				jitter := time.Duration(rand.Int63n(int64(backoff/5) + 1))
				timer := time.NewTimer(backoff - jitter/2)
				select {
				case <-ctx.Done():
					timer.Stop()
					return
				case <-timer.C:
				}
				if attempt < 6 {
					attempt++
				}
			}

			// health phase: ping periodically, fall back to connect phase on
			// consecutive failures
			fail := 0
			ticker := time.NewTicker(healthEvery)
			alive := true
			for alive {
				select {
				case <-ctx.Done():
					ticker.Stop()
					globalMgr.mu.Lock()
					if globalMgr.client != nil {
						_ = globalMgr.client.GetDB().Client().Disconnect(context.Background())
						globalMgr.client = nil
					}
					globalMgr.mu.Unlock()
					return
				case <-ticker.C:
					globalMgr.mu.RLock()
					c := globalMgr.client
					globalMgr.mu.RUnlock()
					if c == nil {
						alive = false
						break
					}
					if err := c.GetDB().Client().Ping(ctx, nil); err != nil {
						fail++
						globalMgr.lastErr.Store(err)
						if fail >= failThresh {
							globalMgr.mu.Lock()
							_ = c.GetDB().Client().Disconnect(context.Background())
							globalMgr.client = nil
							globalMgr.mu.Unlock()
							alive = false
						}
					} else {
						fail = 0
					}
				}
			}
			ticker.Stop()
		}
	}()
}

// WaitReady blocks until the first successful connect or ctx cancellation.
func WaitReady(ctx context.Context, m *MongoManager) error {
	if m.readyCh == nil {
		return fmt.Errorf("mgo: StartAsync not called")
	}
	select {
	case <-m.readyCh:
		return nil
	case <-ctx.Done():
		if err, ok := m.lastErr.Load().(error); ok && err != nil {
			return fmt.Errorf("mgo: not ready: %w (last error: %v)", ctx.Err(), err)
		}
		return fmt.Errorf("mgo: not ready: %w", ctx.Err())
	}
}

// GetDB returns the active database handle, or nil when disconnected.
func GetDB() *mongo.Database {
	globalMgr.mu.RLock()
	defer globalMgr.mu.RUnlock()
	if globalMgr.client == nil {
		return nil
	}
	return globalMgr.client.GetDB()
}
