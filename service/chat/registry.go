package chat

import "sync"

// Registry is the in-memory address space for one gateway. It keeps three
// indexes over live connections:
//
//	byConn: conn id -> connection entry
//	byUser: personal channel, user id -> conn id -> client
//	byChat: conversation channel, chat id -> conn id -> client
//
// Channels exist only while at least one connection subscribes to them;
// empty buckets are deleted eagerly. Identity lives here, not on the Client,
// so every rebind and cleanup happens under one lock.
type Registry struct {
	mu     sync.RWMutex
	byConn map[string]*regEntry
	byUser map[string]map[string]*Client
	byChat map[string]map[string]*Client
}

type regEntry struct {
	client *Client
	userID string
	chats  map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		byConn: make(map[string]*regEntry),
		byUser: make(map[string]map[string]*Client),
		byChat: make(map[string]map[string]*Client),
	}
}

// Add registers an anonymous connection. It subscribes to nothing until a
// setup frame binds an identity.
func (r *Registry) Add(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byConn[c.ConnID] = &regEntry{
		client: c,
		chats:  make(map[string]struct{}),
	}
}

// BindUser subscribes the connection to the personal channel for userID.
// A repeated bind is last-write-wins: the previous personal subscription is
// dropped, conversation subscriptions survive. Returns the previous user id
// ("" when none) and whether the connection is known.
func (r *Registry) BindUser(connID, userID string) (prev string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, found := r.byConn[connID]
	if !found {
		return "", false
	}
	prev = e.userID
	if prev == userID {
		return prev, true
	}
	if prev != "" {
		r.unsubscribeUserLocked(prev, connID)
	}
	e.userID = userID
	bucket := r.byUser[userID]
	if bucket == nil {
		bucket = make(map[string]*Client)
		r.byUser[userID] = bucket
	}
	bucket[connID] = e.client
	return prev, true
}

// JoinChat subscribes the connection to a conversation channel. Joining a
// channel already held is a no-op. Membership is not checked against the
// chat document; any connection that asks gets in.
func (r *Registry) JoinChat(connID, chatID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, found := r.byConn[connID]
	if !found {
		return false
	}
	if _, joined := e.chats[chatID]; joined {
		return true
	}
	e.chats[chatID] = struct{}{}
	bucket := r.byChat[chatID]
	if bucket == nil {
		bucket = make(map[string]*Client)
		r.byChat[chatID] = bucket
	}
	bucket[connID] = e.client
	return true
}

// Remove drops the connection from every index in one step. Idempotent.
// Returns the identity the connection held, if any.
func (r *Registry) Remove(connID string) (userID string, had bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, found := r.byConn[connID]
	if !found {
		return "", false
	}
	delete(r.byConn, connID)
	if e.userID != "" {
		r.unsubscribeUserLocked(e.userID, connID)
	}
	for chatID := range e.chats {
		bucket := r.byChat[chatID]
		delete(bucket, connID)
		if len(bucket) == 0 {
			delete(r.byChat, chatID)
		}
	}
	return e.userID, true
}

func (r *Registry) unsubscribeUserLocked(userID, connID string) {
	bucket := r.byUser[userID]
	delete(bucket, connID)
	if len(bucket) == 0 {
		delete(r.byUser, userID)
	}
}

// UserOf reports the identity bound to a connection, "" while anonymous.
func (r *Registry) UserOf(connID string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.byConn[connID]; ok {
		return e.userID
	}
	return ""
}

// UserConnCount reports how many live connections a user has on this
// gateway. Presence flips offline only when this hits zero.
func (r *Registry) UserConnCount(userID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser[userID])
}

// ListPersonal snapshots the subscribers of a personal channel. An unknown
// user yields an empty slice, never an error.
func (r *Registry) ListPersonal(userID string) []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return snapshot(r.byUser[userID], nil)
}

// ListChatExcept snapshots a conversation channel, leaving out one
// connection. Pass "" to get everyone.
func (r *Registry) ListChatExcept(chatID, exceptConn string) []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return snapshot(r.byChat[chatID], &exceptConn)
}

// ListPersonalExcept snapshots a personal channel minus one connection, so a
// fan-out never loops a payload back to the socket that produced it.
func (r *Registry) ListPersonalExcept(userID, exceptConn string) []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return snapshot(r.byUser[userID], &exceptConn)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byConn)
}

func snapshot(bucket map[string]*Client, exceptConn *string) []*Client {
	if len(bucket) == 0 {
		return nil
	}
	out := make([]*Client, 0, len(bucket))
	for connID, c := range bucket {
		if exceptConn != nil && connID == *exceptConn {
			continue
		}
		out = append(out, c)
	}
	return out
}
