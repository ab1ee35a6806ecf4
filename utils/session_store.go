package utils

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
)

const sessionKeyPrefix = "session:"

// SessionData is the server-side record behind an opaque session token.
type SessionData struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
}

type sessionEntry struct {
	data      SessionData
	expiresAt time.Time
}

var (
	sessions   = map[string]sessionEntry{}
	sessionsMu sync.RWMutex
)

// CreateSession issues an opaque token bound to the user identity, valid for
// ttl. Redis is preferred; without it sessions live in process memory
// (single-instance only).
func CreateSession(userID uint, username string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	token := uuid.NewString()
	data := SessionData{UserID: userID, Username: username}

	if rc := GetRedis(); rc != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return "", err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := rc.Set(ctx, sessionKeyPrefix+token, b, ttl).Err(); err != nil {
			return "", err
		}
		return token, nil
	}

	sessionsMu.Lock()
	sessions[token] = sessionEntry{data: data, expiresAt: time.Now().Add(ttl)}
	sessionsMu.Unlock()
	return token, nil
}

// GetSession resolves a token to its session record. Expired or unknown
// tokens report ok=false.
func GetSession(token string) (SessionData, bool) {
	if token == "" {
		return SessionData{}, false
	}

	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		b, err := rc.Get(ctx, sessionKeyPrefix+token).Bytes()
		if err != nil {
			return SessionData{}, false
		}
		var data SessionData
		if err := json.Unmarshal(b, &data); err != nil {
			return SessionData{}, false
		}
		return data, true
	}

	sessionsMu.RLock()
	entry, ok := sessions[token]
	sessionsMu.RUnlock()
	if !ok {
		return SessionData{}, false
	}
	if time.Now().After(entry.expiresAt) {
		sessionsMu.Lock()
		delete(sessions, token)
		sessionsMu.Unlock()
		return SessionData{}, false
	}
	return entry.data, true
}

// DeleteSession invalidates a token. Best-effort; deleting an unknown token
// is a no-op.
func DeleteSession(token string) {
	if token == "" {
		return
	}
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = rc.Del(ctx, sessionKeyPrefix+token).Err()
		return
	}
	sessionsMu.Lock()
	delete(sessions, token)
	sessionsMu.Unlock()
}
