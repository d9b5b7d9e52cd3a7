package redis

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"assessment-service/internal/app"
	"assessment-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Live sessions stay in a local map; every Save writes a JSON snapshot with TTL so that
// another instance can resume a session it has not seen yet.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*sessionEntry
}

// sessionEntry serialises snapshot writes for one session and fences them off once
// the session is deleted.
type sessionEntry struct {
	session *app.Session

	mu      sync.Mutex
	deleted bool
}

func NewSessionStore(client *redis.Client, ttl time.Duration, logger *slog.Logger) *SessionStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		logger:   logger,
		sessions: make(map[string]*sessionEntry),
	}
}

func (s *SessionStore) Put(session *app.Session) {
	s.mu.Lock()
	s.sessions[session.ID()] = &sessionEntry{session: session}
	s.mu.Unlock()
	s.Save(session)
}

func (s *SessionStore) Get(sessionID string) (*app.Session, bool) {
	s.mu.RLock()
	entry, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if ok {
		return entry.session, true
	}

	raw, err := s.client.Get(context.Background(), sessionKey(sessionID)).Bytes()
	if err != nil {
		return nil, false
	}
	var snap domain.SessionSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		s.logger.Warn("discarding undecodable session snapshot", "session_id", sessionID, "error", err)
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Another goroutine may have restored it meanwhile.
	if existing, ok := s.sessions[sessionID]; ok {
		return existing.session, true
	}
	session := app.RestoreSession(snap)
	s.sessions[sessionID] = &sessionEntry{session: session}
	return session, true
}

// Save writes the session snapshot. Sessions that are no longer stored are skipped,
// so a late save cannot bring a deleted session back. Failures are logged; the local
// copy stays authoritative.
func (s *SessionStore) Save(session *app.Session) {
	s.mu.RLock()
	entry, ok := s.sessions[session.ID()]
	s.mu.RUnlock()
	if !ok || entry.session != session {
		return
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.deleted {
		return
	}
	data, err := json.Marshal(session.Snapshot())
	if err != nil {
		s.logger.Error("encode session snapshot", "session_id", session.ID(), "error", err)
		return
	}
	if err := s.client.Set(context.Background(), sessionKey(session.ID()), data, s.ttl).Err(); err != nil {
		s.logger.Warn("persist session snapshot", "session_id", session.ID(), "error", err)
	}
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	entry, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	if ok {
		entry.mu.Lock()
		defer entry.mu.Unlock()
		entry.deleted = true
	}
	_ = s.client.Del(context.Background(), sessionKey(sessionID)).Err()
}

func sessionKey(sessionID string) string {
	return "assessment:session:" + sessionID
}
