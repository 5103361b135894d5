package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"numbertrail/server/engine"
	"numbertrail/server/models"
)

// Session is one player's game. The engine is single-threaded, so every
// access goes through Do.
type Session struct {
	ID        string
	CreatedAt time.Time

	mutex sync.Mutex
	game  *engine.Game
}

// Do runs fn with exclusive access to the session's game.
func (s *Session) Do(fn func(g *engine.Game)) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	fn(s.game)
}

// SessionService owns the live sessions
type SessionService struct {
	sessions map[string]*Session
	levels   *LevelService
	log      zerolog.Logger
	mutex    sync.RWMutex
}

// NewSessionService creates a session registry that resolves levels through levels
func NewSessionService(levels *LevelService, log zerolog.Logger) *SessionService {
	return &SessionService{
		sessions: make(map[string]*Session),
		levels:   levels,
		log:      log,
	}
}

// Create starts a session on levelName (the default level when empty)
func (ss *SessionService) Create(ctx context.Context, levelName string) (*Session, error) {
	level, err := ss.levels.Level(ctx, levelName)
	if err != nil {
		return nil, err
	}

	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		game:      engine.NewGame(level),
	}

	ss.mutex.Lock()
	ss.sessions[s.ID] = s
	ss.mutex.Unlock()

	ss.log.Debug().Str("session", s.ID).Str("level", level.Name()).Msg("session created")
	return s, nil
}

// LoadLevel switches a session to levelName, discarding its path
func (ss *SessionService) LoadLevel(ctx context.Context, s *Session, levelName string) (*models.Level, error) {
	level, err := ss.levels.Level(ctx, levelName)
	if err != nil {
		return nil, err
	}
	s.Do(func(g *engine.Game) { g.LoadLevel(level) })
	ss.log.Debug().Str("session", s.ID).Str("level", level.Name()).Msg("level loaded")
	return level, nil
}

// Remove drops a session
func (ss *SessionService) Remove(id string) {
	ss.mutex.Lock()
	defer ss.mutex.Unlock()
	delete(ss.sessions, id)
}

// Count returns the number of live sessions
func (ss *SessionService) Count() int {
	ss.mutex.RLock()
	defer ss.mutex.RUnlock()
	return len(ss.sessions)
}
