// Package chat owns conversation sessions: ordered append-only message
// history, the greeting lifecycle, and dispatch of user input through
// the answer -> web fallback pipeline.
package chat

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/guidechat/internal/domain"
	"github.com/kailas-cloud/guidechat/internal/metrics"
)

// Greeting seeds every new or cleared session as the first ai message.
const Greeting = "Hello! I can help you find the best data packages or fix router issues. What do you need today?"

// Apology is the fixed user-visible reply when both the guides and the
// web fallback fail. The real cause goes to the logs, never to the user.
const Apology = "I couldn't find that information in our guides or online."

// Session is one client's ordered conversation history.
type Session struct {
	ID        string           `json:"id"`
	Messages  []domain.Message `json:"messages"`
	CreatedAt time.Time        `json:"created_at"`

	mu sync.Mutex
}

// Service maintains sessions and runs the per-query pipeline.
// Sessions are isolated; the only process-wide shared state is the
// read-only index behind the Answerer.
type Service struct {
	answerer Answerer
	fallback WebFallback
	logger   *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// New creates a session service.
func New(answerer Answerer, fallback WebFallback, logger *zap.Logger) *Service {
	return &Service{
		answerer: answerer,
		fallback: fallback,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Create opens a session seeded with the greeting message.
func (s *Service) Create(_ context.Context) *Session {
	sess := &Session{
		ID:        uuid.New().String(),
		Messages:  []domain.Message{greetingMessage()},
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.logger.Info("Session created", zap.String("session_id", sess.ID))
	return sess.snapshot()
}

// Get returns a snapshot of the session history in chronological order.
func (s *Service) Get(_ context.Context, id string) (*Session, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.snapshot(), nil
}

// Submit appends the user message, runs the answer pipeline
// synchronously, appends the resulting ai message, and returns it.
// One submission is fully processed before the session accepts the next.
func (s *Service) Submit(ctx context.Context, id, content string) (domain.Message, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return domain.Message{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.append(domain.RoleHuman, content)
	reply := s.respond(ctx, content)
	msg := sess.append(domain.RoleAI, reply)
	return msg, nil
}

// Clear resets the session history to exactly one fresh greeting message.
func (s *Service) Clear(_ context.Context, id string) (*Session, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.Messages = []domain.Message{greetingMessage()}
	s.logger.Info("Session cleared", zap.String("session_id", id))
	return sess.snapshot(), nil
}

// Destroy removes the session.
func (s *Service) Destroy(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	delete(s.sessions, id)
	s.logger.Info("Session destroyed", zap.String("session_id", id))
	return nil
}

// respond runs the answer -> web fallback pipeline and always returns
// user-visible text. Failures are converted here, at the boundary of
// the component that produced them; nothing escapes to crash a session.
func (s *Service) respond(ctx context.Context, query string) string {
	res, err := s.answerer.Answer(ctx, query)
	if err != nil {
		s.logger.Error("Grounded answer failed", zap.String("query", query), zap.Error(err))
		metrics.AnswersTotal.WithLabelValues("error").Inc()
		return fmt.Sprintf("System error: %v", err)
	}

	if res.Found {
		metrics.AnswersTotal.WithLabelValues("guides").Inc()
		return res.Text
	}

	// The guides lack the answer: one web fallback attempt, its outcome final.
	text, err := s.fallback.Answer(ctx, query)
	if err != nil {
		s.logger.Error("Web fallback failed", zap.String("query", query), zap.Error(err))
		metrics.AnswersTotal.WithLabelValues("apology").Inc()
		return Apology
	}

	metrics.AnswersTotal.WithLabelValues("web").Inc()
	return text
}

func (s *Service) lookup(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	return sess, nil
}

// append adds a message to the history. Caller holds sess.mu.
func (sess *Session) append(role domain.Role, content string) domain.Message {
	msg := domain.Message{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	sess.Messages = append(sess.Messages, msg)
	return msg
}

// snapshot copies the session for handler use. Caller holds sess.mu.
func (sess *Session) snapshot() *Session {
	msgs := make([]domain.Message, len(sess.Messages))
	copy(msgs, sess.Messages)
	return &Session{ID: sess.ID, Messages: msgs, CreatedAt: sess.CreatedAt}
}

func greetingMessage() domain.Message {
	return domain.Message{
		ID:        uuid.New().String(),
		Role:      domain.RoleAI,
		Content:   Greeting,
		CreatedAt: time.Now().UTC(),
	}
}
