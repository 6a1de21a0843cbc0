package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"

	"lumen/internal/models"
)

// SessionStore keeps conversation history per session id.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	model    string
	messages []Message
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*session)}
}

// prepare returns the session's history for a turn on the given model.
// Switching models mid-session resets any existing history.
func (s *SessionStore) prepare(id, model string) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		sess = &session{model: model}
		s.sessions[id] = sess
	}
	if sess.model != model {
		if len(sess.messages) > 0 {
			log.Info().Str("session", id).Str("model", model).Msg("Model switched, resetting history")
			sess.messages = nil
		}
		sess.model = model
	}

	out := make([]Message, len(sess.messages))
	copy(out, sess.messages)
	return out
}

func (s *SessionStore) append(id string, msgs ...Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		sess.messages = append(sess.messages, msgs...)
	}
}

// History returns a copy of the session's messages.
func (s *SessionStore) History(id string) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil
	}
	out := make([]Message, len(sess.messages))
	copy(out, sess.messages)
	return out
}

// Clear drops a session entirely.
func (s *SessionStore) Clear(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// ModelFactory builds a chat model for a model name. The service
// constructs a fresh model whenever a session switches.
type ModelFactory func(model string) (llms.Model, error)

// Service ties the session store, tool registry, and loop together.
// It replaces ambient globals: one Service per process, passed into
// every chat call site.
type Service struct {
	newModel     ModelFactory
	registry     *Registry
	sessions     *SessionStore
	defaultModel string
}

func NewService(newModel ModelFactory, registry *Registry, defaultModel string) *Service {
	return &Service{
		newModel:     newModel,
		registry:     registry,
		sessions:     NewSessionStore(),
		defaultModel: defaultModel,
	}
}

// Sessions exposes the session store for display surfaces.
func (s *Service) Sessions() *SessionStore { return s.sessions }

// Chat runs one conversation turn and returns the final answer.
func (s *Service) Chat(ctx context.Context, sessionID, model, prompt string) (Message, error) {
	if model == "" {
		model = s.defaultModel
	}

	history := s.sessions.prepare(sessionID, model)

	chatModel, err := s.newModel(model)
	if err != nil {
		return Message{}, fmt.Errorf("initialize model %q: %w", model, err)
	}

	userMsg := Message{Role: RoleUser, Content: prompt}
	s.sessions.append(sessionID, userMsg)
	history = append(history, userMsg)

	loop := NewLoop(chatModel, s.registry, s.systemPrompt())
	appended := loop.Run(ctx, history)
	s.sessions.append(sessionID, appended...)

	for i := len(appended) - 1; i >= 0; i-- {
		if appended[i].Role == RoleAssistant && strings.TrimSpace(appended[i].Content) != "" {
			return appended[i], nil
		}
	}
	return Message{Role: RoleAssistant, Content: apologyMessage}, nil
}

// systemPrompt enumerates every registered tool when the registry goes
// beyond the built-in retrieval tool, so the model knows what it can
// invoke.
func (s *Service) systemPrompt() string {
	tools := s.registry.List()
	if len(tools) == 1 && tools[0].Name() == SearchToolName {
		return models.AgentSystemPrompt
	}

	var descriptions []string
	for _, t := range tools {
		descriptions = append(descriptions, fmt.Sprintf("- %s: %s", t.Name(), t.Description()))
	}
	return fmt.Sprintf(models.MCPSystemPromptTemplate, strings.Join(descriptions, "\n"))
}
