// Package session implements the conversation session controller.
//
// A Session owns the transcript, the input buffer, the loading flag and
// the active quick prompt. One Session exists per running chat; the
// rendering layer holds it by pointer and drives it through Submit,
// Resolve and Fail. The loading flag is the sole concurrency guard: at
// most one request is in flight, and a submit attempted while loading
// is ignored rather than queued.
package session

import (
	"fmt"
	"strings"
	"sync"

	"github.com/helena/scitutor/internal/api"
	"github.com/helena/scitutor/internal/models"
)

// Feature identifies a quick prompt
type Feature string

// Quick prompts pre-fill the input buffer with a fixed instructional
// string. They never alter the outbound request.
const (
	FeatureNone       Feature = ""
	FeatureSummarize  Feature = "summarize"
	FeatureExperiment Feature = "experiment"
)

// promptFor maps a quick prompt to its instructional string
func promptFor(kind Feature) (string, bool) {
	switch kind {
	case FeatureSummarize:
		return models.PromptSummarize, true
	case FeatureExperiment:
		return models.PromptExperiment, true
	}
	return "", false
}

// Session is the single owner of all conversation state
type Session struct {
	mu       sync.RWMutex
	messages []models.Message
	input    string
	loading  bool
	feature  Feature
}

// New creates a session seeded with the welcome message
func New() *Session {
	welcome := models.NewModelMessage(models.WelcomeText)
	welcome.Icon = "atom"

	return &Session{
		messages: []models.Message{welcome},
	}
}

// Messages returns a copy of the transcript in display order
func (s *Session) Messages() []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of transcript messages
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// LastReply returns the content of the most recent model message and
// whether one exists.
func (s *Session) LastReply() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].Role == models.RoleModel {
			return s.messages[i].Content, true
		}
	}
	return "", false
}

// Input returns the current input buffer
func (s *Session) Input() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.input
}

// SetInput replaces the input buffer. No validation happens here;
// empty input is rejected at submit time. Edits while a request is in
// flight are allowed and do not affect the already-sent history.
func (s *Session) SetInput(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input = text
}

// IsLoading reports whether a request is in flight
func (s *Session) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// ActiveFeature returns the active quick prompt, or FeatureNone
func (s *Session) ActiveFeature() Feature {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.feature
}

// ToggleFeature activates or deactivates a quick prompt. Activating
// overwrites the input buffer with the prompt's instructional string,
// discarding whatever was typed. Deactivating (toggling the same kind
// again) leaves the buffer untouched. Unknown kinds are ignored.
func (s *Session) ToggleFeature(kind Feature) {
	prompt, ok := promptFor(kind)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.feature == kind {
		s.feature = FeatureNone
		return
	}
	s.feature = kind
	s.input = prompt
}

// Submit starts a submission. When the trimmed input is empty or a
// request is already in flight it is a no-op and returns false.
// Otherwise the user message is appended to the transcript, the buffer
// is cleared, the loading guard engages, and the outbound history
// (including the new user message) is returned for the caller to send.
func (s *Session) Submit() ([]api.Turn, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	text := strings.TrimSpace(s.input)
	if text == "" || s.loading {
		return nil, false
	}

	s.messages = append(s.messages, models.NewUserMessage(text))
	s.input = ""
	s.loading = true

	return s.outboundLocked(), true
}

// Resolve completes a submission with the service's reply. An empty
// reply is replaced with the fixed fallback string. The loading guard
// releases and the active quick prompt clears unconditionally.
func (s *Session) Resolve(reply string) models.Message {
	if strings.TrimSpace(reply) == "" {
		reply = models.FallbackReply
	}
	return s.finish(reply)
}

// Fail completes a submission after a failed exchange. The error detail
// becomes a visible transcript message; nothing propagates to the
// caller and the user's message keeps its place in the transcript.
func (s *Session) Fail(err error) models.Message {
	return s.finish(fmt.Sprintf("I ran into a problem answering that: %v", err))
}

func (s *Session) finish(content string) models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := models.NewModelMessage(content)
	s.messages = append(s.messages, msg)
	s.loading = false
	s.feature = FeatureNone
	return msg
}

// Outbound returns the history projection that would be sent now:
// conversational messages only, mapped to their wire shape, in order.
func (s *Session) Outbound() []api.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.outboundLocked()
}

func (s *Session) outboundLocked() []api.Turn {
	turns := make([]api.Turn, 0, len(s.messages))
	for _, msg := range s.messages {
		if !msg.IsConversational() {
			continue
		}
		turns = append(turns, api.Turn{
			Role:  msg.Role,
			Parts: []api.Part{{Text: msg.Content}},
		})
	}
	return turns
}
