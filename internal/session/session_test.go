package session

import (
	"strings"
	"testing"

	apierrors "github.com/helena/scitutor/internal/errors"
	"github.com/helena/scitutor/internal/models"
)

func TestNewSeedsWelcomeMessage(t *testing.T) {
	s := New()

	msgs := s.Messages()
	if len(msgs) != 1 {
		t.Fatalf("Expected 1 seeded message, got %d", len(msgs))
	}
	if msgs[0].Role != models.RoleModel {
		t.Errorf("Welcome message role = %q, want %q", msgs[0].Role, models.RoleModel)
	}
	if msgs[0].Content != models.WelcomeText {
		t.Errorf("Unexpected welcome content: %q", msgs[0].Content)
	}
	if s.IsLoading() {
		t.Error("New session should not be loading")
	}
	if s.ActiveFeature() != FeatureNone {
		t.Errorf("New session feature = %q, want none", s.ActiveFeature())
	}
}

func TestSubmitAppendsUserMessageAndClearsInput(t *testing.T) {
	s := New()
	s.SetInput("  Why is the sky blue?  ")

	history, ok := s.Submit()
	if !ok {
		t.Fatal("Submit() should accept non-empty input")
	}

	msgs := s.Messages()
	if len(msgs) != 2 {
		t.Fatalf("Expected 2 messages after submit, got %d", len(msgs))
	}
	last := msgs[1]
	if last.Role != models.RoleUser {
		t.Errorf("Appended role = %q, want %q", last.Role, models.RoleUser)
	}
	if last.Content != "Why is the sky blue?" {
		t.Errorf("Expected trimmed content, got %q", last.Content)
	}
	if s.Input() != "" {
		t.Errorf("Input buffer should be cleared, got %q", s.Input())
	}
	if !s.IsLoading() {
		t.Error("Session should be loading after submit")
	}
	// Outbound history includes the just-appended user message
	if len(history) != 2 {
		t.Fatalf("Expected 2 outbound turns, got %d", len(history))
	}
	if history[1].Role != models.RoleUser || history[1].Parts[0].Text != "Why is the sky blue?" {
		t.Errorf("Unexpected final turn: %+v", history[1])
	}
}

func TestSubmitEmptyInputIsNoop(t *testing.T) {
	tests := []string{"", "   ", "\n\t "}

	for _, input := range tests {
		s := New()
		s.SetInput(input)

		if _, ok := s.Submit(); ok {
			t.Errorf("Submit() accepted input %q", input)
		}
		if s.Len() != 1 {
			t.Errorf("Transcript changed for input %q", input)
		}
		if s.IsLoading() {
			t.Errorf("Loading engaged for input %q", input)
		}
	}
}

func TestSubmitWhileLoadingIsNoop(t *testing.T) {
	s := New()
	s.SetInput("first")
	if _, ok := s.Submit(); !ok {
		t.Fatal("First submit should be accepted")
	}

	s.SetInput("second")
	if _, ok := s.Submit(); ok {
		t.Error("Second submit while loading should be rejected")
	}
	if s.Len() != 2 {
		t.Errorf("Expected transcript unchanged at 2 messages, got %d", s.Len())
	}
	// The buffer edit itself is allowed while loading
	if s.Input() != "second" {
		t.Errorf("Input buffer = %q, want %q", s.Input(), "second")
	}
}

func TestResolveAppendsReplyAndReleasesGuard(t *testing.T) {
	s := New()
	s.SetInput("Why is the sky blue?")
	s.Submit()

	s.Resolve("Rayleigh scattering...")

	msgs := s.Messages()
	if len(msgs) != 3 {
		t.Fatalf("Expected 3 messages, got %d", len(msgs))
	}
	last := msgs[2]
	if last.Role != models.RoleModel || last.Content != "Rayleigh scattering..." {
		t.Errorf("Unexpected reply message: %+v", last)
	}
	if s.IsLoading() {
		t.Error("Loading guard should release after resolve")
	}
}

func TestResolveEmptyReplyUsesFallback(t *testing.T) {
	s := New()
	s.SetInput("hello")
	s.Submit()

	s.Resolve("   ")

	msgs := s.Messages()
	if got := msgs[len(msgs)-1].Content; got != models.FallbackReply {
		t.Errorf("Expected fallback reply, got %q", got)
	}
}

func TestFailAppendsDiagnosticAndKeepsUserMessage(t *testing.T) {
	s := New()
	s.SetInput("hello")
	s.Submit()

	s.Fail(apierrors.NewTransportError(500, "", "overloaded"))

	msgs := s.Messages()
	if len(msgs) != 3 {
		t.Fatalf("Expected 3 messages, got %d", len(msgs))
	}
	// User message keeps its index
	if msgs[1].Role != models.RoleUser || msgs[1].Content != "hello" {
		t.Errorf("User message lost or moved: %+v", msgs[1])
	}
	diag := msgs[2]
	if diag.Role != models.RoleModel {
		t.Errorf("Diagnostic role = %q, want %q", diag.Role, models.RoleModel)
	}
	if !strings.Contains(diag.Content, "overloaded") {
		t.Errorf("Diagnostic should embed the error detail, got %q", diag.Content)
	}
	if s.IsLoading() {
		t.Error("Loading guard should release after failure")
	}
}

func TestResolveClearsActiveFeature(t *testing.T) {
	s := New()
	s.ToggleFeature(FeatureSummarize)
	s.Submit()
	s.Resolve("done")

	if s.ActiveFeature() != FeatureNone {
		t.Errorf("Feature should clear on resolution, got %q", s.ActiveFeature())
	}
}

func TestMessageCountAfterNSubmissions(t *testing.T) {
	s := New()

	const n = 5
	for i := 0; i < n; i++ {
		s.SetInput("question")
		if _, ok := s.Submit(); !ok {
			t.Fatalf("Submit %d rejected", i)
		}
		s.Resolve("answer")
	}

	want := 1 + 2*n
	if s.Len() != want {
		t.Errorf("Expected %d messages after %d submissions, got %d", want, n, s.Len())
	}
}

func TestToggleFeatureOverwritesInput(t *testing.T) {
	s := New()
	s.SetInput("half-typed question")

	s.ToggleFeature(FeatureSummarize)

	if s.ActiveFeature() != FeatureSummarize {
		t.Errorf("Feature = %q, want summarize", s.ActiveFeature())
	}
	// Activation clobbers in-progress typing; that is the documented behavior
	if s.Input() != models.PromptSummarize {
		t.Errorf("Input = %q, want %q", s.Input(), models.PromptSummarize)
	}
}

func TestToggleFeatureTwiceClearsAndKeepsBuffer(t *testing.T) {
	s := New()

	s.ToggleFeature(FeatureSummarize)
	s.ToggleFeature(FeatureSummarize)

	if s.ActiveFeature() != FeatureNone {
		t.Errorf("Feature = %q, want none", s.ActiveFeature())
	}
	// Deactivation leaves the instructional string in place
	if s.Input() != models.PromptSummarize {
		t.Errorf("Input = %q, want %q", s.Input(), models.PromptSummarize)
	}
}

func TestToggleFeatureSwitchesKinds(t *testing.T) {
	s := New()

	s.ToggleFeature(FeatureSummarize)
	s.ToggleFeature(FeatureExperiment)

	if s.ActiveFeature() != FeatureExperiment {
		t.Errorf("Feature = %q, want experiment", s.ActiveFeature())
	}
	if s.Input() != models.PromptExperiment {
		t.Errorf("Input = %q, want %q", s.Input(), models.PromptExperiment)
	}
}

func TestToggleFeatureUnknownKindIgnored(t *testing.T) {
	s := New()
	s.SetInput("keep me")

	s.ToggleFeature(Feature("translate"))

	if s.ActiveFeature() != FeatureNone {
		t.Errorf("Unknown kind should not activate, got %q", s.ActiveFeature())
	}
	if s.Input() != "keep me" {
		t.Errorf("Input should be untouched, got %q", s.Input())
	}
}

func TestOutboundProjection(t *testing.T) {
	s := New()
	s.SetInput("Why is the sky blue?")
	s.Submit()

	turns := s.Outbound()
	if len(turns) != 2 {
		t.Fatalf("Expected 2 turns, got %d", len(turns))
	}

	// Welcome message first, in original order
	if turns[0].Role != models.RoleModel || turns[0].Parts[0].Text != models.WelcomeText {
		t.Errorf("Unexpected first turn: %+v", turns[0])
	}
	if turns[1].Role != models.RoleUser || turns[1].Parts[0].Text != "Why is the sky blue?" {
		t.Errorf("Unexpected second turn: %+v", turns[1])
	}
	for _, turn := range turns {
		if len(turn.Parts) != 1 {
			t.Errorf("Each turn should carry exactly one part, got %d", len(turn.Parts))
		}
	}
}

func TestOutboundFiltersNonConversationalRoles(t *testing.T) {
	s := New()
	// Simulate a future annotation message
	s.mu.Lock()
	s.messages = append(s.messages, models.Message{ID: "x", Role: "annotation", Content: "internal note"})
	s.mu.Unlock()

	for _, turn := range s.Outbound() {
		if turn.Role != models.RoleUser && turn.Role != models.RoleModel {
			t.Errorf("Outbound history leaked role %q", turn.Role)
		}
	}
}

func TestLastReply(t *testing.T) {
	s := New()

	reply, ok := s.LastReply()
	if !ok || reply != models.WelcomeText {
		t.Errorf("LastReply() = (%q, %v), want welcome text", reply, ok)
	}

	s.SetInput("question")
	s.Submit()
	s.Resolve("the answer")

	reply, ok = s.LastReply()
	if !ok || reply != "the answer" {
		t.Errorf("LastReply() = (%q, %v), want latest reply", reply, ok)
	}
}

func TestMessagesReturnsCopy(t *testing.T) {
	s := New()

	msgs := s.Messages()
	msgs[0].Content = "mutated"

	if s.Messages()[0].Content != models.WelcomeText {
		t.Error("Messages() must return a copy, not the backing slice")
	}
}
