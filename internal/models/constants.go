package models

// DefaultEndpoint is the tutor service endpoint used when the config
// does not override it.
const DefaultEndpoint = "http://localhost:3400/api/tutor"

// Fixed transcript strings
const (
	// WelcomeText seeds every new session as the first model message.
	WelcomeText = "Hi! I'm your science tutor. Ask me anything about physics, chemistry, biology or space."

	// FallbackReply is shown when the service answers successfully but
	// the reply field is absent or empty.
	FallbackReply = "Sorry, I couldn't process that request."

	// UnknownBackendError is the diagnostic default when a failing
	// response carries no error field.
	UnknownBackendError = "Unknown backend error."
)

// Quick-prompt instructional strings. Activating a quick prompt
// overwrites the input buffer with one of these.
const (
	PromptSummarize  = "Enter the topic you want me to summarize."
	PromptExperiment = "Enter the concept you want an experiment for."
)
