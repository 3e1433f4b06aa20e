package api

import "context"

// MockTutorClient is a mock implementation of TutorClientInterface for testing
type MockTutorClient struct {
	// Mock return values
	ReplyVal string
	AskErr   error

	// Call recorders
	AskCalled   bool
	AskCount    int
	LastHistory []Turn
	CloseCalled bool
}

// Ensure MockTutorClient implements TutorClientInterface
var _ TutorClientInterface = (*MockTutorClient)(nil)

func (m *MockTutorClient) Ask(_ context.Context, history []Turn) (string, error) {
	m.AskCalled = true
	m.AskCount++
	m.LastHistory = append([]Turn(nil), history...)
	if m.AskErr != nil {
		return "", m.AskErr
	}
	return m.ReplyVal, nil
}

func (m *MockTutorClient) Close() {
	m.CloseCalled = true
}
