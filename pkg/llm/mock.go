package llm

import (
	"context"
	"sync"
)

// MockClient is a scriptable generation client for tests.
type MockClient struct {
	mu sync.Mutex

	// Response is returned on every call unless Err is set.
	Response string
	// Err, when set, fails every call.
	Err error

	// Calls counts Generate invocations. LastInstruction, LastContext and
	// LastQuery capture the most recent call's arguments.
	Calls           int
	LastInstruction string
	LastContext     string
	LastQuery       string
}

func (m *MockClient) Generate(ctx context.Context, instruction, contextBlock, query string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	m.LastInstruction = instruction
	m.LastContext = contextBlock
	m.LastQuery = query
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}
