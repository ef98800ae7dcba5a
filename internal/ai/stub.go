package ai

import (
	"context"
	"sync"
)

// StubGateway replays canned completions. It backs tests and local runs that
// need deterministic generation without network access.
type StubGateway struct {
	mu        sync.Mutex
	responses []StubResponse
	calls     []Request
}

type StubResponse struct {
	Content string
	Err     error
}

func NewStubGateway(responses ...StubResponse) *StubGateway {
	return &StubGateway{responses: responses}
}

// Complete returns the next canned response; the last one repeats. With no
// responses configured it behaves like a gateway without credentials.
func (s *StubGateway) Complete(ctx context.Context, req Request) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, req)

	if err := ctx.Err(); err != nil {
		return "", TransportFailure(err)
	}
	if len(s.responses) == 0 {
		return "", unconfigured()
	}

	resp := s.responses[0]
	if len(s.responses) > 1 {
		s.responses = s.responses[1:]
	}
	return resp.Content, resp.Err
}

func (s *StubGateway) Calls() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.calls))
	copy(out, s.calls)
	return out
}
