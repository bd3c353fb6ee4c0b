package testutil

import (
	"net/http"
	"sync"
)

// RoundTripSpy records requests and forwards them to Next. A nil Next
// answers every request with a transport error.
type RoundTripSpy struct {
	Next http.RoundTripper

	mu       sync.Mutex
	requests []*http.Request
}

func (s *RoundTripSpy) RoundTrip(req *http.Request) (*http.Response, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	if s.Next == nil {
		return nil, errSpyNoTransport
	}
	return s.Next.RoundTrip(req)
}

// Calls returns the number of recorded requests.
func (s *RoundTripSpy) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// Requests returns a copy of the recorded requests.
func (s *RoundTripSpy) Requests() []*http.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*http.Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// RoundTripFunc adapts a function to http.RoundTripper.
type RoundTripFunc func(*http.Request) (*http.Response, error)

func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

type spyError struct{}

func (spyError) Error() string { return "spy: no transport configured" }

var errSpyNoTransport error = spyError{}
