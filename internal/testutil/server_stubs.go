package testutil

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/preston-bernstein/roster-stats-service/internal/poller"
)

// FakeWarmer satisfies the server's warmer contract and counts lifecycle calls.
type FakeWarmer struct {
	Starts    atomic.Int32
	Stops     atomic.Int32
	StopErr   error
	StatusVal poller.Status
}

func (w *FakeWarmer) Start(context.Context) { w.Starts.Add(1) }

func (w *FakeWarmer) Stop(context.Context) error {
	w.Stops.Add(1)
	return w.StopErr
}

func (w *FakeWarmer) Status() poller.Status { return w.StatusVal }

// FakeHTTPServer stands in for a listening server. ListenAndServe returns
// ListenErr immediately; Shutdown waits on Release when it is non-nil.
type FakeHTTPServer struct {
	ListenErr   error
	ShutdownErr error
	Release     chan struct{}
	Mux         http.Handler

	Listens   atomic.Int32
	Shutdowns atomic.Int32
}

// ClosedServer returns a fake whose listen loop ends as if Shutdown had run.
func ClosedServer() *FakeHTTPServer {
	return &FakeHTTPServer{ListenErr: http.ErrServerClosed}
}

func (s *FakeHTTPServer) ListenAndServe() error {
	s.Listens.Add(1)
	return s.ListenErr
}

func (s *FakeHTTPServer) Shutdown(ctx context.Context) error {
	s.Shutdowns.Add(1)
	if s.Release == nil {
		return s.ShutdownErr
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.Release:
		return s.ShutdownErr
	}
}

func (s *FakeHTTPServer) Addr() string { return ":0" }

func (s *FakeHTTPServer) Handler() http.Handler {
	if s.Mux == nil {
		return http.NotFoundHandler()
	}
	return s.Mux
}
