package main

import (
	"context"
	"errors"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/shule/core"
)

type fakeServer struct {
	errs        chan error
	sigs        chan os.Signal
	started     chan struct{}
	shutdownErr error
	closeErr    error
	shutdown    bool
	closed      bool
}

func newFakeServer() *fakeServer {
	return &fakeServer{errs: make(chan error, 1), sigs: make(chan os.Signal, 1), started: make(chan struct{})}
}

func (s *fakeServer) Start() { close(s.started) }
func (s *fakeServer) Errors() <-chan error { return s.errs }
func (s *fakeServer) ShutdownSignal() <-chan os.Signal { return s.sigs }

func (s *fakeServer) Shutdown(ctx context.Context) error {
	s.shutdown = true
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("no deadline")
	}
	return s.shutdownErr
}

func (s *fakeServer) Close() error {
	s.closed = true
	return s.closeErr
}

func TestRun(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		sig          os.Signal
		shutdownErr  error
		wantShutdown bool
		wantClosed   bool
	}{
		{name: "server error", err: errors.New("bind: address in use")},
		{name: "graceful", sig: syscall.SIGTERM, wantShutdown: true},
		{name: "forced", sig: os.Interrupt, shutdownErr: context.DeadlineExceeded, wantShutdown: true, wantClosed: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newFakeServer()
			srv.shutdownErr = tt.shutdownErr
			if tt.err != nil {
				srv.errs <- tt.err
			}
			if tt.sig != nil {
				srv.sigs <- tt.sig
			}

			done := make(chan struct{})
			go func() {
				run(srv, core.NewDiscardLogger(), time.Second)
				close(done)
			}()
			select {
			case <-done:
			case <-time.After(5 * time.Second):
				t.Fatal("run did not return")
			}

			<-srv.started
			assert.Equal(t, tt.wantShutdown, srv.shutdown)
			assert.Equal(t, tt.wantClosed, srv.closed)
		})
	}
}
