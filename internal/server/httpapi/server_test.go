package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/dmitrijs2005/cryptown/internal/logging"
)

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	srv := NewServer("127.0.0.1:0", logging.Nop{}, http.NotFoundHandler())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error on graceful stop: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	t.Parallel()

	srv := NewServer("127.0.0.1:99999", logging.Nop{}, http.NotFoundHandler())

	if err := srv.Run(context.Background()); err == nil {
		t.Fatal("expected listen error, got nil")
	}
}

type brokenListener struct {
	net.Listener
	err error
}

func (l brokenListener) Accept() (net.Conn, error) { return nil, l.err }

func TestRun_ReturnsServeErrorWithoutCancel(t *testing.T) {
	t.Parallel()

	errAccept := errors.New("accept failed")
	srv := NewServer("127.0.0.1:0", logging.Nop{}, http.NotFoundHandler())
	srv.listen = func(network, address string) (net.Listener, error) {
		l, err := net.Listen(network, address)
		if err != nil {
			return nil, err
		}
		return brokenListener{Listener: l, err: errAccept}, nil
	}

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(context.Background())
	}()

	select {
	case err := <-done:
		if !errors.Is(err, errAccept) {
			t.Fatalf("Run() error = %v, want %v", err, errAccept)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Serve failed")
	}
}
