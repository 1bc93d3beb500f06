package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/cryptown/internal/logging"
)

const shutdownTimeout = 10 * time.Second

// Server serves the API until its context is cancelled, then drains
// in-flight requests.
type Server struct {
	address string
	logger  logging.Logger
	handler http.Handler

	listen func(network, address string) (net.Listener, error)
}

func NewServer(address string, logger logging.Logger, handler http.Handler) *Server {
	return &Server{address: address, logger: logger, handler: handler, listen: net.Listen}
}

// Run blocks until ctx is cancelled or the server fails. In both cases the
// shutdown goroutine has finished before Run returns.
func (s *Server) Run(ctx context.Context) error {
	listen, err := s.listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-runCtx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	err = srv.Serve(listen)
	cancel()
	<-stopped

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
