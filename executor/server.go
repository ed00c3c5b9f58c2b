package executor

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/nspcc-dev/trustflow-contract/common"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// DefaultReadTimeout is the default time limit for a client to send the
// request.
const DefaultReadTimeout = 10 * time.Second

// ServerPrm groups Server parameters.
type ServerPrm struct {
	// Nil logger disables logging.
	Logger *zap.Logger

	// Runners by the code format.
	Runners map[byte]Runner

	// Code size limit, DefaultMaxPayload if zero.
	MaxPayload uint32

	// Time limit of a single run, no limit if zero.
	Timeout time.Duration

	// Time limit of reading the request, DefaultReadTimeout if zero.
	ReadTimeout time.Duration

	// Registerer of the server metrics, nil disables their export.
	Registerer prometheus.Registerer
}

// Server is the executor daemon serving code execution requests.
type Server struct {
	log        *zap.Logger
	runners    map[byte]Runner
	maxPayload uint32
	timeout    time.Duration
	readTime   time.Duration
	metrics    *metrics

	wg sync.WaitGroup
}

// NewServer returns new Server. It fails only if metrics can't be registered.
func NewServer(prm ServerPrm) (*Server, error) {
	s := &Server{
		log:        prm.Logger,
		runners:    prm.Runners,
		maxPayload: prm.MaxPayload,
		timeout:    prm.Timeout,
		readTime:   prm.ReadTimeout,
		metrics:    newMetrics(),
	}

	if prm.Registerer != nil {
		if err := s.metrics.register(prm.Registerer); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}

	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.maxPayload == 0 {
		s.maxPayload = DefaultMaxPayload
	}
	if s.readTime == 0 {
		s.readTime = DefaultReadTimeout
	}

	return s, nil
}

// Listen creates unix socket at the given path accessible by the current user
// only. Stale socket file is removed.
func Listen(path string) (net.Listener, error) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("remove stale socket: %w", err)
	}

	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen socket: %w", err)
	}

	if err := os.Chmod(path, 0600); err != nil {
		ln.Close()
		return nil, fmt.Errorf("restrict socket permissions: %w", err)
	}

	return ln, nil
}

// Serve accepts connections on ln and handles each of them in a separate
// goroutine. When ctx is done it closes ln and all open connections and
// returns nil once their handlers exit.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		ln.Close()
	}()

	s.log.Info("executor daemon is listening", zap.Stringer("address", ln.Addr()))

	for {
		conn, err := ln.Accept()
		if err != nil {
			s.wg.Wait()

			if ctx.Err() != nil {
				s.log.Info("executor daemon stopped")
				return nil
			}

			return fmt.Errorf("accept connection: %w", err)
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handle(ctx, conn)
		}()
	}
}

func (s *Server) handle(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	if err := conn.SetReadDeadline(time.Now().Add(s.readTime)); err != nil {
		s.log.Warn("failed to set read deadline", zap.Error(err))
		return
	}

	req, err := ReadRequest(conn, s.maxPayload)
	if err != nil {
		s.log.Warn("failed to read request", zap.Error(err))
		s.metrics.dropped.Inc()
		return
	}

	s.log.Info("received command", zap.Uint8("format", req.Format), zap.Int("size", len(req.Code)),
		zap.String("hash", common.EncodeHash(CommandHash(req.Code))))

	start := time.Now()
	res := s.run(ctx, req)
	s.metrics.observe(res, start)

	if err := WriteResult(conn, res); err != nil {
		s.log.Warn("failed to send response", zap.Error(err))
		return
	}

	s.log.Info("sent response", zap.Uint32("status", res.Status),
		zap.Int("stdout", len(res.Stdout)), zap.Int("stderr", len(res.Stderr)),
		zap.String("result hash", common.EncodeHash(res.Hash())))
}

func (s *Server) run(ctx context.Context, req Request) Result {
	runner, ok := s.runners[req.Format]
	if !ok {
		s.log.Warn("unknown code format", zap.Uint8("format", req.Format))
		return Result{Status: StatusFailure}
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	stdout, stderr, err := runner.Run(ctx, req.Code)
	if err != nil {
		s.log.Info("code execution failed", zap.Error(err))
		return Result{Status: StatusFailure, Stdout: stdout, Stderr: stderr}
	}

	return Result{Status: StatusSuccess, Stdout: stdout, Stderr: stderr}
}
