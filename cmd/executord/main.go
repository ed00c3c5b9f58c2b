package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/nspcc-dev/trustflow-contract/config"
	"github.com/nspcc-dev/trustflow-contract/executor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "", "Path to the YAML configuration file")
	socketPath := flag.String("socket", "", "Path to the unix socket, overrides configuration")

	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatal(err)
		}
	}

	if *socketPath != "" {
		cfg.Executor.SocketPath = *socketPath
	}

	l, err := cfg.Logger.Build()
	if err != nil {
		log.Fatal(fmt.Errorf("init logger: %w", err))
	}

	err = run(cfg.Executor, l)
	_ = l.Sync()
	if err != nil {
		log.Fatal(err)
	}
}

func run(cfg config.Executor, l *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.PidPath != "" {
		err := os.WriteFile(cfg.PidPath, []byte(strconv.Itoa(os.Getpid())+"\n"), 0644)
		if err != nil {
			return fmt.Errorf("write pid file: %w", err)
		}

		defer func() {
			if err := os.Remove(cfg.PidPath); err != nil && !errors.Is(err, os.ErrNotExist) {
				l.Warn("failed to remove pid file", zap.Error(err))
			}
		}()
	}

	ln, err := executor.Listen(cfg.SocketPath)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()

	srv, err := executor.NewServer(executor.ServerPrm{
		Logger: l,
		Runners: map[byte]executor.Runner{
			executor.FormatPython: executor.ScriptRunner{Path: cfg.PythonRunner},
		},
		MaxPayload: cfg.MaxPayload,
		Timeout:    cfg.Timeout,
		Registerer: reg,
	})
	if err != nil {
		ln.Close()
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return srv.Serve(ctx, ln) })

	if cfg.MetricsAddress != "" {
		ms := &http.Server{
			Addr:              cfg.MetricsAddress,
			Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}

		g.Go(func() error {
			l.Info("serving metrics", zap.String("address", cfg.MetricsAddress))
			if err := ms.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			return ms.Shutdown(context.Background())
		})
	}

	return g.Wait()
}
