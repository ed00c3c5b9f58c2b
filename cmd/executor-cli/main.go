package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nspcc-dev/trustflow-contract/config"
	"github.com/nspcc-dev/trustflow-contract/executor"
	"github.com/urfave/cli"
	"golang.org/x/term"
)

func main() {
	app := cli.NewApp()
	app.Name = "executor-cli"
	app.Usage = "Interactive client of the executor daemon"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "Path to the YAML configuration file",
		},
		cli.StringFlag{
			Name:  "socket, s",
			Usage: "Path to the daemon unix socket, overrides configuration",
		},
		cli.StringFlag{
			Name:  "file, f",
			Usage: "Execute the file and exit instead of starting the REPL",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
	}

	socket := cfg.Executor.SocketPath
	if s := c.String("socket"); s != "" {
		socket = s
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	r := newREPL(executor.NewClient(socket), os.Stdin, os.Stdout)
	r.color = term.IsTerminal(int(os.Stdout.Fd()))

	if path := c.String("file"); path != "" {
		if !r.executeFile(ctx, path) {
			return cli.NewExitError("execution failed", 1)
		}
		return nil
	}

	r.interactive = term.IsTerminal(int(os.Stdin.Fd()))

	return r.run(ctx)
}
