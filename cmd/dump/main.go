package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/nspcc-dev/trustflow-contract/config"
	"github.com/nspcc-dev/trustflow-contract/deploy"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "Path to the YAML configuration file")
	withEvents := flag.Bool("events", false, "Dump event log records too")

	flag.Parse()

	if *configPath == "" {
		log.Fatal("missing configuration file")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	err = _dump(cfg, *withEvents, json.NewEncoder(os.Stdout))
	if err != nil {
		log.Fatal(err)
	}
}

func _dump(cfg *config.Config, withEvents bool, enc encoder) error {
	// storage is opened read-write, nothing is written without transactions
	ch, err := deploy.NewChain(cfg, zap.NewNop())
	if err != nil {
		return err
	}

	defer ch.Close()

	b, err := openBundle(cfg, ch)
	if err != nil {
		return err
	}

	if err := dumpRoles(b.Roles, enc); err != nil {
		return fmt.Errorf("dump roles: %w", err)
	}

	if err := dumpLedger(b.Reputation, enc); err != nil {
		return fmt.Errorf("dump reputation ledger: %w", err)
	}

	if withEvents {
		records, err := ch.Events().Records()
		if err != nil {
			return fmt.Errorf("read event log: %w", err)
		}

		for i := range records {
			if err := enc.Encode(&records[i]); err != nil {
				return fmt.Errorf("encode record #%d: %w", i, err)
			}
		}
	}

	return nil
}
