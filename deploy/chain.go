package deploy

import (
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/trustflow-contract/chain"
	"github.com/nspcc-dev/trustflow-contract/config"
	"github.com/nspcc-dev/trustflow-contract/eventlog"
	"go.uber.org/zap"
)

// NewChain opens the chain storage and the event log configured by cfg.
func NewChain(cfg *config.Config, l *zap.Logger) (*chain.Chain, error) {
	var events eventlog.Log = eventlog.NewMemory()

	if cfg.EventLog.Path != "" {
		f, err := eventlog.OpenFile(cfg.EventLog.Path)
		if err != nil {
			return nil, fmt.Errorf("open event log: %w", err)
		}

		records, err := f.Records()
		if err != nil {
			return nil, fmt.Errorf("read event log: %w", err)
		}

		if err := eventlog.Verify(records); err != nil {
			return nil, fmt.Errorf("verify event log: %w", err)
		}

		l.Info("event log verified", zap.String("path", f.Path()), zap.Int("records", len(records)))

		events = f
	}

	store, err := storage.NewStore(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.Storage.Type, err)
	}

	return chain.New(store, events, l), nil
}

// PrmFromConfig returns deployment parameters configured by cfg.
func PrmFromConfig(cfg *config.Config, ch *chain.Chain, l *zap.Logger) (Prm, error) {
	admin, err := cfg.Contracts.AdminAccount()
	if err != nil {
		return Prm{}, err
	}

	members, err := cfg.Contracts.Members.Accounts()
	if err != nil {
		return Prm{}, err
	}

	return Prm{
		Logger:           l,
		Chain:            ch,
		Admin:            admin,
		StrictReferences: cfg.Contracts.StrictReferences,
		Members: Members{
			Admins:  members.Admins,
			Buyers:  members.Buyers,
			Sellers: members.Sellers,
		},
	}, nil
}
