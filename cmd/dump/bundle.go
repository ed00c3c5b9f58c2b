package main

import (
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/trustflow-contract/chain"
	"github.com/nspcc-dev/trustflow-contract/common"
	"github.com/nspcc-dev/trustflow-contract/config"
	"github.com/nspcc-dev/trustflow-contract/deploy"
	"github.com/nspcc-dev/trustflow-contract/reputation"
	"github.com/nspcc-dev/trustflow-contract/request"
	"github.com/nspcc-dev/trustflow-contract/roles"
)

// openBundle reattaches to the deployed admin bundle without deploying
// anything.
func openBundle(cfg *config.Config, ch *chain.Chain) (*deploy.Bundle, error) {
	admin, err := cfg.Contracts.AdminAccount()
	if err != nil {
		return nil, err
	}

	var b deploy.Bundle

	b.Roles, err = roles.Open(ch, common.ContractHash(admin, roles.ContractName))
	if err != nil {
		return nil, fmt.Errorf("open Roles contract: %w", err)
	}

	prm := reputation.Prm{Roles: b.Roles}
	if cfg.Contracts.StrictReferences {
		prm.Outcomes = request.Outcomes{}
	}

	b.Reputation, err = reputation.Open(ch, common.ContractHash(admin, reputation.ContractName), prm)
	if err != nil {
		return nil, fmt.Errorf("open Reputation contract: %w", err)
	}

	return &b, nil
}

type encoder interface {
	Encode(v any) error
}

type roleDump struct {
	Role    string   `json:"role"`
	Members []string `json:"members"`
}

func dumpRoles(c *roles.Contract, enc encoder) error {
	for _, r := range []roles.Role{roles.Admin, roles.Buyer, roles.Seller} {
		members, err := c.Members(r)
		if err != nil {
			return err
		}

		d := roleDump{Role: r.String(), Members: make([]string, 0, len(members))}
		for i := range members {
			d.Members = append(d.Members, address.Uint160ToString(members[i]))
		}

		if err := enc.Encode(d); err != nil {
			return err
		}
	}

	return nil
}

type changeDump struct {
	Index   uint64 `json:"index"`
	Subject string `json:"subject"`
	Actor   string `json:"actor"`
	Request string `json:"request,omitempty"`
	Delta   string `json:"delta"`
	Score   string `json:"score"`
}

// ledger records are read in pages of this size
const ledgerPage = 1000

func dumpLedger(c *reputation.Contract, enc encoder) error {
	for from := uint64(0); ; from += ledgerPage {
		changes, err := c.Records(from, ledgerPage)
		if err != nil {
			return err
		}

		for i := range changes {
			d := changeDump{
				Index:   changes[i].Index,
				Subject: address.Uint160ToString(changes[i].Subject),
				Actor:   address.Uint160ToString(changes[i].Actor),
				Delta:   changes[i].Delta.String(),
				Score:   changes[i].Score.String(),
			}
			if !changes[i].Request.Equals(util.Uint160{}) {
				d.Request = address.Uint160ToString(changes[i].Request)
			}

			if err := enc.Encode(d); err != nil {
				return err
			}
		}

		if len(changes) < ledgerPage {
			return nil
		}
	}
}
