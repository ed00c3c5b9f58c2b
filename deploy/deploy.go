package deploy

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/trustflow-contract/chain"
	"github.com/nspcc-dev/trustflow-contract/common"
	"github.com/nspcc-dev/trustflow-contract/reputation"
	"github.com/nspcc-dev/trustflow-contract/request"
	"github.com/nspcc-dev/trustflow-contract/roles"
	"go.uber.org/zap"
)

// Prm groups all parameters of the admin bundle deployment procedure.
type Prm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	// Chain to deploy the contracts to.
	Chain *chain.Chain

	// Account deploying the contracts. It becomes the owner of the Roles
	// contract and determines the contract addresses.
	Admin util.Uint160

	// Enforce request references in the Reputation contract. Doesn't affect
	// already deployed contract: the flag is not stored and must be the same
	// on every run.
	StrictReferences bool

	// Role members granted on every run.
	Members Members
}

// Bundle is a deployed admin bundle.
type Bundle struct {
	Roles      *roles.Contract
	Reputation *reputation.Contract
}

// Deploy synchronizes the admin bundle with the chain: it deploys missing
// contracts and reattaches to the existing ones. Contracts are processed in
// strict order, dependent ones come after.
//
// Summary of stages:
//  1. Roles contract deployment
//  2. Reputation contract deployment
//  3. granting of the configured roles
func Deploy(prm Prm) (*Bundle, error) {
	if prm.Chain == nil {
		return nil, errors.New("missing chain")
	}
	if prm.Logger == nil {
		prm.Logger = zap.NewNop()
	}

	var (
		res Bundle
		err error
	)

	// 1. Roles
	prm.Logger.Info("synchronizing Roles contract with the chain...")

	res.Roles, err = syncContract(prm.Logger, "Roles",
		func() (*roles.Contract, error) {
			return roles.Open(prm.Chain, common.ContractHash(prm.Admin, roles.ContractName))
		},
		func() (*roles.Contract, error) { return roles.Deploy(prm.Chain, prm.Admin) },
	)
	if err != nil {
		return nil, fmt.Errorf("sync Roles contract with the chain: %w", err)
	}

	prm.Logger.Info("Roles contract successfully synchronized", zap.Stringer("address", res.Roles.Hash()))

	// 2. Reputation
	repPrm := reputation.Prm{Roles: res.Roles}
	if prm.StrictReferences {
		repPrm.Outcomes = request.Outcomes{}
	}

	prm.Logger.Info("synchronizing Reputation contract with the chain...")

	res.Reputation, err = syncContract(prm.Logger, "Reputation",
		func() (*reputation.Contract, error) {
			return reputation.Open(prm.Chain, common.ContractHash(prm.Admin, reputation.ContractName), repPrm)
		},
		func() (*reputation.Contract, error) { return reputation.Deploy(prm.Chain, prm.Admin, repPrm) },
	)
	if err != nil {
		return nil, fmt.Errorf("sync Reputation contract with the chain: %w", err)
	}

	prm.Logger.Info("Reputation contract successfully synchronized", zap.Stringer("address", res.Reputation.Hash()))

	// 3. Roles
	prm.Logger.Info("granting configured roles...")

	err = grantMembers(prm.Logger, res.Roles, prm.Admin, prm.Members)
	if err != nil {
		return nil, fmt.Errorf("grant configured roles: %w", err)
	}

	prm.Logger.Info("configured roles successfully granted")

	return &res, nil
}

func syncContract[T any](l *zap.Logger, name string, open, deploy func() (*T, error)) (*T, error) {
	c, err := open()
	if err == nil {
		l.Info("contract is already deployed, reattached", zap.String("contract", name))
		return c, nil
	}

	if !errors.Is(err, common.ErrNotDeployed) {
		return nil, fmt.Errorf("open deployed contract: %w", err)
	}

	l.Info("contract is missing on the chain, deploying...", zap.String("contract", name))

	c, err = deploy()
	if err != nil {
		return nil, fmt.Errorf("deploy contract: %w", err)
	}

	return c, nil
}
