package request

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/trustflow-contract/chain"
	"github.com/nspcc-dev/trustflow-contract/common"
	"github.com/nspcc-dev/trustflow-contract/reputation"
	"github.com/nspcc-dev/trustflow-contract/roles"
	"go.uber.org/zap"
)

// Notification names.
const (
	RequestCreatedEvent            = "RequestCreated"
	ExecutorAssignedEvent          = "ExecutorAssigned"
	AuditorAssignedEvent           = "AuditorAssigned"
	ResultAssignedEvent            = "ResultAssigned"
	FaultyCalculationDetectedEvent = "FaultyCalculationDetected"
	AuditorResultAssignedEvent     = "AuditorResultAssigned"
	RequestFinishedEvent           = "RequestFinished"
)

// Failure messages.
const (
	ErrExecutorNotSeller = "executor must be seller"
	ErrAuditorNotSeller  = "auditor must be seller"
	ErrSameAuditor       = "auditor must differ from executor"
	ErrUnknownRequest    = "unknown request"
	ErrAnotherLedger     = "request is bound to another reputation contract"
)

const (
	idKey         = "id"
	buyerKey      = "buyer"
	commandKey    = "command"
	rolesKey      = "roles"
	reputationKey = "reputation"
	stateKey      = "state"
	executorKey   = "executor"
	auditorKey    = "auditor"
	resultKey     = "result"
	auditKey      = "audit"
)

// Roles is the role registry the contract authorizes callers with.
type Roles interface {
	Hash() util.Uint160
	HasRoleIn(tx *chain.Tx, role roles.Role, account util.Uint160) (bool, error)
	IsAdminIn(tx *chain.Tx, account util.Uint160) (bool, error)
}

// Info groups request data.
type Info struct {
	ID          uuid.UUID
	Address     util.Uint160
	Buyer       util.Uint160
	CommandHash util.Uint256
	Roles       util.Uint160
	Reputation  util.Uint160
	State       State

	// Set-once fields, zero until set.
	Executor   util.Uint160
	Auditor    util.Uint160
	ResultHash util.Uint256
	AuditHash  util.Uint256
}

// Contract is a deployed Request contract.
type Contract struct {
	chain *chain.Chain
	hash  util.Uint160
	roles Roles
}

// Address returns the request address derived from the buyer and the
// request identifier.
func Address(buyer util.Uint160, id uuid.UUID) util.Uint160 {
	return hash.Hash160(append(buyer.BytesBE(), id[:]...))
}

// Deploy creates new request commissioned by the caller. Caller must be a
// buyer, reputationRef must be set.
func Deploy(ch *chain.Chain, caller util.Uint160, commandHash util.Uint256, registry Roles, reputationRef util.Uint160) (*Contract, error) {
	if registry == nil {
		return nil, errors.New("missing role registry")
	}
	if reputationRef.Equals(util.Uint160{}) {
		return nil, common.InvalidReference("missing reputation contract")
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("generate request id: %w", err)
	}

	h := Address(caller, id)

	err = ch.Invoke(func(tx *chain.Tx) error {
		ok, err := registry.HasRoleIn(tx, roles.Buyer, caller)
		if err := common.CheckWitness(ok, err, common.ErrBuyerOnly); err != nil {
			return err
		}

		ctx := tx.Storage(h)
		if ctx.Get([]byte(common.VersionKey)) != nil {
			return fmt.Errorf("%w at %s", common.ErrAlreadyDeployed, h.StringLE())
		}

		common.PutVersion(ctx)
		ctx.Put([]byte(idKey), id[:])
		ctx.Put([]byte(buyerKey), caller.BytesBE())
		ctx.Put([]byte(commandKey), commandHash.BytesBE())
		ctx.Put([]byte(rolesKey), registry.Hash().BytesBE())
		ctx.Put([]byte(reputationKey), reputationRef.BytesBE())
		putState(ctx, StateCreated)

		ctx.Notify(RequestCreatedEvent, common.AccountItem(caller), common.HashItem(commandHash))
		ctx.Log("request created",
			zap.Stringer("id", id),
			common.AccountField("buyer", caller),
			common.HashField("command", commandHash),
		)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Contract{chain: ch, hash: h, roles: registry}, nil
}

// Open returns the request at the given address. The request must be bound to
// the given role registry.
func Open(ch *chain.Chain, h util.Uint160, registry Roles) (*Contract, error) {
	if registry == nil {
		return nil, errors.New("missing role registry")
	}

	err := ch.View(func(tx *chain.Tx) error {
		ctx := tx.Storage(h)
		if err := checkRequest(ctx); err != nil {
			return err
		}

		stored, _, err := common.GetUint160(ctx, []byte(rolesKey))
		if err != nil {
			return err
		}

		if !stored.Equals(registry.Hash()) {
			return common.InvalidReference("request is bound to another role registry")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Contract{chain: ch, hash: h, roles: registry}, nil
}

// Hash returns the request address.
func (c *Contract) Hash() util.Uint160 {
	return c.hash
}

// AppointExecutor sets the request executor. Caller must be the registry
// administrator, the executor must be a seller.
func (c *Contract) AppointExecutor(caller, executor util.Uint160) error {
	return c.chain.Invoke(func(tx *chain.Tx) error {
		ctx := tx.Storage(c.hash)

		if err := c.checkAdmin(tx, caller); err != nil {
			return err
		}

		if err := checkState(ctx, StateCreated); err != nil {
			return err
		}

		if err := c.checkSeller(tx, executor, ErrExecutorNotSeller); err != nil {
			return err
		}

		if err := setOnce(ctx, executorKey, executor.BytesBE()); err != nil {
			return err
		}
		putState(ctx, StateExecutorAssigned)

		ctx.Notify(ExecutorAssignedEvent, common.AccountItem(executor))
		ctx.Log("executor appointed", common.AccountField("executor", executor))

		return nil
	})
}

// AppointAuditor sets the request auditor. Caller must be the registry
// administrator, the auditor must be a seller other than the executor.
func (c *Contract) AppointAuditor(caller, auditor util.Uint160) error {
	return c.chain.Invoke(func(tx *chain.Tx) error {
		ctx := tx.Storage(c.hash)

		if err := c.checkAdmin(tx, caller); err != nil {
			return err
		}

		if err := checkState(ctx, StateExecutorAssigned); err != nil {
			return err
		}

		if err := c.checkSeller(tx, auditor, ErrAuditorNotSeller); err != nil {
			return err
		}

		executor, _, err := common.GetUint160(ctx, []byte(executorKey))
		if err != nil {
			return err
		}

		if executor.Equals(auditor) {
			return common.InvalidReference(ErrSameAuditor)
		}

		if err := setOnce(ctx, auditorKey, auditor.BytesBE()); err != nil {
			return err
		}
		putState(ctx, StateAuditorAssigned)

		ctx.Notify(AuditorAssignedEvent, common.AccountItem(auditor))
		ctx.Log("auditor appointed", common.AccountField("auditor", auditor))

		return nil
	})
}

// AssignResult submits the hash of the executor's result. Caller must be the
// request executor.
func (c *Contract) AssignResult(caller util.Uint160, resultHash util.Uint256) error {
	return c.chain.Invoke(func(tx *chain.Tx) error {
		ctx := tx.Storage(c.hash)

		if err := checkState(ctx, StateAuditorAssigned); err != nil {
			return err
		}

		executor, _, err := common.GetUint160(ctx, []byte(executorKey))
		if err != nil {
			return err
		}

		if err := common.CheckCaller(caller, executor, common.ErrExecutorOnly); err != nil {
			return err
		}

		if err := setOnce(ctx, resultKey, resultHash.BytesBE()); err != nil {
			return err
		}
		putState(ctx, StateResultSubmitted)

		ctx.Notify(ResultAssignedEvent, common.HashItem(resultHash), common.AccountItem(caller))
		ctx.Log("result assigned", common.HashField("result", resultHash))

		return nil
	})
}

// AssignAuditResult submits the hash of the auditor's result and resolves the
// request: it's finished if the hash matches the executor's one and faulty
// otherwise. Caller must be the request auditor.
func (c *Contract) AssignAuditResult(caller util.Uint160, auditHash util.Uint256) error {
	return c.chain.Invoke(func(tx *chain.Tx) error {
		ctx := tx.Storage(c.hash)

		if err := checkState(ctx, StateResultSubmitted); err != nil {
			return err
		}

		auditor, _, err := common.GetUint160(ctx, []byte(auditorKey))
		if err != nil {
			return err
		}

		if err := common.CheckCaller(caller, auditor, common.ErrAuditorOnly); err != nil {
			return err
		}

		executor, _, err := common.GetUint160(ctx, []byte(executorKey))
		if err != nil {
			return err
		}

		submitted, _, err := common.GetUint256(ctx, []byte(resultKey))
		if err != nil {
			return err
		}

		if err := setOnce(ctx, auditKey, auditHash.BytesBE()); err != nil {
			return err
		}

		if !submitted.Equals(auditHash) {
			putState(ctx, StateFaulty)

			ctx.Notify(FaultyCalculationDetectedEvent,
				common.AccountItem(auditor),
				common.AccountItem(executor),
				common.HashItem(submitted),
				common.HashItem(auditHash),
			)
			ctx.Log("faulty calculation detected",
				common.AccountField("executor", executor),
				common.HashField("submitted", submitted),
				common.HashField("audit", auditHash),
			)

			return nil
		}

		putState(ctx, StateFinished)

		ctx.Notify(AuditorResultAssignedEvent, common.HashItem(auditHash), common.AccountItem(auditor))
		ctx.Notify(RequestFinishedEvent,
			common.AccountItem(executor),
			common.AccountItem(auditor),
			common.HashItem(auditHash),
		)
		ctx.Log("request finished", common.HashField("result", auditHash))

		return nil
	})
}

// State returns current state of the request.
func (c *Contract) State() (State, error) {
	var res State
	err := c.chain.View(func(tx *chain.Tx) (err error) {
		res, err = getState(tx.Storage(c.hash))
		return
	})
	return res, err
}

// Info returns the request data.
func (c *Contract) Info() (Info, error) {
	var res Info
	err := c.chain.View(func(tx *chain.Tx) (err error) {
		res, err = getInfo(tx.Storage(c.hash))
		return
	})
	return res, err
}

// Outcome returns the request outcome as seen by the Reputation contract.
func (c *Contract) Outcome() (reputation.Outcome, error) {
	var res reputation.Outcome
	err := c.chain.View(func(tx *chain.Tx) (err error) {
		res, err = outcome(tx.Storage(c.hash))
		return
	})
	return res, err
}

// Version returns the version the request was deployed with.
func (c *Contract) Version() (int64, error) {
	var res int64
	err := c.chain.View(func(tx *chain.Tx) (err error) {
		res, err = common.GetVersion(tx.Storage(c.hash))
		return
	})
	return res, err
}

func (c *Contract) checkAdmin(tx *chain.Tx, caller util.Uint160) error {
	ok, err := c.roles.IsAdminIn(tx, caller)
	return common.CheckWitness(ok, err, common.ErrAdminOnly)
}

func (c *Contract) checkSeller(tx *chain.Tx, account util.Uint160, msg string) error {
	ok, err := c.roles.HasRoleIn(tx, roles.Seller, account)
	if err != nil {
		return err
	}
	if !ok {
		return common.InvalidReference(msg)
	}
	return nil
}

// Outcomes provides request outcomes to the Reputation contract.
type Outcomes struct{}

// OutcomeIn implements reputation.Outcomes.
func (Outcomes) OutcomeIn(tx *chain.Tx, ledger, request util.Uint160) (reputation.Outcome, error) {
	ctx := tx.Storage(request)
	if err := checkRequest(ctx); err != nil {
		return reputation.Outcome{}, err
	}

	ref, _, err := common.GetUint160(ctx, []byte(reputationKey))
	if err != nil {
		return reputation.Outcome{}, err
	}
	if !ref.Equals(ledger) {
		return reputation.Outcome{}, common.InvalidReference(ErrAnotherLedger)
	}

	return outcome(ctx)
}

func outcome(ctx chain.Context) (reputation.Outcome, error) {
	var res reputation.Outcome

	if err := checkRequest(ctx); err != nil {
		return res, err
	}

	st, err := getState(ctx)
	if err != nil {
		return res, err
	}

	res.Executor, _, err = common.GetUint160(ctx, []byte(executorKey))
	if err != nil {
		return res, err
	}

	switch st {
	case StateFinished:
		res.Verdict = reputation.Correct
	case StateFaulty:
		res.Verdict = reputation.Faulty
	default:
		res.Verdict = reputation.Pending
	}

	return res, nil
}

// checkRequest checks that there is a request at the context address.
func checkRequest(ctx chain.Context) error {
	if ctx.Get([]byte(idKey)) == nil {
		return common.InvalidReference(ErrUnknownRequest)
	}
	return common.CheckDeployed(ctx)
}

func checkState(ctx chain.Context, want State) error {
	st, err := getState(ctx)
	if err != nil {
		return err
	}
	if st != want {
		return common.InvalidStateTransition(fmt.Sprintf("request is %s, expected %s", st, want))
	}
	return nil
}

func setOnce(ctx chain.Context, key string, value []byte) error {
	if ctx.Get([]byte(key)) != nil {
		return common.InvalidStateTransition(key + " is already set")
	}
	ctx.Put([]byte(key), value)
	return nil
}

func getState(ctx chain.Context) (State, error) {
	raw := ctx.Get([]byte(stateKey))
	if raw == nil {
		return 0, common.InvalidReference(ErrUnknownRequest)
	}

	if len(raw) != 1 || State(raw[0]) > StateFinished {
		return 0, fmt.Errorf("invalid stored state %x", raw)
	}

	return State(raw[0]), nil
}

func putState(ctx chain.Context, st State) {
	ctx.Put([]byte(stateKey), []byte{byte(st)})
}

func getInfo(ctx chain.Context) (Info, error) {
	var (
		res Info
		err error
	)

	if err = checkRequest(ctx); err != nil {
		return res, err
	}

	res.Address = ctx.Contract()

	if res.ID, err = uuid.FromBytes(ctx.Get([]byte(idKey))); err != nil {
		return res, fmt.Errorf("decode request id: %w", err)
	}
	if res.State, err = getState(ctx); err != nil {
		return res, err
	}

	for _, f := range []struct {
		key string
		dst *util.Uint160
	}{
		{buyerKey, &res.Buyer},
		{rolesKey, &res.Roles},
		{reputationKey, &res.Reputation},
		{executorKey, &res.Executor},
		{auditorKey, &res.Auditor},
	} {
		if *f.dst, _, err = common.GetUint160(ctx, []byte(f.key)); err != nil {
			return res, err
		}
	}

	for _, f := range []struct {
		key string
		dst *util.Uint256
	}{
		{commandKey, &res.CommandHash},
		{resultKey, &res.ResultHash},
		{auditKey, &res.AuditHash},
	} {
		if *f.dst, _, err = common.GetUint256(ctx, []byte(f.key)); err != nil {
			return res, err
		}
	}

	return res, nil
}
