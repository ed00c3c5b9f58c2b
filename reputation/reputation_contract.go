package reputation

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/trustflow-contract/chain"
	"github.com/nspcc-dev/trustflow-contract/common"
	"github.com/nspcc-dev/trustflow-contract/roles"
	"go.uber.org/zap"
)

// ContractName is used to derive the contract address from the deployer.
const ContractName = "Reputation"

// ReputationChangedEvent is a name of the notification produced on every
// score change.
const ReputationChangedEvent = "ReputationChanged"

const (
	rolesKey          = "roles"
	strictKey         = "strict"
	scorePrefix       = 's'
	totalKey          = 'n'
	recordPrefix      = 'h'
	subjectCntPrefix  = 'c'
	subjectIdxPrefix  = 'i'
	appliedReqsPrefix = 'a'
)

// ErrInconsistentHistory is returned by Reconcile when the change records of
// the subject don't sum up to its score.
var ErrInconsistentHistory = errors.New("inconsistent reputation history")

// ErrReferenceModeMismatch is returned by Open when the contract is deployed
// with another request reference mode.
var ErrReferenceModeMismatch = errors.New("request reference mode mismatch")

// Roles is the role registry the contract authorizes callers with.
type Roles interface {
	Hash() util.Uint160
	HasRoleIn(tx *chain.Tx, role roles.Role, account util.Uint160) (bool, error)
	IsAdminIn(tx *chain.Tx, account util.Uint160) (bool, error)
}

// Verdict is a workflow outcome of the request.
type Verdict byte

// Request verdicts.
const (
	// Pending means that the request is not resolved yet.
	Pending Verdict = iota
	// Correct means that the executor's result is confirmed by the auditor.
	Correct
	// Faulty means that the auditor disagreed with the executor's result.
	Faulty
)

// Outcome is a workflow outcome of the particular request.
type Outcome struct {
	Executor util.Uint160
	Verdict  Verdict
}

// Outcomes provides outcomes of the requests by their addresses.
type Outcomes interface {
	// OutcomeIn returns the outcome of the request within the given
	// transaction. It returns ErrInvalidReference error if there is no
	// request at the given address or the request is bound to a ledger
	// other than the given one.
	OutcomeIn(tx *chain.Tx, ledger, request util.Uint160) (Outcome, error)
}

// Prm groups Reputation contract dependencies.
type Prm struct {
	// Role registry, required.
	Roles Roles

	// Optional source of request outcomes. If set, request references of
	// award and penalize operations are enforced.
	Outcomes Outcomes
}

// Contract is a deployed Reputation contract.
type Contract struct {
	chain    *chain.Chain
	hash     util.Uint160
	roles    Roles
	outcomes Outcomes
}

// Deploy deploys new Reputation contract on behalf of the deployer.
func Deploy(ch *chain.Chain, deployer util.Uint160, prm Prm) (*Contract, error) {
	if prm.Roles == nil {
		return nil, errors.New("missing role registry")
	}

	h := common.ContractHash(deployer, ContractName)

	err := ch.Invoke(func(tx *chain.Tx) error {
		ctx := tx.Storage(h)
		if ctx.Get([]byte(common.VersionKey)) != nil {
			return fmt.Errorf("%w at %s", common.ErrAlreadyDeployed, h.StringLE())
		}

		common.PutVersion(ctx)
		ctx.Put([]byte(rolesKey), prm.Roles.Hash().BytesBE())
		if prm.Outcomes != nil {
			ctx.Put([]byte(strictKey), []byte{1})
		}

		ctx.Log("reputation contract initialized", zap.Bool("strict references", prm.Outcomes != nil))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return newContract(ch, h, prm), nil
}

// Open returns Reputation contract deployed at the given address. The
// contract must be deployed with the same role registry, and prm.Outcomes
// must be set if and only if the contract enforces request references.
func Open(ch *chain.Chain, h util.Uint160, prm Prm) (*Contract, error) {
	if prm.Roles == nil {
		return nil, errors.New("missing role registry")
	}

	err := ch.View(func(tx *chain.Tx) error {
		ctx := tx.Storage(h)
		if err := common.CheckDeployed(ctx); err != nil {
			return err
		}

		stored, _, err := common.GetUint160(ctx, []byte(rolesKey))
		if err != nil {
			return err
		}

		if !stored.Equals(prm.Roles.Hash()) {
			return fmt.Errorf("contract is bound to role registry %s, not %s", stored.StringLE(), prm.Roles.Hash().StringLE())
		}

		strict := ctx.Get([]byte(strictKey)) != nil
		if strict != (prm.Outcomes != nil) {
			return fmt.Errorf("%w: contract strict references %t, requested %t", ErrReferenceModeMismatch, strict, prm.Outcomes != nil)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return newContract(ch, h, prm), nil
}

func newContract(ch *chain.Chain, h util.Uint160, prm Prm) *Contract {
	return &Contract{
		chain:    ch,
		hash:     h,
		roles:    prm.Roles,
		outcomes: prm.Outcomes,
	}
}

// Hash returns the contract address.
func (c *Contract) Hash() util.Uint160 {
	return c.hash
}

// Award increases reputation of the subject by one for the referenced
// request. Caller must be a buyer or the registry administrator.
func (c *Contract) Award(caller, subject, request util.Uint160) error {
	return c.chain.Invoke(func(tx *chain.Tx) error {
		ok, err := c.roles.HasRoleIn(tx, roles.Buyer, caller)
		if err == nil && !ok {
			ok, err = c.roles.IsAdminIn(tx, caller)
		}
		if err := common.CheckWitness(ok, err, common.ErrBuyerOnly); err != nil {
			return err
		}

		if err := c.checkReference(tx, subject, request, Correct); err != nil {
			return err
		}

		return c.apply(tx, caller, subject, request, big.NewInt(1))
	})
}

// Penalize decreases reputation of the subject by one for the referenced
// request. Caller must be the registry administrator.
func (c *Contract) Penalize(caller, subject, request util.Uint160) error {
	return c.chain.Invoke(func(tx *chain.Tx) error {
		if err := c.checkAdmin(tx, caller); err != nil {
			return err
		}

		if err := c.checkReference(tx, subject, request, Faulty); err != nil {
			return err
		}

		return c.apply(tx, caller, subject, request, big.NewInt(-1))
	})
}

// SetScore sets reputation of the subject directly. The change is recorded
// with the delta reconciling the old and the new values. Caller must be the
// registry administrator.
func (c *Contract) SetScore(caller, subject util.Uint160, value *big.Int) error {
	if value == nil {
		return common.InvalidReference("missing score value")
	}

	return c.chain.Invoke(func(tx *chain.Tx) error {
		if err := c.checkAdmin(tx, caller); err != nil {
			return err
		}

		old := common.GetInt(tx.Storage(c.hash), scoreKey(subject))

		return c.apply(tx, caller, subject, util.Uint160{}, new(big.Int).Sub(value, old))
	})
}

// ReputationOf returns current reputation of the subject.
func (c *Contract) ReputationOf(subject util.Uint160) (*big.Int, error) {
	var res *big.Int
	err := c.chain.View(func(tx *chain.Tx) error {
		res = common.GetInt(tx.Storage(c.hash), scoreKey(subject))
		return nil
	})
	return res, err
}

// History returns change records of the subject in order of application.
func (c *Contract) History(subject util.Uint160) ([]Change, error) {
	var res []Change
	err := c.chain.View(func(tx *chain.Tx) (err error) {
		res, err = history(tx.Storage(c.hash), subject)
		return
	})
	return res, err
}

// Records returns at most limit change records of all subjects starting
// from the given index. Non-positive limit means no limit.
func (c *Contract) Records(from uint64, limit int) ([]Change, error) {
	var res []Change
	err := c.chain.View(func(tx *chain.Tx) error {
		ctx := tx.Storage(c.hash)
		total := common.GetInt(ctx, []byte{totalKey}).Uint64()

		for i := from; i < total; i++ {
			if limit > 0 && len(res) >= limit {
				break
			}

			ch, err := getChange(ctx, i)
			if err != nil {
				return err
			}

			res = append(res, ch)
		}

		return nil
	})
	return res, err
}

// Reconcile checks that change records of the subject folded from zero give
// its current score.
func (c *Contract) Reconcile(subject util.Uint160) error {
	return c.chain.View(func(tx *chain.Tx) error {
		ctx := tx.Storage(c.hash)

		changes, err := history(ctx, subject)
		if err != nil {
			return err
		}

		sum := new(big.Int)
		for i := range changes {
			sum.Add(sum, changes[i].Delta)
			if sum.Cmp(changes[i].Score) != 0 {
				return fmt.Errorf("%w: record #%d of %s results in %s, recorded %s",
					ErrInconsistentHistory, changes[i].Index, subject.StringLE(), sum, changes[i].Score)
			}
		}

		if score := common.GetInt(ctx, scoreKey(subject)); score.Cmp(sum) != 0 {
			return fmt.Errorf("%w: records of %s sum up to %s, score is %s",
				ErrInconsistentHistory, subject.StringLE(), sum, score)
		}

		return nil
	})
}

// Version returns the version the contract was deployed with.
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

// checkReference checks that the request outcome allows the change and marks
// the outcome as applied. Does nothing if references are advisory.
func (c *Contract) checkReference(tx *chain.Tx, subject, request util.Uint160, want Verdict) error {
	if c.outcomes == nil {
		return nil
	}

	out, err := c.outcomes.OutcomeIn(tx, c.hash, request)
	if err != nil {
		return err
	}

	if out.Verdict != want {
		if want == Correct {
			return common.InvalidReference("request is not finished")
		}
		return common.InvalidReference("request is not faulty")
	}

	if !out.Executor.Equals(subject) {
		return common.InvalidReference("subject is not the request executor")
	}

	ctx := tx.Storage(c.hash)
	key := append([]byte{appliedReqsPrefix}, request.BytesBE()...)

	if ctx.Get(key) != nil {
		return common.InvalidStateTransition("request outcome is already applied")
	}

	ctx.Put(key, []byte{1})
	return nil
}

func (c *Contract) apply(tx *chain.Tx, actor, subject, request util.Uint160, delta *big.Int) error {
	ctx := tx.Storage(c.hash)

	score := new(big.Int).Add(common.GetInt(ctx, scoreKey(subject)), delta)
	total := common.GetInt(ctx, []byte{totalKey}).Uint64()

	ch := Change{
		Index:   total,
		Subject: subject,
		Actor:   actor,
		Request: request,
		Delta:   delta,
		Score:   score,
	}

	item, err := ch.ToStackItem()
	if err != nil {
		return err
	}

	if err := common.SetSerialized(ctx, recordKey(total), item); err != nil {
		return err
	}

	cntKey := subjectCountKey(subject)
	local := common.GetInt(ctx, cntKey).Uint64()

	ctx.Put(subjectIndexKey(subject, local), indexBytes(total))
	common.PutInt(ctx, cntKey, new(big.Int).SetUint64(local+1))
	common.PutInt(ctx, []byte{totalKey}, new(big.Int).SetUint64(total+1))
	common.PutInt(ctx, scoreKey(subject), score)

	ctx.Notify(ReputationChangedEvent,
		common.AccountItem(subject),
		common.AccountItem(actor),
		common.AccountItem(request),
		common.IntItem(delta),
		common.IntItem(score),
	)
	ctx.Log("reputation changed",
		common.AccountField("subject", subject),
		common.AccountField("actor", actor),
		zap.Stringer("delta", delta),
		zap.Stringer("score", score),
	)

	return nil
}

func history(ctx chain.Context, subject util.Uint160) ([]Change, error) {
	cnt := common.GetInt(ctx, subjectCountKey(subject)).Uint64()
	res := make([]Change, 0, cnt)

	for i := uint64(0); i < cnt; i++ {
		raw := ctx.Get(subjectIndexKey(subject, i))
		if len(raw) != 8 {
			return nil, fmt.Errorf("invalid index of record #%d of %s", i, subject.StringLE())
		}

		ch, err := getChange(ctx, binary.BigEndian.Uint64(raw))
		if err != nil {
			return nil, err
		}

		res = append(res, ch)
	}

	return res, nil
}

func getChange(ctx chain.Context, index uint64) (Change, error) {
	var ch Change

	item, err := common.GetSerialized(ctx, recordKey(index))
	if err != nil {
		return ch, err
	}
	if item == nil {
		return ch, fmt.Errorf("missing change record #%d", index)
	}

	if err := ch.FromStackItem(item); err != nil {
		return ch, fmt.Errorf("decode change record #%d: %w", index, err)
	}

	return ch, nil
}

func indexBytes(i uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, i)
	return b
}

func scoreKey(subject util.Uint160) []byte {
	return append([]byte{scorePrefix}, subject.BytesBE()...)
}

func recordKey(index uint64) []byte {
	return append([]byte{recordPrefix}, indexBytes(index)...)
}

func subjectCountKey(subject util.Uint160) []byte {
	return append([]byte{subjectCntPrefix}, subject.BytesBE()...)
}

func subjectIndexKey(subject util.Uint160, i uint64) []byte {
	key := append([]byte{subjectIdxPrefix}, subject.BytesBE()...)
	return append(key, indexBytes(i)...)
}
