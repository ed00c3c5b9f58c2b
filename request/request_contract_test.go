package request

import (
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/trustflow-contract/chain"
	"github.com/nspcc-dev/trustflow-contract/common"
	"github.com/nspcc-dev/trustflow-contract/eventlog"
	"github.com/nspcc-dev/trustflow-contract/reputation"
	"github.com/nspcc-dev/trustflow-contract/roles"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type env struct {
	chain *chain.Chain
	roles *roles.Contract
	rep   *reputation.Contract

	owner, buyer, seller, auditor, stranger util.Uint160
}

func newAccount(name string) util.Uint160 {
	return hash.Hash160([]byte(name))
}

func newEnv(t *testing.T, strict bool) *env {
	e := &env{
		chain:    chain.NewMemory(zaptest.NewLogger(t)),
		owner:    newAccount("owner"),
		buyer:    newAccount("buyer"),
		seller:   newAccount("seller"),
		auditor:  newAccount("auditor"),
		stranger: newAccount("stranger"),
	}

	var err error
	e.roles, err = roles.Deploy(e.chain, e.owner)
	require.NoError(t, err)

	require.NoError(t, e.roles.GrantRole(e.owner, roles.Buyer, e.buyer))
	require.NoError(t, e.roles.GrantRole(e.owner, roles.Seller, e.seller))
	require.NoError(t, e.roles.GrantRole(e.owner, roles.Seller, e.auditor))

	prm := reputation.Prm{Roles: e.roles}
	if strict {
		prm.Outcomes = Outcomes{}
	}

	e.rep, err = reputation.Deploy(e.chain, e.owner, prm)
	require.NoError(t, err)

	return e
}

func (e *env) newRequest(t *testing.T) *Contract {
	r, err := Deploy(e.chain, e.buyer, hash.Sha256([]byte("print(42)")), e.roles, e.rep.Hash())
	require.NoError(t, err)
	return r
}

// newAudited returns request waiting for the executor's result.
func (e *env) newAudited(t *testing.T) *Contract {
	r := e.newRequest(t)
	require.NoError(t, r.AppointExecutor(e.owner, e.seller))
	require.NoError(t, r.AppointAuditor(e.owner, e.auditor))
	return r
}

func (e *env) records(t *testing.T) []eventlog.Record {
	rs, err := e.chain.Events().Records()
	require.NoError(t, err)
	return rs
}

func requireState(t *testing.T, r *Contract, expected State) {
	st, err := r.State()
	require.NoError(t, err)
	require.Equal(t, expected, st)
}

func TestRequest_Deploy(t *testing.T) {
	e := newEnv(t, false)
	command := hash.Sha256([]byte("print(42)"))

	t.Run("non-buyer", func(t *testing.T) {
		before := len(e.records(t))

		_, err := Deploy(e.chain, e.seller, command, e.roles, e.rep.Hash())
		require.ErrorIs(t, err, common.ErrUnauthorized)
		require.EqualError(t, err, "buyer only")

		require.Len(t, e.records(t), before)
	})

	t.Run("missing reputation", func(t *testing.T) {
		_, err := Deploy(e.chain, e.buyer, command, e.roles, util.Uint160{})
		require.ErrorIs(t, err, common.ErrInvalidReference)
	})

	r := e.newRequest(t)
	requireState(t, r, StateCreated)

	info, err := r.Info()
	require.NoError(t, err)
	require.Equal(t, r.Hash(), info.Address)
	require.Equal(t, Address(e.buyer, info.ID), info.Address)
	require.Equal(t, e.buyer, info.Buyer)
	require.Equal(t, command, info.CommandHash)
	require.Equal(t, e.roles.Hash(), info.Roles)
	require.Equal(t, e.rep.Hash(), info.Reputation)
	require.Equal(t, util.Uint160{}, info.Executor)
	require.Equal(t, util.Uint256{}, info.ResultHash)

	created, err := RequestCreatedEventsFromLog(e.records(t), r.Hash())
	require.NoError(t, err)
	require.Equal(t, []*RequestCreated{{Buyer: e.buyer, CommandHash: command}}, created)

	require.NotEqual(t, r.Hash(), e.newRequest(t).Hash())

	opened, err := Open(e.chain, r.Hash(), e.roles)
	require.NoError(t, err)
	require.Equal(t, r.Hash(), opened.Hash())

	_, err = Open(e.chain, e.roles.Hash(), e.roles)
	require.ErrorIs(t, err, common.ErrInvalidReference)
	require.EqualError(t, err, "unknown request")

	v, err := r.Version()
	require.NoError(t, err)
	require.EqualValues(t, common.Version, v)
}

func TestRequest_AppointExecutor(t *testing.T) {
	e := newEnv(t, false)
	r := e.newRequest(t)

	err := r.AppointExecutor(e.stranger, e.seller)
	require.ErrorIs(t, err, common.ErrUnauthorized)
	require.EqualError(t, err, "admin only")

	err = r.AppointExecutor(e.owner, e.stranger)
	require.ErrorIs(t, err, common.ErrInvalidReference)
	require.EqualError(t, err, "executor must be seller")

	requireState(t, r, StateCreated)

	require.NoError(t, r.AppointExecutor(e.owner, e.seller))
	requireState(t, r, StateExecutorAssigned)

	evs, err := ExecutorAssignedEventsFromLog(e.records(t), r.Hash())
	require.NoError(t, err)
	require.Equal(t, []*ExecutorAssigned{{Executor: e.seller}}, evs)

	t.Run("set once", func(t *testing.T) {
		err := r.AppointExecutor(e.owner, e.auditor)
		require.ErrorIs(t, err, common.ErrInvalidStateTransition)

		info, err := r.Info()
		require.NoError(t, err)
		require.Equal(t, e.seller, info.Executor)
	})
}

func TestRequest_AppointAuditor(t *testing.T) {
	e := newEnv(t, false)
	r := e.newRequest(t)

	err := r.AppointAuditor(e.owner, e.auditor)
	require.ErrorIs(t, err, common.ErrInvalidStateTransition)

	require.NoError(t, r.AppointExecutor(e.owner, e.seller))

	err = r.AppointAuditor(e.buyer, e.auditor)
	require.EqualError(t, err, "admin only")

	err = r.AppointAuditor(e.owner, e.stranger)
	require.ErrorIs(t, err, common.ErrInvalidReference)
	require.EqualError(t, err, "auditor must be seller")

	err = r.AppointAuditor(e.owner, e.seller)
	require.ErrorIs(t, err, common.ErrInvalidReference)
	require.EqualError(t, err, "auditor must differ from executor")

	requireState(t, r, StateExecutorAssigned)

	require.NoError(t, r.AppointAuditor(e.owner, e.auditor))
	requireState(t, r, StateAuditorAssigned)

	evs, err := AuditorAssignedEventsFromLog(e.records(t), r.Hash())
	require.NoError(t, err)
	require.Equal(t, []*AuditorAssigned{{Auditor: e.auditor}}, evs)

	err = r.AppointAuditor(e.owner, e.auditor)
	require.ErrorIs(t, err, common.ErrInvalidStateTransition)
}

func TestRequest_DelegatedAdmin(t *testing.T) {
	e := newEnv(t, false)
	admin := newAccount("admin")

	require.NoError(t, e.roles.GrantRole(e.owner, roles.Admin, admin))

	r := e.newRequest(t)
	require.NoError(t, r.AppointExecutor(admin, e.seller))
	require.NoError(t, r.AppointAuditor(admin, e.auditor))
}

func TestRequest_AssignResult(t *testing.T) {
	e := newEnv(t, false)
	result := hash.Sha256([]byte("result"))

	t.Run("before auditor", func(t *testing.T) {
		r := e.newRequest(t)
		require.NoError(t, r.AppointExecutor(e.owner, e.seller))

		for _, caller := range []util.Uint160{e.seller, e.auditor, e.owner, e.stranger} {
			err := r.AssignResult(caller, result)
			require.ErrorIs(t, err, common.ErrInvalidStateTransition)
		}
		requireState(t, r, StateExecutorAssigned)
	})

	r := e.newAudited(t)

	for _, caller := range []util.Uint160{e.auditor, e.owner, e.buyer} {
		err := r.AssignResult(caller, result)
		require.ErrorIs(t, err, common.ErrUnauthorized)
		require.EqualError(t, err, "executor only")
	}

	require.NoError(t, r.AssignResult(e.seller, result))
	requireState(t, r, StateResultSubmitted)

	evs, err := ResultAssignedEventsFromLog(e.records(t), r.Hash())
	require.NoError(t, err)
	require.Equal(t, []*ResultAssigned{{ResultHash: result, Submitter: e.seller}}, evs)

	err = r.AssignResult(e.seller, hash.Sha256([]byte("other")))
	require.ErrorIs(t, err, common.ErrInvalidStateTransition)

	info, err := r.Info()
	require.NoError(t, err)
	require.Equal(t, result, info.ResultHash)
}

func TestRequest_AssignAuditResult(t *testing.T) {
	e := newEnv(t, false)
	result := hash.Sha256([]byte("correct_result"))

	t.Run("before result", func(t *testing.T) {
		r := e.newAudited(t)
		err := r.AssignAuditResult(e.auditor, result)
		require.ErrorIs(t, err, common.ErrInvalidStateTransition)
	})

	t.Run("wrong caller", func(t *testing.T) {
		r := e.newAudited(t)
		require.NoError(t, r.AssignResult(e.seller, result))

		err := r.AssignAuditResult(e.seller, result)
		require.ErrorIs(t, err, common.ErrUnauthorized)
		require.EqualError(t, err, "auditor only")
		requireState(t, r, StateResultSubmitted)
	})

	t.Run("match", func(t *testing.T) {
		r := e.newAudited(t)
		require.NoError(t, r.AssignResult(e.seller, result))
		require.NoError(t, r.AssignAuditResult(e.auditor, result))
		requireState(t, r, StateFinished)

		rs := e.records(t)

		faulty, err := FaultyCalculationDetectedEventsFromLog(rs, r.Hash())
		require.NoError(t, err)
		require.Empty(t, faulty)

		last := rs[len(rs)-2:]
		require.Equal(t, AuditorResultAssignedEvent, last[0].Event.Name)
		require.Equal(t, RequestFinishedEvent, last[1].Event.Name)

		err = r.AssignAuditResult(e.auditor, result)
		require.ErrorIs(t, err, common.ErrInvalidStateTransition)
	})

	t.Run("mismatch", func(t *testing.T) {
		r := e.newAudited(t)
		wrong := hash.Sha256([]byte("wrong_result"))

		require.NoError(t, r.AssignResult(e.seller, wrong))
		require.NoError(t, r.AssignAuditResult(e.auditor, result))
		requireState(t, r, StateFaulty)
		require.True(t, StateFaulty.IsTerminal())

		rs := e.records(t)

		finished, err := RequestFinishedEventsFromLog(rs, r.Hash())
		require.NoError(t, err)
		require.Empty(t, finished)

		info, err := r.Info()
		require.NoError(t, err)
		require.Equal(t, wrong, info.ResultHash)
		require.Equal(t, result, info.AuditHash)

		err = r.AssignAuditResult(e.auditor, wrong)
		require.ErrorIs(t, err, common.ErrInvalidStateTransition)
	})
}

func TestScenarioFaulty(t *testing.T) {
	for _, strict := range []bool{false, true} {
		e := newEnv(t, strict)
		r := e.newRequest(t)

		wrong := hash.Sha256([]byte("wrong_result"))
		correct := hash.Sha256([]byte("correct_result"))

		require.NoError(t, r.AppointExecutor(e.owner, e.seller))
		require.NoError(t, r.AppointAuditor(e.owner, e.auditor))
		require.NoError(t, r.AssignResult(e.seller, wrong))
		require.NoError(t, r.AssignAuditResult(e.auditor, correct))

		rs := e.records(t)

		executors, err := ExecutorAssignedEventsFromLog(rs, r.Hash())
		require.NoError(t, err)
		require.Equal(t, []*ExecutorAssigned{{Executor: e.seller}}, executors)

		auditors, err := AuditorAssignedEventsFromLog(rs, r.Hash())
		require.NoError(t, err)
		require.Equal(t, []*AuditorAssigned{{Auditor: e.auditor}}, auditors)

		faulty, err := FaultyCalculationDetectedEventsFromLog(rs, r.Hash())
		require.NoError(t, err)
		require.Equal(t, []*FaultyCalculationDetected{{
			Auditor:       e.auditor,
			Executor:      e.seller,
			SubmittedHash: wrong,
			AuditHash:     correct,
		}}, faulty)

		out, err := r.Outcome()
		require.NoError(t, err)
		require.Equal(t, reputation.Outcome{Executor: e.seller, Verdict: reputation.Faulty}, out)

		require.NoError(t, e.rep.Penalize(e.owner, e.seller, r.Hash()))

		score, err := e.rep.ReputationOf(e.seller)
		require.NoError(t, err)
		require.EqualValues(t, -1, score.Int64())

		require.NoError(t, eventlog.Verify(e.records(t)))
	}
}

func TestScenarioFinished(t *testing.T) {
	for _, strict := range []bool{false, true} {
		e := newEnv(t, strict)
		r := e.newRequest(t)

		correct := hash.Sha256([]byte("correct_result"))

		require.NoError(t, r.AppointExecutor(e.owner, e.seller))
		require.NoError(t, r.AppointAuditor(e.owner, e.auditor))
		require.NoError(t, r.AssignResult(e.seller, correct))
		require.NoError(t, r.AssignAuditResult(e.auditor, correct))

		rs := e.records(t)

		assigned, err := AuditorResultAssignedEventsFromLog(rs, r.Hash())
		require.NoError(t, err)
		require.Equal(t, []*AuditorResultAssigned{{ResultHash: correct, Auditor: e.auditor}}, assigned)

		finished, err := RequestFinishedEventsFromLog(rs, r.Hash())
		require.NoError(t, err)
		require.Equal(t, []*RequestFinished{{Executor: e.seller, Auditor: e.auditor, ResultHash: correct}}, finished)

		require.NoError(t, e.rep.Award(e.owner, e.seller, r.Hash()))

		score, err := e.rep.ReputationOf(e.seller)
		require.NoError(t, err)
		require.EqualValues(t, 1, score.Int64())

		require.NoError(t, e.rep.Reconcile(e.seller))
	}
}

func TestStrictReferences(t *testing.T) {
	e := newEnv(t, true)
	correct := hash.Sha256([]byte("correct_result"))

	r := e.newAudited(t)

	err := e.rep.Award(e.buyer, e.seller, r.Hash())
	require.ErrorIs(t, err, common.ErrInvalidReference)

	err = e.rep.Award(e.buyer, e.seller, e.roles.Hash())
	require.ErrorIs(t, err, common.ErrInvalidReference)
	require.EqualError(t, err, "unknown request")

	require.NoError(t, r.AssignResult(e.seller, correct))
	require.NoError(t, r.AssignAuditResult(e.auditor, correct))

	require.ErrorIs(t, e.rep.Penalize(e.owner, e.seller, r.Hash()), common.ErrInvalidReference)
	require.ErrorIs(t, e.rep.Award(e.buyer, e.auditor, r.Hash()), common.ErrInvalidReference)

	require.NoError(t, e.rep.Award(e.buyer, e.seller, r.Hash()))
	require.ErrorIs(t, e.rep.Award(e.buyer, e.seller, r.Hash()), common.ErrInvalidStateTransition)

	score, err := e.rep.ReputationOf(e.seller)
	require.NoError(t, err)
	require.EqualValues(t, 1, score.Int64())
}

func TestStrictReferences_AnotherLedger(t *testing.T) {
	e := newEnv(t, true)
	correct := hash.Sha256([]byte("correct_result"))

	other, err := reputation.Deploy(e.chain, newAccount("other-admin"), reputation.Prm{Roles: e.roles, Outcomes: Outcomes{}})
	require.NoError(t, err)

	r := e.newAudited(t)
	require.NoError(t, r.AssignResult(e.seller, correct))
	require.NoError(t, r.AssignAuditResult(e.auditor, correct))

	err = other.Award(e.buyer, e.seller, r.Hash())
	require.ErrorIs(t, err, common.ErrInvalidReference)
	require.EqualError(t, err, ErrAnotherLedger)

	score, err := other.ReputationOf(e.seller)
	require.NoError(t, err)
	require.Zero(t, score.Sign())

	require.NoError(t, e.rep.Award(e.buyer, e.seller, r.Hash()))
}

func TestState(t *testing.T) {
	require.Equal(t, "ResultSubmitted", StateResultSubmitted.String())
	require.False(t, StateResultSubmitted.IsTerminal())
	require.True(t, StateFinished.IsTerminal())
}
