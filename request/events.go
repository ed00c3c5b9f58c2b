package request

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/trustflow-contract/common"
	"github.com/nspcc-dev/trustflow-contract/eventlog"
)

// RequestCreated represents "RequestCreated" event emitted by the contract.
type RequestCreated struct {
	Buyer       util.Uint160
	CommandHash util.Uint256
}

// ExecutorAssigned represents "ExecutorAssigned" event emitted by the
// contract.
type ExecutorAssigned struct {
	Executor util.Uint160
}

// AuditorAssigned represents "AuditorAssigned" event emitted by the contract.
type AuditorAssigned struct {
	Auditor util.Uint160
}

// ResultAssigned represents "ResultAssigned" event emitted by the contract.
type ResultAssigned struct {
	ResultHash util.Uint256
	Submitter  util.Uint160
}

// FaultyCalculationDetected represents "FaultyCalculationDetected" event
// emitted by the contract.
type FaultyCalculationDetected struct {
	Auditor       util.Uint160
	Executor      util.Uint160
	SubmittedHash util.Uint256
	AuditHash     util.Uint256
}

// AuditorResultAssigned represents "AuditorResultAssigned" event emitted by
// the contract.
type AuditorResultAssigned struct {
	ResultHash util.Uint256
	Auditor    util.Uint160
}

// RequestFinished represents "RequestFinished" event emitted by the contract.
type RequestFinished struct {
	Executor   util.Uint160
	Auditor    util.Uint160
	ResultHash util.Uint256
}

// RequestCreatedEventsFromLog retrieves a set of all emitted events with
// "RequestCreated" name from the provided records.
func RequestCreatedEventsFromLog(records []eventlog.Record, contract util.Uint160) ([]*RequestCreated, error) {
	return eventlog.Decode[RequestCreated](records, contract, RequestCreatedEvent)
}

// ExecutorAssignedEventsFromLog retrieves a set of all emitted events with
// "ExecutorAssigned" name from the provided records.
func ExecutorAssignedEventsFromLog(records []eventlog.Record, contract util.Uint160) ([]*ExecutorAssigned, error) {
	return eventlog.Decode[ExecutorAssigned](records, contract, ExecutorAssignedEvent)
}

// AuditorAssignedEventsFromLog retrieves a set of all emitted events with
// "AuditorAssigned" name from the provided records.
func AuditorAssignedEventsFromLog(records []eventlog.Record, contract util.Uint160) ([]*AuditorAssigned, error) {
	return eventlog.Decode[AuditorAssigned](records, contract, AuditorAssignedEvent)
}

// ResultAssignedEventsFromLog retrieves a set of all emitted events with
// "ResultAssigned" name from the provided records.
func ResultAssignedEventsFromLog(records []eventlog.Record, contract util.Uint160) ([]*ResultAssigned, error) {
	return eventlog.Decode[ResultAssigned](records, contract, ResultAssignedEvent)
}

// FaultyCalculationDetectedEventsFromLog retrieves a set of all emitted events
// with "FaultyCalculationDetected" name from the provided records.
func FaultyCalculationDetectedEventsFromLog(records []eventlog.Record, contract util.Uint160) ([]*FaultyCalculationDetected, error) {
	return eventlog.Decode[FaultyCalculationDetected](records, contract, FaultyCalculationDetectedEvent)
}

// AuditorResultAssignedEventsFromLog retrieves a set of all emitted events
// with "AuditorResultAssigned" name from the provided records.
func AuditorResultAssignedEventsFromLog(records []eventlog.Record, contract util.Uint160) ([]*AuditorResultAssigned, error) {
	return eventlog.Decode[AuditorResultAssigned](records, contract, AuditorResultAssignedEvent)
}

// RequestFinishedEventsFromLog retrieves a set of all emitted events with
// "RequestFinished" name from the provided records.
func RequestFinishedEventsFromLog(records []eventlog.Record, contract util.Uint160) ([]*RequestFinished, error) {
	return eventlog.Decode[RequestFinished](records, contract, RequestFinishedEvent)
}

// FromStackItem converts provided [stackitem.Array] to RequestCreated or
// returns an error if it's not possible to do to so.
func (e *RequestCreated) FromStackItem(item *stackitem.Array) error {
	arr, err := fields(item, 2)
	if err != nil {
		return err
	}

	if e.Buyer, err = common.AccountFromItem(arr[0]); err != nil {
		return fmt.Errorf("field Buyer: %w", err)
	}
	if e.CommandHash, err = common.HashFromItem(arr[1]); err != nil {
		return fmt.Errorf("field CommandHash: %w", err)
	}
	return nil
}

// FromStackItem converts provided [stackitem.Array] to ExecutorAssigned or
// returns an error if it's not possible to do to so.
func (e *ExecutorAssigned) FromStackItem(item *stackitem.Array) error {
	arr, err := fields(item, 1)
	if err != nil {
		return err
	}

	if e.Executor, err = common.AccountFromItem(arr[0]); err != nil {
		return fmt.Errorf("field Executor: %w", err)
	}
	return nil
}

// FromStackItem converts provided [stackitem.Array] to AuditorAssigned or
// returns an error if it's not possible to do to so.
func (e *AuditorAssigned) FromStackItem(item *stackitem.Array) error {
	arr, err := fields(item, 1)
	if err != nil {
		return err
	}

	if e.Auditor, err = common.AccountFromItem(arr[0]); err != nil {
		return fmt.Errorf("field Auditor: %w", err)
	}
	return nil
}

// FromStackItem converts provided [stackitem.Array] to ResultAssigned or
// returns an error if it's not possible to do to so.
func (e *ResultAssigned) FromStackItem(item *stackitem.Array) error {
	arr, err := fields(item, 2)
	if err != nil {
		return err
	}

	if e.ResultHash, err = common.HashFromItem(arr[0]); err != nil {
		return fmt.Errorf("field ResultHash: %w", err)
	}
	if e.Submitter, err = common.AccountFromItem(arr[1]); err != nil {
		return fmt.Errorf("field Submitter: %w", err)
	}
	return nil
}

// FromStackItem converts provided [stackitem.Array] to
// FaultyCalculationDetected or returns an error if it's not possible to do to
// so.
func (e *FaultyCalculationDetected) FromStackItem(item *stackitem.Array) error {
	arr, err := fields(item, 4)
	if err != nil {
		return err
	}

	if e.Auditor, err = common.AccountFromItem(arr[0]); err != nil {
		return fmt.Errorf("field Auditor: %w", err)
	}
	if e.Executor, err = common.AccountFromItem(arr[1]); err != nil {
		return fmt.Errorf("field Executor: %w", err)
	}
	if e.SubmittedHash, err = common.HashFromItem(arr[2]); err != nil {
		return fmt.Errorf("field SubmittedHash: %w", err)
	}
	if e.AuditHash, err = common.HashFromItem(arr[3]); err != nil {
		return fmt.Errorf("field AuditHash: %w", err)
	}
	return nil
}

// FromStackItem converts provided [stackitem.Array] to AuditorResultAssigned
// or returns an error if it's not possible to do to so.
func (e *AuditorResultAssigned) FromStackItem(item *stackitem.Array) error {
	arr, err := fields(item, 2)
	if err != nil {
		return err
	}

	if e.ResultHash, err = common.HashFromItem(arr[0]); err != nil {
		return fmt.Errorf("field ResultHash: %w", err)
	}
	if e.Auditor, err = common.AccountFromItem(arr[1]); err != nil {
		return fmt.Errorf("field Auditor: %w", err)
	}
	return nil
}

// FromStackItem converts provided [stackitem.Array] to RequestFinished or
// returns an error if it's not possible to do to so.
func (e *RequestFinished) FromStackItem(item *stackitem.Array) error {
	arr, err := fields(item, 3)
	if err != nil {
		return err
	}

	if e.Executor, err = common.AccountFromItem(arr[0]); err != nil {
		return fmt.Errorf("field Executor: %w", err)
	}
	if e.Auditor, err = common.AccountFromItem(arr[1]); err != nil {
		return fmt.Errorf("field Auditor: %w", err)
	}
	if e.ResultHash, err = common.HashFromItem(arr[2]); err != nil {
		return fmt.Errorf("field ResultHash: %w", err)
	}
	return nil
}

func fields(item *stackitem.Array, n int) ([]stackitem.Item, error) {
	if item == nil {
		return nil, errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return nil, errors.New("not an array")
	}
	if len(arr) != n {
		return nil, errors.New("wrong number of structure elements")
	}
	return arr, nil
}
