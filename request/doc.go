/*
Package request contains implementation of the Request contract
(RequestWorkflow).

Every commissioned task is a separate Request contract deployed by a buyer
with a fixed command hash. Its address is derived from the buyer and a
random identifier and is used as a request reference in the Reputation
contract. The request goes strictly forward through the states:

	Created -> ExecutorAssigned -> AuditorAssigned -> ResultSubmitted -> Faulty | Finished

Registry administrators appoint the executor and the auditor, both must hold
SELLER_ROLE and be different accounts. The executor submits the hash of its
result, then the auditor submits the hash of the independently produced one.
Equal hashes finish the request, different ones mark it as faulty. Neither
outcome touches reputation: it's up to the buyer or an administrator to
award or penalize the executor in the Reputation contract.

# Contract notifications

RequestCreated notification. This notification is produced when a buyer
deploys new request.

	RequestCreated:
	  - name: buyer
	    type: Hash160
	  - name: commandHash
	    type: Hash256

ExecutorAssigned notification. This notification is produced when an
administrator appoints the executor.

	ExecutorAssigned:
	  - name: executor
	    type: Hash160

AuditorAssigned notification. This notification is produced when an
administrator appoints the auditor.

	AuditorAssigned:
	  - name: auditor
	    type: Hash160

ResultAssigned notification. This notification is produced when the executor
submits its result.

	ResultAssigned:
	  - name: resultHash
	    type: Hash256
	  - name: submitter
	    type: Hash160

FaultyCalculationDetected notification. This notification is produced when
the auditor's result differs from the executor's one.

	FaultyCalculationDetected:
	  - name: auditor
	    type: Hash160
	  - name: executor
	    type: Hash160
	  - name: submittedHash
	    type: Hash256
	  - name: auditHash
	    type: Hash256

AuditorResultAssigned and RequestFinished notifications. These notifications
are produced one after another when the auditor confirms the executor's
result.

	AuditorResultAssigned:
	  - name: resultHash
	    type: Hash256
	  - name: auditor
	    type: Hash160

	RequestFinished:
	  - name: executor
	    type: Hash160
	  - name: auditor
	    type: Hash160
	  - name: resultHash
	    type: Hash256
*/
package request

/*
Contract storage model.

# Summary
Key-value storage format:
 - 'version' -> int
   version the contract was deployed with
 - 'id' -> []byte
   16-byte request identifier
 - 'buyer' -> interop.Hash160
 - 'command' -> interop.Hash256
 - 'roles' -> interop.Hash160
   Roles contract reference
 - 'reputation' -> interop.Hash160
   Reputation contract reference
 - 'state' -> byte
 - 'executor' -> interop.Hash160
 - 'auditor' -> interop.Hash160
 - 'result' -> interop.Hash256
   hash submitted by the executor
 - 'audit' -> interop.Hash256
   hash submitted by the auditor
*/
