/*
Package reputation contains implementation of the Reputation contract
(ReputationLedger).

Reputation contract keeps a signed integer score per account and an ordered,
append-only sequence of change records. A score changes only together with a
new record, so folding the records of an account from zero always reproduces
its current score (see Contract.Reconcile).

Buyers award executors of correctly finished requests (+1). Registry
administrators penalize executors of faulty requests (-1), may award for
dispute resolution and may set a score directly; the last one is recorded
with the delta reconciling the old and the new values and an empty request
reference.

By default request references are advisory: the contract records them but
doesn't look into the requests. When deployed with an Outcomes source the
contract enforces them: the request must be finished (award) or faulty
(penalize), the request must reference this ledger, the subject must be its
executor and each request outcome can be applied once. The mode is fixed at
deployment.

# Contract notifications

ReputationChanged notification. This notification is produced on every score
change.

	ReputationChanged:
	  - name: subject
	    type: Hash160
	  - name: actor
	    type: Hash160
	  - name: requestRef
	    type: Hash160
	  - name: delta
	    type: Integer
	  - name: resultingScore
	    type: Integer
*/
package reputation

/*
Contract storage model.

Current conventions:
 <subject>: 20-byte account the reputation belongs to
 <index>: 8-byte big-endian unsigned integer
 <request>: 20-byte address of the Request contract

# Summary
Key-value storage format:
 - 'version' -> int
   version the contract was deployed with
 - 'roles' -> interop.Hash160
   Roles contract reference
 - 'strict' -> []byte{1}
   request references are enforced
 - 's<subject>' -> int
   current score of the subject, missing means 0
 - 'n' -> int
   total number of change records
 - 'h<index>' -> std.Serialize(Change)
   change records in order of application
 - 'c<subject>' -> int
   number of change records of the subject
 - 'i<subject><index>' -> <index>
   global index of the subject's change record by its local index
 - 'a<request>' -> []byte{1}
   request outcome is applied (strict references only)
*/
