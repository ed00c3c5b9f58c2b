/*
Package chain implements the transactional execution substrate of the
contracts.

Chain serializes state-mutating operations and applies each of them as a
single transaction: the operation works with a private overlay of the store
and accumulates notifications. If the operation returns an error, the overlay
and the notifications are dropped. Otherwise notifications are appended to the
event log and the overlay is persisted, so the operation either fully applies
or has no effect at all.

Every contract owns a separate storage space identified by its address. A
transaction can access storage of any contract, which is how contracts read
each other's state (for example, role checks).

Read-only operations run via View concurrently with each other and always see
the latest committed state.

Committed state is kept in memory and flushed to the backing store after each
transaction. The event log is written before the flush. If the flush fails,
the state stays committed in memory and is flushed again by the next
transaction or by Close, but a crash before that leaves the event log ahead
of the backing store. Close reports the flush error.
*/
package chain
