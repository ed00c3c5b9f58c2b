/*
Package eventlog implements the public append-only log of contract
notifications.

Every notification emitted by a committed transaction becomes a Record. Records
are numbered from zero and chained: each record carries the hash of the
previous one, and its own hash covers the previous hash, the index, the
emitting contract, the event name and the binary-serialized event fields.
Any edit, removal or reordering of records is detected by Verify.

Two implementations are provided: Memory keeps records in process memory and
File appends them as JSON lines to a file surviving restarts.
*/
package eventlog
