/*
Package executor implements the executor daemon and its client.

The daemon listens on a unix socket and runs the code it receives. Each
connection carries exactly one request and one response, all integers are
big-endian:

	request:  [format:1][size:4][code:size]
	response: [status:4][stdoutSize:4][stderrSize:4][zipSize:4][stdout][stderr][zip]

Format 1 is Python code. Status is 0 on success and 1 otherwise, including
unknown formats. Requests with code larger than the configured limit (10 MiB
by default) are dropped without response. The zip section is reserved and
always empty.

Executors and auditors of a request commit to the SHA-256 hash of the stdout
of the command (see Result.Hash and Client.ExecuteAndSubmit).
*/
package executor
