/*
Package deploy provides deployment of the admin bundle: Roles and Reputation
contracts owned by the same administrator.

Deploy is safe to call on every start: already deployed contracts are
reattached, missing ones are deployed, configured roles are granted
idempotently. Request contracts are not part of the bundle, they are deployed
by buyers at runtime.
*/
package deploy
