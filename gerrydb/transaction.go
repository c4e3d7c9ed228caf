package gerrydb

import "context"

// Transaction provides the abilty to rollback or commit a transaction,
// typically against a database. A single Transaction spans every read,
// validation, and write performed by one store operation; nothing becomes
// visible to other sessions until Commit returns.
type Transaction interface {
	Commit() error
	Context() context.Context
	Rollback() error
}
