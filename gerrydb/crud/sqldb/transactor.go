package sqldb

import (
	"context"
	"fmt"

	"database/sql"

	"github.com/gobuffalo/pop/v6"

	"github.com/peterrrock2/gerrydb-meta/errors"
	"github.com/peterrrock2/gerrydb-meta/gerrydb"
)

// Transactor wraps a pop Connection to make it into a crud.Transactor
// which can be used by the stores agnostic of implementation.
type Transactor struct {
	*pop.Connection
}

func (t Transactor) Start() error {
	return errors.Wrap(t.Connection.Open(), "opening connection")
}

func (t Transactor) BeginTx(ctx context.Context, writable bool) (gerrydb.Transaction, error) {
	cn, err := t.NewTransactionContextOptions(ctx, &sql.TxOptions{ReadOnly: !writable})
	if err != nil {
		return nil, errors.Wrap(err, "getting SQL transaction")
	}
	return &MetaTransaction{C: cn}, nil
}

func (t Transactor) Close() error {
	return t.Connection.Close()
}

// sqldb.MetaTransaction is a thin wrapper to create a gerrydb.Transaction
// from a pop Transaction/Connection.
type MetaTransaction struct {
	C *pop.Connection

	savepoints int
}

func (w *MetaTransaction) Commit() error {
	return w.C.TX.Commit()
}

func (w *MetaTransaction) Context() context.Context {
	return w.C.Context()
}
func (w *MetaTransaction) Rollback() error {
	return w.C.TX.Rollback()
}

// Savepoint opens a nested transaction scope and returns its name. A
// validation failure inside the scope rolls back only the staged work via
// RollbackTo, leaving the surrounding transaction usable.
func (w *MetaTransaction) Savepoint() (string, error) {
	w.savepoints++
	name := fmt.Sprintf("sp_%d", w.savepoints)
	if err := w.C.RawQuery("SAVEPOINT " + name).Exec(); err != nil {
		return "", errors.Wrap(err, "creating savepoint")
	}
	return name, nil
}

func (w *MetaTransaction) RollbackTo(name string) error {
	err := w.C.RawQuery("ROLLBACK TO SAVEPOINT " + name).Exec()
	return errors.Wrap(err, "rolling back to savepoint")
}

func (w *MetaTransaction) Release(name string) error {
	err := w.C.RawQuery("RELEASE SAVEPOINT " + name).Exec()
	return errors.Wrap(err, "releasing savepoint")
}
