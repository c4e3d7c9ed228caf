package sqldb

import (
	"github.com/gobuffalo/pop/v6"

	"github.com/peterrrock2/gerrydb-meta/errors"
	"github.com/peterrrock2/gerrydb-meta/gerrydb"
	"github.com/peterrrock2/gerrydb-meta/gerrydb/crud"
)

func Connect(cfg *crud.SQLDBConfig) (crud.Transactor, error) {
	conn, err := pop.NewConnection(&pop.ConnectionDetails{
		Dialect:         cfg.Dialect,
		Database:        cfg.Database,
		Host:            cfg.Host,
		Port:            cfg.Port,
		User:            cfg.User,
		Password:        cfg.Password,
		URL:             cfg.URL,
		Pool:            cfg.Pool,
		IdlePool:        cfg.IdlePool,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.ConnMaxIdleTime,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating new connection")
	}

	return Transactor{Connection: conn}, nil
}

// MigrateUp applies the embedded schema migrations to the transactor's
// database.
func MigrateUp(trans crud.Transactor) error {
	t, ok := trans.(Transactor)
	if !ok {
		return gerrydb.NewErrInvalidTransaction("sqldb.Transactor")
	}

	box, err := pop.NewMigrationBox(gerrydb.MigrationsFS, t.Connection)
	if err != nil {
		return errors.Wrap(err, "creating migration box")
	}

	return errors.Wrap(box.Up(), "applying migrations")
}
