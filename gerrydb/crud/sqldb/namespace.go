package sqldb

import (
	"fmt"

	"github.com/peterrrock2/gerrydb-meta/errors"
	"github.com/peterrrock2/gerrydb-meta/gerrydb"
	"github.com/peterrrock2/gerrydb-meta/gerrydb/crud"
	"github.com/peterrrock2/gerrydb-meta/gerrydb/models"
	"github.com/peterrrock2/gerrydb-meta/logger"
)

func NewNamespaceStore(log logger.Logger) crud.NamespaceStore {
	if log == nil {
		log = logger.NopLogger
	}
	return &NamespaceStore{
		log: log,
	}
}

type NamespaceStore struct {
	log logger.Logger
}

func (s *NamespaceStore) CreateNamespace(tx gerrydb.Transaction, nc crud.NamespaceCreate, meta *models.ObjectMeta) (*models.Namespace, gerrydb.Etag, error) {
	mt, ok := tx.(*MetaTransaction)
	if !ok {
		return nil, 0, gerrydb.NewErrInvalidTransaction("*sqldb.MetaTransaction")
	}

	path := gerrydb.NormalizePath(nc.Path)
	ns := &models.Namespace{
		Path:        path,
		Description: nc.Description,
		Public:      nc.Public,
		MetaID:      meta.ID,
	}

	// The write runs inside a savepoint so a duplicate-path failure leaves
	// the caller's transaction usable.
	sp, err := mt.Savepoint()
	if err != nil {
		return nil, 0, err
	}

	if err := mt.C.Create(ns); err != nil {
		if isViolatesUniqueConstraint(err) {
			if rerr := mt.RollbackTo(sp); rerr != nil {
				return nil, 0, rerr
			}
			s.log.Errorf("failed to create namespace %s: %v", path, err)
			return nil, 0, gerrydb.NewErrNamespaceExists(path)
		}
		s.log.Errorf("creating namespace %s: %v", path, err)
		return nil, 0, errors.Wrap(err, "creating namespace")
	}

	if err := mt.Release(sp); err != nil {
		return nil, 0, err
	}

	etag, err := advanceEtag(mt, gerrydb.NamespaceID(ns.ID))
	if err != nil {
		return nil, 0, err
	}

	return ns, etag, nil
}

func (s *NamespaceStore) NamespaceByPath(tx gerrydb.Transaction, path string) (*models.Namespace, error) {
	mt, ok := tx.(*MetaTransaction)
	if !ok {
		return nil, gerrydb.NewErrInvalidTransaction("*sqldb.MetaTransaction")
	}

	return namespaceByPath(mt, path)
}

func (s *NamespaceStore) NamespaceEtag(tx gerrydb.Transaction, nsID gerrydb.NamespaceID) (gerrydb.Etag, error) {
	mt, ok := tx.(*MetaTransaction)
	if !ok {
		return 0, gerrydb.NewErrInvalidTransaction("*sqldb.MetaTransaction")
	}

	ns := &models.Namespace{}
	err := mt.C.Find(ns, int64(nsID))
	if isNoRowsError(err) {
		return 0, gerrydb.NewErrNamespaceNotFound(fmt.Sprintf("id=%d", nsID))
	} else if err != nil {
		return 0, errors.Wrap(err, "finding namespace")
	}

	return gerrydb.Etag(ns.Etag), nil
}

func namespaceByPath(mt *MetaTransaction, path string) (*models.Namespace, error) {
	path = gerrydb.NormalizePath(path)

	ns := &models.Namespace{}
	err := mt.C.Where("path = ?", path).First(ns)
	if isNoRowsError(err) {
		return nil, gerrydb.NewErrNamespaceNotFound(path)
	} else if err != nil {
		return nil, errors.Wrap(err, "finding namespace")
	}

	return ns, nil
}

// advanceEtag bumps the namespace's change token. It must run as the final
// statement of any transaction mutating objects in the namespace: the UPDATE
// takes the namespace row lock, so concurrent writers to the same namespace
// serialize here, and a rollback rolls the bump back with everything else.
func advanceEtag(mt *MetaTransaction, nsID gerrydb.NamespaceID) (gerrydb.Etag, error) {
	ns := &models.Namespace{}
	err := mt.C.RawQuery(
		"UPDATE namespaces SET etag = etag + 1 WHERE id = ? RETURNING *",
		int64(nsID)).First(ns)
	if isNoRowsError(err) {
		return 0, gerrydb.NewErrNamespaceNotFound(fmt.Sprintf("id=%d", nsID))
	} else if err != nil {
		return 0, errors.Wrap(err, "advancing namespace etag")
	}

	return gerrydb.Etag(ns.Etag), nil
}

// lockNamespace takes the namespace row lock up front. Composite creates
// (plans, graphs, view templates) call this before staging any rows so they
// serialize with other writers for the whole validation+write sequence, not
// just at the etag bump.
func lockNamespace(mt *MetaTransaction, nsID gerrydb.NamespaceID) error {
	ns := &models.Namespace{}
	err := mt.C.RawQuery(
		"SELECT * FROM namespaces WHERE id = ? FOR UPDATE", int64(nsID)).First(ns)
	if isNoRowsError(err) {
		return gerrydb.NewErrNamespaceNotFound(fmt.Sprintf("id=%d", nsID))
	}

	return errors.Wrap(err, "locking namespace")
}
