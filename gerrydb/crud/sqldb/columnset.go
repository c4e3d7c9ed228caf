package sqldb

import (
	"fmt"

	"github.com/peterrrock2/gerrydb-meta/errors"
	"github.com/peterrrock2/gerrydb-meta/gerrydb"
	"github.com/peterrrock2/gerrydb-meta/gerrydb/crud"
	"github.com/peterrrock2/gerrydb-meta/gerrydb/models"
	"github.com/peterrrock2/gerrydb-meta/logger"
)

func NewColumnSetStore(log logger.Logger) crud.ColumnSetStore {
	if log == nil {
		log = logger.NopLogger
	}
	return &ColumnSetStore{
		log: log,
	}
}

type ColumnSetStore struct {
	log logger.Logger
}

func (s *ColumnSetStore) CreateColumnSet(tx gerrydb.Transaction, ns *models.Namespace, csc crud.ColumnSetCreate, meta *models.ObjectMeta) (*models.ColumnSet, gerrydb.Etag, error) {
	mt, ok := tx.(*MetaTransaction)
	if !ok {
		return nil, 0, gerrydb.NewErrInvalidTransaction("*sqldb.MetaTransaction")
	}

	if err := lockNamespace(mt, gerrydb.NamespaceID(ns.ID)); err != nil {
		return nil, 0, err
	}

	// Resolve all member paths before writing anything, batch-reporting the
	// ones that don't exist.
	columns := make(models.Columns, 0, len(csc.Columns))
	seen := make(map[int64]struct{}, len(csc.Columns))
	var unresolved []string
	for _, path := range csc.Columns {
		column, err := columnByRef(mt, gerrydb.NamespaceID(ns.ID), path)
		if errors.Is(err, gerrydb.ErrPathsUnresolved) {
			unresolved = append(unresolved, gerrydb.NormalizePath(path))
			continue
		} else if err != nil {
			return nil, 0, err
		}
		if _, ok := seen[column.ID]; ok {
			return nil, 0, errors.New(gerrydb.ErrColumnDuplicated,
				fmt.Sprintf("Duplicate column in column set: %s", column.CanonicalPath))
		}
		seen[column.ID] = struct{}{}
		columns = append(columns, *column)
	}
	if len(unresolved) > 0 {
		return nil, 0, gerrydb.NewErrPathsUnresolved(gerrydb.KindColumn, unresolved)
	}

	sp, err := mt.Savepoint()
	if err != nil {
		return nil, 0, err
	}

	path := gerrydb.NormalizePath(csc.Path)
	set := &models.ColumnSet{
		NamespaceID: ns.ID,
		Path:        path,
		Description: csc.Description,
		MetaID:      meta.ID,
	}
	if err := mt.C.Create(set); err != nil {
		if isViolatesUniqueConstraint(err) {
			if rerr := mt.RollbackTo(sp); rerr != nil {
				return nil, 0, rerr
			}
			s.log.Errorf("failed to create column set %s: %v", path, err)
			return nil, 0, gerrydb.NewErrPathExists(gerrydb.KindColumnSet, path)
		}
		s.log.Errorf("creating column set %s: %v", path, err)
		return nil, 0, errors.Wrap(err, "creating column set")
	}

	for i, column := range columns {
		member := &models.ColumnSetMember{
			SetID:       set.ID,
			ColumnID:    column.ID,
			MemberOrder: i,
		}
		if err := mt.C.Create(member); err != nil {
			return nil, 0, errors.Wrap(err, "creating column set member")
		}
	}

	if err := mt.Release(sp); err != nil {
		return nil, 0, err
	}

	etag, err := advanceEtag(mt, gerrydb.NamespaceID(ns.ID))
	if err != nil {
		return nil, 0, err
	}

	return set, etag, nil
}

func (s *ColumnSetStore) ColumnSetByPath(tx gerrydb.Transaction, nsID gerrydb.NamespaceID, path string) (*models.ColumnSet, error) {
	mt, ok := tx.(*MetaTransaction)
	if !ok {
		return nil, gerrydb.NewErrInvalidTransaction("*sqldb.MetaTransaction")
	}

	return columnSetByPath(mt, nsID, path)
}

func (s *ColumnSetStore) ColumnSetMembers(tx gerrydb.Transaction, setID gerrydb.ColumnSetID) (models.Columns, error) {
	mt, ok := tx.(*MetaTransaction)
	if !ok {
		return nil, gerrydb.NewErrInvalidTransaction("*sqldb.MetaTransaction")
	}

	return columnSetMembers(mt, int64(setID))
}

func (s *ColumnSetStore) ListColumnSets(tx gerrydb.Transaction, nsID gerrydb.NamespaceID) (models.ColumnSets, error) {
	mt, ok := tx.(*MetaTransaction)
	if !ok {
		return nil, gerrydb.NewErrInvalidTransaction("*sqldb.MetaTransaction")
	}

	sets := models.ColumnSets{}
	if err := mt.C.Where("namespace_id = ?", int64(nsID)).All(&sets); err != nil {
		return nil, errors.Wrap(err, "listing column sets")
	}

	return sets, nil
}

func columnSetByPath(mt *MetaTransaction, nsID gerrydb.NamespaceID, path string) (*models.ColumnSet, error) {
	path = gerrydb.NormalizePath(path)

	set := &models.ColumnSet{}
	err := mt.C.Where("namespace_id = ? and path = ?", int64(nsID), path).First(set)
	if isNoRowsError(err) {
		return nil, gerrydb.NewErrPathsUnresolved(gerrydb.KindColumnSet, []string{path})
	} else if err != nil {
		return nil, errors.Wrap(err, "finding column set")
	}

	return set, nil
}

// columnSetMembers returns the set's columns in member order.
func columnSetMembers(mt *MetaTransaction, setID int64) (models.Columns, error) {
	columns := models.Columns{}
	err := mt.C.RawQuery(
		`SELECT columns.* FROM columns
		 JOIN column_set_members ON column_set_members.column_id = columns.id
		 WHERE column_set_members.set_id = ?
		 ORDER BY column_set_members.member_order`, setID).All(&columns)
	if err != nil {
		return nil, errors.Wrap(err, "listing column set members")
	}

	return columns, nil
}
