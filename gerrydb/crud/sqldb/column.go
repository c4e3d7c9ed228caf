package sqldb

import (
	"time"

	"github.com/gobuffalo/nulls"

	"github.com/peterrrock2/gerrydb-meta/errors"
	"github.com/peterrrock2/gerrydb-meta/gerrydb"
	"github.com/peterrrock2/gerrydb-meta/gerrydb/crud"
	"github.com/peterrrock2/gerrydb-meta/gerrydb/models"
	"github.com/peterrrock2/gerrydb-meta/logger"
)

func NewColumnStore(log logger.Logger) crud.ColumnStore {
	if log == nil {
		log = logger.NopLogger
	}
	return &ColumnStore{
		log: log,
	}
}

type ColumnStore struct {
	log logger.Logger
}

func (s *ColumnStore) CreateColumn(tx gerrydb.Transaction, ns *models.Namespace, cc crud.ColumnCreate, meta *models.ObjectMeta) (*models.Column, gerrydb.Etag, error) {
	mt, ok := tx.(*MetaTransaction)
	if !ok {
		return nil, 0, gerrydb.NewErrInvalidTransaction("*sqldb.MetaTransaction")
	}

	if err := lockNamespace(mt, gerrydb.NamespaceID(ns.ID)); err != nil {
		return nil, 0, err
	}

	canonical := gerrydb.NormalizePath(cc.Path)
	column := &models.Column{
		NamespaceID:   ns.ID,
		CanonicalPath: canonical,
		Kind:          string(cc.Kind),
		Type:          string(cc.Type),
		MetaID:        meta.ID,
	}

	sp, err := mt.Savepoint()
	if err != nil {
		return nil, 0, err
	}

	if err := mt.C.Create(column); err != nil {
		if isViolatesUniqueConstraint(err) {
			if rerr := mt.RollbackTo(sp); rerr != nil {
				return nil, 0, rerr
			}
			s.log.Errorf("failed to create column %s: %v", canonical, err)
			return nil, 0, gerrydb.NewErrPathExists(gerrydb.KindColumn, canonical)
		}
		s.log.Errorf("creating column %s: %v", canonical, err)
		return nil, 0, errors.Wrap(err, "creating column")
	}

	refPaths := append([]string{canonical}, cc.Aliases...)
	for _, path := range refPaths {
		ref := &models.ColumnRef{
			NamespaceID: ns.ID,
			Path:        gerrydb.NormalizePath(path),
			ColumnID:    column.ID,
		}
		if err := mt.C.Create(ref); err != nil {
			if isViolatesUniqueConstraint(err) {
				if rerr := mt.RollbackTo(sp); rerr != nil {
					return nil, 0, rerr
				}
				s.log.Errorf("failed to create column ref %s: %v", ref.Path, err)
				return nil, 0, gerrydb.NewErrPathExists(gerrydb.KindColumn, ref.Path)
			}
			s.log.Errorf("creating column ref %s: %v", ref.Path, err)
			return nil, 0, errors.Wrap(err, "creating column ref")
		}
	}

	version := &models.ColumnVersion{
		ColumnID:    column.ID,
		Description: cc.Description,
		MetaID:      meta.ID,
		ValidFrom:   time.Now().UTC(),
	}
	if cc.SourceURL != "" {
		version.SourceURL = nulls.NewString(cc.SourceURL)
	}
	if err := mt.C.Create(version); err != nil {
		return nil, 0, errors.Wrap(err, "creating column version")
	}

	if err := mt.Release(sp); err != nil {
		return nil, 0, err
	}

	etag, err := advanceEtag(mt, gerrydb.NamespaceID(ns.ID))
	if err != nil {
		return nil, 0, err
	}

	return column, etag, nil
}

func (s *ColumnStore) ColumnByRef(tx gerrydb.Transaction, nsID gerrydb.NamespaceID, path string) (*models.Column, error) {
	mt, ok := tx.(*MetaTransaction)
	if !ok {
		return nil, gerrydb.NewErrInvalidTransaction("*sqldb.MetaTransaction")
	}

	return columnByRef(mt, nsID, path)
}

func (s *ColumnStore) CurrentColumnVersion(tx gerrydb.Transaction, columnID gerrydb.ColumnID) (*models.ColumnVersion, error) {
	mt, ok := tx.(*MetaTransaction)
	if !ok {
		return nil, gerrydb.NewErrInvalidTransaction("*sqldb.MetaTransaction")
	}

	version := &models.ColumnVersion{}
	err := mt.C.Where("column_id = ? and valid_to is null", int64(columnID)).First(version)
	if isNoRowsError(err) {
		return nil, gerrydb.NewErrInvalidVersion("column has no current version")
	} else if err != nil {
		return nil, errors.Wrap(err, "finding column version")
	}

	return version, nil
}

// UpdateColumn seals the current version row and inserts the replacement in
// one step; the two rows share a boundary timestamp so the history stays
// contiguous.
func (s *ColumnStore) UpdateColumn(tx gerrydb.Transaction, ns *models.Namespace, column *models.Column, patch crud.ColumnPatch, meta *models.ObjectMeta) (*models.ColumnVersion, gerrydb.Etag, error) {
	mt, ok := tx.(*MetaTransaction)
	if !ok {
		return nil, 0, gerrydb.NewErrInvalidTransaction("*sqldb.MetaTransaction")
	}

	if err := lockNamespace(mt, gerrydb.NamespaceID(ns.ID)); err != nil {
		return nil, 0, err
	}

	now := time.Now().UTC()

	err := mt.C.RawQuery(
		"UPDATE column_versions SET valid_to = ? WHERE column_id = ? AND valid_to IS NULL",
		now, column.ID).Exec()
	if err != nil {
		return nil, 0, errors.Wrap(err, "sealing column version")
	}

	version := &models.ColumnVersion{
		ColumnID:    column.ID,
		Description: patch.Description,
		MetaID:      meta.ID,
		ValidFrom:   now,
	}
	if patch.SourceURL != "" {
		version.SourceURL = nulls.NewString(patch.SourceURL)
	}
	if err := mt.C.Create(version); err != nil {
		return nil, 0, errors.Wrap(err, "creating column version")
	}

	etag, err := advanceEtag(mt, gerrydb.NamespaceID(ns.ID))
	if err != nil {
		return nil, 0, err
	}

	return version, etag, nil
}

func (s *ColumnStore) ListColumns(tx gerrydb.Transaction, nsID gerrydb.NamespaceID) (models.Columns, error) {
	mt, ok := tx.(*MetaTransaction)
	if !ok {
		return nil, gerrydb.NewErrInvalidTransaction("*sqldb.MetaTransaction")
	}

	columns := models.Columns{}
	if err := mt.C.Where("namespace_id = ?", int64(nsID)).All(&columns); err != nil {
		return nil, errors.Wrap(err, "listing columns")
	}

	return columns, nil
}

// columnByRef looks a column up by any of its refs (canonical path or
// alias).
func columnByRef(mt *MetaTransaction, nsID gerrydb.NamespaceID, path string) (*models.Column, error) {
	path = gerrydb.NormalizePath(path)

	column := &models.Column{}
	err := mt.C.RawQuery(
		`SELECT columns.* FROM columns
		 JOIN column_refs ON column_refs.column_id = columns.id
		 WHERE column_refs.namespace_id = ? AND column_refs.path = ?`,
		int64(nsID), path).First(column)
	if isNoRowsError(err) {
		return nil, gerrydb.NewErrPathsUnresolved(gerrydb.KindColumn, []string{path})
	} else if err != nil {
		return nil, errors.Wrap(err, "finding column")
	}

	return column, nil
}
