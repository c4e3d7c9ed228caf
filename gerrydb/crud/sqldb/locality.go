package sqldb

import (
	"github.com/gobuffalo/nulls"

	"github.com/peterrrock2/gerrydb-meta/errors"
	"github.com/peterrrock2/gerrydb-meta/gerrydb"
	"github.com/peterrrock2/gerrydb-meta/gerrydb/crud"
	"github.com/peterrrock2/gerrydb-meta/gerrydb/models"
	"github.com/peterrrock2/gerrydb-meta/logger"
)

func NewLocalityStore(log logger.Logger) crud.LocalityStore {
	if log == nil {
		log = logger.NopLogger
	}
	return &LocalityStore{
		log: log,
	}
}

type LocalityStore struct {
	log logger.Logger
}

func (s *LocalityStore) CreateLocality(tx gerrydb.Transaction, lc crud.LocalityCreate, meta *models.ObjectMeta) (*models.Locality, error) {
	mt, ok := tx.(*MetaTransaction)
	if !ok {
		return nil, gerrydb.NewErrInvalidTransaction("*sqldb.MetaTransaction")
	}

	canonical := gerrydb.NormalizePath(lc.CanonicalPath)

	loc := &models.Locality{
		CanonicalPath: canonical,
		Name:          lc.Name,
		MetaID:        meta.ID,
	}

	if lc.ParentPath != "" {
		parent, err := localityByPath(mt, lc.ParentPath)
		if err != nil {
			return nil, err
		}
		loc.ParentID = nulls.NewInt64(parent.ID)
	}

	sp, err := mt.Savepoint()
	if err != nil {
		return nil, err
	}

	if err := mt.C.Create(loc); err != nil {
		if isViolatesUniqueConstraint(err) {
			if rerr := mt.RollbackTo(sp); rerr != nil {
				return nil, rerr
			}
			s.log.Errorf("failed to create locality %s: %v", canonical, err)
			return nil, gerrydb.NewErrPathExists(gerrydb.KindLocality, canonical)
		}
		s.log.Errorf("creating locality %s: %v", canonical, err)
		return nil, errors.Wrap(err, "creating locality")
	}

	// The canonical path is itself a ref, alongside any aliases.
	refPaths := append([]string{canonical}, lc.Aliases...)
	for _, path := range refPaths {
		ref := &models.LocalityRef{
			Path:       gerrydb.NormalizePath(path),
			LocalityID: loc.ID,
		}
		if err := mt.C.Create(ref); err != nil {
			if isViolatesUniqueConstraint(err) {
				if rerr := mt.RollbackTo(sp); rerr != nil {
					return nil, rerr
				}
				s.log.Errorf("failed to create locality ref %s: %v", ref.Path, err)
				return nil, gerrydb.NewErrPathExists(gerrydb.KindLocality, ref.Path)
			}
			s.log.Errorf("creating locality ref %s: %v", ref.Path, err)
			return nil, errors.Wrap(err, "creating locality ref")
		}
	}

	if err := mt.Release(sp); err != nil {
		return nil, err
	}

	return loc, nil
}

func (s *LocalityStore) LocalityByPath(tx gerrydb.Transaction, path string) (*models.Locality, error) {
	mt, ok := tx.(*MetaTransaction)
	if !ok {
		return nil, gerrydb.NewErrInvalidTransaction("*sqldb.MetaTransaction")
	}

	return localityByPath(mt, path)
}

// localityByPath looks a locality up by any of its refs (canonical path or
// alias).
func localityByPath(mt *MetaTransaction, path string) (*models.Locality, error) {
	path = gerrydb.NormalizePath(path)

	loc := &models.Locality{}
	err := mt.C.RawQuery(
		`SELECT localities.* FROM localities
		 JOIN locality_refs ON locality_refs.locality_id = localities.id
		 WHERE locality_refs.path = ?`, path).First(loc)
	if isNoRowsError(err) {
		return nil, gerrydb.NewErrLocalityNotFound(path)
	} else if err != nil {
		return nil, errors.Wrap(err, "finding locality")
	}

	return loc, nil
}

// lockLocality takes the locality row lock. The plan store uses this to
// serialize the per-locality plan count against concurrent creators.
func lockLocality(mt *MetaTransaction, localityID int64) error {
	loc := &models.Locality{}
	err := mt.C.RawQuery(
		"SELECT * FROM localities WHERE id = ? FOR UPDATE", localityID).First(loc)
	if isNoRowsError(err) {
		return gerrydb.NewErrLocalityNotFound("")
	}

	return errors.Wrap(err, "locking locality")
}
