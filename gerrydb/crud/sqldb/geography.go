package sqldb

import (
	"github.com/gobuffalo/nulls"
	"github.com/gofrs/uuid"

	"github.com/peterrrock2/gerrydb-meta/errors"
	"github.com/peterrrock2/gerrydb-meta/gerrydb"
	"github.com/peterrrock2/gerrydb-meta/gerrydb/crud"
	"github.com/peterrrock2/gerrydb-meta/gerrydb/models"
	"github.com/peterrrock2/gerrydb-meta/logger"
)

func NewGeographyStore(log logger.Logger) crud.GeographyStore {
	if log == nil {
		log = logger.NopLogger
	}
	return &GeographyStore{
		log: log,
	}
}

type GeographyStore struct {
	log logger.Logger
}

func (s *GeographyStore) CreateGeoImport(tx gerrydb.Transaction, ns *models.Namespace, meta *models.ObjectMeta) (*models.GeoImport, error) {
	mt, ok := tx.(*MetaTransaction)
	if !ok {
		return nil, gerrydb.NewErrInvalidTransaction("*sqldb.MetaTransaction")
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, errors.Wrap(err, "generating geo import uuid")
	}

	imp := &models.GeoImport{
		UUID:        id,
		NamespaceID: ns.ID,
		MetaID:      meta.ID,
	}
	if err := mt.C.Create(imp); err != nil {
		return nil, errors.Wrap(err, "creating geo import")
	}

	return imp, nil
}

func (s *GeographyStore) CreateGeographies(tx gerrydb.Transaction, ns *models.Namespace, paths []string, geoImport *models.GeoImport, meta *models.ObjectMeta) (models.Geographies, gerrydb.Etag, error) {
	mt, ok := tx.(*MetaTransaction)
	if !ok {
		return nil, 0, gerrydb.NewErrInvalidTransaction("*sqldb.MetaTransaction")
	}

	if err := lockNamespace(mt, gerrydb.NamespaceID(ns.ID)); err != nil {
		return nil, 0, err
	}

	sp, err := mt.Savepoint()
	if err != nil {
		return nil, 0, err
	}

	geos := make(models.Geographies, 0, len(paths))
	for _, path := range paths {
		geo := &models.Geography{
			NamespaceID: ns.ID,
			Path:        gerrydb.NormalizePath(path),
			MetaID:      meta.ID,
		}
		if geoImport != nil {
			geo.GeoImportID = nulls.NewInt64(geoImport.ID)
		}
		if err := mt.C.Create(geo); err != nil {
			if isViolatesUniqueConstraint(err) {
				if rerr := mt.RollbackTo(sp); rerr != nil {
					return nil, 0, rerr
				}
				s.log.Errorf("failed to create geography %s: %v", geo.Path, err)
				return nil, 0, gerrydb.NewErrPathExists(gerrydb.KindGeography, geo.Path)
			}
			s.log.Errorf("creating geography %s: %v", geo.Path, err)
			return nil, 0, errors.Wrap(err, "creating geography")
		}
		geos = append(geos, *geo)
	}

	if err := mt.Release(sp); err != nil {
		return nil, 0, err
	}

	etag, err := advanceEtag(mt, gerrydb.NamespaceID(ns.ID))
	if err != nil {
		return nil, 0, err
	}

	return geos, etag, nil
}

func (s *GeographyStore) GeographyByPath(tx gerrydb.Transaction, nsID gerrydb.NamespaceID, path string) (*models.Geography, error) {
	mt, ok := tx.(*MetaTransaction)
	if !ok {
		return nil, gerrydb.NewErrInvalidTransaction("*sqldb.MetaTransaction")
	}

	path = gerrydb.NormalizePath(path)

	geo := &models.Geography{}
	err := mt.C.Where("namespace_id = ? and path = ?", int64(nsID), path).First(geo)
	if isNoRowsError(err) {
		return nil, gerrydb.NewErrPathsUnresolved(gerrydb.KindGeography, []string{path})
	} else if err != nil {
		return nil, errors.Wrap(err, "finding geography")
	}

	return geo, nil
}
