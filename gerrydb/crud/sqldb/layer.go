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

func NewLayerStore(log logger.Logger) crud.LayerStore {
	if log == nil {
		log = logger.NopLogger
	}
	return &LayerStore{
		log: log,
	}
}

type LayerStore struct {
	log logger.Logger
}

func (s *LayerStore) CreateLayer(tx gerrydb.Transaction, ns *models.Namespace, lc crud.LayerCreate, meta *models.ObjectMeta) (*models.GeoLayer, gerrydb.Etag, error) {
	mt, ok := tx.(*MetaTransaction)
	if !ok {
		return nil, 0, gerrydb.NewErrInvalidTransaction("*sqldb.MetaTransaction")
	}

	path := gerrydb.NormalizePath(lc.Path)
	layer := &models.GeoLayer{
		NamespaceID: ns.ID,
		Path:        path,
		Description: lc.Description,
		MetaID:      meta.ID,
	}
	if lc.SourceURL != "" {
		layer.SourceURL = nulls.NewString(lc.SourceURL)
	}

	sp, err := mt.Savepoint()
	if err != nil {
		return nil, 0, err
	}

	if err := mt.C.Create(layer); err != nil {
		if isViolatesUniqueConstraint(err) {
			if rerr := mt.RollbackTo(sp); rerr != nil {
				return nil, 0, rerr
			}
			s.log.Errorf("failed to create geo layer %s: %v", path, err)
			return nil, 0, gerrydb.NewErrPathExists(gerrydb.KindLayer, path)
		}
		s.log.Errorf("creating geo layer %s: %v", path, err)
		return nil, 0, errors.Wrap(err, "creating geo layer")
	}

	if err := mt.Release(sp); err != nil {
		return nil, 0, err
	}

	etag, err := advanceEtag(mt, gerrydb.NamespaceID(ns.ID))
	if err != nil {
		return nil, 0, err
	}

	return layer, etag, nil
}

func (s *LayerStore) LayerByPath(tx gerrydb.Transaction, nsID gerrydb.NamespaceID, path string) (*models.GeoLayer, error) {
	mt, ok := tx.(*MetaTransaction)
	if !ok {
		return nil, gerrydb.NewErrInvalidTransaction("*sqldb.MetaTransaction")
	}

	return layerByPath(mt, nsID, path)
}

func (s *LayerStore) ListLayers(tx gerrydb.Transaction, nsID gerrydb.NamespaceID) (models.GeoLayers, error) {
	mt, ok := tx.(*MetaTransaction)
	if !ok {
		return nil, gerrydb.NewErrInvalidTransaction("*sqldb.MetaTransaction")
	}

	layers := models.GeoLayers{}
	if err := mt.C.Where("namespace_id = ?", int64(nsID)).All(&layers); err != nil {
		return nil, errors.Wrap(err, "listing geo layers")
	}

	return layers, nil
}

func (s *LayerStore) MapLocality(tx gerrydb.Transaction, layer *models.GeoLayer, locality *models.Locality, geos models.Geographies, meta *models.ObjectMeta) (*models.GeoSetVersion, gerrydb.Etag, error) {
	mt, ok := tx.(*MetaTransaction)
	if !ok {
		return nil, 0, gerrydb.NewErrInvalidTransaction("*sqldb.MetaTransaction")
	}

	if err := lockNamespace(mt, gerrydb.NamespaceID(layer.NamespaceID)); err != nil {
		return nil, 0, err
	}

	now := time.Now().UTC()

	// Seal the current snapshot, if one exists. Sealed versions are never
	// touched again; graphs and plans built against them keep pointing at
	// the exact membership they were validated with.
	err := mt.C.RawQuery(
		`UPDATE geo_set_versions SET valid_to = ?
		 WHERE locality_id = ? AND layer_id = ? AND valid_to IS NULL`,
		now, locality.ID, layer.ID).Exec()
	if err != nil {
		return nil, 0, errors.Wrap(err, "sealing current geo set version")
	}

	set := &models.GeoSetVersion{
		LocalityID: locality.ID,
		LayerID:    layer.ID,
		MetaID:     meta.ID,
		ValidFrom:  now,
	}
	if err := mt.C.Create(set); err != nil {
		return nil, 0, errors.Wrap(err, "creating geo set version")
	}

	for _, geo := range geos {
		member := &models.GeoSetMember{
			SetVersionID: set.ID,
			GeoID:        geo.ID,
		}
		if err := mt.C.Create(member); err != nil {
			return nil, 0, errors.Wrap(err, "creating geo set member")
		}
	}

	etag, err := advanceEtag(mt, gerrydb.NamespaceID(layer.NamespaceID))
	if err != nil {
		return nil, 0, err
	}

	return set, etag, nil
}

func (s *LayerStore) SetByLocalityLayer(tx gerrydb.Transaction, locality *models.Locality, layer *models.GeoLayer) (*models.GeoSetVersion, error) {
	mt, ok := tx.(*MetaTransaction)
	if !ok {
		return nil, gerrydb.NewErrInvalidTransaction("*sqldb.MetaTransaction")
	}

	return setByLocalityLayer(mt, locality, layer)
}

func layerByPath(mt *MetaTransaction, nsID gerrydb.NamespaceID, path string) (*models.GeoLayer, error) {
	path = gerrydb.NormalizePath(path)

	layer := &models.GeoLayer{}
	err := mt.C.Where("namespace_id = ? and path = ?", int64(nsID), path).First(layer)
	if isNoRowsError(err) {
		return nil, gerrydb.NewErrLayerNotFound(path)
	} else if err != nil {
		return nil, errors.Wrap(err, "finding geo layer")
	}

	return layer, nil
}

// setByLocalityLayer pins the current membership snapshot by identity. All
// validation downstream refers to the returned version's ID, so a concurrent
// remap cannot change the validation target mid-transaction.
func setByLocalityLayer(mt *MetaTransaction, locality *models.Locality, layer *models.GeoLayer) (*models.GeoSetVersion, error) {
	set := &models.GeoSetVersion{}
	err := mt.C.Where("locality_id = ? and layer_id = ? and valid_to is null",
		locality.ID, layer.ID).First(set)
	if isNoRowsError(err) {
		return nil, gerrydb.NewErrSetNotFound(locality.CanonicalPath, layer.Path)
	} else if err != nil {
		return nil, errors.Wrap(err, "finding geo set version")
	}

	return set, nil
}
