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

func NewMetaStore(log logger.Logger) crud.MetaStore {
	if log == nil {
		log = logger.NopLogger
	}
	return &MetaStore{
		log: log,
	}
}

type MetaStore struct {
	log logger.Logger
}

func (s *MetaStore) CreateMeta(tx gerrydb.Transaction, mc crud.MetaCreate) (*models.ObjectMeta, error) {
	mt, ok := tx.(*MetaTransaction)
	if !ok {
		return nil, gerrydb.NewErrInvalidTransaction("*sqldb.MetaTransaction")
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, errors.Wrap(err, "generating meta uuid")
	}

	meta := &models.ObjectMeta{
		UUID:      id,
		CreatedBy: mc.CreatedBy,
	}
	if mc.Notes != "" {
		meta.Notes = nulls.NewString(mc.Notes)
	}

	if err := mt.C.Create(meta); err != nil {
		return nil, errors.Wrap(err, "creating object meta")
	}

	return meta, nil
}

func (s *MetaStore) MetaByUUID(tx gerrydb.Transaction, id uuid.UUID) (*models.ObjectMeta, error) {
	mt, ok := tx.(*MetaTransaction)
	if !ok {
		return nil, gerrydb.NewErrInvalidTransaction("*sqldb.MetaTransaction")
	}

	meta := &models.ObjectMeta{}
	err := mt.C.Where("uuid = ?", id).First(meta)
	if isNoRowsError(err) {
		return nil, errors.Errorf("object meta not found: %s", id)
	} else if err != nil {
		return nil, errors.Wrap(err, "finding object meta")
	}

	return meta, nil
}
