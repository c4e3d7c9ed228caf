package sqldb

import (
	"time"

	"github.com/peterrrock2/gerrydb-meta/errors"
	"github.com/peterrrock2/gerrydb-meta/gerrydb"
	"github.com/peterrrock2/gerrydb-meta/gerrydb/crud"
	"github.com/peterrrock2/gerrydb-meta/gerrydb/models"
	"github.com/peterrrock2/gerrydb-meta/logger"
)

func NewViewTemplateStore(log logger.Logger) crud.ViewTemplateStore {
	if log == nil {
		log = logger.NopLogger
	}
	return &ViewTemplateStore{
		log: log,
	}
}

type ViewTemplateStore struct {
	log logger.Logger
}

func (s *ViewTemplateStore) CreateViewTemplate(tx gerrydb.Transaction, ns *models.Namespace, vtc crud.ViewTemplateCreate, meta *models.ObjectMeta) (*models.ViewTemplate, gerrydb.Etag, error) {
	mt, ok := tx.(*MetaTransaction)
	if !ok {
		return nil, 0, gerrydb.NewErrInvalidTransaction("*sqldb.MetaTransaction")
	}

	if err := lockNamespace(mt, gerrydb.NamespaceID(ns.ID)); err != nil {
		return nil, 0, err
	}

	members, err := resolveViewTemplateMembers(mt, gerrydb.NamespaceID(ns.ID), vtc.Members)
	if err != nil {
		return nil, 0, err
	}

	setColumns := make(map[int64]models.Columns)
	for _, member := range members {
		if member.ColumnSet == nil {
			continue
		}
		columns, err := columnSetMembers(mt, member.ColumnSet.ID)
		if err != nil {
			return nil, 0, err
		}
		setColumns[member.ColumnSet.ID] = columns
	}

	columns, sets, err := expandMembers(members, setColumns)
	if err != nil {
		return nil, 0, err
	}

	sp, err := mt.Savepoint()
	if err != nil {
		return nil, 0, err
	}

	path := gerrydb.NormalizePath(vtc.Path)
	template := &models.ViewTemplate{
		NamespaceID: ns.ID,
		Path:        path,
		Description: vtc.Description,
		MetaID:      meta.ID,
	}
	if err := mt.C.Create(template); err != nil {
		if isViolatesUniqueConstraint(err) {
			if rerr := mt.RollbackTo(sp); rerr != nil {
				return nil, 0, rerr
			}
			s.log.Errorf("failed to create view template %s: %v", path, err)
			return nil, 0, gerrydb.NewErrPathExists(gerrydb.KindViewTemplate, path)
		}
		s.log.Errorf("creating view template %s: %v", path, err)
		return nil, 0, errors.Wrap(err, "creating view template")
	}

	version := &models.ViewTemplateVersion{
		TemplateID: template.ID,
		MetaID:     meta.ID,
		ValidFrom:  time.Now().UTC(),
	}
	if err := mt.C.Create(version); err != nil {
		return nil, 0, errors.Wrap(err, "creating view template version")
	}

	for i, column := range columns {
		link := &models.ViewTemplateColumnMember{
			VersionID:   version.ID,
			ColumnID:    column.ID,
			MemberOrder: i,
		}
		if err := mt.C.Create(link); err != nil {
			return nil, 0, errors.Wrap(err, "creating view template column member")
		}
	}
	for i, set := range sets {
		link := &models.ViewTemplateColumnSetMember{
			VersionID:   version.ID,
			SetID:       set.ID,
			MemberOrder: i,
		}
		if err := mt.C.Create(link); err != nil {
			return nil, 0, errors.Wrap(err, "creating view template column set member")
		}
	}

	if err := mt.Release(sp); err != nil {
		return nil, 0, err
	}

	etag, err := advanceEtag(mt, gerrydb.NamespaceID(ns.ID))
	if err != nil {
		return nil, 0, err
	}

	return template, etag, nil
}

func (s *ViewTemplateStore) ViewTemplateByPath(tx gerrydb.Transaction, nsID gerrydb.NamespaceID, path string) (*models.ViewTemplate, error) {
	mt, ok := tx.(*MetaTransaction)
	if !ok {
		return nil, gerrydb.NewErrInvalidTransaction("*sqldb.MetaTransaction")
	}

	path = gerrydb.NormalizePath(path)

	template := &models.ViewTemplate{}
	err := mt.C.Where("namespace_id = ? and path = ?", int64(nsID), path).First(template)
	if isNoRowsError(err) {
		return nil, gerrydb.NewErrPathsUnresolved(gerrydb.KindViewTemplate, []string{path})
	} else if err != nil {
		return nil, errors.Wrap(err, "finding view template")
	}

	return template, nil
}

func (s *ViewTemplateStore) ListViewTemplates(tx gerrydb.Transaction, nsID gerrydb.NamespaceID) (models.ViewTemplates, error) {
	mt, ok := tx.(*MetaTransaction)
	if !ok {
		return nil, gerrydb.NewErrInvalidTransaction("*sqldb.MetaTransaction")
	}

	templates := models.ViewTemplates{}
	if err := mt.C.Where("namespace_id = ?", int64(nsID)).All(&templates); err != nil {
		return nil, errors.Wrap(err, "listing view templates")
	}

	return templates, nil
}

// expandMembers flattens resolved template members into the distinct column
// and column-set link lists, in member order. Each column identity may be
// contributed exactly once across all provenances: a column listed twice, or
// listed directly and appearing in a set, or appearing in two sets, rejects
// the whole template. The error distinguishes whether the second contribution
// was a direct listing or a set expansion.
func expandMembers(members []crud.ResolvedMember, setColumns map[int64]models.Columns) (models.Columns, models.ColumnSets, error) {
	var columns models.Columns
	var sets models.ColumnSets
	seen := make(map[int64]struct{})

	for _, member := range members {
		switch {
		case member.Column != nil:
			if _, dup := seen[member.Column.ID]; dup {
				return nil, nil, gerrydb.NewErrColumnDuplicated(member.Column.CanonicalPath)
			}
			seen[member.Column.ID] = struct{}{}
			columns = append(columns, *member.Column)
		case member.ColumnSet != nil:
			for _, column := range setColumns[member.ColumnSet.ID] {
				if _, dup := seen[column.ID]; dup {
					return nil, nil, gerrydb.NewErrColumnDuplicatedInSet(
						column.CanonicalPath, member.ColumnSet.Path)
				}
				seen[column.ID] = struct{}{}
			}
			sets = append(sets, *member.ColumnSet)
		default:
			return nil, nil, gerrydb.NewErrInvalidMember(member.Path)
		}
	}

	return columns, sets, nil
}
