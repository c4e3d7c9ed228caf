package sqldb

import (
	"strings"

	"github.com/peterrrock2/gerrydb-meta/errors"
	"github.com/peterrrock2/gerrydb-meta/gerrydb"
	"github.com/peterrrock2/gerrydb-meta/gerrydb/crud"
	"github.com/peterrrock2/gerrydb-meta/gerrydb/models"
	"github.com/peterrrock2/gerrydb-meta/logger"
)

func NewResolver(log logger.Logger) crud.Resolver {
	if log == nil {
		log = logger.NopLogger
	}
	return &Resolver{
		log: log,
	}
}

type Resolver struct {
	log logger.Logger
}

func (r *Resolver) ResolveGeographies(tx gerrydb.Transaction, nsID gerrydb.NamespaceID, paths []string) (map[string]*models.Geography, error) {
	mt, ok := tx.(*MetaTransaction)
	if !ok {
		return nil, gerrydb.NewErrInvalidTransaction("*sqldb.MetaTransaction")
	}

	return resolveGeographies(mt, nsID, paths)
}

func (r *Resolver) ResolveViewTemplateMembers(tx gerrydb.Transaction, nsID gerrydb.NamespaceID, paths []string) ([]crud.ResolvedMember, error) {
	mt, ok := tx.(*MetaTransaction)
	if !ok {
		return nil, gerrydb.NewErrInvalidTransaction("*sqldb.MetaTransaction")
	}

	return resolveViewTemplateMembers(mt, nsID, paths)
}

// resolveGeographies maps each normalized path to a geography in the
// namespace, in one query. Paths that resolve to nothing are collected into
// a single batch error so the caller sees every problem at once.
func resolveGeographies(mt *MetaTransaction, nsID gerrydb.NamespaceID, paths []string) (map[string]*models.Geography, error) {
	normalized := make([]string, 0, len(paths))
	seen := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		p := gerrydb.NormalizePath(path)
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		normalized = append(normalized, p)
	}
	if len(normalized) == 0 {
		return map[string]*models.Geography{}, nil
	}

	geos := models.Geographies{}
	err := mt.C.Where("namespace_id = ? and path in (?)", int64(nsID), normalized).All(&geos)
	if err != nil {
		return nil, errors.Wrap(err, "resolving geographies")
	}

	resolved := make(map[string]*models.Geography, len(geos))
	for i := range geos {
		resolved[geos[i].Path] = &geos[i]
	}

	var unresolved []string
	for _, p := range normalized {
		if _, ok := resolved[p]; !ok {
			unresolved = append(unresolved, p)
		}
	}
	if len(unresolved) > 0 {
		return nil, gerrydb.NewErrPathsUnresolved(gerrydb.KindGeography, unresolved)
	}

	return resolved, nil
}

// resolveViewTemplateMembers maps member paths of the form "columns/<path>"
// or "column_sets/<path>" to the entities they denote. A member with any
// other kind prefix is rejected immediately; members of a valid kind that
// resolve to nothing are batch-reported.
func resolveViewTemplateMembers(mt *MetaTransaction, nsID gerrydb.NamespaceID, paths []string) ([]crud.ResolvedMember, error) {
	members := make([]crud.ResolvedMember, 0, len(paths))
	var unresolved []string

	for _, raw := range paths {
		path := gerrydb.NormalizePath(raw)
		kind, rest, found := strings.Cut(path, "/")
		if !found {
			return nil, gerrydb.NewErrInvalidMember(path)
		}

		switch kind {
		case "columns":
			column, err := columnByRef(mt, nsID, rest)
			if errors.Is(err, gerrydb.ErrPathsUnresolved) {
				unresolved = append(unresolved, path)
				continue
			} else if err != nil {
				return nil, err
			}
			members = append(members, crud.ResolvedMember{Path: path, Column: column})
		case "column_sets":
			set, err := columnSetByPath(mt, nsID, rest)
			if errors.Is(err, gerrydb.ErrPathsUnresolved) {
				unresolved = append(unresolved, path)
				continue
			} else if err != nil {
				return nil, err
			}
			members = append(members, crud.ResolvedMember{Path: path, ColumnSet: set})
		default:
			return nil, gerrydb.NewErrInvalidMember(path)
		}
	}

	if len(unresolved) > 0 {
		return nil, gerrydb.NewErrPathsUnresolved(gerrydb.KindColumn, unresolved)
	}

	return members, nil
}
