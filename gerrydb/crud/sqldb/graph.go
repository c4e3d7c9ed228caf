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

func NewGraphStore(log logger.Logger) crud.GraphStore {
	if log == nil {
		log = logger.NopLogger
	}
	return &GraphStore{
		log: log,
	}
}

type GraphStore struct {
	log logger.Logger
}

func (s *GraphStore) CreateGraph(tx gerrydb.Transaction, ns *models.Namespace, gc crud.GraphCreate, meta *models.ObjectMeta) (*models.Graph, gerrydb.Etag, error) {
	mt, ok := tx.(*MetaTransaction)
	if !ok {
		return nil, 0, gerrydb.NewErrInvalidTransaction("*sqldb.MetaTransaction")
	}

	if err := lockNamespace(mt, gerrydb.NamespaceID(ns.ID)); err != nil {
		return nil, 0, err
	}

	locality, err := localityByPath(mt, gc.Locality)
	if err != nil {
		return nil, 0, err
	}
	layer, err := layerByPath(mt, gerrydb.NamespaceID(ns.ID), gc.Layer)
	if err != nil {
		return nil, 0, err
	}
	set, err := setByLocalityLayer(mt, locality, layer)
	if err != nil {
		return nil, 0, err
	}

	resolved, err := resolveGeographies(mt, gerrydb.NamespaceID(ns.ID), gc.Geographies)
	if err != nil {
		return nil, 0, err
	}

	members, err := geoSetMemberIDs(mt, set.ID)
	if err != nil {
		return nil, 0, err
	}
	geos := make([]*models.Geography, 0, len(resolved))
	for _, geo := range resolved {
		geos = append(geos, geo)
	}
	if offending := diffMembership(members, geos); len(offending) > 0 {
		return nil, 0, gerrydb.NewErrGraphGeosNotInSet(offending)
	}

	// Every edge endpoint must be among the node geographies.
	edges := dedupeEdges(gc.Edges)
	var missing []string
	seenMissing := make(map[string]struct{})
	endpoint := func(path string) {
		p := gerrydb.NormalizePath(path)
		if _, ok := resolved[p]; !ok {
			if _, dup := seenMissing[p]; !dup {
				seenMissing[p] = struct{}{}
				missing = append(missing, p)
			}
		}
	}
	for _, edge := range edges {
		endpoint(edge.PathA)
		endpoint(edge.PathB)
	}
	if len(missing) > 0 {
		return nil, 0, gerrydb.NewErrEdgeGeosMissing(missing)
	}

	sp, err := mt.Savepoint()
	if err != nil {
		return nil, 0, err
	}

	graph := &models.Graph{
		NamespaceID:  ns.ID,
		Path:         gerrydb.NormalizePath(gc.Path),
		Description:  gc.Description,
		LocalityID:   locality.ID,
		LayerID:      layer.ID,
		SetVersionID: set.ID,
		MetaID:       meta.ID,
		ValidFrom:    time.Now().UTC(),
	}
	if err := mt.C.Create(graph); err != nil {
		if isViolatesUniqueConstraint(err) {
			if rerr := mt.RollbackTo(sp); rerr != nil {
				return nil, 0, rerr
			}
			s.log.Errorf("failed to create graph at %s: %v", graph.Path, err)
			return nil, 0, gerrydb.NewErrGraphPathExists()
		}
		s.log.Errorf("creating graph at %s: %v", graph.Path, err)
		return nil, 0, errors.Wrap(err, "creating graph")
	}

	for _, ec := range edges {
		edge := &models.GraphEdge{
			GraphID: graph.ID,
			GeoID1:  resolved[gerrydb.NormalizePath(ec.PathA)].ID,
			GeoID2:  resolved[gerrydb.NormalizePath(ec.PathB)].ID,
		}
		if ec.Weights != "" {
			edge.Weights = nulls.NewString(ec.Weights)
		}
		if err := mt.C.Create(edge); err != nil {
			s.log.Errorf("creating graph edge %s-%s: %v", ec.PathA, ec.PathB, err)
			return nil, 0, errors.Wrap(err, "creating graph edge")
		}
	}

	if err := mt.Release(sp); err != nil {
		return nil, 0, err
	}

	etag, err := advanceEtag(mt, gerrydb.NamespaceID(ns.ID))
	if err != nil {
		return nil, 0, err
	}

	return graph, etag, nil
}

func (s *GraphStore) GraphByPath(tx gerrydb.Transaction, nsID gerrydb.NamespaceID, path string) (*models.Graph, error) {
	mt, ok := tx.(*MetaTransaction)
	if !ok {
		return nil, gerrydb.NewErrInvalidTransaction("*sqldb.MetaTransaction")
	}

	path = gerrydb.NormalizePath(path)

	graph := &models.Graph{}
	err := mt.C.Where("namespace_id = ? and path = ? and valid_to is null",
		int64(nsID), path).First(graph)
	if isNoRowsError(err) {
		return nil, gerrydb.NewErrPathsUnresolved(gerrydb.KindGraph, []string{path})
	} else if err != nil {
		return nil, errors.Wrap(err, "finding graph")
	}

	return graph, nil
}

// dedupeEdges drops repeated undirected edges: declarations whose endpoint
// paths normalize to the same unordered pair reduce to the first one.
func dedupeEdges(edges []crud.GraphEdgeCreate) []crud.GraphEdgeCreate {
	seen := make(map[[2]string]struct{}, len(edges))
	out := make([]crud.GraphEdgeCreate, 0, len(edges))
	for _, edge := range edges {
		a, b := gerrydb.NormalizePath(edge.PathA), gerrydb.NormalizePath(edge.PathB)
		if b < a {
			a, b = b, a
		}
		key := [2]string{a, b}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, edge)
	}
	return out
}

// ListGraphs returns the current graph versions in the namespace.
func (s *GraphStore) ListGraphs(tx gerrydb.Transaction, nsID gerrydb.NamespaceID) (models.Graphs, error) {
	mt, ok := tx.(*MetaTransaction)
	if !ok {
		return nil, gerrydb.NewErrInvalidTransaction("*sqldb.MetaTransaction")
	}

	graphs := models.Graphs{}
	err := mt.C.Where("namespace_id = ? and valid_to is null", int64(nsID)).All(&graphs)
	if err != nil {
		return nil, errors.Wrap(err, "listing graphs")
	}

	return graphs, nil
}

func (s *GraphStore) GraphEdges(tx gerrydb.Transaction, graphID gerrydb.GraphID) (models.GraphEdges, error) {
	mt, ok := tx.(*MetaTransaction)
	if !ok {
		return nil, gerrydb.NewErrInvalidTransaction("*sqldb.MetaTransaction")
	}

	edges := models.GraphEdges{}
	err := mt.C.Where("graph_id = ?", int64(graphID)).All(&edges)
	if err != nil {
		return nil, errors.Wrap(err, "listing graph edges")
	}

	return edges, nil
}
