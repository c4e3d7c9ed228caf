package sqldb_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterrrock2/gerrydb-meta/errors"
	"github.com/peterrrock2/gerrydb-meta/gerrydb"
	"github.com/peterrrock2/gerrydb-meta/gerrydb/crud"
	"github.com/peterrrock2/gerrydb-meta/gerrydb/crud/sqldb"
	"github.com/peterrrock2/gerrydb-meta/gerrydb/models"
	"github.com/peterrrock2/gerrydb-meta/logger"
)

// newTestTx opens a writable transaction against the test database, applying
// migrations first. Every test runs inside one transaction and rolls it back
// on cleanup. Skips when Postgres is unreachable.
func newTestTx(t *testing.T) gerrydb.Transaction {
	t.Helper()

	trans, err := sqldb.Connect(sqldb.GetTestConfig())
	require.NoError(t, err)
	if err := trans.Start(); err != nil {
		t.Skipf("postgres unavailable: %v", err)
	}
	if err := sqldb.MigrateUp(trans); err != nil {
		trans.Close()
		t.Skipf("migrating test database: %v", err)
	}

	tx, err := trans.BeginTx(context.Background(), true)
	require.NoError(t, err)

	t.Cleanup(func() {
		if err := tx.Rollback(); err != nil {
			t.Logf("rolling back: %v", err)
		}
		if err := trans.Close(); err != nil {
			t.Logf("closing: %v", err)
		}
	})

	return tx
}

// atlantis is the shared fixture: namespace "atlantis", locality
// "atlantis_loc" mapped via layer "atlantis_layer" to geographies
// central_atlantis and western_atlantis.
type atlantis struct {
	tx    gerrydb.Transaction
	meta  *models.ObjectMeta
	ns    *models.Namespace
	loc   *models.Locality
	layer *models.GeoLayer
	set   *models.GeoSetVersion
	geos  models.Geographies
}

func newAtlantis(t *testing.T) *atlantis {
	t.Helper()

	tx := newTestTx(t)

	meta, err := sqldb.NewMetaStore(nil).CreateMeta(tx, crud.MetaCreate{
		CreatedBy: "test@example.com",
		Notes:     "test fixture",
	})
	require.NoError(t, err)

	ns, _, err := sqldb.NewNamespaceStore(nil).CreateNamespace(tx, crud.NamespaceCreate{
		Path:        "atlantis",
		Description: "A legendary city.",
		Public:      true,
	}, meta)
	require.NoError(t, err)

	loc, err := sqldb.NewLocalityStore(nil).CreateLocality(tx, crud.LocalityCreate{
		CanonicalPath: "atlantis_loc",
		Name:          "Atlantis",
	}, meta)
	require.NoError(t, err)

	layerStore := sqldb.NewLayerStore(nil)
	layer, _, err := layerStore.CreateLayer(tx, ns, crud.LayerCreate{
		Path:        "atlantis_layer",
		Description: "The legendary city's base layer.",
	}, meta)
	require.NoError(t, err)

	geos, _, err := sqldb.NewGeographyStore(nil).CreateGeographies(tx, ns,
		[]string{"central_atlantis", "western_atlantis"}, nil, meta)
	require.NoError(t, err)

	set, _, err := layerStore.MapLocality(tx, layer, loc, geos, meta)
	require.NoError(t, err)

	return &atlantis{tx: tx, meta: meta, ns: ns, loc: loc, layer: layer, set: set, geos: geos}
}

func TestNamespaceStore(t *testing.T) {
	fx := newAtlantis(t)
	store := sqldb.NewNamespaceStore(nil)

	t.Run("lookup normalizes the path", func(t *testing.T) {
		ns, err := store.NamespaceByPath(fx.tx, "  Atlantis ")
		require.NoError(t, err)
		assert.Equal(t, fx.ns.ID, ns.ID)
	})

	t.Run("duplicate path", func(t *testing.T) {
		_, _, err := store.CreateNamespace(fx.tx, crud.NamespaceCreate{
			Path:        "ATLANTIS",
			Description: "again",
		}, fx.meta)
		require.Error(t, err)
		assert.True(t, errors.Is(err, gerrydb.ErrNamespaceExists))
	})

	t.Run("missing namespace", func(t *testing.T) {
		_, err := store.NamespaceByPath(fx.tx, "lemuria")
		assert.True(t, errors.Is(err, gerrydb.ErrNamespaceNotFound))
	})
}

func TestNamespaceEtag(t *testing.T) {
	fx := newAtlantis(t)
	nsStore := sqldb.NewNamespaceStore(nil)
	columnStore := sqldb.NewColumnStore(nil)

	before, err := nsStore.NamespaceEtag(fx.tx, gerrydb.NamespaceID(fx.ns.ID))
	require.NoError(t, err)

	// Each committed-style mutation strictly advances the token.
	_, etag1, err := columnStore.CreateColumn(fx.tx, fx.ns, crud.ColumnCreate{
		Path:        "population",
		Description: "Total population.",
		Kind:        gerrydb.ColumnKindCount,
		Type:        gerrydb.ColumnTypeInt,
	}, fx.meta)
	require.NoError(t, err)
	assert.True(t, etag1.After(before))

	_, etag2, err := columnStore.CreateColumn(fx.tx, fx.ns, crud.ColumnCreate{
		Path:        "mayor",
		Description: "The city's mayor.",
		Kind:        gerrydb.ColumnKindIdentifier,
		Type:        gerrydb.ColumnTypeStr,
	}, fx.meta)
	require.NoError(t, err)
	assert.True(t, etag2.After(etag1))

	current, err := nsStore.NamespaceEtag(fx.tx, gerrydb.NamespaceID(fx.ns.ID))
	require.NoError(t, err)
	assert.Equal(t, etag2, current)

	// A failed creation does not burn a token: the next success continues
	// the sequence without a gap larger than one.
	_, _, err = columnStore.CreateColumn(fx.tx, fx.ns, crud.ColumnCreate{
		Path:        "population",
		Description: "duplicate",
		Kind:        gerrydb.ColumnKindCount,
		Type:        gerrydb.ColumnTypeInt,
	}, fx.meta)
	require.Error(t, err)

	after, err := nsStore.NamespaceEtag(fx.tx, gerrydb.NamespaceID(fx.ns.ID))
	require.NoError(t, err)
	assert.Equal(t, current, after)
}

func TestColumnStore(t *testing.T) {
	fx := newAtlantis(t)
	store := sqldb.NewColumnStore(nil)

	column, _, err := store.CreateColumn(fx.tx, fx.ns, crud.ColumnCreate{
		Path:        "total_pop",
		Description: "Total population.",
		SourceURL:   "https://example.com/census",
		Kind:        gerrydb.ColumnKindCount,
		Type:        gerrydb.ColumnTypeInt,
		Aliases:     []string{"totpop", "p001001"},
	}, fx.meta)
	require.NoError(t, err)

	t.Run("lookup by canonical path and alias", func(t *testing.T) {
		for _, ref := range []string{"total_pop", "totpop", "P001001"} {
			got, err := store.ColumnByRef(fx.tx, gerrydb.NamespaceID(fx.ns.ID), ref)
			require.NoError(t, err, "ref %q", ref)
			assert.Equal(t, column.ID, got.ID)
		}
	})

	t.Run("update seals and replaces the current version", func(t *testing.T) {
		v1, err := store.CurrentColumnVersion(fx.tx, gerrydb.ColumnID(column.ID))
		require.NoError(t, err)
		assert.Equal(t, "Total population.", v1.Description)

		v2, _, err := store.UpdateColumn(fx.tx, fx.ns, column, crud.ColumnPatch{
			Description: "Total population (2020 census).",
		}, fx.meta)
		require.NoError(t, err)
		assert.NotEqual(t, v1.ID, v2.ID)

		current, err := store.CurrentColumnVersion(fx.tx, gerrydb.ColumnID(column.ID))
		require.NoError(t, err)
		assert.Equal(t, v2.ID, current.ID)
		assert.Equal(t, "Total population (2020 census).", current.Description)
	})

	t.Run("duplicate canonical path", func(t *testing.T) {
		_, _, err := store.CreateColumn(fx.tx, fx.ns, crud.ColumnCreate{
			Path:        "Total_Pop",
			Description: "again",
			Kind:        gerrydb.ColumnKindCount,
			Type:        gerrydb.ColumnTypeInt,
		}, fx.meta)
		require.Error(t, err)
		assert.True(t, errors.Is(err, gerrydb.ErrPathExists))
	})

	t.Run("duplicate alias", func(t *testing.T) {
		_, _, err := store.CreateColumn(fx.tx, fx.ns, crud.ColumnCreate{
			Path:        "other_pop",
			Description: "other",
			Kind:        gerrydb.ColumnKindCount,
			Type:        gerrydb.ColumnTypeInt,
			Aliases:     []string{"totpop"},
		}, fx.meta)
		require.Error(t, err)
		assert.True(t, errors.Is(err, gerrydb.ErrPathExists))
	})
}

func TestLocalityStore(t *testing.T) {
	fx := newAtlantis(t)
	store := sqldb.NewLocalityStore(nil)

	loc, err := store.CreateLocality(fx.tx, crud.LocalityCreate{
		CanonicalPath: "pacifica",
		Name:          "Pacifica",
		ParentPath:    "atlantis_loc",
		Aliases:       []string{"pa"},
	}, fx.meta)
	require.NoError(t, err)
	assert.Equal(t, fx.loc.ID, loc.ParentID.Int64)

	got, err := store.LocalityByPath(fx.tx, "pa")
	require.NoError(t, err)
	assert.Equal(t, loc.ID, got.ID)

	_, err = store.CreateLocality(fx.tx, crud.LocalityCreate{
		CanonicalPath: "pacifica",
		Name:          "Pacifica again",
	}, fx.meta)
	require.Error(t, err)
	assert.True(t, errors.Is(err, gerrydb.ErrPathExists))
}

func TestPlanStore(t *testing.T) {
	t.Run("complete plan", func(t *testing.T) {
		fx := newAtlantis(t)
		store := sqldb.NewPlanStore(nil)

		plan, etag, err := store.CreatePlan(fx.tx, fx.ns, crud.PlanCreate{
			Path:        "atlantis_plan",
			Description: "A districting plan for Atlantis.",
			Locality:    "atlantis_loc",
			Layer:       "atlantis_layer",
			Assignments: map[string]string{
				"central_atlantis": "1",
				"western_atlantis": "2",
			},
		}, fx.meta)
		require.NoError(t, err)
		assert.Equal(t, 2, plan.NumDistricts)
		assert.True(t, plan.Complete)
		assert.Equal(t, fx.set.ID, plan.SetVersionID)
		assert.True(t, etag.After(0))

		assignments, err := store.PlanAssignments(fx.tx, gerrydb.PlanID(plan.ID))
		require.NoError(t, err)
		assert.Len(t, assignments, 2)
	})

	t.Run("partial plan is legal", func(t *testing.T) {
		fx := newAtlantis(t)
		store := sqldb.NewPlanStore(nil)

		plan, _, err := store.CreatePlan(fx.tx, fx.ns, crud.PlanCreate{
			Path:        "western_only",
			Description: "Only the west.",
			Locality:    "atlantis_loc",
			Layer:       "atlantis_layer",
			Assignments: map[string]string{"western_atlantis": "2"},
		}, fx.meta)
		require.NoError(t, err)
		assert.Equal(t, 1, plan.NumDistricts)
		assert.False(t, plan.Complete)
	})

	t.Run("geography outside the set", func(t *testing.T) {
		fx := newAtlantis(t)
		store := sqldb.NewPlanStore(nil)

		// northern_atlantis exists but is not mapped into the set.
		_, _, err := sqldb.NewGeographyStore(nil).CreateGeographies(fx.tx, fx.ns,
			[]string{"northern_atlantis"}, nil, fx.meta)
		require.NoError(t, err)

		_, _, err = store.CreatePlan(fx.tx, fx.ns, crud.PlanCreate{
			Path:        "bad_plan",
			Description: "Reaches too far north.",
			Locality:    "atlantis_loc",
			Layer:       "atlantis_layer",
			Assignments: map[string]string{
				"central_atlantis":  "1",
				"western_atlantis":  "2",
				"northern_atlantis": "3",
			},
		}, fx.meta)
		require.Error(t, err)
		assert.True(t, errors.Is(err, gerrydb.ErrGeosNotInSet))

		var notInSet gerrydb.GeosNotInSetError
		require.True(t, errors.As(err, &notInSet))
		assert.Equal(t, []string{"northern_atlantis"}, notInSet.Paths)
	})

	t.Run("unresolved assignment paths are batch reported", func(t *testing.T) {
		fx := newAtlantis(t)
		store := sqldb.NewPlanStore(nil)

		_, _, err := store.CreatePlan(fx.tx, fx.ns, crud.PlanCreate{
			Path:        "ghost_plan",
			Description: "References nothing real.",
			Locality:    "atlantis_loc",
			Layer:       "atlantis_layer",
			Assignments: map[string]string{
				"eastern_atlantis":  "1",
				"southern_atlantis": "2",
			},
		}, fx.meta)
		require.Error(t, err)
		assert.True(t, errors.Is(err, gerrydb.ErrPathsUnresolved))

		var unresolved gerrydb.PathsUnresolvedError
		require.True(t, errors.As(err, &unresolved))
		assert.Equal(t, []string{"eastern_atlantis", "southern_atlantis"}, unresolved.Paths)
	})

	t.Run("duplicate canonical path", func(t *testing.T) {
		fx := newAtlantis(t)
		log := logger.NewBufferLogger()
		store := sqldb.NewPlanStore(log)

		pc := crud.PlanCreate{
			Path:        "atlantis_plan",
			Description: "First.",
			Locality:    "atlantis_loc",
			Layer:       "atlantis_layer",
			Assignments: map[string]string{"central_atlantis": "1"},
		}
		_, _, err := store.CreatePlan(fx.tx, fx.ns, pc, fx.meta)
		require.NoError(t, err)

		_, _, err = store.CreatePlan(fx.tx, fx.ns, pc, fx.meta)
		require.Error(t, err)
		assert.True(t, errors.Is(err, gerrydb.ErrPathExists))
		assert.Contains(t, err.Error(),
			"Failed to create canonical path to new districting plan")

		// The collision is logged with its context before being surfaced.
		logged, rerr := log.ReadAll()
		require.NoError(t, rerr)
		assert.Contains(t, string(logged), "failed to create plan at atlantis_plan")

		// The savepoint rollback leaves the transaction usable.
		pc.Path = "atlantis_plan_2"
		_, _, err = store.CreatePlan(fx.tx, fx.ns, pc, fx.meta)
		require.NoError(t, err)
	})

	t.Run("assignment keys collapse by normalized path", func(t *testing.T) {
		fx := newAtlantis(t)
		store := sqldb.NewPlanStore(nil)

		plan, _, err := store.CreatePlan(fx.tx, fx.ns, crud.PlanCreate{
			Path:        "cased_plan",
			Description: "Two spellings of one geography.",
			Locality:    "atlantis_loc",
			Layer:       "atlantis_layer",
			Assignments: map[string]string{
				"Central_Atlantis": "1",
				"central_atlantis": "1",
				"western_atlantis": "2",
			},
		}, fx.meta)
		require.NoError(t, err)
		assert.Equal(t, 2, plan.NumDistricts)
		assert.True(t, plan.Complete)

		assignments, err := store.PlanAssignments(fx.tx, gerrydb.PlanID(plan.ID))
		require.NoError(t, err)
		assert.Len(t, assignments, 2)
	})

	t.Run("per-locality cap", func(t *testing.T) {
		if testing.Short() {
			t.Skip("skipping 100-plan cap test in short mode")
		}

		fx := newAtlantis(t)
		store := sqldb.NewPlanStore(nil)

		for i := 0; i < 100; i++ {
			_, _, err := store.CreatePlan(fx.tx, fx.ns, crud.PlanCreate{
				Path:        fmt.Sprintf("plan_%02d", i),
				Description: "One of many.",
				Locality:    "atlantis_loc",
				Layer:       "atlantis_layer",
				Assignments: map[string]string{"central_atlantis": "1"},
			}, fx.meta)
			require.NoError(t, err, "plan %d", i)
		}

		_, _, err := store.CreatePlan(fx.tx, fx.ns, crud.PlanCreate{
			Path:        "one_too_many",
			Description: "The 101st.",
			Locality:    "atlantis_loc",
			Layer:       "atlantis_layer",
			Assignments: map[string]string{"central_atlantis": "1"},
		}, fx.meta)
		require.Error(t, err)
		assert.True(t, errors.Is(err, gerrydb.ErrPlanLimit))
		assert.Contains(t, err.Error(),
			"The maximum number of plans (100) has already been reached for locality")
	})
}

func TestGraphStore(t *testing.T) {
	t.Run("create and read back", func(t *testing.T) {
		fx := newAtlantis(t)
		store := sqldb.NewGraphStore(nil)

		graph, etag, err := store.CreateGraph(fx.tx, fx.ns, crud.GraphCreate{
			Path:        "atlantis_dual",
			Description: "Dual graph of Atlantis.",
			Locality:    "atlantis_loc",
			Layer:       "atlantis_layer",
			Geographies: []string{"central_atlantis", "western_atlantis"},
			Edges: []crud.GraphEdgeCreate{
				{PathA: "central_atlantis", PathB: "western_atlantis", Weights: `{"shared_perim": 4.0}`},
			},
		}, fx.meta)
		require.NoError(t, err)
		assert.Equal(t, fx.set.ID, graph.SetVersionID)
		assert.True(t, etag.After(0))

		edges, err := store.GraphEdges(fx.tx, gerrydb.GraphID(graph.ID))
		require.NoError(t, err)
		require.Len(t, edges, 1)
	})

	t.Run("node geography outside the set", func(t *testing.T) {
		fx := newAtlantis(t)
		store := sqldb.NewGraphStore(nil)

		_, _, err := sqldb.NewGeographyStore(nil).CreateGeographies(fx.tx, fx.ns,
			[]string{"northern_atlantis"}, nil, fx.meta)
		require.NoError(t, err)

		_, _, err = store.CreateGraph(fx.tx, fx.ns, crud.GraphCreate{
			Path:        "bad_dual",
			Description: "Includes an unmapped node.",
			Locality:    "atlantis_loc",
			Layer:       "atlantis_layer",
			Geographies: []string{"central_atlantis", "western_atlantis", "northern_atlantis"},
		}, fx.meta)
		require.Error(t, err)
		assert.True(t, errors.Is(err, gerrydb.ErrGeosNotInSet))
		assert.Contains(t, err.Error(),
			"Geographies not associated with locality and layer")
	})

	t.Run("edge endpoint not among the nodes", func(t *testing.T) {
		fx := newAtlantis(t)
		store := sqldb.NewGraphStore(nil)

		_, _, err := store.CreateGraph(fx.tx, fx.ns, crud.GraphCreate{
			Path:        "dangling_dual",
			Description: "Edge names a geography outside the node list.",
			Locality:    "atlantis_loc",
			Layer:       "atlantis_layer",
			Geographies: []string{"central_atlantis"},
			Edges: []crud.GraphEdgeCreate{
				{PathA: "central_atlantis", PathB: "western_atlantis"},
			},
		}, fx.meta)
		require.Error(t, err)
		assert.True(t, errors.Is(err, gerrydb.ErrEdgeGeosMissing))
		assert.Contains(t, err.Error(), "Missing edge geographies: western_atlantis")
	})

	t.Run("repeated edges collapse", func(t *testing.T) {
		fx := newAtlantis(t)
		store := sqldb.NewGraphStore(nil)

		graph, _, err := store.CreateGraph(fx.tx, fx.ns, crud.GraphCreate{
			Path:        "repeat_dual",
			Description: "Declares one adjacency three ways.",
			Locality:    "atlantis_loc",
			Layer:       "atlantis_layer",
			Geographies: []string{"central_atlantis", "western_atlantis"},
			Edges: []crud.GraphEdgeCreate{
				{PathA: "central_atlantis", PathB: "western_atlantis"},
				{PathA: "Central_Atlantis", PathB: "western_atlantis"},
				{PathA: "western_atlantis", PathB: "central_atlantis"},
			},
		}, fx.meta)
		require.NoError(t, err)

		edges, err := store.GraphEdges(fx.tx, gerrydb.GraphID(graph.ID))
		require.NoError(t, err)
		assert.Len(t, edges, 1)
	})

	t.Run("duplicate canonical path", func(t *testing.T) {
		fx := newAtlantis(t)
		store := sqldb.NewGraphStore(nil)

		gc := crud.GraphCreate{
			Path:        "atlantis_dual",
			Description: "First.",
			Locality:    "atlantis_loc",
			Layer:       "atlantis_layer",
			Geographies: []string{"central_atlantis", "western_atlantis"},
		}
		_, _, err := store.CreateGraph(fx.tx, fx.ns, gc, fx.meta)
		require.NoError(t, err)

		_, _, err = store.CreateGraph(fx.tx, fx.ns, gc, fx.meta)
		require.Error(t, err)
		assert.True(t, errors.Is(err, gerrydb.ErrPathExists))
		assert.Contains(t, err.Error(), "Failed to create new graph")
	})
}

// newCityColumns builds the column/column-set fixture used by the view
// template tests: mayor, city, and population columns; "mayor_power" =
// {mayor, population}; "city_set" = {city}.
func newCityColumns(t *testing.T, fx *atlantis) {
	t.Helper()

	columnStore := sqldb.NewColumnStore(nil)
	for _, cc := range []crud.ColumnCreate{
		{Path: "mayor", Description: "The mayor.", Kind: gerrydb.ColumnKindIdentifier, Type: gerrydb.ColumnTypeStr},
		{Path: "city", Description: "The city.", Kind: gerrydb.ColumnKindIdentifier, Type: gerrydb.ColumnTypeStr},
		{Path: "population", Description: "Total population.", Kind: gerrydb.ColumnKindCount, Type: gerrydb.ColumnTypeInt},
	} {
		_, _, err := columnStore.CreateColumn(fx.tx, fx.ns, cc, fx.meta)
		require.NoError(t, err)
	}

	setStore := sqldb.NewColumnSetStore(nil)
	for _, csc := range []crud.ColumnSetCreate{
		{Path: "mayor_power", Description: "Mayoral power.", Columns: []string{"mayor", "population"}},
		{Path: "city_set", Description: "Just the city.", Columns: []string{"city"}},
	} {
		_, _, err := setStore.CreateColumnSet(fx.tx, fx.ns, csc, fx.meta)
		require.NoError(t, err)
	}
}

func TestColumnSetStore(t *testing.T) {
	fx := newAtlantis(t)
	newCityColumns(t, fx)
	store := sqldb.NewColumnSetStore(nil)

	t.Run("members in order", func(t *testing.T) {
		set, err := store.ColumnSetByPath(fx.tx, gerrydb.NamespaceID(fx.ns.ID), "mayor_power")
		require.NoError(t, err)

		columns, err := store.ColumnSetMembers(fx.tx, gerrydb.ColumnSetID(set.ID))
		require.NoError(t, err)
		require.Len(t, columns, 2)
		assert.Equal(t, "mayor", columns[0].CanonicalPath)
		assert.Equal(t, "population", columns[1].CanonicalPath)
	})

	t.Run("duplicate member", func(t *testing.T) {
		_, _, err := store.CreateColumnSet(fx.tx, fx.ns, crud.ColumnSetCreate{
			Path:        "mayor_twice",
			Description: "Lists the mayor twice.",
			Columns:     []string{"mayor", "mayor"},
		}, fx.meta)
		require.Error(t, err)
		assert.True(t, errors.Is(err, gerrydb.ErrColumnDuplicated))
	})

	t.Run("unresolved members are batch reported", func(t *testing.T) {
		_, _, err := store.CreateColumnSet(fx.tx, fx.ns, crud.ColumnSetCreate{
			Path:        "ghost_set",
			Description: "References nothing real.",
			Columns:     []string{"governor", "senate"},
		}, fx.meta)
		require.Error(t, err)

		var unresolved gerrydb.PathsUnresolvedError
		require.True(t, errors.As(err, &unresolved))
		assert.Equal(t, []string{"governor", "senate"}, unresolved.Paths)
	})
}

func TestViewTemplateStore(t *testing.T) {
	t.Run("columns and sets persist", func(t *testing.T) {
		fx := newAtlantis(t)
		newCityColumns(t, fx)
		store := sqldb.NewViewTemplateStore(nil)

		template, etag, err := store.CreateViewTemplate(fx.tx, fx.ns, crud.ViewTemplateCreate{
			Path:        "city_overview",
			Description: "City plus mayoral power.",
			Members:     []string{"columns/city", "column_sets/mayor_power"},
		}, fx.meta)
		require.NoError(t, err)
		assert.True(t, etag.After(0))

		got, err := store.ViewTemplateByPath(fx.tx, gerrydb.NamespaceID(fx.ns.ID), "city_overview")
		require.NoError(t, err)
		assert.Equal(t, template.ID, got.ID)
	})

	t.Run("duplicate column via set", func(t *testing.T) {
		fx := newAtlantis(t)
		newCityColumns(t, fx)
		store := sqldb.NewViewTemplateStore(nil)

		_, _, err := store.CreateViewTemplate(fx.tx, fx.ns, crud.ViewTemplateCreate{
			Path:        "double_city",
			Description: "Lists city twice.",
			Members:     []string{"columns/city", "column_sets/city_set"},
		}, fx.meta)
		require.Error(t, err)
		assert.True(t, errors.Is(err, gerrydb.ErrColumnDuplicated))
		assert.Contains(t, err.Error(),
			"in column set 'city_set' that was previously added or appears in another column set")
	})

	t.Run("member of the wrong kind", func(t *testing.T) {
		fx := newAtlantis(t)
		newCityColumns(t, fx)
		store := sqldb.NewViewTemplateStore(nil)

		_, _, err := store.CreateViewTemplate(fx.tx, fx.ns, crud.ViewTemplateCreate{
			Path:        "geo_template",
			Description: "Tries to list a geography.",
			Members:     []string{"geographies/central_atlantis"},
		}, fx.meta)
		require.Error(t, err)
		assert.True(t, errors.Is(err, gerrydb.ErrInvalidMember))
		assert.Contains(t, err.Error(),
			"View templates may only contain columns and column sets.")
	})
}

func TestListCurrentVersions(t *testing.T) {
	fx := newAtlantis(t)
	newCityColumns(t, fx)
	nsID := gerrydb.NamespaceID(fx.ns.ID)

	layers, err := sqldb.NewLayerStore(nil).ListLayers(fx.tx, nsID)
	require.NoError(t, err)
	require.Len(t, layers, 1)
	assert.Equal(t, "atlantis_layer", layers[0].Path)

	columns, err := sqldb.NewColumnStore(nil).ListColumns(fx.tx, nsID)
	require.NoError(t, err)
	assert.Len(t, columns, 3)

	sets, err := sqldb.NewColumnSetStore(nil).ListColumnSets(fx.tx, nsID)
	require.NoError(t, err)
	assert.Len(t, sets, 2)

	planStore := sqldb.NewPlanStore(nil)
	_, _, err = planStore.CreatePlan(fx.tx, fx.ns, crud.PlanCreate{
		Path:        "atlantis_plan",
		Description: "A districting plan for Atlantis.",
		Locality:    "atlantis_loc",
		Layer:       "atlantis_layer",
		Assignments: map[string]string{"central_atlantis": "1"},
	}, fx.meta)
	require.NoError(t, err)

	plans, err := planStore.ListPlans(fx.tx, nsID)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "atlantis_plan", plans[0].Path)

	graphStore := sqldb.NewGraphStore(nil)
	_, _, err = graphStore.CreateGraph(fx.tx, fx.ns, crud.GraphCreate{
		Path:        "atlantis_dual",
		Description: "Dual graph of Atlantis.",
		Locality:    "atlantis_loc",
		Layer:       "atlantis_layer",
		Geographies: []string{"central_atlantis", "western_atlantis"},
	}, fx.meta)
	require.NoError(t, err)

	graphs, err := graphStore.ListGraphs(fx.tx, nsID)
	require.NoError(t, err)
	require.Len(t, graphs, 1)
	assert.Equal(t, "atlantis_dual", graphs[0].Path)

	templateStore := sqldb.NewViewTemplateStore(nil)
	_, _, err = templateStore.CreateViewTemplate(fx.tx, fx.ns, crud.ViewTemplateCreate{
		Path:        "city_overview",
		Description: "City plus mayoral power.",
		Members:     []string{"columns/city", "column_sets/mayor_power"},
	}, fx.meta)
	require.NoError(t, err)

	templates, err := templateStore.ListViewTemplates(fx.tx, nsID)
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.Equal(t, "city_overview", templates[0].Path)
}

func TestMapLocalitySealsPreviousVersion(t *testing.T) {
	fx := newAtlantis(t)
	layerStore := sqldb.NewLayerStore(nil)

	// Remap the locality to central_atlantis only; the fixture's snapshot
	// gets sealed and a successor becomes current.
	newSet, _, err := layerStore.MapLocality(fx.tx, fx.layer, fx.loc,
		fx.geos[:1], fx.meta)
	require.NoError(t, err)
	assert.NotEqual(t, fx.set.ID, newSet.ID)

	current, err := layerStore.SetByLocalityLayer(fx.tx, fx.loc, fx.layer)
	require.NoError(t, err)
	assert.Equal(t, newSet.ID, current.ID)

	// A plan created now validates against the new, smaller membership.
	_, _, err = sqldb.NewPlanStore(nil).CreatePlan(fx.tx, fx.ns, crud.PlanCreate{
		Path:        "stale_plan",
		Description: "References a geography no longer in the set.",
		Locality:    "atlantis_loc",
		Layer:       "atlantis_layer",
		Assignments: map[string]string{"western_atlantis": "1"},
	}, fx.meta)
	require.Error(t, err)
	assert.True(t, errors.Is(err, gerrydb.ErrGeosNotInSet))
}
