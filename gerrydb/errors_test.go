package gerrydb_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterrrock2/gerrydb-meta/errors"
	"github.com/peterrrock2/gerrydb-meta/gerrydb"
)

func TestDomainErrors(t *testing.T) {
	t.Run("PathsUnresolved", func(t *testing.T) {
		err := gerrydb.NewErrPathsUnresolved(gerrydb.KindGeography,
			[]string{"western_atlantis", "central_atlantis"})
		assert.True(t, errors.Is(err, gerrydb.ErrPathsUnresolved))

		var pu gerrydb.PathsUnresolvedError
		require.True(t, errors.As(err, &pu))
		// Paths are sorted for deterministic messages.
		assert.Equal(t, []string{"central_atlantis", "western_atlantis"}, pu.Paths)
		assert.Contains(t, err.Error(), "central_atlantis, western_atlantis")
	})

	t.Run("PlanGeosNotInSet", func(t *testing.T) {
		err := gerrydb.NewErrPlanGeosNotInSet("atlantis_loc", "atlantis_layer",
			[]string{"northern_atlantis"})
		assert.True(t, errors.Is(err, gerrydb.ErrGeosNotInSet))
		assert.Contains(t, err.Error(),
			"Some geographies in the assignment are not in the set defined by locality")
		assert.Contains(t, err.Error(), "northern_atlantis")

		var ns gerrydb.GeosNotInSetError
		require.True(t, errors.As(err, &ns))
		assert.Equal(t, []string{"northern_atlantis"}, ns.Paths)
	})

	t.Run("GraphGeosNotInSet", func(t *testing.T) {
		err := gerrydb.NewErrGraphGeosNotInSet([]string{"northern_atlantis"})
		assert.True(t, errors.Is(err, gerrydb.ErrGeosNotInSet))
		assert.Contains(t, err.Error(),
			"Geographies not associated with locality and layer")
	})

	t.Run("EdgeGeosMissing", func(t *testing.T) {
		err := gerrydb.NewErrEdgeGeosMissing([]string{"northern_atlantis"})
		assert.True(t, errors.Is(err, gerrydb.ErrEdgeGeosMissing))
		assert.Contains(t, err.Error(),
			"Passed edge geographies do not match the geographies associated with the underlying graph")
		assert.Contains(t, err.Error(), "Missing edge geographies: northern_atlantis")
	})

	t.Run("PlanLimit", func(t *testing.T) {
		err := gerrydb.NewErrPlanLimit("atlantis_loc", 100)
		assert.True(t, errors.Is(err, gerrydb.ErrPlanLimit))
		assert.Contains(t, err.Error(),
			"Failed to create a plan object. The maximum number of plans (100) "+
				"has already been reached for locality")
	})

	t.Run("PlanPathExists", func(t *testing.T) {
		err := gerrydb.NewErrPlanPathExists()
		assert.True(t, errors.Is(err, gerrydb.ErrPathExists))
		assert.Contains(t, err.Error(),
			"Failed to create canonical path to new districting plan")
	})

	t.Run("GraphPathExists", func(t *testing.T) {
		err := gerrydb.NewErrGraphPathExists()
		assert.True(t, errors.Is(err, gerrydb.ErrPathExists))
		assert.Contains(t, err.Error(),
			"Failed to create new graph. (The path(s) may already exist.)")
	})

	t.Run("ColumnDuplicated", func(t *testing.T) {
		direct := gerrydb.NewErrColumnDuplicated("city")
		assert.True(t, errors.Is(direct, gerrydb.ErrColumnDuplicated))
		assert.Contains(t, direct.Error(),
			"the following column was referenced elsewhere")

		viaSet := gerrydb.NewErrColumnDuplicatedInSet("city", "city_set")
		assert.True(t, errors.Is(viaSet, gerrydb.ErrColumnDuplicated))
		assert.Contains(t, viaSet.Error(),
			"in column set 'city_set' that was previously added or appears in another column set")
	})

	t.Run("InvalidMember", func(t *testing.T) {
		err := gerrydb.NewErrInvalidMember("geographies/central_atlantis")
		assert.True(t, errors.Is(err, gerrydb.ErrInvalidMember))
		assert.Contains(t, err.Error(),
			"View templates may only contain columns and column sets.")
	})

	t.Run("wrapped errors keep their code", func(t *testing.T) {
		err := errors.Wrap(gerrydb.NewErrPlanLimit("atlantis_loc", 100), "creating plan")
		assert.True(t, errors.Is(err, gerrydb.ErrPlanLimit))
		assert.False(t, errors.Is(err, gerrydb.ErrPathExists))
	})
}

func TestEtagOrdering(t *testing.T) {
	a, b := gerrydb.Etag(41), gerrydb.Etag(42)
	assert.True(t, b.After(a))
	assert.False(t, a.After(b))
	assert.False(t, a.After(a))
	assert.Equal(t, "000000000000002a", b.String())
}
