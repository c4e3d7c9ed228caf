package sqldb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterrrock2/gerrydb-meta/errors"
	"github.com/peterrrock2/gerrydb-meta/gerrydb"
	"github.com/peterrrock2/gerrydb-meta/gerrydb/crud"
	"github.com/peterrrock2/gerrydb-meta/gerrydb/models"
)

func TestExpandMembers(t *testing.T) {
	mayor := models.Column{ID: 1, CanonicalPath: "mayor"}
	city := models.Column{ID: 2, CanonicalPath: "city"}
	population := models.Column{ID: 3, CanonicalPath: "population"}

	mayorPower := models.ColumnSet{ID: 10, Path: "mayor_power"}
	citySet := models.ColumnSet{ID: 11, Path: "city_set"}

	setColumns := map[int64]models.Columns{
		mayorPower.ID: {mayor, population},
		citySet.ID:    {city},
	}

	t.Run("columns and sets expand", func(t *testing.T) {
		columns, sets, err := expandMembers([]crud.ResolvedMember{
			{Path: "columns/city", Column: &city},
			{Path: "column_sets/mayor_power", ColumnSet: &mayorPower},
		}, setColumns)
		require.NoError(t, err)
		require.Len(t, columns, 1)
		assert.Equal(t, "city", columns[0].CanonicalPath)
		require.Len(t, sets, 1)
		assert.Equal(t, "mayor_power", sets[0].Path)
	})

	t.Run("column listed twice", func(t *testing.T) {
		_, _, err := expandMembers([]crud.ResolvedMember{
			{Path: "columns/city", Column: &city},
			{Path: "columns/city", Column: &city},
		}, setColumns)
		require.Error(t, err)
		assert.True(t, errors.Is(err, gerrydb.ErrColumnDuplicated))
		assert.Contains(t, err.Error(), "the following column was referenced elsewhere")
	})

	t.Run("column listed directly and via set", func(t *testing.T) {
		_, _, err := expandMembers([]crud.ResolvedMember{
			{Path: "columns/city", Column: &city},
			{Path: "column_sets/city_set", ColumnSet: &citySet},
		}, setColumns)
		require.Error(t, err)
		assert.True(t, errors.Is(err, gerrydb.ErrColumnDuplicated))
		assert.Contains(t, err.Error(),
			"in column set 'city_set' that was previously added or appears in another column set")
	})

	t.Run("column in two sets", func(t *testing.T) {
		cityTwin := models.ColumnSet{ID: 12, Path: "city_twin"}
		twinColumns := map[int64]models.Columns{
			citySet.ID:  {city},
			cityTwin.ID: {city},
		}
		_, _, err := expandMembers([]crud.ResolvedMember{
			{Path: "column_sets/city_set", ColumnSet: &citySet},
			{Path: "column_sets/city_twin", ColumnSet: &cityTwin},
		}, twinColumns)
		require.Error(t, err)
		assert.True(t, errors.Is(err, gerrydb.ErrColumnDuplicated))
		assert.Contains(t, err.Error(), "city_twin")
	})

	t.Run("no duplicates across provenances", func(t *testing.T) {
		columns, sets, err := expandMembers([]crud.ResolvedMember{
			{Path: "column_sets/mayor_power", ColumnSet: &mayorPower},
			{Path: "column_sets/city_set", ColumnSet: &citySet},
		}, setColumns)
		require.NoError(t, err)
		assert.Empty(t, columns)
		require.Len(t, sets, 2)
	})
}
