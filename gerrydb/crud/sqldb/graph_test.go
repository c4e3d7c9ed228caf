package sqldb

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/peterrrock2/gerrydb-meta/gerrydb/crud"
)

func TestDedupeEdges(t *testing.T) {
	t.Run("distinct edges pass through", func(t *testing.T) {
		edges := dedupeEdges([]crud.GraphEdgeCreate{
			{PathA: "central_atlantis", PathB: "western_atlantis"},
			{PathA: "western_atlantis", PathB: "northern_atlantis"},
		})
		assert.Len(t, edges, 2)
	})

	t.Run("case and endpoint order collapse", func(t *testing.T) {
		edges := dedupeEdges([]crud.GraphEdgeCreate{
			{PathA: "central_atlantis", PathB: "western_atlantis", Weights: `{"shared_perim": 4.0}`},
			{PathA: "Central_Atlantis", PathB: "western_atlantis"},
			{PathA: "western_atlantis", PathB: "central_atlantis"},
		})
		assert.Len(t, edges, 1)

		// The first declaration wins.
		assert.Equal(t, "central_atlantis", edges[0].PathA)
		assert.Equal(t, `{"shared_perim": 4.0}`, edges[0].Weights)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, dedupeEdges(nil))
	})
}
