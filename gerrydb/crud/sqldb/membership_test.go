package sqldb

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/peterrrock2/gerrydb-meta/gerrydb/models"
)

func TestDiffMembership(t *testing.T) {
	members := map[int64]struct{}{1: {}, 2: {}}

	central := &models.Geography{ID: 1, Path: "central_atlantis"}
	western := &models.Geography{ID: 2, Path: "western_atlantis"}
	northern := &models.Geography{ID: 3, Path: "northern_atlantis"}

	t.Run("subset passes", func(t *testing.T) {
		offending := diffMembership(members, []*models.Geography{central, western})
		assert.Empty(t, offending)
	})

	t.Run("every offender reported", func(t *testing.T) {
		outer := &models.Geography{ID: 4, Path: "outer_atlantis"}
		offending := diffMembership(members,
			[]*models.Geography{central, northern, outer})
		assert.ElementsMatch(t, []string{"northern_atlantis", "outer_atlantis"}, offending)
	})

	t.Run("empty candidates", func(t *testing.T) {
		assert.Empty(t, diffMembership(members, nil))
	})
}
