package sqldb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistrictStats(t *testing.T) {
	t.Run("complete plan", func(t *testing.T) {
		num, complete := districtStats(map[string]string{
			"central_atlantis": "1",
			"western_atlantis": "2",
		}, 2)
		assert.Equal(t, 2, num)
		assert.True(t, complete)
	})

	t.Run("partial plan", func(t *testing.T) {
		num, complete := districtStats(map[string]string{
			"western_atlantis": "2",
		}, 2)
		assert.Equal(t, 1, num)
		assert.False(t, complete)
	})

	t.Run("repeated labels collapse", func(t *testing.T) {
		num, complete := districtStats(map[string]string{
			"a": "1",
			"b": "1",
			"c": "2",
		}, 3)
		assert.Equal(t, 2, num)
		assert.True(t, complete)
	})

	t.Run("empty labels do not name districts", func(t *testing.T) {
		num, complete := districtStats(map[string]string{
			"central_atlantis": "1",
			"western_atlantis": "",
		}, 2)
		assert.Equal(t, 1, num)
		assert.True(t, complete)
	})

	t.Run("empty assignment", func(t *testing.T) {
		num, complete := districtStats(nil, 2)
		assert.Equal(t, 0, num)
		assert.False(t, complete)
	})
}

func TestNormalizeAssignments(t *testing.T) {
	t.Run("spellings of one path collapse", func(t *testing.T) {
		got := normalizeAssignments(map[string]string{
			"Central_Atlantis":  "1",
			"central_atlantis":  "1",
			"/western_atlantis": "2",
		})
		assert.Equal(t, map[string]string{
			"central_atlantis": "1",
			"western_atlantis": "2",
		}, got)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, normalizeAssignments(nil))
	})
}
