package sqldb

import (
	"github.com/peterrrock2/gerrydb-meta/errors"
	"github.com/peterrrock2/gerrydb-meta/gerrydb/models"
)

// geoSetMemberIDs reads the full membership of a snapshot at the current
// transaction snapshot.
func geoSetMemberIDs(mt *MetaTransaction, setVersionID int64) (map[int64]struct{}, error) {
	members := models.GeoSetMembers{}
	err := mt.C.Where("set_version_id = ?", setVersionID).All(&members)
	if err != nil {
		return nil, errors.Wrap(err, "reading geo set members")
	}

	ids := make(map[int64]struct{}, len(members))
	for _, m := range members {
		ids[m.GeoID] = struct{}{}
	}

	return ids, nil
}

// diffMembership returns the paths of candidate geographies that are not in
// the member set. Every offender is collected, never just the first.
func diffMembership(members map[int64]struct{}, geos []*models.Geography) []string {
	var offending []string
	for _, geo := range geos {
		if _, ok := members[geo.ID]; !ok {
			offending = append(offending, geo.Path)
		}
	}
	return offending
}
