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

// maxPlansPerLocality caps how many current plans one locality may own. A
// resource-exhaustion guard, not a business invariant.
const maxPlansPerLocality = 100

func NewPlanStore(log logger.Logger) crud.PlanStore {
	if log == nil {
		log = logger.NopLogger
	}
	return &PlanStore{
		log: log,
	}
}

type PlanStore struct {
	log logger.Logger
}

func (s *PlanStore) CreatePlan(tx gerrydb.Transaction, ns *models.Namespace, pc crud.PlanCreate, meta *models.ObjectMeta) (*models.Plan, gerrydb.Etag, error) {
	mt, ok := tx.(*MetaTransaction)
	if !ok {
		return nil, 0, gerrydb.NewErrInvalidTransaction("*sqldb.MetaTransaction")
	}

	if err := lockNamespace(mt, gerrydb.NamespaceID(ns.ID)); err != nil {
		return nil, 0, err
	}

	locality, err := localityByPath(mt, pc.Locality)
	if err != nil {
		return nil, 0, err
	}
	layer, err := layerByPath(mt, gerrydb.NamespaceID(ns.ID), pc.Layer)
	if err != nil {
		return nil, 0, err
	}
	set, err := setByLocalityLayer(mt, locality, layer)
	if err != nil {
		return nil, 0, err
	}

	// Resolve every assignment key to a geography, batch-reporting misses.
	assignments := normalizeAssignments(pc.Assignments)
	paths := make([]string, 0, len(assignments))
	for path := range assignments {
		paths = append(paths, path)
	}
	resolved, err := resolveGeographies(mt, gerrydb.NamespaceID(ns.ID), paths)
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
		return nil, 0, gerrydb.NewErrPlanGeosNotInSet(
			locality.CanonicalPath, layer.Path, offending)
	}

	// The locality row lock serializes the count below against concurrent
	// creators; without it two transactions could both observe 99 plans.
	if err := lockLocality(mt, locality.ID); err != nil {
		return nil, 0, err
	}
	count, err := mt.C.Where("locality_id = ? and valid_to is null", locality.ID).
		Count(&models.Plan{})
	if err != nil {
		return nil, 0, errors.Wrap(err, "counting plans for locality")
	}
	if count >= maxPlansPerLocality {
		return nil, 0, gerrydb.NewErrPlanLimit(locality.CanonicalPath, maxPlansPerLocality)
	}

	numDistricts, complete := districtStats(assignments, len(members))

	sp, err := mt.Savepoint()
	if err != nil {
		return nil, 0, err
	}

	plan := &models.Plan{
		NamespaceID:  ns.ID,
		Path:         gerrydb.NormalizePath(pc.Path),
		Description:  pc.Description,
		LocalityID:   locality.ID,
		LayerID:      layer.ID,
		SetVersionID: set.ID,
		NumDistricts: numDistricts,
		Complete:     complete,
		MetaID:       meta.ID,
		ValidFrom:    time.Now().UTC(),
	}
	if pc.SourceURL != "" {
		plan.SourceURL = nulls.NewString(pc.SourceURL)
	}
	if pc.DistrictrID != "" {
		plan.DistrictrID = nulls.NewString(pc.DistrictrID)
	}
	if pc.DavesID != "" {
		plan.DavesID = nulls.NewString(pc.DavesID)
	}

	if err := mt.C.Create(plan); err != nil {
		if isViolatesUniqueConstraint(err) {
			if rerr := mt.RollbackTo(sp); rerr != nil {
				return nil, 0, rerr
			}
			s.log.Errorf("failed to create plan at %s: %v", plan.Path, err)
			return nil, 0, gerrydb.NewErrPlanPathExists()
		}
		s.log.Errorf("creating plan at %s: %v", plan.Path, err)
		return nil, 0, errors.Wrap(err, "creating plan")
	}

	for path, label := range assignments {
		assignment := &models.PlanAssignment{
			PlanID:     plan.ID,
			GeoID:      resolved[path].ID,
			Assignment: nulls.NewString(label),
		}
		if err := mt.C.Create(assignment); err != nil {
			s.log.Errorf("creating plan assignment for %s: %v", path, err)
			return nil, 0, errors.Wrap(err, "creating plan assignment")
		}
	}

	if err := mt.Release(sp); err != nil {
		return nil, 0, err
	}

	etag, err := advanceEtag(mt, gerrydb.NamespaceID(ns.ID))
	if err != nil {
		return nil, 0, err
	}

	return plan, etag, nil
}

func (s *PlanStore) PlanByPath(tx gerrydb.Transaction, nsID gerrydb.NamespaceID, path string) (*models.Plan, error) {
	mt, ok := tx.(*MetaTransaction)
	if !ok {
		return nil, gerrydb.NewErrInvalidTransaction("*sqldb.MetaTransaction")
	}

	path = gerrydb.NormalizePath(path)

	plan := &models.Plan{}
	err := mt.C.Where("namespace_id = ? and path = ? and valid_to is null",
		int64(nsID), path).First(plan)
	if isNoRowsError(err) {
		return nil, gerrydb.NewErrPathsUnresolved(gerrydb.KindPlan, []string{path})
	} else if err != nil {
		return nil, errors.Wrap(err, "finding plan")
	}

	return plan, nil
}

func (s *PlanStore) PlanAssignments(tx gerrydb.Transaction, planID gerrydb.PlanID) (models.PlanAssignments, error) {
	mt, ok := tx.(*MetaTransaction)
	if !ok {
		return nil, gerrydb.NewErrInvalidTransaction("*sqldb.MetaTransaction")
	}

	assignments := models.PlanAssignments{}
	err := mt.C.Where("plan_id = ?", int64(planID)).All(&assignments)
	if err != nil {
		return nil, errors.Wrap(err, "listing plan assignments")
	}

	return assignments, nil
}

// ListPlans returns the current plan versions in the namespace.
func (s *PlanStore) ListPlans(tx gerrydb.Transaction, nsID gerrydb.NamespaceID) (models.Plans, error) {
	mt, ok := tx.(*MetaTransaction)
	if !ok {
		return nil, gerrydb.NewErrInvalidTransaction("*sqldb.MetaTransaction")
	}

	plans := models.Plans{}
	err := mt.C.Where("namespace_id = ? and valid_to is null", int64(nsID)).All(&plans)
	if err != nil {
		return nil, errors.Wrap(err, "listing plans")
	}

	return plans, nil
}

// normalizeAssignments collapses raw assignment keys onto normalized
// geography paths. Spellings that normalize identically denote the same
// geography and reduce to a single assignment.
func normalizeAssignments(assignments map[string]string) map[string]string {
	normalized := make(map[string]string, len(assignments))
	for path, label := range assignments {
		normalized[gerrydb.NormalizePath(path)] = label
	}
	return normalized
}

// districtStats derives the stored plan attributes from its assignments:
// the count of distinct non-empty district labels, and whether every member
// of the governing geo set received an assignment. An incomplete plan is
// legal; an empty label does not name a district.
func districtStats(assignments map[string]string, memberCount int) (numDistricts int, complete bool) {
	labels := make(map[string]struct{}, len(assignments))
	for _, label := range assignments {
		if label == "" {
			continue
		}
		labels[label] = struct{}{}
	}
	return len(labels), len(assignments) == memberCount
}
