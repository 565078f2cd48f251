package planner

import (
	"raidctl/internal/raiderr"
	"raidctl/internal/resource"
)

// resolveController resolves one request's target controller among a
// storage resource's controllers, then
// validate it supports out-of-band RAID and (unless JBOD) the requested
// level.
func resolveController(controllers []*resource.Controller, req *LogicalDiskRequest) (*resource.Controller, error) {
	if len(controllers) == 0 {
		return nil, raiderr.New(raiderr.KindNoRaidControllerFound, "no RAID storage controller was found")
	}

	var chosen *resource.Controller
	hint := req.spec.ControllerHint
	if hint == "" {
		if len(controllers) > 1 {
			return nil, raiderr.New(raiderr.KindControllerHintRequired,
				"multiple storage controllers are present; a controller_hint is required")
		}
		chosen = controllers[0]
	} else {
		for _, c := range controllers {
			if c.Matches(hint) {
				chosen = c
				break
			}
		}
		if chosen == nil {
			return nil, raiderr.New(raiderr.KindNoControllerMatchesHint,
				"no storage controller matches controller_hint "+hint)
		}
	}

	if err := chosen.RequireOutOfBand(); err != nil {
		return nil, err
	}
	if !req.IsJBOD() && !chosen.SupportsRAIDLevel(req.spec.RaidLevel) {
		return nil, raiderr.New(raiderr.KindNotSupportedRaidLevel,
			"storage controller "+chosen.Name()+" does not support raid level "+req.spec.RaidLevel)
	}
	return chosen, nil
}

// controllerBatch groups the requests resolved onto one controller together
// with the controller view itself.
type controllerBatch struct {
	controller *resource.Controller
	requests   []*LogicalDiskRequest
}

// groupByController resolves every request's controller and groups them by
// the controller's Storage odata id plus member id, preserving each group's
// first-seen order.
func groupByController(controllers []*resource.Controller, reqs []*LogicalDiskRequest) ([]*controllerBatch, error) {
	var order []string
	byKey := map[string]*controllerBatch{}

	for _, req := range reqs {
		c, err := resolveController(controllers, req)
		if err != nil {
			return nil, err
		}
		key := c.StorageODataID() + "#" + c.MemberID()
		batch, ok := byKey[key]
		if !ok {
			batch = &controllerBatch{controller: c}
			byKey[key] = batch
			order = append(order, key)
		}
		req.controllerKey = key
		batch.requests = append(batch.requests, req)
	}

	out := make([]*controllerBatch, 0, len(order))
	for _, key := range order {
		out = append(out, byKey[key])
	}
	return out, nil
}

// validateNoJBODMixing fails if a controller's request batch mixes JBOD with
// any other RAID level.
func validateNoJBODMixing(reqs []*LogicalDiskRequest) error {
	var sawJBOD, sawOther bool
	for _, r := range reqs {
		if r.IsJBOD() {
			sawJBOD = true
		} else {
			sawOther = true
		}
	}
	if sawJBOD && sawOther {
		return raiderr.New(raiderr.KindInvalidLogicalDiskCfg,
			"JBOD mode could not work with other RAID level.")
	}
	return nil
}
