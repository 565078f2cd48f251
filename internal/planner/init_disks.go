package planner

import (
	"raidctl/internal/raid"
	"raidctl/internal/raiderr"
)

// candidatePool returns the excludable disks matching the request's media
// type and protocol filters — the universe init_disks selects from.
func candidatePool(disks []*raid.PhysicalDisk, req *LogicalDiskRequest) []*raid.PhysicalDisk {
	return raid.FilterByMediaProtocol(raid.Excludable(disks), req.spec.MediaType, req.spec.Protocol)
}

// resolveHints turns the request's physical_disk_hints into concrete disks
// drawn from disks. Fails NoDriveMatchesHint if any hint is unresolved;
// whether a resolved disk is still free is left to the caller.
func resolveHints(disks []*raid.PhysicalDisk, req *LogicalDiskRequest) ([]*raid.PhysicalDisk, error) {
	resolved := make([]*raid.PhysicalDisk, 0, len(req.spec.PhysicalDiskHints))
	for _, hint := range req.spec.PhysicalDiskHints {
		var match *raid.PhysicalDisk
		for _, d := range disks {
			if d.Matches(hint, req.spec.MediaType, req.spec.Protocol) {
				match = d
				break
			}
		}
		if match == nil {
			return nil, raiderr.New(raiderr.KindNoDriveMatchesHint,
				"no physical disk matches hint "+hint)
		}
		resolved = append(resolved, match)
	}
	return resolved, nil
}

func markExclusiveAndRecord(req *LogicalDiskRequest, solution *raid.Solution) {
	ids := make([]int, 0, len(solution.Disks))
	for _, d := range solution.Disks {
		d.MarkExclusive()
		ids = append(ids, d.OEMDriveID)
	}
	req.driveIDs = ids
	req.span = solution.Span
}

// upgradeToShareable: the chosen drives are marked
// exclusive, recorded on the request, and synthesised into a freshly-planned
// PhysicalDiskGroup so later shareable requests in the same apply call can
// find it. The group is tagged with the request's full level (not its
// effective sub-level) so a later share request's ValidateIfSuitableFor
// compares against the same raid name the BMC itself would report.
func upgradeToShareable(req *LogicalDiskRequest, solution *raid.Solution, groups *[]*raid.DiskGroup) {
	markExclusiveAndRecord(req, solution)
	req.inExistingGroup = false
	group := raid.NewDiskGroup(solution.Disks, req.level, solution.Span)
	group.AddUsedCapacityBytes(req.targetBytesOrGroupShare(group))
	*groups = append(*groups, group)
}

// initDisks resolves the physical drives backing one request, across the
// four share/specified quadrants. disks is the controller's full disk pool; groups
// is the controller's current list of existing/newly-planned disk groups
// (nil when nothing on the controller is shared).
func initDisks(req *LogicalDiskRequest, disks []*raid.PhysicalDisk, groups *[]*raid.DiskGroup) error {
	switch {
	case !req.IsShared() && req.IsSpecified():
		return initDisksUnsharedSpecified(req, disks)
	case !req.IsShared() && !req.IsSpecified():
		return initDisksUnsharedUnspecified(req, disks)
	case req.IsShared() && req.IsSpecified():
		return initDisksSharedSpecified(req, disks, groups)
	default: // share && !specified
		return initDisksSharedUnspecified(req, disks, groups)
	}
}

func initDisksUnsharedSpecified(req *LogicalDiskRequest, disks []*raid.PhysicalDisk) error {
	filtered := raid.FilterByMediaProtocol(disks, req.spec.MediaType, req.spec.Protocol)
	specified, err := resolveHints(filtered, req)
	if err != nil {
		return err
	}
	for _, d := range specified {
		if !d.Excludable() {
			return raiderr.New(raiderr.KindInvalidLogicalDiskCfg,
				"physical disk "+d.ID+" may have been used by other logical disk")
		}
	}

	count := len(specified)
	solution, err := raid.FindBestSolution(req.targetBytes, specified, req.level, &count)
	if err != nil {
		return err
	}
	if solution == nil {
		return raiderr.New(raiderr.KindSpecifiedDisksHasNotEnoughSpace,
			"the specified physical disks do not have enough space for this logical disk")
	}
	markExclusiveAndRecord(req, solution)
	return nil
}

func initDisksUnsharedUnspecified(req *LogicalDiskRequest, disks []*raid.PhysicalDisk) error {
	pool := candidatePool(disks, req)
	solution, err := raid.FindBestSolution(req.targetBytes, pool, req.level, req.preferredCount)
	if err != nil {
		return err
	}
	if solution == nil {
		return raiderr.New(raiderr.KindLackOfDiskSpace,
			"not enough physical disk space for this logical disk")
	}
	markExclusiveAndRecord(req, solution)
	return nil
}

func initDisksSharedSpecified(req *LogicalDiskRequest, disks []*raid.PhysicalDisk, groups *[]*raid.DiskGroup) error {
	filtered := raid.FilterByMediaProtocol(disks, req.spec.MediaType, req.spec.Protocol)
	specified, err := resolveHints(filtered, req)
	if err != nil {
		return err
	}

	specifiedIDs := make([]string, len(specified))
	for i, d := range specified {
		specifiedIDs[i] = d.ID
	}

	if group := raid.FindDiskGroupOwningDisks(*groups, specifiedIDs); group != nil {
		if err := group.ValidateIfSuitableFor(req.targetBytes, req.level); err != nil {
			return raiderr.New(raiderr.KindInvalidLogicalDiskCfg, err.Error())
		}
		group.AddPendingCapacityBytes(req.targetBytes)
		req.inExistingGroup = true
		req.driveIDs = []int{group.Drives[0].OEMDriveID}
		req.span = group.SpanNumber
		return nil
	}

	for _, d := range specified {
		if !d.Excludable() {
			return raiderr.New(raiderr.KindInvalidLogicalDiskCfg,
				"physical disk "+d.ID+" may have been used by other logical disk")
		}
	}

	count := len(specified)
	solution, err := raid.FindBestSolution(req.targetBytes, specified, req.level, &count)
	if err != nil {
		return err
	}
	if solution == nil {
		return raiderr.New(raiderr.KindLackOfDiskSpace,
			"not enough physical disk space for this logical disk")
	}
	upgradeToShareable(req, solution, groups)
	return nil
}

func initDisksSharedUnspecified(req *LogicalDiskRequest, disks []*raid.PhysicalDisk, groups *[]*raid.DiskGroup) error {
	if group := raid.FindBestDiskGroup(req.targetBytes, *groups, req.level); group != nil {
		group.AddPendingCapacityBytes(req.targetBytes)
		req.inExistingGroup = true
		req.driveIDs = []int{group.Drives[0].OEMDriveID}
		req.span = group.SpanNumber
		return nil
	}

	pool := candidatePool(disks, req)
	solution, err := raid.FindBestSolution(req.targetBytes, pool, req.level, req.preferredCount)
	if err != nil {
		return err
	}
	if solution == nil {
		return raiderr.New(raiderr.KindLackOfDiskSpace,
			"not enough physical disk space for this logical disk")
	}
	upgradeToShareable(req, solution, groups)
	return nil
}

// targetBytesOrGroupShare resolves the capacity value recorded as a freshly
// planned group's first used-capacity entry: the request's own target, or
// (for MAX) whatever the new group's full capacity turns out to be.
func (r *LogicalDiskRequest) targetBytesOrGroupShare(group *raid.DiskGroup) int64 {
	if r.targetBytes == raid.TargetMax {
		return group.CapacityBytes
	}
	return r.targetBytes
}
