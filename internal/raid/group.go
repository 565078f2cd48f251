package raid

import (
	"sort"

	"raidctl/internal/raiderr"
)

// DiskGroup is a physical-disk group: an existing or freshly planned set of
// drives upon which one or more logical volumes are (or will be) carved.
type DiskGroup struct {
	Drives       []*PhysicalDisk // sorted ascending by capacity
	RaidSetting  Level
	SpanNumber   int
	Overhead     int
	CapacityBytes int64

	usedBytes    []int64
	pendingBytes []int64
}

// NewDiskGroup constructs a group from an unsorted drive set, computing its
// capacity as smallest_drive.capacity * (len(drives) - overhead).
func NewDiskGroup(drives []*PhysicalDisk, setting Level, spanNumber int) *DiskGroup {
	sorted := make([]*PhysicalDisk, len(drives))
	copy(sorted, drives)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].CapacityBytes < sorted[j].CapacityBytes })

	overhead := OverheadPerSpan(setting) * spanNumber
	var capacity int64
	if len(sorted) > 0 {
		capacity = sorted[0].CapacityBytes * int64(len(sorted)-overhead)
	}
	return &DiskGroup{
		Drives:        sorted,
		RaidSetting:   setting,
		SpanNumber:    spanNumber,
		Overhead:      overhead,
		CapacityBytes: capacity,
	}
}

// UsedCapacityBytes returns the sum of all committed (already-existing)
// volume capacities carved from this group.
func (g *DiskGroup) UsedCapacityBytes() int64 {
	var sum int64
	for _, b := range g.usedBytes {
		sum += b
	}
	return sum
}

// PendingCapacityBytes returns the sum of capacity reserved by requests
// planned (but not yet submitted) in the current apply pass.
func (g *DiskGroup) PendingCapacityBytes() int64 {
	var sum int64
	for _, b := range g.pendingBytes {
		sum += b
	}
	return sum
}

// LeftCapacityBytes is the group's remaining, unreserved capacity.
func (g *DiskGroup) LeftCapacityBytes() int64 {
	return g.CapacityBytes - g.UsedCapacityBytes() - g.PendingCapacityBytes()
}

// HasCapacityFor reports whether the group can still satisfy targetCapacity
// (TargetMax requires any positive remainder; otherwise an exact minimum).
func (g *DiskGroup) HasCapacityFor(targetCapacity int64) bool {
	if targetCapacity == TargetMax {
		return g.LeftCapacityBytes() > 0
	}
	return g.LeftCapacityBytes() >= targetCapacity
}

// AddUsedCapacityBytes records a committed volume's capacity against the group.
func (g *DiskGroup) AddUsedCapacityBytes(usedCapacityBytes int64) {
	g.usedBytes = append(g.usedBytes, usedCapacityBytes)
}

// AddPendingCapacityBytes reserves capacity for a request planned in the
// current apply pass, only if the group currently has room for it. A
// TargetMax reservation consumes exactly what's left.
func (g *DiskGroup) AddPendingCapacityBytes(targetCapacity int64) {
	if !g.HasCapacityFor(targetCapacity) {
		return
	}
	if targetCapacity == TargetMax {
		g.pendingBytes = append(g.pendingBytes, g.LeftCapacityBytes())
		return
	}
	g.pendingBytes = append(g.pendingBytes, targetCapacity)
}

// DriveIDList returns the Redfish resource Ids of the group's drives, in
// capacity-sorted order.
func (g *DiskGroup) DriveIDList() []string {
	ids := make([]string, len(g.Drives))
	for i, d := range g.Drives {
		ids[i] = d.ID
	}
	return ids
}

// OwnsAll reports whether every drive in driveIDs belongs to this group.
// A partial overlap is not ownership.
func (g *DiskGroup) OwnsAll(driveIDs []string) bool {
	if len(driveIDs) == 0 {
		return false
	}
	set := make(map[string]bool, len(g.Drives))
	for _, d := range g.Drives {
		set[d.ID] = true
	}
	for _, id := range driveIDs {
		if !set[id] {
			return false
		}
	}
	return true
}

// Owns reports whether driveID belongs to this group. Used to find which
// existing disk group already owns a given volume's first drive.
func (g *DiskGroup) Owns(driveID string) bool {
	for _, d := range g.Drives {
		if d.ID == driveID {
			return true
		}
	}
	return false
}

// ValidateIfSuitableFor fails with NotSuitablePhysicalDiskGroup when the
// group lacks capacity, or its raid setting differs by name from raid.
func (g *DiskGroup) ValidateIfSuitableFor(targetCapacity int64, level Level) error {
	if !g.HasCapacityFor(targetCapacity) {
		return raiderr.New(raiderr.KindNotSuitablePhysicalDiskGroup,
			"those physical disks does not have enough capacity")
	}
	if g.RaidSetting.Name != level.Name {
		return raiderr.New(raiderr.KindNotSuitablePhysicalDiskGroup,
			"those shareable physical disks has raid-level "+g.RaidSetting.Key+
				", could not be used for required raid-level "+level.Key)
	}
	return nil
}

// IsBetterThan compares two candidate groups under the same rules as
// RaidSolution.IsBetterThan: fixed targets prefer less waste (less left
// capacity), MAX targets prefer more left capacity.
func (g *DiskGroup) IsBetterThan(targetCapacity int64, other *DiskGroup) bool {
	if targetCapacity > 0 {
		return g.wasteLessThan(other)
	}
	return g.leftGreaterThan(other)
}

func (g *DiskGroup) wasteLessThan(other *DiskGroup) bool {
	if other == nil {
		return true
	}
	return g.LeftCapacityBytes() < other.LeftCapacityBytes()
}

func (g *DiskGroup) leftGreaterThan(other *DiskGroup) bool {
	if other == nil {
		return true
	}
	return g.LeftCapacityBytes() > other.LeftCapacityBytes()
}

// FindBestDiskGroup performs a linear scan over groups, returning the one
// that both passes ValidateIfSuitableFor(target, level) and wins the
// pairwise IsBetterThan comparison. Returns nil if none qualify.
func FindBestDiskGroup(targetCapacity int64, groups []*DiskGroup, level Level) *DiskGroup {
	var best *DiskGroup
	for _, g := range groups {
		if err := g.ValidateIfSuitableFor(targetCapacity, level); err != nil {
			continue
		}
		if g.IsBetterThan(targetCapacity, best) {
			best = g
		}
	}
	return best
}

// FindDiskGroupOwningDisks returns the first group that owns every disk in
// driveIDs (exact-ownership semantics; a partial overlap never matches).
func FindDiskGroupOwningDisks(groups []*DiskGroup, driveIDs []string) *DiskGroup {
	for _, g := range groups {
		if g.OwnsAll(driveIDs) {
			return g
		}
	}
	return nil
}
