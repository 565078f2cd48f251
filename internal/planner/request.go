// Package planner implements the RAID configuration planner/applier: it
// normalizes user-supplied logical-disk declarations, resolves controllers,
// orders pending work into the seven processing cohorts, invokes the RAID
// algebra (internal/raid) to pick physical drives, and drives the Redfish
// create/delete/initialize requests through a transport.
//
// All selection state (exclusive disks, pending disk-group capacity) lives
// in one apply call's local variables, threaded explicitly through the
// functions below rather than mutated on shared objects.
package planner

import (
	"fmt"
	"strconv"
	"strings"

	"raidctl/internal/raid"
	"raidctl/internal/raiderr"
)

// SizeMax is the user-facing "consume all available capacity" size spec.
const SizeMax = "MAX"

// bytesPerGB is the decimal GB->bytes conversion used throughout the wire
// contract's CapacityBytes fields, matching Redfish's own decimal byte
// convention for storage capacities.
const bytesPerGB int64 = 1_000_000_000

// LogicalDiskSpec is the user-supplied, unresolved declaration of one
// logical disk.
type LogicalDiskSpec struct {
	VolumeName            string   `json:"volume_name"`
	ControllerHint        string   `json:"controller_hint,omitempty"`
	RaidLevel             string   `json:"raid_level"` // key: "0","1","5","6","1+0","5+0","6+0","JBOD"
	Size                  string   `json:"size"`        // "MAX" or a positive base-10 integer number of GB
	PhysicalDiskHints     []string `json:"physical_disk_hints,omitempty"`
	MediaType             string   `json:"media_type,omitempty"`
	Protocol              string   `json:"protocol,omitempty"`
	SharePhysicalDisks    bool     `json:"share_physical_disks,omitempty"`
	IsRootVolume          bool     `json:"is_root_volume,omitempty"`
	NumberOfPhysicalDisks *int     `json:"number_of_physical_disks,omitempty"`
}

// LogicalDiskRequest is a validated LogicalDiskSpec enriched, as planning
// proceeds, with its resolved controller and drive selection. It is
// constructed once from a LogicalDiskSpec and discarded after its
// create-volume request is submitted.
type LogicalDiskRequest struct {
	spec LogicalDiskSpec

	level          raid.Level
	targetBytes    int64 // raid.TargetMax for "MAX"
	preferredCount *int

	// Resolution state, filled in during apply.
	controllerKey  string // Storage odata id + "#" + member id, used to group requests by controller
	driveIDs       []int  // OEM numeric drive ids for the create-volume wire payload
	span           int
	inExistingGroup bool // true when created inside an existing/just-planned shareable group
}

// NewLogicalDiskRequest validates spec and returns the resolved request, or
// a *raiderr.Error (NotSupportedRaidLevel / InvalidLogicalDiskConfig) if the
// raid level is unknown or the disk count is illegal for it.
func NewLogicalDiskRequest(spec LogicalDiskSpec) (*LogicalDiskRequest, error) {
	level, ok := raid.Lookup(spec.RaidLevel)
	if !ok {
		return nil, raiderr.New(raiderr.KindNotSupportedRaidLevel,
			fmt.Sprintf("raid level %q is not supported", spec.RaidLevel))
	}

	target, err := parseSize(spec.Size)
	if err != nil {
		return nil, raiderr.New(raiderr.KindInvalidLogicalDiskCfg, err.Error())
	}

	var preferred *int
	if spec.NumberOfPhysicalDisks != nil {
		n := *spec.NumberOfPhysicalDisks
		if n < raid.MinDisksRequired(level) {
			return nil, raiderr.New(raiderr.KindInvalidLogicalDiskCfg,
				fmt.Sprintf("number_of_physical_disks=%d is below the %d disks %s requires",
					n, raid.MinDisksRequired(level), level.Name))
		}
		preferred = &n
	}

	return &LogicalDiskRequest{
		spec:           spec,
		level:          level,
		targetBytes:    target,
		preferredCount: preferred,
	}, nil
}

func parseSize(size string) (int64, error) {
	trimmed := strings.TrimSpace(size)
	if strings.EqualFold(trimmed, SizeMax) {
		return raid.TargetMax, nil
	}
	n, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("size must be %q or a positive integer number of GB, got %q", SizeMax, size)
	}
	return n * bytesPerGB, nil
}

// IsJBOD reports whether this request's level is the JBOD carve-out.
func (r *LogicalDiskRequest) IsJBOD() bool { return r.level.Key == "JBOD" }

// IsMax reports whether this request targets "consume all remaining capacity".
func (r *LogicalDiskRequest) IsMax() bool { return r.targetBytes == raid.TargetMax }

// IsSpecified reports whether the caller named specific physical disks.
func (r *LogicalDiskRequest) IsSpecified() bool { return len(r.spec.PhysicalDiskHints) > 0 }

// IsShared reports whether this request may share an existing/new disk group.
func (r *LogicalDiskRequest) IsShared() bool { return r.spec.SharePhysicalDisks }

// IsAutoScale reports whether this request's size is "MAX": it scales to
// consume whatever capacity remains rather than a fixed target.
func (r *LogicalDiskRequest) IsAutoScale() bool { return r.IsMax() }

// HasPreferredCount reports whether the caller pinned the disk count
// (number_of_physical_disks), as opposed to leaving it for the planner.
func (r *LogicalDiskRequest) HasPreferredCount() bool { return r.preferredCount != nil }
