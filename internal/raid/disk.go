package raid

import (
	"strconv"
	"strings"
)

// Firmware/config states a physical drive can report. The literal state
// strings follow the conventional Redfish/OOB-RAID vendor-extension
// spellings.
const (
	FirmwareStateUnconfiguredGood = "UnconfiguredGood"
	FirmwareStateHotSpare     = "HotSpareDrive"
	FirmwareStateJBOD         = "JBOD"
)

// HotSpareType values for Drive.Set(hotspareType=...).
const (
	HotSpareNone = "None"
)

// PhysicalDisk is a planning-time view of one physical drive. Exclusivity is
// local, mutable state scoped to a single apply invocation — never a
// package-level flag.
type PhysicalDisk struct {
	ID            string // Redfish resource Id
	ODataID       string
	OEMDriveID    int // Oem.Huawei.DriveID, used as the numeric "Drives" wire value
	Name          string
	SerialNumber  string
	Protocol      string
	MediaType     string
	CapacityBytes int64
	FirmwareState string

	exclusive bool
}

// Matches reports whether the disk satisfies a user-supplied hint — its id,
// name, serial number, or OEM numeric drive id — together with an optional
// media type and protocol filter. The same predicate
// internal/resource.Drive.Matches applies before a drive is converted into
// planning-time PhysicalDisk state.
func (d *PhysicalDisk) Matches(hint, mediaType, protocol string) bool {
	if hint != "" {
		oemID := strconv.Itoa(d.OEMDriveID)
		if !strings.EqualFold(d.ID, hint) &&
			!strings.EqualFold(d.Name, hint) &&
			!strings.EqualFold(d.SerialNumber, hint) &&
			oemID != hint {
			return false
		}
	}
	if mediaType != "" && !strings.EqualFold(d.MediaType, mediaType) {
		return false
	}
	if protocol != "" && !strings.EqualFold(d.Protocol, protocol) {
		return false
	}
	return true
}

// Excludable reports whether this disk may still be selected by the
// planner: not already claimed by an earlier request in this apply pass,
// and reporting UnconfiguredGood firmware state.
func (d *PhysicalDisk) Excludable() bool {
	return !d.exclusive && d.FirmwareState == FirmwareStateUnconfiguredGood
}

// MarkExclusive claims this disk so no later request in the same apply
// invocation can select it again.
func (d *PhysicalDisk) MarkExclusive() {
	d.exclusive = true
}

// IsExclusive reports whether this disk has already been claimed.
func (d *PhysicalDisk) IsExclusive() bool {
	return d.exclusive
}

// FilterByMediaProtocol returns the subset of disks matching the given
// media type and protocol filters (empty string matches anything).
func FilterByMediaProtocol(disks []*PhysicalDisk, mediaType, protocol string) []*PhysicalDisk {
	out := make([]*PhysicalDisk, 0, len(disks))
	for _, d := range disks {
		if mediaType != "" && !strings.EqualFold(d.MediaType, mediaType) {
			continue
		}
		if protocol != "" && !strings.EqualFold(d.Protocol, protocol) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// Excludable returns the excludable subset of disks.
func Excludable(disks []*PhysicalDisk) []*PhysicalDisk {
	out := make([]*PhysicalDisk, 0, len(disks))
	for _, d := range disks {
		if d.Excludable() {
			out = append(out, d)
		}
	}
	return out
}
