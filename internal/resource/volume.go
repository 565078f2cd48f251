package resource

import (
	"strings"

	"raidctl/pkg/redfish"
)

// Volume is a planning-time view of one existing logical disk.
type Volume struct {
	raw  redfish.Volume
	etag string
}

// NewVolume wraps a decoded Redfish Volume body and the ETag it arrived with.
func NewVolume(raw redfish.Volume, etag string) *Volume {
	return &Volume{raw: raw, etag: etag}
}

func (v *Volume) ODataID() string      { return v.raw.ODataID }
func (v *Volume) ID() string           { return v.raw.ID }
func (v *Volume) Name() string         { return v.raw.Name }
func (v *Volume) RAIDType() string     { return v.raw.RAIDType }
func (v *Volume) CapacityBytes() int64 { return v.raw.CapacityBytes }
func (v *Volume) ETagValue() string    { return v.etag }

// RaidLevelKey returns the user-facing raid level key ("1", "5+0", ...) the
// controller reports for this volume, read from its Oem.Huawei block.
func (v *Volume) RaidLevelKey() string {
	if v.raw.Oem.Huawei == nil {
		return ""
	}
	return v.raw.Oem.Huawei.VolumeRaidLevel
}

// SpanNumber returns the volume's span count, or 0 if the controller didn't
// report one (non-spanned levels and older firmware omit it).
func (v *Volume) SpanNumber() int {
	if v.raw.Oem.Huawei == nil {
		return 0
	}
	return v.raw.Oem.Huawei.SpanNumber
}

// BootEnable reports whether this volume is marked as the boot target.
func (v *Volume) BootEnable() bool {
	if v.raw.Oem.Huawei == nil {
		return false
	}
	return v.raw.Oem.Huawei.BootEnable
}

// DriveODataIDs returns the @odata.id of every drive backing this volume.
func (v *Volume) DriveODataIDs() []string {
	out := make([]string, len(v.raw.Links.Drives))
	for i, d := range v.raw.Links.Drives {
		out[i] = d.ODataID
	}
	return out
}

// Matches reports whether this volume satisfies a user-supplied hint (a
// case-insensitive exact match on Id or Name; an empty hint matches every
// volume).
func (v *Volume) Matches(hint string) bool {
	if hint == "" {
		return true
	}
	return strings.EqualFold(v.raw.ID, hint) || strings.EqualFold(v.raw.Name, hint)
}
