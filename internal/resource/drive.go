package resource

import (
	"strconv"
	"strings"

	"raidctl/pkg/redfish"
)

// Drive is a planning-time view of one physical drive.
type Drive struct {
	raw  redfish.Drive
	etag string
}

// NewDrive wraps a decoded Redfish Drive body together with the ETag the
// server returned alongside it.
func NewDrive(raw redfish.Drive, etag string) *Drive {
	return &Drive{raw: raw, etag: etag}
}

func (d *Drive) ODataID() string        { return d.raw.ODataID }
func (d *Drive) ID() string             { return d.raw.ID }
func (d *Drive) Name() string           { return d.raw.Name }
func (d *Drive) SerialNumber() string   { return d.raw.SerialNumber }
func (d *Drive) Protocol() string       { return d.raw.Protocol }
func (d *Drive) MediaType() string      { return d.raw.MediaType }
func (d *Drive) CapacityBytes() int64   { return d.raw.CapacityBytes }
func (d *Drive) ETagValue() string      { return d.etag }

// FirmwareState returns the vendor firmware/config state (UnconfiguredGood,
// HotSpareDrive, JBOD, ...), or "" if the controller didn't report one.
func (d *Drive) FirmwareState() string {
	if d.raw.Oem.Huawei == nil {
		return ""
	}
	return d.raw.Oem.Huawei.FirmwareState
}

// OEMDriveID returns the numeric drive identifier used in RAID create/delete
// wire payloads, or -1 if the controller didn't report one.
func (d *Drive) OEMDriveID() int {
	if d.raw.Oem.Huawei == nil {
		return -1
	}
	return d.raw.Oem.Huawei.DriveID
}

// IsUnconfiguredGood reports whether the drive's firmware state makes it
// eligible for inclusion in a new disk group.
func (d *Drive) IsUnconfiguredGood() bool {
	return strings.EqualFold(d.FirmwareState(), "UnconfiguredGood")
}

// Matches reports whether the drive satisfies a user-supplied hint — the
// drive id, name, serial number, or OEM numeric drive id — together with an
// optional media type and protocol filter (absent, or a case-insensitive
// match).
func (d *Drive) Matches(hint, mediaType, protocol string) bool {
	if hint != "" {
		oemID := ""
		if d.raw.Oem.Huawei != nil {
			oemID = strconv.Itoa(d.raw.Oem.Huawei.DriveID)
		}
		if !strings.EqualFold(d.raw.ID, hint) &&
			!strings.EqualFold(d.raw.Name, hint) &&
			!strings.EqualFold(d.raw.SerialNumber, hint) &&
			!(oemID != "" && oemID == hint) {
			return false
		}
	}
	if mediaType != "" && !strings.EqualFold(d.raw.MediaType, mediaType) {
		return false
	}
	if protocol != "" && !strings.EqualFold(d.raw.Protocol, protocol) {
		return false
	}
	return true
}
