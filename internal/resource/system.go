package resource

import "raidctl/pkg/redfish"

// System is a planning-time view of the Redfish ComputerSystem the
// controllers hang off.
type System struct {
	raw  redfish.System
	etag string
}

// NewSystem wraps a decoded Redfish System body and the ETag it arrived with.
func NewSystem(raw redfish.System, etag string) *System {
	return &System{raw: raw, etag: etag}
}

func (s *System) ODataID() string    { return s.raw.ODataID }
func (s *System) ID() string         { return s.raw.ID }
func (s *System) StorageODataID() string { return s.raw.Storage.ODataID }
func (s *System) ETagValue() string  { return s.etag }

// StorageConfigReadyState reports the OEM storage-readiness gate value and
// whether the controller reported one at all. Absence of
// the attribute means the feature isn't supported and callers should
// proceed immediately rather than poll.
func (s *System) StorageConfigReadyState() (value int, present bool) {
	if s.raw.Oem.Huawei == nil || s.raw.Oem.Huawei.StorageConfigReady == nil {
		return 0, false
	}
	return *s.raw.Oem.Huawei.StorageConfigReady, true
}

// Manager is a planning-time view of a Redfish Manager resource. Only its
// resource id is consulted: the Managers collection's sole
// member supplies the trailing segment used to address Systems/{id} and
// Managers/{id} throughout the session.
type Manager struct {
	raw redfish.Manager
}

// NewManager wraps a decoded Redfish Manager body.
func NewManager(raw redfish.Manager) *Manager { return &Manager{raw: raw} }

func (m *Manager) ID() string { return m.raw.ID }

// Chassis is a planning-time view of a Redfish Chassis resource, consulted
// only for the drives it links to.
type Chassis struct {
	raw redfish.Chassis
}

// NewChassis wraps a decoded Redfish Chassis body.
func NewChassis(raw redfish.Chassis) *Chassis { return &Chassis{raw: raw} }

// DriveODataIDs returns the oData ids of every drive this chassis links to.
func (c *Chassis) DriveODataIDs() []string {
	out := make([]string, len(c.raw.Links.Drives))
	for i, d := range c.raw.Links.Drives {
		out[i] = d.ODataID
	}
	return out
}
