package resource

import (
	"strings"

	"raidctl/internal/raiderr"
	"raidctl/pkg/redfish"
)

// Controller is a planning-time view of one embedded storage controller,
// whose StorageControllers entry doubles as the controller description.
type Controller struct {
	raw            redfish.StorageController
	storageODataID string
	etag           string
}

func newController(raw redfish.StorageController, storageODataID, etag string) *Controller {
	return &Controller{raw: raw, storageODataID: storageODataID, etag: etag}
}

func (c *Controller) StorageODataID() string { return c.storageODataID }
func (c *Controller) MemberID() string       { return c.raw.MemberID }
func (c *Controller) Name() string           { return c.raw.Name }
func (c *Controller) Model() string          { return c.raw.Model }
func (c *Controller) ETagValue() string      { return c.etag }

// SupportedRAIDLevels returns the user-facing level keys ("0","1","5",...)
// the controller advertises, read from its Oem.Huawei block.
func (c *Controller) SupportedRAIDLevels() []string {
	if c.raw.Oem.Huawei == nil {
		return nil
	}
	return c.raw.Oem.Huawei.SupportedRAIDLevels
}

// SupportsRAIDLevel reports whether key is among SupportedRAIDLevels.
func (c *Controller) SupportsRAIDLevel(key string) bool {
	for _, k := range c.SupportedRAIDLevels() {
		if strings.EqualFold(k, key) {
			return true
		}
	}
	return false
}

// SupportsOutOfBand reports whether the controller's vendor extension block
// marks it eligible for out-of-band RAID configuration at all.
func (c *Controller) SupportsOutOfBand() bool {
	return c.raw.Oem.Huawei != nil && c.raw.Oem.Huawei.OOBSupport
}

// IsJBODMode reports whether the controller currently operates in JBOD
// passthrough mode rather than RAID mode.
func (c *Controller) IsJBODMode() bool {
	return c.raw.Oem.Huawei != nil && c.raw.Oem.Huawei.JBODState
}

// Matches reports whether this controller's member id or name equals hint.
// An empty hint never matches on its own; the "single controller, no hint"
// default is the caller's (Storage.FindController's) responsibility.
func (c *Controller) Matches(hint string) bool {
	if hint == "" {
		return false
	}
	return strings.EqualFold(c.raw.MemberID, hint) || strings.EqualFold(c.raw.Name, hint)
}

// RequireOutOfBand fails with ControllerNotSupportOOB if the controller
// doesn't support out-of-band RAID configuration.
func (c *Controller) RequireOutOfBand() error {
	if !c.SupportsOutOfBand() {
		return raiderr.New(raiderr.KindControllerNotSupportOOB,
			"storage controller "+c.raw.Name+" does not support out-of-band RAID configuration")
	}
	return nil
}
