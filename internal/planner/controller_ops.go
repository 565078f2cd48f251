package planner

import (
	"context"
	"strings"

	"raidctl/internal/resource"
	"raidctl/pkg/redfish"
)

// RestoreControllerDefaults restores a storage controller's vendor-specific
// settings (JBOD state, copy-back modes, ...) to factory defaults, exposed
// on the Facade as Controller.Restore.
func (p *Planner) RestoreControllerDefaults(ctx context.Context, controller *resource.Controller) error {
	action := strings.TrimRight(controller.StorageODataID(), "/") + "/Actions/Oem/Huawei/Storage.RestoreStorageControllerDefaultSettings"
	_, err := p.transport.Post(ctx, action, struct{}{}, nil)
	return err
}

// InitializeVolume issues the Volume.Initialize action for volumeODataID.
// FullInit is asynchronous and is awaited via the Task Tracker; QuickInit and
// CancelInit complete synchronously. Exposed on the Facade as
// Controller.InitializeVolume.
func (p *Planner) InitializeVolume(ctx context.Context, volumeODataID, initType string) error {
	action := strings.TrimRight(volumeODataID, "/") + "/Actions/Volume.Initialize"
	body := redfish.VolumeInitializeRequest{Type: initType}
	taskLocation, err := p.transport.Post(ctx, action, body, nil)
	if err != nil {
		return err
	}
	if initType == redfish.VolumeInitTypeFull && taskLocation != "" {
		_, err := p.waitTask(ctx, taskLocation)
		return err
	}
	return nil
}

// StorageSummary renders a read-only, human-readable rollup of one storage
// resource's drives (count and total capacity; volumes are not included).
// It performs no writes and doesn't
// participate in planning. Exposed on the Facade as Controller.Summary.
func (p *Planner) StorageSummary(ctx context.Context, storage *resource.Storage) (string, error) {
	return storage.Summary(ctx, p.transport)
}
