package planner

import (
	"context"
	"time"

	"raidctl/internal/metrics"
	"raidctl/internal/raid"
	"raidctl/internal/resource"
	"raidctl/pkg/redfish"
)

// DeleteAllRAIDConfiguration waits for the storage-ready gate, then for every
// controller: refuses any lacking OOB support, deletes every volume
// serially (awaiting each delete's task before starting the next), and
// restores every drive left in HotSpareDrive or JBOD firmware state.
func (p *Planner) DeleteAllRAIDConfiguration(ctx context.Context) error {
	start := time.Now()
	defer func() { metrics.ObserveProvisioningPhase(metrics.PhaseDeleteAll, time.Since(start)) }()

	if err := p.waitStorageReady(ctx); err != nil {
		return err
	}

	storages, err := p.ListStorage(ctx)
	if err != nil {
		return err
	}

	for _, storage := range storages {
		for _, controller := range storage.Controllers() {
			if err := controller.RequireOutOfBand(); err != nil {
				return err
			}
			if err := p.deleteControllerVolumes(ctx, storage); err != nil {
				return err
			}
			if err := p.restoreControllerDrives(ctx, storage); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *Planner) deleteControllerVolumes(ctx context.Context, storage *resource.Storage) error {
	volumes, err := storage.Volumes(ctx, p.transport)
	if err != nil {
		return err
	}
	for _, v := range volumes {
		taskLoc, err := p.transport.Delete(ctx, v.ODataID(), v.ETagValue())
		if err != nil {
			return err
		}
		// A volume delete returns a Task the same way a create does; poll it
		// to completion before deleting the next volume.
		if taskLoc != "" {
			if _, err := p.waitTask(ctx, taskLoc); err != nil {
				return err
			}
		}
	}
	return nil
}

// restoreControllerDrives resets every drive the controller reports as a
// hot spare (HotspareType -> None) or JBOD passthrough (FirmwareStatus ->
// UnconfiguredGood) back to its default, restorable state.
func (p *Planner) restoreControllerDrives(ctx context.Context, storage *resource.Storage) error {
	drives, err := storage.Drives(ctx, p.transport)
	if err != nil {
		return err
	}
	for _, d := range drives {
		if err := p.restoreDrive(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

func (p *Planner) restoreDrive(ctx context.Context, d *resource.Drive) error {
	switch d.FirmwareState() {
	case raid.FirmwareStateHotSpare:
		return p.transport.Patch(ctx, d.ODataID(), d.ETagValue(), redfish.DriveSetRequest{
			HotspareType: raid.HotSpareNone,
		})
	case raid.FirmwareStateJBOD:
		return p.transport.Patch(ctx, d.ODataID(), d.ETagValue(), redfish.DriveSetRequest{
			Oem: &redfish.DriveSetOem{Huawei: &redfish.HuaweiDriveSetOem{FirmwareStatus: raid.FirmwareStateUnconfiguredGood}},
		})
	default:
		// Already UnconfiguredGood or some other state restore doesn't touch.
		return nil
	}
}
