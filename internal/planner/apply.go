package planner

import (
	"context"
	"time"

	"raidctl/internal/metrics"
	"raidctl/internal/raid"
	"raidctl/internal/raiderr"
	"raidctl/internal/resource"
	"raidctl/pkg/redfish"
)

// ApplyRAIDConfiguration normalizes specs into requests, waits for the
// storage-ready gate, resolves each request's controller, groups them by
// controller, and drives each controller's pending work through the
// seven-cohort pipeline.
func (p *Planner) ApplyRAIDConfiguration(ctx context.Context, specs []LogicalDiskSpec) error {
	start := time.Now()
	defer func() { metrics.ObserveProvisioningPhase(metrics.PhaseApply, time.Since(start)) }()

	reqs := make([]*LogicalDiskRequest, 0, len(specs))
	for _, spec := range specs {
		r, err := NewLogicalDiskRequest(spec)
		if err != nil {
			return err
		}
		reqs = append(reqs, r)
	}

	if err := p.waitStorageReady(ctx); err != nil {
		return err
	}

	storages, err := p.ListStorage(ctx)
	if err != nil {
		return err
	}
	var controllers []*resource.Controller
	controllerStorage := map[string]*resource.Storage{}
	for _, s := range storages {
		for _, c := range s.Controllers() {
			controllers = append(controllers, c)
			controllerStorage[c.StorageODataID()+"#"+c.MemberID()] = s
		}
	}

	batches, err := groupByController(controllers, reqs)
	if err != nil {
		return err
	}

	for _, batch := range batches {
		if err := validateNoJBODMixing(batch.requests); err != nil {
			return err
		}
		storage := controllerStorage[batch.requests[0].controllerKey]
		if err := p.applyControllerBatch(ctx, storage, batch); err != nil {
			return err
		}
	}
	return nil
}

func (p *Planner) applyControllerBatch(ctx context.Context, storage *resource.Storage, batch *controllerBatch) error {
	if batch.requests[0].IsJBOD() {
		return p.enableJBOD(ctx, batch.controller)
	}

	drives, err := storage.Drives(ctx, p.transport)
	if err != nil {
		return err
	}
	pool := buildDiskPool(drives)

	var groups []*raid.DiskGroup
	needsGroups := false
	for _, r := range batch.requests {
		if r.IsShared() {
			needsGroups = true
			break
		}
	}
	if needsGroups {
		groups, err = buildExistingGroups(ctx, p.transport, storage, pool)
		if err != nil {
			return err
		}
	}

	sortPending(batch.requests)

	for i, req := range batch.requests {
		if err := initDisks(req, pool, &groups); err != nil {
			return err
		}
		if err := p.submitVolume(ctx, storage, req); err != nil {
			return err
		}
		if i < len(batch.requests)-1 {
			if err := p.sleep(ctx, SettleWait); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *Planner) enableJBOD(ctx context.Context, controller *resource.Controller) error {
	enable := true
	body := redfish.StorageControllerPatchRequest{
		StorageControllers: []redfish.StorageControllerPatch{
			{Oem: redfish.StorageControllerPatchOem{Huawei: redfish.HuaweiControllerPatch{JBODState: &enable}}},
		},
	}
	return p.transport.Patch(ctx, controller.StorageODataID(), controller.ETagValue(), body)
}

// buildVolumeCreateRequest constructs the volume-create POST body.
func buildVolumeCreateRequest(req *LogicalDiskRequest) redfish.VolumeCreateRequest {
	oem := &redfish.HuaweiVolumeCreateOem{
		VolumeName: req.spec.VolumeName,
		Drives:     req.driveIDs,
	}
	if !req.inExistingGroup {
		oem.VolumeRaidLevel = req.spec.RaidLevel
	}
	if req.span > 1 {
		oem.SpanNumber = req.span
	}

	body := redfish.VolumeCreateRequest{Oem: &redfish.VolumeCreateOem{Huawei: oem}}
	if req.targetBytes != raid.TargetMax {
		body.CapacityBytes = req.targetBytes
	}
	return body
}

func (p *Planner) submitVolume(ctx context.Context, storage *resource.Storage, req *LogicalDiskRequest) error {
	body := buildVolumeCreateRequest(req)

	var created redfish.Volume
	taskLocation, err := p.transport.Post(ctx, storage.VolumesODataID(), body, &created)
	if err != nil {
		return err
	}
	if taskLocation == "" {
		return raiderr.New(raiderr.KindMalformedAttribute,
			"volume create request did not return a Task")
	}

	task, err := p.waitTask(ctx, taskLocation)
	if err != nil {
		return err
	}
	volumeODataID, err := taskCreatedODataID(task)
	if err != nil {
		return err
	}

	if req.spec.IsRootVolume {
		var volume redfish.Volume
		etag, err := p.transport.Get(ctx, volumeODataID, &volume)
		if err != nil {
			return err
		}
		patch := redfish.VolumePatchRequest{Oem: &redfish.VolumePatchOem{Huawei: &redfish.HuaweiVolumePatch{BootEnable: true}}}
		if err := p.transport.Patch(ctx, volumeODataID, etag, patch); err != nil {
			return err
		}
	}
	return nil
}
