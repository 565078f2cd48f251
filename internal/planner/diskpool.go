package planner

import (
	"context"
	"sort"

	"raidctl/internal/raid"
	"raidctl/internal/resource"
)

// buildDiskPool converts a controller's drives into planning-time
// PhysicalDisk state, sorted ascending by capacity as the RAID algebra
// expects.
func buildDiskPool(drives []*resource.Drive) []*raid.PhysicalDisk {
	out := make([]*raid.PhysicalDisk, 0, len(drives))
	for _, d := range drives {
		out = append(out, &raid.PhysicalDisk{
			ID:            d.ID(),
			ODataID:       d.ODataID(),
			OEMDriveID:    d.OEMDriveID(),
			Name:          d.Name(),
			SerialNumber:  d.SerialNumber(),
			Protocol:      d.Protocol(),
			MediaType:     d.MediaType(),
			CapacityBytes: d.CapacityBytes(),
			FirmwareState: d.FirmwareState(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CapacityBytes < out[j].CapacityBytes })
	return out
}

func findDiskByODataID(pool []*raid.PhysicalDisk, odataID string) *raid.PhysicalDisk {
	for _, d := range pool {
		if d.ODataID == odataID {
			return d
		}
	}
	return nil
}

// buildExistingGroups reconstructs the PhysicalDiskGroups already carved on
// a controller from its current volumes: each volume either joins the group
// that already owns its first drive, or seeds a fresh one.
func buildExistingGroups(ctx context.Context, loader resource.Loader, storage *resource.Storage, pool []*raid.PhysicalDisk) ([]*raid.DiskGroup, error) {
	volumes, err := storage.Volumes(ctx, loader)
	if err != nil {
		return nil, err
	}

	var groups []*raid.DiskGroup
	for _, v := range volumes {
		driveRefs := v.DriveODataIDs()
		if len(driveRefs) == 0 {
			continue
		}

		firstDrive := findDiskByODataID(pool, driveRefs[0])
		var owner *raid.DiskGroup
		if firstDrive != nil {
			for _, g := range groups {
				if g.Owns(firstDrive.ID) {
					owner = g
					break
				}
			}
		}
		if owner != nil {
			owner.AddUsedCapacityBytes(v.CapacityBytes())
			continue
		}

		drives := make([]*raid.PhysicalDisk, 0, len(driveRefs))
		for _, ref := range driveRefs {
			if d := findDiskByODataID(pool, ref); d != nil {
				drives = append(drives, d)
			}
		}
		if len(drives) == 0 {
			continue
		}
		level, ok := raid.Lookup(v.RaidLevelKey())
		if !ok {
			// A volume the controller itself created without reporting a
			// recognizable level key can't be validated against future
			// requests; skip it rather than guess.
			continue
		}
		span := v.SpanNumber()
		if span <= 0 {
			span = 1
		}
		g := raid.NewDiskGroup(drives, level, span)
		g.AddUsedCapacityBytes(v.CapacityBytes())
		groups = append(groups, g)
	}
	return groups, nil
}
