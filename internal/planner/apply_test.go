package planner

import (
	"context"
	"testing"

	"raidctl/internal/raid"
	"raidctl/pkg/redfish"
)

func TestApplyRAIDConfiguration_SingleRAID1Volume(t *testing.T) {
	ft := newFakeTransport().
		withBody("/redfish/v1/Systems/1", redfish.System{Storage: redfish.ODataIDRef{ODataID: "/storage"}}).
		withBody("/storage", redfish.StorageCollection{Members: []redfish.ODataIDRef{{ODataID: "/storage/1"}}}).
		withBody("/storage/1", redfish.Storage{
			ODataID: "/storage/1",
			StorageControllers: []redfish.StorageController{{
				MemberID: "RAID.1",
				Oem: redfish.ControllerOem{Huawei: &redfish.HuaweiControllerOem{
					OOBSupport:          true,
					SupportedRAIDLevels: []string{"1"},
				}},
			}},
			Drives:  []redfish.ODataIDRef{{ODataID: "/drives/0"}, {ODataID: "/drives/1"}},
			Volumes: redfish.ODataIDRef{ODataID: "/volumes"},
		}).
		withBody("/drives/0", redfish.Drive{
			ID: "0", CapacityBytes: 200 * 1_000_000_000,
			Oem: redfish.DriveOem{Huawei: &redfish.HuaweiDriveOem{DriveID: 0, FirmwareState: raid.FirmwareStateUnconfiguredGood}},
		}).
		withBody("/drives/1", redfish.Drive{
			ID: "1", CapacityBytes: 200 * 1_000_000_000,
			Oem: redfish.DriveOem{Huawei: &redfish.HuaweiDriveOem{DriveID: 1, FirmwareState: raid.FirmwareStateUnconfiguredGood}},
		}).
		withBody("/volumes", redfish.VolumeCollection{})

	ft.postTaskLocation = "/redfish/v1/TaskService/Tasks/1"
	ft.withBody("/redfish/v1/TaskService/Tasks/1", redfish.Task{
		ID:         "1",
		TaskState:  redfish.TaskStateCompleted,
		TaskStatus: redfish.TaskStatusOK,
		Messages:   []redfish.TaskMessage{{Args: []string{"/volumes/0"}}},
	})

	p := New(ft, "/redfish/v1/Systems/1", nil)
	specs := []LogicalDiskSpec{{RaidLevel: "1", Size: SizeMax}}

	if err := p.ApplyRAIDConfiguration(context.Background(), specs); err != nil {
		t.Fatalf("ApplyRAIDConfiguration: %v", err)
	}

	if len(ft.posts) != 1 {
		t.Fatalf("posts = %+v, want exactly one volume create", ft.posts)
	}
	if ft.posts[0].odataID != "/volumes" {
		t.Fatalf("posted to %q, want /volumes", ft.posts[0].odataID)
	}
	body, ok := ft.posts[0].body.(redfish.VolumeCreateRequest)
	if !ok {
		t.Fatalf("post body type = %T, want VolumeCreateRequest", ft.posts[0].body)
	}
	if body.Oem.Huawei.VolumeRaidLevel != "1" {
		t.Fatalf("VolumeRaidLevel = %q, want 1", body.Oem.Huawei.VolumeRaidLevel)
	}
	if len(body.Oem.Huawei.Drives) != 2 {
		t.Fatalf("Drives = %v, want both disks", body.Oem.Huawei.Drives)
	}
}

func TestApplyRAIDConfiguration_RootVolumeBootEnablePatchCarriesETag(t *testing.T) {
	ft := newFakeTransport().
		withBody("/redfish/v1/Systems/1", redfish.System{Storage: redfish.ODataIDRef{ODataID: "/storage"}}).
		withBody("/storage", redfish.StorageCollection{Members: []redfish.ODataIDRef{{ODataID: "/storage/1"}}}).
		withBody("/storage/1", redfish.Storage{
			ODataID: "/storage/1",
			StorageControllers: []redfish.StorageController{{
				MemberID: "RAID.1",
				Oem: redfish.ControllerOem{Huawei: &redfish.HuaweiControllerOem{
					OOBSupport:          true,
					SupportedRAIDLevels: []string{"1"},
				}},
			}},
			Drives:  []redfish.ODataIDRef{{ODataID: "/drives/0"}, {ODataID: "/drives/1"}},
			Volumes: redfish.ODataIDRef{ODataID: "/volumes"},
		}).
		withBody("/drives/0", redfish.Drive{
			ID: "0", CapacityBytes: 200 * 1_000_000_000,
			Oem: redfish.DriveOem{Huawei: &redfish.HuaweiDriveOem{DriveID: 0, FirmwareState: raid.FirmwareStateUnconfiguredGood}},
		}).
		withBody("/drives/1", redfish.Drive{
			ID: "1", CapacityBytes: 200 * 1_000_000_000,
			Oem: redfish.DriveOem{Huawei: &redfish.HuaweiDriveOem{DriveID: 1, FirmwareState: raid.FirmwareStateUnconfiguredGood}},
		}).
		withBody("/volumes", redfish.VolumeCollection{}).
		withBody("/volumes/0", redfish.Volume{ODataID: "/volumes/0"})

	ft.postTaskLocation = "/redfish/v1/TaskService/Tasks/1"
	ft.withBody("/redfish/v1/TaskService/Tasks/1", redfish.Task{
		ID:         "1",
		TaskState:  redfish.TaskStateCompleted,
		TaskStatus: redfish.TaskStatusOK,
		Messages:   []redfish.TaskMessage{{Args: []string{"/volumes/0"}}},
	})

	p := New(ft, "/redfish/v1/Systems/1", nil)
	specs := []LogicalDiskSpec{{RaidLevel: "1", Size: SizeMax, IsRootVolume: true}}

	if err := p.ApplyRAIDConfiguration(context.Background(), specs); err != nil {
		t.Fatalf("ApplyRAIDConfiguration: %v", err)
	}

	if len(ft.patches) != 1 {
		t.Fatalf("patches = %+v, want exactly one BootEnable patch", ft.patches)
	}
	if ft.patches[0].odataID != "/volumes/0" {
		t.Fatalf("patched %q, want /volumes/0", ft.patches[0].odataID)
	}
	if ft.patches[0].etag == "" {
		t.Fatal("BootEnable patch must carry the volume's freshly fetched ETag, got empty")
	}
}

func TestApplyRAIDConfiguration_JBODPatchesControllerInsteadOfCreatingAVolume(t *testing.T) {
	ft := newFakeTransport().
		withBody("/redfish/v1/Systems/1", redfish.System{Storage: redfish.ODataIDRef{ODataID: "/storage"}}).
		withBody("/storage", redfish.StorageCollection{Members: []redfish.ODataIDRef{{ODataID: "/storage/1"}}}).
		withBody("/storage/1", redfish.Storage{
			ODataID: "/storage/1",
			StorageControllers: []redfish.StorageController{{
				MemberID: "RAID.1",
				Oem: redfish.ControllerOem{Huawei: &redfish.HuaweiControllerOem{OOBSupport: true}},
			}},
		})

	p := New(ft, "/redfish/v1/Systems/1", nil)
	specs := []LogicalDiskSpec{{RaidLevel: "JBOD", Size: SizeMax}}

	if err := p.ApplyRAIDConfiguration(context.Background(), specs); err != nil {
		t.Fatalf("ApplyRAIDConfiguration: %v", err)
	}

	if len(ft.posts) != 0 {
		t.Fatalf("JBOD should never create a volume, got posts %+v", ft.posts)
	}
	if len(ft.patches) != 1 || ft.patches[0].odataID != "/storage/1" {
		t.Fatalf("patches = %+v, want one patch of /storage/1", ft.patches)
	}
	patch, ok := ft.patches[0].body.(redfish.StorageControllerPatchRequest)
	if !ok || !*patch.StorageControllers[0].Oem.Huawei.JBODState {
		t.Fatalf("patch body = %+v, want JBODState=true", ft.patches[0].body)
	}
}

func TestBuildVolumeCreateRequest_OmitsCapacityForMax(t *testing.T) {
	req, err := NewLogicalDiskRequest(LogicalDiskSpec{RaidLevel: "1", Size: SizeMax})
	if err != nil {
		t.Fatalf("NewLogicalDiskRequest: %v", err)
	}
	req.driveIDs = []int{0, 1}

	body := buildVolumeCreateRequest(req)
	if body.CapacityBytes != 0 {
		t.Fatalf("CapacityBytes = %d, want 0 (omitted) for a MAX request", body.CapacityBytes)
	}
	if body.Oem.Huawei.VolumeRaidLevel != "1" {
		t.Fatalf("VolumeRaidLevel = %q, want 1", body.Oem.Huawei.VolumeRaidLevel)
	}
}

func TestBuildVolumeCreateRequest_FixedSizeSetsCapacityAndOmitsLevelInExistingGroup(t *testing.T) {
	req, err := NewLogicalDiskRequest(LogicalDiskSpec{RaidLevel: "5", Size: "400"})
	if err != nil {
		t.Fatalf("NewLogicalDiskRequest: %v", err)
	}
	req.driveIDs = []int{8}
	req.inExistingGroup = true

	body := buildVolumeCreateRequest(req)
	if body.CapacityBytes != 400*1_000_000_000 {
		t.Fatalf("CapacityBytes = %d, want 400 GB in bytes", body.CapacityBytes)
	}
	if body.Oem.Huawei.VolumeRaidLevel != "" {
		t.Fatalf("VolumeRaidLevel = %q, want empty when joining an existing group", body.Oem.Huawei.VolumeRaidLevel)
	}
}
