package resource

import (
	"context"
	"testing"

	"raidctl/internal/raiderr"
	"raidctl/pkg/redfish"
)

// mapLoader serves canned resource bodies by @odata.id, for tests that
// exercise Storage's Drives/Volumes/Summary methods without a real server.
type mapLoader struct {
	drives  map[string]redfish.Drive
	volumes map[string]redfish.Volume
	coll    map[string]redfish.VolumeCollection
}

func (m *mapLoader) Get(_ context.Context, odataID string, out interface{}) (string, error) {
	switch v := out.(type) {
	case *redfish.Drive:
		*v = m.drives[odataID]
	case *redfish.Volume:
		*v = m.volumes[odataID]
	case *redfish.VolumeCollection:
		*v = m.coll[odataID]
	}
	return `"etag"`, nil
}

func TestStorage_Controllers(t *testing.T) {
	s := NewStorage(redfish.Storage{
		ODataID: "/redfish/v1/Systems/1/Storage/1",
		StorageControllers: []redfish.StorageController{
			{MemberID: "RAID.1"},
			{MemberID: "RAID.2"},
		},
	}, `"s-etag"`)

	ctrls := s.Controllers()
	if len(ctrls) != 2 {
		t.Fatalf("Controllers() returned %d, want 2", len(ctrls))
	}
	if ctrls[0].StorageODataID() != "/redfish/v1/Systems/1/Storage/1" {
		t.Fatalf("StorageODataID() = %q", ctrls[0].StorageODataID())
	}
}

func TestStorage_FindController(t *testing.T) {
	single := NewStorage(redfish.Storage{
		StorageControllers: []redfish.StorageController{{MemberID: "RAID.1"}},
	}, "")
	c, err := single.FindController("")
	if err != nil {
		t.Fatalf("FindController(\"\") on a single-controller storage: %v", err)
	}
	if c.MemberID() != "RAID.1" {
		t.Fatalf("MemberID() = %q", c.MemberID())
	}

	multi := NewStorage(redfish.Storage{
		StorageControllers: []redfish.StorageController{{MemberID: "RAID.1"}, {MemberID: "RAID.2"}},
	}, "")
	if _, err := multi.FindController(""); !raiderr.Is(err, raiderr.KindControllerHintRequired) {
		t.Fatalf("err = %v, want KindControllerHintRequired", err)
	}
	c2, err := multi.FindController("RAID.2")
	if err != nil {
		t.Fatalf("FindController(\"RAID.2\"): %v", err)
	}
	if c2.MemberID() != "RAID.2" {
		t.Fatalf("MemberID() = %q, want RAID.2", c2.MemberID())
	}
	if _, err := multi.FindController("nope"); !raiderr.Is(err, raiderr.KindNoControllerMatchesHint) {
		t.Fatalf("err = %v, want KindNoControllerMatchesHint", err)
	}
}

func TestStorage_Matches(t *testing.T) {
	s := NewStorage(redfish.Storage{
		ID:                 "1",
		Name:               "Embedded RAID Storage",
		StorageControllers: []redfish.StorageController{{Name: "RAID Card 1"}},
	}, "")

	if s.Matches("") {
		t.Error("an empty hint should never match")
	}
	if !s.Matches("1") {
		t.Error("expected hint to match storage id")
	}
	if !s.Matches("RAID Card 1") {
		t.Error("expected hint to match the first controller's name")
	}
	if s.Matches("unrelated") {
		t.Error("unrelated hint should not match")
	}
}

func TestStorage_DrivesAndVolumesAndSummary(t *testing.T) {
	driveRef := "/redfish/v1/Systems/1/Storage/1/Drives/0"
	volRef := "/redfish/v1/Systems/1/Storage/1/Volumes/0"
	volColl := "/redfish/v1/Systems/1/Storage/1/Volumes"

	s := NewStorage(redfish.Storage{
		Name:    "Embedded RAID Storage",
		Drives:  []redfish.ODataIDRef{{ODataID: driveRef}},
		Volumes: redfish.ODataIDRef{ODataID: volColl},
	}, "")

	loader := &mapLoader{
		drives: map[string]redfish.Drive{
			driveRef: {ID: "0", CapacityBytes: 1_000_000_000},
		},
		volumes: map[string]redfish.Volume{
			volRef: {ID: "LD0"},
		},
		coll: map[string]redfish.VolumeCollection{
			volColl: {Members: []redfish.ODataIDRef{{ODataID: volRef}}},
		},
	}

	drives, err := s.Drives(context.Background(), loader)
	if err != nil {
		t.Fatalf("Drives: %v", err)
	}
	if len(drives) != 1 || drives[0].ID() != "0" {
		t.Fatalf("Drives() = %+v", drives)
	}

	volumes, err := s.Volumes(context.Background(), loader)
	if err != nil {
		t.Fatalf("Volumes: %v", err)
	}
	if len(volumes) != 1 || volumes[0].ID() != "LD0" {
		t.Fatalf("Volumes() = %+v", volumes)
	}

	summary, err := s.Summary(context.Background(), loader)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary == "" {
		t.Fatal("Summary() should not be empty")
	}
}

func TestStorage_VolumesWithNoCollectionReturnsNil(t *testing.T) {
	s := NewStorage(redfish.Storage{}, "")
	volumes, err := s.Volumes(context.Background(), &mapLoader{})
	if err != nil {
		t.Fatalf("Volumes: %v", err)
	}
	if volumes != nil {
		t.Fatalf("Volumes() = %+v, want nil", volumes)
	}
}
