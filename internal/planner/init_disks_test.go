package planner

import (
	"testing"

	"raidctl/internal/raid"
	"raidctl/internal/raiderr"
)

func testDisk(id string, oemID int, capacityGB int64) *raid.PhysicalDisk {
	return &raid.PhysicalDisk{
		ID:            id,
		OEMDriveID:    oemID,
		MediaType:     "HDD",
		CapacityBytes: capacityGB * 1_000_000_000,
		FirmwareState: raid.FirmwareStateUnconfiguredGood,
	}
}

func specRequest(t *testing.T, spec LogicalDiskSpec) *LogicalDiskRequest {
	t.Helper()
	req, err := NewLogicalDiskRequest(spec)
	if err != nil {
		t.Fatalf("NewLogicalDiskRequest: %v", err)
	}
	return req
}

// A share request naming all four drives of an existing
// matching group creates in-group: req.driveIDs holds only the group's
// first drive, its span/level are deferred to the group.
func TestInitDisks_ShareSpecifiedMatchingGroup(t *testing.T) {
	disks := []*raid.PhysicalDisk{
		testDisk("8", 8, 200), testDisk("9", 9, 200), testDisk("10", 10, 200), testDisk("11", 11, 200),
	}
	raid5, _ := raid.Lookup("5")
	group := raid.NewDiskGroup(disks, raid5, 1)
	group.AddUsedCapacityBytes(200 * 1_000_000_000)
	groups := []*raid.DiskGroup{group}

	req := specRequest(t, LogicalDiskSpec{
		RaidLevel:          "5",
		Size:               "400",
		SharePhysicalDisks: true,
		PhysicalDiskHints:  []string{"8", "9", "10", "11"},
	})

	if err := initDisks(req, disks, &groups); err != nil {
		t.Fatalf("initDisks: %v", err)
	}
	if !req.inExistingGroup {
		t.Fatal("expected request to resolve into the existing group")
	}
	if len(req.driveIDs) != 1 || req.driveIDs[0] != 8 {
		t.Fatalf("driveIDs = %v, want [8] (group's first drive)", req.driveIDs)
	}
	if len(groups) != 1 {
		t.Fatalf("no new group should have been appended, got %d groups", len(groups))
	}
}

// A share request naming four drives that don't belong to
// any existing group creates a normal RAID5 volume on those drives and
// appends a new in-memory group for subsequent share requests to see.
func TestInitDisks_ShareSpecifiedNoMatchingGroup(t *testing.T) {
	existing := []*raid.PhysicalDisk{testDisk("0", 0, 200), testDisk("1", 1, 200), testDisk("2", 2, 200), testDisk("3", 3, 200)}
	raid5, _ := raid.Lookup("5")
	existingGroup := raid.NewDiskGroup(existing, raid5, 1)
	groups := []*raid.DiskGroup{existingGroup}

	pool := append(existing, testDisk("8", 8, 200), testDisk("9", 9, 200), testDisk("10", 10, 200), testDisk("11", 11, 200))

	req := specRequest(t, LogicalDiskSpec{
		RaidLevel:          "5",
		Size:               "400",
		SharePhysicalDisks: true,
		PhysicalDiskHints:  []string{"8", "9", "10", "11"},
	})

	if err := initDisks(req, pool, &groups); err != nil {
		t.Fatalf("initDisks: %v", err)
	}
	if req.inExistingGroup {
		t.Fatal("request should not have joined the unrelated existing group")
	}
	if len(req.driveIDs) != 4 {
		t.Fatalf("driveIDs = %v, want all four specified drives", req.driveIDs)
	}
	if len(groups) != 2 {
		t.Fatalf("a new group should have been appended, got %d groups", len(groups))
	}
	for _, d := range pool {
		if d.ID == "8" || d.ID == "9" || d.ID == "10" || d.ID == "11" {
			if !d.IsExclusive() {
				t.Fatalf("drive %s should be marked exclusive", d.ID)
			}
		}
	}
}

// JBOD mixed with another RAID level on the same
// controller is rejected.
func TestValidateNoJBODMixing(t *testing.T) {
	jbod := specRequest(t, LogicalDiskSpec{RaidLevel: "JBOD", Size: "MAX"})
	raid0 := specRequest(t, LogicalDiskSpec{RaidLevel: "0", Size: "MAX"})

	err := validateNoJBODMixing([]*LogicalDiskRequest{jbod, raid0})
	if err == nil {
		t.Fatal("expected InvalidLogicalDiskConfig for mixed JBOD/RAID batch")
	}
	if !raiderr.Is(err, raiderr.KindInvalidLogicalDiskCfg) {
		t.Fatalf("error = %v, want KindInvalidLogicalDiskCfg", err)
	}

	if err := validateNoJBODMixing([]*LogicalDiskRequest{jbod}); err != nil {
		t.Fatalf("a pure-JBOD batch should be valid: %v", err)
	}
}

// An unresolved hint fails NoDriveMatchesHint.
func TestInitDisks_UnresolvedHintFails(t *testing.T) {
	pool := []*raid.PhysicalDisk{testDisk("0", 0, 200), testDisk("1", 1, 200)}
	req := specRequest(t, LogicalDiskSpec{
		RaidLevel:         "1",
		Size:              "MAX",
		PhysicalDiskHints: []string{"does-not-exist"},
	})

	err := initDisks(req, pool, &[]*raid.DiskGroup{})
	if !raiderr.Is(err, raiderr.KindNoDriveMatchesHint) {
		t.Fatalf("error = %v, want KindNoDriveMatchesHint", err)
	}
}

// Cohort ordering follows the seven-bucket order, stable within a bucket.
func TestCohortOrder(t *testing.T) {
	unsharedSpecified := specRequest(t, LogicalDiskSpec{RaidLevel: "1", Size: "100", PhysicalDiskHints: []string{"0", "1"}})
	unsharedFixedAutoPicked := specRequest(t, LogicalDiskSpec{RaidLevel: "1", Size: "100"})
	sharedSpecifiedFixed := specRequest(t, LogicalDiskSpec{RaidLevel: "1", Size: "100", SharePhysicalDisks: true, PhysicalDiskHints: []string{"0", "1"}})
	sharedSpecifiedMax := specRequest(t, LogicalDiskSpec{RaidLevel: "1", Size: "MAX", SharePhysicalDisks: true, PhysicalDiskHints: []string{"0", "1"}})
	sharedUnspecifiedFixed := specRequest(t, LogicalDiskSpec{RaidLevel: "1", Size: "100", SharePhysicalDisks: true})
	sharedUnspecifiedMax := specRequest(t, LogicalDiskSpec{RaidLevel: "1", Size: "MAX", SharePhysicalDisks: true})
	unsharedAuto := specRequest(t, LogicalDiskSpec{RaidLevel: "1", Size: "MAX"})

	reqs := []*LogicalDiskRequest{
		unsharedAuto, sharedUnspecifiedMax, sharedUnspecifiedFixed,
		sharedSpecifiedMax, sharedSpecifiedFixed, unsharedFixedAutoPicked, unsharedSpecified,
	}
	sortPending(reqs)

	want := []*LogicalDiskRequest{
		unsharedSpecified, unsharedFixedAutoPicked, sharedSpecifiedFixed,
		sharedSpecifiedMax, sharedUnspecifiedFixed, sharedUnspecifiedMax, unsharedAuto,
	}
	for i := range want {
		if reqs[i] != want[i] {
			t.Fatalf("cohort order[%d] = %p, want %p (wrong bucket ordering)", i, reqs[i], want[i])
		}
	}
}
