package resource

import (
	"testing"

	"raidctl/pkg/redfish"
)

func TestDrive_FirmwareStateAndOEMDriveID_AbsentOem(t *testing.T) {
	d := NewDrive(redfish.Drive{ID: "1"}, "")
	if got := d.FirmwareState(); got != "" {
		t.Fatalf("FirmwareState() = %q, want \"\"", got)
	}
	if got := d.OEMDriveID(); got != -1 {
		t.Fatalf("OEMDriveID() = %d, want -1", got)
	}
	if d.IsUnconfiguredGood() {
		t.Fatal("IsUnconfiguredGood() should be false without an Oem block")
	}
}

func TestDrive_IsUnconfiguredGood(t *testing.T) {
	tests := []struct {
		state string
		want  bool
	}{
		{"UnconfiguredGood", true},
		{"unconfiguredgood", true},
		{"HotSpareDrive", false},
		{"JBOD", false},
	}
	for _, tt := range tests {
		d := NewDrive(redfish.Drive{Oem: redfish.DriveOem{Huawei: &redfish.HuaweiDriveOem{FirmwareState: tt.state}}}, "")
		if got := d.IsUnconfiguredGood(); got != tt.want {
			t.Errorf("IsUnconfiguredGood() for state %q = %v, want %v", tt.state, got, tt.want)
		}
	}
}

func TestDrive_Matches(t *testing.T) {
	d := NewDrive(redfish.Drive{
		ID:           "Disk.Bay.0",
		Name:         "Disk 0",
		SerialNumber: "SN12345",
		MediaType:    "SSD",
		Protocol:     "SAS",
		Oem:          redfish.DriveOem{Huawei: &redfish.HuaweiDriveOem{DriveID: 7}},
	}, `"etag1"`)

	tests := []struct {
		name      string
		hint      string
		mediaType string
		protocol  string
		want      bool
	}{
		{"matches by id", "Disk.Bay.0", "", "", true},
		{"matches by name case-insensitive", "disk 0", "", "", true},
		{"matches by serial", "SN12345", "", "", true},
		{"matches by OEM numeric id", "7", "", "", true},
		{"no hint, media and protocol both match", "", "SSD", "SAS", true},
		{"no hint, media type mismatches", "", "HDD", "", false},
		{"no hint, protocol mismatches", "", "", "SATA", false},
		{"hint mismatches everything", "nope", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.Matches(tt.hint, tt.mediaType, tt.protocol); got != tt.want {
				t.Errorf("Matches(%q, %q, %q) = %v, want %v", tt.hint, tt.mediaType, tt.protocol, got, tt.want)
			}
		})
	}

	if d.ETagValue() != `"etag1"` {
		t.Fatalf("ETagValue() = %q", d.ETagValue())
	}
}
