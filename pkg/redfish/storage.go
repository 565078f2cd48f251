// Shoal is a Redfish aggregator service.
// Copyright (C) 2025  Matthew Burns
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package redfish

// System represents a Redfish ComputerSystem.
type System struct {
	ODataContext string     `json:"@odata.context"`
	ODataID      string     `json:"@odata.id"`
	ODataType    string     `json:"@odata.type"`
	ID           string     `json:"Id"`
	Name         string     `json:"Name"`
	Manufacturer string     `json:"Manufacturer"`
	Model        string     `json:"Model"`
	SerialNumber string     `json:"SerialNumber"`
	PowerState   string     `json:"PowerState"`
	Storage      ODataIDRef `json:"Storage"`
	Oem          SystemOem  `json:"Oem,omitempty"`
}

// SystemOem holds the vendor extension fields read from a System's Oem block.
type SystemOem struct {
	Huawei *HuaweiSystemOem `json:"Huawei,omitempty"`
}

// HuaweiSystemOem carries the storage-readiness gate polled before listing
// controllers, and BootupSequence (boot-order itself is out of this
// module's scope, but the field is part of the same System.Oem.Huawei
// block the storage gate is read from).
type HuaweiSystemOem struct {
	StorageConfigReady *int     `json:"StorageConfigReady,omitempty"`
	BootupSequence     []string `json:"BootupSequence,omitempty"`
}

// ManagerCollection is the Managers collection under the service root.
type ManagerCollection = Collection

// Manager represents a Redfish Manager resource. Only its Id is consulted:
// the sole member's trailing @odata.id segment is the resource id used to
// address Systems/{id} and Managers/{id} throughout the session.
type Manager struct {
	ODataContext string `json:"@odata.context"`
	ODataID      string `json:"@odata.id"`
	ODataType    string `json:"@odata.type"`
	ID           string `json:"Id"`
	Name         string `json:"Name"`
}

// Chassis represents a Redfish Chassis resource; only the drives it links to
// are consulted.
type Chassis struct {
	ODataContext string      `json:"@odata.context"`
	ODataID      string      `json:"@odata.id"`
	ODataType    string      `json:"@odata.type"`
	ID           string      `json:"Id"`
	Name         string      `json:"Name"`
	Links        ChassisLinks `json:"Links"`
}

// ChassisLinks holds the drives attached to a chassis.
type ChassisLinks struct {
	Drives []ODataIDRef `json:"Drives"`
}

// StorageCollection is the Storage subsystems collection under a System.
type StorageCollection = Collection

// Storage represents a Redfish Storage resource: one or more controllers and
// the drives/volumes attached to them.
type Storage struct {
	ODataContext string            `json:"@odata.context"`
	ODataID      string            `json:"@odata.id"`
	ODataType    string            `json:"@odata.type"`
	ID           string            `json:"Id"`
	Name         string            `json:"Name"`
	Status       ResourceStatus    `json:"Status"`
	StorageControllers []StorageController `json:"StorageControllers"`
	Drives       []ODataIDRef      `json:"Drives"`
	Volumes      ODataIDRef        `json:"Volumes"`
}

// StorageController represents one embedded storage controller description
// within a Storage resource's StorageControllers array.
type StorageController struct {
	MemberID              string         `json:"MemberId"`
	Name                  string         `json:"Name"`
	Manufacturer          string         `json:"Manufacturer"`
	Model                 string         `json:"Model"`
	FirmwareVersion       string         `json:"FirmwareVersion"`
	SupportedRAIDTypes    []string       `json:"SupportedRAIDTypes"`
	Status                ResourceStatus `json:"Status"`
	Oem                   ControllerOem  `json:"Oem,omitempty"`
}

// ControllerOem holds the vendor extension fields read from a storage
// controller's Oem block (e.g. OOB-RAID readiness and supported modes).
type ControllerOem struct {
	Huawei *HuaweiControllerOem `json:"Huawei,omitempty"`
}

// HuaweiControllerOem mirrors the vendor extension block consulted for
// out-of-band RAID readiness and capability checks, and patched to toggle
// JBOD/copy-back modes. SupportedRAIDLevels carries the user-facing level
// keys ("0","1","5","6","1+0","5+0","6+0"), distinct from the standard
// Redfish SupportedRAIDTypes reported on the controller itself.
type HuaweiControllerOem struct {
	ControllerID         int      `json:"ControllerID"`
	SupportedDiskType    []string `json:"SupportedDiskType"`
	SupportedRAIDLevels  []string `json:"SupportedRAIDLevels,omitempty"`
	OOBSupport           bool     `json:"OOBSupport"`
	JBODState            bool     `json:"JBODState"`
	CopyBackState        string   `json:"CopyBackState,omitempty"`
	SmarterCopyBackState string   `json:"SmarterCopyBackState,omitempty"`
}

// StorageControllerPatchRequest is the PATCH body used to toggle a
// controller's vendor-extension mode bits. Redfish requires re-addressing
// the array member by index even though only one controller is ever
// embedded per Storage resource in this wire contract.
type StorageControllerPatchRequest struct {
	StorageControllers []StorageControllerPatch `json:"StorageControllers"`
}

// StorageControllerPatch is one element of a StorageControllerPatchRequest.
type StorageControllerPatch struct {
	Oem StorageControllerPatchOem `json:"Oem"`
}

// StorageControllerPatchOem is the vendor extension block of a
// StorageControllerPatch.
type StorageControllerPatchOem struct {
	Huawei HuaweiControllerPatch `json:"Huawei"`
}

// HuaweiControllerPatch carries the subset of controller fields settable by
// PATCH: JBODState (mode toggle), CopyBackState/SmarterCopyBackState.
type HuaweiControllerPatch struct {
	JBODState            *bool  `json:"JBODState,omitempty"`
	CopyBackState        string `json:"CopyBackState,omitempty"`
	SmarterCopyBackState string `json:"SmarterCopyBackState,omitempty"`
}

// ResourceStatus is the Redfish common Status block.
type ResourceStatus struct {
	State  string `json:"State"`
	Health string `json:"Health"`
}

// DriveCollection is the Drives collection referenced by a Chassis or Storage.
type DriveCollection = Collection

// Drive represents a Redfish Drive resource (one physical disk).
type Drive struct {
	ODataContext     string         `json:"@odata.context"`
	ODataID          string         `json:"@odata.id"`
	ODataType        string         `json:"@odata.type"`
	ID               string         `json:"Id"`
	Name             string         `json:"Name"`
	SerialNumber     string         `json:"SerialNumber,omitempty"`
	Protocol         string         `json:"Protocol"`
	MediaType        string         `json:"MediaType"`
	CapacityBytes    int64          `json:"CapacityBytes"`
	Status           ResourceStatus `json:"Status"`
	Oem              DriveOem       `json:"Oem,omitempty"`
}

// DriveOem holds the vendor extension fields read from a Drive's Oem block:
// its numeric wire identifier and firmware/config state.
type DriveOem struct {
	Huawei *HuaweiDriveOem `json:"Huawei,omitempty"`
}

// HuaweiDriveOem mirrors the vendor extension fields consulted for the
// firmware config state (UnconfiguredGood / HotSpareDrive / JBOD / ...) and the
// numeric drive id used on RAID create/delete wire payloads.
type HuaweiDriveOem struct {
	DriveID       int    `json:"DriveID"`
	FirmwareState string `json:"FirmwareStatus"`
	HotspareType  string `json:"HotspareType,omitempty"`
}

// DriveSetRequest is the PATCH body for restoring/reconfiguring one drive.
// HotspareType is a top-level field; firmware state lives under Oem.Huawei.
type DriveSetRequest struct {
	HotspareType string    `json:"HotspareType,omitempty"`
	Oem          *DriveSetOem `json:"Oem,omitempty"`
}

// DriveSetOem is the vendor extension block of a DriveSetRequest.
type DriveSetOem struct {
	Huawei *HuaweiDriveSetOem `json:"Huawei,omitempty"`
}

// HuaweiDriveSetOem carries the firmware state settable on a drive (used to
// restore a drive to UnconfiguredGood after it leaves a deleted RAID group).
type HuaweiDriveSetOem struct {
	FirmwareStatus string `json:"FirmwareStatus,omitempty"`
}

// VolumeCollection is the Volumes collection referenced by a Storage resource.
type VolumeCollection = Collection

// Volume represents a Redfish Volume resource (one logical disk).
type Volume struct {
	ODataContext     string          `json:"@odata.context"`
	ODataID          string          `json:"@odata.id"`
	ODataType        string          `json:"@odata.type"`
	ID               string          `json:"Id"`
	Name             string          `json:"Name"`
	VolumeType       string          `json:"VolumeType"`
	RAIDType         string          `json:"RAIDType"`
	CapacityBytes    int64           `json:"CapacityBytes"`
	Status           ResourceStatus  `json:"Status"`
	Links            VolumeLinks     `json:"Links"`
	Oem              VolumeOem       `json:"Oem,omitempty"`
}

// VolumeLinks holds the drives backing a volume.
type VolumeLinks struct {
	Drives []ODataIDRef `json:"Drives"`
}

// VolumeOem holds the vendor extension fields of a Volume (bootable flag, etc).
type VolumeOem struct {
	Huawei *HuaweiVolumeOem `json:"Huawei,omitempty"`
}

// HuaweiVolumeOem carries the boot-priority / bootable flag extension and,
// on a freshly created volume, the raid level and span it was created with.
type HuaweiVolumeOem struct {
	BootPriority    string `json:"BootPriority,omitempty"`
	BootEnable      bool   `json:"BootEnable,omitempty"`
	VolumeRaidLevel string `json:"VolumeRaidLevel,omitempty"`
	SpanNumber      int    `json:"SpanNumber,omitempty"`
}

// VolumeCreateRequest is the POST body sent to a Storage's Volumes
// collection to create a new logical disk. CapacityBytes is omitted for a
// MAX-sized request; VolumeRaidLevel is omitted when creating a volume
// inside an existing shareable disk group (the group's raid setting
// already governs it); SpanNumber is omitted for span 1 or unknown span.
type VolumeCreateRequest struct {
	CapacityBytes int64            `json:"CapacityBytes,omitempty"`
	Oem           *VolumeCreateOem `json:"Oem,omitempty"`
}

// VolumeCreateOem is the vendor extension block of a VolumeCreateRequest.
type VolumeCreateOem struct {
	Huawei *HuaweiVolumeCreateOem `json:"Huawei,omitempty"`
}

// HuaweiVolumeCreateOem carries the fields accepted on volume creation:
// VolumeName (only if the caller set one), VolumeRaidLevel, the OEM numeric
// Drives ids backing the volume, and SpanNumber.
type HuaweiVolumeCreateOem struct {
	VolumeName      string `json:"VolumeName,omitempty"`
	VolumeRaidLevel string `json:"VolumeRaidLevel,omitempty"`
	Drives          []int  `json:"Drives,omitempty"`
	SpanNumber      int    `json:"SpanNumber,omitempty"`
}

// VolumePatchRequest is the PATCH body used to set a volume's bootable flag
// after creation.
type VolumePatchRequest struct {
	Oem *VolumePatchOem `json:"Oem,omitempty"`
}

// VolumePatchOem is the vendor extension block of a VolumePatchRequest.
type VolumePatchOem struct {
	Huawei *HuaweiVolumePatch `json:"Huawei,omitempty"`
}

// HuaweiVolumePatch carries the fields settable by PATCH on an existing volume.
type HuaweiVolumePatch struct {
	BootEnable bool `json:"BootEnable"`
}

// VolumeInitializeRequest is the body of the Volume.Initialize action.
type VolumeInitializeRequest struct {
	Type string `json:"Type"`
}

// Volume.Initialize action type values.
const (
	VolumeInitTypeQuick  = "QuickInit"
	VolumeInitTypeFull   = "FullInit"
	VolumeInitTypeCancel = "CancelInit"
)

// Task represents a Redfish Task resource polled to completion by the task
// tracker.
type Task struct {
	ODataContext  string   `json:"@odata.context"`
	ODataID       string   `json:"@odata.id"`
	ODataType     string   `json:"@odata.type"`
	ID            string   `json:"Id"`
	Name          string   `json:"Name"`
	TaskState     string   `json:"TaskState"`
	TaskStatus    string   `json:"TaskStatus"`
	PercentComplete int    `json:"PercentComplete"`
	Messages      []TaskMessage `json:"Messages,omitempty"`
}

// TaskMessage is one entry of a Task's Messages array.
type TaskMessage struct {
	MessageID string   `json:"MessageId"`
	Message   string   `json:"Message"`
	Severity  string   `json:"Severity"`
	Args      []string `json:"MessageArgs,omitempty"`
}

// Task state values. A task is in-flight until TaskState reaches one of
// the terminal values below.
const (
	TaskStateNew        = "New"
	TaskStateStarting   = "Starting"
	TaskStateRunning    = "Running"
	TaskStatePending    = "Pending"

	TaskStateCompleted  = "Completed"
	TaskStateException  = "Exception"
	TaskStateCancelled  = "Cancelled"
	TaskStateKilled     = "Killed"
	TaskStateInterrupted = "Interrupted"
)

// Task status values used alongside TaskState to classify success/failure.
const (
	TaskStatusOK       = "OK"
	TaskStatusWarning  = "Warning"
	TaskStatusCritical = "Critical"
)
