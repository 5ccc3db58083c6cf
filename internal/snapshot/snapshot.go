// Package snapshot holds the inventory records the reclaimer works on.
package snapshot

import "time"

// Snapshot represents a single block-storage snapshot owned by the caller.
type Snapshot struct {
	ID          string
	VolumeID    string // empty when the snapshot has no source volume reference
	State       string
	StartTime   time.Time
	SizeGiB     int32
	Description string
	Tags        map[string]string
}

// HasVolume reports whether the snapshot still references a source volume.
func (s Snapshot) HasVolume() bool {
	return s.VolumeID != ""
}

// Volume is a block-storage volume and its current attachments.
type Volume struct {
	ID          string
	State       string
	Attachments []Attachment
}

// Attached reports whether the volume has at least one attachment.
func (v Volume) Attached() bool {
	return len(v.Attachments) > 0
}

// Attachment records that a volume is mounted to an instance.
type Attachment struct {
	InstanceID string
	State      string
}

// InstanceStateRunning is the only instance state the reclaimer cares about.
const InstanceStateRunning = "running"

// Instance is a compute instance.
type Instance struct {
	ID    string
	State string
}

// Running reports whether the instance is in the running state.
func (i Instance) Running() bool {
	return i.State == InstanceStateRunning
}
