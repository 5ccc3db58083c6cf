package snapshot

// LookupStatus is the outcome of resolving a snapshot's volume reference.
type LookupStatus int

const (
	VolumeFound LookupStatus = iota
	VolumeNotFound
	VolumeLookupFailed
)

func (s LookupStatus) String() string {
	switch s {
	case VolumeFound:
		return "found"
	case VolumeNotFound:
		return "not-found"
	case VolumeLookupFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// VolumeLookup is the result of resolving a volume id.
// Volume is set only for VolumeFound, Err only for VolumeLookupFailed.
type VolumeLookup struct {
	Status LookupStatus
	Volume Volume
	Err    error
}

func Found(v Volume) VolumeLookup         { return VolumeLookup{Status: VolumeFound, Volume: v} }
func NotFound() VolumeLookup              { return VolumeLookup{Status: VolumeNotFound} }
func LookupFailed(err error) VolumeLookup { return VolumeLookup{Status: VolumeLookupFailed, Err: err} }

// Inventory is the point-in-time view of the account taken at the start of a run.
// It is built once and only read afterwards.
type Inventory struct {
	Snapshots []Snapshot
	volumes   map[string]Volume
	running   map[string]struct{}
}

// NewInventory indexes volumes by id and the running instances into a set.
// Instances that are not running are ignored.
func NewInventory(snaps []Snapshot, volumes []Volume, instances []Instance) *Inventory {
	inv := &Inventory{
		Snapshots: snaps,
		volumes:   make(map[string]Volume, len(volumes)),
		running:   make(map[string]struct{}, len(instances)),
	}
	for _, v := range volumes {
		inv.volumes[v.ID] = v
	}
	for _, i := range instances {
		if i.Running() {
			inv.running[i.ID] = struct{}{}
		}
	}
	return inv
}

// LookupVolume resolves a volume id against the fetched volume set.
func (inv *Inventory) LookupVolume(id string) VolumeLookup {
	v, ok := inv.volumes[id]
	if !ok {
		return NotFound()
	}
	return Found(v)
}

// IsRunning reports whether the instance was running when the inventory was taken.
func (inv *Inventory) IsRunning(instanceID string) bool {
	_, ok := inv.running[instanceID]
	return ok
}

// VolumeCount returns the number of indexed volumes.
func (inv *Inventory) VolumeCount() int { return len(inv.volumes) }

// RunningCount returns the number of running instances.
func (inv *Inventory) RunningCount() int { return len(inv.running) }
