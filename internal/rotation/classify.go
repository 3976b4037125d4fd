package rotation

import "github.com/vhark/ProxmoxMCP/internal/proxmox"

// Classify partitions a guest's snapshots into cadence buckets by decoding
// their names. Unrecognized names are dropped from consideration. Every
// cadence has a bucket, possibly empty, so callers can iterate all four
// unconditionally.
func Classify(snapshots []proxmox.Snapshot) map[Cadence][]proxmox.Snapshot {
	buckets := make(map[Cadence][]proxmox.Snapshot, len(Cadences))
	for _, c := range Cadences {
		buckets[c] = nil
	}
	for _, snap := range snapshots {
		parsed, ok := ParseSnapshotName(snap.Name)
		if !ok {
			continue
		}
		buckets[parsed.Cadence] = append(buckets[parsed.Cadence], snap)
	}
	return buckets
}
