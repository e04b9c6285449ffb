package model

import (
	"github.com/shirou/gopsutil/v3/disk"

	"github.com/lumipallolabs/diskscope/internal/logging"
)

// Drive represents a mounted volume and its capacity at enumeration time.
// The snapshot is not updated after ListDrives returns.
type Drive struct {
	Name           string `json:"name"`
	MountPoint     string `json:"mount_point"`
	TotalSpace     uint64 `json:"total_space"`
	AvailableSpace uint64 `json:"available_space"`
	UsedSpace      uint64 `json:"used_space"`
}

// UsedPercent returns the percentage of the volume in use.
func (d Drive) UsedPercent() float64 {
	if d.TotalSpace == 0 {
		return 0
	}
	return float64(d.UsedSpace) / float64(d.TotalSpace) * 100
}

// ListDrives enumerates mounted volumes with capacity statistics.
// Volumes whose capacity query fails are omitted rather than failing the
// whole call. Safe to call concurrently with a running scan.
func ListDrives() ([]Drive, error) {
	partitions, err := disk.Partitions(false)
	if err != nil {
		return nil, err
	}

	drives := make([]Drive, 0, len(partitions))
	for _, p := range partitions {
		usage, err := disk.Usage(p.Mountpoint)
		if err != nil {
			logging.Debug.Printf("skipping volume %s: %v", p.Mountpoint, err)
			continue
		}
		if usage.Total == 0 {
			// Pseudo filesystems report no capacity
			continue
		}

		name := p.Device
		if name == "" {
			name = p.Mountpoint
		}

		drives = append(drives, Drive{
			Name:           name,
			MountPoint:     p.Mountpoint,
			TotalSpace:     usage.Total,
			AvailableSpace: usage.Free,
			UsedSpace:      usage.Total - usage.Free,
		})
	}

	return drives, nil
}
