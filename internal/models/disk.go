package models

// DiskRecord describes one virtual disk device.
type DiskRecord struct {
	UUID         string `json:"uuid"`
	Label        string `json:"label"`
	FileName     string `json:"fileName"`
	UnitNumber   int32  `json:"unitNumber"`
	CapacityInKB int64  `json:"capacityInKB"`
}

// DatastoreRecord describes the datastore a disk resides on.
type DatastoreRecord struct {
	Name        string `json:"name"`
	Capacity    int64  `json:"capacity"`
	FreeSpace   int64  `json:"freeSpace"`
	Uncommitted int64  `json:"uncommitted"`
	URL         string `json:"url"`
}

// DiskEntry pairs a disk with its own copy of its datastore record.
// Datastore is nil for disks whose backing has no datastore reference.
type DiskEntry struct {
	Disk      DiskRecord       `json:"disk"`
	Datastore *DatastoreRecord `json:"datastore"`
}
