package service

// Ptr returns a pointer to a copy of v. Used for optional fields such as ReplicationInstance.InstanceInfo.
func Ptr[T any](v T) *T {
	return &v
}

// Value dereferences p, returning the zero value for nil. Absent optional query parameters
// (lastDirtyTimestamp, regions) read as zero through it.
func Value[T any](p *T) T {
	var out T
	if p != nil {
		out = *p
	}
	return out
}
