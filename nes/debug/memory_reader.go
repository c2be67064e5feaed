package debug

// MemoryReader provides side effect free access to emulator memory for debug
// tools, decoupling them from the bus implementation.
type MemoryReader interface {
	Read(addr uint16) uint8
}

// SnapshotMemory copies up to size bytes starting at start, without wrapping
// past the end of the address space.
func SnapshotMemory(reader MemoryReader, start uint16, size int) *MemorySnapshot {
	if remaining := 0x10000 - int(start); size > remaining {
		size = remaining
	}
	if size < 0 {
		size = 0
	}

	snapshot := &MemorySnapshot{
		StartAddr: start,
		Bytes:     make([]uint8, size),
	}
	for i := range snapshot.Bytes {
		snapshot.Bytes[i] = reader.Read(start + uint16(i))
	}
	return snapshot
}
