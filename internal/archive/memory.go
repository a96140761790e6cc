package archive

import "maps"

// MemoryArchive is a map-backed Reader and Writer.
type MemoryArchive struct {
	entries map[string][]byte
}

// NewMemoryArchive returns an archive holding a copy of entries.
func NewMemoryArchive(entries map[string][]byte) *MemoryArchive {
	m := &MemoryArchive{
		entries: make(map[string][]byte, len(entries)),
	}

	maps.Copy(m.entries, entries)

	return m
}

// Lookup implements Reader.
func (m *MemoryArchive) Lookup(name string) ([]byte, bool, error) {
	data, ok := m.entries[name]
	if !ok {
		return nil, false, nil
	}

	return append([]byte(nil), data...), true, nil
}

// Size implements Reader.
func (m *MemoryArchive) Size(name string) (int64, bool, error) {
	data, ok := m.entries[name]
	if !ok {
		return 0, false, nil
	}

	return int64(len(data)), true, nil
}

// WriteFile implements Writer. Existing entries are rejected.
func (m *MemoryArchive) WriteFile(name string, data []byte) error {
	if _, ok := m.entries[name]; ok {
		return &DuplicateEntryError{Name: name}
	}

	m.entries[name] = append([]byte(nil), data...)

	return nil
}

// Len returns the number of entries currently stored.
func (m *MemoryArchive) Len() int {
	return len(m.entries)
}
