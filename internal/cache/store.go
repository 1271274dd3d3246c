package cache

import (
	"encoding/json"
	"os"

	"adaptive/internal/output"
)

// loadStore reads the entry map. A missing file is empty; an unreadable or
// corrupt one is logged and treated as empty.
func (c *Cache) loadStore() map[string]Entry {
	entries := map[string]Entry{}
	data, err := os.ReadFile(c.store)
	if os.IsNotExist(err) {
		return entries
	}
	if err == nil {
		err = json.Unmarshal(data, &entries)
	}
	if err != nil {
		c.logger.Warn("Failed to load cache", "file", c.store, "error", err.Error())
		return map[string]Entry{}
	}
	return entries
}

func (c *Cache) saveStore(entries map[string]Entry) error {
	return c.writeJSON(c.store, entries)
}

func (c *Cache) loadMetadata() metadata {
	var meta metadata
	data, err := os.ReadFile(c.metadata)
	if err != nil {
		return metadata{}
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		c.logger.Warn("Failed to load cache metadata", "file", c.metadata, "error", err.Error())
		return metadata{}
	}
	return meta
}

// writeJSON rewrites path in full with stable key order.
func (c *Cache) writeJSON(path string, v interface{}) error {
	data, err := output.DeterministicEncodeIndented(v, "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
