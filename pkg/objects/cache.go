package objects

// Cache is the "cache" version 2 object: the entries of CMakeCache.txt.
type Cache struct {
	Kind    Kind         `json:"kind"`
	Version MajorMinor   `json:"version"`
	Entries []CacheEntry `json:"entries"`
}

type CacheEntry struct {
	Name       string          `json:"name"`
	Value      string          `json:"value"`
	Type       string          `json:"type"`
	Properties []CacheProperty `json:"properties"`
}

type CacheProperty struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (*Cache) ObjectKind() Kind { return KindCache }

// Entry returns the cache entry with the given name.
func (c *Cache) Entry(name string) (*CacheEntry, bool) {
	for i := range c.Entries {
		if c.Entries[i].Name == name {
			return &c.Entries[i], true
		}
	}
	return nil, false
}

// Property returns the value of the named property, e.g. "HELPSTRING".
func (e *CacheEntry) Property(name string) (string, bool) {
	for _, p := range e.Properties {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}
