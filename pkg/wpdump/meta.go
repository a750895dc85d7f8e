package wpdump

// MetaIndex looks up attribute values by owner id and key. Built once per
// attribute table and shared by the import phases.
type MetaIndex map[int64]map[string]string

// BuildMetaIndex indexes attribute rows by owner and key. When the source
// holds duplicate keys for one owner the first occurrence wins, matching the
// single-value lookup the legacy application performed.
func BuildMetaIndex(metas []Meta) MetaIndex {
	idx := make(MetaIndex)
	for _, m := range metas {
		byKey, ok := idx[m.OwnerID]
		if !ok {
			byKey = make(map[string]string)
			idx[m.OwnerID] = byKey
		}
		if _, exists := byKey[m.Key]; !exists {
			byKey[m.Key] = m.Value
		}
	}
	return idx
}

// Get returns the value of one attribute key for an owner.
func (idx MetaIndex) Get(ownerID int64, key string) (string, bool) {
	v, ok := idx[ownerID][key]
	return v, ok
}

// First returns the value of the first key, in the given priority order,
// that has a non-empty value for the owner. The export accumulated alternate
// spellings of several keys over the years; callers pass all known aliases,
// newest first.
func (idx MetaIndex) First(ownerID int64, keys ...string) (string, bool) {
	byKey, ok := idx[ownerID]
	if !ok {
		return "", false
	}
	for _, k := range keys {
		if v, ok := byKey[k]; ok && v != "" {
			return v, true
		}
	}
	return "", false
}
