package finder

import (
	"encoding/json"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// IDSet is a set of node ids. It marshals as a sorted JSON array.
type IDSet map[string]struct{}

func (s IDSet) MarshalJSON() ([]byte, error) {
	ids := maps.Keys(s)
	slices.Sort(ids)

	return json.Marshal(ids)
}

func (s *IDSet) UnmarshalJSON(data []byte) error {
	*s = decodeIDSet(data)
	return nil
}

// Structure maps a folder id to the set of its direct child folder ids.
// Files are not members: they are located by their own ParentID.
type Structure map[string]IDSet

// NewStructure returns an empty structure containing only the root entry.
func NewStructure() Structure {
	return Structure{RootID: IDSet{}}
}

func (s Structure) ensure(id string) IDSet {
	set, ok := s[id]
	if !ok {
		set = IDSet{}
		s[id] = set
	}

	return set
}

// Add attaches child to parent, creating either entry as needed.
func (s Structure) Add(parent, child string) {
	s.ensure(parent)[child] = struct{}{}
}

// Remove detaches child from parent. Missing entries are not an error.
func (s Structure) Remove(parent, child string) {
	delete(s[parent], child)
}

// Detach removes child from every parent set and drops its own entry.
func (s Structure) Detach(child string) {
	for _, set := range s {
		delete(set, child)
	}

	delete(s, child)
}

// Children returns the sorted child ids of a folder. Unknown folders have
// no children.
func (s Structure) Children(id string) []string {
	ids := maps.Keys(s[id])
	slices.Sort(ids)

	return ids
}

// ParentOf returns the folder id that holds child, or root when no set
// contains it.
func (s Structure) ParentOf(child string) string {
	for parent, set := range s {
		if _, ok := set[child]; ok {
			return parent
		}
	}

	return RootID
}

// Clone returns a deep copy.
func (s Structure) Clone() Structure {
	c := make(Structure, len(s))
	for id, set := range s {
		c[id] = maps.Clone(set)
	}

	return c
}

// NormalizeStructure repairs a persisted structure blob. Older versions
// serialized the structure as a plain object of id arrays, as an array of
// [id, children] pairs, or left behind partial garbage. Whatever the
// shape, the result always has a root entry and only well-formed child
// sets; a blob that matches no encoding yields a fresh structure and
// ErrMalformedData. The routine is total and idempotent.
func NormalizeStructure(data []byte) (Structure, error) {
	s := NewStructure()

	if len(data) == 0 {
		return s, nil
	}

	var asObject map[string]json.RawMessage
	if err := json.Unmarshal(data, &asObject); err == nil {
		for id, raw := range asObject {
			s[id] = decodeIDSet(raw)
		}

		s.ensure(RootID)
		return s, nil
	}

	var asPairs []json.RawMessage
	if err := json.Unmarshal(data, &asPairs); err == nil {
		for _, rawPair := range asPairs {
			var pair []json.RawMessage
			if err := json.Unmarshal(rawPair, &pair); err != nil || len(pair) < 1 {
				continue
			}

			var id string
			if err := json.Unmarshal(pair[0], &id); err != nil || id == "" {
				continue
			}

			if len(pair) < 2 {
				s[id] = IDSet{}
				continue
			}

			s[id] = decodeIDSet(pair[1])
		}

		s.ensure(RootID)
		return s, nil
	}

	return s, ErrMalformedData
}

// decodeIDSet normalizes a single child-set value. Anything that is not
// an array of strings becomes an empty set; non-string elements are
// skipped.
func decodeIDSet(raw json.RawMessage) IDSet {
	set := IDSet{}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return set
	}

	for _, item := range items {
		var id string
		if err := json.Unmarshal(item, &id); err != nil || id == "" {
			continue
		}

		set[id] = struct{}{}
	}

	return set
}
