package nostr

import (
	"iter"
	"slices"
)

// Tag is one annotation on an event: an ordered sequence of strings whose
// first item is the tag name ("p", "e", "d", ...) and whose remaining items
// are name-specific values.
type Tag []string

// Equals reports element-wise equality between two tags. There is no
// trimming or case folding: two tags are equal iff their items match exactly.
func (tag Tag) Equals(other Tag) bool {
	return slices.Equal(tag, other)
}

// Clone creates a new tag with the same items.
func (tag Tag) Clone() Tag {
	clone := make(Tag, len(tag))
	copy(clone, tag)
	return clone
}

// Tags is the ordered tag list of an event. The order is part of the signed
// payload, so it is preserved everywhere, duplicates included.
type Tags []Tag

// GetD gets the first "d" tag (for addressable events) value or ""
func (tags Tags) GetD() string {
	for _, v := range tags {
		if len(v) >= 2 && v[0] == "d" {
			return v[1]
		}
	}
	return ""
}

// Find returns the first tag with the given name that also has one value
// (i.e. at least 2 items)
func (tags Tags) Find(key string) Tag {
	for _, v := range tags {
		if len(v) >= 2 && v[0] == key {
			return v
		}
	}
	return nil
}

// FindAll yields all the tags with the given name that also have one value
// (i.e. at least 2 items)
func (tags Tags) FindAll(key string) iter.Seq[Tag] {
	return func(yield func(Tag) bool) {
		for _, v := range tags {
			if len(v) >= 2 && v[0] == key {
				if !yield(v) {
					return
				}
			}
		}
	}
}

// FindWithValue is like Find, but also checks if the value (the second item) matches
func (tags Tags) FindWithValue(key, value string) Tag {
	for _, v := range tags {
		if len(v) >= 2 && v[1] == value && v[0] == key {
			return v
		}
	}
	return nil
}

// FindLast is like Find, but starts at the end
func (tags Tags) FindLast(key string) Tag {
	for i := len(tags) - 1; i >= 0; i-- {
		v := tags[i]
		if len(v) >= 2 && v[0] == key {
			return v
		}
	}
	return nil
}

// ContainsAny reports whether any tag has the given name and one of the given values.
func (tags Tags) ContainsAny(tagName string, values []string) bool {
	for _, tag := range tags {
		if len(tag) < 2 {
			continue
		}

		if tag[0] != tagName {
			continue
		}

		if slices.Contains(values, tag[1]) {
			return true
		}
	}

	return false
}

// CloneDeep creates a new list with clones of these tags inside.
func (tags Tags) CloneDeep() Tags {
	clone := make(Tags, len(tags))
	for i := range clone {
		clone[i] = tags[i].Clone()
	}
	return clone
}

// marshalTo appends the JSON encoded tag list to dst using the canonical
// string escaper, since this output feeds the id hash.
func (tags Tags) marshalTo(dst []byte) []byte {
	dst = append(dst, '[')
	for i, tag := range tags {
		if i > 0 {
			dst = append(dst, ',')
		}
		dst = append(dst, '[')
		for j, s := range tag {
			if j > 0 {
				dst = append(dst, ',')
			}
			dst = escapeString(dst, s)
		}
		dst = append(dst, ']')
	}
	dst = append(dst, ']')
	return dst
}
