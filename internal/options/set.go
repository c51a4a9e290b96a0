package options

import (
	"fmt"
	"strings"
)

// Entry is one key/value pair of a Set.
type Entry struct {
	Key   Key
	Value Value
}

// Set is an ordered option mapping. Keys keep the position of their first
// insertion; overwriting a key replaces the value in place. The zero value is
// an empty set ready to use.
//
// Copies of a Set are independent: mutations never write to the backing
// slice or map of the receiver, they replace them.
type Set struct {
	entries []Entry
	index   map[Key]int
}

// NewSet builds a set from entries, validating keys and value types. Later
// entries overwrite earlier ones.
func NewSet(entries ...Entry) (Set, error) {
	var s Set
	for _, e := range entries {
		if err := s.Put(e.Key, e.Value); err != nil {
			return Set{}, err
		}
	}
	return s, nil
}

// MustSet is NewSet for literals known to be valid.
func MustSet(entries ...Entry) Set {
	s, err := NewSet(entries...)
	if err != nil {
		panic(err)
	}
	return s
}

// I is shorthand for an integer entry.
func I(k Key, v int64) Entry { return Entry{Key: k, Value: Int(v)} }

// S is shorthand for a string entry.
func S(k Key, v string) Entry { return Entry{Key: k, Value: String(v)} }

// Put stores v under k after checking the key and the value type.
func (s *Set) Put(k Key, v Value) error {
	if !k.Valid() {
		return fmt.Errorf("%w %q", ErrUnknownKey, string(k))
	}
	if err := checkType(k, v); err != nil {
		return err
	}
	s.put(k, v)
	return nil
}

func (s *Set) put(k Key, v Value) {
	entries := make([]Entry, len(s.entries), len(s.entries)+1)
	copy(entries, s.entries)
	if i, ok := s.index[k]; ok {
		entries[i].Value = v
		s.entries = entries
		return
	}
	s.entries = append(entries, Entry{Key: k, Value: v})
	s.index = indexOf(s.entries)
}

func indexOf(entries []Entry) map[Key]int {
	index := make(map[Key]int, len(entries))
	for i, e := range entries {
		index[e.Key] = i
	}
	return index
}

// Get returns the value stored under k.
func (s Set) Get(k Key) (Value, bool) {
	i, ok := s.index[k]
	if !ok {
		return Value{}, false
	}
	return s.entries[i].Value, true
}

// Has reports whether k is present.
func (s Set) Has(k Key) bool {
	_, ok := s.index[k]
	return ok
}

// Len returns the number of entries.
func (s Set) Len() int { return len(s.entries) }

// Entries returns a copy of the entries in set order.
func (s Set) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Clone returns an independent copy.
func (s Set) Clone() Set {
	if len(s.entries) == 0 {
		return Set{}
	}
	return Set{entries: s.Entries(), index: indexOf(s.entries)}
}

// Pop removes k and returns its value.
func (s *Set) Pop(k Key) (Value, bool) {
	i, ok := s.index[k]
	if !ok {
		return Value{}, false
	}
	v := s.entries[i].Value
	entries := make([]Entry, 0, len(s.entries)-1)
	entries = append(entries, s.entries[:i]...)
	s.entries = append(entries, s.entries[i+1:]...)
	s.index = indexOf(s.entries)
	return v, true
}

// String renders the set as {KEY: value, ...} in set order.
func (s Set) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, e := range s.entries {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(string(e.Key))
		b.WriteString(": ")
		b.WriteString(e.Value.GoString())
	}
	b.WriteByte('}')
	return b.String()
}

// Merge combines sets left to right; on a key collision the later set wins.
func Merge(sets ...Set) Set {
	var entries []Entry
	index := make(map[Key]int)
	for _, s := range sets {
		for _, e := range s.entries {
			if i, ok := index[e.Key]; ok {
				entries[i].Value = e.Value
				continue
			}
			index[e.Key] = len(entries)
			entries = append(entries, e)
		}
	}
	if len(entries) == 0 {
		return Set{}
	}
	return Set{entries: entries, index: index}
}
