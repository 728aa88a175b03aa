package profile

import "github.com/google/uuid"

// Entry is an element of one of the profile's embedded lists.
type Entry interface {
	Experience | Education
	EntryID() uuid.UUID
}

// Lookup is the result of Find. Index is meaningful only when Found is true.
type Lookup struct {
	Index int
	Found bool
}

func Find[T Entry](list []T, id uuid.UUID) Lookup {
	for i, e := range list {
		if e.EntryID() == id {
			return Lookup{Index: i, Found: true}
		}
	}
	return Lookup{}
}

// Prepend puts e at the head of list, so iteration is most-recent-first.
func Prepend[T Entry](list []T, e T) []T {
	out := make([]T, 0, len(list)+1)
	out = append(out, e)
	return append(out, list...)
}

// Remove drops the entry with the given id, keeping the order of the rest.
// When no entry matches, list is returned untouched and removed is false.
func Remove[T Entry](list []T, id uuid.UUID) (out []T, removed bool) {
	l := Find(list, id)
	if !l.Found {
		return list, false
	}
	out = make([]T, 0, len(list)-1)
	out = append(out, list[:l.Index]...)
	return append(out, list[l.Index+1:]...), true
}
