package directory

import (
	"github.com/go-ldap/ldap/v3"
)

// Entry is one raw search result: a distinguished name plus the attribute
// values returned for it. Extraction is destructive, so the same attribute
// cannot be decoded twice; once taken it behaves as absent.
type Entry struct {
	dn    string
	attrs map[string][]string
}

// NewEntry builds an entry from a distinguished name and an attribute map.
// The map is copied; the caller's copy is untouched by decoding.
func NewEntry(dn string, attrs map[string][]string) *Entry {
	m := make(map[string][]string, len(attrs))
	for name, values := range attrs {
		m[name] = values
	}
	return &Entry{dn: dn, attrs: m}
}

func newEntry(e *ldap.Entry) *Entry {
	attrs := make(map[string][]string, len(e.Attributes))
	for _, a := range e.Attributes {
		attrs[a.Name] = a.Values
	}
	return &Entry{dn: e.DN, attrs: attrs}
}

// TakeDN removes and returns the distinguished name. The DN sits outside the
// attribute map, so it is present regardless of the requested attribute set.
func (e *Entry) TakeDN() string {
	dn := e.dn
	e.dn = ""
	return dn
}

// Take removes the named attribute and returns its first value. Absent
// attributes fail with AttributeMissingError; the value list is non-empty
// whenever the server returned the attribute at all.
func (e *Entry) Take(name string) (string, error) {
	values, ok := e.attrs[name]
	if !ok || len(values) == 0 {
		return "", &AttributeMissingError{Name: name}
	}
	delete(e.attrs, name)
	return values[0], nil
}

// TakeMaybe removes the named attribute and returns its first value, or the
// empty string when the attribute is absent. It never fails.
func (e *Entry) TakeMaybe(name string) string {
	values := e.attrs[name]
	delete(e.attrs, name)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// TakeAll removes the named attribute and returns every value in the order
// the server sent them, duplicates included. Absent attributes fail with
// AttributeMissingError.
func (e *Entry) TakeAll(name string) ([]string, error) {
	values, ok := e.attrs[name]
	if !ok {
		return nil, &AttributeMissingError{Name: name}
	}
	delete(e.attrs, name)
	return values, nil
}
