// Package vendors maintains the canonical vendor registry: a durable mapping
// of canonical vendor names to the alias strings observed for them in source
// documents.
package vendors

import (
	"strings"

	"invoiceflow/internal/textutil"
)

// Record maps one canonical vendor name to the aliases seen for it.
// Aliases keep their verbatim casing and insertion order; uniqueness is
// case-insensitive.
type Record struct {
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases"`
}

// Registry is the ordered set of vendor records. Order is insertion order,
// matching what is written to disk.
type Registry struct {
	Vendors []*Record `yaml:"vendors"`
}

// find returns the record whose canonical name equals key. Keys are already
// normalized, so the compare is exact; first match wins.
func (r *Registry) find(key string) *Record {
	for _, v := range r.Vendors {
		if v.Name == key {
			return v
		}
	}
	return nil
}

// Reconcile maps a raw vendor observation onto an existing or newly created
// canonical record. The canonical key is derived from normalizedName; rawName
// is appended as an alias when it is not already present (case-insensitive)
// and does not equal the key itself. Returns true when the registry changed.
func Reconcile(reg *Registry, rawName, normalizedName string) bool {
	key := textutil.CanonicalKey(normalizedName)

	if rec := reg.find(key); rec != nil {
		if aliasKnown(rec, rawName) || strings.EqualFold(rawName, key) {
			return false
		}
		rec.Aliases = append(rec.Aliases, rawName)
		return true
	}

	rec := &Record{Name: key, Aliases: []string{}}
	if !strings.EqualFold(rawName, key) {
		rec.Aliases = append(rec.Aliases, rawName)
	}
	reg.Vendors = append(reg.Vendors, rec)
	return true
}

func aliasKnown(rec *Record, rawName string) bool {
	for _, a := range rec.Aliases {
		if strings.EqualFold(a, rawName) {
			return true
		}
	}
	return false
}
