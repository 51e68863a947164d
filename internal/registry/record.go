// Package registry defines the normalized legal-entity profile obtained
// from an external business-registry lookup.
package registry

import "strings"

// StatusActive is the registry sentinel for an operating entity.
const StatusActive = "ACTIVE"

// Record is a read-only registry profile. Absent string fields are empty;
// absent risk flags are nil, which is distinct from an explicit false.
type Record struct {
	TaxID            string
	Name             string
	OGRN             string
	KPP              string
	Address          string
	Director         string
	Status           string
	RegistrationDate string // ISO date (YYYY-MM-DD), empty when unknown
	MassAddress      *bool
	MassDirector     *bool
}

// IsActive reports whether the registry status equals the active sentinel.
// A missing status is not treated as active.
func (r Record) IsActive() bool {
	return strings.EqualFold(strings.TrimSpace(r.Status), StatusActive)
}
