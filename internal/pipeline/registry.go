package pipeline

import (
	"fmt"

	"github.com/nycwatch/landlordwatch/internal/config"
)

// LoadOrder is the sequence extractors run in during a full pipeline run.
// Buildings load first so dependent datasets have rows to join against, and
// PLUTO enrichment runs last so it only touches buildings that exist.
var LoadOrder = []string{
	"buildings",
	"hpd_registrations",
	"registration_contacts",
	"hpd_violations",
	"complaints_311",
	"dob_violations",
	"evictions",
	"pluto",
}

// NewRegistry builds the strategy registry from configured dataset IDs.
// Adding a dataset means adding a Strategy implementation and one entry here.
func NewRegistry(cfg config.DatasetConfig) map[string]Strategy {
	strategies := []Strategy{
		&buildingsStrategy{datasetID: cfg.HPDRegistrations},
		&registrationsStrategy{datasetID: cfg.HPDRegistrations},
		&contactsStrategy{datasetID: cfg.RegistrationContacts},
		&hpdViolationsStrategy{datasetID: cfg.HPDViolations},
		&complaintsStrategy{datasetID: cfg.Complaints311},
		&dobViolationsStrategy{datasetID: cfg.DOBViolations},
		&evictionsStrategy{datasetID: cfg.Evictions},
		&plutoStrategy{datasetID: cfg.PLUTO},
	}

	registry := make(map[string]Strategy, len(strategies))
	for _, s := range strategies {
		registry[s.Name()] = s
	}
	return registry
}

// Lookup returns the named strategy or an error listing what exists.
func Lookup(registry map[string]Strategy, name string) (Strategy, error) {
	s, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown extractor %q (known: %v)", name, LoadOrder)
	}
	return s, nil
}
