// Package catalog holds the in-memory vehicle catalog: loading, filtered
// listing, fuzzy search, detail lookup and side-by-side comparison.
package catalog

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Kind distinguishes the two catalog tables.
type Kind string

const (
	KindCar  Kind = "car"
	KindBike Kind = "bike"
)

// Vehicle is one catalog entry. Zero values mean the field is unknown for
// this vehicle. Extended carries the long-form detail blob returned only
// by GetExtended.
type Vehicle struct {
	ID                   string         `json:"id"`
	Name                 string         `json:"name"`
	Brand                string         `json:"brand"`
	Model                string         `json:"model"`
	BodyType             string         `json:"body_type,omitempty"` // cars only
	FuelTypes            []string       `json:"fuel_types,omitempty"`
	Transmissions        []string       `json:"transmissions,omitempty"`
	PriceINR             int            `json:"price_inr"`
	MileageKMPL          float64        `json:"mileage_kmpl,omitempty"`
	SeatingCapacity      int            `json:"seating_capacity,omitempty"` // cars only
	EngineDisplacementCC int            `json:"engine_displacement_cc,omitempty"`
	Rating               float64        `json:"rating,omitempty"` // out of 10
	Features             []string       `json:"features,omitempty"`
	Extended             map[string]any `json:"extended,omitempty"`
}

// Basic returns the vehicle without its extended blob.
func (v Vehicle) Basic() Vehicle {
	v.Extended = nil
	return v
}

// Service is a read-only catalog for one vehicle kind. Safe for concurrent
// use after construction.
type Service struct {
	kind     Kind
	vehicles map[string]Vehicle
	order    []string // IDs in deterministic (sorted) order

	brands        map[string]struct{}
	bodyTypes     map[string]struct{}
	fuelTypes     map[string]struct{}
	transmissions map[string]struct{}

	logger *slog.Logger
}

// New builds a catalog from preloaded vehicles.
func New(kind Kind, vehicles []Vehicle) *Service {
	s := &Service{
		kind:          kind,
		vehicles:      make(map[string]Vehicle, len(vehicles)),
		brands:        map[string]struct{}{},
		bodyTypes:     map[string]struct{}{},
		fuelTypes:     map[string]struct{}{},
		transmissions: map[string]struct{}{},
		logger:        slog.Default().With("component", "catalog", "kind", string(kind)),
	}
	for _, v := range vehicles {
		id := strings.ToLower(v.ID)
		v.ID = id
		s.vehicles[id] = v
		s.order = append(s.order, id)
		if v.Brand != "" {
			s.brands[v.Brand] = struct{}{}
		}
		if v.BodyType != "" {
			s.bodyTypes[v.BodyType] = struct{}{}
		}
		for _, ft := range v.FuelTypes {
			s.fuelTypes[ft] = struct{}{}
		}
		for _, tr := range v.Transmissions {
			s.transmissions[tr] = struct{}{}
		}
	}
	sort.Strings(s.order)
	return s
}

// LoadDir reads every *.json file in dir as one vehicle. The file stem,
// lowercased, becomes the vehicle ID. Malformed files are skipped with a
// warning so one bad record cannot take the catalog down.
func LoadDir(kind Kind, dir string) (*Service, error) {
	entries, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("scan %s catalog dir: %w", kind, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no %s catalog files in %s", kind, dir)
	}

	logger := slog.Default().With("component", "catalog", "kind", string(kind))
	var vehicles []Vehicle
	for _, path := range entries {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("skipping unreadable catalog file", "path", path, "error", err)
			continue
		}
		var v Vehicle
		if err := json.Unmarshal(data, &v); err != nil {
			logger.Warn("skipping malformed catalog file", "path", path, "error", err)
			continue
		}
		stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		v.ID = strings.ToLower(stem)
		vehicles = append(vehicles, v)
	}
	if len(vehicles) == 0 {
		return nil, fmt.Errorf("no loadable %s catalog files in %s", kind, dir)
	}
	logger.Info("catalog loaded", "vehicles", len(vehicles))
	return New(kind, vehicles), nil
}

// Get returns basic details for one vehicle.
func (s *Service) Get(id string) (Vehicle, error) {
	v, err := s.GetExtended(id)
	if err != nil {
		return Vehicle{}, err
	}
	return v.Basic(), nil
}

// GetExtended returns the full record including the extended blob.
func (s *Service) GetExtended(id string) (Vehicle, error) {
	v, ok := s.vehicles[strings.ToLower(id)]
	if !ok {
		return Vehicle{}, &NotFoundError{
			Kind:        s.kind,
			ID:          id,
			Suggestions: closest(id, s.order, 5),
		}
	}
	return v, nil
}

// Len reports the number of vehicles in the catalog.
func (s *Service) Len() int { return len(s.vehicles) }

func (s *Service) all() []Vehicle {
	out := make([]Vehicle, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.vehicles[id])
	}
	return out
}
