package catalog

import (
	"sort"
	"strings"
)

// Filters narrows a listing or search. Nil pointer fields are inactive;
// all active filters combine with AND logic.
type Filters struct {
	MinPrice               *int
	MaxPrice               *int
	Brand                  *string
	BodyType               *string
	FuelType               *string
	Transmission           *string
	SeatingCapacity        *int
	MileageMoreThan        *float64
	MileageLessThan        *float64
	DisplacementMoreThanCC *int
	DisplacementLessThanCC *int
}

// SortSpec controls result ordering.
type SortSpec struct {
	By    string // price, mileage, seating_capacity, engine_displacement
	Order string // asc (default) or desc
}

var sortFields = []string{"price", "mileage", "seating_capacity", "engine_displacement"}

// validate checks enum-valued filters against the catalog's known values
// and the sort spec against the sortable field list.
func (s *Service) validate(f Filters, spec SortSpec) error {
	checks := []struct {
		field  string
		value  *string
		domain map[string]struct{}
	}{
		{"brand", f.Brand, s.brands},
		{"body_type", f.BodyType, s.bodyTypes},
		{"fuel_type", f.FuelType, s.fuelTypes},
		{"transmission", f.Transmission, s.transmissions},
	}
	for _, c := range checks {
		if c.value == nil {
			continue
		}
		if !containsFold(c.domain, *c.value) {
			return &InvalidFilterError{
				Field:       c.field,
				Value:       *c.value,
				Suggestions: closest(*c.value, keys(c.domain), 5),
			}
		}
	}

	if spec.By != "" && !contains(sortFields, spec.By) {
		return &InvalidFilterError{Field: "sort_by", Value: spec.By, Suggestions: sortFields}
	}
	if spec.Order != "" && spec.Order != "asc" && spec.Order != "desc" {
		return &InvalidFilterError{Field: "sort_order", Value: spec.Order, Suggestions: []string{"asc", "desc"}}
	}
	return nil
}

func (f Filters) matches(v Vehicle) bool {
	if f.MinPrice != nil && v.PriceINR < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && v.PriceINR > *f.MaxPrice {
		return false
	}
	if f.Brand != nil && !strings.EqualFold(v.Brand, *f.Brand) {
		return false
	}
	if f.BodyType != nil && !strings.EqualFold(v.BodyType, *f.BodyType) {
		return false
	}
	if f.FuelType != nil && !containsFoldSlice(v.FuelTypes, *f.FuelType) {
		return false
	}
	if f.Transmission != nil && !containsFoldSlice(v.Transmissions, *f.Transmission) {
		return false
	}
	if f.SeatingCapacity != nil && v.SeatingCapacity != *f.SeatingCapacity {
		return false
	}
	if f.MileageMoreThan != nil && (v.MileageKMPL == 0 || v.MileageKMPL <= *f.MileageMoreThan) {
		return false
	}
	if f.MileageLessThan != nil && (v.MileageKMPL == 0 || v.MileageKMPL >= *f.MileageLessThan) {
		return false
	}
	if f.DisplacementMoreThanCC != nil && (v.EngineDisplacementCC == 0 || v.EngineDisplacementCC <= *f.DisplacementMoreThanCC) {
		return false
	}
	if f.DisplacementLessThanCC != nil && (v.EngineDisplacementCC == 0 || v.EngineDisplacementCC >= *f.DisplacementLessThanCC) {
		return false
	}
	return true
}

// sortValue returns (known, value) so vehicles missing the field sort last
// regardless of order.
func sortValue(v Vehicle, field string) (bool, float64) {
	switch field {
	case "price":
		return true, float64(v.PriceINR)
	case "mileage":
		return v.MileageKMPL != 0, v.MileageKMPL
	case "seating_capacity":
		return v.SeatingCapacity != 0, float64(v.SeatingCapacity)
	case "engine_displacement":
		return v.EngineDisplacementCC != 0, float64(v.EngineDisplacementCC)
	}
	return true, 0
}

func sortVehicles(vehicles []Vehicle, spec SortSpec) {
	field := spec.By
	if field == "" {
		field = "price"
	}
	desc := spec.Order == "desc"
	sort.SliceStable(vehicles, func(i, j int) bool {
		knownI, valI := sortValue(vehicles[i], field)
		knownJ, valJ := sortValue(vehicles[j], field)
		if knownI != knownJ {
			return knownI // unknown values sort last
		}
		if desc {
			return valI > valJ
		}
		return valI < valJ
	})
}

// List returns basic details for vehicles matching the filters, sorted and
// paginated. The default order is price ascending.
func (s *Service) List(f Filters, limit, offset int, spec SortSpec) ([]Vehicle, error) {
	if err := s.validate(f, spec); err != nil {
		return nil, err
	}

	var matched []Vehicle
	for _, v := range s.all() {
		if f.matches(v) {
			matched = append(matched, v)
		}
	}
	sortVehicles(matched, spec)

	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}

	out := make([]Vehicle, len(matched))
	for i, v := range matched {
		out[i] = v.Basic()
	}
	return out, nil
}

func keys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsFold(m map[string]struct{}, s string) bool {
	for k := range m {
		if strings.EqualFold(k, s) {
			return true
		}
	}
	return false
}

func containsFoldSlice(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
