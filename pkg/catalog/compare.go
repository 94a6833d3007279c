package catalog

import (
	"fmt"
	"strings"
)

// Comparison is a feature matrix: one row per feature, one value column
// per compared vehicle, in the requested ID order.
type Comparison struct {
	Vehicles []Vehicle
	Rows     []ComparisonRow
}

// ComparisonRow is one feature across all compared vehicles.
type ComparisonRow struct {
	Label  string
	Values []string
}

// Compare builds a side-by-side matrix for the given vehicle IDs. Any
// unknown ID fails the whole comparison with a *NotFoundError.
func (s *Service) Compare(ids []string) (*Comparison, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("no %s ids provided for comparison", s.kind)
	}

	vehicles := make([]Vehicle, 0, len(ids))
	for _, id := range ids {
		v, err := s.GetExtended(id)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}

	rows := []ComparisonRow{
		row("Price (INR)", vehicles, func(v Vehicle) string {
			return fmt.Sprintf("%d", v.PriceINR)
		}),
		row("Brand", vehicles, func(v Vehicle) string { return v.Brand }),
		row("Fuel Type", vehicles, func(v Vehicle) string {
			return strings.Join(v.FuelTypes, ", ")
		}),
		row("Transmission", vehicles, func(v Vehicle) string {
			return strings.Join(v.Transmissions, ", ")
		}),
		row("Engine Displacement", vehicles, func(v Vehicle) string {
			if v.EngineDisplacementCC == 0 {
				return ""
			}
			return fmt.Sprintf("%dcc", v.EngineDisplacementCC)
		}),
		row("Mileage", vehicles, func(v Vehicle) string {
			if v.MileageKMPL == 0 {
				return ""
			}
			return fmt.Sprintf("%g km/l", v.MileageKMPL)
		}),
		row("Rating", vehicles, func(v Vehicle) string {
			if v.Rating == 0 {
				return ""
			}
			return fmt.Sprintf("%g/10", v.Rating)
		}),
	}

	if s.kind == KindCar {
		rows = append(rows,
			row("Body Type", vehicles, func(v Vehicle) string { return v.BodyType }),
			row("Seating Capacity", vehicles, func(v Vehicle) string {
				if v.SeatingCapacity == 0 {
					return ""
				}
				return fmt.Sprintf("%d", v.SeatingCapacity)
			}),
		)
	}

	return &Comparison{Vehicles: vehicles, Rows: rows}, nil
}

func row(label string, vehicles []Vehicle, value func(Vehicle) string) ComparisonRow {
	r := ComparisonRow{Label: label, Values: make([]string, len(vehicles))}
	for i, v := range vehicles {
		val := value(v)
		if val == "" {
			val = "N/A"
		}
		r.Values[i] = val
	}
	return r
}
