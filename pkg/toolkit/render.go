package toolkit

import (
	"fmt"
	"strings"

	"github.com/driveline-ai/driveline/pkg/catalog"
	"github.com/driveline-ai/driveline/pkg/ev"
)

// renderVehicle formats one catalog entry as plain text for the model.
func renderVehicle(v catalog.Vehicle) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (id: %s)\n", v.Name, v.ID)
	fmt.Fprintf(&b, "  Brand: %s | Model: %s\n", v.Brand, v.Model)
	fmt.Fprintf(&b, "  Price: %d INR\n", v.PriceINR)
	if v.BodyType != "" {
		fmt.Fprintf(&b, "  Body type: %s\n", v.BodyType)
	}
	if len(v.FuelTypes) > 0 {
		fmt.Fprintf(&b, "  Fuel: %s\n", strings.Join(v.FuelTypes, ", "))
	}
	if len(v.Transmissions) > 0 {
		fmt.Fprintf(&b, "  Transmission: %s\n", strings.Join(v.Transmissions, ", "))
	}
	if v.MileageKMPL != 0 {
		fmt.Fprintf(&b, "  Mileage: %g km/l\n", v.MileageKMPL)
	}
	if v.SeatingCapacity != 0 {
		fmt.Fprintf(&b, "  Seating capacity: %d\n", v.SeatingCapacity)
	}
	if v.EngineDisplacementCC != 0 {
		fmt.Fprintf(&b, "  Engine displacement: %dcc\n", v.EngineDisplacementCC)
	}
	if v.Rating != 0 {
		fmt.Fprintf(&b, "  Rating: %g/10\n", v.Rating)
	}
	if len(v.Features) > 0 {
		fmt.Fprintf(&b, "  Features: %s\n", strings.Join(v.Features, ", "))
	}
	for key, value := range v.Extended {
		fmt.Fprintf(&b, "  %s: %v\n", key, value)
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderVehicles(vehicles []catalog.Vehicle) string {
	parts := make([]string, len(vehicles))
	for i, v := range vehicles {
		parts[i] = renderVehicle(v)
	}
	return strings.Join(parts, "\n\n")
}

// renderComparison formats the feature matrix one row per line.
func renderComparison(cmp *catalog.Comparison) string {
	var b strings.Builder
	names := make([]string, len(cmp.Vehicles))
	for i, v := range cmp.Vehicles {
		names[i] = v.Name
	}
	fmt.Fprintf(&b, "Comparison: %s\n", strings.Join(names, " vs "))
	for _, r := range cmp.Rows {
		fmt.Fprintf(&b, "  %s: %s\n", r.Label, strings.Join(r.Values, " | "))
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderEVResults(loc *ev.Location, results []ev.Result, radiusKm float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Search location: %s, %s (pincode %s)\n", loc.PlaceName, loc.State, loc.Pincode)
	if radiusKm <= 0 {
		radiusKm = 5
	}
	fmt.Fprintf(&b, "Search radius: %g km\n\n", radiusKm)

	if len(results) == 0 {
		fmt.Fprintf(&b, "No EV charging stations found within %g km of your location.\n", radiusKm)
		fmt.Fprintf(&b, "Try searching with a larger radius (e.g., %g km) or a different pincode.", radiusKm*2)
		return b.String()
	}

	for i, r := range results {
		fmt.Fprintf(&b, "%d. %s (%.1f km away)\n", i+1, r.Name, r.DistanceKM)
		fmt.Fprintf(&b, "   Address: %s, %s\n", r.Address, r.City)
		if r.ChargerType != "" {
			fmt.Fprintf(&b, "   Charger: %s", r.ChargerType)
			if r.ChargingType != "" {
				fmt.Fprintf(&b, " (%s)", r.ChargingType)
			}
			b.WriteString("\n")
		}
		if r.Chargers > 0 {
			fmt.Fprintf(&b, "   Chargers: %d (%d available)\n", r.Chargers, r.Available)
		}
		if r.Timing != "" {
			fmt.Fprintf(&b, "   Timing: %s\n", r.Timing)
		}
		fmt.Fprintf(&b, "   Map: %s\n", r.GoogleMapsLink)
	}
	return strings.TrimRight(b.String(), "\n")
}
