// Package ev finds EV charging stations near an Indian pincode.
package ev

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"sort"
)

// Location is the resolved position of a pincode.
type Location struct {
	Pincode   string  `json:"pincode"`
	PlaceName string  `json:"place_name"`
	State     string  `json:"state"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Station is one charging station record.
type Station struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Address       string  `json:"address"`
	City          string  `json:"city"`
	PostalCode    string  `json:"postal_code"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Capacity      string  `json:"capacity,omitempty"`
	ChargerType   string  `json:"charger_type,omitempty"`
	ChargingType  string  `json:"charging_type,omitempty"`
	Chargers      int     `json:"no_of_chargers,omitempty"`
	Available     int     `json:"available,omitempty"`
	Timing        string  `json:"timing,omitempty"`
	CostPerUnit   float64 `json:"cost_per_unit,omitempty"`
	PaymentModes  string  `json:"payment_modes,omitempty"`
	Vendor        string  `json:"vendor,omitempty"`
	ContactNumber string  `json:"contact_number,omitempty"`
}

// Result is a station with its distance from the query point and a maps
// link for the reply text.
type Result struct {
	Station
	DistanceKM     float64 `json:"distance_km"`
	GoogleMapsLink string  `json:"google_maps_link"`
}

// Service resolves pincodes and ranks stations by distance. Read-only
// after construction.
type Service struct {
	pincodes map[string]Location
	stations []Station
	logger   *slog.Logger
}

// Load builds the service from a pincode table and a station list, both
// JSON array files.
func Load(pincodeFile, stationFile string) (*Service, error) {
	var pincodes []Location
	if err := readJSON(pincodeFile, &pincodes); err != nil {
		return nil, fmt.Errorf("load pincode table: %w", err)
	}
	var stations []Station
	if err := readJSON(stationFile, &stations); err != nil {
		return nil, fmt.Errorf("load stations: %w", err)
	}
	return New(pincodes, stations), nil
}

// New builds the service from preloaded data.
func New(pincodes []Location, stations []Station) *Service {
	index := make(map[string]Location, len(pincodes))
	for _, p := range pincodes {
		index[p.Pincode] = p
	}
	logger := slog.Default().With("component", "ev")
	logger.Info("ev service ready", "pincodes", len(index), "stations", len(stations))
	return &Service{pincodes: index, stations: stations, logger: logger}
}

// Find returns the resolved location for pincode and the stations within
// radiusKm of it, nearest first, at most limit. An unknown pincode yields
// a nil location and an empty list, not an error.
func (s *Service) Find(pincode string, radiusKm float64, limit int) (*Location, []Result, error) {
	loc, ok := s.pincodes[pincode]
	if !ok {
		return nil, nil, nil
	}
	if radiusKm <= 0 {
		radiusKm = 5
	}
	if limit <= 0 {
		limit = 5
	}

	var results []Result
	for _, st := range s.stations {
		if st.Latitude == 0 && st.Longitude == 0 {
			continue
		}
		d := haversine(loc.Latitude, loc.Longitude, st.Latitude, st.Longitude)
		if d > radiusKm {
			continue
		}
		results = append(results, Result{
			Station:    st,
			DistanceKM: d,
			GoogleMapsLink: fmt.Sprintf(
				"https://www.google.com/maps/search/?api=1&query=%g,%g",
				st.Latitude, st.Longitude),
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].DistanceKM < results[j].DistanceKM
	})
	if limit < len(results) {
		results = results[:limit]
	}
	return &loc, results, nil
}

const earthRadiusKm = 6371.0

// haversine returns the great-circle distance in kilometres.
func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dlat := radians(lat2 - lat1)
	dlon := radians(lon2 - lon1)
	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*
			math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func readJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
