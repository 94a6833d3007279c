package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func testCars() *Service {
	return New(KindCar, []Vehicle{
		{
			ID: "scorpio_n", Name: "Scorpio N", Brand: "Mahindra", Model: "Scorpio",
			BodyType: "SUV", FuelTypes: []string{"Diesel", "Petrol"},
			Transmissions: []string{"Manual", "Automatic"},
			PriceINR:      1350000, MileageKMPL: 15.4, SeatingCapacity: 7,
			EngineDisplacementCC: 2184, Rating: 8.5,
			Extended: map[string]any{"safety": "5 star"},
		},
		{
			ID: "xuv700", Name: "XUV700", Brand: "Mahindra", Model: "XUV700",
			BodyType: "SUV", FuelTypes: []string{"Petrol", "Diesel"},
			Transmissions: []string{"Automatic"},
			PriceINR:      1400000, MileageKMPL: 16.0, SeatingCapacity: 7,
			EngineDisplacementCC: 1997, Rating: 9.0,
		},
		{
			ID: "nexon_ev", Name: "Nexon EV", Brand: "Tata", Model: "Nexon",
			BodyType: "SUV", FuelTypes: []string{"Electric"},
			Transmissions: []string{"Automatic"},
			PriceINR:      1450000, SeatingCapacity: 5, Rating: 8.0,
		},
		{
			ID: "swift", Name: "Swift", Brand: "Maruti Suzuki", Model: "Swift",
			BodyType: "Hatchback", FuelTypes: []string{"Petrol"},
			Transmissions: []string{"Manual"},
			PriceINR:      650000, MileageKMPL: 22.4, SeatingCapacity: 5,
			EngineDisplacementCC: 1197, Rating: 7.5,
		},
	})
}

func TestGet_BasicStripsExtended(t *testing.T) {
	s := testCars()

	v, err := s.Get("SCORPIO_N") // lookup is case-insensitive
	require.NoError(t, err)
	assert.Equal(t, "Scorpio N", v.Name)
	assert.Nil(t, v.Extended)

	full, err := s.GetExtended("scorpio_n")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"safety": "5 star"}, full.Extended)
}

func TestGet_NotFoundWithSuggestions(t *testing.T) {
	s := testCars()

	_, err := s.Get("scorpio")
	require.Error(t, err)

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "scorpio", nf.ID)
	require.NotEmpty(t, nf.Suggestions)
	assert.Equal(t, "scorpio_n", nf.Suggestions[0])
}

func TestList_FiltersAndDefaultSort(t *testing.T) {
	s := testCars()

	suv := "suv"
	out, err := s.List(Filters{BodyType: &suv}, 10, 0, SortSpec{})
	require.NoError(t, err)
	require.Len(t, out, 3)
	// Default order is price ascending.
	assert.Equal(t, "scorpio_n", out[0].ID)
	assert.Equal(t, "xuv700", out[1].ID)
	assert.Equal(t, "nexon_ev", out[2].ID)
}

func TestList_CombinedFilters(t *testing.T) {
	s := testCars()

	out, err := s.List(Filters{
		FuelType:        ptr("diesel"),
		SeatingCapacity: ptr(7),
		MaxPrice:        ptr(1380000),
	}, 10, 0, SortSpec{})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "scorpio_n", out[0].ID)
}

func TestList_SortDescAndUnknownLast(t *testing.T) {
	s := testCars()

	out, err := s.List(Filters{}, 10, 0, SortSpec{By: "mileage", Order: "desc"})
	require.NoError(t, err)
	require.Len(t, out, 4)
	assert.Equal(t, "swift", out[0].ID)
	// Nexon EV has no mileage figure and must sort last even descending.
	assert.Equal(t, "nexon_ev", out[3].ID)
}

func TestList_Pagination(t *testing.T) {
	s := testCars()

	page, err := s.List(Filters{}, 2, 1, SortSpec{})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "scorpio_n", page[0].ID)

	empty, err := s.List(Filters{}, 2, 99, SortSpec{})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestList_InvalidFilterSuggestions(t *testing.T) {
	s := testCars()

	_, err := s.List(Filters{Brand: ptr("Mahindrra")}, 10, 0, SortSpec{})
	require.Error(t, err)

	var inv *InvalidFilterError
	require.True(t, errors.As(err, &inv))
	assert.Equal(t, "brand", inv.Field)
	assert.Contains(t, inv.Suggestions, "Mahindra")
}

func TestList_InvalidSortField(t *testing.T) {
	s := testCars()

	_, err := s.List(Filters{}, 10, 0, SortSpec{By: "horsepower"})
	var inv *InvalidFilterError
	require.True(t, errors.As(err, &inv))
	assert.Equal(t, "sort_by", inv.Field)

	_, err = s.List(Filters{}, 10, 0, SortSpec{By: "price", Order: "upward"})
	require.True(t, errors.As(err, &inv))
	assert.Equal(t, "sort_order", inv.Field)
}

func TestSearch_SubstringBeforeFuzzy(t *testing.T) {
	s := testCars()

	out, err := s.Search("xuv", Filters{}, 10, SortSpec{})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "xuv700", out[0].ID)
}

func TestSearch_FuzzyFallback(t *testing.T) {
	s := testCars()

	// No substring hit, but close enough for the fuzzy pass.
	out, err := s.Search("scorpoi", Filters{}, 10, SortSpec{})
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, "scorpio_n", out[0].ID)
}

func TestSearch_FiltersApply(t *testing.T) {
	s := testCars()

	out, err := s.Search("mahindra", Filters{FuelType: ptr("Diesel")}, 10, SortSpec{})
	require.NoError(t, err)
	require.Len(t, out, 2)

	none, err := s.Search("mahindra", Filters{FuelType: ptr("Electric")}, 10, SortSpec{})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCompare(t *testing.T) {
	s := testCars()

	cmp, err := s.Compare([]string{"scorpio_n", "swift"})
	require.NoError(t, err)
	require.Len(t, cmp.Vehicles, 2)

	labels := make(map[string][]string)
	for _, r := range cmp.Rows {
		labels[r.Label] = r.Values
	}
	assert.Equal(t, []string{"1350000", "650000"}, labels["Price (INR)"])
	assert.Equal(t, []string{"Mahindra", "Maruti Suzuki"}, labels["Brand"])
	assert.Equal(t, []string{"7", "5"}, labels["Seating Capacity"])

	_, err = s.Compare([]string{"scorpio_n", "unknown_car"})
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))

	_, err = s.Compare(nil)
	require.Error(t, err)
}

func TestCompare_BikesSkipCarRows(t *testing.T) {
	bikes := New(KindBike, []Vehicle{
		{ID: "xpulse_200", Name: "XPulse 200", Brand: "Hero", Model: "XPulse",
			PriceINR: 150000, EngineDisplacementCC: 199, MileageKMPL: 40},
		{ID: "duke_390", Name: "Duke 390", Brand: "KTM", Model: "Duke",
			PriceINR: 310000, EngineDisplacementCC: 373, MileageKMPL: 28},
	})

	cmp, err := bikes.Compare([]string{"duke_390", "xpulse_200"})
	require.NoError(t, err)
	for _, r := range cmp.Rows {
		assert.NotEqual(t, "Seating Capacity", r.Label)
		assert.NotEqual(t, "Body Type", r.Label)
	}
}
