// Package toolkit registers the assistant's tools against the catalog,
// FAQ, booking, EV and Slack services.
package toolkit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/driveline-ai/driveline/pkg/booking"
	"github.com/driveline-ai/driveline/pkg/catalog"
	"github.com/driveline-ai/driveline/pkg/ev"
	"github.com/driveline-ai/driveline/pkg/faq"
	"github.com/driveline-ai/driveline/pkg/slack"
	"github.com/driveline-ai/driveline/pkg/tools"
)

// faqScoreFloor is the minimum top similarity for FAQ results to count as
// relevant.
const faqScoreFloor = 0.5

// faqLimitCap bounds how many FAQ results a single call may request.
const faqLimitCap = 15

// Deps are the services the tools execute against. Slack may be nil; a
// booking then simply goes unannounced.
type Deps struct {
	Cars    *catalog.Service
	Bikes   *catalog.Service
	FAQ     *faq.Service
	Booking *booking.StateMachine
	EV      *ev.Service
	Slack   *slack.Service
}

// Register adds all assistant tools to the registry.
func Register(reg *tools.Registry, deps Deps) error {
	all := []tools.Tool{
		listTool("list_cars",
			"List cars with optional filters, sorting, and pagination. Supports sorting by price, mileage, seating_capacity, and engine_displacement in ascending or descending order. Returns a list of cars matching the criteria.",
			deps.Cars, true),
		searchTool("search_car",
			"Search for cars by query string with optional filters and sorting. Supports sorting by price, mileage, seating_capacity, and engine_displacement. Use when user mentions specific car names or features.",
			deps.Cars, true),
		detailsTool("get_car_details",
			"Get basic car details by car ID. Returns essential information without extended details like specifications, features, pros/cons.",
			deps.Cars, "car_id", false),
		detailsTool("get_extended_car_details",
			"Get complete car details by car ID including all specifications, features, pros/cons, and other extended information.",
			deps.Cars, "car_id", true),
		compareTool("get_car_comparison",
			"Compare multiple cars by their IDs. Returns detailed comparison matrix with features side-by-side.",
			deps.Cars, "car_ids"),
		listTool("list_bikes",
			"List bikes with optional filters, sorting, and pagination. Supports sorting by price, mileage, and engine_displacement. Returns a list of bikes matching the criteria.",
			deps.Bikes, false),
		searchTool("search_bike",
			"Search for bikes by query string with optional filters. Use when user mentions specific bike names or features.",
			deps.Bikes, false),
		detailsTool("get_bike_details",
			"Get basic bike details by bike ID.",
			deps.Bikes, "bike_id", false),
		detailsTool("get_extended_bike_details",
			"Get complete bike details by bike ID including specifications and reviews.",
			deps.Bikes, "bike_id", true),
		compareTool("get_bike_comparison",
			"Compare multiple bikes by their IDs. Returns detailed comparison matrix.",
			deps.Bikes, "bike_ids"),
		searchFAQTool(deps.FAQ),
		bookRideTool(deps.Booking, deps.Slack),
		confirmRideTool(deps.Booking),
		findEVChargerTool(deps.EV),
	}
	for _, t := range all {
		if err := reg.Register(t); err != nil {
			return fmt.Errorf("register toolkit: %w", err)
		}
	}
	return nil
}

// filterParams is the shared filter/sort parameter spec. Cars additionally
// filter on body_type and seating_capacity.
func filterParams(car bool) []tools.Param {
	params := []tools.Param{
		{Name: "min_price", Type: tools.TypeInteger, Description: "Minimum price filter (INR)"},
		{Name: "max_price", Type: tools.TypeInteger, Description: "Maximum price filter (INR)"},
		{Name: "brand", Type: tools.TypeString, Description: "Brand name filter"},
		{Name: "fuel_type", Type: tools.TypeString, Description: "Fuel type filter (e.g., Petrol, Diesel, Electric)"},
		{Name: "transmission", Type: tools.TypeString, Description: "Transmission type filter"},
		{Name: "mileage_more_than", Type: tools.TypeNumber, Description: "Minimum mileage in km/l (exclusive)"},
		{Name: "mileage_less_than", Type: tools.TypeNumber, Description: "Maximum mileage in km/l (exclusive)"},
		{Name: "engine_displacement_more_than", Type: tools.TypeInteger, Description: "Minimum engine displacement in cc (exclusive)"},
		{Name: "engine_displacement_less_than", Type: tools.TypeInteger, Description: "Maximum engine displacement in cc (exclusive)"},
		{Name: "sort_by", Type: tools.TypeString, Description: "Field to sort by (price, mileage, seating_capacity, engine_displacement)"},
		{Name: "sort_order", Type: tools.TypeString, Description: "Sort order (asc or desc)", Default: "asc"},
	}
	if car {
		params = append(params,
			tools.Param{Name: "body_type", Type: tools.TypeString, Description: "Body type filter (e.g., SUV, Sedan)"},
			tools.Param{Name: "seating_capacity", Type: tools.TypeInteger, Description: "Seating capacity filter"},
		)
	}
	return params
}

func filtersFromArgs(args tools.Args) catalog.Filters {
	var f catalog.Filters
	if args.Has("min_price") {
		v := args.Int("min_price")
		f.MinPrice = &v
	}
	if args.Has("max_price") {
		v := args.Int("max_price")
		f.MaxPrice = &v
	}
	if args.Has("brand") {
		v := args.String("brand")
		f.Brand = &v
	}
	if args.Has("body_type") {
		v := args.String("body_type")
		f.BodyType = &v
	}
	if args.Has("fuel_type") {
		v := args.String("fuel_type")
		f.FuelType = &v
	}
	if args.Has("transmission") {
		v := args.String("transmission")
		f.Transmission = &v
	}
	if args.Has("seating_capacity") {
		v := args.Int("seating_capacity")
		f.SeatingCapacity = &v
	}
	if args.Has("mileage_more_than") {
		v := args.Float("mileage_more_than")
		f.MileageMoreThan = &v
	}
	if args.Has("mileage_less_than") {
		v := args.Float("mileage_less_than")
		f.MileageLessThan = &v
	}
	if args.Has("engine_displacement_more_than") {
		v := args.Int("engine_displacement_more_than")
		f.DisplacementMoreThanCC = &v
	}
	if args.Has("engine_displacement_less_than") {
		v := args.Int("engine_displacement_less_than")
		f.DisplacementLessThanCC = &v
	}
	return f
}

func sortFromArgs(args tools.Args) catalog.SortSpec {
	return catalog.SortSpec{By: args.String("sort_by"), Order: args.String("sort_order")}
}

// renderCatalogErr turns the catalog's typed errors into conversational
// tool output the model can relay; anything else stays a hard failure.
func renderCatalogErr(err error) (string, error) {
	var nf *catalog.NotFoundError
	var inv *catalog.InvalidFilterError
	if errors.As(err, &nf) || errors.As(err, &inv) {
		return err.Error(), nil
	}
	return "", err
}

func listTool(name, description string, svc *catalog.Service, car bool) tools.Tool {
	params := append([]tools.Param{
		{Name: "limit", Type: tools.TypeInteger, Description: "Maximum number of results", Default: 5},
		{Name: "offset", Type: tools.TypeInteger, Description: "Number of results to skip", Default: 0},
	}, filterParams(car)...)

	return tools.New(name, description, params, func(_ context.Context, args tools.Args) (string, error) {
		out, err := svc.List(filtersFromArgs(args), args.Int("limit"), args.Int("offset"), sortFromArgs(args))
		if err != nil {
			return renderCatalogErr(err)
		}
		if len(out) == 0 {
			return "No vehicles found matching your criteria.", nil
		}
		return renderVehicles(out), nil
	})
}

func searchTool(name, description string, svc *catalog.Service, car bool) tools.Tool {
	params := append([]tools.Param{
		{Name: "query", Type: tools.TypeString, Description: "Search query string", Required: true},
		{Name: "limit", Type: tools.TypeInteger, Description: "Maximum number of results", Default: 5},
	}, filterParams(car)...)

	return tools.New(name, description, params, func(_ context.Context, args tools.Args) (string, error) {
		out, err := svc.Search(args.String("query"), filtersFromArgs(args), args.Int("limit"), sortFromArgs(args))
		if err != nil {
			return renderCatalogErr(err)
		}
		if len(out) == 0 {
			return "No vehicles found matching your search criteria.", nil
		}
		return renderVehicles(out), nil
	})
}

func detailsTool(name, description string, svc *catalog.Service, idParam string, extended bool) tools.Tool {
	params := []tools.Param{
		{Name: idParam, Type: tools.TypeString, Description: "Catalog identifier of the vehicle", Required: true},
	}
	return tools.New(name, description, params, func(_ context.Context, args tools.Args) (string, error) {
		var (
			v   catalog.Vehicle
			err error
		)
		if extended {
			v, err = svc.GetExtended(args.String(idParam))
		} else {
			v, err = svc.Get(args.String(idParam))
		}
		if err != nil {
			return renderCatalogErr(err)
		}
		return renderVehicle(v), nil
	})
}

func compareTool(name, description string, svc *catalog.Service, idsParam string) tools.Tool {
	params := []tools.Param{
		{Name: idsParam, Type: tools.TypeStringArray, Description: "Catalog identifiers of the vehicles to compare", Required: true},
	}
	return tools.New(name, description, params, func(_ context.Context, args tools.Args) (string, error) {
		cmp, err := svc.Compare(args.StringSlice(idsParam))
		if err != nil {
			return renderCatalogErr(err)
		}
		return renderComparison(cmp), nil
	})
}

func searchFAQTool(svc *faq.Service) tools.Tool {
	params := []tools.Param{
		{Name: "query", Type: tools.TypeString, Description: "Search query string", Required: true},
		{Name: "limit", Type: tools.TypeInteger, Description: "Maximum number of results", Default: 5},
	}
	return tools.New("search_faq",
		"Search FAQ database for insurance and general questions. Returns relevant Q&A pairs with similarity scores.",
		params, func(ctx context.Context, args tools.Args) (string, error) {
			limit := args.Int("limit")
			if limit > faqLimitCap {
				limit = faqLimitCap
			}
			results, err := svc.Search(ctx, args.String("query"), limit)
			if err != nil {
				return "", err
			}
			if len(results) == 0 || results[0].Score < faqScoreFloor {
				return "I couldn't find any relevant information in our FAQ database. Please contact customer support for assistance.", nil
			}
			data, err := json.MarshalIndent(results, "", "  ")
			if err != nil {
				return "", fmt.Errorf("serialize faq results: %w", err)
			}
			return string(data), nil
		})
}

func bookRideTool(bk *booking.StateMachine, notifier *slack.Service) tools.Tool {
	params := []tools.Param{
		{Name: "name", Type: tools.TypeString, Description: "User's name", Required: true},
		{Name: "phone_number", Type: tools.TypeString, Description: "User's phone number", Required: true},
	}
	return tools.New("book_ride",
		"Initiate test drive booking by collecting user details. Generates OTP and sends notification.",
		params, func(ctx context.Context, args tools.Args) (string, error) {
			name := args.String("name")
			phone := args.String("phone_number")
			otp, err := bk.Issue(phone, name)
			if err != nil {
				return "", err
			}
			notifier.NotifyBookingRequested(ctx, name, phone, otp)
			return fmt.Sprintf(
				"Thank you, %s! We've initiated your test drive booking. "+
					"An OTP has been sent to %s. Please provide the OTP to confirm your booking.",
				name, phone), nil
		})
}

func confirmRideTool(bk *booking.StateMachine) tools.Tool {
	params := []tools.Param{
		{Name: "phone_number", Type: tools.TypeString, Description: "Phone number the booking was made with", Required: true},
		{Name: "otp", Type: tools.TypeString, Description: "OTP code to verify", Required: true},
	}
	return tools.New("confirm_ride",
		"Confirm test drive booking by verifying the OTP sent for the given phone number. Completes the booking process.",
		params, func(_ context.Context, args tools.Args) (string, error) {
			ok, name := bk.Verify(args.String("phone_number"), args.String("otp"))
			if !ok {
				return "Invalid or expired OTP. Please check the code and try again, or request a new booking.", nil
			}
			return fmt.Sprintf(
				"Booking confirmed! Thank you, %s. Our team will contact you shortly at %s to schedule your test drive.",
				name, args.String("phone_number")), nil
		})
}

func findEVChargerTool(svc *ev.Service) tools.Tool {
	params := []tools.Param{
		{Name: "pincode", Type: tools.TypeString, Description: "Indian postal code to search from", Required: true},
		{Name: "radius_in_km", Type: tools.TypeNumber, Description: "Maximum search radius in kilometers", Default: 5.0},
		{Name: "limit", Type: tools.TypeInteger, Description: "Maximum number of results to return", Default: 5},
	}
	return tools.New("find_nearest_ev_charger",
		"Find EV charging stations by pincode within a specified radius. Returns up to 'limit' stations sorted by distance, with location details and Google Maps links.",
		params, func(_ context.Context, args tools.Args) (string, error) {
			pincode := args.String("pincode")
			radius := args.Float("radius_in_km")
			loc, results, err := svc.Find(pincode, radius, args.Int("limit"))
			if err != nil {
				return "", err
			}
			if loc == nil {
				return fmt.Sprintf(
					"Invalid pincode: %s. Please provide a valid Indian pincode to search for EV charging stations.",
					pincode), nil
			}
			return renderEVResults(loc, results, radius), nil
		})
}
