package router

import "github.com/driveline-ai/driveline/pkg/models"

// skills is the static intent-to-skill table. Greeting carries no tools;
// the bot answers it with a plain streamed reply.
var skills = map[models.IntentName]models.Skill{
	models.IntentGreeting: {
		Name: "greeting",
		Instruction: "You are a friendly automotive sales and service assistant. " +
			"Greet the user warmly, introduce what you can help with (finding cars and bikes, " +
			"comparisons, test drive bookings, EV chargers, insurance and documentation questions) " +
			"and invite them to ask.",
	},
	models.IntentGeneralQNA: {
		Name: "general_qna",
		Instruction: "You answer insurance, documentation, ownership and service questions. " +
			"Always ground your answer in the FAQ database via search_faq; do not invent policy details. " +
			"If the FAQ search finds nothing relevant, tell the user to contact customer support.",
		RelevantTools: []string{"search_faq"},
	},
	models.IntentCarRecommend: {
		Name: "car_recommendation",
		Instruction: "You help the user find the right car. Use list_cars for budget or feature " +
			"driven browsing and search_car when the user names a specific model. Ask for missing " +
			"constraints (budget, body type, fuel) instead of guessing, and summarise the top options " +
			"with price and mileage.",
		RelevantTools: []string{"list_cars", "search_car", "get_car_details", "get_extended_car_details"},
	},
	models.IntentCarComparison: {
		Name: "car_comparison",
		Instruction: "You compare cars side by side. Resolve the user's car names to catalog IDs " +
			"with search_car first, then call get_car_comparison with all IDs at once and present " +
			"the differences that matter for the user's stated needs.",
		RelevantTools: []string{"search_car", "get_car_details", "get_car_comparison"},
	},
	models.IntentBookRide: {
		Name: "book_ride",
		Instruction: "You handle test drive bookings. Collect the user's name and phone number, " +
			"then call book_ride. When the user supplies the OTP they received, call confirm_ride " +
			"with the same phone number and the code. Never reveal or guess OTP values yourself.",
		RelevantTools: []string{"book_ride", "confirm_ride"},
	},
	models.IntentFindEVCharger: {
		Name: "find_ev_charger_location",
		Instruction: "You locate EV charging stations. Ask for the user's pincode if not given, " +
			"then call find_nearest_ev_charger. Offer to widen the radius when nothing is found.",
		RelevantTools: []string{"find_nearest_ev_charger"},
	},
	models.IntentBikeRecommend: {
		Name: "bike_recommendation",
		Instruction: "You help the user find the right bike. Use list_bikes for budget or feature " +
			"driven browsing and search_bike when the user names a specific model. Summarise the top " +
			"options with price, mileage and engine displacement.",
		RelevantTools: []string{"list_bikes", "search_bike", "get_bike_details", "get_extended_bike_details"},
	},
	models.IntentBikeComparison: {
		Name: "bike_comparison",
		Instruction: "You compare bikes side by side. Resolve the user's bike names to catalog IDs " +
			"with search_bike first, then call get_bike_comparison with all IDs at once.",
		RelevantTools: []string{"search_bike", "get_bike_details", "get_bike_comparison"},
	},
}
