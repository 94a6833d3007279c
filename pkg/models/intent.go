package models

// IntentName enumerates the supported user intents.
type IntentName string

const (
	IntentGreeting       IntentName = "greeting"
	IntentGeneralQNA     IntentName = "general_qna"
	IntentCarRecommend   IntentName = "car_recommendation"
	IntentCarComparison  IntentName = "car_comparison"
	IntentBookRide       IntentName = "book_ride"
	IntentFindEVCharger  IntentName = "find_ev_charger_location"
	IntentBikeRecommend  IntentName = "bike_recommendation"
	IntentBikeComparison IntentName = "bike_comparison"
)

// AllIntents lists every valid intent name, in classification-prompt order.
var AllIntents = []IntentName{
	IntentGreeting,
	IntentGeneralQNA,
	IntentCarRecommend,
	IntentCarComparison,
	IntentBookRide,
	IntentFindEVCharger,
	IntentBikeRecommend,
	IntentBikeComparison,
}

// Intent is a classified user intent with a confidence score in [0,1].
type Intent struct {
	Name       IntentName `json:"intent_name"`
	Confidence float64    `json:"confidence"`
}

// Valid reports whether the intent name is a member of the enumeration and
// the confidence is in range. Used as the schema check for structured
// classification output.
func (i Intent) Valid() bool {
	if i.Confidence < 0 || i.Confidence > 1 {
		return false
	}
	for _, n := range AllIntents {
		if i.Name == n {
			return true
		}
	}
	return false
}

// Skill bundles the instruction text and tool subset activated for an
// intent. Every RelevantTools entry must exist in the tool registry.
type Skill struct {
	Name          string
	Instruction   string
	RelevantTools []string
}
