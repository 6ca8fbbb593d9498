package schema

// TravelItineraryDayTable represents the 'travel.itineraryday' table
type TravelItineraryDayTable struct {
	Table         string
	ID            string
	ItineraryID   string
	DayNumber     string
	MealsIncluded string
}

// TravelItineraryDay is the schema definition for travel.itineraryday
var TravelItineraryDay = TravelItineraryDayTable{
	Table:         "travel.itineraryday",
	ID:            "id",
	ItineraryID:   "itineraryid",
	DayNumber:     "daynumber",
	MealsIncluded: "mealsincluded",
}
