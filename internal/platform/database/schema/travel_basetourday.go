package schema

// TravelBaseTourDayTable represents the 'travel.basetourday' table
type TravelBaseTourDayTable struct {
	Table         string
	ID            string
	TourID        string
	DayNumber     string
	MealsIncluded string
}

// TravelBaseTourDay is the schema definition for travel.basetourday
var TravelBaseTourDay = TravelBaseTourDayTable{
	Table:         "travel.basetourday",
	ID:            "id",
	TourID:        "tourid",
	DayNumber:     "daynumber",
	MealsIncluded: "mealsincluded",
}
