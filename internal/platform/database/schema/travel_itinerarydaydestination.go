package schema

// TravelItineraryDayDestinationTable represents the 'travel.itinerarydaydestination' junction table
type TravelItineraryDayDestinationTable struct {
	Table         string
	DayID         string
	DestinationID string
	SortOrder     string
}

// TravelItineraryDayDestination is the schema definition for travel.itinerarydaydestination
var TravelItineraryDayDestination = TravelItineraryDayDestinationTable{
	Table:         "travel.itinerarydaydestination",
	DayID:         "dayid",
	DestinationID: "destinationid",
	SortOrder:     "sortorder",
}
