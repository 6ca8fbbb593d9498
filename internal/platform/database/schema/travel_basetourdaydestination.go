package schema

// TravelBaseTourDayDestinationTable represents the 'travel.basetourdaydestination' junction table
type TravelBaseTourDayDestinationTable struct {
	Table         string
	TourDayID     string
	DestinationID string
	SortOrder     string
}

// TravelBaseTourDayDestination is the schema definition for travel.basetourdaydestination
var TravelBaseTourDayDestination = TravelBaseTourDayDestinationTable{
	Table:         "travel.basetourdaydestination",
	TourDayID:     "tourdayid",
	DestinationID: "destinationid",
	SortOrder:     "sortorder",
}
