package schema

// TravelItineraryTable represents the 'travel.itinerary' table
type TravelItineraryTable struct {
	Table          string
	ID             string
	Code           string
	Title          string
	CreationMethod string
	Status         string
	PaymentStatus  string
	DeliveryStatus string
	TravelerName   string
	PartySize      string
	StartDate      string
	DurationDays   string
	BaseTourID     string
	CreatedBy      string
	CreatedAt      string
	UpdatedAt      string
	DeletedAt      string
}

// TravelItinerary is the schema definition for travel.itinerary
var TravelItinerary = TravelItineraryTable{
	Table:          "travel.itinerary",
	ID:             "id",
	Code:           "code",
	Title:          "title",
	CreationMethod: "creationmethod",
	Status:         "status",
	PaymentStatus:  "paymentstatus",
	DeliveryStatus: "deliverystatus",
	TravelerName:   "travelername",
	PartySize:      "partysize",
	StartDate:      "startdate",
	DurationDays:   "durationdays",
	BaseTourID:     "basetourid",
	CreatedBy:      "createdby",
	CreatedAt:      "createdat",
	UpdatedAt:      "updatedat",
	DeletedAt:      "deletedat",
}

// Columns returns all standard column names
func (t TravelItineraryTable) Columns() []string {
	return []string{
		t.ID, t.Code, t.Title, t.CreationMethod, t.Status, t.PaymentStatus,
		t.DeliveryStatus, t.TravelerName, t.PartySize, t.StartDate,
		t.DurationDays, t.BaseTourID, t.CreatedBy, t.CreatedAt, t.UpdatedAt, t.DeletedAt,
	}
}
