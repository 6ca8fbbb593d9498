package schema

// TravelBaseTourTable represents the 'travel.basetour' table
type TravelBaseTourTable struct {
	Table        string
	ID           string
	Title        string
	Summary      string
	DurationDays string
	IsActive     string
	CreatedAt    string
	UpdatedAt    string
	DeletedAt    string
}

// TravelBaseTour is the schema definition for travel.basetour
var TravelBaseTour = TravelBaseTourTable{
	Table:        "travel.basetour",
	ID:           "id",
	Title:        "title",
	Summary:      "summary",
	DurationDays: "durationdays",
	IsActive:     "isactive",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
	DeletedAt:    "deletedat",
}
