package schema

// TravelDestinationTable represents the 'travel.destination' table
type TravelDestinationTable struct {
	Table       string
	ID          string
	Name        string
	Slug        string
	Country     string
	Region      string
	Description string
	CreatedAt   string
	UpdatedAt   string
	DeletedAt   string
}

// TravelDestination is the schema definition for travel.destination
var TravelDestination = TravelDestinationTable{
	Table:       "travel.destination",
	ID:          "id",
	Name:        "name",
	Slug:        "slug",
	Country:     "country",
	Region:      "region",
	Description: "description",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
	DeletedAt:   "deletedat",
}

// Columns returns all standard column names
func (t TravelDestinationTable) Columns() []string {
	return []string{
		t.ID, t.Name, t.Slug, t.Country, t.Region, t.Description,
		t.CreatedAt, t.UpdatedAt, t.DeletedAt,
	}
}
