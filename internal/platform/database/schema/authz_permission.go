package schema

// AuthzPermissionTable represents the 'authz.permission' table
type AuthzPermissionTable struct {
	Table       string
	Name        string
	Category    string
	Description string
	CreatedAt   string
}

// AuthzPermission is the schema definition for authz.permission
var AuthzPermission = AuthzPermissionTable{
	Table:       "authz.permission",
	Name:        "name",
	Category:    "category",
	Description: "description",
	CreatedAt:   "createdat",
}
