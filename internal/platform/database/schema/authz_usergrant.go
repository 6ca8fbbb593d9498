package schema

// AuthzUserGrantTable represents the 'authz.usergrant' table
type AuthzUserGrantTable struct {
	Table          string
	UserID         string
	PermissionName string
	GrantedBy      string
	GrantedAt      string
}

// AuthzUserGrant is the schema definition for authz.usergrant
var AuthzUserGrant = AuthzUserGrantTable{
	Table:          "authz.usergrant",
	UserID:         "userid",
	PermissionName: "permissionname",
	GrantedBy:      "grantedby",
	GrantedAt:      "grantedat",
}
