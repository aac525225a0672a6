package models

type Role string

const (
	RoleOperator Role = "operator"
	RoleAdmin    Role = "admin"
)

// Operator is a staff member authorized to scan, identified by the subject of
// their bearer token.
type Operator struct {
	ID   string
	Name string
	Role Role
}

func (o Operator) IsAdmin() bool {
	return o.Role == RoleAdmin
}
