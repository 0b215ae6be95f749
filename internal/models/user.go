package models

// UserRole represents the role a user holds in the workflow
type UserRole string

const (
	RoleManager      UserRole = "manager"
	RoleTeamLead     UserRole = "team_lead"
	RoleDeveloper    UserRole = "developer"
	RoleTestEngineer UserRole = "test_engineer"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r UserRole) bool {
	switch r {
	case RoleManager, RoleTeamLead, RoleDeveloper, RoleTestEngineer:
		return true
	}
	return false
}

// User represents a user in the system. Password holds the bcrypt hash,
// never plaintext.
type User struct {
	ID       uint     `json:"id" gorm:"primaryKey"`
	Username string   `json:"username" gorm:"uniqueIndex;not null"`
	Password string   `json:"-" gorm:"not null"`
	Role     UserRole `json:"role"`
}

// TableName specifies the table name for User Model
func (User) TableName() string {
	return "users"
}
