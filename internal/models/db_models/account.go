package db_models

type Role string

const (
	RoleClient Role = "client"
	RoleAgent  Role = "agent"
	RoleAdmin  Role = "admin"
)

var (
	ClientOnly = []Role{RoleClient}
	StaffRoles = []Role{RoleAgent, RoleAdmin}
	AdminOnly  = []Role{RoleAdmin}
)

func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleAgent, RoleAdmin:
		return true
	}
	return false
}

// Identity is the login record. Profiles share its id.
type Identity struct {
	BaseModel
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
}

type Profile struct {
	BaseModel
	Role     Role `gorm:"type:text;not null;index"`
	FullName *string
}
