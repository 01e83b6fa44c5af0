package domain

import "strings"

// User roles, ordered from most to least privileged.
const (
	RoleAdmin      = "ADMIN"
	RoleSupervisor = "SUPERVISOR"
	RoleOfficer    = "OFFICER"
)

// userFields is the canonical attribute set of a User, in diff order.
var userFields = []string{
	"id", "username", "password", "role",
	"email", "first_name", "last_name", "agency",
}

// RoleNames returns every defined role in privilege order.
func RoleNames() []string {
	return []string{RoleAdmin, RoleSupervisor, RoleOfficer}
}

// RoleDisplayName renders a role constant for presentation, e.g. "ADMIN" -> "Admin".
func RoleDisplayName(role string) string {
	if role == "" {
		return ""
	}
	return strings.ToUpper(role[:1]) + strings.ToLower(role[1:])
}

// RoleFromName resolves a case-insensitive role name to its canonical
// constant. The second return value reports whether the name is a known role.
func RoleFromName(name string) (string, bool) {
	canonical := strings.ToUpper(strings.TrimSpace(name))
	for _, r := range RoleNames() {
		if r == canonical {
			return r, true
		}
	}
	return "", false
}

// UserDTO is the untrusted input shape accepted at the service boundary.
// Construction through NewUser copies only these recognised fields.
type UserDTO struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Agency    string `json:"agency"`
}

// User is an application account. The password is an opaque credential kept
// exactly as supplied; credential hashing policy belongs to an outer layer.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Password  string `json:"-"`
	Role      string `json:"role"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Agency    string `json:"agency,omitempty"`
}

// NewUser builds a User from an untrusted DTO. Unrecognised input never
// reaches the entity because the DTO schema is closed; missing fields stay
// empty. NewUser never fails — validity is checked separately by IsValid.
func NewUser(dto UserDTO) *User {
	return &User{
		ID:        dto.ID,
		Username:  dto.Username,
		Password:  dto.Password,
		Role:      dto.Role,
		Email:     dto.Email,
		FirstName: dto.FirstName,
		LastName:  dto.LastName,
		Agency:    dto.Agency,
	}
}

// UserDTOFromMap projects an arbitrary input mapping down to the recognised
// User keys. Unknown keys are dropped, missing keys default to empty.
func UserDTOFromMap(raw map[string]any) UserDTO {
	str := func(key string) string {
		s, _ := raw[key].(string)
		return s
	}
	return UserDTO{
		ID:        str("id"),
		Username:  str("username"),
		Password:  str("password"),
		Role:      str("role"),
		Email:     str("email"),
		FirstName: str("first_name"),
		LastName:  str("last_name"),
		Agency:    str("agency"),
	}
}

// MissingFields lists the required attributes that are empty or unknown.
func (u *User) MissingFields() []string {
	var missing []string
	if u.Username == "" {
		missing = append(missing, "username")
	}
	if u.Password == "" {
		missing = append(missing, "password")
	}
	if _, ok := RoleFromName(u.Role); !ok {
		missing = append(missing, "role")
	}
	return missing
}

// IsValid reports whether the user carries every required field. It is a
// pre-write gate, not a full schema validation.
func (u *User) IsValid() bool {
	return len(u.MissingFields()) == 0
}

// Diff returns the names of the attributes whose values differ between the
// two users, in canonical field order. Diff is side-effect free.
func (u *User) Diff(other *User) []string {
	var changed []string
	for _, field := range userFields {
		if u.attr(field) != other.attr(field) {
			changed = append(changed, field)
		}
	}
	return changed
}

func (u *User) attr(field string) string {
	switch field {
	case "id":
		return u.ID
	case "username":
		return u.Username
	case "password":
		return u.Password
	case "role":
		return u.Role
	case "email":
		return u.Email
	case "first_name":
		return u.FirstName
	case "last_name":
		return u.LastName
	case "agency":
		return u.Agency
	}
	return ""
}
