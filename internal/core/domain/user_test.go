package domain

import (
	"reflect"
	"testing"
)

func TestNewUser_CopiesRecognisedFields(t *testing.T) {
	dto := UserDTO{
		Username:  "jdoe",
		Password:  "x",
		Role:      RoleAdmin,
		Email:     "jdoe@example.com",
		FirstName: "Jane",
	}

	u := NewUser(dto)
	if u.Username != "jdoe" || u.Password != "x" || u.Role != RoleAdmin {
		t.Fatalf("unexpected user: %+v", u)
	}
	if u.ID != "" {
		t.Fatalf("id must stay unassigned, got %q", u.ID)
	}
	if u.LastName != "" || u.Agency != "" {
		t.Fatalf("missing dto fields must default to empty: %+v", u)
	}
}

func TestUserDTOFromMap_DropsUnknownKeys(t *testing.T) {
	dto := UserDTOFromMap(map[string]any{
		"username": "jdoe",
		"password": "x",
		"role":     "ADMIN",
		"is_admin": true,
		"_rev":     "1-abc",
		"email":    42, // wrong type, dropped
	})

	want := UserDTO{Username: "jdoe", Password: "x", Role: "ADMIN"}
	if dto != want {
		t.Fatalf("got %+v, want %+v", dto, want)
	}
}

func TestUser_IsValid(t *testing.T) {
	cases := []struct {
		name string
		dto  UserDTO
		want bool
	}{
		{"complete", UserDTO{Username: "jdoe", Password: "x", Role: RoleOfficer}, true},
		{"missing username", UserDTO{Password: "x", Role: RoleOfficer}, false},
		{"missing password", UserDTO{Username: "jdoe", Role: RoleOfficer}, false},
		{"unknown role", UserDTO{Username: "jdoe", Password: "x", Role: "WIZARD"}, false},
		{"empty", UserDTO{}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NewUser(tc.dto).IsValid(); got != tc.want {
				t.Fatalf("IsValid() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestUser_MissingFields(t *testing.T) {
	u := NewUser(UserDTO{Username: "jdoe"})
	got := u.MissingFields()
	want := []string{"password", "role"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("MissingFields() = %v, want %v", got, want)
	}
}

func TestUser_Diff(t *testing.T) {
	a := NewUser(UserDTO{Username: "jdoe", Password: "x", Role: RoleAdmin})
	b := NewUser(UserDTO{Username: "jdoe", Password: "x", Role: RoleAdmin})

	if d := a.Diff(b); len(d) != 0 {
		t.Fatalf("identical users must not differ, got %v", d)
	}

	b.ID = "abc123"
	if d := a.Diff(b); !reflect.DeepEqual(d, []string{"id"}) {
		t.Fatalf("expected [id], got %v", d)
	}

	b.Email = "new@example.com"
	b.Role = RoleOfficer
	want := []string{"id", "role", "email"}
	if d := a.Diff(b); !reflect.DeepEqual(d, want) {
		t.Fatalf("expected %v (canonical order), got %v", want, d)
	}
}

func TestRoleFromName(t *testing.T) {
	if r, ok := RoleFromName("admin"); !ok || r != RoleAdmin {
		t.Fatalf("expected ADMIN, got %q ok=%v", r, ok)
	}
	if r, ok := RoleFromName(" Supervisor "); !ok || r != RoleSupervisor {
		t.Fatalf("expected SUPERVISOR, got %q ok=%v", r, ok)
	}
	if _, ok := RoleFromName("janitor"); ok {
		t.Fatalf("unknown role must not resolve")
	}
}

func TestRoleDisplayName(t *testing.T) {
	if got := RoleDisplayName(RoleSupervisor); got != "Supervisor" {
		t.Fatalf("got %q", got)
	}
	if got := RoleDisplayName(""); got != "" {
		t.Fatalf("empty role must render empty, got %q", got)
	}
}
