package handler

import "github.com/boloflier/bolo-system/internal/core/domain"

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type createUserRequest struct {
	Username  string `json:"username"   validate:"required,min=3"`
	Password  string `json:"password"   validate:"required"`
	Role      string `json:"role"       validate:"required"`
	Email     string `json:"email"      validate:"omitempty,email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Agency    string `json:"agency"`
}

func (r createUserRequest) dto() domain.UserDTO {
	return domain.UserDTO{
		Username:  r.Username,
		Password:  r.Password,
		Role:      r.Role,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Agency:    r.Agency,
	}
}

type resetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}
