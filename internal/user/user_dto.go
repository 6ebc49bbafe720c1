package user

type UserResponse struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Country *string `json:"country,omitempty"`
	Role    string  `json:"role"`
	IsAdmin bool    `json:"is_admin"`
}
