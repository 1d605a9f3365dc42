package domain

type User struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsGuest bool   `json:"isGuest"`
}

// GuestUser is the identity used when a visitor proceeds without signing in.
func GuestUser() User {
	return User{Name: "Invitado", Email: "", IsGuest: true}
}
