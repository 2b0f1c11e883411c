package model

// User is a household member. The admin flag is self-declared at signup;
// nothing verifies it beyond the HTTP layer hiding admin controls.
type User struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}
