package domain

// Session is a signed credential proving a verified username for a bounded
// time window. The token always verifies back to exactly this username.
type Session struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}
