package response

// Registered is the response body for a successful registration
type Registered struct {
	OK          bool   `json:"ok"`
	User        string `json:"user"`
	DisplayName string `json:"displayName"`
}

// LoggedIn is the response body for a successful login
type LoggedIn struct {
	OK   bool   `json:"ok"`
	User string `json:"user"`
}

// Health is the response body for the health check
type Health struct {
	Status string `json:"status"`
}
