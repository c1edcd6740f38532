package request

// RegisterRequest is the request body for registering a credential.
// The dashboard's older field names (nombre, usuario, pass) are accepted too.
type RegisterRequest struct {
	DisplayName string `json:"displayName"`
	Username    string `json:"username"`
	Password    string `json:"password"`

	Nombre  string `json:"nombre,omitempty"`
	Usuario string `json:"usuario,omitempty"`
	Pass    string `json:"pass,omitempty"`
}

// Normalize folds the legacy field names into the current ones
func (r *RegisterRequest) Normalize() {
	r.DisplayName = firstNonEmpty(r.DisplayName, r.Nombre)
	r.Username = firstNonEmpty(r.Username, r.Usuario)
	r.Password = firstNonEmpty(r.Password, r.Pass)
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`

	Usuario string `json:"usuario,omitempty"`
	Pass    string `json:"pass,omitempty"`
}

// Normalize folds the legacy field names into the current ones
func (r *LoginRequest) Normalize() {
	r.Username = firstNonEmpty(r.Username, r.Usuario)
	r.Password = firstNonEmpty(r.Password, r.Pass)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
