package model

// CanonicalUsername is a normalized, validated username used as the storage key
type CanonicalUsername string

// Credential is the single record kept per registered user
// Only the hash is ever persisted; the username is the record key
type Credential struct {
	Username     CanonicalUsername
	PasswordHash string // self-describing salted hash (bcrypt or sha512-crypt)
}
