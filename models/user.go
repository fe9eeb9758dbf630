package models

// SyncUser is the mapping between an externally-visible Sync account hash
// (derived from the user's email address) and the login of the identity the
// account belongs to. The internal ID is what the storage tables reference.
type SyncUser struct {
	// ID is the internal numeric Sync user ID.
	ID int64 `json:"id"`

	// Login is the identity-store login name this Sync account maps to.
	Login string `json:"login"`

	// SyncHash is the opaque account hash used in Weave URLs.
	SyncHash string `json:"sync_hash"`
}

// Identity is a credential record in the standalone identity store.
// The password is held as a bcrypt hash and never leaves the store layer.
type Identity struct {
	Login        string `json:"login"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}
