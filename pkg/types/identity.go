package types

// Identity is the resolved caller of a request. Email and FirstName come
// from the identity provider's token claims; Email may be empty, in which
// case notification dispatch becomes a logged no-op.
type Identity struct {
	OwnerID   string `json:"owner_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
}
