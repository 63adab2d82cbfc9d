package domain

type ContextKey string

const UserContextKey ContextKey = "user"

// User is the authenticated principal reconstructed from JWT claims by
// the auth middleware. The storefront's full customer record lives in a
// separate service; only identity and role matter here.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
