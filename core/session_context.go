package core

import "fmt"

// SessionContext is the authentication context of one user, produced by a successful
// POST /oauth/{user_id}. It is an immutable value: copy it freely, never mutate it.
// An empty Fingerprint means no fingerprint was supplied.
type SessionContext struct {
	OAuthKey    string
	Fingerprint string
}

// NewSessionContext builds a SessionContext and panics on an empty oauth key.
// A user-scoped call without an oauth key is a programming error, not a runtime condition.
func NewSessionContext(oauthKey, fingerprint string) SessionContext {
	sc := SessionContext{OAuthKey: oauthKey, Fingerprint: fingerprint}
	sc.MustValid()
	return sc
}

// Valid reports whether the context can authorize a user-scoped call.
func (sc SessionContext) Valid() bool {
	return sc.OAuthKey != ""
}

// MustValid panics when the context cannot authorize a user-scoped call.
func (sc SessionContext) MustValid() {
	if !sc.Valid() {
		panic("synapse: user-scoped call requires a SessionContext with a non-empty oauth key")
	}
}

// String hides the oauth key so contexts can be logged.
func (sc SessionContext) String() string {
	key := "<empty>"
	if sc.OAuthKey != "" {
		key = "<redacted>"
	}
	return fmt.Sprintf("SessionContext{oauth_key:%s fingerprint:%q}", key, sc.Fingerprint)
}
