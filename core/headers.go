package core

import "net/http"

// HeaderInput carries everything the header set of one call depends on.
type HeaderInput struct {
	Credentials    Credentials
	UserAgent      string
	ClientIP       string
	Session        *SessionContext
	Fingerprint    string
	IdempotencyKey string
	Anonymous      bool
	HasBody        bool
}

// BuildHeaders returns the finalized header set of a call. It is a pure function and
// builds a fresh http.Header every time.
//
// It panics when an authenticated call lacks valid credentials or when a user-scoped
// call lacks an oauth key: sending blank credential headers is never the right answer.
func BuildHeaders(in HeaderInput) http.Header {
	h := make(http.Header)
	h.Set(HeaderAccept, ContentTypeJSON)
	if in.HasBody {
		h.Set(HeaderContentType, ContentTypeJSON)
	}
	if in.UserAgent != "" {
		h.Set(HeaderUserAgent, in.UserAgent)
	}
	if in.Anonymous {
		return h
	}

	if !in.Credentials.Valid() {
		panic("synapse: authenticated call requires both client id and client secret")
	}
	h.Set(HeaderGateway, in.Credentials.ClientID+CredentialSeparator+in.Credentials.ClientSecret)

	oauthKey, fingerprint := "", in.Fingerprint
	if in.Session != nil {
		in.Session.MustValid()
		oauthKey, fingerprint = in.Session.OAuthKey, in.Session.Fingerprint
	}
	h.Set(HeaderUser, oauthKey+CredentialSeparator+fingerprint)
	h.Set(HeaderUserIP, in.ClientIP)

	if in.IdempotencyKey != "" {
		h.Set(HeaderIdempotencyKey, in.IdempotencyKey)
	}
	return h
}
