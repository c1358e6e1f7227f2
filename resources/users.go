package resources

import (
	"context"
	"fmt"
	"iter"

	"github.com/synapsepay/go-synapse-client/core"
)

// Users is the client scoped users façade. It needs only the gateway credentials.
type Users struct {
	session core.RESTSession
}

func NewUsers(session core.RESTSession) *Users {
	return &Users{session: session}
}

// All returns one page of users: `page`, `page_count`, `users_count` and `users`.
func (u *Users) All(ctx context.Context, opts *core.ListOptions) (core.Record, error) {
	return list(ctx, u.session, get("/users"), opts)
}

// Iter walks every user across all pages.
func (u *Users) Iter(ctx context.Context, opts *core.ListOptions) iter.Seq2[core.Record, error] {
	return iterate(ctx, u.session, get("/users"), "users", opts)
}

// Pages returns a page by page iterator over the users.
func (u *Users) Pages(ctx context.Context, opts *core.ListOptions) core.Iterator {
	return core.NewPageIterator(ctx, u.session, get("/users"), "users", opts)
}

func (u *Users) Find(ctx context.Context, id string) (core.Record, error) {
	seg, err := segment("user", id)
	if err != nil {
		return nil, err
	}
	return u.session.Execute(ctx, get("/users/"+seg))
}

// Create registers a new user. The request fingerprint travels in the user header.
func (u *Users) Create(ctx context.Context, req CreateUserRequest) (core.Record, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return u.session.Execute(ctx, post("/users", req.Params()).WithFingerprint(req.Fingerprint))
}

// AuthenticateAs exchanges a refresh token for an oauth key and returns the resulting UserSession.
func (u *Users) AuthenticateAs(ctx context.Context, id, refreshToken, fingerprint string) (*UserSession, error) {
	seg, err := segment("user", id)
	if err != nil {
		return nil, err
	}
	if refreshToken == "" {
		return nil, fmt.Errorf("authenticate %s: %w: refresh_token", id, ErrMissingField)
	}
	req := post("/oauth/"+seg, core.Params{"refresh_token": refreshToken}).WithFingerprint(fingerprint)
	result, err := u.session.Execute(ctx, req)
	if err != nil {
		return nil, err
	}
	return newUserSession(u.session, id, fingerprint, result)
}
