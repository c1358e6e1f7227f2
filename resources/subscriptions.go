package resources

import (
	"context"
	"fmt"
	"iter"

	"github.com/synapsepay/go-synapse-client/core"
)

// Subscription scopes.
const (
	ScopeUsersPost = "USERS|POST"
	ScopeUserPatch = "USER|PATCH"
	ScopeNodesPost = "NODES|POST"
	ScopeNodePatch = "NODE|PATCH"
	ScopeTransPost = "TRANS|POST"
	ScopeTranPatch = "TRAN|PATCH"
)

// Subscriptions manages webhooks of the platform. It needs only the gateway credentials.
type Subscriptions struct {
	session core.RESTSession
}

func NewSubscriptions(session core.RESTSession) *Subscriptions {
	return &Subscriptions{session: session}
}

func subscriptionPath(id string) (string, error) {
	seg, err := segment("subscription", id)
	if err != nil {
		return "", err
	}
	return "/subscriptions/" + seg, nil
}

// All returns one page of subscriptions.
func (s *Subscriptions) All(ctx context.Context, opts *core.ListOptions) (core.Record, error) {
	return list(ctx, s.session, get("/subscriptions"), opts)
}

// Iter walks every subscription across all pages.
func (s *Subscriptions) Iter(ctx context.Context, opts *core.ListOptions) iter.Seq2[core.Record, error] {
	return iterate(ctx, s.session, get("/subscriptions"), "subscriptions", opts)
}

// Pages returns a page by page iterator over the subscriptions.
func (s *Subscriptions) Pages(ctx context.Context, opts *core.ListOptions) core.Iterator {
	return core.NewPageIterator(ctx, s.session, get("/subscriptions"), "subscriptions", opts)
}

func (s *Subscriptions) Find(ctx context.Context, id string) (core.Record, error) {
	path, err := subscriptionPath(id)
	if err != nil {
		return nil, err
	}
	return s.session.Execute(ctx, get(path))
}

// Create registers a webhook url for the given scopes.
func (s *Subscriptions) Create(ctx context.Context, url string, scope []string) (core.Record, error) {
	if url == "" || len(scope) == 0 {
		return nil, fmt.Errorf("create subscription: %w: url, scope", ErrMissingField)
	}
	return s.session.Execute(ctx, post("/subscriptions", core.Params{"url": url, "scope": scope}))
}

// Update patches a subscription, e.g. {"is_active": false} or a new url or scope.
func (s *Subscriptions) Update(ctx context.Context, id string, payload core.Params) (core.Record, error) {
	if len(payload) == 0 {
		return nil, fmt.Errorf("update subscription %s: empty payload", id)
	}
	path, err := subscriptionPath(id)
	if err != nil {
		return nil, err
	}
	return s.session.Execute(ctx, patch(path, payload))
}

// Handle returns a handle on a single subscription.
func (s *Subscriptions) Handle(id string) SubscriptionHandle {
	return SubscriptionHandle{subscriptions: s, id: id}
}

type SubscriptionHandle struct {
	subscriptions *Subscriptions
	id            string
}

func (h SubscriptionHandle) ID() string {
	return h.id
}

func (h SubscriptionHandle) Find(ctx context.Context) (core.Record, error) {
	return h.subscriptions.Find(ctx, h.id)
}

func (h SubscriptionHandle) Update(ctx context.Context, payload core.Params) (core.Record, error) {
	return h.subscriptions.Update(ctx, h.id, payload)
}

// Deactivate stops deliveries without deleting the subscription.
func (h SubscriptionHandle) Deactivate(ctx context.Context) (core.Record, error) {
	return h.Update(ctx, core.Params{"is_active": false})
}
