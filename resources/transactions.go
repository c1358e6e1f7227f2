package resources

import (
	"context"
	"fmt"
	"iter"

	"github.com/synapsepay/go-synapse-client/core"
)

// Transactions is the façade over the transactions of one node.
type Transactions struct {
	session core.RESTSession
	sc      core.SessionContext
	userID  string
	nodeID  string
}

func (t *Transactions) basePath() (string, error) {
	user, err := segment("user", t.userID)
	if err != nil {
		return "", err
	}
	node, err := segment("node", t.nodeID)
	if err != nil {
		return "", err
	}
	return "/users/" + user + "/nodes/" + node + "/trans", nil
}

func (t *Transactions) transPath(id string) (string, error) {
	base, err := t.basePath()
	if err != nil {
		return "", err
	}
	seg, err := segment("transaction", id)
	if err != nil {
		return "", err
	}
	return base + "/" + seg, nil
}

func (t *Transactions) execute(ctx context.Context, req *core.ApiRequest) (core.Record, error) {
	return t.session.Execute(ctx, req.WithSession(t.sc))
}

// All returns one page of transactions: `page`, `page_count`, `trans_count` and `trans`.
func (t *Transactions) All(ctx context.Context, opts *core.ListOptions) (core.Record, error) {
	path, err := t.basePath()
	if err != nil {
		return nil, err
	}
	return list(ctx, t.session, get(path).WithSession(t.sc), opts)
}

// Iter walks every transaction across all pages.
func (t *Transactions) Iter(ctx context.Context, opts *core.ListOptions) iter.Seq2[core.Record, error] {
	path, err := t.basePath()
	if err != nil {
		return func(yield func(core.Record, error) bool) { yield(nil, err) }
	}
	return iterate(ctx, t.session, get(path).WithSession(t.sc), "trans", opts)
}

func (t *Transactions) Find(ctx context.Context, id string) (core.Record, error) {
	path, err := t.transPath(id)
	if err != nil {
		return nil, err
	}
	return t.execute(ctx, get(path))
}

// Create sends money from this node. A non-empty IdempotencyKey is sent as
// X-SP-IDEMPOTENCY-KEY; reusing it for a different transaction yields a Conflict error.
func (t *Transactions) Create(ctx context.Context, req CreateTransactionRequest) (core.Record, error) {
	if err := validateRequired(req); err != nil {
		return nil, err
	}
	path, err := t.basePath()
	if err != nil {
		return nil, err
	}
	return t.execute(ctx, post(path, req.Params()).WithIdempotencyKey(req.IdempotencyKey))
}

func (t *Transactions) Update(ctx context.Context, id string, payload core.Params) (core.Record, error) {
	path, err := t.transPath(id)
	if err != nil {
		return nil, err
	}
	return t.execute(ctx, patch(path, payload))
}

// Comment attaches a comment to a transaction.
func (t *Transactions) Comment(ctx context.Context, id, comment string) (core.Record, error) {
	if comment == "" {
		return nil, fmt.Errorf("comment transaction: %w: comment", ErrMissingField)
	}
	return t.Update(ctx, id, core.Params{"comment": comment})
}

// Delete cancels a transaction that has not settled yet.
func (t *Transactions) Delete(ctx context.Context, id string) (core.Record, error) {
	path, err := t.transPath(id)
	if err != nil {
		return nil, err
	}
	return t.execute(ctx, del(path))
}

// TransactionHandle is a single transaction of a node.
type TransactionHandle struct {
	transactions *Transactions
	transID      string
}

func (h TransactionHandle) ID() string {
	return h.transID
}

func (h TransactionHandle) Find(ctx context.Context) (core.Record, error) {
	return h.transactions.Find(ctx, h.transID)
}

func (h TransactionHandle) Update(ctx context.Context, payload core.Params) (core.Record, error) {
	return h.transactions.Update(ctx, h.transID, payload)
}

func (h TransactionHandle) Comment(ctx context.Context, comment string) (core.Record, error) {
	return h.transactions.Comment(ctx, h.transID, comment)
}

func (h TransactionHandle) Delete(ctx context.Context) (core.Record, error) {
	return h.transactions.Delete(ctx, h.transID)
}
