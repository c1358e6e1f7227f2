package resources

import (
	"context"
	"fmt"
	"iter"

	"github.com/synapsepay/go-synapse-client/core"
)

// Node types accepted by the API.
const (
	NodeTypeACHUS     = "ACH-US"
	NodeTypeSynapseUS = "SYNAPSE-US"
	NodeTypeWireUS    = "WIRE-US"
	NodeTypeWireInt   = "WIRE-INT"
	NodeTypeIOUS      = "IOU"
)

// Nodes is the façade over every node of one user.
type Nodes struct {
	session core.RESTSession
	sc      core.SessionContext
	userID  string
}

func (n *Nodes) basePath() (string, error) {
	seg, err := segment("user", n.userID)
	if err != nil {
		return "", err
	}
	return "/users/" + seg + "/nodes", nil
}

func (n *Nodes) nodePath(id string) (string, error) {
	base, err := n.basePath()
	if err != nil {
		return "", err
	}
	seg, err := segment("node", id)
	if err != nil {
		return "", err
	}
	return base + "/" + seg, nil
}

func (n *Nodes) execute(ctx context.Context, req *core.ApiRequest) (core.Record, error) {
	return n.session.Execute(ctx, req.WithSession(n.sc))
}

// All returns one page of nodes: `page`, `page_count`, `node_count` and `nodes`.
func (n *Nodes) All(ctx context.Context, opts *core.ListOptions) (core.Record, error) {
	path, err := n.basePath()
	if err != nil {
		return nil, err
	}
	return list(ctx, n.session, get(path).WithSession(n.sc), opts)
}

// Iter walks every node across all pages.
func (n *Nodes) Iter(ctx context.Context, opts *core.ListOptions) iter.Seq2[core.Record, error] {
	path, err := n.basePath()
	if err != nil {
		return func(yield func(core.Record, error) bool) { yield(nil, err) }
	}
	return iterate(ctx, n.session, get(path).WithSession(n.sc), "nodes", opts)
}

func (n *Nodes) Find(ctx context.Context, id string) (core.Record, error) {
	path, err := n.nodePath(id)
	if err != nil {
		return nil, err
	}
	return n.execute(ctx, get(path))
}

// Create adds one or more nodes. The response lists them under `nodes`, or carries
// an `mfa` object when a bank login needs a further answer.
func (n *Nodes) Create(ctx context.Context, payload core.Params) (core.Record, error) {
	if len(payload) == 0 {
		return nil, fmt.Errorf("create node: empty payload")
	}
	path, err := n.basePath()
	if err != nil {
		return nil, err
	}
	return n.execute(ctx, post(path, payload))
}

func (n *Nodes) Update(ctx context.Context, id string, payload core.Params) (core.Record, error) {
	path, err := n.nodePath(id)
	if err != nil {
		return nil, err
	}
	return n.execute(ctx, patch(path, payload))
}

func (n *Nodes) Delete(ctx context.Context, id string) (core.Record, error) {
	path, err := n.nodePath(id)
	if err != nil {
		return nil, err
	}
	return n.execute(ctx, del(path))
}

// VerifyMicroDeposits confirms the two micro deposits sent to an ACH-US node.
func (n *Nodes) VerifyMicroDeposits(ctx context.Context, id string, amounts ...float64) (core.Record, error) {
	if len(amounts) == 0 {
		return nil, fmt.Errorf("verify micro deposits: %w: micro", ErrMissingField)
	}
	return n.Update(ctx, id, core.Params{"micro": amounts})
}

// NodeHandle is a single node of a user. Transactions are only reachable through it.
type NodeHandle struct {
	session core.RESTSession
	sc      core.SessionContext
	userID  string
	nodeID  string
}

func (h NodeHandle) ID() string {
	return h.nodeID
}

func (h NodeHandle) nodes() *Nodes {
	return &Nodes{session: h.session, sc: h.sc, userID: h.userID}
}

func (h NodeHandle) Find(ctx context.Context) (core.Record, error) {
	return h.nodes().Find(ctx, h.nodeID)
}

func (h NodeHandle) Update(ctx context.Context, payload core.Params) (core.Record, error) {
	return h.nodes().Update(ctx, h.nodeID, payload)
}

func (h NodeHandle) Delete(ctx context.Context) (core.Record, error) {
	return h.nodes().Delete(ctx, h.nodeID)
}

// Transactions returns the transactions façade of this node.
func (h NodeHandle) Transactions() *Transactions {
	return &Transactions{session: h.session, sc: h.sc, userID: h.userID, nodeID: h.nodeID}
}

// Transaction returns a handle on a single transaction of this node.
func (h NodeHandle) Transaction(id string) TransactionHandle {
	return TransactionHandle{transactions: h.Transactions(), transID: id}
}
