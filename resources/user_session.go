package resources

import (
	"context"
	"encoding/base64"
	"fmt"
	"maps"

	"github.com/synapsepay/go-synapse-client/core"
)

// Attribute names of the authentication response exposed as typed fields.
const (
	AttrOAuthKey         = "oauth_key"
	AttrExpiresAt        = "expires_at"
	AttrExpiresIn        = "expires_in"
	AttrRefreshToken     = "refresh_token"
	AttrRefreshExpiresIn = "refresh_expires_in"
)

// UserSession is a snapshot of one authentication response plus the SessionContext it produced.
// Later changes to the user are not reflected in its fields.
type UserSession struct {
	UserID           string `json:"-"`
	OAuthKey         string `json:"oauth_key"`
	ExpiresAt        string `json:"expires_at"`
	ExpiresIn        string `json:"expires_in"`
	RefreshToken     string `json:"refresh_token"`
	RefreshExpiresIn int64  `json:"refresh_expires_in"`
	// Extra holds every other attribute the server returned.
	Extra core.Record `json:"-"`

	session core.RESTSession
	sc      core.SessionContext
}

func newUserSession(session core.RESTSession, userID, fingerprint string, auth core.Record) (*UserSession, error) {
	us := &UserSession{UserID: userID, session: session, Extra: core.Record{}}
	for k, v := range auth {
		switch k {
		case AttrOAuthKey, AttrExpiresAt, AttrExpiresIn, AttrRefreshToken, AttrRefreshExpiresIn:
			// a typed field the server sent in an unexpected shape stays reachable through Extra
			if err := (core.Record{k: v}).Fill(us); err != nil {
				us.Extra[k] = v
			}
		default:
			us.Extra[k] = v
		}
	}
	if us.OAuthKey == "" {
		return nil, fmt.Errorf("authentication response for user %s carries no %s", userID, AttrOAuthKey)
	}
	us.sc = core.NewSessionContext(us.OAuthKey, fingerprint)
	return us, nil
}

// NewUserSession rebuilds a UserSession from a stored context, e.g. one persisted by a CLI.
// The refresh token is needed by Update for plain attribute changes; pass "" when it is unknown.
// Panics when the context carries no oauth key.
func NewUserSession(session core.RESTSession, userID string, sc core.SessionContext, refreshToken string) *UserSession {
	sc.MustValid()
	return &UserSession{
		UserID:       userID,
		OAuthKey:     sc.OAuthKey,
		RefreshToken: refreshToken,
		Extra:        core.Record{},
		session:      session,
		sc:           sc,
	}
}

// Context returns the SessionContext every call of this session is scoped to.
func (us *UserSession) Context() core.SessionContext {
	return us.sc
}

// Attr looks an attribute up by its wire name. Extra wins, so a typed attribute the
// server sent in an undecodable shape is returned raw.
func (us *UserSession) Attr(name string) (any, bool) {
	if v, ok := us.Extra[name]; ok {
		return v, true
	}
	switch name {
	case AttrOAuthKey:
		return us.OAuthKey, true
	case AttrExpiresAt:
		return us.ExpiresAt, true
	case AttrExpiresIn:
		return us.ExpiresIn, true
	case AttrRefreshToken:
		return us.RefreshToken, true
	case AttrRefreshExpiresIn:
		return us.RefreshExpiresIn, true
	}
	return nil, false
}

func (us *UserSession) userPath() (string, error) {
	seg, err := segment("user", us.UserID)
	if err != nil {
		return "", err
	}
	return "/users/" + seg, nil
}

func (us *UserSession) execute(ctx context.Context, req *core.ApiRequest) (core.Record, error) {
	return us.session.Execute(ctx, req.WithSession(us.sc))
}

// User fetches the current state of the user.
func (us *UserSession) User(ctx context.Context) (core.Record, error) {
	path, err := us.userPath()
	if err != nil {
		return nil, err
	}
	return us.execute(ctx, get(path))
}

// Update patches the user. Plain attribute changes are wrapped as
// {"refresh_token": ..., "update": data} and need the session's refresh token;
// payloads carrying "doc" or "documents" are sent as is.
func (us *UserSession) Update(ctx context.Context, data core.Params) (core.Record, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("update user %s: empty payload", us.UserID)
	}
	path, err := us.userPath()
	if err != nil {
		return nil, err
	}
	payload := data
	_, hasDoc := data["doc"]
	_, hasDocuments := data["documents"]
	if !hasDoc && !hasDocuments {
		if us.RefreshToken == "" {
			return nil, fmt.Errorf("update user %s: %w: refresh_token", us.UserID, ErrMissingField)
		}
		payload = core.Params{"refresh_token": us.RefreshToken, "update": maps.Clone(data)}
	}
	return us.execute(ctx, patch(path, payload))
}

// AddDocument submits a single virtual document (legacy KYC flow).
func (us *UserSession) AddDocument(ctx context.Context, req AddDocumentRequest) (core.Record, error) {
	if err := validateRequired(req); err != nil {
		return nil, err
	}
	return us.Update(ctx, req.Params())
}

// AnswerKBA answers the question set returned by AddDocument (legacy KYC flow).
func (us *UserSession) AnswerKBA(ctx context.Context, questionSetID string, answers []KBAAnswer) (core.Record, error) {
	if questionSetID == "" || len(answers) == 0 {
		return nil, fmt.Errorf("answer kba: %w: question_set_id, answers", ErrMissingField)
	}
	return us.Update(ctx, core.Params{"doc": core.Params{
		"question_set_id": questionSetID,
		"answers":         kbaAnswers(answers),
	}})
}

// AttachPhotoID uploads an identity document image as a data URI (legacy KYC flow).
func (us *UserSession) AttachPhotoID(ctx context.Context, mimeType string, image []byte) (core.Record, error) {
	if mimeType == "" {
		mimeType = "image/png"
	}
	if len(image) == 0 {
		return nil, fmt.Errorf("attach photo id: %w: image", ErrMissingField)
	}
	uri := "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(image)
	return us.Update(ctx, core.Params{"doc": core.Params{"attachment": uri}})
}

// AddDocuments submits a base document with its virtual, physical and social documents.
func (us *UserSession) AddDocuments(ctx context.Context, req BaseDocumentRequest) (core.Record, error) {
	if err := validateRequired(req); err != nil {
		return nil, err
	}
	return us.Update(ctx, req.Params())
}

// UpdateDocumentsWithKBAAnswers answers the question set attached to a virtual document.
func (us *UserSession) UpdateDocumentsWithKBAAnswers(ctx context.Context, req DocumentKBARequest) (core.Record, error) {
	if err := validateRequired(req); err != nil {
		return nil, err
	}
	return us.Update(ctx, req.Params())
}

// Nodes returns the façade over every node of the user.
func (us *UserSession) Nodes() *Nodes {
	return &Nodes{session: us.session, sc: us.sc, userID: us.UserID}
}

// Node returns a handle on a single node of the user.
func (us *UserSession) Node(id string) NodeHandle {
	return NodeHandle{session: us.session, sc: us.sc, userID: us.UserID, nodeID: id}
}

// AddBankAccount links an ACH-US node by account and routing number.
func (us *UserSession) AddBankAccount(ctx context.Context, req BankAccountRequest) (core.Record, error) {
	if err := validateRequired(req); err != nil {
		return nil, err
	}
	return us.Nodes().Create(ctx, req.Params())
}

// BankLogin links the accounts of an online banking login. When the bank asks for
// multi factor authentication the response carries `mfa.access_token` and no nodes;
// continue with VerifyMFA.
func (us *UserSession) BankLogin(ctx context.Context, req BankLoginRequest) (core.Record, error) {
	if err := validateRequired(req); err != nil {
		return nil, err
	}
	return us.Nodes().Create(ctx, req.Params())
}

// VerifyMFA answers the multi factor question of a pending bank login.
func (us *UserSession) VerifyMFA(ctx context.Context, accessToken, answer string) (core.Record, error) {
	if accessToken == "" || answer == "" {
		return nil, fmt.Errorf("verify mfa: %w: access_token, mfa_answer", ErrMissingField)
	}
	return us.Nodes().Create(ctx, core.Params{"access_token": accessToken, "mfa_answer": answer})
}

// SendMoney creates a transaction from one of the user's nodes.
func (us *UserSession) SendMoney(ctx context.Context, req SendMoneyRequest) (core.Record, error) {
	if err := validateRequired(req); err != nil {
		return nil, err
	}
	return us.Node(req.FromNodeID).Transactions().Create(ctx, req.CreateTransactionRequest)
}
