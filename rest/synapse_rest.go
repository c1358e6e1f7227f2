package rest

import (
	"context"

	"github.com/synapsepay/go-synapse-client/core"
	"github.com/synapsepay/go-synapse-client/resources"
)

// SynapseRest is the entry point of the client. Client scoped façades hang off it directly;
// user scoped ones are reached through the UserSession returned by AuthenticateAs.
type SynapseRest struct {
	Session core.RESTSession

	Users         *resources.Users
	Subscriptions *resources.Subscriptions
	Institutions  *resources.Institutions
}

func NewSynapseRest(config *core.SynapseConfig) (*SynapseRest, error) {
	config.Validate(core.DefaultValidators()...)
	session, err := core.NewSynapseSession(config)
	if err != nil {
		return nil, err
	}
	return NewSynapseRestWithSession(session), nil
}

// NewSynapseRestWithSession wires the façades to an existing session, e.g. a test double.
func NewSynapseRestWithSession(session core.RESTSession) *SynapseRest {
	return &SynapseRest{
		Session:       session,
		Users:         resources.NewUsers(session),
		Subscriptions: resources.NewSubscriptions(session),
		Institutions:  resources.NewInstitutions(session),
	}
}

func (rest *SynapseRest) GetSession() core.RESTSession {
	return rest.Session
}

// AuthenticateAs is a shortcut for Users.AuthenticateAs.
func (rest *SynapseRest) AuthenticateAs(ctx context.Context, userID, refreshToken, fingerprint string) (*resources.UserSession, error) {
	return rest.Users.AuthenticateAs(ctx, userID, refreshToken, fingerprint)
}

// ResumeSession rebuilds a UserSession from a previously obtained SessionContext and
// the refresh token returned with it. Panics when sc carries no oauth key.
func (rest *SynapseRest) ResumeSession(userID string, sc core.SessionContext, refreshToken string) *resources.UserSession {
	return resources.NewUserSession(rest.Session, userID, sc, refreshToken)
}
