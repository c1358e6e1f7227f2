package core

import (
	"context"
)

// RESTSession is what resource façades need from a session: one executor and its config.
type RESTSession interface {
	Execute(context.Context, *ApiRequest) (Record, error)
	GetConfig() *SynapseConfig
}

var _ RESTSession = (*SynapseSession)(nil)
