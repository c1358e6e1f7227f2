package synapse_client

import (
	"github.com/synapsepay/go-synapse-client/core"
	"github.com/synapsepay/go-synapse-client/rest"
)

type (
	SynapseConfig  = core.SynapseConfig
	SessionContext = core.SessionContext
	Params         = core.Params
	Record         = core.Record
	RecordSet      = core.RecordSet
	ListOptions    = core.ListOptions
	ClientError    = core.ClientError
	TransportError = core.TransportError
	SynapseRest    = rest.SynapseRest
)

func NewSynapseRest(config *SynapseConfig) (*SynapseRest, error) {
	return rest.NewSynapseRest(config)
}

// ClientVersion returns the semantic version of this client, also sent in the User-Agent.
func ClientVersion() string {
	return core.ClientVersion()
}
