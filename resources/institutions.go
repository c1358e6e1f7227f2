package resources

import (
	"context"

	"github.com/synapsepay/go-synapse-client/core"
)

// Institutions lists the banks supported by bank login. The list is served by a static
// host outside the API base and is fetched without credentials.
type Institutions struct {
	session core.RESTSession
}

func NewInstitutions(session core.RESTSession) *Institutions {
	return &Institutions{session: session}
}

// List returns the `banks` array.
func (i *Institutions) List(ctx context.Context) (core.RecordSet, error) {
	req := get(core.InstitutionsURL)
	req.Anonymous = true
	result, err := i.session.Execute(ctx, req)
	if err != nil {
		return nil, err
	}
	return result.GetRecordSet("banks"), nil
}
