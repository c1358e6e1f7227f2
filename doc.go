/*
Package synapse_client is a Go client for the Synapse payments and KYC REST API.

It wraps raw HTTP operations in façades that map business operations (create a user,
link a bank account, send money) to a path and a JSON payload. Every call returns the
normalized response as a Record or a typed error: a *ClientError whose Kind mirrors the
HTTP status (Validation, Unauthorized, Forbidden, NotFound, Conflict, Server, Unknown),
or a *TransportError for network failures and timeouts.

The main entry point is SynapseRest, initialized from a SynapseConfig carrying the platform
credentials, the sandbox/live switch, transport timeouts and optional request/response hooks.
User scoped operations go through the UserSession returned by AuthenticateAs, which carries
the user's SessionContext into every node and transaction call.
*/
package synapse_client
