package core

// HTTP-related constants for REST operations
// These constants provide type-safe header names, content types and well-known endpoints

// HTTP Header Names
const (
	HeaderAccept         = "Accept"
	HeaderContentType    = "Content-Type"
	HeaderUserAgent      = "User-Agent"
	HeaderGateway        = "X-SP-GATEWAY"
	HeaderUser           = "X-SP-USER"
	HeaderUserIP         = "X-SP-USER-IP"
	HeaderIdempotencyKey = "X-SP-IDEMPOTENCY-KEY"
)

// HTTP Content Types
const (
	ContentTypeJSON = "application/json"
)

// CredentialSeparator joins the two halves of the gateway and user headers.
const CredentialSeparator = "|"

// API endpoints
const (
	SandboxBaseURL  = "https://sandbox.synapsepay.com/api/3"
	LiveBaseURL     = "https://synapsepay.com/api/3"
	InstitutionsURL = "https://synapsepay.com/api/v3/institutions/show"
)

// Envelope keys shared by every API response.
const (
	KeySuccess   = "success"
	KeyHTTPCode  = "http_code"
	KeyErrorCode = "error_code"
	KeyError     = "error"
	KeyErrorEn   = "en"
)
