package core

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/synapsepay/go-synapse-client/openapi_schema"
)

// SynapseSession executes API calls. It is safe for concurrent use: every call builds its own
// request and header set, and the underlying http.Client is shared.
type SynapseSession struct {
	config *SynapseConfig
	client *http.Client
	logger *zap.Logger
}

// NewSynapseSession creates a session from a config that already went through Validate.
func NewSynapseSession(config *SynapseConfig) (*SynapseSession, error) {
	if config == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if config.ConnectTimeout == nil || config.ReadTimeout == nil || config.WriteTimeout == nil {
		return nil, fmt.Errorf("transport budgets are not set, validate the config with DefaultValidators first")
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SynapseSession{
		config: config,
		client: newHTTPClient(config),
		logger: logger,
	}, nil
}

func (s *SynapseSession) GetConfig() *SynapseConfig {
	return s.config
}

// Get issues a gateway-authenticated GET that is not scoped to a user.
func (s *SynapseSession) Get(ctx context.Context, path string, params Params) (Record, error) {
	return s.Execute(ctx, NewApiRequest(http.MethodGet, path).WithPayload(params))
}

// Post issues a gateway-authenticated POST that is not scoped to a user.
func (s *SynapseSession) Post(ctx context.Context, path string, body Params) (Record, error) {
	return s.Execute(ctx, NewApiRequest(http.MethodPost, path).WithPayload(body))
}

// Patch issues a gateway-authenticated PATCH that is not scoped to a user.
func (s *SynapseSession) Patch(ctx context.Context, path string, body Params) (Record, error) {
	return s.Execute(ctx, NewApiRequest(http.MethodPatch, path).WithPayload(body))
}

// Delete issues a gateway-authenticated DELETE that is not scoped to a user.
func (s *SynapseSession) Delete(ctx context.Context, path string, params Params) (Record, error) {
	return s.Execute(ctx, NewApiRequest(http.MethodDelete, path).WithPayload(params))
}

// NewHTTPRequest builds the outgoing *http.Request of an ApiRequest without sending it.
// Headers are final; the body, if any, is the JSON encoding of the payload.
func (s *SynapseSession) NewHTTPRequest(ctx context.Context, req *ApiRequest) (*http.Request, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	url, err := req.ResolveURL(s.config.ApiBase())
	if err != nil {
		return nil, err
	}
	var body io.Reader
	if req.HasBody() {
		if body, err = req.Payload.ToBody(); err != nil {
			return nil, fmt.Errorf("failed to encode %s %s payload: %w", req.Method, req.Path, err)
		}
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, url, body)
	if err != nil {
		return nil, err
	}
	httpReq.Header = BuildHeaders(HeaderInput{
		Credentials:    s.config.Credentials(),
		UserAgent:      s.config.UserAgent,
		ClientIP:       s.config.ClientIP,
		Session:        req.Session,
		Fingerprint:    req.Fingerprint,
		IdempotencyKey: req.IdempotencyKey,
		Anonymous:      req.Anonymous,
		HasBody:        req.HasBody(),
	})
	return httpReq, nil
}

// Execute performs exactly one round trip for req and returns the normalized response body.
//
// Non-success statuses come back as *ClientError, connectivity failures and exhausted
// transport budgets as *TransportError. No call is ever retried.
func (s *SynapseSession) Execute(ctx context.Context, req *ApiRequest) (Record, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if req == nil {
		return nil, fmt.Errorf("request must not be nil")
	}
	req.Method = strings.ToUpper(req.Method)

	if err := s.checkRoute(req); err != nil {
		return nil, err
	}
	httpReq, err := s.NewHTTPRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	verb, url := httpReq.Method, httpReq.URL.String()

	var interceptorBody io.Reader
	if req.HasBody() {
		if interceptorBody, err = req.Payload.ToBody(); err != nil {
			return nil, err
		}
	}
	if err = s.doBeforeRequest(ctx, httpReq, verb, url, interceptorBody); err != nil {
		return nil, err
	}

	response, err := s.client.Do(httpReq)
	if err != nil {
		s.logger.Warn("http request failed", zap.String("method", verb), zap.String("url", url), zap.Error(err))
		return nil, &TransportError{Method: verb, URL: url, Err: err}
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, &TransportError{Method: verb, URL: url, Err: err}
	}

	result, err := s.decodeResponse(response.StatusCode, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode response of %s %s: %w", verb, url, err)
	}
	if err = Classify(response.StatusCode, result); err != nil {
		clientErr := err.(*ClientError)
		clientErr.Method, clientErr.URL = verb, url
		s.logger.Info(
			"http request rejected",
			zap.String("method", verb),
			zap.String("url", url),
			zap.Int("status", clientErr.StatusCode),
			zap.Stringer("kind", clientErr.Kind),
			zap.String("error_code", clientErr.Code),
		)
		return nil, clientErr
	}
	return s.doAfterRequest(ctx, verb, url, response.StatusCode, result)
}

// decodeResponse normalizes a response body. Error bodies that are not JSON are kept
// under RawKey so that the caller still sees what the server said.
func (s *SynapseSession) decodeResponse(status int, raw []byte) (Record, error) {
	result, err := decodeBody(raw)
	if err == nil {
		return result, nil
	}
	if _, failed := KindForStatus(status); failed {
		return Record{RawKey: string(bytes.TrimSpace(raw))}, nil
	}
	return nil, err
}

// checkRoute enforces StrictRoutes for relative, authenticated requests.
func (s *SynapseSession) checkRoute(req *ApiRequest) error {
	if !s.config.StrictRoutes || req.Anonymous || strings.Contains(req.Path, "://") {
		return nil
	}
	if err := openapi_schema.ValidateOperationExists(req.Method, req.Path); err != nil {
		return fmt.Errorf("%w: %v", ErrUnknownRoute, err)
	}
	return nil
}
