package core

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// redactedKeys never reach the logs in clear text, at any nesting depth.
var redactedKeys = map[string]struct{}{
	"bank_pw":        empty,
	"password":       empty,
	"document_value": empty,
	"refresh_token":  empty,
	"account_num":    empty,
	"routing_num":    empty,
	"oauth_key":      empty,
	"access_token":   empty,
	"mfa_answer":     empty,
	"client_secret":  empty,
}

const redactedValue = "<redacted>"

// ######################################################
//
//	REQUEST/RESPONSE INTERCEPTORS
//
// ######################################################

// doBeforeRequest logs the outgoing call and runs the user BeforeRequestFn, which may abort it.
func (s *SynapseSession) doBeforeRequest(ctx context.Context, r *http.Request, verb, url string, body io.Reader) error {
	var hookBody io.Reader
	if body != nil {
		data, err := io.ReadAll(body)
		if err != nil {
			return err
		}
		s.beforeRequestLog(verb, url, data)
		hookBody = bytes.NewReader(data)
	} else {
		s.beforeRequestLog(verb, url, nil)
	}
	if s.config.BeforeRequestFn != nil {
		return s.config.BeforeRequestFn(ctx, r, verb, url, hookBody)
	}
	return nil
}

// doAfterRequest logs the normalized response and runs the user AfterRequestFn, which may replace it.
func (s *SynapseSession) doAfterRequest(ctx context.Context, verb, url string, status int, response Record) (Record, error) {
	s.afterRequestLog(verb, url, status, response)
	if s.config.AfterRequestFn == nil {
		return response, nil
	}
	mutated, err := s.config.AfterRequestFn(ctx, response)
	if err != nil {
		return nil, err
	}
	if mutated == nil {
		mutated = Record{}
	}
	return mutated, nil
}

// ######################################################
//
//	REQUEST/RESPONSE LOGGING
//
// ######################################################

// beforeRequestLog logs method and URL at info level and the redacted body at debug level.
func (s *SynapseSession) beforeRequestLog(verb, url string, body []byte) {
	fields := []zap.Field{zap.String("method", verb), zap.String("url", url)}
	if ce := s.logger.Check(zap.DebugLevel, "http request start"); ce != nil {
		if redacted := redactJSON(body); redacted != "" {
			fields = append(fields, zap.String("body", redacted))
		}
		ce.Write(fields...)
		return
	}
	s.logger.Info("http request start", fields...)
}

// afterRequestLog logs a summary at info level and the full redacted body at debug level.
func (s *SynapseSession) afterRequestLog(verb, url string, status int, response Record) {
	fields := []zap.Field{
		zap.String("method", verb),
		zap.String("url", url),
		zap.Int("status", status),
		zap.String("summary", summarize(response)),
	}
	if ce := s.logger.Check(zap.DebugLevel, "http response"); ce != nil {
		body, _ := json.Marshal(Redact(response))
		ce.Write(append(fields, zap.ByteString("body", body))...)
		return
	}
	s.logger.Info("http response", fields...)
}

// summarize describes a response without its content, e.g. "Record with 3 nodes".
func summarize(response Record) string {
	for _, key := range []string{"users", "nodes", "trans", "subscriptions", "banks"} {
		if items, ok := response[key].([]any); ok {
			return "Record with " + strconv.Itoa(len(items)) + " " + key
		}
	}
	if id := response.RecordID(); id != "" {
		return "Record " + id
	}
	if len(response) == 0 {
		return "empty Record"
	}
	return "Record received"
}

// Redact returns a copy of value with every secret field masked.
func Redact(value any) any {
	switch v := value.(type) {
	case Record:
		out := make(Record, len(v))
		for key, item := range v {
			if _, secret := redactedKeys[strings.ToLower(key)]; secret && item != nil {
				out[key] = redactedValue
				continue
			}
			out[key] = Redact(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = Redact(item)
		}
		return out
	default:
		return v
	}
}

// redactJSON re-encodes a JSON body with secret fields masked. Bodies that are not JSON are
// dropped from the log rather than risk leaking them.
func redactJSON(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	var decoded any
	if err := json.Unmarshal(trimmed, &decoded); err != nil {
		return "<non-json body>"
	}
	out, err := json.Marshal(Redact(Normalize(decoded)))
	if err != nil {
		return "<unencodable body>"
	}
	return string(out)
}
