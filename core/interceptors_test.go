package core

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRedact(t *testing.T) {
	in := Record{
		"type": "ACH-US",
		"info": Record{
			"bank_id":     "synapse_good",
			"bank_pw":     "test1234",
			"account_num": "123567443",
			"nickname":    "Fake Account",
		},
		"documents": []any{Record{"document_value": "2222", "document_type": "SSN"}},
		"Password":  "x",
	}
	out := Redact(in).(Record)
	info := out["info"].(Record)
	if info["bank_pw"] != redactedValue || info["account_num"] != redactedValue {
		t.Errorf("secrets leaked: %v", info)
	}
	if info["bank_id"] != "synapse_good" || info["nickname"] != "Fake Account" {
		t.Errorf("non secret fields changed: %v", info)
	}
	if out.GetString("documents", 0, "document_value") != redactedValue {
		t.Errorf("nested secret leaked: %v", out["documents"])
	}
	if out["Password"] != redactedValue {
		t.Error("key matching must be case insensitive")
	}
	if in.GetString("info", "bank_pw") != "test1234" {
		t.Error("Redact must not mutate its input")
	}
}

func TestRequestLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	session, _ := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"nodes": []any{map[string]any{"_id": "n1"}}})
	}, func(c *SynapseConfig) { c.Logger = zap.New(core) })

	sc := NewSessionContext("ok1", "")
	_, err := session.Execute(context.Background(), NewApiRequest(http.MethodPost, "/users/u1/nodes").
		WithSession(sc).
		WithPayload(Params{"type": "ACH-US", "info": Params{"bank_id": "synapse_good", "bank_pw": "test1234"}}))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	start := logs.FilterMessage("http request start").All()
	if len(start) != 1 {
		t.Fatalf("expected one request log, got %d", len(start))
	}
	body, _ := start[0].ContextMap()["body"].(string)
	if strings.Contains(body, "test1234") || !strings.Contains(body, "synapse_good") {
		t.Errorf("request body not redacted: %s", body)
	}

	responses := logs.FilterMessage("http response").All()
	if len(responses) != 1 {
		t.Fatalf("expected one response log, got %d", len(responses))
	}
	if summary := responses[0].ContextMap()["summary"]; summary != "Record with 1 nodes" {
		t.Errorf("summary = %v", summary)
	}
}

func TestRequestLogging_InfoLevelOmitsBodies(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	session, _ := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"_id": "u1"})
	}, func(c *SynapseConfig) { c.Logger = zap.New(core) })

	_, err := session.Post(context.Background(), "/users", Params{"logins": []any{Params{"email": "a@b.c", "password": "p"}}})
	if err != nil {
		t.Fatalf("Post() error = %v", err)
	}
	for _, entry := range logs.All() {
		if _, ok := entry.ContextMap()["body"]; ok {
			t.Errorf("info level must not log bodies: %v", entry.ContextMap())
		}
	}
	if logs.FilterMessage("http response").All()[0].ContextMap()["summary"] != "Record u1" {
		t.Errorf("unexpected summary")
	}
}

func TestRequestLogging_Rejected(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	session, _ := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]any{"error_code": "400", "error": map[string]any{"en": "Idempotency key already used"}})
	}, func(c *SynapseConfig) { c.Logger = zap.New(core) })

	_, err := session.Post(context.Background(), "/users", Params{})
	if !ExpectKinds(err, KindConflict) {
		t.Fatalf("expected Conflict, got %v", err)
	}
	rejected := logs.FilterMessage("http request rejected").All()
	if len(rejected) != 1 || rejected[0].ContextMap()["kind"] != "Conflict" {
		t.Errorf("rejected log = %v", rejected)
	}
}
