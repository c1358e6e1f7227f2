package core

import (
	"encoding/json"
	"io"
	"net/url"
	"reflect"
	"strings"
	"testing"
)

func expectQueryValue(t *testing.T, values url.Values, key string, want string) {
	t.Helper()
	vals, ok := values[key]
	if !ok || len(vals) == 0 {
		t.Fatalf("key %q missing in query: %v", key, values)
	}
	if vals[0] != want {
		t.Fatalf("value for %q = %q, want %q", key, vals[0], want)
	}
}

func TestParams_ToQuery(t *testing.T) {
	values := Params{
		"page":     2,
		"per_page": 20.0,
		"query":    "john",
		"scope":    []string{"USERS|POST", "NODES|PATCH"},
		"amounts":  []float64{1.5, 2},
		"active":   true,
		"filter":   map[string]any{"type": "ACH-US"},
		"skipped":  nil,
	}.ToQuery()

	expectQueryValue(t, values, "page", "2")
	expectQueryValue(t, values, "per_page", "20")
	expectQueryValue(t, values, "query", "john")
	expectQueryValue(t, values, "scope", "USERS|POST,NODES|PATCH")
	expectQueryValue(t, values, "amounts", "1.5,2")
	expectQueryValue(t, values, "active", "true")
	expectQueryValue(t, values, "filter", `{"type":"ACH-US"}`)
	if _, ok := values["skipped"]; ok {
		t.Error("nil values must be left out of the query")
	}
}

func TestParams_ToBody(t *testing.T) {
	body, err := Params{"refresh_token": "r1"}.ToBody()
	if err != nil {
		t.Fatalf("ToBody() error = %v", err)
	}
	data, _ := io.ReadAll(body)
	if string(data) != `{"refresh_token":"r1"}` {
		t.Errorf("ToBody() = %s", data)
	}
}

func TestParams_UpdateWithoutSetIf(t *testing.T) {
	p := Params{"a": 1, "b": 2}
	p.Update(Params{"b": 3, "c": 4}, false)
	if p["b"] != 2 || p["c"] != 4 {
		t.Errorf("Update without override = %v", p)
	}
	p.Update(Params{"b": 3}, true)
	if p["b"] != 3 {
		t.Errorf("Update with override = %v", p)
	}
	p.Without("a", "c")
	if !reflect.DeepEqual(p, Params{"b": 3}) {
		t.Errorf("Without = %v", p)
	}

	p = Params{}
	p.SetIf("supp_id", "")
	p.SetIf("fees", []any{})
	p.SetIf("extra", map[string]any{})
	p.SetIf("nil", nil)
	p.SetIf("nickname", "Checking")
	if !reflect.DeepEqual(p, Params{"nickname": "Checking"}) {
		t.Errorf("SetIf kept empty values: %v", p)
	}
}

func TestRecord_Get(t *testing.T) {
	r := NormalizeRecord(map[string]any{
		"nodes": []any{
			map[string]any{"_id": "n1", "info": map[string]any{"balance": map[string]any{"amount": 12.5}}},
		},
		"page_count": 3.0,
	})
	if v, ok := r.Get("nodes", 0, "_id"); !ok || v != "n1" {
		t.Errorf("Get(nodes,0,_id) = %v, %v", v, ok)
	}
	if got := r.GetString("nodes", 0, "info", "balance", "amount"); got != "12.5" {
		t.Errorf("GetString(amount) = %q", got)
	}
	if got := r.GetString("page_count"); got != "3" {
		t.Errorf("GetString(page_count) = %q", got)
	}
	if _, ok := r.Get("nodes", 5); ok {
		t.Error("out of range index must not resolve")
	}
	if _, ok := r.Get("page_count", "x"); ok {
		t.Error("indexing a scalar must not resolve")
	}
	if rs := r.GetRecordSet("nodes"); len(rs) != 1 || rs[0].RecordID() != "n1" {
		t.Errorf("GetRecordSet = %v", rs)
	}
	if info, ok := r.GetRecord("nodes", 0, "info"); !ok || info.Empty() {
		t.Errorf("GetRecord = %v, %v", info, ok)
	}
}

func TestRecord_Success(t *testing.T) {
	if !(Record{"success": true}).Success() {
		t.Error("expected success")
	}
	if (Record{"success": "true"}).Success() || (Record{}).Success() {
		t.Error("only a boolean true counts as success")
	}
}

func TestRecord_PrettyTable(t *testing.T) {
	r := Record{"_id": "u1", "permission": "UNVERIFIED", "extra": Record{"supp_id": "122eddfgbeafrfvbbb"}}
	out := r.PrettyTable()
	for _, want := range []string{"_id", "u1", "permission", "<<remaining attrs>>", "supp_id"} {
		if !strings.Contains(out, want) {
			t.Errorf("PrettyTable() missing %q:\n%s", want, out)
		}
	}
	if (Record{}).PrettyTable() != "<>" {
		t.Error("empty record renders as <>")
	}
	if (RecordSet{}).PrettyTable() != "[]" {
		t.Error("empty record set renders as []")
	}
}

func TestRecord_PrettyJson(t *testing.T) {
	r := Record{"oauth_key": "ok1"}
	if r.PrettyJson() != `{"oauth_key":"ok1"}` {
		t.Errorf("PrettyJson() = %s", r.PrettyJson())
	}
	indented := RecordSet{r}.PrettyJson("  ")
	var back []map[string]any
	if err := json.Unmarshal([]byte(indented), &back); err != nil || back[0]["oauth_key"] != "ok1" {
		t.Errorf("indented json does not round trip: %s", indented)
	}
}

func TestDecodeBody(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    Record
		wantErr bool
	}{
		{"empty", "", Record{}, false},
		{"whitespace", "  \n", Record{}, false},
		{"object", `{"_id":"u1","logins":[{"email":"a@b.c"}]}`, Record{"_id": "u1", "logins": []any{Record{"email": "a@b.c"}}}, false},
		{"array", `[1,2]`, Record{RawKey: []any{1.0, 2.0}}, false},
		{"not json", `<html>`, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeBody([]byte(tt.body))
			if (err != nil) != tt.wantErr {
				t.Fatalf("decodeBody() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("decodeBody() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestRecordSet_Fill(t *testing.T) {
	type node struct {
		ID      string `json:"_id"`
		Type    string `json:"type"`
		Allowed string `json:"allowed"`
	}
	rs := RecordSet{
		{"_id": "n1", "type": "ACH-US", "allowed": "CREDIT-AND-DEBIT"},
		{"_id": "n2", "type": "SYNAPSE-US"},
	}
	var nodes []node
	if err := rs.Fill(&nodes); err != nil {
		t.Fatalf("Fill() error = %v", err)
	}
	if len(nodes) != 2 || nodes[0].Allowed != "CREDIT-AND-DEBIT" || nodes[1].ID != "n2" {
		t.Errorf("Fill() = %+v", nodes)
	}

	var ptrs []*node
	if err := rs.Fill(&ptrs); err != nil || len(ptrs) != 2 {
		t.Fatalf("Fill(pointers) = %v, %v", ptrs, err)
	}
	if err := rs.Fill(nodes); err == nil {
		t.Error("Fill requires a pointer")
	}
}
