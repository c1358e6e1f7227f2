package core

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"testing"
)

// pagedUsers serves `total` users split into pages of `perPage`.
func pagedUsers(t *testing.T, total, perPage int, pageCountAsString bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page == 0 {
			page = 1
		}
		if got := r.URL.Query().Get("per_page"); got != strconv.Itoa(perPage) {
			t.Errorf("per_page = %q, want %d", got, perPage)
		}
		pageCount := (total + perPage - 1) / perPage
		var users []any
		for i := (page - 1) * perPage; i < page*perPage && i < total; i++ {
			users = append(users, map[string]any{"_id": fmt.Sprintf("u%d", i)})
		}
		var count any = pageCount
		if pageCountAsString {
			count = strconv.Itoa(pageCount)
		}
		writeJSON(w, http.StatusOK, map[string]any{"page": page, "page_count": count, "users": users})
	}
}

func TestListOptions_Values(t *testing.T) {
	values, err := (&ListOptions{Page: 2, PerPage: 20, Query: "john"}).Values()
	if err != nil {
		t.Fatalf("Values() error = %v", err)
	}
	if values.Encode() != "page=2&per_page=20&query=john" {
		t.Errorf("Values() = %s", values.Encode())
	}
	values, _ = (&ListOptions{}).Values()
	if len(values) != 0 {
		t.Errorf("zero options must encode to nothing, got %v", values)
	}
	var nilOpts *ListOptions
	if values, err = nilOpts.Values(); err != nil || len(values) != 0 {
		t.Errorf("nil options = %v, %v", values, err)
	}
}

func TestPageIterator_WalksAllPages(t *testing.T) {
	session, _ := newTestSession(t, pagedUsers(t, 5, 2, false))
	it := NewPageIterator(context.Background(), session, NewApiRequest(http.MethodGet, "/users"), "users", &ListOptions{PerPage: 2})

	if it.Count() != -1 {
		t.Errorf("Count before first page = %d", it.Count())
	}
	first, err := it.Next()
	if err != nil || len(first) != 2 {
		t.Fatalf("first page = %v, %v", first, err)
	}
	if it.Count() != 3 {
		t.Errorf("Count = %d", it.Count())
	}
	rest, err := it.All()
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(rest) != 3 || rest[2].RecordID() != "u4" {
		t.Errorf("remaining records = %v", rest)
	}
	if it.HasNext() {
		t.Error("iterator must be exhausted")
	}
	if page, err := it.Next(); err != nil || len(page) != 0 {
		t.Errorf("Next after end = %v, %v", page, err)
	}
}

func TestPageIterator_Records(t *testing.T) {
	session, _ := newTestSession(t, pagedUsers(t, 3, 1, true))
	it := NewPageIterator(context.Background(), session, NewApiRequest(http.MethodGet, "/users"), "users", &ListOptions{PerPage: 1})

	var ids []string
	for record, err := range it.Records() {
		if err != nil {
			t.Fatalf("Records() error = %v", err)
		}
		ids = append(ids, record.RecordID())
	}
	if fmt.Sprint(ids) != "[u0 u1 u2]" {
		t.Errorf("ids = %v", ids)
	}
}

func TestPageIterator_StopsEarly(t *testing.T) {
	session, _ := newTestSession(t, pagedUsers(t, 10, 2, false))
	it := NewPageIterator(context.Background(), session, NewApiRequest(http.MethodGet, "/users"), "users", &ListOptions{PerPage: 2})
	count := 0
	for range it.Records() {
		count++
		if count == 3 {
			break
		}
	}
	if count != 3 {
		t.Errorf("count = %d", count)
	}
}

func TestPageIterator_Error(t *testing.T) {
	session, _ := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": map[string]any{"en": "oauth expired"}})
	})
	it := NewPageIterator(context.Background(), session, NewApiRequest(http.MethodGet, "/users"), "users", nil)
	for record, err := range it.Records() {
		if record != nil {
			t.Errorf("unexpected record %v", record)
		}
		if !ExpectKinds(err, KindUnauthorized) {
			t.Errorf("expected Unauthorized, got %v", err)
		}
	}
}

func TestPageIterator_WithoutPageCount(t *testing.T) {
	session, _ := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"subscriptions": []any{map[string]any{"_id": "s1"}}})
	})
	it := NewPageIterator(context.Background(), session, NewApiRequest(http.MethodGet, "/subscriptions"), "subscriptions", nil)
	all, err := it.All()
	if err != nil || len(all) != 1 {
		t.Fatalf("All() = %v, %v", all, err)
	}
}
