package core

import (
	"context"
	"fmt"
	"iter"
	"net/url"

	"github.com/google/go-querystring/query"
)

// ######################################################
//              LIST OPTIONS
// ######################################################

// ListOptions selects one page of a list endpoint. Zero values are left out of the query.
type ListOptions struct {
	Page    int    `url:"page,omitempty"`
	PerPage int    `url:"per_page,omitempty"`
	Query   string `url:"query,omitempty"`
}

// Values encodes the options as query values. A nil receiver encodes to no values.
func (o *ListOptions) Values() (url.Values, error) {
	if o == nil {
		return url.Values{}, nil
	}
	return query.Values(o)
}

func (o *ListOptions) startPage() int {
	if o == nil || o.Page < 1 {
		return 1
	}
	return o.Page
}

// ######################################################
//              ITERATOR INTERFACES
// ######################################################

// Iterator walks the pages of a list endpoint.
type Iterator interface {
	// Next fetches the next page. It returns an empty RecordSet when there are no more pages.
	Next() (RecordSet, error)

	// HasNext returns true if another page may be fetched.
	HasNext() bool

	// Count returns the page count reported by the API, or -1 before the first page.
	Count() int

	// All fetches all remaining pages and returns all records as a single RecordSet.
	All() (RecordSet, error)
}

// ######################################################
//              PAGE ITERATOR IMPLEMENTATION
// ######################################################

// PageIterator pages through a list endpoint that answers with `page`, `page_count`
// and the items under a resource key (`users`, `nodes`, `trans`, `subscriptions`).
type PageIterator struct {
	session  RESTSession
	ctx      context.Context
	base     ApiRequest
	itemsKey string
	options  ListOptions

	current     RecordSet
	currentPage int
	pageCount   int
	done        bool
}

// NewPageIterator creates an iterator over base, a GET request without pagination values.
func NewPageIterator(ctx context.Context, session RESTSession, base *ApiRequest, itemsKey string, opts *ListOptions) *PageIterator {
	if ctx == nil {
		ctx = context.Background()
	}
	it := &PageIterator{
		session:   session,
		ctx:       ctx,
		base:      *base,
		itemsKey:  itemsKey,
		pageCount: -1,
	}
	if opts != nil {
		it.options = *opts
	}
	return it
}

// FetchPage performs a single list call and returns the full response Record.
func FetchPage(ctx context.Context, session RESTSession, base *ApiRequest, opts *ListOptions) (Record, error) {
	values, err := opts.Values()
	if err != nil {
		return nil, fmt.Errorf("failed to encode list options: %w", err)
	}
	req := *base
	req.Query = nil
	req.WithQuery(base.Query).WithQuery(values)
	return session.Execute(ctx, &req)
}

func (it *PageIterator) fetch(page int) (RecordSet, error) {
	opts := it.options
	opts.Page = page
	response, err := FetchPage(it.ctx, it.session, &it.base, &opts)
	if err != nil {
		return nil, err
	}
	it.current = response.GetRecordSet(it.itemsKey)
	if it.current == nil {
		it.current = RecordSet{}
	}
	it.currentPage = page
	if count, ok := pageNumber(response, "page_count"); ok {
		it.pageCount = count
	} else {
		// without page_count there is no way to know about further pages
		it.pageCount = page
	}
	if len(it.current) == 0 || it.currentPage >= it.pageCount {
		it.done = true
	}
	return it.current, nil
}

func (it *PageIterator) Next() (RecordSet, error) {
	if !it.HasNext() {
		return RecordSet{}, nil
	}
	page := it.options.startPage()
	if it.currentPage > 0 {
		page = it.currentPage + 1
	}
	return it.fetch(page)
}

func (it *PageIterator) HasNext() bool {
	return !it.done
}

func (it *PageIterator) Count() int {
	return it.pageCount
}

func (it *PageIterator) All() (RecordSet, error) {
	var all RecordSet
	for it.HasNext() {
		page, err := it.Next()
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
	}
	if all == nil {
		all = RecordSet{}
	}
	return all, nil
}

// Records walks every record of every remaining page. Iteration stops at the first error,
// which is yielded with a nil Record.
func (it *PageIterator) Records() iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		for it.HasNext() {
			page, err := it.Next()
			if err != nil {
				yield(nil, err)
				return
			}
			for _, record := range page {
				if !yield(record, nil) {
					return
				}
			}
		}
	}
}

// pageNumber reads an integer pagination field that may arrive as a number or a string.
func pageNumber(r Record, key string) (int, bool) {
	var holder struct {
		Value *int `json:"value"`
	}
	v, ok := r[key]
	if !ok || v == nil {
		return 0, false
	}
	if err := LenientDecode(Record{"value": v}, &holder); err != nil || holder.Value == nil {
		return 0, false
	}
	return *holder.Value, true
}
