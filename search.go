package psn

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/jamesprial/go-psn-api-wrapper/internal"
	psnerrors "github.com/jamesprial/go-psn-api-wrapper/pkg/errors"
	"github.com/jamesprial/go-psn-api-wrapper/pkg/types"
)

// DefaultSearchPageSize matches the page size the mobile app requests.
const DefaultSearchPageSize = 20

// Persisted-query hashes of the mobile app's search operations. The first
// page goes through the context search, every later page through the
// domain search with the cursor from the previous response.
const (
	contextSearchOperation = "metGetContextSearchResults"
	contextSearchHash      = "a2fbc15433b37ca7bfcd7112f741735e13268f5e9ebd5ffce51b85acc126f41d"
	domainSearchOperation  = "metGetDomainSearchResults"
	domainSearchHash       = "b51624299bd17b3799f77c9f097cc8887a04d3873f0329095976a841595bc902"
)

var searchHeaders = map[string]string{
	"apollographql-client-name":    "PlayStationApp-Android",
	"apollographql-client-version": "25.4.0",
}

func searchContextName(domain types.SearchDomain) string {
	if domain == types.SearchDomainUsers {
		return "MobileUniversalSearchSocial"
	}
	return "MobileUniversalSearchGame"
}

// SearchOptions caps and pages a universal search.
type SearchOptions struct {
	// TotalLimit caps the results yielded in total. Nil drains the search.
	TotalLimit *int
	// PageSize per fetch. Defaults to DefaultSearchPageSize.
	PageSize int
}

// GameSearchIterator iterates game or add-on search hits.
type GameSearchIterator = Iterator[types.GameSearchResult]

// UserSearchIterator iterates account search hits.
type UserSearchIterator = Iterator[types.UserSearchResult]

// domainResults is the per-domain bucket shared by both search operations.
type domainResults struct {
	Domain           string            `json:"domain"`
	Next             string            `json:"next"`
	SearchResults    []json.RawMessage `json:"searchResults"`
	TotalResultCount int               `json:"totalResultCount"`
}

type contextSearchEnvelope struct {
	Data struct {
		UniversalContextSearch struct {
			Results []domainResults `json:"results"`
		} `json:"universalContextSearch"`
	} `json:"data"`
}

type domainSearchEnvelope struct {
	Data struct {
		UniversalDomainSearch domainResults `json:"universalDomainSearch"`
	} `json:"data"`
}

// searchPage runs one search round trip and returns the bucket for the
// requested domain. An empty cursor means this is the first page.
func searchPage(ctx context.Context, c *Client, query string, domain types.SearchDomain, args *PageArgs) (*domainResults, error) {
	variables := map[string]any{
		"searchTerm": query,
	}
	operation := domainSearchOperation
	hash := domainSearchHash
	if args.Cursor == "" && args.Offset == 0 {
		operation = contextSearchOperation
		hash = contextSearchHash
		variables["searchContext"] = searchContextName(domain)
		variables["displayTitleLocale"] = "en-US"
	} else {
		variables["searchDomain"] = domain.String()
		variables["pageSize"] = args.RequestedPageSize()
		variables["pageOffset"] = args.Offset
		variables["nextCursor"] = args.Cursor
	}

	variablesJSON, err := json.Marshal(variables)
	if err != nil {
		return nil, psnerrors.Wrap(psnerrors.KindInvalidArgument, "failed to encode search variables", err)
	}
	extensionsJSON, err := json.Marshal(map[string]any{
		"persistedQuery": map[string]any{"version": 1, "sha256Hash": hash},
	})
	if err != nil {
		return nil, psnerrors.Wrap(psnerrors.KindInvalidArgument, "failed to encode search extensions", err)
	}

	q := url.Values{}
	q.Set("operationName", operation)
	q.Set("variables", string(variablesJSON))
	q.Set("extensions", string(extensionsJSON))
	opts := &internal.RequestOptions{Headers: searchHeaders, Query: q}

	if operation == contextSearchOperation {
		var envelope contextSearchEnvelope
		if err := c.gateway.GetJSON(ctx, c.endpoints.GraphQL, opts, &envelope); err != nil {
			return nil, err
		}
		for i := range envelope.Data.UniversalContextSearch.Results {
			bucket := &envelope.Data.UniversalContextSearch.Results[i]
			if bucket.Domain == domain.String() {
				return bucket, nil
			}
		}
		// The context search omits domains with no hits at all.
		return &domainResults{Domain: domain.String()}, nil
	}

	var envelope domainSearchEnvelope
	if err := c.gateway.GetJSON(ctx, c.endpoints.GraphQL, opts, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data.UniversalDomainSearch, nil
}

func validateSearch(query string, opts *SearchOptions) (*SearchOptions, error) {
	if strings.TrimSpace(query) == "" {
		return nil, psnerrors.InvalidArgument("search query cannot be empty")
	}
	if opts == nil {
		opts = &SearchOptions{}
	}
	return opts, nil
}

func newGameSearchIterator(c *Client, query string, domain types.SearchDomain, opts *SearchOptions) (*GameSearchIterator, error) {
	if domain == types.SearchDomainUsers {
		return nil, psnerrors.InvalidArgument("use SearchUsers for the account domain")
	}
	opts, err := validateSearch(query, opts)
	if err != nil {
		return nil, err
	}

	fetch := func(ctx context.Context, args *PageArgs) (Page[types.GameSearchResult], error) {
		bucket, err := searchPage(ctx, c, query, domain, args)
		if err != nil {
			return Page[types.GameSearchResult]{}, err
		}

		items := make([]types.GameSearchResult, 0, len(bucket.SearchResults))
		for _, raw := range bucket.SearchResults {
			var item types.GameSearchResult
			if err := json.Unmarshal(raw, &item); err != nil {
				return Page[types.GameSearchResult]{}, psnerrors.Wrap(psnerrors.KindClientError,
					"failed to decode search result", err)
			}
			items = append(items, item)
		}
		return Page[types.GameSearchResult]{
			Items:          items,
			NextCursor:     bucket.Next,
			HasNext:        bucket.Next != "",
			TotalItemCount: bucket.TotalResultCount,
		}, nil
	}

	return NewIterator(fetch, IteratorOptions{
		TotalLimit:  opts.TotalLimit,
		PageSize:    opts.PageSize,
		MaxPageSize: DefaultSearchPageSize,
	}), nil
}

// userSearchHit is one social-domain search result; the account payload is
// nested one level down.
type userSearchHit struct {
	ID     string                 `json:"id"`
	Result types.UserSearchResult `json:"result"`
}

func newUserSearchIterator(c *Client, query string, opts *SearchOptions) (*UserSearchIterator, error) {
	opts, err := validateSearch(query, opts)
	if err != nil {
		return nil, err
	}

	fetch := func(ctx context.Context, args *PageArgs) (Page[types.UserSearchResult], error) {
		bucket, err := searchPage(ctx, c, query, types.SearchDomainUsers, args)
		if err != nil {
			return Page[types.UserSearchResult]{}, err
		}

		items := make([]types.UserSearchResult, 0, len(bucket.SearchResults))
		for _, raw := range bucket.SearchResults {
			var hit userSearchHit
			if err := json.Unmarshal(raw, &hit); err != nil {
				return Page[types.UserSearchResult]{}, psnerrors.Wrap(psnerrors.KindClientError,
					"failed to decode account search result", err)
			}
			if hit.Result.ID == "" {
				hit.Result.ID = hit.ID
			}
			items = append(items, hit.Result)
		}
		return Page[types.UserSearchResult]{
			Items:          items,
			NextCursor:     bucket.Next,
			HasNext:        bucket.Next != "",
			TotalItemCount: bucket.TotalResultCount,
		}, nil
	}

	return NewIterator(fetch, IteratorOptions{
		TotalLimit:  opts.TotalLimit,
		PageSize:    opts.PageSize,
		MaxPageSize: DefaultSearchPageSize,
	}), nil
}
