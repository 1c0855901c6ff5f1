package psn

import (
	"context"
	"net/url"
	"strconv"

	"github.com/jamesprial/go-psn-api-wrapper/internal"
	"github.com/jamesprial/go-psn-api-wrapper/pkg/types"
)

// MaxEntitlementPageSize is the upstream per-page maximum of the
// entitlements listing.
const MaxEntitlementPageSize = 250

// entitlementsEnvelope is the owned-games response. Unlike the other
// offset-paginated resources it reports no next offset; exhaustion is
// derived from totalResults.
type entitlementsEnvelope struct {
	Entitlements []types.Entitlement `json:"entitlements"`
	TotalResults int                 `json:"totalResults"`
}

// EntitlementOptions caps and pages the owned-games listing.
type EntitlementOptions struct {
	TotalLimit *int
	PageSize   int
	Offset     int
}

func newEntitlementIterator(c *Client, opts *EntitlementOptions) *Iterator[types.Entitlement] {
	if opts == nil {
		opts = &EntitlementOptions{}
	}

	rawURL := c.endpoints.Entitlements + internal.PathEntitlements
	fetch := func(ctx context.Context, args *PageArgs) (Page[types.Entitlement], error) {
		query := url.Values{}
		query.Set("limit", strconv.Itoa(args.RequestedPageSize()))
		query.Set("offset", strconv.Itoa(args.Offset))

		var envelope entitlementsEnvelope
		if err := c.gateway.GetJSON(ctx, rawURL, &internal.RequestOptions{Query: query}, &envelope); err != nil {
			return Page[types.Entitlement]{}, err
		}
		return Page[types.Entitlement]{
			Items:          envelope.Entitlements,
			HasNext:        args.Offset+len(envelope.Entitlements) < envelope.TotalResults,
			TotalItemCount: envelope.TotalResults,
		}, nil
	}

	return NewIterator(fetch, IteratorOptions{
		TotalLimit:  opts.TotalLimit,
		PageSize:    opts.PageSize,
		MaxPageSize: MaxEntitlementPageSize,
		Offset:      opts.Offset,
	})
}
