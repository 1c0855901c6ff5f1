package psn

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/jamesprial/go-psn-api-wrapper/internal"
	psnerrors "github.com/jamesprial/go-psn-api-wrapper/pkg/errors"
	"github.com/jamesprial/go-psn-api-wrapper/pkg/types"
)

// MaxTitleStatsPageSize is the upstream per-page maximum of the games list.
const MaxTitleStatsPageSize = 500

// statsCategories limits the games list to the console generations that
// actually report play time.
const statsCategories = "ps4_game,ps5_native_game"

type titleStatsEnvelope struct {
	Titles         []types.TitleStats `json:"titles"`
	NextOffset     int                `json:"nextOffset"`
	TotalItemCount int                `json:"totalItemCount"`
}

// TitleStatsOptions caps and pages a play-time statistics listing.
type TitleStatsOptions struct {
	TotalLimit *int
	PageSize   int
	Offset     int
}

func newTitleStatsIterator(c *Client, accountID string, opts *TitleStatsOptions) *Iterator[types.TitleStats] {
	if opts == nil {
		opts = &TitleStatsOptions{}
	}

	rawURL := c.endpoints.GamesList + fmt.Sprintf(internal.PathUserGameData, accountID)
	fetch := func(ctx context.Context, args *PageArgs) (Page[types.TitleStats], error) {
		query := url.Values{}
		query.Set("categories", statsCategories)
		query.Set("limit", strconv.Itoa(args.RequestedPageSize()))
		query.Set("offset", strconv.Itoa(args.Offset))

		var envelope titleStatsEnvelope
		err := c.gateway.GetJSON(ctx, rawURL, &internal.RequestOptions{Query: query}, &envelope)
		if err != nil {
			if psnerrors.HasKind(err, psnerrors.KindForbidden) {
				return Page[types.TitleStats]{}, psnerrors.Wrap(psnerrors.KindForbidden,
					fmt.Sprintf("game list of account %s is not visible to you", accountID), err)
			}
			return Page[types.TitleStats]{}, err
		}
		return Page[types.TitleStats]{
			Items:          envelope.Titles,
			NextOffset:     envelope.NextOffset,
			HasNext:        envelope.NextOffset > 0,
			TotalItemCount: envelope.TotalItemCount,
		}, nil
	}

	return NewIterator(fetch, IteratorOptions{
		TotalLimit:  opts.TotalLimit,
		PageSize:    opts.PageSize,
		MaxPageSize: MaxTitleStatsPageSize,
		Offset:      opts.Offset,
	})
}
