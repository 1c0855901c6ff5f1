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

// Upstream per-page maximums of the trophy service.
const (
	MaxTrophyTitlePageSize = 800
	MaxTrophyPageSize      = 400
)

// npServiceName selects the trophy backend generation. PS5 titles live on
// the "trophy2" service, everything older on "trophy".
func npServiceName(platform types.PlatformType) string {
	if platform == types.PlatformPS5 {
		return "trophy2"
	}
	return "trophy"
}

func fetchTrophySummary(ctx context.Context, c *Client, accountID string) (*types.TrophySummary, error) {
	rawURL := c.endpoints.Trophies + fmt.Sprintf(internal.PathTrophySummary, accountID)
	var summary types.TrophySummary
	if err := c.gateway.GetJSON(ctx, rawURL, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

type trophyTitlesEnvelope struct {
	TrophyTitles   []types.TrophyTitle `json:"trophyTitles"`
	NextOffset     int                 `json:"nextOffset"`
	TotalItemCount int                 `json:"totalItemCount"`
}

// TrophyTitleOptions caps and pages a trophy-title listing.
type TrophyTitleOptions struct {
	TotalLimit *int
	PageSize   int
	Offset     int
}

func newTrophyTitleIterator(c *Client, accountID string, opts *TrophyTitleOptions) *Iterator[types.TrophyTitle] {
	if opts == nil {
		opts = &TrophyTitleOptions{}
	}

	rawURL := c.endpoints.Trophies + fmt.Sprintf(internal.PathTrophyTitles, accountID)
	fetch := func(ctx context.Context, args *PageArgs) (Page[types.TrophyTitle], error) {
		query := url.Values{}
		query.Set("limit", strconv.Itoa(args.RequestedPageSize()))
		query.Set("offset", strconv.Itoa(args.Offset))

		var envelope trophyTitlesEnvelope
		if err := c.gateway.GetJSON(ctx, rawURL, &internal.RequestOptions{Query: query}, &envelope); err != nil {
			return Page[types.TrophyTitle]{}, err
		}
		return Page[types.TrophyTitle]{
			Items:          envelope.TrophyTitles,
			NextOffset:     envelope.NextOffset,
			HasNext:        envelope.NextOffset > 0,
			TotalItemCount: envelope.TotalItemCount,
		}, nil
	}

	return NewIterator(fetch, IteratorOptions{
		TotalLimit:  opts.TotalLimit,
		PageSize:    opts.PageSize,
		MaxPageSize: MaxTrophyTitlePageSize,
		Offset:      opts.Offset,
	})
}

type trophiesEnvelope struct {
	Trophies       []types.Trophy `json:"trophies"`
	NextOffset     int            `json:"nextOffset"`
	TotalItemCount int            `json:"totalItemCount"`
}

// TrophyOptions caps and pages a trophy listing within one title.
type TrophyOptions struct {
	TotalLimit *int
	PageSize   int
	Offset     int
	// TrophyGroupID selects a trophy group; "all" (the default) merges
	// the base game and every DLC group.
	TrophyGroupID string
}

func newTrophyIterator(c *Client, accountID, npCommunicationID string, platform types.PlatformType, opts *TrophyOptions) *Iterator[types.Trophy] {
	if opts == nil {
		opts = &TrophyOptions{}
	}
	groupID := opts.TrophyGroupID
	if groupID == "" {
		groupID = "all"
	}

	rawURL := c.endpoints.Trophies + fmt.Sprintf(internal.PathEarnedTrophies, accountID, npCommunicationID, groupID)
	service := npServiceName(platform)
	fetch := func(ctx context.Context, args *PageArgs) (Page[types.Trophy], error) {
		query := url.Values{}
		query.Set("limit", strconv.Itoa(args.RequestedPageSize()))
		query.Set("offset", strconv.Itoa(args.Offset))
		query.Set("npServiceName", service)

		var envelope trophiesEnvelope
		if err := c.gateway.GetJSON(ctx, rawURL, &internal.RequestOptions{Query: query}, &envelope); err != nil {
			return Page[types.Trophy]{}, err
		}
		return Page[types.Trophy]{
			Items:          envelope.Trophies,
			NextOffset:     envelope.NextOffset,
			HasNext:        envelope.NextOffset > 0,
			TotalItemCount: envelope.TotalItemCount,
		}, nil
	}

	return NewIterator(fetch, IteratorOptions{
		TotalLimit:  opts.TotalLimit,
		PageSize:    opts.PageSize,
		MaxPageSize: MaxTrophyPageSize,
		Offset:      opts.Offset,
	})
}

type titleTrophyTitlesEnvelope struct {
	Titles []struct {
		NPTitleID    string `json:"npTitleId"`
		TrophyTitles []struct {
			NPCommunicationID string `json:"npCommunicationId"`
		} `json:"trophyTitles"`
	} `json:"titles"`
}

// npCommunicationIDForTitle resolves a store title ID (CUSA…, PPSA…) to the
// trophy service's communication ID. Unknown titles and titles without a
// trophy set both surface as ResourceNotFound.
func npCommunicationIDForTitle(ctx context.Context, c *Client, titleID string) (string, error) {
	rawURL := c.endpoints.Trophies + fmt.Sprintf(internal.PathTrophyTitlesForTitle, "me")
	query := url.Values{}
	query.Set("npTitleIds", titleID)

	var envelope titleTrophyTitlesEnvelope
	err := c.gateway.GetJSON(ctx, rawURL, &internal.RequestOptions{Query: query}, &envelope)
	if err != nil {
		if psnerrors.HasKind(err, psnerrors.KindNotFound) || psnerrors.HasKind(err, psnerrors.KindBadRequest) {
			return "", psnerrors.ResourceNotFound(fmt.Sprintf("title ID %q does not exist", titleID), err)
		}
		return "", err
	}

	for _, title := range envelope.Titles {
		if title.NPTitleID != titleID {
			continue
		}
		for _, tt := range title.TrophyTitles {
			if tt.NPCommunicationID != "" {
				return tt.NPCommunicationID, nil
			}
		}
	}
	return "", psnerrors.ResourceNotFound(fmt.Sprintf("title ID %q has no trophy set", titleID), nil)
}
