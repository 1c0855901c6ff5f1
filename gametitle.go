package psn

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/jamesprial/go-psn-api-wrapper/internal"
	"github.com/jamesprial/go-psn-api-wrapper/pkg/types"
)

// GameTitle accesses catalog and trophy data of one store title (CUSA…,
// PPSA…). Obtain one from Client.GameTitle.
type GameTitle struct {
	client  *Client
	titleID string

	// npCommunicationID is resolved lazily on the first trophy operation.
	npCommunicationID string
}

// TitleID returns the store title ID.
func (t *GameTitle) TitleID() string { return t.titleID }

type conceptEnvelope struct {
	Concepts []types.GameConcept `json:"concepts"`
}

// Concept fetches the catalog concept the title belongs to.
func (t *GameTitle) Concept(ctx context.Context) (*types.GameConcept, error) {
	rawURL := t.client.endpoints.Catalog + fmt.Sprintf(internal.PathTitleConcept, url.PathEscape(t.titleID))
	var envelope conceptEnvelope
	if err := t.client.gateway.GetJSON(ctx, rawURL, nil, &envelope); err != nil {
		return nil, err
	}
	if len(envelope.Concepts) == 0 {
		return nil, nil
	}
	return &envelope.Concepts[0], nil
}

// NPCommunicationID resolves and caches the trophy-service ID of the title.
func (t *GameTitle) NPCommunicationID(ctx context.Context) (string, error) {
	if t.npCommunicationID != "" {
		return t.npCommunicationID, nil
	}
	id, err := npCommunicationIDForTitle(ctx, t.client, t.titleID)
	if err != nil {
		return "", err
	}
	t.npCommunicationID = id
	return id, nil
}

// Trophies iterates the title's defined trophy set, independent of any
// user's progress.
func (t *GameTitle) Trophies(ctx context.Context, platform types.PlatformType, opts *TrophyOptions) (*Iterator[types.Trophy], error) {
	npCommunicationID, err := t.NPCommunicationID(ctx)
	if err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &TrophyOptions{}
	}
	groupID := opts.TrophyGroupID
	if groupID == "" {
		groupID = "all"
	}

	rawURL := t.client.endpoints.Trophies + fmt.Sprintf(internal.PathTitleTrophies, npCommunicationID, groupID)
	service := npServiceName(platform)
	fetch := func(ctx context.Context, args *PageArgs) (Page[types.Trophy], error) {
		query := url.Values{}
		query.Set("limit", strconv.Itoa(args.RequestedPageSize()))
		query.Set("offset", strconv.Itoa(args.Offset))
		query.Set("npServiceName", service)

		var envelope trophiesEnvelope
		if err := t.client.gateway.GetJSON(ctx, rawURL, &internal.RequestOptions{Query: query}, &envelope); err != nil {
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
	}), nil
}
