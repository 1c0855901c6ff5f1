package psn

import (
	"context"
	"net/url"
	"strconv"

	"github.com/jamesprial/go-psn-api-wrapper/internal"
	"github.com/jamesprial/go-psn-api-wrapper/pkg/types"
)

// MaxGroupsPageSize is the upstream per-page maximum of the groups listing.
const MaxGroupsPageSize = 100

// Account accesses the authenticated user's own resources. Obtain one from
// Client.Me. Identity is resolved lazily on first use and then cached;
// everything a User offers is available here through the "me" alias.
type Account struct {
	client    *Client
	accountID string
	onlineID  string
}

type deviceAccountEnvelope struct {
	AccountID string `json:"accountId"`
}

// AccountID resolves and caches the authenticated user's account ID.
func (a *Account) AccountID(ctx context.Context) (string, error) {
	if a.accountID != "" {
		return a.accountID, nil
	}
	rawURL := a.client.endpoints.Account + internal.PathMyAccount
	var envelope deviceAccountEnvelope
	if err := a.client.gateway.GetJSON(ctx, rawURL, nil, &envelope); err != nil {
		return "", err
	}
	a.accountID = envelope.AccountID
	return a.accountID, nil
}

// OnlineID resolves and caches the authenticated user's display name.
func (a *Account) OnlineID(ctx context.Context) (string, error) {
	if a.onlineID != "" {
		return a.onlineID, nil
	}
	user, err := resolveByOnlineID(ctx, a.client, "me")
	if err != nil {
		return "", err
	}
	a.onlineID = user.onlineID
	return a.onlineID, nil
}

// AsUser returns the authenticated account as a User accessor, for the
// operations shared with arbitrary accounts.
func (a *Account) AsUser() *User {
	return &User{client: a.client, accountID: "me", onlineID: a.onlineID}
}

// Profile fetches the authenticated user's own profile.
func (a *Account) Profile(ctx context.Context) (*types.Profile, error) {
	return a.AsUser().Profile(ctx)
}

// TrophySummary fetches the authenticated user's trophy overview.
func (a *Account) TrophySummary(ctx context.Context) (*types.TrophySummary, error) {
	return fetchTrophySummary(ctx, a.client, "me")
}

// TrophyTitles iterates the authenticated user's per-title trophy records.
func (a *Account) TrophyTitles(opts *TrophyTitleOptions) *Iterator[types.TrophyTitle] {
	return newTrophyTitleIterator(a.client, "me", opts)
}

// Trophies iterates the authenticated user's earned trophies for one title.
func (a *Account) Trophies(npCommunicationID string, platform types.PlatformType, opts *TrophyOptions) *Iterator[types.Trophy] {
	return newTrophyIterator(a.client, "me", npCommunicationID, platform, opts)
}

// TitleStats iterates the authenticated user's play-time statistics.
func (a *Account) TitleStats(opts *TitleStatsOptions) *Iterator[types.TitleStats] {
	return newTitleStatsIterator(a.client, "me", opts)
}

// FriendsList iterates the authenticated user's friends as account IDs.
func (a *Account) FriendsList(opts *FriendsListOptions) *Iterator[string] {
	return a.AsUser().FriendsList(opts)
}

// Entitlements iterates the games the authenticated account owns.
func (a *Account) Entitlements(opts *EntitlementOptions) *Iterator[types.Entitlement] {
	return newEntitlementIterator(a.client, opts)
}

type groupsEnvelope struct {
	Groups         []types.GroupSummary `json:"groups"`
	NextOffset     int                  `json:"nextOffset"`
	TotalItemCount int                  `json:"totalItemCount"`
}

// GroupsOptions caps and pages the group listing.
type GroupsOptions struct {
	TotalLimit *int
	PageSize   int
	Offset     int
}

// Groups iterates the messaging groups the authenticated user belongs to,
// most recently active first.
func (a *Account) Groups(opts *GroupsOptions) *Iterator[types.GroupSummary] {
	if opts == nil {
		opts = &GroupsOptions{}
	}

	rawURL := a.client.endpoints.GamingLounge + internal.PathMyGroups
	fetch := func(ctx context.Context, args *PageArgs) (Page[types.GroupSummary], error) {
		query := url.Values{}
		query.Set("includeFields", "groupName,groupIcon,members,mainThread")
		query.Set("limit", strconv.Itoa(args.RequestedPageSize()))
		query.Set("offset", strconv.Itoa(args.Offset))

		var envelope groupsEnvelope
		if err := a.client.gateway.GetJSON(ctx, rawURL, &internal.RequestOptions{Query: query}, &envelope); err != nil {
			return Page[types.GroupSummary]{}, err
		}
		return Page[types.GroupSummary]{
			Items:          envelope.Groups,
			NextOffset:     envelope.NextOffset,
			HasNext:        envelope.NextOffset > 0,
			TotalItemCount: envelope.TotalItemCount,
		}, nil
	}

	return NewIterator(fetch, IteratorOptions{
		TotalLimit:  opts.TotalLimit,
		PageSize:    opts.PageSize,
		MaxPageSize: MaxGroupsPageSize,
		Offset:      opts.Offset,
	})
}
