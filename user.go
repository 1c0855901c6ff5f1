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

// MaxFriendsPageSize is the upstream per-page maximum of the friends listing.
const MaxFriendsPageSize = 1000

// UserSelector names a user by exactly one identifier. Build one with
// ByOnlineID or ByAccountID; the zero value is invalid.
type UserSelector struct {
	onlineID  string
	accountID string
}

// ByOnlineID selects a user by the name shown on their profile. Resolving
// it costs one extra lookup against the legacy profile service.
func ByOnlineID(onlineID string) UserSelector {
	return UserSelector{onlineID: onlineID}
}

// ByAccountID selects a user by their numeric account ID.
func ByAccountID(accountID string) UserSelector {
	return UserSelector{accountID: accountID}
}

// User accesses the public resources of a single PSN account. Obtain one
// from Client.User; the account ID is always resolved by then.
type User struct {
	client    *Client
	accountID string
	onlineID  string
}

// AccountID returns the user's numeric account ID.
func (u *User) AccountID() string { return u.accountID }

// OnlineID returns the user's display name as of resolution time.
func (u *User) OnlineID() string { return u.onlineID }

func resolveUser(ctx context.Context, c *Client, selector UserSelector) (*User, error) {
	switch {
	case selector.onlineID != "" && selector.accountID != "":
		return nil, psnerrors.InvalidArgument("user selector must carry exactly one of online ID or account ID")
	case selector.onlineID != "":
		return resolveByOnlineID(ctx, c, selector.onlineID)
	case selector.accountID != "":
		return resolveByAccountID(ctx, c, selector.accountID)
	default:
		return nil, psnerrors.InvalidArgument("user selector is empty; use ByOnlineID or ByAccountID")
	}
}

// legacyProfileEnvelope is the legacy community profile response. Only the
// identity fields are consumed; this service is the sole way to turn an
// online ID into an account ID.
type legacyProfileEnvelope struct {
	Profile struct {
		OnlineID        string `json:"onlineId"`
		AccountID       string `json:"accountId"`
		CurrentOnlineID string `json:"currentOnlineId,omitempty"`
	} `json:"profile"`
}

func resolveByOnlineID(ctx context.Context, c *Client, onlineID string) (*User, error) {
	rawURL := c.endpoints.LegacyProfile + fmt.Sprintf(internal.PathLegacyProfile, url.PathEscape(onlineID))
	query := url.Values{}
	query.Set("fields", "npId,onlineId,accountId,currentOnlineId")

	var envelope legacyProfileEnvelope
	err := c.gateway.GetJSON(ctx, rawURL, &internal.RequestOptions{Query: query}, &envelope)
	if err != nil {
		if psnerrors.HasKind(err, psnerrors.KindNotFound) {
			return nil, psnerrors.ResourceNotFound(fmt.Sprintf("online ID %q does not exist", onlineID), err)
		}
		return nil, err
	}

	resolved := envelope.Profile.OnlineID
	if envelope.Profile.CurrentOnlineID != "" {
		resolved = envelope.Profile.CurrentOnlineID
	}
	return &User{client: c, accountID: envelope.Profile.AccountID, onlineID: resolved}, nil
}

func resolveByAccountID(ctx context.Context, c *Client, accountID string) (*User, error) {
	if _, err := strconv.ParseUint(accountID, 10, 64); err != nil && accountID != "me" {
		return nil, psnerrors.InvalidArgument(fmt.Sprintf("account ID %q is not numeric", accountID))
	}

	user := &User{client: c, accountID: accountID}
	profile, err := user.Profile(ctx)
	if err != nil {
		if psnerrors.HasKind(err, psnerrors.KindNotFound) {
			return nil, psnerrors.ResourceNotFound(fmt.Sprintf("account ID %q does not exist", accountID), err)
		}
		return nil, err
	}
	user.onlineID = profile.OnlineID
	return user, nil
}

// Profile fetches the user's public profile.
func (u *User) Profile(ctx context.Context) (*types.Profile, error) {
	rawURL := u.client.endpoints.Profile + fmt.Sprintf(internal.PathProfiles, u.accountID)
	var profile types.Profile
	if err := u.client.gateway.GetJSON(ctx, rawURL, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

type presenceEnvelope struct {
	BasicPresence types.Presence `json:"basicPresence"`
}

// Presence fetches the user's current online status. A private profile
// surfaces as a Forbidden-kind error naming the account.
func (u *User) Presence(ctx context.Context) (*types.Presence, error) {
	rawURL := u.client.endpoints.Profile + fmt.Sprintf(internal.PathBasicPresences, u.accountID)
	query := url.Values{}
	query.Set("type", "primary")

	var envelope presenceEnvelope
	err := u.client.gateway.GetJSON(ctx, rawURL, &internal.RequestOptions{Query: query}, &envelope)
	if err != nil {
		if psnerrors.HasKind(err, psnerrors.KindForbidden) {
			return nil, psnerrors.Wrap(psnerrors.KindForbidden,
				fmt.Sprintf("presence of account %s is not visible to you", u.accountID), err)
		}
		return nil, err
	}
	return &envelope.BasicPresence, nil
}

// FriendshipSummary describes the relationship between the authenticated
// user and this user.
func (u *User) FriendshipSummary(ctx context.Context) (*types.FriendshipSummary, error) {
	rawURL := u.client.endpoints.Profile + fmt.Sprintf(internal.PathFriendsSummary, u.accountID)
	var summary types.FriendshipSummary
	if err := u.client.gateway.GetJSON(ctx, rawURL, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

type friendsPageEnvelope struct {
	Friends        []string `json:"friends"`
	NextOffset     int      `json:"nextOffset"`
	TotalItemCount int      `json:"totalItemCount"`
}

// FriendsListOptions caps and pages the friends listing.
type FriendsListOptions struct {
	// TotalLimit caps the friend account IDs yielded in total. Nil drains.
	TotalLimit *int
	// PageSize per fetch, clamped to MaxFriendsPageSize.
	PageSize int
}

// FriendsList iterates the user's friends as account IDs. Visibility of
// another user's friends depends on their privacy settings.
func (u *User) FriendsList(opts *FriendsListOptions) *Iterator[string] {
	if opts == nil {
		opts = &FriendsListOptions{}
	}

	rawURL := u.client.endpoints.Profile + fmt.Sprintf(internal.PathFriendsList, u.accountID)
	fetch := func(ctx context.Context, args *PageArgs) (Page[string], error) {
		query := url.Values{}
		query.Set("limit", strconv.Itoa(args.RequestedPageSize()))
		query.Set("offset", strconv.Itoa(args.Offset))

		var envelope friendsPageEnvelope
		if err := u.client.gateway.GetJSON(ctx, rawURL, &internal.RequestOptions{Query: query}, &envelope); err != nil {
			return Page[string]{}, err
		}
		return Page[string]{
			Items:          envelope.Friends,
			NextOffset:     envelope.NextOffset,
			HasNext:        envelope.NextOffset > 0,
			TotalItemCount: envelope.TotalItemCount,
		}, nil
	}

	return NewIterator(fetch, IteratorOptions{
		TotalLimit:  opts.TotalLimit,
		PageSize:    opts.PageSize,
		MaxPageSize: MaxFriendsPageSize,
	})
}

type blockListEnvelope struct {
	BlockList []string `json:"blockList"`
}

// IsBlocked reports whether this user is on the authenticated user's
// block list.
func (u *User) IsBlocked(ctx context.Context) (bool, error) {
	rawURL := u.client.endpoints.Profile + internal.PathBlockedUsers
	var envelope blockListEnvelope
	if err := u.client.gateway.GetJSON(ctx, rawURL, nil, &envelope); err != nil {
		return false, err
	}
	for _, blocked := range envelope.BlockList {
		if blocked == u.accountID {
			return true, nil
		}
	}
	return false, nil
}

// TrophySummary fetches the user's account-wide trophy overview.
func (u *User) TrophySummary(ctx context.Context) (*types.TrophySummary, error) {
	return fetchTrophySummary(ctx, u.client, u.accountID)
}

// TrophyTitles iterates the user's per-title trophy records.
func (u *User) TrophyTitles(opts *TrophyTitleOptions) *Iterator[types.TrophyTitle] {
	return newTrophyTitleIterator(u.client, u.accountID, opts)
}

// Trophies iterates the user's earned-trophy records for one title.
func (u *User) Trophies(npCommunicationID string, platform types.PlatformType, opts *TrophyOptions) *Iterator[types.Trophy] {
	return newTrophyIterator(u.client, u.accountID, npCommunicationID, platform, opts)
}

// TitleStats iterates the user's play-time statistics.
func (u *User) TitleStats(opts *TitleStatsOptions) *Iterator[types.TitleStats] {
	return newTitleStatsIterator(u.client, u.accountID, opts)
}
