package psn

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jamesprial/go-psn-api-wrapper/internal"
	psnerrors "github.com/jamesprial/go-psn-api-wrapper/pkg/errors"
	"github.com/jamesprial/go-psn-api-wrapper/pkg/types"
)

// Group accesses one messaging group. Obtain one from Client.GroupFromID or
// Client.CreateGroup. The main thread ID is resolved lazily on the first
// message operation and cached.
type Group struct {
	client       *Client
	groupID      string
	mainThreadID string
}

// GroupID returns the group's identifier.
func (g *Group) GroupID() string { return g.groupID }

type invitee struct {
	AccountID string `json:"accountId"`
}

type createGroupRequest struct {
	Invitees []invitee `json:"invitees"`
}

type createGroupResponse struct {
	GroupID    string `json:"groupId"`
	MainThread *struct {
		ThreadID string `json:"threadId"`
	} `json:"mainThread,omitempty"`
}

func createGroup(ctx context.Context, c *Client, users []*User) (*Group, error) {
	if len(users) == 0 {
		return nil, psnerrors.InvalidArgument("group creation requires at least one user")
	}

	payload := createGroupRequest{Invitees: make([]invitee, 0, len(users))}
	for _, u := range users {
		if u == nil || u.accountID == "" {
			return nil, psnerrors.InvalidArgument("group creation received an unresolved user")
		}
		payload.Invitees = append(payload.Invitees, invitee{AccountID: u.accountID})
	}

	rawURL := c.endpoints.GamingLounge + internal.PathCreateGroup
	var resp createGroupResponse
	if err := c.gateway.DoJSON(ctx, http.MethodPost, rawURL, payload, &resp); err != nil {
		return nil, err
	}

	group := &Group{client: c, groupID: resp.GroupID}
	if resp.MainThread != nil {
		group.mainThreadID = resp.MainThread.ThreadID
	}
	return group, nil
}

// Details fetches the group's settings, members and main thread.
func (g *Group) Details(ctx context.Context) (*types.GroupDetails, error) {
	rawURL := g.client.endpoints.GamingLounge + fmt.Sprintf(internal.PathGroupSettings, g.groupID)
	query := url.Values{}
	query.Set("includeFields", "groupName,groupIcon,members,mainThread")

	var details types.GroupDetails
	err := g.client.gateway.GetJSON(ctx, rawURL, &internal.RequestOptions{Query: query}, &details)
	if err != nil {
		if psnerrors.HasKind(err, psnerrors.KindNotFound) {
			return nil, psnerrors.ResourceNotFound(fmt.Sprintf("group %q does not exist or you are not a member", g.groupID), err)
		}
		return nil, err
	}

	if details.MainThread != nil {
		g.mainThreadID = details.MainThread.ThreadID
	}
	return &details, nil
}

func (g *Group) threadID(ctx context.Context) (string, error) {
	if g.mainThreadID != "" {
		return g.mainThreadID, nil
	}
	if _, err := g.Details(ctx); err != nil {
		return "", err
	}
	if g.mainThreadID == "" {
		return "", psnerrors.New(psnerrors.KindClientError,
			fmt.Sprintf("group %q reported no main thread", g.groupID))
	}
	return g.mainThreadID, nil
}

type sendMessageRequest struct {
	MessageType int    `json:"messageType"`
	Body        string `json:"body"`
}

// SendMessage posts a text message to the group's main thread.
func (g *Group) SendMessage(ctx context.Context, body string) (*types.MessageReceipt, error) {
	threadID, err := g.threadID(ctx)
	if err != nil {
		return nil, err
	}

	rawURL := g.client.endpoints.GamingLounge + fmt.Sprintf(internal.PathSendGroupMessage, g.groupID, threadID)
	var receipt types.MessageReceipt
	if err := g.client.gateway.DoJSON(ctx, http.MethodPost, rawURL, sendMessageRequest{MessageType: 1, Body: body}, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

type historyEnvelope struct {
	Messages []types.GroupMessage `json:"messages"`
}

// History fetches the most recent messages from the group's main thread,
// newest first. Limit is clamped to 1 when non-positive.
func (g *Group) History(ctx context.Context, limit int) ([]types.GroupMessage, error) {
	if limit <= 0 {
		limit = 1
	}
	threadID, err := g.threadID(ctx)
	if err != nil {
		return nil, err
	}

	rawURL := g.client.endpoints.GamingLounge + fmt.Sprintf(internal.PathConversation, g.groupID, threadID)
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))

	var envelope historyEnvelope
	if err := g.client.gateway.GetJSON(ctx, rawURL, &internal.RequestOptions{Query: query}, &envelope); err != nil {
		return nil, err
	}
	return envelope.Messages, nil
}

// Invite adds users to the group.
func (g *Group) Invite(ctx context.Context, users ...*User) error {
	if len(users) == 0 {
		return psnerrors.InvalidArgument("invite requires at least one user")
	}
	payload := createGroupRequest{Invitees: make([]invitee, 0, len(users))}
	for _, u := range users {
		if u == nil || u.accountID == "" {
			return psnerrors.InvalidArgument("invite received an unresolved user")
		}
		payload.Invitees = append(payload.Invitees, invitee{AccountID: u.accountID})
	}

	rawURL := g.client.endpoints.GamingLounge + fmt.Sprintf(internal.PathInviteMembers, g.groupID)
	return g.client.gateway.DoJSON(ctx, http.MethodPost, rawURL, payload, nil)
}

// KickMember removes a user from the group.
func (g *Group) KickMember(ctx context.Context, user *User) error {
	if user == nil || user.accountID == "" {
		return psnerrors.InvalidArgument("kick received an unresolved user")
	}
	rawURL := g.client.endpoints.GamingLounge + fmt.Sprintf(internal.PathKickMember, g.groupID, user.accountID)
	return g.client.gateway.DoJSON(ctx, http.MethodDelete, rawURL, nil, nil)
}

type changeNameRequest struct {
	GroupName types.GroupName `json:"groupName"`
}

// ChangeName renames the group. Direct-message groups cannot be renamed;
// the upstream rejection comes back as a BadRequest-kind error naming the
// group.
func (g *Group) ChangeName(ctx context.Context, name string) error {
	rawURL := g.client.endpoints.GamingLounge + fmt.Sprintf(internal.PathGroupSettings, g.groupID)
	err := g.client.gateway.DoJSON(ctx, http.MethodPatch, rawURL, changeNameRequest{GroupName: types.GroupName{Value: name}}, nil)
	if err != nil {
		if psnerrors.HasKind(err, psnerrors.KindBadRequest) {
			return psnerrors.Wrap(psnerrors.KindBadRequest,
				fmt.Sprintf("group %q cannot be renamed; direct message groups reject it", g.groupID), err)
		}
		return err
	}
	return nil
}

// Leave removes the authenticated user from the group.
func (g *Group) Leave(ctx context.Context) error {
	rawURL := g.client.endpoints.GamingLounge + fmt.Sprintf(internal.PathLeaveGroup, g.groupID)
	return g.client.gateway.DoJSON(ctx, http.MethodDelete, rawURL, nil, nil)
}
