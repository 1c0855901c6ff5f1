package psn

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	psnerrors "github.com/jamesprial/go-psn-api-wrapper/pkg/errors"
)

func TestCreateGroupPostsInvitees(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/gamingLoungeGroups/v1/groups", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		var payload struct {
			Invitees []struct {
				AccountID string `json:"accountId"`
			} `json:"invitees"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Len(t, payload.Invitees, 2)
		assert.Equal(t, "111", payload.Invitees[0].AccountID)
		assert.Equal(t, "222", payload.Invitees[1].AccountID)

		w.Write([]byte(`{"groupId": "grp-1", "mainThread": {"threadId": "thr-1"}}`))
	})
	client := newTestClient(t, mux)

	group, err := client.CreateGroup(context.Background(),
		&User{client: client, accountID: "111"},
		&User{client: client, accountID: "222"})
	require.NoError(t, err)
	assert.Equal(t, "grp-1", group.GroupID())
}

func TestCreateGroupRequiresUsers(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.NewServeMux())
	_, err := client.CreateGroup(context.Background())
	require.Error(t, err)
	assert.Equal(t, psnerrors.KindInvalidArgument, psnerrors.KindOf(err))
}

func TestSendMessageResolvesThreadLazily(t *testing.T) {
	t.Parallel()

	detailsCalls := 0
	var bodies []string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/gamingLoungeGroups/v1/groups/grp-1", func(w http.ResponseWriter, _ *http.Request) {
		detailsCalls++
		w.Write([]byte(`{"groupId": "grp-1", "mainThread": {"threadId": "thr-1"}}`))
	})
	mux.HandleFunc("/api/gamingLoungeGroups/v1/groups/grp-1/threads/thr-1/messages", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			MessageType int    `json:"messageType"`
			Body        string `json:"body"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, 1, payload.MessageType)
		bodies = append(bodies, payload.Body)
		w.Write([]byte(`{"messageUid": "msg-1", "createdTimestamp": "1700000000000"}`))
	})
	client := newTestClient(t, mux)

	group := client.GroupFromID("grp-1")
	receipt, err := group.SendMessage(context.Background(), "hello there")
	require.NoError(t, err)
	assert.Equal(t, "msg-1", receipt.MessageUID)

	// Thread ID is cached after the first resolution.
	_, err = group.SendMessage(context.Background(), "again")
	require.NoError(t, err)
	assert.Equal(t, 1, detailsCalls)
	assert.Equal(t, []string{"hello there", "again"}, bodies)
}

func TestGroupHistory(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/gamingLoungeGroups/v1/groups/grp-1", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"groupId": "grp-1", "mainThread": {"threadId": "thr-1"}}`))
	})
	mux.HandleFunc("/api/gamingLoungeGroups/v1/members/me/groups/grp-1/threads/thr-1/messages", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "20", r.URL.Query().Get("limit"))
		w.Write([]byte(`{"messages": [
			{"messageUid": "m2", "messageType": 1, "body": "newer"},
			{"messageUid": "m1", "messageType": 1, "body": "older"}
		]}`))
	})
	client := newTestClient(t, mux)

	messages, err := client.GroupFromID("grp-1").History(context.Background(), 20)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "newer", messages[0].Body)
}

func TestChangeNameRejectedForDirectMessages(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/gamingLoungeGroups/v1/groups/dm-1", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		http.Error(w, `{"error": {"message": "Invalid group type"}}`, http.StatusBadRequest)
	})
	client := newTestClient(t, mux)

	err := client.GroupFromID("dm-1").ChangeName(context.Background(), "new name")
	require.Error(t, err)
	assert.Equal(t, psnerrors.KindBadRequest, psnerrors.KindOf(err))
	assert.Contains(t, err.Error(), "dm-1")
}

func TestGroupLeaveAndKick(t *testing.T) {
	t.Parallel()

	var deleted []string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/gamingLoungeGroups/v1/groups/grp-1/members/", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		deleted = append(deleted, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})
	client := newTestClient(t, mux)

	group := client.GroupFromID("grp-1")
	require.NoError(t, group.Leave(context.Background()))
	require.NoError(t, group.KickMember(context.Background(), &User{client: client, accountID: "333"}))

	assert.Equal(t, []string{
		"/api/gamingLoungeGroups/v1/groups/grp-1/members/me",
		"/api/gamingLoungeGroups/v1/groups/grp-1/members/333",
	}, deleted)
}
