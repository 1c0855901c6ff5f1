package psn

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	psnerrors "github.com/jamesprial/go-psn-api-wrapper/pkg/errors"
)

func TestUserSelectorValidation(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.NewServeMux())

	_, err := client.User(context.Background(), UserSelector{})
	require.Error(t, err)
	assert.Equal(t, psnerrors.KindInvalidArgument, psnerrors.KindOf(err))

	_, err = client.User(context.Background(), UserSelector{onlineID: "x", accountID: "1"})
	require.Error(t, err)
	assert.Equal(t, psnerrors.KindInvalidArgument, psnerrors.KindOf(err))

	_, err = client.User(context.Background(), ByAccountID("not-a-number"))
	require.Error(t, err)
	assert.Equal(t, psnerrors.KindInvalidArgument, psnerrors.KindOf(err))
}

func TestUserByOnlineIDResolvesAccountID(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/userProfile/v1/users/VaultTec/profile2", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"profile": {"onlineId": "VaultTec", "accountId": "6515971742264256071"}}`))
	})
	client := newTestClient(t, mux)

	user, err := client.User(context.Background(), ByOnlineID("VaultTec"))
	require.NoError(t, err)
	assert.Equal(t, "6515971742264256071", user.AccountID())
	assert.Equal(t, "VaultTec", user.OnlineID())
}

func TestUserByOnlineIDNotFound(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/userProfile/v1/users/ghost/profile2", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error": {"code": 2105356}}`, http.StatusNotFound)
	})
	client := newTestClient(t, mux)

	_, err := client.User(context.Background(), ByOnlineID("ghost"))
	require.Error(t, err)
	assert.Equal(t, psnerrors.KindResourceNotFound, psnerrors.KindOf(err))
	assert.Contains(t, err.Error(), "ghost")

	// The original 404 stays reachable underneath the semantic error.
	assert.True(t, psnerrors.HasKind(err, psnerrors.KindNotFound))
}

func TestUserByAccountIDResolvesProfile(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/userProfile/v1/internal/users/12345/profiles", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"onlineId": "SomePlayer", "isPlus": true}`))
	})
	client := newTestClient(t, mux)

	user, err := client.User(context.Background(), ByAccountID("12345"))
	require.NoError(t, err)
	assert.Equal(t, "12345", user.AccountID())
	assert.Equal(t, "SomePlayer", user.OnlineID())
}

func TestPresencePrivateProfile(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/userProfile/v1/internal/users/12345/profiles", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"onlineId": "Private"}`))
	})
	mux.HandleFunc("/api/userProfile/v1/internal/users/12345/basicPresences", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error": {"message": "Not permitted by access control"}}`, http.StatusForbidden)
	})
	client := newTestClient(t, mux)

	user, err := client.User(context.Background(), ByAccountID("12345"))
	require.NoError(t, err)

	_, err = user.Presence(context.Background())
	require.Error(t, err)
	assert.Equal(t, psnerrors.KindForbidden, psnerrors.KindOf(err))
	assert.Contains(t, err.Error(), "12345")
}

func TestPresenceDecodesEnvelope(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/userProfile/v1/internal/users/12345/profiles", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"onlineId": "Someone"}`))
	})
	mux.HandleFunc("/api/userProfile/v1/internal/users/12345/basicPresences", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "primary", r.URL.Query().Get("type"))
		w.Write([]byte(`{"basicPresence": {"accountId": "12345", "onlineStatus": "online", "primaryPlatformInfo": {"onlineStatus": "online", "platform": "PS5"}}}`))
	})
	client := newTestClient(t, mux)

	user, err := client.User(context.Background(), ByAccountID("12345"))
	require.NoError(t, err)

	presence, err := user.Presence(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "online", presence.OnlineStatus)
	require.NotNil(t, presence.PrimaryPlatformInfo)
	assert.Equal(t, "PS5", presence.PrimaryPlatformInfo.Platform)
}

func TestFriendsListPagesThroughOffsets(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/userProfile/v1/internal/users/12345/profiles", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"onlineId": "Someone"}`))
	})
	mux.HandleFunc("/api/userProfile/v1/internal/users/12345/friends", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("offset") {
		case "0":
			w.Write([]byte(`{"friends": ["f1", "f2"], "nextOffset": 2, "totalItemCount": 3}`))
		case "2":
			w.Write([]byte(`{"friends": ["f3"], "nextOffset": -1, "totalItemCount": 3}`))
		default:
			t.Errorf("unexpected offset %q", r.URL.Query().Get("offset"))
		}
	})
	client := newTestClient(t, mux)

	user, err := client.User(context.Background(), ByAccountID("12345"))
	require.NoError(t, err)

	it := user.FriendsList(&FriendsListOptions{PageSize: 2})
	friends, err := it.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"f1", "f2", "f3"}, friends)
	assert.Equal(t, 3, it.TotalItemCount())
}

func TestIsBlocked(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/userProfile/v1/internal/users/12345/profiles", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"onlineId": "Someone"}`))
	})
	mux.HandleFunc("/api/userProfile/v1/internal/users/me/blocks", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"blockList": ["99", "12345"]}`))
	})
	client := newTestClient(t, mux)

	user, err := client.User(context.Background(), ByAccountID("12345"))
	require.NoError(t, err)

	blocked, err := user.IsBlocked(context.Background())
	require.NoError(t, err)
	assert.True(t, blocked)
}
