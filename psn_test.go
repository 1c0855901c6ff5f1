package psn

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesprial/go-psn-api-wrapper/internal"
	psnerrors "github.com/jamesprial/go-psn-api-wrapper/pkg/errors"
)

var testNpsso = strings.Repeat("a", 64)

// newTestClient serves the whole API surface from one mux, including the
// token handshake, and returns a client pointed at it.
func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()

	mux.HandleFunc("/api"+internal.PathOAuthAuthorize, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Location", "com.scee.psxandroid.scecompcall://redirect?code=v3.test")
		w.WriteHeader(http.StatusFound)
	})
	mux.HandleFunc("/api"+internal.PathOAuthToken, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"access_token": "test-bearer",
			"refresh_token": "test-refresh",
			"expires_in": 3600,
			"refresh_token_expires_in": 5184000
		}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := NewClient(&Config{
		NpssoToken: testNpsso,
		BaseURL:    server.URL,
		RateLimit:  &RateLimitConfig{RequestsPerMinute: 60000, Burst: 1000},
	})
	require.NoError(t, err)
	return client
}

func TestNewClientRejectsNilConfig(t *testing.T) {
	t.Parallel()

	_, err := NewClient(nil)
	require.Error(t, err)
	assert.Equal(t, psnerrors.KindInvalidArgument, psnerrors.KindOf(err))
}

func TestNewClientRejectsBadNpsso(t *testing.T) {
	t.Parallel()

	_, err := NewClient(&Config{NpssoToken: "short"})
	require.Error(t, err)
	assert.Equal(t, psnerrors.KindInvalidArgument, psnerrors.KindOf(err))
}

func TestConnectAuthenticatesEagerly(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	client := newTestClient(t, mux)
	require.NoError(t, client.Connect(t.Context()))
}
