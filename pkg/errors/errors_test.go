package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromStatusCode(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		statusCode int
		wantKind   Kind
		wantNil    bool
	}{
		{name: "bad request", statusCode: http.StatusBadRequest, wantKind: KindBadRequest},
		{name: "unauthorized", statusCode: http.StatusUnauthorized, wantKind: KindUnauthorized},
		{name: "forbidden", statusCode: http.StatusForbidden, wantKind: KindForbidden},
		{name: "not found", statusCode: http.StatusNotFound, wantKind: KindNotFound},
		{name: "method not allowed", statusCode: http.StatusMethodNotAllowed, wantKind: KindNotAllowed},
		{name: "too many requests", statusCode: http.StatusTooManyRequests, wantKind: KindTooManyRequests},
		{name: "teapot is generic client error", statusCode: http.StatusTeapot, wantKind: KindClientError},
		{name: "conflict is generic client error", statusCode: http.StatusConflict, wantKind: KindClientError},
		{name: "internal server error", statusCode: http.StatusInternalServerError, wantKind: KindServerError},
		{name: "bad gateway", statusCode: http.StatusBadGateway, wantKind: KindServerError},
		{name: "success passes through", statusCode: http.StatusOK, wantNil: true},
		{name: "redirect passes through", statusCode: http.StatusFound, wantNil: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := FromStatusCode(tc.statusCode, "body text")
			if tc.wantNil {
				assert.Nil(t, err)
				return
			}
			require.NotNil(t, err)
			assert.Equal(t, tc.wantKind, err.Kind)
			assert.Equal(t, tc.statusCode, err.StatusCode)
			assert.Equal(t, "body text", err.Message)
		})
	}
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	err := FromStatusCode(http.StatusNotFound, "no such user")
	assert.Contains(t, err.Error(), "not found")
	assert.Contains(t, err.Error(), "status 404")
	assert.Contains(t, err.Error(), "no such user")
}

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()

	cause := FromStatusCode(http.StatusForbidden, "denied")
	wrapped := Wrap(KindForbidden, "profile is private", cause)

	assert.Equal(t, KindForbidden, KindOf(wrapped))
	assert.ErrorIs(t, wrapped, cause)

	var inner *Error
	require.True(t, errors.As(wrapped, &inner))
	assert.Equal(t, "profile is private", inner.Message)
}

func TestHasKindWalksChain(t *testing.T) {
	t.Parallel()

	raw := FromStatusCode(http.StatusNotFound, "404 page")
	rewrapped := ResourceNotFound(`online ID "ghost" does not exist`, raw)

	assert.True(t, HasKind(rewrapped, KindResourceNotFound))
	assert.True(t, HasKind(rewrapped, KindNotFound), "re-wrap must keep the raw NotFound reachable")
	assert.False(t, HasKind(rewrapped, KindForbidden))
	assert.False(t, HasKind(fmt.Errorf("plain"), KindNotFound))
}

func TestKindOfNonTaxonomyError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, KindUnknown, KindOf(errors.New("some other error")))
	assert.Equal(t, KindUnknown, KindOf(nil))
}
