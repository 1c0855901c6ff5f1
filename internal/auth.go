package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	psnerrors "github.com/jamesprial/go-psn-api-wrapper/pkg/errors"
)

const (
	// NpssoTokenLength is the exact length of a valid NPSSO token.
	NpssoTokenLength = 64

	authClientID    = "09515159-7237-4370-9b40-3806e67c0891"
	authScope       = "psn:mobile.v2.core psn:clientapp"
	authRedirectURI = "com.scee.psxandroid.scecompcall://redirect"

	// Static Basic credentials of the mobile app's OAuth client. Public
	// knowledge; required by the token endpoint.
	authBasicHeader = "Basic MDk1MTUxNTktNzIzNy00MzcwLTliNDAtMzgwNmU2N2MwODkxOnVjUGprYTV0bnRCMktxc1A="

	authTokenUserAgent = "com.sony.snei.np.android.sso.share.oauth.versa.USER_AGENT"

	// error_code in the authorize redirect meaning the NPSSO token is stale.
	errorCodeExpiredNpsso = "4165"

	// Below this remaining refresh-token lifetime a warning is logged; the
	// user will soon need to supply a fresh NPSSO token out of band.
	refreshExpiryWarnThreshold = 3 * 24 * time.Hour
)

// credentials is the mutable token record owned by the Authenticator.
// Expiries are always derived from the latest token response; they are
// never extended without a round trip.
type credentials struct {
	bearerToken      string
	refreshToken     string
	bearerExpiresAt  time.Time
	refreshExpiresAt time.Time
}

// Authenticator owns the NPSSO-based token lifecycle: the one-time
// authorization-code handshake and the silent refreshes after it.
// All callers obtain tokens through GetToken.
type Authenticator struct {
	client  *http.Client
	npsso   string
	baseURL string
	cid     string
	logger  zerolog.Logger
	now     func() time.Time

	mu    sync.Mutex
	creds credentials
}

// NewAuthenticator validates the NPSSO token and prepares the handshake.
// No network I/O happens here; the handshake runs on the first GetToken.
func NewAuthenticator(httpClient *http.Client, npsso, baseURL string, logger zerolog.Logger) (*Authenticator, error) {
	if len(npsso) != NpssoTokenLength {
		return nil, psnerrors.InvalidArgument(
			fmt.Sprintf("npsso token must be exactly %d characters, got %d", NpssoTokenLength, len(npsso)))
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	// The authorize step inspects the redirect instead of following it.
	authClient := *httpClient
	authClient.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	return &Authenticator{
		client:  &authClient,
		npsso:   npsso,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		cid:     uuid.NewString(),
		logger:  logger,
		now:     time.Now,
	}, nil
}

type tokenResponse struct {
	AccessToken           string `json:"access_token"`
	RefreshToken          string `json:"refresh_token"`
	ExpiresIn             int    `json:"expires_in"`
	RefreshTokenExpiresIn int    `json:"refresh_token_expires_in"`
}

// GetToken returns a currently valid bearer token, performing the initial
// handshake or a silent refresh as needed. It is the single blocking point
// every outbound request passes through.
func (a *Authenticator) GetToken(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch {
	case a.creds.bearerToken == "":
		code, err := a.requestAuthorizationCode(ctx)
		if err != nil {
			return "", err
		}
		if err := a.exchange(ctx, "authorization_code", code); err != nil {
			return "", err
		}
	case !a.now().Before(a.creds.bearerExpiresAt):
		if err := a.exchange(ctx, "refresh_token", a.creds.refreshToken); err != nil {
			return "", err
		}
	}

	return a.creds.bearerToken, nil
}

// requestAuthorizationCode presents the NPSSO cookie to the authorize
// endpoint and extracts the code from the redirect it answers with.
func (a *Authenticator) requestAuthorizationCode(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+PathOAuthAuthorize, nil)
	if err != nil {
		return "", psnerrors.Wrap(psnerrors.KindAuthenticationRejected, "failed to create authorize request", err)
	}

	q := req.URL.Query()
	q.Set("access_type", "offline")
	q.Set("cid", a.cid)
	q.Set("client_id", authClientID)
	q.Set("redirect_uri", authRedirectURI)
	q.Set("response_type", "code")
	q.Set("scope", authScope)
	q.Set("enable_scheme_error_code", "true")
	q.Set("no_captcha", "true")
	q.Set("service_entity", "urn:service-entity:psn")
	q.Set("smcid", "psapp:signin")
	req.URL.RawQuery = q.Encode()

	req.Header.Set("Cookie", "npsso="+a.npsso)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", psnerrors.Wrap(psnerrors.KindAuthenticationRejected, "authorize request failed", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	location := resp.Header.Get("Location")
	if location == "" {
		return "", psnerrors.AuthenticationRejected("authorize response carried no redirect location")
	}

	redirect, err := url.Parse(location)
	if err != nil {
		return "", psnerrors.Wrap(psnerrors.KindAuthenticationRejected, "failed to parse redirect location", err)
	}

	query := redirect.Query()
	if query.Has("error") {
		if query.Get("error_code") == errorCodeExpiredNpsso {
			return "", psnerrors.AuthenticationRejected("npsso token has expired or is incorrect, generate a new one")
		}
		return "", psnerrors.AuthenticationRejected(
			fmt.Sprintf("authorization failed: %s (error_code=%s)", query.Get("error"), query.Get("error_code")))
	}

	code := query.Get("code")
	if code == "" {
		return "", psnerrors.AuthenticationRejected("authorize redirect carried neither code nor error")
	}

	a.logger.Debug().Msg("obtained authorization code")
	return code, nil
}

// exchange trades an authorization code or refresh token for a fresh
// credential record, replacing the stored tokens and expiries in place.
func (a *Authenticator) exchange(ctx context.Context, grantType, grantValue string) error {
	form := url.Values{}
	form.Set("grant_type", grantType)
	form.Set("scope", authScope)
	form.Set("token_format", "jwt")
	switch grantType {
	case "authorization_code":
		form.Set("code", grantValue)
		form.Set("redirect_uri", authRedirectURI)
		form.Set("cid", a.cid)
	case "refresh_token":
		form.Set("refresh_token", grantValue)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+PathOAuthToken, strings.NewReader(form.Encode()))
	if err != nil {
		return psnerrors.Wrap(psnerrors.KindAuthenticationRejected, "failed to create token request", err)
	}
	req.Header.Set("Authorization", authBasicHeader)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", authTokenUserAgent)
	if grantType == "authorization_code" {
		req.Header.Set("X-Psn-Correlation-Id", a.cid)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return psnerrors.Wrap(psnerrors.KindAuthenticationRejected, "token request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return psnerrors.Wrap(psnerrors.KindAuthenticationRejected, "failed to read token response", err)
	}

	if statusErr := psnerrors.FromStatusCode(resp.StatusCode, string(body)); statusErr != nil {
		return statusErr
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return psnerrors.Wrap(psnerrors.KindAuthenticationRejected, "failed to decode token response", err)
	}
	if token.AccessToken == "" {
		return psnerrors.AuthenticationRejected("token response carried no access token")
	}

	received := a.now()
	a.creds = credentials{
		bearerToken:      token.AccessToken,
		refreshToken:     token.RefreshToken,
		bearerExpiresAt:  received.Add(time.Duration(token.ExpiresIn) * time.Second),
		refreshExpiresAt: received.Add(time.Duration(token.RefreshTokenExpiresIn) * time.Second),
	}

	if remaining := a.creds.refreshExpiresAt.Sub(received); remaining < refreshExpiryWarnThreshold {
		a.logger.Warn().
			Dur("remaining", remaining).
			Msg("refresh token expires soon; a new npsso token will be required")
	}

	a.logger.Debug().Str("grant_type", grantType).Msg("token exchange completed")
	return nil
}
