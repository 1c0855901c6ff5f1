package internal

// Endpoints holds the base URLs for the PlayStation Network API hosts.
// The API is spread across several hosts; accessors build full URLs from
// these bases plus the path templates below. Overridable for testing.
type Endpoints struct {
	// Auth is the account authorization host.
	Auth string
	// Profile is the user profile host.
	Profile string
	// LegacyProfile is the legacy community profile host, still the only
	// way to resolve an online ID to an account ID.
	LegacyProfile string
	// Account is the device/account host for the authenticated user.
	Account string
	// GamingLounge is the messaging-groups host.
	GamingLounge string
	// Trophies is the trophy service host.
	Trophies string
	// GamesList is the play-time stats host.
	GamesList string
	// GraphQL is the persisted-query search host.
	GraphQL string
	// Entitlements is the owned-games host.
	Entitlements string
	// Catalog is the game title catalog host.
	Catalog string
}

// DefaultEndpoints returns the production PSN hosts.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Auth:          "https://ca.account.sony.com/api",
		Profile:       "https://m.np.playstation.com/api/userProfile/v1/internal/users",
		LegacyProfile: "https://us-prof.np.community.playstation.net/userProfile/v1/users",
		Account:       "https://dms.api.playstation.com/api",
		GamingLounge:  "https://m.np.playstation.com/api/gamingLoungeGroups/v1",
		Trophies:      "https://m.np.playstation.com/api/trophy/v1",
		GamesList:     "https://m.np.playstation.com/api/gamelist/v2",
		GraphQL:       "https://m.np.playstation.com/api/graphql/v1/op",
		Entitlements:  "https://m.np.playstation.com",
		Catalog:       "https://m.np.playstation.com/api/catalog/v2/titles",
	}
}

// EndpointsWithBase maps every host onto a single base URL, keeping each
// service's path prefix. Lets a test serve the whole API from one server.
func EndpointsWithBase(base string) Endpoints {
	return Endpoints{
		Auth:          base + "/api",
		Profile:       base + "/api/userProfile/v1/internal/users",
		LegacyProfile: base + "/userProfile/v1/users",
		Account:       base + "/api",
		GamingLounge:  base + "/api/gamingLoungeGroups/v1",
		Trophies:      base + "/api/trophy/v1",
		GamesList:     base + "/api/gamelist/v2",
		GraphQL:       base + "/api/graphql/v1/op",
		Entitlements:  base,
		Catalog:       base + "/api/catalog/v2/titles",
	}
}

// Relative path templates, filled in by the accessors.
const (
	PathOAuthAuthorize = "/authz/v3/oauth/authorize"
	PathOAuthToken     = "/authz/v3/oauth/token"

	PathMyAccount        = "/v1/devices/accounts/me"
	PathProfiles         = "/%s/profiles"
	PathLegacyProfile    = "/%s/profile2"
	PathBasicPresences   = "/%s/basicPresences"
	PathFriendsList      = "/%s/friends"
	PathFriendsSummary   = "/me/friends/%s/summary"
	PathBlockedUsers     = "/me/blocks"

	PathMyGroups         = "/members/me/groups"
	PathGroupSettings    = "/groups/%s"
	PathCreateGroup      = "/groups"
	PathInviteMembers    = "/groups/%s/invitees"
	PathKickMember       = "/groups/%s/members/%s"
	PathSendGroupMessage = "/groups/%s/threads/%s/messages"
	PathConversation     = "/members/me/groups/%s/threads/%s/messages"
	PathLeaveGroup       = "/groups/%s/members/me"

	PathTrophyTitles         = "/users/%s/trophyTitles"
	PathTrophyTitlesForTitle = "/users/%s/titles/trophyTitles"
	PathTrophySummary        = "/users/%s/trophySummary"
	PathEarnedTrophies       = "/users/%s/npCommunicationIds/%s/trophyGroups/%s/trophies"
	PathTitleTrophies        = "/npCommunicationIds/%s/trophyGroups/%s/trophies"

	PathUserGameData = "/users/%s/titles"
	PathEntitlements = "/api/entitlement/v2/users/me/internal/entitlements"
	PathTitleConcept = "/%s/concepts"
)
