// Package types defines the data structures exchanged with the PlayStation
// Network mobile API. Field tags follow the upstream JSON names exactly;
// wire compatibility depends on them.
package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// PlatformType identifies the console family a title belongs to.
type PlatformType string

const (
	PlatformPS5    PlatformType = "PS5"
	PlatformPS4    PlatformType = "PS4"
	PlatformPS3    PlatformType = "PS3"
	PlatformPSVita PlatformType = "PSVITA"
	PlatformPSPC   PlatformType = "PSPC"
)

// TrophySet counts trophies by grade.
type TrophySet struct {
	Bronze   int `json:"bronze"`
	Silver   int `json:"silver"`
	Gold     int `json:"gold"`
	Platinum int `json:"platinum"`
}

// TrophyTitle summarizes the trophies a user has for one game title.
type TrophyTitle struct {
	NPServiceName       string     `json:"npServiceName"`
	NPCommunicationID   string     `json:"npCommunicationId"`
	NPTitleID           string     `json:"npTitleId,omitempty"`
	TrophySetVersion    string     `json:"trophySetVersion"`
	TitleName           string     `json:"trophyTitleName"`
	TitleDetail         string     `json:"trophyTitleDetail,omitempty"`
	TitleIconURL        string     `json:"trophyTitleIconUrl"`
	TitlePlatform       string     `json:"trophyTitlePlatform"`
	HasTrophyGroups     bool       `json:"hasTrophyGroups"`
	Progress            int        `json:"progress"`
	HiddenFlag          bool       `json:"hiddenFlag"`
	EarnedTrophies      TrophySet  `json:"earnedTrophies"`
	DefinedTrophies     TrophySet  `json:"definedTrophies"`
	LastUpdatedDateTime *time.Time `json:"lastUpdatedDateTime,omitempty"`
}

// Platforms splits the comma-separated platform field into typed values.
func (t *TrophyTitle) Platforms() []PlatformType {
	if t.TitlePlatform == "" {
		return nil
	}
	parts := strings.Split(t.TitlePlatform, ",")
	platforms := make([]PlatformType, 0, len(parts))
	for _, p := range parts {
		platforms = append(platforms, PlatformType(strings.TrimSpace(p)))
	}
	return platforms
}

// Trophy is a single trophy within a title's trophy set.
type Trophy struct {
	TrophyID           int        `json:"trophyId"`
	TrophyHidden       bool       `json:"trophyHidden"`
	TrophyType         string     `json:"trophyType"`
	TrophyName         string     `json:"trophyName,omitempty"`
	TrophyDetail       string     `json:"trophyDetail,omitempty"`
	TrophyIconURL      string     `json:"trophyIconUrl,omitempty"`
	TrophyGroupID      string     `json:"trophyGroupId,omitempty"`
	Earned             bool       `json:"earned"`
	EarnedDateTime     *time.Time `json:"earnedDateTime,omitempty"`
	TrophyEarnedRate   string     `json:"trophyEarnedRate,omitempty"`
	TrophyProgressRate string     `json:"trophyProgressTargetValue,omitempty"`
}

// TrophySummary is the account-wide trophy overview.
type TrophySummary struct {
	AccountID      string    `json:"accountId"`
	TrophyLevel    int       `json:"trophyLevel"`
	Progress       int       `json:"progress"`
	Tier           int       `json:"tier"`
	EarnedTrophies TrophySet `json:"earnedTrophies"`
}

// Profile is a user's public profile.
type Profile struct {
	OnlineID             string   `json:"onlineId"`
	AccountID            string   `json:"accountId,omitempty"`
	AboutMe              string   `json:"aboutMe"`
	Avatars              []Avatar `json:"avatars"`
	Languages            []string `json:"languages"`
	IsPlus               bool     `json:"isPlus"`
	IsOfficiallyVerified bool     `json:"isOfficiallyVerified"`
	IsMe                 bool     `json:"isMe"`
}

// Avatar is one entry of a profile's avatar size set.
type Avatar struct {
	Size string `json:"size"`
	URL  string `json:"url"`
}

// Presence describes a user's current online status.
type Presence struct {
	AccountID           string        `json:"accountId"`
	OnlineStatus        string        `json:"onlineStatus"`
	InContext           string        `json:"inContext,omitempty"`
	Platform            string        `json:"platform,omitempty"`
	LastOnlineDate      string        `json:"lastOnlineDate,omitempty"`
	PrimaryPlatformInfo *PlatformInfo `json:"primaryPlatformInfo,omitempty"`
}

// PlatformInfo carries the platform-level presence detail.
type PlatformInfo struct {
	OnlineStatus   string `json:"onlineStatus"`
	Platform       string `json:"platform"`
	LastOnlineDate string `json:"lastOnlineDate,omitempty"`
}

// FriendshipSummary describes the relationship between two accounts.
type FriendshipSummary struct {
	FriendRelation        string `json:"friendRelation"`
	PersonalDetailSharing string `json:"personalDetailSharing"`
	FriendsCount          int    `json:"friendsCount"`
	MutualFriendsCount    int    `json:"mutualFriendsCount"`
}

// GroupSummary is one entry of the authenticated user's group listing.
type GroupSummary struct {
	GroupID    string         `json:"groupId"`
	GroupType  int            `json:"groupType"`
	GroupName  GroupName      `json:"groupName"`
	Favorite   bool           `json:"favorite"`
	MainThread *ThreadSummary `json:"mainThread,omitempty"`
}

// GroupName is the upstream's wrapped name value.
type GroupName struct {
	Value  string `json:"value"`
	Status int    `json:"status,omitempty"`
}

// ThreadSummary points at a group's main message thread.
type ThreadSummary struct {
	ThreadID      string        `json:"threadId"`
	LatestMessage *GroupMessage `json:"latestMessage,omitempty"`
}

// GroupDetails is the full settings view of a messaging group.
type GroupDetails struct {
	GroupID    string         `json:"groupId"`
	GroupType  int            `json:"groupType"`
	GroupName  GroupName      `json:"groupName"`
	Members    []GroupMember  `json:"members"`
	Favorite   bool           `json:"favorite"`
	MainThread *ThreadSummary `json:"mainThread,omitempty"`
}

// GroupMember is one participant of a messaging group.
type GroupMember struct {
	AccountID string `json:"accountId"`
	OnlineID  string `json:"onlineId"`
	Role      string `json:"role,omitempty"`
}

// GroupMessage is a single message within a group thread.
type GroupMessage struct {
	MessageUID       string       `json:"messageUid"`
	MessageType      int          `json:"messageType"`
	AlternativeText  string       `json:"alternativeMessageType,omitempty"`
	Body             string       `json:"body,omitempty"`
	CreatedTimestamp string       `json:"createdTimestamp,omitempty"`
	Sender           *GroupMember `json:"sender,omitempty"`
}

// MessageReceipt is the upstream acknowledgement of a sent message.
type MessageReceipt struct {
	MessageUID       string `json:"messageUid"`
	CreatedTimestamp string `json:"createdTimestamp"`
}

// SearchDomain selects which part of the catalog a search runs against.
type SearchDomain int

const (
	SearchDomainFullGames SearchDomain = iota
	SearchDomainAddOns
	SearchDomainUsers
)

// String returns the upstream domain name used in GraphQL variables.
func (d SearchDomain) String() string {
	switch d {
	case SearchDomainFullGames:
		return "MobileGames"
	case SearchDomainAddOns:
		return "MobileAddOns"
	case SearchDomainUsers:
		return "SocialAllAccounts"
	default:
		return fmt.Sprintf("SearchDomain(%d)", int(d))
	}
}

// GameSearchResult is one hit from a game or add-on search.
type GameSearchResult struct {
	ID     string          `json:"id"`
	Type   string          `json:"type"`
	Result json.RawMessage `json:"result"`
}

// GameMetadata decodes the embedded result payload of a game search hit.
func (r *GameSearchResult) GameMetadata() (*GameConcept, error) {
	var concept GameConcept
	if err := json.Unmarshal(r.Result, &concept); err != nil {
		return nil, fmt.Errorf("decode game search result %q: %w", r.ID, err)
	}
	return &concept, nil
}

// GameConcept is the catalog view of a game returned by search.
type GameConcept struct {
	ID             string   `json:"id"`
	InvariantName  string   `json:"invariantName"`
	ItemType       string   `json:"itemType,omitempty"`
	DefaultProduct *Product `json:"defaultProduct,omitempty"`
	Platforms      []string `json:"platforms,omitempty"`
}

// Product is a purchasable item attached to a concept.
type Product struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price *Price `json:"price,omitempty"`
}

// Price carries display pricing for a product.
type Price struct {
	BasePrice       string `json:"basePrice"`
	DiscountedPrice string `json:"discountedPrice"`
	IsFree          bool   `json:"isFree"`
}

// UserSearchResult is one hit from a user search.
type UserSearchResult struct {
	ID                   string `json:"id"`
	AccountID            string `json:"accountId"`
	OnlineID             string `json:"onlineId"`
	AvatarURL            string `json:"avatarUrl,omitempty"`
	IsPsPlus             bool   `json:"isPsPlus"`
	IsOfficiallyVerified bool   `json:"isOfficiallyVerified"`
}

// PlatformCategory distinguishes the game list categories the stats
// endpoint reports.
type PlatformCategory string

const (
	CategoryUnknown PlatformCategory = "unknown"
	CategoryPS4     PlatformCategory = "ps4_game"
	CategoryPS5     PlatformCategory = "ps5_native_game"
)

// TitleStats reports play-time statistics for one game title.
type TitleStats struct {
	TitleID             string           `json:"titleId"`
	Name                string           `json:"name"`
	ImageURL            string           `json:"imageUrl"`
	Category            PlatformCategory `json:"category"`
	PlayCount           int              `json:"playCount"`
	FirstPlayedDateTime *time.Time       `json:"firstPlayedDateTime,omitempty"`
	LastPlayedDateTime  *time.Time       `json:"lastPlayedDateTime,omitempty"`
	PlayDuration        PlayDuration     `json:"playDuration"`
}

// PlayDuration is an ISO 8601 duration ("PT1H51M21S") decoded into a
// time.Duration.
type PlayDuration struct {
	time.Duration
}

// UnmarshalJSON parses the upstream's ISO 8601 play-duration strings.
// Only the time components appear in practice; date components are rejected.
func (d *PlayDuration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		d.Duration = 0
		return nil
	}
	parsed, err := parseISODuration(s)
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// MarshalJSON renders the duration back into the upstream's format.
func (d PlayDuration) MarshalJSON() ([]byte, error) {
	total := d.Duration
	hours := total / time.Hour
	total -= hours * time.Hour
	minutes := total / time.Minute
	total -= minutes * time.Minute
	seconds := total / time.Second

	out := "PT"
	if hours > 0 {
		out += fmt.Sprintf("%dH", hours)
	}
	if minutes > 0 {
		out += fmt.Sprintf("%dM", minutes)
	}
	if seconds > 0 || out == "PT" {
		out += fmt.Sprintf("%dS", seconds)
	}
	return json.Marshal(out)
}

func parseISODuration(s string) (time.Duration, error) {
	if !strings.HasPrefix(s, "PT") {
		return 0, fmt.Errorf("unsupported play duration format: %q", s)
	}
	var total time.Duration
	value := 0
	hasValue := false
	for _, ch := range s[2:] {
		switch {
		case ch >= '0' && ch <= '9':
			value = value*10 + int(ch-'0')
			hasValue = true
		case ch == 'H' || ch == 'M' || ch == 'S':
			if !hasValue {
				return 0, fmt.Errorf("unsupported play duration format: %q", s)
			}
			switch ch {
			case 'H':
				total += time.Duration(value) * time.Hour
			case 'M':
				total += time.Duration(value) * time.Minute
			case 'S':
				total += time.Duration(value) * time.Second
			}
			value = 0
			hasValue = false
		default:
			return 0, fmt.Errorf("unsupported play duration format: %q", s)
		}
	}
	if hasValue {
		return 0, fmt.Errorf("unsupported play duration format: %q", s)
	}
	return total, nil
}

// Entitlement is one owned-game record from the entitlements endpoint.
type Entitlement struct {
	ID              string          `json:"id"`
	EntitlementType int             `json:"entitlementType"`
	TitleMeta       json.RawMessage `json:"titleMeta,omitempty"`
	GameMeta        json.RawMessage `json:"gameMeta,omitempty"`
	ConceptMeta     json.RawMessage `json:"conceptMeta,omitempty"`
	ActiveDate      *time.Time      `json:"activeDate,omitempty"`
}
