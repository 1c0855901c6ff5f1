package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayDurationUnmarshal(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{name: "hours minutes seconds", input: `"PT1H51M21S"`, want: time.Hour + 51*time.Minute + 21*time.Second},
		{name: "minutes only", input: `"PT45M"`, want: 45 * time.Minute},
		{name: "seconds only", input: `"PT9S"`, want: 9 * time.Second},
		{name: "hours only", input: `"PT100H"`, want: 100 * time.Hour},
		{name: "empty string is zero", input: `""`, want: 0},
		{name: "missing PT prefix", input: `"1H2M"`, wantErr: true},
		{name: "dangling digits", input: `"PT15"`, wantErr: true},
		{name: "unexpected unit", input: `"PT3W"`, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var d PlayDuration
			err := json.Unmarshal([]byte(tc.input), &d)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, d.Duration)
		})
	}
}

func TestPlayDurationRoundTrip(t *testing.T) {
	t.Parallel()

	d := PlayDuration{Duration: 2*time.Hour + 3*time.Minute + 4*time.Second}
	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"PT2H3M4S"`, string(data))

	var back PlayDuration
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, d.Duration, back.Duration)
}

func TestPlayDurationMarshalZero(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(PlayDuration{})
	require.NoError(t, err)
	assert.Equal(t, `"PT0S"`, string(data))
}

func TestTrophyTitlePlatforms(t *testing.T) {
	t.Parallel()

	title := TrophyTitle{TitlePlatform: "PS4, PS5"}
	assert.Equal(t, []PlatformType{PlatformPS4, PlatformPS5}, title.Platforms())

	empty := TrophyTitle{}
	assert.Nil(t, empty.Platforms())
}

func TestTrophyTitleDecode(t *testing.T) {
	t.Parallel()

	raw := `{
		"npServiceName": "trophy2",
		"npCommunicationId": "NPWR20188_00",
		"trophySetVersion": "01.00",
		"trophyTitleName": "ASTRO's PLAYROOM",
		"trophyTitleIconUrl": "https://image.example/icon.png",
		"trophyTitlePlatform": "PS5",
		"hasTrophyGroups": false,
		"progress": 100,
		"hiddenFlag": false,
		"earnedTrophies": {"bronze": 22, "silver": 15, "gold": 8, "platinum": 1},
		"definedTrophies": {"bronze": 22, "silver": 15, "gold": 8, "platinum": 1},
		"lastUpdatedDateTime": "2023-01-04T20:32:25Z"
	}`

	var title TrophyTitle
	require.NoError(t, json.Unmarshal([]byte(raw), &title))
	assert.Equal(t, "NPWR20188_00", title.NPCommunicationID)
	assert.Equal(t, 100, title.Progress)
	assert.Equal(t, 1, title.EarnedTrophies.Platinum)
	require.NotNil(t, title.LastUpdatedDateTime)
	assert.Equal(t, 2023, title.LastUpdatedDateTime.Year())
}

func TestSearchDomainString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "MobileGames", SearchDomainFullGames.String())
	assert.Equal(t, "MobileAddOns", SearchDomainAddOns.String())
	assert.Equal(t, "SocialAllAccounts", SearchDomainUsers.String())
}
