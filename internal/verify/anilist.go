// internal/verify/anilist.go
//
// Character verification against the AniList GraphQL API.
//
// One request per submission, hard 10 second timeout, no retries.
// Every failure mode — timeout, transport error, non-200, malformed body,
// no matching character — collapses to "not found": an unverifiable name
// must never be accepted.

package verify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/namegame/shiritori/internal/game"
)

// DefaultEndpoint is the public AniList GraphQL endpoint.
const DefaultEndpoint = "https://graphql.anilist.co"

const requestTimeout = 10 * time.Second

const characterQuery = `
query ($search: String) {
    Character(search: $search) {
        id
        name { full native }
        media { nodes { title { romaji english } } }
    }
}`

// Client implements game.Verifier against AniList.
type Client struct {
	endpoint string
	hc       *http.Client
	log      zerolog.Logger
}

// New constructs a Client. An empty endpoint selects the public API.
func New(endpoint string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint: endpoint,
		hc:       &http.Client{Timeout: requestTimeout},
		log:      log.With().Str("component", "anilist").Logger(),
	}
}

// anilist response shape, trimmed to the fields the game uses.
type characterResponse struct {
	Data struct {
		Character *struct {
			Name struct {
				Full   string `json:"full"`
				Native string `json:"native"`
			} `json:"name"`
			Media struct {
				Nodes []struct {
					Title struct {
						Romaji  string `json:"romaji"`
						English string `json:"english"`
					} `json:"title"`
				} `json:"nodes"`
			} `json:"media"`
		} `json:"Character"`
	} `json:"data"`
}

// Verify searches AniList for a character matching name.
func (c *Client) Verify(ctx context.Context, name string) (*game.CharacterInfo, bool) {
	body, err := json.Marshal(map[string]any{
		"query":     characterQuery,
		"variables": map[string]string{"search": name},
	})
	if err != nil {
		return nil, false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Msg("character lookup failed")
		return nil, false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		c.log.Warn().Int("status", resp.StatusCode).Msg("character lookup non-ok")
		return nil, false
	}

	var out characterResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		c.log.Warn().Err(err).Msg("character lookup bad body")
		return nil, false
	}
	ch := out.Data.Character
	if ch == nil || ch.Name.Full == "" {
		return nil, false
	}

	info := &game.CharacterInfo{Name: ch.Name.Full, NativeName: ch.Name.Native}
	if nodes := ch.Media.Nodes; len(nodes) > 0 {
		info.MediaTitle = nodes[0].Title.Romaji
		if info.MediaTitle == "" {
			info.MediaTitle = nodes[0].Title.English
		}
	}
	return info, true
}
