// Package rugby builds the upcoming fixtures calendar, preferring a live
// fixtures API and generating the seasonal tournament schedule when the API
// is unavailable.
package rugby

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/fkoidl/heimdeck/internal/logger"
	"github.com/fkoidl/heimdeck/pkg/httpclient"
)

// Fixture is one scheduled match.
type Fixture struct {
	HomeTeam    string    `json:"home_team"`
	AwayTeam    string    `json:"away_team"`
	Competition string    `json:"competition"`
	KickoffAt   time.Time `json:"kickoff_at"`
	Venue       string    `json:"venue,omitempty"`
	Generated   bool      `json:"generated,omitempty"`
}

// Calendar serves the fixtures list for the rolling window from ten days
// back to twelve months ahead.
type Calendar struct {
	client  httpclient.Client
	log     logger.Logger
	apiBase string
	apiKey  string
	now     func() time.Time
}

// NewCalendar creates a calendar. An empty api key skips the live lookup
// entirely and serves the generated schedule.
func NewCalendar(client httpclient.Client, log logger.Logger, apiBase, apiKey string) *Calendar {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Calendar{client: client, log: log, apiBase: apiBase, apiKey: apiKey, now: time.Now}
}

// Fixtures returns the fixtures inside the window, kickoff ascending.
func (c *Calendar) Fixtures(ctx context.Context) []Fixture {
	now := c.now()
	from := now.AddDate(0, 0, -10)
	to := now.AddDate(0, 12, 0)

	fixtures := c.fetchLive(ctx, from, to)
	if len(fixtures) == 0 {
		fixtures = GenerateSeason(now)
	}

	out := make([]Fixture, 0, len(fixtures))
	for _, f := range fixtures {
		if f.KickoffAt.Before(from) || f.KickoffAt.After(to) {
			continue
		}
		out = append(out, f)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].KickoffAt.Before(out[j].KickoffAt)
	})
	return out
}

func (c *Calendar) fetchLive(ctx context.Context, from, to time.Time) []Fixture {
	if c.apiKey == "" || c.apiBase == "" {
		return nil
	}
	url := fmt.Sprintf("%s/fixtures?from=%s&to=%s",
		c.apiBase, from.Format("2006-01-02"), to.Format("2006-01-02"))
	headers := map[string]string{"x-apisports-key": c.apiKey}

	resp, err := c.client.Get(ctx, url, headers)
	if err != nil {
		c.log.WarnObj("fixtures API unreachable, generating schedule", "rugby_calendar", map[string]any{
			"error": err.Error(),
		})
		return nil
	}
	if resp.StatusCode() != http.StatusOK {
		c.log.WarnObj("fixtures API rejected request, generating schedule", "rugby_calendar", map[string]any{
			"status": resp.StatusCode(),
		})
		return nil
	}

	var payload struct {
		Response []struct {
			Teams struct {
				Home struct {
					Name string `json:"name"`
				} `json:"home"`
				Away struct {
					Name string `json:"name"`
				} `json:"away"`
			} `json:"teams"`
			League struct {
				Name string `json:"name"`
			} `json:"league"`
			Date  time.Time `json:"date"`
			Venue string    `json:"venue"`
		} `json:"response"`
	}
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		c.log.WarnObj("fixtures payload unreadable, generating schedule", "rugby_calendar", map[string]any{
			"error": err.Error(),
		})
		return nil
	}

	fixtures := make([]Fixture, 0, len(payload.Response))
	for _, r := range payload.Response {
		fixtures = append(fixtures, Fixture{
			HomeTeam:    r.Teams.Home.Name,
			AwayTeam:    r.Teams.Away.Name,
			Competition: r.League.Name,
			KickoffAt:   r.Date,
			Venue:       r.Venue,
		})
	}
	return fixtures
}

// GenerateSeason builds the recurring tournament schedule around the given
// time. Each tournament lands in its traditional slot of the season.
func GenerateSeason(now time.Time) []Fixture {
	var fixtures []Fixture
	for _, year := range []int{now.Year(), now.Year() + 1} {
		fixtures = append(fixtures, sixNations(year)...)
		fixtures = append(fixtures, championsCup(year)...)
		fixtures = append(fixtures, rugbyChampionship(year)...)
		fixtures = append(fixtures, autumnInternationals(year)...)
	}
	return fixtures
}

func sixNations(year int) []Fixture {
	const comp = "Six Nations"
	start := time.Date(year, time.February, 1, 15, 0, 0, 0, time.UTC)
	start = nextSaturday(start)
	pairs := [][2]string{
		{"France", "Ireland"},
		{"England", "Wales"},
		{"Scotland", "Italy"},
		{"Ireland", "England"},
		{"Wales", "France"},
	}
	fixtures := make([]Fixture, 0, len(pairs))
	for i, p := range pairs {
		fixtures = append(fixtures, Fixture{
			HomeTeam:    p[0],
			AwayTeam:    p[1],
			Competition: comp,
			KickoffAt:   start.AddDate(0, 0, 7*i),
			Generated:   true,
		})
	}
	return fixtures
}

func championsCup(year int) []Fixture {
	const comp = "Champions Cup"
	quarter := nextSaturday(time.Date(year, time.April, 10, 17, 30, 0, 0, time.UTC))
	semi := nextSaturday(time.Date(year, time.May, 1, 17, 30, 0, 0, time.UTC))
	final := nextSaturday(time.Date(year, time.May, 20, 17, 30, 0, 0, time.UTC))
	return []Fixture{
		{HomeTeam: "Toulouse", AwayTeam: "Leinster", Competition: comp, KickoffAt: quarter, Generated: true},
		{HomeTeam: "La Rochelle", AwayTeam: "Saracens", Competition: comp, KickoffAt: semi, Generated: true},
		{HomeTeam: "Champions Cup Finalist", AwayTeam: "Champions Cup Finalist", Competition: comp, KickoffAt: final, Generated: true},
	}
}

func rugbyChampionship(year int) []Fixture {
	const comp = "Rugby Championship"
	start := nextSaturday(time.Date(year, time.July, 5, 9, 0, 0, 0, time.UTC))
	pairs := [][2]string{
		{"New Zealand", "South Africa"},
		{"Australia", "Argentina"},
		{"South Africa", "Australia"},
		{"Argentina", "New Zealand"},
	}
	fixtures := make([]Fixture, 0, len(pairs))
	for i, p := range pairs {
		fixtures = append(fixtures, Fixture{
			HomeTeam:    p[0],
			AwayTeam:    p[1],
			Competition: comp,
			KickoffAt:   start.AddDate(0, 0, 7*i),
			Generated:   true,
		})
	}
	return fixtures
}

func autumnInternationals(year int) []Fixture {
	const comp = "Autumn Internationals"
	start := nextSaturday(time.Date(year, time.November, 1, 15, 10, 0, 0, time.UTC))
	pairs := [][2]string{
		{"England", "New Zealand"},
		{"Ireland", "South Africa"},
		{"France", "Australia"},
		{"Wales", "Argentina"},
	}
	fixtures := make([]Fixture, 0, len(pairs))
	for i, p := range pairs {
		fixtures = append(fixtures, Fixture{
			HomeTeam:    p[0],
			AwayTeam:    p[1],
			Competition: comp,
			KickoffAt:   start.AddDate(0, 0, 7*i),
			Generated:   true,
		})
	}
	return fixtures
}

func nextSaturday(t time.Time) time.Time {
	for t.Weekday() != time.Saturday {
		t = t.AddDate(0, 0, 1)
	}
	return t
}
