// Package airquality fetches station readings and forecasts from the WAQI
// feed API.
package airquality

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrNoData means the station is known but reports no current AQI.
	ErrNoData = errors.New("station reports no data")
	// ErrUnknownStation is returned for stations the provider does not know.
	ErrUnknownStation = errors.New("unknown station")
)

type DailyForecast struct {
	Pollutant string
	Day       string
	Avg       int
	Min       int
	Max       int
}

// Feed is the current state of one station.
type Feed struct {
	StationID         string
	City              string
	AQI               int
	DominantPollutant string
	MeasuredAt        time.Time
	Forecast          []DailyForecast
}

// Provider returns the feed of a station.
type Provider interface {
	Feed(ctx context.Context, stationID string) (*Feed, error)
}

type Config struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		httpClient: client,
	}
}

type feedEnvelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

type feedData struct {
	// number, or "-" when the station is offline
	AQI  json.RawMessage `json:"aqi"`
	City struct {
		Name string `json:"name"`
	} `json:"city"`
	DominentPol string `json:"dominentpol"`
	Time        struct {
		ISO string `json:"iso"`
		V   int64  `json:"v"`
	} `json:"time"`
	Forecast struct {
		Daily map[string][]struct {
			Avg int    `json:"avg"`
			Day string `json:"day"`
			Max int    `json:"max"`
			Min int    `json:"min"`
		} `json:"daily"`
	} `json:"forecast"`
}

// Feed fetches /feed/{station}/. Station ids are city names or "@<idx>".
func (c *Client) Feed(ctx context.Context, stationID string) (*Feed, error) {
	endpoint := fmt.Sprintf("%s/feed/%s/?token=%s", c.baseURL, url.PathEscape(stationID), url.QueryEscape(c.token))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build feed request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed endpoint returned status %d", resp.StatusCode)
	}

	var env feedEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to decode feed: %w", err)
	}
	if env.Status != "ok" {
		var msg string
		_ = json.Unmarshal(env.Data, &msg)
		if strings.Contains(strings.ToLower(msg), "unknown station") {
			return nil, fmt.Errorf("%w: %s", ErrUnknownStation, stationID)
		}
		return nil, fmt.Errorf("feed error: %s", msg)
	}

	var data feedData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to decode feed data: %w", err)
	}

	aqi, err := parseAQI(data.AQI)
	if err != nil {
		return nil, err
	}

	feed := &Feed{
		StationID:         stationID,
		City:              data.City.Name,
		AQI:               aqi,
		DominantPollutant: data.DominentPol,
		MeasuredAt:        measuredAt(data.Time.ISO, data.Time.V),
	}
	for pollutant, days := range data.Forecast.Daily {
		for _, d := range days {
			feed.Forecast = append(feed.Forecast, DailyForecast{
				Pollutant: pollutant,
				Day:       d.Day,
				Avg:       d.Avg,
				Min:       d.Min,
				Max:       d.Max,
			})
		}
	}
	sort.Slice(feed.Forecast, func(i, j int) bool {
		a, b := feed.Forecast[i], feed.Forecast[j]
		if a.Day != b.Day {
			return a.Day < b.Day
		}
		return a.Pollutant < b.Pollutant
	})
	return feed, nil
}

func parseAQI(raw json.RawMessage) (int, error) {
	s := strings.Trim(string(raw), `"`)
	if s == "" || s == "-" {
		return 0, ErrNoData
	}
	aqi, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid aqi value %q", s)
	}
	return aqi, nil
}

func measuredAt(iso string, unix int64) time.Time {
	if t, err := time.Parse(time.RFC3339, iso); err == nil {
		return t.UTC()
	}
	if unix > 0 {
		return time.Unix(unix, 0).UTC()
	}
	return time.Now().UTC().Truncate(time.Hour)
}
