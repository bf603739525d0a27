package airquality

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const okFeed = `{
  "status": "ok",
  "data": {
    "aqi": 72,
    "idx": 8166,
    "city": {"name": "Istanbul, Turkey"},
    "dominentpol": "pm25",
    "time": {"s": "2026-10-14 10:00:00", "tz": "+03:00", "v": 1792000800, "iso": "2026-10-14T10:00:00+03:00"},
    "forecast": {
      "daily": {
        "pm25": [{"avg": 60, "day": "2026-10-14", "max": 80, "min": 40}, {"avg": 55, "day": "2026-10-15", "max": 70, "min": 30}],
        "o3": [{"avg": 20, "day": "2026-10-14", "max": 30, "min": 10}]
      }
    }
  }
}`

func newTestClient(t *testing.T, body string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.URL.Query().Get("token"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL, Token: "secret", HTTPClient: srv.Client()})
}

func TestFeed(t *testing.T) {
	c := newTestClient(t, okFeed)

	feed, err := c.Feed(context.Background(), "@8166")
	require.NoError(t, err)

	assert.Equal(t, "@8166", feed.StationID)
	assert.Equal(t, "Istanbul, Turkey", feed.City)
	assert.Equal(t, 72, feed.AQI)
	assert.Equal(t, "pm25", feed.DominantPollutant)
	assert.Equal(t, time.Date(2026, 10, 14, 7, 0, 0, 0, time.UTC), feed.MeasuredAt)

	require.Len(t, feed.Forecast, 3)
	assert.Equal(t, DailyForecast{Pollutant: "o3", Day: "2026-10-14", Avg: 20, Min: 10, Max: 30}, feed.Forecast[0])
	assert.Equal(t, "pm25", feed.Forecast[1].Pollutant)
	assert.Equal(t, "2026-10-15", feed.Forecast[2].Day)
}

func TestFeed_OfflineStation(t *testing.T) {
	c := newTestClient(t, `{"status":"ok","data":{"aqi":"-","city":{"name":"X"},"time":{}}}`)

	_, err := c.Feed(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNoData)
}

func TestFeed_UnknownStation(t *testing.T) {
	c := newTestClient(t, `{"status":"error","data":"Unknown station"}`)

	_, err := c.Feed(context.Background(), "nowhere")
	assert.ErrorIs(t, err, ErrUnknownStation)
}

func TestFeed_ProviderError(t *testing.T) {
	c := newTestClient(t, `{"status":"error","data":"Invalid key"}`)

	_, err := c.Feed(context.Background(), "istanbul")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid key")
}

func TestParseAQI_QuotedNumber(t *testing.T) {
	aqi, err := parseAQI([]byte(`"105"`))
	require.NoError(t, err)
	assert.Equal(t, 105, aqi)
}
