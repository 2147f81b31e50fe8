package frost

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/stsysd/niwa/schedule"
)

// DefaultClimateBaseURL is the Open-Meteo historical weather API.
const DefaultClimateBaseURL = "https://archive-api.open-meteo.com"

// DefaultHistoryYears is the number of past years examined.
const DefaultHistoryYears = 10

// ClimateHistory estimates the last spring frost from daily minimum
// temperatures of past years.
type ClimateHistory struct {
	baseURL string
	years   int
	client  *http.Client
	now     func() time.Time
}

// NewClimateHistory creates a client. An empty baseURL uses
// DefaultClimateBaseURL and years < 1 uses DefaultHistoryYears.
func NewClimateHistory(baseURL string, years int) *ClimateHistory {
	if baseURL == "" {
		baseURL = DefaultClimateBaseURL
	}
	if years < 1 {
		years = DefaultHistoryYears
	}
	return &ClimateHistory{
		baseURL: strings.TrimRight(baseURL, "/"),
		years:   years,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		now: time.Now,
	}
}

type archiveResponse struct {
	Daily struct {
		Time             []string   `json:"time"`
		Temperature2mMin []*float64 `json:"temperature_2m_min"`
	} `json:"daily"`
}

// LastFrostDay returns the median last spring frost day over the history,
// as a day of the reference year.
func (c *ClimateHistory) LastFrostDay(ctx context.Context, lat, lon float64) (int, error) {
	endYear := c.now().Year() - 1
	startYear := endYear - c.years + 1

	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', 4, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', 4, 64))
	q.Set("start_date", fmt.Sprintf("%04d-01-01", startYear))
	q.Set("end_date", fmt.Sprintf("%04d-06-30", endYear))
	q.Set("daily", "temperature_2m_min")
	q.Set("timezone", "auto")
	endpoint := c.baseURL + "/v1/archive?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("climate API returned non-200 status: %d", resp.StatusCode)
	}

	rawData, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read response body: %w", err)
	}
	var ar archiveResponse
	if err := json.Unmarshal(rawData, &ar); err != nil {
		return 0, fmt.Errorf("failed to parse climate response: %w", err)
	}

	return MedianLastFrost(ar.Daily.Time, ar.Daily.Temperature2mMin)
}

// MedianLastFrost finds, for each year, the last day before July 1 whose
// minimum temperature is at or below 0°C, and returns the median of those
// days mapped onto the reference year. Missing readings are skipped.
func MedianLastFrost(dates []string, mins []*float64) (int, error) {
	lastByYear := make(map[int]int)
	for i, d := range dates {
		if i >= len(mins) || mins[i] == nil || *mins[i] > 0 {
			continue
		}
		t, err := time.Parse("2006-01-02", d)
		if err != nil || t.Month() >= time.July {
			continue
		}
		day := schedule.DateToDay(t)
		if day > lastByYear[t.Year()] {
			lastByYear[t.Year()] = day
		}
	}
	if len(lastByYear) == 0 {
		return 0, ErrNoFrostRecorded
	}

	days := make([]int, 0, len(lastByYear))
	for _, day := range lastByYear {
		days = append(days, day)
	}
	sort.Ints(days)
	mid := len(days) / 2
	if len(days)%2 == 1 {
		return days[mid], nil
	}
	return schedule.AnchorOrDefault(float64(days[mid-1]+days[mid]) / 2), nil
}

// ClimateResolver geocodes a ZIP code and estimates its frost anchor from
// climate history.
type ClimateResolver struct {
	locator *ZipLocator
	history *ClimateHistory
}

// NewClimateResolver creates a resolver from its two clients.
func NewClimateResolver(locator *ZipLocator, history *ClimateHistory) *ClimateResolver {
	return &ClimateResolver{locator: locator, history: history}
}

// Resolve returns the frost anchor for zip.
func (r *ClimateResolver) Resolve(ctx context.Context, zip string) (Anchor, error) {
	place, err := r.locator.Locate(ctx, zip)
	if err != nil {
		return Anchor{}, fmt.Errorf("failed to locate %s: %w", zip, err)
	}
	day, err := r.history.LastFrostDay(ctx, place.Latitude, place.Longitude)
	if err != nil {
		return Anchor{}, fmt.Errorf("failed to estimate frost for %s: %w", zip, err)
	}
	return Anchor{
		ZIP:       zip,
		Place:     place.Name,
		Latitude:  place.Latitude,
		Longitude: place.Longitude,
		FrostDay:  day,
		Source:    SourceClimate,
	}, nil
}

// Name returns the resolver name.
func (r *ClimateResolver) Name() string {
	return "Open-Meteo"
}

var _ Resolver = (*ClimateResolver)(nil)
