package frost

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// DefaultZipBaseURL is the Zippopotam.us API.
const DefaultZipBaseURL = "https://api.zippopotam.us"

// Place is a geocoded ZIP code.
type Place struct {
	ZIP       string
	Name      string
	Latitude  float64
	Longitude float64
}

// ZipLocator geocodes US ZIP codes with the Zippopotam.us API.
type ZipLocator struct {
	baseURL string
	client  *http.Client
}

// NewZipLocator creates a locator. An empty baseURL uses DefaultZipBaseURL.
func NewZipLocator(baseURL string) *ZipLocator {
	if baseURL == "" {
		baseURL = DefaultZipBaseURL
	}
	return &ZipLocator{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

type zipResponse struct {
	PostCode string `json:"post code"`
	Places   []struct {
		PlaceName         string `json:"place name"`
		StateAbbreviation string `json:"state abbreviation"`
		Latitude          any    `json:"latitude"`
		Longitude         any    `json:"longitude"`
	} `json:"places"`
}

// Locate returns the place for a five digit ZIP code.
func (z *ZipLocator) Locate(ctx context.Context, zip string) (Place, error) {
	endpoint := fmt.Sprintf("%s/us/%s", z.baseURL, url.PathEscape(zip))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Place{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := z.client.Do(req)
	if err != nil {
		return Place{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return Place{}, fmt.Errorf("%s: %w", zip, ErrZIPNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return Place{}, fmt.Errorf("geocoder returned non-200 status: %d", resp.StatusCode)
	}

	rawData, err := io.ReadAll(resp.Body)
	if err != nil {
		return Place{}, fmt.Errorf("failed to read response body: %w", err)
	}
	var zr zipResponse
	if err := json.Unmarshal(rawData, &zr); err != nil {
		return Place{}, fmt.Errorf("failed to parse geocoder response: %w", err)
	}
	if len(zr.Places) == 0 {
		return Place{}, fmt.Errorf("%s: %w", zip, ErrZIPNotFound)
	}

	// Coordinates arrive as strings.
	p := zr.Places[0]
	lat, err := cast.ToFloat64E(p.Latitude)
	if err != nil {
		return Place{}, fmt.Errorf("invalid latitude %v: %w", p.Latitude, err)
	}
	lon, err := cast.ToFloat64E(p.Longitude)
	if err != nil {
		return Place{}, fmt.Errorf("invalid longitude %v: %w", p.Longitude, err)
	}

	name := p.PlaceName
	if p.StateAbbreviation != "" {
		name += ", " + p.StateAbbreviation
	}
	return Place{ZIP: zip, Name: name, Latitude: lat, Longitude: lon}, nil
}
