// Package geocode resolves postal addresses to coordinates through a
// Nominatim compatible search endpoint.
package geocode

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

var ErrNoResult = errors.New("geocode: no result")

type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Geocoder is what the map service needs from a lookup backend.
type Geocoder interface {
	Lookup(ctx context.Context, address string) (Point, error)
}

type Nominatim struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

func NewNominatim(baseURL, userAgent string, hc *http.Client) *Nominatim {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Nominatim{baseURL: strings.TrimRight(baseURL, "/"), userAgent: userAgent, http: hc}
}

type place struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Lookup returns the first match for address.
func (n *Nominatim) Lookup(ctx context.Context, address string) (Point, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return Point{}, ErrNoResult
	}
	q := url.Values{}
	q.Set("format", "json")
	q.Set("q", address)
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return Point{}, err
	}
	if n.userAgent != "" {
		req.Header.Set("User-Agent", n.userAgent)
	}
	req.Header.Set("Accept-Language", "ja")

	resp, err := n.http.Do(req)
	if err != nil {
		return Point{}, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Point{}, fmt.Errorf("geocode: unexpected status %d", resp.StatusCode)
	}

	var places []place
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&places); err != nil {
		return Point{}, fmt.Errorf("geocode decode: %w", err)
	}
	if len(places) == 0 {
		return Point{}, ErrNoResult
	}
	lat, errLat := strconv.ParseFloat(places[0].Lat, 64)
	lng, errLng := strconv.ParseFloat(places[0].Lon, 64)
	if errLat != nil || errLng != nil {
		return Point{}, fmt.Errorf("geocode: bad coordinates %q,%q", places[0].Lat, places[0].Lon)
	}
	return Point{Lat: lat, Lng: lng}, nil
}
