package rmv

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// ExtID is a HAFAS station reference. The API returns it either as a string or as a number
type ExtID string

func (e *ExtID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var value string
		if err := json.Unmarshal(data, &value); err != nil {
			return err
		}
		*e = ExtID(value)
		return nil
	}

	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return fmt.Errorf("extId is neither string nor number: %w", err)
	}
	*e = ExtID(number.String())

	return nil
}

type TripResponse struct {
	Trips []HafasTrip `json:"Trip"`
}

type HafasTrip struct {
	Origin      HafasStop `json:"Origin"`
	Destination HafasStop `json:"Destination"`
	Duration    string    `json:"duration"`
	LegList     struct {
		Legs []HafasLeg `json:"Leg"`
	} `json:"LegList"`
}

type HafasLeg struct {
	Origin      HafasStop `json:"Origin"`
	Destination HafasStop `json:"Destination"`
	Name        string    `json:"name"`
}

type HafasStop struct {
	Name  string `json:"name"`
	ExtID ExtID  `json:"extId"`
	Date  string `json:"date"`
	Time  string `json:"time"`
}

// TripFetcher performs the single upstream trip search
type TripFetcher interface {
	Trip(ctx context.Context, query TripQuery) (*TripResponse, error)
}

type Client struct {
	BaseURL    string
	AccessID   string
	HTTPClient *http.Client
}

func (c *Client) tripURL(query TripQuery) string {
	params := url.Values{}
	params.Set("accessId", c.AccessID)
	params.Set("originId", query.OriginID)
	params.Set("destId", query.DestinationID)
	if query.Time != "" {
		params.Set("time", query.Time)
	}
	if query.Date != "" {
		params.Set("date", query.Date)
	}
	params.Set("format", "json")

	return fmt.Sprintf("%s/trip?%s", strings.TrimSuffix(c.BaseURL, "/"), params.Encode())
}

func (c *Client) Trip(ctx context.Context, query TripQuery) (*TripResponse, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.tripURL(query), nil)
	if err != nil {
		return nil, err
	}
	request.Header.Set("Accept", "application/json")

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	response, err := httpClient.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, fmt.Errorf("trip request returned %s", strconv.Itoa(response.StatusCode))
	}

	var tripResponse TripResponse
	if err := json.NewDecoder(response.Body).Decode(&tripResponse); err != nil {
		return nil, fmt.Errorf("decode trip response: %w", err)
	}

	log.Debug().
		Str("origin", query.OriginID).
		Str("destination", query.DestinationID).
		Int("trips", len(tripResponse.Trips)).
		Msg("Fetched RMV trips")

	return &tripResponse, nil
}
