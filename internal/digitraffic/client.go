package digitraffic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/models"
	resty "gopkg.in/resty.v1"
)

// DefaultBaseURL is the public Digitraffic rail API
const DefaultBaseURL = "https://rata.digitraffic.fi/api/v1"

// ErrNoStation is returned when a schedule is requested without a station code
var ErrNoStation = errors.New("no station selected")

// StatusError is returned when the API answers with a non-2xx status
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.Endpoint, e.StatusCode)
}

// Options configures a Client
type Options struct {
	BaseURL         string
	Timeout         time.Duration
	UserAgent       string
	ArrivingTrains  int
	DepartingTrains int
}

// Client fetches the station catalog and live station schedules
type Client struct {
	http            *resty.Client
	arrivingTrains  int
	departingTrains int
}

// NewClient creates a Digitraffic client
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "junat/1.0"
	}

	httpClient := resty.New().
		SetHostURL(strings.TrimRight(opts.BaseURL, "/")).
		SetTimeout(opts.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("Digitraffic-User", opts.UserAgent)

	return &Client{
		http:            httpClient,
		arrivingTrains:  opts.ArrivingTrains,
		departingTrains: opts.DepartingTrains,
	}
}

// Stations fetches the full station catalog
func (c *Client) Stations(ctx context.Context) ([]models.Station, error) {
	var stations []models.Station
	if err := c.getJSON(ctx, "/metadata/stations", nil, &stations); err != nil {
		return nil, err
	}
	return stations, nil
}

// LiveTrains fetches the bounded window of arriving and departing trains for a
// station, excluding trains that pass without stopping
func (c *Client) LiveTrains(ctx context.Context, stationCode string) ([]models.Train, error) {
	if stationCode == "" {
		return nil, ErrNoStation
	}

	params := map[string]string{
		"station":             stationCode,
		"arriving_trains":     strconv.Itoa(c.arrivingTrains),
		"departing_trains":    strconv.Itoa(c.departingTrains),
		"include_nonstopping": "false",
	}

	var trains []models.Train
	if err := c.getJSON(ctx, "/live-trains", params, &trains); err != nil {
		return nil, err
	}
	return trains, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, params map[string]string, out interface{}) error {
	req := c.http.R().SetContext(ctx)
	if params != nil {
		req.SetQueryParams(params)
	}

	resp, err := req.Get(endpoint)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", endpoint, err)
	}

	if !resp.IsSuccess() {
		return &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode()}
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return nil
}
