// Package weather is the OpenWeatherMap client behind the display's weather cache.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"wall_display/internal/logger"
	"wall_display/internal/models"
)

const (
	DefaultBaseURL = "http://api.openweathermap.org/data/2.5"
	DefaultTimeout = 10 * time.Second
)

var ErrBadResponse = errors.New("bad weather response")

type Config struct {
	APIKey   string
	Location string // US zip code
	BaseURL  string
	Timeout  time.Duration
}

// Client fetches from the current-weather and 5-day forecast endpoints.
type Client struct {
	cfg  Config
	http *http.Client
	log  *logger.Logger
}

func NewClient(cfg Config, log *logger.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  log,
	}
}

type owmCondition struct {
	Main string `json:"main"`
	Icon string `json:"icon"`
}

type owmCurrent struct {
	Weather []owmCondition `json:"weather"`
	Main    struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
}

type owmForecast struct {
	List []struct {
		Dt      int64          `json:"dt"`
		Weather []owmCondition `json:"weather"`
	} `json:"list"`
}

// KelvinToFahrenheit uses 273 as the offset, matching what the display always showed.
func KelvinToFahrenheit(k float64) float64 {
	return 9*(k-273)/5 + 32
}

func (c *Client) FetchCurrentConditions(ctx context.Context) (models.CurrentConditions, error) {
	var resp owmCurrent
	if err := c.get(ctx, "weather", &resp); err != nil {
		return models.CurrentConditions{}, err
	}
	if len(resp.Weather) == 0 {
		return models.CurrentConditions{}, fmt.Errorf("%w: no conditions in current weather", ErrBadResponse)
	}
	return models.CurrentConditions{
		ConditionText: resp.Weather[0].Main,
		Temperature:   KelvinToFahrenheit(resp.Main.Temp),
		IconID:        resp.Weather[0].Icon,
	}, nil
}

func (c *Client) FetchForecast(ctx context.Context) (models.Forecast, error) {
	var resp owmForecast
	if err := c.get(ctx, "forecast", &resp); err != nil {
		return models.Forecast{}, err
	}
	out := models.Forecast{Entries: make([]models.ForecastEntry, 0, len(resp.List))}
	for _, item := range resp.List {
		e := models.ForecastEntry{Time: time.Unix(item.Dt, 0).UTC()}
		if len(item.Weather) > 0 {
			e.ConditionText = item.Weather[0].Main
			e.IconID = item.Weather[0].Icon
		}
		out.Entries = append(out.Entries, e)
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, endpoint string, dst any) error {
	v := url.Values{}
	v.Set("zip", c.cfg.Location)
	v.Set("appid", c.cfg.APIKey)
	u := c.cfg.BaseURL + "/" + endpoint + "?" + v.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build %s request: %w", endpoint, err)
	}

	c.log.Debugw("weather request", "endpoint", endpoint, "location", c.cfg.Location)
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", endpoint, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned %s", ErrBadResponse, endpoint, resp.Status)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrBadResponse, endpoint, err)
	}
	return nil
}
