package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"wayfarer/logger"
	"wayfarer/metrics"
)

type Weather struct {
	Location    string  `json:"location"`
	TempC       float64 `json:"temp_c"`
	Condition   string  `json:"condition"`
	Humidity    int     `json:"humidity"`
	WindKph     float64 `json:"wind_kph"`
	Source      string  `json:"source"`
}

type ForecastDay struct {
	Date      string  `json:"date"`
	MaxTempC  float64 `json:"max_temp_c"`
	MinTempC  float64 `json:"min_temp_c"`
	Condition string  `json:"condition"`
}

type Forecast struct {
	Location string        `json:"location"`
	Days     []ForecastDay `json:"days"`
	Source   string        `json:"source"`
}

// WeatherSummary bundles current conditions with a short forecast, as
// attached to the top recommended destination.
type WeatherSummary struct {
	Current  Weather  `json:"current"`
	Forecast Forecast `json:"forecast"`
}

type WeatherClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

func NewWeatherClient(apiKey string, timeout time.Duration) *WeatherClient {
	return &WeatherClient{
		apiKey:     apiKey,
		baseURL:    "https://api.weatherapi.com/v1",
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.Named("weather"),
	}
}

// Current returns current conditions for a location, degrading to a mild
// mock reading when the API is unavailable.
func (c *WeatherClient) Current(ctx context.Context, location string) Weather {
	if c.apiKey != "" {
		if w, err := c.fetchCurrent(ctx, location); err == nil {
			return w
		} else {
			c.log.Warn("current weather fetch failed", zap.String("location", location), zap.Error(err))
		}
	}

	metrics.GatewayFallbacks.WithLabelValues("weather").Inc()
	return Weather{
		Location:  location,
		TempC:     22,
		Condition: "Sunny",
		Humidity:  65,
		WindKph:   10,
		Source:    SourceFallback,
	}
}

// ForecastDays returns an up-to-days forecast, mock on failure.
func (c *WeatherClient) ForecastDays(ctx context.Context, location string, days int) Forecast {
	if days <= 0 || days > 10 {
		days = 7
	}

	if c.apiKey != "" {
		if f, err := c.fetchForecast(ctx, location, days); err == nil {
			return f
		} else {
			c.log.Warn("forecast fetch failed", zap.String("location", location), zap.Error(err))
		}
	}

	metrics.GatewayFallbacks.WithLabelValues("weather").Inc()
	f := Forecast{Location: location, Source: SourceFallback}
	start := time.Now()
	for i := 0; i < days; i++ {
		f.Days = append(f.Days, ForecastDay{
			Date:      start.AddDate(0, 0, i).Format("2006-01-02"),
			MaxTempC:  25,
			MinTempC:  17,
			Condition: "Partly cloudy",
		})
	}
	return f
}

// Summary is the best-effort enrichment used by the orchestrator.
func (c *WeatherClient) Summary(ctx context.Context, place string) *WeatherSummary {
	return &WeatherSummary{
		Current:  c.Current(ctx, place),
		Forecast: c.ForecastDays(ctx, place, 3),
	}
}

func (c *WeatherClient) fetchCurrent(ctx context.Context, location string) (Weather, error) {
	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("q", location)

	body, err := c.get(ctx, "/current.json?"+q.Encode())
	if err != nil {
		return Weather{}, err
	}

	var resp struct {
		Location struct {
			Name string `json:"name"`
		} `json:"location"`
		Current struct {
			TempC     float64 `json:"temp_c"`
			Humidity  int     `json:"humidity"`
			WindKph   float64 `json:"wind_kph"`
			Condition struct {
				Text string `json:"text"`
			} `json:"condition"`
		} `json:"current"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return Weather{}, fmt.Errorf("failed to parse weather response: %w", err)
	}

	return Weather{
		Location:  resp.Location.Name,
		TempC:     resp.Current.TempC,
		Condition: resp.Current.Condition.Text,
		Humidity:  resp.Current.Humidity,
		WindKph:   resp.Current.WindKph,
		Source:    SourceLive,
	}, nil
}

func (c *WeatherClient) fetchForecast(ctx context.Context, location string, days int) (Forecast, error) {
	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("q", location)
	q.Set("days", fmt.Sprintf("%d", days))

	body, err := c.get(ctx, "/forecast.json?"+q.Encode())
	if err != nil {
		return Forecast{}, err
	}

	var resp struct {
		Location struct {
			Name string `json:"name"`
		} `json:"location"`
		Forecast struct {
			ForecastDay []struct {
				Date string `json:"date"`
				Day  struct {
					MaxTempC  float64 `json:"maxtemp_c"`
					MinTempC  float64 `json:"mintemp_c"`
					Condition struct {
						Text string `json:"text"`
					} `json:"condition"`
				} `json:"day"`
			} `json:"forecastday"`
		} `json:"forecast"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return Forecast{}, fmt.Errorf("failed to parse forecast response: %w", err)
	}

	f := Forecast{Location: resp.Location.Name, Source: SourceLive}
	for _, d := range resp.Forecast.ForecastDay {
		f.Days = append(f.Days, ForecastDay{
			Date:      d.Date,
			MaxTempC:  d.Day.MaxTempC,
			MinTempC:  d.Day.MinTempC,
			Condition: d.Day.Condition.Text,
		})
	}
	return f, nil
}

func (c *WeatherClient) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather API error (%d): %s", resp.StatusCode, string(body))
	}
	return body, nil
}
