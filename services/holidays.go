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

type Holiday struct {
	Name        string `json:"name"`
	Date        string `json:"date"`
	Description string `json:"description,omitempty"`
	Country     string `json:"country"`
}

type HolidayClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

func NewHolidayClient(apiKey string, timeout time.Duration) *HolidayClient {
	return &HolidayClient{
		apiKey:     apiKey,
		baseURL:    "https://calendarific.com/api/v2",
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.Named("holidays"),
	}
}

// Holidays lists public holidays for a country and year, mock on failure.
func (c *HolidayClient) Holidays(ctx context.Context, country string, year int) ([]Holiday, string) {
	if year == 0 {
		year = time.Now().Year()
	}

	if c.apiKey != "" {
		if hs, err := c.fetchHolidays(ctx, country, year); err == nil {
			return hs, SourceLive
		} else {
			c.log.Warn("holiday fetch failed", zap.String("country", country), zap.Error(err))
		}
	}

	metrics.GatewayFallbacks.WithLabelValues("holidays").Inc()
	return mockHolidays(country, year), SourceFallback
}

// Upcoming returns holidays falling within the next daysAhead days. Spans a
// year boundary when needed.
func (c *HolidayClient) Upcoming(ctx context.Context, country string, daysAhead int) ([]Holiday, string) {
	if daysAhead <= 0 {
		daysAhead = 90
	}

	today := time.Now()
	end := today.AddDate(0, 0, daysAhead)

	holidays, source := c.Holidays(ctx, country, today.Year())
	if end.Year() > today.Year() {
		next, _ := c.Holidays(ctx, country, end.Year())
		holidays = append(holidays, next...)
	}

	var upcoming []Holiday
	for _, h := range holidays {
		d, err := time.Parse("2006-01-02", h.Date)
		if err != nil {
			continue
		}
		if !d.Before(today.Truncate(24*time.Hour)) && !d.After(end) {
			upcoming = append(upcoming, h)
		}
	}
	return upcoming, source
}

func (c *HolidayClient) fetchHolidays(ctx context.Context, country string, year int) ([]Holiday, error) {
	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("country", country)
	q.Set("year", fmt.Sprintf("%d", year))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/holidays?"+q.Encode(), nil)
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
		return nil, fmt.Errorf("holiday API error (%d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		Meta struct {
			Code int `json:"code"`
		} `json:"meta"`
		Response struct {
			Holidays []struct {
				Name        string `json:"name"`
				Description string `json:"description"`
				Date        struct {
					ISO string `json:"iso"`
				} `json:"date"`
				Country struct {
					Name string `json:"name"`
				} `json:"country"`
			} `json:"holidays"`
		} `json:"response"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse holiday response: %w", err)
	}
	if result.Meta.Code != 200 {
		return nil, fmt.Errorf("holiday API meta code %d", result.Meta.Code)
	}

	holidays := make([]Holiday, 0, len(result.Response.Holidays))
	for _, h := range result.Response.Holidays {
		// ISO dates may carry a time component; keep the date part
		date := h.Date.ISO
		if len(date) > 10 {
			date = date[:10]
		}
		holidays = append(holidays, Holiday{
			Name:        h.Name,
			Date:        date,
			Description: h.Description,
			Country:     h.Country.Name,
		})
	}
	return holidays, nil
}

func mockHolidays(country string, year int) []Holiday {
	return []Holiday{
		{Name: "New Year's Day", Date: fmt.Sprintf("%d-01-01", year), Country: country},
		{Name: "Labour Day", Date: fmt.Sprintf("%d-05-01", year), Country: country},
		{Name: "National Day", Date: fmt.Sprintf("%d-07-04", year), Country: country},
		{Name: "Christmas Day", Date: fmt.Sprintf("%d-12-25", year), Country: country},
	}
}
