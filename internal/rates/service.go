package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/fintrack/fintrack/internal/cache"
)

const (
	upstreamURL = "https://open.er-api.com/v6/latest/USD"
	cacheKey    = "rates:usd"
)

// wanted lists the currencies surfaced to clients.
var wanted = []string{"TRY", "EUR", "GBP"}

// Rates is the client-facing view of the USD-based exchange rates.
type Rates struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

type upstreamResponse struct {
	BaseCode          string             `json:"base_code"`
	TimeLastUpdateUTC string             `json:"time_last_update_utc"`
	Rates             map[string]float64 `json:"rates"`
}

// Service proxies the external exchange-rate API, caching results in Redis so
// repeated lookups do not hammer the upstream.
type Service struct {
	client *http.Client
	cache  *cache.ViewCache[Rates]
}

func NewService(redisClient *goredis.Client, ttl time.Duration) *Service {
	return &Service{
		client: &http.Client{Timeout: 10 * time.Second},
		cache:  cache.NewViewCache[Rates](redisClient, ttl),
	}
}

// Latest returns the selected USD exchange rates, serving from cache when
// fresh enough.
func (s *Service) Latest(ctx context.Context) (*Rates, error) {
	if rates, ok := s.cache.Get(ctx, cacheKey); ok {
		return rates, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, upstreamURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch exchange rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("exchange rate upstream returned %d", resp.StatusCode)
	}

	var upstream upstreamResponse
	if err := json.NewDecoder(resp.Body).Decode(&upstream); err != nil {
		return nil, fmt.Errorf("failed to decode exchange rates: %w", err)
	}

	selected := make(map[string]float64, len(wanted))
	for _, code := range wanted {
		if rate, ok := upstream.Rates[code]; ok {
			selected[code] = rate
		}
	}

	rates := &Rates{
		Base:  upstream.BaseCode,
		Date:  upstream.TimeLastUpdateUTC,
		Rates: selected,
	}
	s.cache.Set(ctx, cacheKey, rates)
	return rates, nil
}
