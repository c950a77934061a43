package estatyfetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"offplan-service/internal/contextkeys"
	"offplan-service/internal/core/port"

	"github.com/gocolly/colly/v2"
	"github.com/gocolly/colly/v2/extensions"
)

// Config - адреса и ключ API внешнего каталога
type Config struct {
	APIKey        string
	ListingURL    string
	PropertyURL   string
	FiltersURL    string
	DetailTimeout time.Duration
	RequestDelay  time.Duration
}

// EstatyFetcherAdapter отвечает за все взаимодействия с API Estaty
type EstatyFetcherAdapter struct {
	// один родительский коллектор, который разделяет лимиты
	collector *colly.Collector
	cfg       Config
}

var errUnexpectedStatus = errors.New("unexpected response status")

// NewEstatyFetcherAdapter - конструктор
func NewEstatyFetcherAdapter(cfg Config) (*EstatyFetcherAdapter, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("estaty API key is required")
	}

	domains, err := allowedDomains(cfg.ListingURL, cfg.PropertyURL, cfg.FiltersURL)
	if err != nil {
		return nil, err
	}

	// POST-запросы на один и тот же URL различаются только телом, поэтому повторные визиты разрешены
	c := colly.NewCollector(colly.AllowedDomains(domains...), colly.AllowURLRevisit())

	err = c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 1,
		Delay:       cfg.RequestDelay,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set limit rule: %w", err)
	}

	if cfg.DetailTimeout <= 0 {
		cfg.DetailTimeout = 10 * time.Second
	}

	return &EstatyFetcherAdapter{
		collector: c,
		cfg:       cfg,
	}, nil
}

func allowedDomains(rawURLs ...string) ([]string, error) {
	seen := make(map[string]bool)
	var domains []string
	for _, raw := range rawURLs {
		u, err := url.Parse(raw)
		if err != nil || u.Hostname() == "" {
			return nil, fmt.Errorf("invalid estaty endpoint %q", raw)
		}
		if !seen[u.Hostname()] {
			seen[u.Hostname()] = true
			domains = append(domains, u.Hostname())
		}
	}
	return domains, nil
}

// post выполняет POST с JSON-телом и возвращает тело ответа.
// Ответ со статусом, отличным от 200, считается ошибкой.
func (a *EstatyFetcherAdapter) post(ctx context.Context, targetURL string, body []byte) ([]byte, int, error) {
	logger := contextkeys.LoggerFromContext(ctx)

	// наследует лимиты, но Clone не копирует обработчики, поэтому заголовки ставятся здесь
	collector := a.collector.Clone()
	collector.Context = ctx

	extensions.RandomUserAgent(collector) // На каждый запрос будет подставлен User-Agent реального браузера
	collector.OnRequest(func(r *colly.Request) {
		r.Headers.Set("App-key", a.cfg.APIKey)
		r.Headers.Set("Content-Type", "application/json")
		r.Headers.Set("Accept", "application/json")
	})

	var (
		respBody []byte
		status   int
	)

	collector.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		respBody = r.Body
	})

	collector.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
	})

	logger.Debug("Making request", port.Fields{"url": targetURL})
	if err := collector.PostRaw(targetURL, body); err != nil {
		return nil, status, fmt.Errorf("estaty adapter: request to %s failed: %w", targetURL, err)
	}
	collector.Wait()

	if status != http.StatusOK {
		return nil, status, fmt.Errorf("estaty adapter: %w %d from %s", errUnexpectedStatus, status, targetURL)
	}
	return respBody, status, nil
}
