// Package fmcsa is the registry lookup collaborator: it resolves a validated
// MC number to a carrier snapshot via the FMCSA QCMobile API.
package fmcsa

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"go.uber.org/zap"

	"github.com/loadbroker/backend/internal/eligibility"
	"github.com/loadbroker/backend/internal/observability"
	"github.com/loadbroker/backend/pkg/apperrors"
	"github.com/loadbroker/backend/pkg/circuitbreaker"
	"github.com/loadbroker/backend/pkg/logger"
	"github.com/loadbroker/backend/pkg/retry"
)

var mcPattern = regexp.MustCompile(`^\d{4,7}$`)

// ValidateMC rejects anything that is not 4-7 digits. Malformed MC numbers
// never reach the registry or the evaluator.
func ValidateMC(mc string) error {
	if !mcPattern.MatchString(mc) {
		return apperrors.InvalidInput("invalid MC number format, expected 4-7 digits")
	}
	return nil
}

type Client struct {
	baseURL    string
	webKey     string
	httpClient *http.Client
	cache      *Cache
	retryCfg   retry.Config
	breaker    *circuitbreaker.CircuitBreaker
}

func NewClient(baseURL, webKey string, timeout time.Duration, maxAttempts int, cache *Cache) *Client {
	retryCfg := retry.DefaultConfig()
	retryCfg.MaxAttempts = maxAttempts
	retryCfg.Logger = logger.Log

	return &Client{
		baseURL: baseURL,
		webKey:  webKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		cache:    cache,
		retryCfg: retryCfg,
		breaker: circuitbreaker.NewCircuitBreaker("fmcsa", circuitbreaker.Config{
			Logger: logger.Log,
		}),
	}
}

// FindByMC returns the carrier snapshot for a validated MC number. Failures
// are typed: not-found when the registry has no such carrier, upstream for
// transport errors, timeouts, auth failures and 5xx responses.
func (c *Client) FindByMC(ctx context.Context, mc string) (eligibility.CarrierRecord, error) {
	if c.cache != nil {
		if rec, ok := c.cache.Get(ctx, mc); ok {
			observability.CacheHits.WithLabelValues("carrier").Inc()
			observability.CarrierLookups.WithLabelValues("cache_hit").Inc()
			return rec, nil
		}
		observability.CacheMisses.WithLabelValues("carrier").Inc()
	}

	start := time.Now()
	rec, err := retry.DoWithResult(ctx, c.retryCfg, func() (eligibility.CarrierRecord, error) {
		var rec eligibility.CarrierRecord
		execErr := c.breaker.Execute(ctx, func() error {
			var err error
			rec, err = c.lookup(ctx, mc)
			return err
		})
		return rec, execErr
	})
	observability.CarrierLookupDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		switch apperrors.KindOf(err) {
		case apperrors.KindNotFound:
			observability.CarrierLookups.WithLabelValues("not_found").Inc()
		default:
			observability.CarrierLookups.WithLabelValues("upstream_error").Inc()
		}
		return eligibility.CarrierRecord{}, err
	}

	observability.CarrierLookups.WithLabelValues("found").Inc()

	if c.cache != nil {
		c.cache.Set(ctx, mc, rec)
	}

	return rec, nil
}

func (c *Client) lookup(ctx context.Context, mc string) (eligibility.CarrierRecord, error) {
	var empty eligibility.CarrierRecord

	endpoint := fmt.Sprintf("%s/carriers/docket-number/%s?webKey=%s",
		c.baseURL, mc, url.QueryEscape(c.webKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return empty, apperrors.Upstream("failed to build registry request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return empty, apperrors.Upstream("registry request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return empty, apperrors.Upstream("registry authentication failed (webKey)", nil)
	case resp.StatusCode == http.StatusNotFound:
		return empty, apperrors.NotFound("carrier not found for MC " + mc)
	case resp.StatusCode >= 500:
		return empty, apperrors.Upstream(fmt.Sprintf("registry service error (status %d)", resp.StatusCode), nil)
	case resp.StatusCode != http.StatusOK:
		return empty, apperrors.Upstream(fmt.Sprintf("unexpected registry response (status %d)", resp.StatusCode), nil)
	}

	var payload interface{}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return empty, apperrors.Upstream("failed to decode registry response", err)
	}

	carrier, ok := extractCarrier(payload)
	if !ok {
		logger.Debug("No carrier object in registry payload", zap.String("mc", mc))
		return empty, apperrors.NotFound("carrier not found or unrecognized registry response")
	}

	return toRecord(carrier, mc), nil
}

// extractCarrier digs the {"carrier": {...}} object out of the registry's
// inconsistently nested payloads: a top-level object, an object whose values
// are lists of wrappers, or a bare list of wrappers.
func extractCarrier(payload interface{}) (map[string]interface{}, bool) {
	switch p := payload.(type) {
	case map[string]interface{}:
		if carrier, ok := p["carrier"].(map[string]interface{}); ok {
			return carrier, true
		}
		for _, v := range p {
			list, ok := v.([]interface{})
			if !ok {
				continue
			}
			if carrier, ok := carrierFromList(list); ok {
				return carrier, true
			}
		}
	case []interface{}:
		return carrierFromList(p)
	}
	return nil, false
}

func carrierFromList(list []interface{}) (map[string]interface{}, bool) {
	for _, item := range list {
		wrapper, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		if carrier, ok := wrapper["carrier"].(map[string]interface{}); ok {
			return carrier, true
		}
	}
	return nil, false
}

func toRecord(carrier map[string]interface{}, mc string) eligibility.CarrierRecord {
	rec := eligibility.CarrierRecord{
		MCNumber:         stringField(carrier, "mcNumber"),
		DOTNumber:        stringField(carrier, "dotNumber"),
		LegalName:        stringField(carrier, "legalName"),
		DBAName:          stringField(carrier, "dbaName"),
		OutOfServiceDate: stringField(carrier, "outOfServiceDate"),
	}

	if rec.MCNumber == "" {
		rec.MCNumber = mc
	}

	switch stringField(carrier, "allowToOperate") {
	case "Y":
		rec.AllowedToOperate = eligibility.OperatingYes
	case "N":
		rec.AllowedToOperate = eligibility.OperatingNo
	default:
		rec.AllowedToOperate = eligibility.OperatingUnknown
	}

	return rec
}

// stringField tolerates the registry's mixed typing: docket and DOT numbers
// arrive as JSON numbers, most other fields as strings or null.
func stringField(m map[string]interface{}, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	default:
		return ""
	}
}
