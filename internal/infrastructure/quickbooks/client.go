package quickbooks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/exp/slog"
	"golang.org/x/time/rate"

	"qbsync/internal/domain/resource"
)

// Client - клиент REST API QuickBooks Online.
// Реализует resource.RemoteAPI для всех сущностей сразу.
type Client struct {
	client    *http.Client
	cfg       Config
	log       *slog.Logger
	limiter   *rate.Limiter
	breaker   *gobreaker.CircuitBreaker
	userAgent string
}

var _ resource.RemoteAPI = (*Client)(nil)

func NewClient(cfg Config, log *slog.Logger) (*Client, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	httpClient := &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			MaxIdleConnsPerHost: 10,
		},
	}

	log = log.With("component", "quickbooks_client")

	c := &Client{
		client:    httpClient,
		cfg:       cfg,
		log:       log,
		limiter:   rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RatePerMinute)), 10),
		userAgent: "qbsync/1.0",
	}

	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "quickbooks",
		Timeout: cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		// ошибки валидации и "не найдено" - нормальные ответы сервиса
		IsSuccessful: func(err error) bool {
			return err == nil || !errors.Is(err, resource.ErrTransient)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	})

	return c, nil
}

// Find читает сущность по удаленному ID
func (c *Client) Find(ctx context.Context, entity string, id string) (*resource.RemoteEntity, error) {
	return c.do(ctx, http.MethodGet, entity+"/"+url.PathEscape(id), nil)
}

// Create создает сущность
func (c *Client) Create(ctx context.Context, entity string, payload resource.Payload) (*resource.RemoteEntity, error) {
	return c.do(ctx, http.MethodPost, entity, payload)
}

// Update выполняет разреженное обновление.
// QuickBooks требует актуальный SyncToken, поэтому сначала читаем сущность.
func (c *Client) Update(ctx context.Context, entity string, id string, payload resource.Payload) (*resource.RemoteEntity, error) {
	current, err := c.Find(ctx, entity, id)
	if err != nil {
		return nil, err
	}

	body := make(map[string]any, len(payload)+3)
	for k, v := range payload {
		body[k] = v
	}
	body["Id"] = id
	body["SyncToken"] = current.SyncToken
	body["sparse"] = true

	return c.do(ctx, http.MethodPost, entity, body)
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*resource.RemoteEntity, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &resource.Fault{Kind: resource.ErrTransient, Message: "rate limiter", Detail: err.Error()}
	}

	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.roundTrip(ctx, method, path, body)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &resource.Fault{Kind: resource.ErrTransient, Message: "circuit breaker", Detail: err.Error()}
		}
		return nil, err
	}

	return out.(*resource.RemoteEntity), nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body any) (*resource.RemoteEntity, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%w: marshal payload: %v", resource.ErrValidation, err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpointURL(path), reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cfg.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.AccessToken)
	}

	c.log.Debug("sending request", "method", method, "url", req.URL.String())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &resource.Fault{Kind: resource.ErrTransient, Message: "request failed", Detail: err.Error()}
	}

	return c.parseResponse(resp)
}

func (c *Client) parseResponse(resp *http.Response) (*resource.RemoteEntity, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &resource.Fault{Kind: resource.ErrTransient, StatusCode: resp.StatusCode, Message: "read body", Detail: err.Error()}
	}

	c.log.Debug("response received", "status", resp.StatusCode, "intuit_tid", resp.Header.Get("intuit_tid"))

	if fault := parseFault(resp.StatusCode, body); fault != nil {
		c.log.Debug("remote fault", "status", fault.StatusCode, "type", fault.Type, "code", fault.Code)
		return nil, fault
	}

	entity, err := decodeEntity(body)
	if err != nil {
		return nil, &resource.Fault{Kind: resource.ErrValidation, StatusCode: resp.StatusCode, Message: "decode response", Detail: err.Error()}
	}

	return entity, nil
}

func (c *Client) endpointURL(path string) string {
	q := url.Values{}
	q.Set("minorversion", strconv.Itoa(c.cfg.MinorVersion))

	return fmt.Sprintf("%s/v3/company/%s/%s?%s", c.cfg.BaseURL, url.PathEscape(c.cfg.RealmID), path, q.Encode())
}

// decodeEntity снимает обертку {"Account": {...}, "time": "..."}
func decodeEntity(body []byte) (*resource.RemoteEntity, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, err
	}

	var attrs map[string]any
	for key, raw := range envelope {
		if key == "time" {
			continue
		}
		var obj map[string]any
		if err := json.Unmarshal(raw, &obj); err == nil && obj != nil {
			attrs = obj
			break
		}
	}

	// taxservice/taxcode отвечает без обертки
	if attrs == nil {
		if err := json.Unmarshal(body, &attrs); err != nil {
			return nil, err
		}
	}

	entity := &resource.RemoteEntity{
		ID:         stringField(attrs, "Id", "TaxCodeId"),
		SyncToken:  stringField(attrs, "SyncToken"),
		Attributes: attrs,
	}
	if entity.ID == "" {
		return nil, errors.New("response has no entity id")
	}

	return entity, nil
}

func stringField(attrs map[string]any, keys ...string) string {
	for _, key := range keys {
		switch v := attrs[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}
