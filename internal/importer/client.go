package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// pokemontcg.io v2 のクライアント。
// レート制限（429）と一時的な上流エラーは指数バックオフ＋ジッタで再試行する。
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client

	maxRetries int
	baseDelay  time.Duration
}

func NewClient(baseURL string, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		maxRetries: 5,
		baseDelay:  2 * time.Second,
	}
}

type setsResponse struct {
	Data       []apiSet `json:"data"`
	Page       int      `json:"page"`
	PageSize   int      `json:"pageSize"`
	Count      int      `json:"count"`
	TotalCount int      `json:"totalCount"`
}

type apiSet struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Series      string `json:"series"`
	ReleaseDate string `json:"releaseDate"` // "2020/11/13"
}

type cardsResponse struct {
	Data       []apiCard `json:"data"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
	Count      int       `json:"count"`
	TotalCount int       `json:"totalCount"`
}

type apiCard struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Number     string `json:"number"`
	Supertype  string `json:"supertype"`
	Rarity     string `json:"rarity"`
	Artist     string `json:"artist"`
	FlavorText string `json:"flavorText"`
	Images     struct {
		Small string `json:"small"`
		Large string `json:"large"`
	} `json:"images"`
	TCGPlayer struct {
		URL    string                         `json:"url"`
		Prices map[string]apiTCGPlayerPricing `json:"prices"`
	} `json:"tcgplayer"`
}

type apiTCGPlayerPricing struct {
	Market *float64 `json:"market"`
	Mid    *float64 `json:"mid"`
}

func (c *Client) ListSets(ctx context.Context, page int, pageSize int) ([]apiSet, int, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("pageSize", strconv.Itoa(pageSize))

	var resp setsResponse
	if err := c.getJSON(ctx, "/sets?"+q.Encode(), &resp); err != nil {
		return nil, 0, err
	}
	return resp.Data, resp.TotalCount, nil
}

func (c *Client) ListCardsBySet(ctx context.Context, setID string, page int, pageSize int) ([]apiCard, int, error) {
	q := url.Values{}
	q.Set("q", "set.id:"+setID)
	q.Set("page", strconv.Itoa(page))
	q.Set("pageSize", strconv.Itoa(pageSize))

	var resp cardsResponse
	if err := c.getJSON(ctx, "/cards?"+q.Encode(), &resp); err != nil {
		return nil, 0, err
	}
	return resp.Data, resp.TotalCount, nil
}

// 再試行対象：429と一時的な5xx
func retryable(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			//2^n * base + jitter（最大30秒）
			delay := c.baseDelay * time.Duration(1<<(attempt-1))
			if delay > 30*time.Second {
				delay = 30 * time.Second
			}
			delay += time.Duration(rand.Int63n(int64(time.Second)))

			log.Warn().Str("path", path).Int("attempt", attempt).Dur("delay", delay).Msg("retrying card api request")

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return err
		}
		if c.apiKey != "" {
			req.Header.Set("X-Api-Key", c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusOK {
			return json.Unmarshal(body, out)
		}
		if !retryable(resp.StatusCode) {
			return fmt.Errorf("card api: unexpected status %d for %s", resp.StatusCode, path)
		}
		lastErr = fmt.Errorf("card api: status %d for %s", resp.StatusCode, path)
	}

	return fmt.Errorf("card api: retries exhausted: %w", lastErr)
}
