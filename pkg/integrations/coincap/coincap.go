package coincap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"assetview/pkg/types/assets"

	"golang.org/x/sync/errgroup"
)

var (
	_ assets.DetailFetcher = (*Client)(nil)
)

var errMissingData = errors.New("response has no data field")

type Client struct {
	BaseURL string
	Client  *http.Client
	APIKey  string
}

func NewClient() *Client {
	return &Client{
		BaseURL: "https://api.coincap.io/v2",
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func NewClientWithKey(apiKey string) *Client {
	c := NewClient()
	c.APIKey = apiKey
	return c
}

type assetPayload struct {
	ID                string `json:"id"`
	Rank              rank   `json:"rank"`
	Symbol            string `json:"symbol"`
	Name              string `json:"name"`
	Supply            string `json:"supply"`
	MaxSupply         string `json:"maxSupply"`
	MarketCapUsd      string `json:"marketCapUsd"`
	VolumeUsd24Hr     string `json:"volumeUsd24Hr"`
	PriceUsd          string `json:"priceUsd"`
	ChangePercent24Hr string `json:"changePercent24Hr"`
	Vwap24Hr          string `json:"vwap24Hr"`
}

// rank accepts the quoted integer CoinCap sends as well as a bare number.
// null or an empty string decode to 0, meaning unranked.
type rank int

func (r *rank) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*r = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid rank %s: %w", b, err)
	}
	*r = rank(n)
	return nil
}

type historyPayload struct {
	PriceUsd string    `json:"priceUsd"`
	Time     int64     `json:"time"`
	Date     time.Time `json:"date"`
}

// FetchDetail requests the asset summary and its daily history concurrently.
// The first failure is returned and the other request is abandoned.
func (c *Client) FetchDetail(ctx context.Context, id string) (*assets.ViewModel, error) {
	if err := assets.ValidateIdentifier(id); err != nil {
		return nil, err
	}

	var (
		summary *assets.Summary
		history []assets.HistoryPoint
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := c.FetchAsset(gCtx, id)
		if err != nil {
			return err
		}
		summary = s
		return nil
	})
	g.Go(func() error {
		h, err := c.FetchHistory(gCtx, id)
		if err != nil {
			return err
		}
		history = h
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &assets.ViewModel{Asset: *summary, History: history}, nil
}

func (c *Client) FetchAsset(ctx context.Context, id string) (*assets.Summary, error) {
	if err := assets.ValidateIdentifier(id); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/assets/%s", c.BaseURL, url.PathEscape(id))

	var payload assetPayload
	if err := c.getData(ctx, endpoint, &payload); err != nil {
		return nil, err
	}

	return &assets.Summary{
		ID:                payload.ID,
		Name:              payload.Name,
		Symbol:            payload.Symbol,
		Rank:              int(payload.Rank),
		PriceUsd:          payload.PriceUsd,
		MarketCapUsd:      payload.MarketCapUsd,
		VolumeUsd24Hr:     payload.VolumeUsd24Hr,
		Supply:            payload.Supply,
		MaxSupply:         payload.MaxSupply,
		ChangePercent24Hr: payload.ChangePercent24Hr,
		Vwap24Hr:          payload.Vwap24Hr,
	}, nil
}

func (c *Client) FetchHistory(ctx context.Context, id string) ([]assets.HistoryPoint, error) {
	if err := assets.ValidateIdentifier(id); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/assets/%s/history?interval=d1", c.BaseURL, url.PathEscape(id))

	var payload []historyPayload
	if err := c.getData(ctx, endpoint, &payload); err != nil {
		return nil, err
	}

	points := make([]assets.HistoryPoint, 0, len(payload))
	for _, p := range payload {
		date := p.Date
		if date.IsZero() && p.Time != 0 {
			date = time.UnixMilli(p.Time).UTC()
		}
		points = append(points, assets.HistoryPoint{
			Date:     date,
			PriceUsd: p.PriceUsd,
			Time:     p.Time,
		})
	}

	return points, nil
}

func (c *Client) addAuth(req *http.Request) {
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}
}

// getData performs a GET against endpoint and decodes the envelope's data
// field into dst.
func (c *Client) getData(ctx context.Context, endpoint string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &assets.TransportError{URL: endpoint, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	c.addAuth(req)

	resp, err := c.Client.Do(req)
	if err != nil {
		return &assets.TransportError{URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &assets.NetworkError{URL: endpoint, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &assets.TransportError{URL: endpoint, Err: fmt.Errorf("failed to read body: %w", err)}
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return &assets.ParseError{URL: endpoint, Err: err}
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return &assets.ParseError{URL: endpoint, Err: errMissingData}
	}
	if err := json.Unmarshal(envelope.Data, dst); err != nil {
		return &assets.ParseError{URL: endpoint, Err: err}
	}

	return nil
}
