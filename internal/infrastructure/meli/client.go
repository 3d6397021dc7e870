package meli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	appsync "github.com/jdramirez/celustock-api/internal/application/sync"
	"github.com/jdramirez/celustock-api/internal/domain/entity"
	"github.com/jdramirez/celustock-api/pkg/config"
)

// Ensure Client implements sync.OrderSource.
var _ appsync.OrderSource = (*Client)(nil)

// Client consume la API de órdenes de Mercado Libre (búsqueda por vendedor y
// rango de fechas). Es la única fuente externa de órdenes: el resto de la app
// solo lee la caché local.
type Client struct {
	baseURL     string
	accessToken string
	sellerID    string
	httpClient  *http.Client
}

// NewClient construye el cliente con un timeout de red generoso: la búsqueda
// de órdenes puede tardar varios segundos.
func NewClient(cfg config.MeliConfig) *Client {
	return &Client{
		baseURL:     cfg.BaseURL,
		accessToken: cfg.AccessToken,
		sellerID:    cfg.SellerID,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

// ── Estructuras de la respuesta ───────────────────────────────────────────────

type searchResponse struct {
	Results []orderPayload `json:"results"`
}

type orderPayload struct {
	ID          json.Number `json:"id"`
	DateCreated time.Time   `json:"date_created"`
	OrderItems  []struct {
		Item struct {
			Title     string `json:"title"`
			SellerSKU string `json:"seller_sku"`
		} `json:"item"`
		Quantity int `json:"quantity"`
	} `json:"order_items"`
	Seller struct {
		Nickname string `json:"nickname"`
	} `json:"seller"`
}

// FetchOrders trae las órdenes del vendedor en el rango dado y descarta las
// que ya están en excludeIDs. Devuelve solo órdenes nuevas, ya mapeadas a la
// entidad local.
func (c *Client) FetchOrders(ctx context.Context, from, to time.Time, excludeIDs map[string]struct{}) ([]entity.SalesOrder, error) {
	q := url.Values{}
	q.Set("seller", c.sellerID)
	q.Set("order.date_created.from", from.UTC().Format(time.RFC3339))
	q.Set("order.date_created.to", to.UTC().Format(time.RFC3339))
	q.Set("sort", "date_desc")

	reqURL := fmt.Sprintf("%s/orders/search?%s", c.baseURL, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("crear request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("buscar órdenes: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("buscar órdenes: status %d: %s", resp.StatusCode, body)
	}

	var search searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&search); err != nil {
		return nil, fmt.Errorf("decodificar respuesta: %w", err)
	}

	now := time.Now()
	orders := make([]entity.SalesOrder, 0, len(search.Results))
	for _, p := range search.Results {
		id := p.ID.String()
		if id == "" {
			continue
		}
		if _, known := excludeIDs[id]; known {
			continue
		}
		if len(p.OrderItems) == 0 {
			continue
		}
		item := p.OrderItems[0]
		orders = append(orders, entity.SalesOrder{
			ID: id,
			// Mercado Libre no distingue un código aparte: el id de la orden
			// es el número visible para el operador.
			Code:      id,
			SKU:       item.Item.SellerSKU,
			Title:     item.Item.Title,
			Quantity:  item.Quantity,
			Account:   p.Seller.Nickname,
			FetchedAt: now,
		})
	}
	return orders, nil
}
