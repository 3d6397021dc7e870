package meli_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdramirez/celustock-api/internal/infrastructure/meli"
	"github.com/jdramirez/celustock-api/pkg/config"
)

const respuestaBusqueda = `{
	"results": [
		{
			"id": 2000001,
			"date_created": "2026-08-28T10:00:00Z",
			"order_items": [
				{"item": {"title": "iPhone 13 128GB", "seller_sku": "SKU-ML-IPH13"}, "quantity": 2}
			],
			"seller": {"nickname": "celustock_oficial"}
		},
		{
			"id": 2000002,
			"date_created": "2026-08-28T11:00:00Z",
			"order_items": [
				{"item": {"title": "Galaxy S22 256GB", "seller_sku": "SKU-ML-SAMS22"}, "quantity": 1}
			],
			"seller": {"nickname": "celustock_oficial"}
		},
		{
			"id": 2000003,
			"date_created": "2026-08-28T12:00:00Z",
			"order_items": [],
			"seller": {"nickname": "celustock_oficial"}
		}
	]
}`

func clientePrueba(serverURL string) *meli.Client {
	return meli.NewClient(config.MeliConfig{
		BaseURL:     serverURL,
		AccessToken: "token-prueba",
		SellerID:    "123456",
	})
}

func TestFetchOrders_MapeaYFiltra(t *testing.T) {
	var gotPath string
	var gotAuth string
	var gotQuery map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotQuery = map[string]string{
			"seller": r.URL.Query().Get("seller"),
			"from":   r.URL.Query().Get("order.date_created.from"),
			"to":     r.URL.Query().Get("order.date_created.to"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(respuestaBusqueda))
	}))
	defer srv.Close()

	from := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	exclude := map[string]struct{}{"2000002": {}} // ya cacheada

	orders, err := clientePrueba(srv.URL).FetchOrders(context.Background(), from, to, exclude)
	require.NoError(t, err)

	assert.Equal(t, "/orders/search", gotPath)
	assert.Equal(t, "Bearer token-prueba", gotAuth)
	assert.Equal(t, "123456", gotQuery["seller"])
	assert.Equal(t, "2026-08-27T12:00:00Z", gotQuery["from"])
	assert.Equal(t, "2026-08-28T12:00:00Z", gotQuery["to"])

	// La excluida y la que no tiene ítems quedan afuera; solo llega la nueva.
	require.Len(t, orders, 1)
	o := orders[0]
	assert.Equal(t, "2000001", o.ID)
	assert.Equal(t, "2000001", o.Code, "el id de la orden es el número visible")
	assert.Equal(t, "SKU-ML-IPH13", o.SKU)
	assert.Equal(t, "iPhone 13 128GB", o.Title)
	assert.Equal(t, 2, o.Quantity)
	assert.Equal(t, "celustock_oficial", o.Account)
	assert.False(t, o.FetchedAt.IsZero())
}

func TestFetchOrders_StatusNoOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message": "invalid token"}`))
	}))
	defer srv.Close()

	_, err := clientePrueba(srv.URL).FetchOrders(context.Background(), time.Now().Add(-time.Hour), time.Now(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestFetchOrders_RespuestaInvalida(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`no es json`))
	}))
	defer srv.Close()

	_, err := clientePrueba(srv.URL).FetchOrders(context.Background(), time.Now().Add(-time.Hour), time.Now(), nil)
	require.Error(t, err)
}
