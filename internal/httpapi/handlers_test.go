package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/Chinenye997/IMS/internal/domain"
	"github.com/Chinenye997/IMS/internal/httpapi"
	"github.com/Chinenye997/IMS/internal/service/cart"
	"github.com/Chinenye997/IMS/internal/service/catalog"
	"github.com/Chinenye997/IMS/internal/service/orderquery"
	"github.com/Chinenye997/IMS/internal/service/requester"
	"github.com/Chinenye997/IMS/internal/service/sales"
	"github.com/Chinenye997/IMS/internal/storage/memory"
)

func loggerForTests() *logrus.Entry {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: false, DisableTimestamp: true})
	logger.SetLevel(logrus.DebugLevel)
	return logger.WithField("component", "test")
}

// newTestServer поднимает полный HTTP-слой поверх in-memory хранилищ.
func newTestServer(t *testing.T, products ...domain.Product) *httptest.Server {
	t.Helper()

	store := memory.NewProductStore()
	for _, product := range products {
		require.NoError(t, store.Create(context.Background(), product))
	}

	orders := memory.NewOrderStore()
	saleStore := memory.NewSaleStore(store, memory.NewInvoiceSequencer(), orders)
	logger := loggerForTests()

	coordinator := sales.NewCoordinatorWithoutMetrics(store, store, saleStore, logger)
	catalogSvc := catalog.NewService(store, orders, logger)
	cartSvc := cart.NewService(memory.NewCartStore(), store, coordinator, logger)
	directory := requester.NewStaticDirectory(map[string]string{"requester-1": "Ada Obi"})
	querySvc := orderquery.NewService(orders, store, directory, logger)

	handler := httpapi.NewHandler(catalogSvc, coordinator, cartSvc, querySvc, logger)
	server := httptest.NewServer(httpapi.NewRouter(handler))
	t.Cleanup(server.Close)
	return server
}

func doRequest(t *testing.T, method, url, sessionID string, body any) *http.Response {
	t.Helper()

	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}

	req, err := http.NewRequest(method, url, &payload)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set("X-Session-ID", sessionID)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func testProduct(id string, priceMinor int64, quantity int) domain.Product {
	return domain.Product{
		ID:         id,
		Name:       "Product " + id,
		PriceMinor: priceMinor,
		Quantity:   quantity,
		Active:     true,
	}
}

func TestProductCRUD(t *testing.T) {
	server := newTestServer(t)

	resp := doRequest(t, http.MethodPost, server.URL+"/api/products", "", map[string]any{
		"name":        "Rice 5kg",
		"price_minor": int64(450000),
		"quantity":    20,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody[domain.Product](t, resp)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "Rice 5kg", created.Name)

	resp = doRequest(t, http.MethodGet, server.URL+"/api/products/"+created.ID, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, http.MethodPut, server.URL+"/api/products/"+created.ID, "", map[string]any{
		"name":        "Rice 5kg Premium",
		"price_minor": int64(500000),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeBody[domain.Product](t, resp)
	require.Equal(t, "Rice 5kg Premium", updated.Name)
	// Редактирование карточки не трогает остаток.
	require.Equal(t, 20, updated.Quantity)

	resp = doRequest(t, http.MethodDelete, server.URL+"/api/products/"+created.ID, "", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doRequest(t, http.MethodGet, server.URL+"/api/products/"+created.ID, "", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateProductValidation(t *testing.T) {
	server := newTestServer(t)

	resp := doRequest(t, http.MethodPost, server.URL+"/api/products", "", map[string]any{
		"price_minor": int64(-5),
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSellProduct(t *testing.T) {
	server := newTestServer(t, testProduct("p1", 2500, 10))

	resp := doRequest(t, http.MethodPost, server.URL+"/api/products/p1/sell", "", map[string]any{
		"quantity":       4,
		"requester_id":   "requester-1",
		"payment_method": "Transfer",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	order := decodeBody[domain.Order](t, resp)
	require.Equal(t, "InvoiceNo-001", order.InvoiceNo)
	require.Equal(t, int64(10000), order.TotalAmountMinor)

	resp = doRequest(t, http.MethodGet, server.URL+"/api/products/p1", "", nil)
	product := decodeBody[domain.Product](t, resp)
	require.Equal(t, 6, product.Quantity)
}

func TestSellProductRejections(t *testing.T) {
	server := newTestServer(t, testProduct("p1", 2500, 3))

	cases := []struct {
		name      string
		productID string
		quantity  int
		status    int
	}{
		{"insufficient stock", "p1", 5, http.StatusConflict},
		{"unknown product", "ghost", 1, http.StatusNotFound},
		{"invalid quantity", "p1", 0, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doRequest(t, http.MethodPost, server.URL+"/api/products/"+tc.productID+"/sell", "", map[string]any{
				"quantity": tc.quantity,
			})
			require.Equal(t, tc.status, resp.StatusCode)
		})
	}

	// Отказы не тратят ни остаток, ни номера счетов.
	resp := doRequest(t, http.MethodGet, server.URL+"/api/products/p1", "", nil)
	require.Equal(t, 3, decodeBody[domain.Product](t, resp).Quantity)

	resp = doRequest(t, http.MethodPost, server.URL+"/api/products/p1/sell", "", map[string]any{"quantity": 1})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, "InvoiceNo-001", decodeBody[domain.Order](t, resp).InvoiceNo)
}

func TestRestock(t *testing.T) {
	server := newTestServer(t, testProduct("p1", 2500, 3))

	resp := doRequest(t, http.MethodPost, server.URL+"/api/products/p1/restock", "", map[string]any{"amount": 7})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[map[string]any](t, resp)
	require.Equal(t, float64(10), body["quantity"])
}

func TestCartFlow(t *testing.T) {
	server := newTestServer(t, testProduct("p1", 2500, 10), testProduct("p2", 1000, 5))
	session := "session-1"

	resp := doRequest(t, http.MethodPost, server.URL+"/api/cart/items", session, map[string]any{
		"product_id": "p1",
		"quantity":   2,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, http.MethodPost, server.URL+"/api/cart/items", session, map[string]any{
		"product_id": "p2",
		"quantity":   3,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	summary := decodeBody[cart.Summary](t, resp)
	require.Len(t, summary.Items, 2)
	require.Equal(t, int64(8000), summary.TotalAmountMinor)
	require.Equal(t, "80.00", summary.TotalAmount)

	resp = doRequest(t, http.MethodPut, server.URL+"/api/cart/items/p2", session, map[string]any{"quantity": 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, int64(6000), decodeBody[cart.Summary](t, resp).TotalAmountMinor)

	resp = doRequest(t, http.MethodDelete, server.URL+"/api/cart/items/p2", session, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	summary = decodeBody[cart.Summary](t, resp)
	require.Len(t, summary.Items, 1)

	resp = doRequest(t, http.MethodPost, server.URL+"/api/checkout", session, map[string]any{
		"requester_id":   "requester-1",
		"payment_method": "Cash",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	order := decodeBody[domain.Order](t, resp)
	require.Equal(t, "InvoiceNo-001", order.InvoiceNo)
	require.Equal(t, int64(5000), order.TotalAmountMinor)

	// Корзина пуста после успешного оформления.
	resp = doRequest(t, http.MethodGet, server.URL+"/api/cart", session, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Empty(t, decodeBody[cart.Summary](t, resp).Items)
}

func TestCheckoutEmptyCart(t *testing.T) {
	server := newTestServer(t)

	resp := doRequest(t, http.MethodPost, server.URL+"/api/checkout", "session-1", map[string]any{})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCheckoutInsufficientStockKeepsCart(t *testing.T) {
	server := newTestServer(t, testProduct("p1", 2500, 1))
	session := "session-1"

	resp := doRequest(t, http.MethodPost, server.URL+"/api/cart/items", session, map[string]any{
		"product_id": "p1",
		"quantity":   1,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Остаток уходит через ручную продажу, пока корзина ждёт.
	resp = doRequest(t, http.MethodPost, server.URL+"/api/products/p1/sell", "", map[string]any{"quantity": 1})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doRequest(t, http.MethodPost, server.URL+"/api/checkout", session, map[string]any{})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	// Отказ оставляет корзину нетронутой для повторной попытки.
	resp = doRequest(t, http.MethodGet, server.URL+"/api/cart", session, nil)
	require.Len(t, decodeBody[cart.Summary](t, resp).Items, 1)
}

func TestCartRequiresSession(t *testing.T) {
	server := newTestServer(t)

	for _, call := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/cart"},
		{http.MethodPost, "/api/cart/items"},
		{http.MethodPost, "/api/checkout"},
	} {
		resp := doRequest(t, call.method, server.URL+call.path, "", map[string]any{})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, "%s %s", call.method, call.path)
	}
}

func TestOrderHistory(t *testing.T) {
	server := newTestServer(t, testProduct("p1", 2500, 10))

	for i := 0; i < 2; i++ {
		resp := doRequest(t, http.MethodPost, server.URL+"/api/products/p1/sell", "", map[string]any{
			"quantity":     1,
			"requester_id": "requester-1",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := doRequest(t, http.MethodGet, server.URL+"/api/orders", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	summaries := decodeBody[[]orderquery.OrderSummary](t, resp)
	require.Len(t, summaries, 2)
	require.Equal(t, "Ada Obi", summaries[0].RequesterName)

	resp = doRequest(t, http.MethodGet, server.URL+"/api/orders?search=ada", "", nil)
	require.Len(t, decodeBody[[]orderquery.OrderSummary](t, resp), 2)

	resp = doRequest(t, http.MethodGet, server.URL+"/api/orders?search=nothing-matches", "", nil)
	require.Empty(t, decodeBody[[]orderquery.OrderSummary](t, resp))

	resp = doRequest(t, http.MethodGet, server.URL+"/api/orders/InvoiceNo-001", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	detail := decodeBody[orderquery.OrderDetail](t, resp)
	require.Equal(t, "InvoiceNo-001", detail.InvoiceNo)
	require.Len(t, detail.Lines, 1)

	resp = doRequest(t, http.MethodGet, server.URL+"/api/orders/InvoiceNo-999", "", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFinances(t *testing.T) {
	server := newTestServer(t, testProduct("p1", 2500, 10), testProduct("p2", 1000, 4))

	resp := doRequest(t, http.MethodPost, server.URL+"/api/products/p1/sell", "", map[string]any{"quantity": 2})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doRequest(t, http.MethodGet, server.URL+"/api/finances", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	report := decodeBody[catalog.FinanceReport](t, resp)
	// 8*2500 + 4*1000 после продажи двух единиц p1.
	require.Equal(t, int64(24000), report.StockValueMinor)
	require.Equal(t, "240.00", report.StockValue)
	require.Len(t, report.TopSellers, 1)
	require.Equal(t, 2, report.TopSellers[0].UnitsSold)
}

func TestInvalidJSON(t *testing.T) {
	server := newTestServer(t, testProduct("p1", 2500, 10))

	req, err := http.NewRequest(http.MethodPost, server.URL+"/api/products", bytes.NewBufferString("{broken"))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(fmt.Sprintf("%s/healthz", server.URL))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
