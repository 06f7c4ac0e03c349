package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Caja-api/internal/application/cashregister"
	"github.com/jhoicas/Caja-api/internal/application/checkout"
	"github.com/jhoicas/Caja-api/internal/application/inventory"
	"github.com/jhoicas/Caja-api/internal/application/notify"
	"github.com/jhoicas/Caja-api/internal/application/pos"
	"github.com/jhoicas/Caja-api/internal/application/receipt"
	"github.com/jhoicas/Caja-api/internal/application/report"
	"github.com/jhoicas/Caja-api/internal/application/usecase"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/infrastructure/memory"
	"github.com/jhoicas/Caja-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/Caja-api/internal/interfaces/http"
)

type testEnv struct {
	app   *fiber.App
	store *memory.Store
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.Products().Create(ctx, &entity.Product{
		ID: "p1", UserID: testUserID, Name: "Café", Price: decimal.NewFromInt(8), CostPrice: decimal.NewFromInt(5), Stock: 3, MinStock: 1,
	}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{
		ID: "p2", UserID: testUserID, Name: "Pão", Price: decimal.NewFromInt(2), Stock: 0,
	}))
	require.NoError(t, store.Clients().Create(ctx, &entity.Client{ID: "c1", UserID: testUserID, Name: "Dora"}))

	inbox := notify.NewInbox(0)
	reader := cashregister.NewReader(store.CashRegisters(), memory.NewLocalCache(), 0, nil)
	engine := checkout.NewEngine(reader, store, inbox, checkout.Config{}, nil)
	registry := pos.NewRegistry(store, engine, inbox, nil)
	t.Cleanup(registry.Close)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		ProductUC:     usecase.NewProductUseCase(store.Products()),
		ClientUC:      usecase.NewClientUseCase(store.Clients()),
		POS:           registry,
		Inbox:         inbox,
		Adjustments:   inventory.NewAdjustmentUseCase(store, store.Products(), store.Movements(), nil),
		Replenishment: inventory.NewReplenishmentUseCase(store.Products(), store.Sales()),
		CashRegister:  cashregister.NewService(reader, store, store.Expenses(), store.CashRegisters(), nil, nil),
		Sales:         report.NewSalesUseCase(store.Sales(), store.Clients(), nil),
		Receipts:      receipt.NewUseCase(store.Sales(), store.Clients(), pdf.NewMarotoPDFGenerator(nil), "Mercadinho", nil),
		Health: apphttp.NewHealthHandler("caja-api-test", apphttp.HealthCheck{
			Name: "store",
			Ping: func(ctx context.Context) error {
				_, err := store.CashRegisters().Get(ctx, "health", "2000-01-01")
				return err
			},
		}),
		JWTSecret: testJWTSecret,
	})
	return &testEnv{app: app, store: store}
}

func (e *testEnv) do(t *testing.T, method, path, role string, body any) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set("Authorization", bearer(t, role))
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, raw
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

func TestPOS_CheckoutFiado(t *testing.T) {
	env := newEnv(t)

	resp, raw := env.do(t, http.MethodPost, "/api/pos/cart/items", apphttp.RoleCashier, map[string]string{"productId": "p1"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))
	resp, raw = env.do(t, http.MethodPatch, "/api/pos/cart/items/p1", apphttp.RoleCashier, map[string]int{"delta": 1})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))
	cartOut := decode[map[string]any](t, raw)
	assert.Equal(t, "16", cartOut["total"])

	resp, _ = env.do(t, http.MethodPut, "/api/pos/client", apphttp.RoleCashier, map[string]string{"clientId": "c1"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp, _ = env.do(t, http.MethodPut, "/api/pos/payment-method", apphttp.RoleCashier, map[string]string{"paymentMethod": "Fiado"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, raw = env.do(t, http.MethodPost, "/api/pos/checkout", apphttp.RoleCashier, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(raw))
	out := decode[map[string]any](t, raw)
	assert.Equal(t, "16", out["clientDebt"])
	assert.EqualValues(t, 1, out["stockMovements"])
	sale := out["sale"].(map[string]any)
	assert.Equal(t, "Fiado", sale["paymentMethod"])

	p, err := env.store.Products().GetByID(context.Background(), testUserID, "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, p.Stock)

	resp, raw = env.do(t, http.MethodGet, "/api/cash-register/today", apphttp.RoleCashier, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	day := decode[map[string]any](t, raw)
	assert.Equal(t, "16", day["salesTotal"])
	assert.Equal(t, true, day["exists"])

	resp, raw = env.do(t, http.MethodGet, "/api/pos/notifications", apphttp.RoleCashier, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, decode[[]map[string]any](t, raw))

	resp, raw = env.do(t, http.MethodGet, "/api/sales/"+sale["id"].(string)+"/receipt", apphttp.RoleCashier, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "comprovante_")
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

func TestPOS_FiadoSinClienteEs422(t *testing.T) {
	env := newEnv(t)
	env.do(t, http.MethodPost, "/api/pos/cart/items", apphttp.RoleCashier, map[string]string{"productId": "p1"})
	env.do(t, http.MethodPut, "/api/pos/payment-method", apphttp.RoleCashier, map[string]string{"paymentMethod": "Fiado"})

	resp, raw := env.do(t, http.MethodPost, "/api/pos/checkout", apphttp.RoleCashier, nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "CLIENT_REQUIRED", decode[map[string]any](t, raw)["code"])
}

func TestPOS_CarritoVacioEs422(t *testing.T) {
	env := newEnv(t)
	resp, raw := env.do(t, http.MethodPost, "/api/pos/checkout", apphttp.RoleCashier, nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "EMPTY_CART", decode[map[string]any](t, raw)["code"])
}

func TestPOS_SinStockEs409(t *testing.T) {
	env := newEnv(t)
	resp, raw := env.do(t, http.MethodPost, "/api/pos/cart/items", apphttp.RoleCashier, map[string]string{"productId": "p2"})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", decode[map[string]any](t, raw)["code"])
}

func TestPOS_FueraDeLineaSinCacheEs503(t *testing.T) {
	env := newEnv(t)
	env.do(t, http.MethodPost, "/api/pos/cart/items", apphttp.RoleCashier, map[string]string{"productId": "p1"})
	env.store.SetOnline(false)

	resp, raw := env.do(t, http.MethodPost, "/api/pos/checkout", apphttp.RoleCashier, nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "CASH_REGISTER_UNAVAILABLE", decode[map[string]any](t, raw)["code"])

	env.store.SetOnline(true)
	p, err := env.store.Products().GetByID(context.Background(), testUserID, "p1")
	require.NoError(t, err)
	assert.Equal(t, 3, p.Stock)
}

func TestPOS_FormaDePagoInvalida(t *testing.T) {
	env := newEnv(t)
	resp, _ := env.do(t, http.MethodPut, "/api/pos/payment-method", apphttp.RoleCashier, map[string]string{"paymentMethod": "Cheque"})
	assert.GreaterOrEqual(t, resp.StatusCode, 400)
	assert.Less(t, resp.StatusCode, 500)
}

func TestProducts_EscrituraSoloAdmin(t *testing.T) {
	env := newEnv(t)
	body := map[string]any{"name": "Leite", "price": "6.5", "stock": 4}

	resp, _ := env.do(t, http.MethodPost, "/api/products", apphttp.RoleCashier, body)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, raw := env.do(t, http.MethodPost, "/api/products", apphttp.RoleAdmin, body)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(raw))
	id := decode[map[string]any](t, raw)["id"].(string)

	resp, _ = env.do(t, http.MethodGet, "/api/products/"+id, apphttp.RoleCashier, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/api/products/no-existe", apphttp.RoleCashier, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestProducts_SinToken(t *testing.T) {
	env := newEnv(t)
	resp, _ := env.do(t, http.MethodGet, "/api/products", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestInventory_AjusteEHistorial(t *testing.T) {
	env := newEnv(t)
	resp, raw := env.do(t, http.MethodPost, "/api/inventory/adjustments", apphttp.RoleAdmin, map[string]any{
		"productId": "p2", "type": "Compra", "quantity": 10, "reason": "fornecedor",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(raw))

	resp, raw = env.do(t, http.MethodGet, "/api/inventory/products/p2/movements", apphttp.RoleCashier, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]map[string]any](t, raw), 1)

	resp, raw = env.do(t, http.MethodPost, "/api/inventory/adjustments", apphttp.RoleAdmin, map[string]any{
		"productId": "p1", "type": "Ajuste de Saída", "quantity": 50, "reason": "quebra",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode, string(raw))
}

func TestExpenses_RegistrarYBorrar(t *testing.T) {
	env := newEnv(t)
	resp, raw := env.do(t, http.MethodPost, "/api/expenses", apphttp.RoleCashier, map[string]any{"description": "Luz", "amount": "30"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(raw))
	id := decode[map[string]any](t, raw)["id"].(string)

	resp, raw = env.do(t, http.MethodGet, "/api/cash-register/today", apphttp.RoleCashier, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "30", decode[map[string]any](t, raw)["expensesTotal"])

	resp, raw = env.do(t, http.MethodGet, "/api/expenses", apphttp.RoleCashier, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]map[string]any](t, raw), 1)

	resp, _ = env.do(t, http.MethodDelete, "/api/expenses/"+id, apphttp.RoleCashier, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, raw = env.do(t, http.MethodGet, "/api/cash-register/monthly", apphttp.RoleCashier, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "0", decode[map[string]any](t, raw)["expensesTotal"])
}

func TestExpenses_PeriodoInvalido(t *testing.T) {
	env := newEnv(t)
	resp, _ := env.do(t, http.MethodGet, "/api/expenses?from=2024-02-10&to=2024-02-01", apphttp.RoleCashier, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestReports_SoloAdmin(t *testing.T) {
	env := newEnv(t)
	resp, _ := env.do(t, http.MethodGet, "/api/reports/sales", apphttp.RoleCashier, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, raw := env.do(t, http.MethodGet, "/api/reports/sales", apphttp.RoleAdmin, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))
	assert.EqualValues(t, 0, decode[map[string]any](t, raw)["salesCount"])
}

func TestHealth(t *testing.T) {
	env := newEnv(t)
	resp, _ := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	env.store.SetOnline(false)
	resp, raw := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "down", decode[map[string]any](t, raw)["status"])
}
