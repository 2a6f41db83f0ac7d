package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tambaqui-prime/config"
	"tambaqui-prime/models"
	"tambaqui-prime/repositories"
	"tambaqui-prime/routes"
	"tambaqui-prime/services"
)

const testAdminPassword = "Palmeiras@123"

func setupTestRouter(t *testing.T) (*gin.Engine, *services.AppState, repositories.KV) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	config.AppConfig = &config.Config{
		JWTSecret:         "test-secret",
		JWTExpiry:         "24h",
		JWTRememberExpiry: "720h",
		StoreWhatsApp:     "5592991234567",
	}

	kv, err := repositories.NewFileKV(t.TempDir())
	require.NoError(t, err)
	repo := repositories.NewStateRepository(kv)
	state, err := services.NewAppState(repo, services.NewCloudService(""), testAdminPassword)
	require.NoError(t, err)

	messages := services.NewMessageService("", "", "", config.AppConfig.StoreWhatsApp)

	router := gin.New()
	routes.SetupRoutes(router, state, messages)
	return router, state, kv
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func loginToken(t *testing.T, router *gin.Engine) string {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/auth/login", gin.H{
		"username": models.SeedAdminUsername,
		"password": testAdminPassword,
	}, "")
	require.Equal(t, 200, w.Code)

	data := decodeBody(t, w)["data"].(map[string]any)
	token, _ := data["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestCheckoutFlow(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/carts", nil, "")
	require.Equal(t, 201, w.Code)
	cartID := decodeBody(t, w)["data"].(map[string]any)["id"].(string)

	w = doJSON(t, router, http.MethodPost, "/carts/"+cartID+"/items", gin.H{
		"productId":      "1",
		"quantity":       2,
		"selectedOption": "Sem espinha e sem escama",
	}, "")
	require.Equal(t, 201, w.Code)

	w = doJSON(t, router, http.MethodPost, "/orders", gin.H{
		"cartId": cartID,
		"deliveryDetails": gin.H{
			"name":         "João da Silva",
			"street":       "Av. das Torres",
			"number":       "1500",
			"neighborhood": "Flores",
			"whatsapp":     "559299887766",
		},
		"paymentMethod": "PIX",
	}, "")
	require.Equal(t, 201, w.Code)

	order := decodeBody(t, w)["data"].(map[string]any)
	assert.Equal(t, 77.00, order["total"])
	assert.Equal(t, 5.00, order["deliveryFee"])
	orderID := order["id"].(string)
	assert.Len(t, orderID, 6)

	// the receipt stays retrievable
	w = doJSON(t, router, http.MethodGet, "/orders/"+orderID, nil, "")
	require.Equal(t, 200, w.Code)
	assert.Equal(t, orderID, decodeBody(t, w)["data"].(map[string]any)["id"])

	// the cart was cleared by checkout
	w = doJSON(t, router, http.MethodGet, "/carts/"+cartID, nil, "")
	require.Equal(t, 200, w.Code)
	items := decodeBody(t, w)["data"].(map[string]any)["items"].([]any)
	assert.Empty(t, items)
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/carts", nil, "")
	require.Equal(t, 201, w.Code)
	cartID := decodeBody(t, w)["data"].(map[string]any)["id"].(string)

	w = doJSON(t, router, http.MethodPost, "/orders", gin.H{
		"cartId": cartID,
		"deliveryDetails": gin.H{
			"name":         "João",
			"street":       "Rua A",
			"number":       "1",
			"neighborhood": "Centro",
			"whatsapp":     "559299887766",
		},
		"paymentMethod": "PIX",
	}, "")
	assert.Equal(t, 400, w.Code)
	assert.Equal(t, "Cart is empty", decodeBody(t, w)["message"])
}

func TestCheckoutUnknownCartReturns404(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/orders", gin.H{
		"cartId": "missing",
		"deliveryDetails": gin.H{
			"name":         "João",
			"street":       "Rua A",
			"number":       "1",
			"neighborhood": "Centro",
			"whatsapp":     "559299887766",
		},
		"paymentMethod": "PIX",
	}, "")
	assert.Equal(t, 404, w.Code)
}

func TestWhatsAppMessageFallsBackWithoutGenerator(t *testing.T) {
	router, state, _ := setupTestRouter(t)

	cart := state.NewCart()
	_, err := state.AddToCart(cart.ID, "1", decimal.NewFromInt(2), "")
	require.NoError(t, err)
	order, err := state.Checkout(models.CheckoutRequest{
		CartID: cart.ID,
		DeliveryDetails: models.DeliveryDetails{
			Name: "Maria", Street: "Rua B", Number: "7", Neighborhood: "Centro", WhatsApp: "559288887777",
		},
		PaymentMethod: models.PaymentPix,
	})
	require.NoError(t, err)

	w := doJSON(t, router, http.MethodGet, "/orders/"+order.ID+"/whatsapp", nil, "")
	require.Equal(t, 200, w.Code)

	data := decodeBody(t, w)["data"].(map[string]any)
	assert.Equal(t, false, data["generated"])
	expected := fmt.Sprintf("Olá! Gostaria de confirmar meu pedido #%s.\nNome: Maria\nTotal: R$ 77.00", order.ID)
	assert.Equal(t, expected, data["text"])
	assert.Contains(t, data["link"], "https://wa.me/5592991234567?text=")
}

func TestLoginAndProtectedRoutes(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	// wrong password is rejected with no hint which field failed
	w := doJSON(t, router, http.MethodPost, "/auth/login", gin.H{
		"username": models.SeedAdminUsername,
		"password": "wrong",
	}, "")
	assert.Equal(t, 401, w.Code)

	// admin routes require a token
	w = doJSON(t, router, http.MethodGet, "/admin/orders", nil, "")
	assert.Equal(t, 401, w.Code)

	token := loginToken(t, router)

	w = doJSON(t, router, http.MethodGet, "/admin/orders", nil, token)
	assert.Equal(t, 200, w.Code)

	newName := "Tambaqui Inteiro Selecionado"
	w = doJSON(t, router, http.MethodPatch, "/admin/products/1", gin.H{"name": newName}, token)
	require.Equal(t, 200, w.Code)
	assert.Equal(t, newName, decodeBody(t, w)["data"].(map[string]any)["name"])

	w = doJSON(t, router, http.MethodGet, "/products/1", nil, "")
	require.Equal(t, 200, w.Code)
	assert.Equal(t, newName, decodeBody(t, w)["data"].(map[string]any)["name"])
}

func TestRememberedUsernameLifecycle(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/auth/login", gin.H{
		"username": models.SeedAdminUsername,
		"password": testAdminPassword,
		"remember": true,
	}, "")
	require.Equal(t, 200, w.Code)
	token := decodeBody(t, w)["data"].(map[string]any)["token"].(string)

	w = doJSON(t, router, http.MethodGet, "/auth/remembered", nil, "")
	require.Equal(t, 200, w.Code)
	assert.Equal(t, models.SeedAdminUsername, decodeBody(t, w)["data"].(map[string]any)["username"])

	w = doJSON(t, router, http.MethodPost, "/auth/logout", nil, token)
	require.Equal(t, 200, w.Code)

	w = doJSON(t, router, http.MethodGet, "/auth/remembered", nil, "")
	require.Equal(t, 200, w.Code)
	assert.Equal(t, "", decodeBody(t, w)["data"].(map[string]any)["username"])
}

func TestLoginWithoutRememberClearsStoredSession(t *testing.T) {
	router, _, kv := setupTestRouter(t)

	// a remembered login persists both the session and the username
	w := doJSON(t, router, http.MethodPost, "/auth/login", gin.H{
		"username": models.SeedAdminUsername,
		"password": testAdminPassword,
		"remember": true,
	}, "")
	require.Equal(t, 200, w.Code)

	_, err := kv.Get(repositories.KeyCurrentUser)
	require.NoError(t, err)
	_, err = kv.Get(repositories.KeyRememberedUsername)
	require.NoError(t, err)

	// a later login without remember wipes whatever was stored
	w = doJSON(t, router, http.MethodPost, "/auth/login", gin.H{
		"username": models.SeedAdminUsername,
		"password": testAdminPassword,
		"remember": false,
	}, "")
	require.Equal(t, 200, w.Code)

	_, err = kv.Get(repositories.KeyCurrentUser)
	assert.ErrorIs(t, err, repositories.ErrKeyNotFound)
	_, err = kv.Get(repositories.KeyRememberedUsername)
	assert.ErrorIs(t, err, repositories.ErrKeyNotFound)

	w = doJSON(t, router, http.MethodGet, "/auth/remembered", nil, "")
	require.Equal(t, 200, w.Code)
	assert.Equal(t, "", decodeBody(t, w)["data"].(map[string]any)["username"])
}

func TestCreateAdminRespectsLimit(t *testing.T) {
	router, state, _ := setupTestRouter(t)
	token := loginToken(t, router)

	for _, name := range []string{"ana@loja.com", "bia@loja.com", "caio@loja.com"} {
		w := doJSON(t, router, http.MethodPost, "/admin/admins", gin.H{
			"username": name,
			"password": "Senha@123",
		}, token)
		require.Equal(t, 201, w.Code)
	}
	assert.Equal(t, models.MaxAdmins, state.AdminCount())

	w := doJSON(t, router, http.MethodPost, "/admin/admins", gin.H{
		"username": "dora@loja.com",
		"password": "Senha@123",
	}, token)
	assert.Equal(t, 400, w.Code)
	assert.Equal(t, "Admin limit reached", decodeBody(t, w)["message"])
}

func TestRemoveLastImageReturns400(t *testing.T) {
	router, _, _ := setupTestRouter(t)
	token := loginToken(t, router)

	w := doJSON(t, router, http.MethodDelete, "/admin/products/1/images/0", nil, token)
	assert.Equal(t, 400, w.Code)
	assert.Equal(t, "A product must keep at least one image", decodeBody(t, w)["message"])
}
