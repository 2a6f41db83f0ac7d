package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tambaqui-prime/models"
	"tambaqui-prime/repositories"
)

const testSeedPassword = "Palmeiras@123"

func newTestState(t *testing.T, cloudURL string) *AppState {
	t.Helper()
	kv, err := repositories.NewFileKV(t.TempDir())
	require.NoError(t, err)
	repo := repositories.NewStateRepository(kv)
	state, err := NewAppState(repo, NewCloudService(cloudURL), testSeedPassword)
	require.NoError(t, err)
	return state
}

func catalogJSON(t *testing.T, state *AppState) []byte {
	t.Helper()
	data, err := json.Marshal(state.Products())
	require.NoError(t, err)
	return data
}

func TestUpdateProductReplacesExactlyOne(t *testing.T) {
	state := newTestState(t, "")

	updated, ok := state.Product("2")
	require.True(t, ok)
	updated.Name = "Tambaqui Bandado"
	updated.PricePerKg = decimal.NewFromFloat(40.00)

	require.NoError(t, state.UpdateProduct(context.Background(), updated))

	products := state.Products()
	require.Len(t, products, 4)
	for _, p := range products {
		if p.ID == "2" {
			assert.Equal(t, "Tambaqui Bandado", p.Name)
			assert.True(t, p.PricePerKg.Equal(decimal.NewFromFloat(40.00)))
			continue
		}
		// all others stay exactly as seeded
		for _, seed := range models.SeedProducts() {
			if seed.ID == p.ID {
				assert.Equal(t, seed.Name, p.Name)
				assert.True(t, seed.PricePerKg.Equal(p.PricePerKg))
				assert.Equal(t, seed.Images, p.Images)
			}
		}
	}
}

func TestUpdateProductUnknownIDLeavesCatalogUnchanged(t *testing.T) {
	state := newTestState(t, "")
	before := catalogJSON(t, state)

	err := state.UpdateProduct(context.Background(), models.Product{
		ID:         "does-not-exist",
		Name:       "Ghost",
		PricePerKg: decimal.NewFromFloat(1),
		Images:     []string{"x"},
	})

	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Equal(t, before, catalogJSON(t, state))
}

func TestRemoveLastImageRejected(t *testing.T) {
	state := newTestState(t, "")

	// seed products carry exactly one image each
	err := state.RemoveProductImage(context.Background(), "1", 0)
	assert.ErrorIs(t, err, ErrLastImage)

	product, ok := state.Product("1")
	require.True(t, ok)
	assert.Len(t, product.Images, 1)
}

func TestRemoveImageAfterAdding(t *testing.T) {
	state := newTestState(t, "")
	ctx := context.Background()

	require.NoError(t, state.AddProductImage(ctx, "1", "https://example.com/extra.jpg"))
	require.NoError(t, state.RemoveProductImage(ctx, "1", 0))

	product, _ := state.Product("1")
	assert.Equal(t, []string{"https://example.com/extra.jpg"}, product.Images)

	assert.ErrorIs(t, state.RemoveProductImage(ctx, "1", 5), ErrImageOutOfRange)
}

func TestUpdateProductWithNoImagesRejected(t *testing.T) {
	state := newTestState(t, "")

	product, _ := state.Product("1")
	product.Images = nil

	assert.ErrorIs(t, state.UpdateProduct(context.Background(), product), ErrLastImage)
}

func TestCartAddThenRemoveRestoresPriorState(t *testing.T) {
	state := newTestState(t, "")
	cart := state.NewCart()

	item, err := state.AddToCart(cart.ID, "1", decimal.NewFromInt(2), "Sem espinha e sem escama")
	require.NoError(t, err)
	assert.Equal(t, "Tambaqui Inteiro", item.Name)
	assert.True(t, item.Price.Equal(decimal.NewFromFloat(36.00)))

	require.NoError(t, state.RemoveFromCart(cart.ID, item.ID))

	got, ok := state.Cart(cart.ID)
	require.True(t, ok)
	assert.Empty(t, got.Items)
}

func TestClearCartAlwaysEmpties(t *testing.T) {
	state := newTestState(t, "")
	cart := state.NewCart()

	for i := 0; i < 3; i++ {
		_, err := state.AddToCart(cart.ID, "3", decimal.NewFromFloat(1.5), "")
		require.NoError(t, err)
	}

	require.NoError(t, state.ClearCart(cart.ID))
	got, _ := state.Cart(cart.ID)
	assert.Empty(t, got.Items)

	// clearing an already empty cart stays empty
	require.NoError(t, state.ClearCart(cart.ID))
	got, _ = state.Cart(cart.ID)
	assert.Empty(t, got.Items)
}

func TestCartRejectsBadInput(t *testing.T) {
	state := newTestState(t, "")
	cart := state.NewCart()

	_, err := state.AddToCart(cart.ID, "1", decimal.Zero, "")
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = state.AddToCart(cart.ID, "nope", decimal.NewFromInt(1), "")
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = state.AddToCart("missing-cart", "1", decimal.NewFromInt(1), "")
	assert.ErrorIs(t, err, ErrCartNotFound)

	assert.ErrorIs(t, state.RemoveFromCart(cart.ID, "missing-line"), ErrCartItemNotFound)
}

func validDelivery() models.DeliveryDetails {
	return models.DeliveryDetails{
		Name:         "João da Silva",
		Street:       "Av. das Torres",
		Number:       "1500",
		Neighborhood: "Flores",
		WhatsApp:     "559299887766",
	}
}

func TestCheckoutTotalIsSubtotalPlusDeliveryFee(t *testing.T) {
	state := newTestState(t, "")
	cart := state.NewCart()

	// 2kg tambaqui at R$36/kg plus R$5 delivery = R$77.00
	_, err := state.AddToCart(cart.ID, "1", decimal.NewFromInt(2), "")
	require.NoError(t, err)

	order, err := state.Checkout(models.CheckoutRequest{
		CartID:          cart.ID,
		DeliveryDetails: validDelivery(),
		PaymentMethod:   models.PaymentPix,
	})
	require.NoError(t, err)

	assert.Equal(t, "77.00", order.Total.StringFixed(2))
	assert.True(t, order.DeliveryFee.Equal(models.DeliveryFee))
	assert.Equal(t, "João da Silva", order.CustomerName)
	assert.Equal(t, "559299887766", order.WhatsApp)
	assert.Len(t, order.ID, 6)

	// checkout clears the cart
	got, _ := state.Cart(cart.ID)
	assert.Empty(t, got.Items)
}

func TestCheckoutValidation(t *testing.T) {
	state := newTestState(t, "")
	cart := state.NewCart()
	_, err := state.AddToCart(cart.ID, "1", decimal.NewFromInt(1), "")
	require.NoError(t, err)

	t.Run("missing delivery field", func(t *testing.T) {
		delivery := validDelivery()
		delivery.Neighborhood = ""
		_, err := state.Checkout(models.CheckoutRequest{
			CartID:          cart.ID,
			DeliveryDetails: delivery,
			PaymentMethod:   models.PaymentPix,
		})
		assert.ErrorIs(t, err, ErrMissingDelivery)
	})

	t.Run("invalid payment method", func(t *testing.T) {
		_, err := state.Checkout(models.CheckoutRequest{
			CartID:          cart.ID,
			DeliveryDetails: validDelivery(),
			PaymentMethod:   "CHEQUE",
		})
		assert.ErrorIs(t, err, ErrInvalidPayment)
	})

	t.Run("empty cart", func(t *testing.T) {
		empty := state.NewCart()
		_, err := state.Checkout(models.CheckoutRequest{
			CartID:          empty.ID,
			DeliveryDetails: validDelivery(),
			PaymentMethod:   models.PaymentPix,
		})
		assert.ErrorIs(t, err, ErrEmptyCart)
	})

	t.Run("unknown cart", func(t *testing.T) {
		_, err := state.Checkout(models.CheckoutRequest{
			CartID:          "gone",
			DeliveryDetails: validDelivery(),
			PaymentMethod:   models.PaymentPix,
		})
		assert.ErrorIs(t, err, ErrCartNotFound)
	})

	// failed checkouts leave the cart intact
	got, _ := state.Cart(cart.ID)
	assert.Len(t, got.Items, 1)
}

func TestCheckoutChangeForOnlyKeptForCash(t *testing.T) {
	state := newTestState(t, "")

	cart := state.NewCart()
	_, err := state.AddToCart(cart.ID, "1", decimal.NewFromInt(1), "")
	require.NoError(t, err)

	order, err := state.Checkout(models.CheckoutRequest{
		CartID:          cart.ID,
		DeliveryDetails: validDelivery(),
		PaymentMethod:   models.PaymentPix,
		ChangeFor:       "R$ 100,00",
	})
	require.NoError(t, err)
	assert.Empty(t, order.ChangeFor)

	cart = state.NewCart()
	_, err = state.AddToCart(cart.ID, "1", decimal.NewFromInt(1), "")
	require.NoError(t, err)

	order, err = state.Checkout(models.CheckoutRequest{
		CartID:          cart.ID,
		DeliveryDetails: validDelivery(),
		PaymentMethod:   models.PaymentCash,
		ChangeFor:       "R$ 100,00",
	})
	require.NoError(t, err)
	assert.Equal(t, "R$ 100,00", order.ChangeFor)
}

func TestOrdersAreNewestFirst(t *testing.T) {
	state := newTestState(t, "")

	var lastID string
	for i := 0; i < 3; i++ {
		cart := state.NewCart()
		_, err := state.AddToCart(cart.ID, "1", decimal.NewFromInt(1), "")
		require.NoError(t, err)
		order, err := state.Checkout(models.CheckoutRequest{
			CartID:          cart.ID,
			DeliveryDetails: validDelivery(),
			PaymentMethod:   models.PaymentPix,
		})
		require.NoError(t, err)
		lastID = order.ID
	}

	orders := state.Orders()
	require.Len(t, orders, 3)
	assert.Equal(t, lastID, orders[0].ID)

	got, ok := state.Order(lastID)
	assert.True(t, ok)
	assert.Equal(t, lastID, got.ID)
}

func TestAddAdminCap(t *testing.T) {
	state := newTestState(t, "")
	require.Equal(t, 1, state.AdminCount())

	for i, name := range []string{"ana", "bia", "caio"} {
		_, err := state.AddAdmin(name, "hash")
		require.NoError(t, err, "admin %d", i)
	}
	require.Equal(t, models.MaxAdmins, state.AdminCount())

	_, err := state.AddAdmin("dora", "hash")
	assert.ErrorIs(t, err, ErrAdminLimit)
	assert.Equal(t, models.MaxAdmins, state.AdminCount())
}

func TestAddAdminRejectsDuplicateUsername(t *testing.T) {
	state := newTestState(t, "")

	_, err := state.AddAdmin(models.SeedAdminUsername, "hash")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestAuthenticateExactMatchOnly(t *testing.T) {
	state := newTestState(t, "")

	_, ok := state.Authenticate(models.SeedAdminUsername, testSeedPassword)
	assert.True(t, ok)

	_, ok = state.Authenticate(models.SeedAdminUsername, "palmeiras@123")
	assert.False(t, ok)

	_, ok = state.Authenticate("Somshow01@gmail.com", testSeedPassword)
	assert.False(t, ok)

	_, ok = state.Authenticate(models.SeedAdminUsername, "")
	assert.False(t, ok)
}

func TestRememberAndClearSession(t *testing.T) {
	state := newTestState(t, "")

	admin, ok := state.Authenticate(models.SeedAdminUsername, testSeedPassword)
	require.True(t, ok)

	state.RememberSession(admin)
	assert.Equal(t, models.SeedAdminUsername, state.RememberedUsername())

	state.ClearSession()
	assert.Equal(t, "", state.RememberedUsername())
}

func TestSyncWithCloudMalformedBodyKeepsState(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{definitely not json"))
	}))
	defer server.Close()

	state := newTestState(t, server.URL)
	before := catalogJSON(t, state)
	coverBefore := state.CoverImage()

	err := state.SyncWithCloud(context.Background())
	assert.Error(t, err)
	assert.Equal(t, before, catalogJSON(t, state))
	assert.Equal(t, coverBefore, state.CoverImage())
	assert.False(t, state.IsSyncing())
}

func TestSyncWithCloudOverwritesCatalogAndCover(t *testing.T) {
	doc := models.SharedDocument{
		Products: []models.Product{
			{ID: "1", Name: "Tambaqui Cloud", PricePerKg: decimal.NewFromFloat(39.90), Images: []string{"img"}},
		},
		AppCoverImage: "https://example.com/cover.jpg",
		LastUpdate:    "2025-03-01T12:00:00Z",
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(doc)
	}))
	defer server.Close()

	state := newTestState(t, server.URL)
	require.NoError(t, state.SyncWithCloud(context.Background()))

	products := state.Products()
	require.Len(t, products, 1)
	assert.Equal(t, "Tambaqui Cloud", products[0].Name)
	assert.Equal(t, "https://example.com/cover.jpg", state.CoverImage())
}

func TestCatalogMutationsPushToCloud(t *testing.T) {
	var mu sync.Mutex
	var pushes []models.SharedDocument

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Write([]byte("{}"))
			return
		}
		var doc models.SharedDocument
		require.NoError(t, json.NewDecoder(r.Body).Decode(&doc))
		mu.Lock()
		pushes = append(pushes, doc)
		mu.Unlock()
	}))
	defer server.Close()

	state := newTestState(t, server.URL)

	product, _ := state.Product("1")
	product.Name = "Tambaqui Selecionado"
	require.NoError(t, state.UpdateProduct(context.Background(), product))

	state.SetCoverImage(context.Background(), "https://example.com/new-cover.jpg")

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, pushes, 2)
	assert.Equal(t, "Tambaqui Selecionado", pushes[0].Products[0].Name)
	assert.NotEmpty(t, pushes[0].LastUpdate)
	assert.Equal(t, "https://example.com/new-cover.jpg", pushes[1].AppCoverImage)
}

func TestCloudPushFailureKeepsLocalMutation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	state := newTestState(t, server.URL)

	product, _ := state.Product("1")
	product.Name = "Mantido Localmente"
	require.NoError(t, state.UpdateProduct(context.Background(), product))

	got, _ := state.Product("1")
	assert.Equal(t, "Mantido Localmente", got.Name)
	assert.False(t, state.IsSyncing())
}

func TestStateSurvivesRestartButCartsDoNot(t *testing.T) {
	dir := t.TempDir()
	kv, err := repositories.NewFileKV(dir)
	require.NoError(t, err)
	repo := repositories.NewStateRepository(kv)

	state, err := NewAppState(repo, NewCloudService(""), testSeedPassword)
	require.NoError(t, err)

	cart := state.NewCart()
	_, err = state.AddToCart(cart.ID, "1", decimal.NewFromInt(2), "")
	require.NoError(t, err)
	order, err := state.Checkout(models.CheckoutRequest{
		CartID:          cart.ID,
		DeliveryDetails: validDelivery(),
		PaymentMethod:   models.PaymentPix,
	})
	require.NoError(t, err)

	leftover := state.NewCart()

	// simulate a restart on the same data directory
	kv2, err := repositories.NewFileKV(dir)
	require.NoError(t, err)
	restarted, err := NewAppState(repositories.NewStateRepository(kv2), NewCloudService(""), testSeedPassword)
	require.NoError(t, err)

	_, ok := restarted.Order(order.ID)
	assert.True(t, ok, "orders survive a restart")

	_, ok = restarted.Cart(leftover.ID)
	assert.False(t, ok, "carts do not survive a restart")

	// the seeded admin is not re-seeded over the stored one
	assert.Equal(t, 1, restarted.AdminCount())
	_, ok = restarted.Authenticate(models.SeedAdminUsername, testSeedPassword)
	assert.True(t, ok)
}
