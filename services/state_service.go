package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tambaqui-prime/models"
	"tambaqui-prime/repositories"
	"tambaqui-prime/utils"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrLastImage        = errors.New("a product must keep at least one image")
	ErrImageOutOfRange  = errors.New("image index out of range")
	ErrCartNotFound     = errors.New("cart not found")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrInvalidQuantity  = errors.New("quantity must be greater than zero")
	ErrAdminLimit       = errors.New("admin limit reached")
	ErrUsernameTaken    = errors.New("username already in use")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrMissingDelivery  = errors.New("all delivery fields except observations are required")
	ErrInvalidPayment   = errors.New("invalid payment method")
)

// AppState is the single owner of mutable application state: catalog,
// orders, admins, carts and the cover image. It is constructed explicitly
// and injected into controllers; persistence is delegated to the
// StateRepository and catalog replication to the CloudService.
//
// Carts live in memory only and do not survive a restart; catalog and
// orders do. Storage write failures and cloud push failures are logged and
// never abort the mutation that caused them.
type AppState struct {
	mu       sync.RWMutex
	products []models.Product
	orders   []models.Order
	admins   []models.AdminUser
	carts    map[string]*models.Cart
	cover    string

	syncing atomic.Bool

	repo  *repositories.StateRepository
	cloud *CloudService
}

func NewAppState(repo *repositories.StateRepository, cloud *CloudService, seedAdminPassword string) (*AppState, error) {
	s := &AppState{
		products: repo.LoadProducts(),
		orders:   repo.LoadOrders(),
		admins:   repo.LoadAdmins(),
		carts:    make(map[string]*models.Cart),
		cover:    repo.LoadCover(),
		repo:     repo,
		cloud:    cloud,
	}

	if len(s.admins) == 0 {
		if seedAdminPassword == "" {
			seedAdminPassword = "changeme"
			log.Println("Warning: SEED_ADMIN_PASSWORD not set, seeding main admin with default password")
		}
		hash, err := utils.HashPassword(seedAdminPassword)
		if err != nil {
			return nil, err
		}
		s.admins = []models.AdminUser{{
			ID:       "main-admin",
			Username: models.SeedAdminUsername,
			Password: hash,
		}}
		if err := repo.SaveAdmins(s.admins); err != nil {
			log.Printf("Failed to persist seeded admin: %v", err)
		}
	}

	return s, nil
}

// IsSyncing is advisory only, a UI signal, not a lock.
func (s *AppState) IsSyncing() bool {
	return s.syncing.Load()
}

// ---- catalog ----

func (s *AppState) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Product, len(s.products))
	copy(out, s.products)
	return out
}

func (s *AppState) Product(id string) (models.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

// UpdateProduct replaces the product with a matching id, persists the
// catalog and pushes it to the shared document. All other products are
// left untouched.
func (s *AppState) UpdateProduct(ctx context.Context, updated models.Product) error {
	if len(updated.Images) == 0 {
		return ErrLastImage
	}

	s.mu.Lock()
	idx := -1
	for i, p := range s.products {
		if p.ID == updated.ID {
			idx = i
			break
		}
	}
	if idx == -1 {
		s.mu.Unlock()
		return ErrProductNotFound
	}
	s.products[idx] = updated
	s.persistCatalogLocked()
	products, cover := s.catalogSnapshotLocked()
	s.mu.Unlock()

	s.pushCatalog(ctx, products, cover)
	return nil
}

func (s *AppState) AddProductImage(ctx context.Context, productID, url string) error {
	s.mu.Lock()
	idx := s.productIndexLocked(productID)
	if idx == -1 {
		s.mu.Unlock()
		return ErrProductNotFound
	}
	s.products[idx].Images = append(s.products[idx].Images, url)
	s.persistCatalogLocked()
	products, cover := s.catalogSnapshotLocked()
	s.mu.Unlock()

	s.pushCatalog(ctx, products, cover)
	return nil
}

// RemoveProductImage rejects removing the last remaining image; the image
// list never drops to zero.
func (s *AppState) RemoveProductImage(ctx context.Context, productID string, imageIndex int) error {
	s.mu.Lock()
	idx := s.productIndexLocked(productID)
	if idx == -1 {
		s.mu.Unlock()
		return ErrProductNotFound
	}
	images := s.products[idx].Images
	if imageIndex < 0 || imageIndex >= len(images) {
		s.mu.Unlock()
		return ErrImageOutOfRange
	}
	if len(images) == 1 {
		s.mu.Unlock()
		return ErrLastImage
	}
	s.products[idx].Images = append(images[:imageIndex:imageIndex], images[imageIndex+1:]...)
	s.persistCatalogLocked()
	products, cover := s.catalogSnapshotLocked()
	s.mu.Unlock()

	s.pushCatalog(ctx, products, cover)
	return nil
}

func (s *AppState) productIndexLocked(id string) int {
	for i, p := range s.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// ---- cover image ----

func (s *AppState) CoverImage() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cover
}

func (s *AppState) SetCoverImage(ctx context.Context, url string) {
	s.mu.Lock()
	s.cover = url
	if err := s.repo.SaveCover(url); err != nil {
		log.Printf("Failed to persist cover image: %v", err)
	}
	products, cover := s.catalogSnapshotLocked()
	s.mu.Unlock()

	s.pushCatalog(ctx, products, cover)
}

// ---- carts ----

func (s *AppState) NewCart() models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart := &models.Cart{ID: uuid.NewString(), Items: []models.CartItem{}}
	s.carts[cart.ID] = cart
	return *cart
}

func (s *AppState) Cart(cartID string) (models.Cart, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cart, ok := s.carts[cartID]
	if !ok {
		return models.Cart{}, false
	}
	out := *cart
	out.Items = make([]models.CartItem, len(cart.Items))
	copy(out.Items, cart.Items)
	return out, true
}

// AddToCart snapshots the product's name and price onto the new line, so
// later catalog edits never reprice a cart.
func (s *AppState) AddToCart(cartID, productID string, quantity decimal.Decimal, selectedOption string) (models.CartItem, error) {
	if !quantity.IsPositive() {
		return models.CartItem{}, ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[cartID]
	if !ok {
		return models.CartItem{}, ErrCartNotFound
	}
	idx := s.productIndexLocked(productID)
	if idx == -1 {
		return models.CartItem{}, ErrProductNotFound
	}
	product := s.products[idx]

	item := models.CartItem{
		ID:             uuid.NewString(),
		ProductID:      product.ID,
		Name:           product.Name,
		Price:          product.PricePerKg,
		Quantity:       quantity,
		SelectedOption: selectedOption,
	}
	cart.Items = append(cart.Items, item)
	return item, nil
}

func (s *AppState) RemoveFromCart(cartID, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[cartID]
	if !ok {
		return ErrCartNotFound
	}
	for i, item := range cart.Items {
		if item.ID == itemID {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			return nil
		}
	}
	return ErrCartItemNotFound
}

func (s *AppState) ClearCart(cartID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[cartID]
	if !ok {
		return ErrCartNotFound
	}
	cart.Items = []models.CartItem{}
	return nil
}

// ---- orders ----

// Checkout validates the request, freezes the cart into an immutable order
// and clears the cart. The order id is regenerated until it does not
// collide with any stored order.
func (s *AppState) Checkout(req models.CheckoutRequest) (models.Order, error) {
	d := req.DeliveryDetails
	if strings.TrimSpace(d.Name) == "" ||
		strings.TrimSpace(d.Street) == "" ||
		strings.TrimSpace(d.Number) == "" ||
		strings.TrimSpace(d.Neighborhood) == "" ||
		strings.TrimSpace(d.WhatsApp) == "" {
		return models.Order{}, ErrMissingDelivery
	}
	if !req.PaymentMethod.Valid() {
		return models.Order{}, ErrInvalidPayment
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[req.CartID]
	if !ok {
		return models.Order{}, ErrCartNotFound
	}
	if len(cart.Items) == 0 {
		return models.Order{}, ErrEmptyCart
	}

	items := make([]models.CartItem, len(cart.Items))
	copy(items, cart.Items)

	changeFor := ""
	if req.PaymentMethod == models.PaymentCash {
		changeFor = req.ChangeFor
	}

	order := models.Order{
		ID:              s.nextOrderIDLocked(),
		CustomerName:    d.Name,
		WhatsApp:        d.WhatsApp,
		CreatedAt:       time.Now().UTC().Format(time.RFC3339),
		Items:           items,
		DeliveryDetails: d,
		PaymentMethod:   req.PaymentMethod,
		ChangeFor:       changeFor,
		DeliveryFee:     models.DeliveryFee,
		Total:           cart.Subtotal().Add(models.DeliveryFee),
	}

	s.orders = append([]models.Order{order}, s.orders...)
	if err := s.repo.SaveOrders(s.orders); err != nil {
		log.Printf("Failed to persist orders: %v", err)
	}
	cart.Items = []models.CartItem{}

	return order, nil
}

func (s *AppState) nextOrderIDLocked() string {
	for {
		id := utils.RandomOrderCode(6)
		collision := false
		for _, o := range s.orders {
			if o.ID == id {
				collision = true
				break
			}
		}
		if !collision {
			return id
		}
	}
}

func (s *AppState) Orders() []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

func (s *AppState) Order(id string) (models.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.orders {
		if o.ID == id {
			return o, true
		}
	}
	return models.Order{}, false
}

// ---- admins ----

func (s *AppState) AddAdmin(username, passwordHash string) (models.AdminUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.admins) >= models.MaxAdmins {
		return models.AdminUser{}, ErrAdminLimit
	}
	for _, a := range s.admins {
		if a.Username == username {
			return models.AdminUser{}, ErrUsernameTaken
		}
	}

	admin := models.AdminUser{
		ID:       uuid.NewString(),
		Username: username,
		Password: passwordHash,
	}
	s.admins = append(s.admins, admin)
	if err := s.repo.SaveAdmins(s.admins); err != nil {
		log.Printf("Failed to persist admins: %v", err)
	}
	return admin, nil
}

func (s *AppState) AdminCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.admins)
}

// Authenticate scans for an exact, case-sensitive username match and
// verifies the password against the stored hash.
func (s *AppState) Authenticate(username, password string) (models.AdminUser, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.admins {
		if a.Username == username {
			ok, err := utils.VerifyPassword(a.Password, password)
			if err == nil && ok {
				return a, true
			}
			return models.AdminUser{}, false
		}
	}
	return models.AdminUser{}, false
}

// RememberSession persists the session identity; only called when the user
// opted into "remember me".
func (s *AppState) RememberSession(admin models.AdminUser) {
	if err := s.repo.SaveCurrentUser(admin); err != nil {
		log.Printf("Failed to persist session: %v", err)
	}
	if err := s.repo.SaveRememberedUsername(admin.Username); err != nil {
		log.Printf("Failed to persist remembered username: %v", err)
	}
}

func (s *AppState) ClearSession() {
	if err := s.repo.ClearSession(); err != nil {
		log.Printf("Failed to clear session: %v", err)
	}
}

func (s *AppState) RememberedUsername() string {
	return s.repo.LoadRememberedUsername()
}

// ---- cloud sync ----

// SyncWithCloud pulls the shared document and overwrites the local catalog
// and cover with whatever it carries. On any failure the existing state is
// kept untouched and the error is returned for the caller to log.
func (s *AppState) SyncWithCloud(ctx context.Context) error {
	if !s.cloud.Enabled() {
		return nil
	}

	s.syncing.Store(true)
	defer s.syncing.Store(false)

	doc, err := s.cloud.Fetch(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if doc.Products != nil {
		s.products = doc.Products
		s.persistCatalogLocked()
	}
	if doc.AppCoverImage != "" {
		s.cover = doc.AppCoverImage
		if err := s.repo.SaveCover(doc.AppCoverImage); err != nil {
			log.Printf("Failed to persist cover image: %v", err)
		}
	}
	return nil
}

func (s *AppState) persistCatalogLocked() {
	if err := s.repo.SaveProducts(s.products); err != nil {
		log.Printf("Failed to persist products: %v", err)
	}
}

func (s *AppState) catalogSnapshotLocked() ([]models.Product, string) {
	products := make([]models.Product, len(s.products))
	copy(products, s.products)
	return products, s.cover
}

// pushCatalog replicates the catalog to the shared document. Fire and
// forget: a failure is logged and the local mutation stands.
func (s *AppState) pushCatalog(ctx context.Context, products []models.Product, cover string) {
	if !s.cloud.Enabled() {
		return
	}

	s.syncing.Store(true)
	defer s.syncing.Store(false)

	if err := s.cloud.Push(ctx, products, cover); err != nil {
		log.Printf("Cloud push failed, catalog change kept locally: %v", err)
	}
}
