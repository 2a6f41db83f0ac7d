package repositories

import (
	"encoding/json"
	"errors"
	"log"

	"tambaqui-prime/models"
)

// StateRepository is the typed persistence layer over a KV driver. Reads
// never fail: a missing or unparseable value falls back to the seed default
// and the corruption is logged. Writes return their error so the state
// manager can decide to log-and-continue.
type StateRepository struct {
	kv KV
}

func NewStateRepository(kv KV) *StateRepository {
	return &StateRepository{kv: kv}
}

// storedAdmin carries the password hash, which models.AdminUser keeps out
// of JSON for API responses.
type storedAdmin struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *StateRepository) load(key string, out interface{}) bool {
	data, err := r.kv.Get(key)
	if errors.Is(err, ErrKeyNotFound) {
		return false
	}
	if err != nil {
		log.Printf("Failed to read %s: %v", key, err)
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		log.Printf("Corrupt value under %s, using defaults: %v", key, err)
		return false
	}
	return true
}

func (r *StateRepository) save(key string, in interface{}) error {
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return r.kv.Set(key, data)
}

func (r *StateRepository) LoadProducts() []models.Product {
	var products []models.Product
	if !r.load(KeyProducts, &products) || len(products) == 0 {
		return models.SeedProducts()
	}
	return products
}

func (r *StateRepository) SaveProducts(products []models.Product) error {
	return r.save(KeyProducts, products)
}

func (r *StateRepository) LoadOrders() []models.Order {
	var orders []models.Order
	if !r.load(KeyOrders, &orders) {
		return []models.Order{}
	}
	return orders
}

func (r *StateRepository) SaveOrders(orders []models.Order) error {
	return r.save(KeyOrders, orders)
}

// LoadAdmins returns nil when nothing usable is stored; the state manager
// seeds the main admin in that case.
func (r *StateRepository) LoadAdmins() []models.AdminUser {
	var stored []storedAdmin
	if !r.load(KeyAdmins, &stored) {
		return nil
	}
	admins := make([]models.AdminUser, 0, len(stored))
	for _, a := range stored {
		admins = append(admins, models.AdminUser{ID: a.ID, Username: a.Username, Password: a.Password})
	}
	return admins
}

func (r *StateRepository) SaveAdmins(admins []models.AdminUser) error {
	stored := make([]storedAdmin, 0, len(admins))
	for _, a := range admins {
		stored = append(stored, storedAdmin{ID: a.ID, Username: a.Username, Password: a.Password})
	}
	return r.save(KeyAdmins, stored)
}

func (r *StateRepository) LoadCover() string {
	var cover string
	if !r.load(KeyCover, &cover) || cover == "" {
		return models.DefaultCoverImage
	}
	return cover
}

func (r *StateRepository) SaveCover(url string) error {
	return r.save(KeyCover, url)
}

func (r *StateRepository) SaveRememberedUsername(username string) error {
	return r.save(KeyRememberedUsername, username)
}

func (r *StateRepository) LoadRememberedUsername() string {
	var username string
	r.load(KeyRememberedUsername, &username)
	return username
}

func (r *StateRepository) SaveCurrentUser(admin models.AdminUser) error {
	return r.save(KeyCurrentUser, storedAdmin{ID: admin.ID, Username: admin.Username, Password: admin.Password})
}

// ClearSession removes everything that could identify the last session.
func (r *StateRepository) ClearSession() error {
	if err := r.kv.Delete(KeyCurrentUser); err != nil {
		return err
	}
	return r.kv.Delete(KeyRememberedUsername)
}
