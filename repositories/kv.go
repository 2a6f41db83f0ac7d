package repositories

import "errors"

// Storage keys, one per persisted collection.
const (
	KeyProducts           = "tp_products"
	KeyOrders             = "tp_orders"
	KeyAdmins             = "tp_admins"
	KeyCurrentUser        = "tp_current_user"
	KeyRememberedUsername = "tp_remembered_username"
	KeyCover              = "tp_cover"
)

// ErrKeyNotFound is returned by Get when the key was never written.
var ErrKeyNotFound = errors.New("key not found")

// KV is a durable key-value store holding one JSON value per key. Drivers:
// FileKV (default) and PostgresKV.
type KV interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
}
