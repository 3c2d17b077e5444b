// Package kvstore provides the string key-value persistence used for the
// local card and ledger records, mirroring a browser localStorage contract.
package kvstore

// Store is a synchronous string key-value store. Values are JSON documents
// encoded by the caller; the store itself never inspects them.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool)
	// Set stores value under key, replacing any previous value.
	Set(key, value string) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(key string) error
	// Keys returns all present keys in unspecified order.
	Keys() []string
}
