package redis

import "github.com/redis/rueidis"

// NewStoreForTest wraps an existing client (e.g. rueidis/mock) for tests.
func NewStoreForTest(c rueidis.Client) *Store {
	return &Store{client: c}
}
