package cache

// KV defines the bucketed key-value contract the named caches are built on.
// Each bucket holds the entries of one named cache.
// Implementations must be safe for concurrent use by multiple goroutines.
type KV interface {
	// CreateBucket creates the bucket if it does not exist.
	CreateBucket(bucket string) error
	// DeleteBucket removes the bucket and all of its keys.
	// It returns ErrNoBucket if the bucket does not exist.
	DeleteBucket(bucket string) error
	// Buckets lists bucket names in byte order.
	Buckets() ([]string, error)

	Get(bucket, key string) ([]byte, error)
	// PutBatch writes all entries in a single transaction: either every
	// entry is stored or none is.
	PutBatch(bucket string, entries map[string][]byte) error
	Delete(bucket, key string) error
	// Keys lists keys in byte order.
	Keys(bucket string) ([]string, error)
}
