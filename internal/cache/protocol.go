package cache

// Simple JSON protocol for the cache daemon over a Unix domain socket.
// One request -> one response using json.Encoder/Decoder per connection.

const (
	OpCreateBucket = "create_bucket"
	OpDeleteBucket = "delete_bucket"
	OpBuckets      = "buckets"
	OpGet          = "get"
	OpPutBatch     = "put_batch"
	OpDelete       = "delete"
	OpKeys         = "keys"
)

type Request struct {
	Op      string            `json:"op"`
	Bucket  string            `json:"bucket,omitempty"`
	Key     string            `json:"key,omitempty"`
	Entries map[string][]byte `json:"entries,omitempty"`
}

type Response struct {
	OK    bool     `json:"ok"`
	Value []byte   `json:"value,omitempty"`
	Keys  []string `json:"keys,omitempty"`
	Error string   `json:"error,omitempty"`
}
