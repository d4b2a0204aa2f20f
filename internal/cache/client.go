package cache

import (
	"encoding/json"
	"net"
	"time"
)

// Client implements KV over a Unix socket.
type Client struct {
	socketPath string
}

func NewClient(socketPath string) *Client {
	return &Client{socketPath: socketPath}
}

func (c *Client) withConn(fn func(conn net.Conn) error) error {
	conn, err := net.DialTimeout("unix", c.socketPath, 500*time.Millisecond)
	if err != nil {
		return err
	}
	defer conn.Close()
	return fn(conn)
}

// roundTrip sends one request and decodes one response.
func (c *Client) roundTrip(req Request) (Response, error) {
	var resp Response
	err := c.withConn(func(conn net.Conn) error {
		if err := json.NewEncoder(conn).Encode(&req); err != nil {
			return err
		}
		if err := json.NewDecoder(conn).Decode(&resp); err != nil {
			return err
		}
		if !resp.OK {
			return decodeError(resp.Error)
		}
		return nil
	})
	return resp, err
}

func (c *Client) CreateBucket(bucket string) error {
	_, err := c.roundTrip(Request{Op: OpCreateBucket, Bucket: bucket})
	return err
}

func (c *Client) DeleteBucket(bucket string) error {
	_, err := c.roundTrip(Request{Op: OpDeleteBucket, Bucket: bucket})
	return err
}

func (c *Client) Buckets() ([]string, error) {
	resp, err := c.roundTrip(Request{Op: OpBuckets})
	if err != nil {
		return nil, err
	}
	return resp.Keys, nil
}

func (c *Client) Get(bucket, key string) ([]byte, error) {
	resp, err := c.roundTrip(Request{Op: OpGet, Bucket: bucket, Key: key})
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), resp.Value...), nil
}

func (c *Client) PutBatch(bucket string, entries map[string][]byte) error {
	_, err := c.roundTrip(Request{Op: OpPutBatch, Bucket: bucket, Entries: entries})
	return err
}

func (c *Client) Delete(bucket, key string) error {
	_, err := c.roundTrip(Request{Op: OpDelete, Bucket: bucket, Key: key})
	return err
}

func (c *Client) Keys(bucket string) ([]string, error) {
	resp, err := c.roundTrip(Request{Op: OpKeys, Bucket: bucket})
	if err != nil {
		return nil, err
	}
	return resp.Keys, nil
}

// decodeError maps wire messages back onto the package sentinels.
func decodeError(msg string) error {
	switch msg {
	case ErrNotFound.Error():
		return ErrNotFound
	case ErrNoBucket.Error():
		return ErrNoBucket
	}
	return &remoteError{s: msg}
}

type remoteError struct{ s string }

func (e *remoteError) Error() string { return e.s }
