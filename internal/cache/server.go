package cache

import (
	"encoding/json"
	"errors"
	"net"
	"time"
)

const maxAcceptDelay = time.Second

// Serve accepts connections on l and answers protocol requests against kv
// until l is closed. Accept errors back off from 5ms up to one second.
func Serve(l net.Listener, kv KV) error {
	var delay time.Duration
	for {
		conn, err := l.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			if delay == 0 {
				delay = 5 * time.Millisecond
			} else {
				delay = min(delay*2, maxAcceptDelay)
			}
			time.Sleep(delay)
			continue
		}
		delay = 0
		go handleConn(conn, kv)
	}
}

func handleConn(conn net.Conn, kv KV) {
	defer conn.Close()
	dec := json.NewDecoder(conn)
	enc := json.NewEncoder(conn)
	for {
		var req Request
		if err := dec.Decode(&req); err != nil {
			return
		}
		_ = enc.Encode(dispatch(kv, req))
	}
}

func dispatch(kv KV, req Request) Response {
	var (
		resp Response
		err  error
	)
	switch req.Op {
	case OpCreateBucket:
		err = kv.CreateBucket(req.Bucket)
	case OpDeleteBucket:
		err = kv.DeleteBucket(req.Bucket)
	case OpBuckets:
		resp.Keys, err = kv.Buckets()
	case OpGet:
		resp.Value, err = kv.Get(req.Bucket, req.Key)
	case OpPutBatch:
		err = kv.PutBatch(req.Bucket, req.Entries)
	case OpDelete:
		err = kv.Delete(req.Bucket, req.Key)
	case OpKeys:
		resp.Keys, err = kv.Keys(req.Bucket)
	default:
		return Response{OK: false, Error: "unknown op"}
	}
	if err != nil {
		return Response{OK: false, Error: err.Error()}
	}
	resp.OK = true
	return resp
}
