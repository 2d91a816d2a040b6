package retryer

import (
	"bytes"
	"io"
	"net/http"
)

// Request keeps the body as a ReadSeeker so that it can be replayed on
// every retry attempt.
type Request struct {
	body io.ReadSeeker
	*http.Request
}

func NewRequest(method, url string, body io.Reader) (*Request, error) {

	rs, ok := body.(io.ReadSeeker)
	if !ok && body != nil {
		data, err := io.ReadAll(body)
		if err != nil {
			return nil, err
		}
		rs = bytes.NewReader(data)
	}

	request, err := http.NewRequest(method, url, rs)
	if err != nil {
		return nil, err
	}
	return &Request{rs, request}, nil
}

func (r *Request) rewind() error {
	if r.body == nil {
		return nil
	}
	_, err := r.body.Seek(0, io.SeekStart)
	return err
}
