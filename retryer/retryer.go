package retryer

import (
	"math"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

const timeout = 30 * time.Second

var DefaultClient = &http.Client{Timeout: timeout}

const maxRetryCount = 5

type doFunc func(retryer *Retryer, request *Request) (*http.Response, error)

// Retryer wraps an http.Client with exponential backoff on throttling
// and server-side failures.
type Retryer struct {
	DoFunc doFunc
	client *http.Client
}

func (r *Retryer) Do(request *Request) (*http.Response, error) {
	if r.DoFunc != nil {
		return r.DoFunc(r, request)
	}
	return DoWithExponentialBackoff(r, request)
}

func shouldRetry(statusCode int) bool {
	if statusCode == http.StatusTooManyRequests {
		return true
	}
	return statusCode >= 500 && statusCode <= 599
}

func waitTime(retryCount int) time.Duration {
	waitTimeInMillis := math.Pow(2, float64(retryCount)) * 100
	return time.Duration(waitTimeInMillis) * time.Millisecond
}

func DoWithExponentialBackoff(retryer *Retryer, request *Request) (*http.Response, error) {

	client := DefaultClient
	if retryer.client != nil {
		client = retryer.client
	}

	for retryCount := 0; retryCount < maxRetryCount; retryCount++ {

		time.Sleep(waitTime(retryCount))

		if err := request.rewind(); err != nil {
			return nil, err
		}

		response, err := client.Do(request.Request)
		if netErr, isNetErr := err.(net.Error); isNetErr {
			if netErr.Timeout() {
				continue
			}
			return nil, netErr
		} else if err != nil {
			return nil, err
		}

		if shouldRetry(response.StatusCode) {
			response.Body.Close()
			continue
		}

		return response, nil
	}

	return nil, errors.New("Maximum retry count is exceeded.")
}
