package fetch

import (
	"net/http"
	"time"
)

type Options struct {
	MaxIdleConnsPerHost int

	// Timeout bounds a whole request. Zero leaves downloads
	// on the transport's defaults.
	Timeout time.Duration
}

func DefaultOptions() Options {
	return Options{
		MaxIdleConnsPerHost: 100,
	}
}

func NewClient(opts Options) *http.Client {
	if opts.MaxIdleConnsPerHost <= 0 {
		opts.MaxIdleConnsPerHost = 100
	}
	transport := &http.Transport{
		MaxIdleConnsPerHost: opts.MaxIdleConnsPerHost,
		MaxIdleConns:        opts.MaxIdleConnsPerHost * 2,
		IdleConnTimeout:     90 * time.Second,
	}
	return &http.Client{
		Transport: transport,
		Timeout:   opts.Timeout,
	}
}
