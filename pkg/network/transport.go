package network

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/neofeed/neofeed/internal/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/http/httpproxy"
)

// newClient returns the shared client. It never retries: a failed call is
// reported to the caller as is.
func newClient(proxy string) (*retryablehttp.Client, error) {
	c := retryablehttp.NewClient()
	c.RetryMax = 0
	c.CheckRetry = neverRetry
	c.ErrorHandler = retryablehttp.PassthroughErrorHandler
	c.Logger = leveledLogger{utils.Log}

	pf, err := proxyFunc(proxy)
	if err != nil {
		return nil, err
	}
	if t, ok := c.HTTPClient.Transport.(*http.Transport); ok {
		t.Proxy = pf
	} else {
		c.HTTPClient.Transport = &http.Transport{Proxy: pf}
	}
	return c, nil
}

func neverRetry(ctx context.Context, _ *http.Response, _ error) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return false, nil
}

// proxyFunc resolves the explicit proxy when set, otherwise the usual
// HTTP_PROXY/HTTPS_PROXY/NO_PROXY environment.
func proxyFunc(proxy string) (func(*http.Request) (*url.URL, error), error) {
	cfg := httpproxy.FromEnvironment()
	if proxy != "" {
		if _, err := url.Parse(proxy); err != nil {
			return nil, fmt.Errorf("invalid proxy URL: %v", err)
		}
		cfg = &httpproxy.Config{HTTPProxy: proxy, HTTPSProxy: proxy}
	}
	resolve := cfg.ProxyFunc()
	return func(r *http.Request) (*url.URL, error) {
		return resolve(r.URL)
	}, nil
}

// leveledLogger routes retryablehttp's request log into logrus.
type leveledLogger struct {
	l *logrus.Logger
}

func (ll leveledLogger) fields(kv []interface{}) logrus.Fields {
	f := logrus.Fields{}
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		if key == "url" {
			if u, ok := kv[i+1].(*url.URL); ok {
				f[key] = redactedURL(u)
				continue
			}
		}
		f[key] = kv[i+1]
	}
	return f
}

func (ll leveledLogger) Error(msg string, kv ...interface{}) { ll.l.WithFields(ll.fields(kv)).Debug(msg) }
func (ll leveledLogger) Info(msg string, kv ...interface{})  { ll.l.WithFields(ll.fields(kv)).Debug(msg) }
func (ll leveledLogger) Debug(msg string, kv ...interface{}) { ll.l.WithFields(ll.fields(kv)).Debug(msg) }
func (ll leveledLogger) Warn(msg string, kv ...interface{})  { ll.l.WithFields(ll.fields(kv)).Debug(msg) }
