// Package network executes typed HTTP resources against the NeoWs API.
package network

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/neofeed/neofeed/internal/config"
	"github.com/neofeed/neofeed/internal/utils"
	"github.com/sirupsen/logrus"
)

// APIKeyParam is the query parameter carrying the credential.
const APIKeyParam = "api_key"

// Service owns the single transport shared by every call and the credential
// injected into each request.
type Service struct {
	client *retryablehttp.Client
	apiKey string
}

// NewService builds a Service from cfg. cfg is read once; later changes to it
// have no effect.
func NewService(cfg *config.Config) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("network: nil config")
	}
	client, err := newClient(cfg.Proxy)
	if err != nil {
		return nil, err
	}
	return &Service{client: client, apiKey: cfg.APIKey}, nil
}

// Load builds r, authorizes it, executes it and decodes the body into T.
func Load[T any](ctx context.Context, s *Service, r Resource[T]) (T, error) {
	var zero T

	req, err := r.Request(ctx)
	if err != nil {
		return zero, err
	}
	s.authorize(req.URL)

	body, err := s.do(req)
	if err != nil {
		return zero, err
	}

	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return zero, &DecodingError{Err: err}
	}
	return v, nil
}

func (s *Service) authorize(u *url.URL) {
	setQueryParam(u, APIKeyParam, s.apiKey)
}

func (s *Service) do(req *http.Request) ([]byte, error) {
	rreq, err := retryablehttp.FromRequest(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	resp, err := s.client.Do(rreq)
	if err != nil {
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if resp == nil || resp.Body == nil {
		return nil, ErrInvalidResponse
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		dle := &DataLoadingError{StatusCode: resp.StatusCode, Body: body}
		utils.Log.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"url":    redactedURL(req.URL),
			"reason": dle.Message(),
		}).Warnf("response string %s", string(body))
		return nil, dle
	}
	return body, nil
}

// redactedURL hides the credential so request URLs can be logged.
func redactedURL(u *url.URL) string {
	c := *u
	if c.Query().Has(APIKeyParam) {
		setQueryParam(&c, APIKeyParam, "REDACTED")
	}
	return c.String()
}
