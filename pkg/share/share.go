// Package share turns an object into what gets handed to a share target.
package share

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/neofeed/neofeed/pkg/neo"
	"github.com/weppos/publicsuffix-go/publicsuffix"
)

// Payload holds the shareable items of an object. Name and URL are empty
// when the object lacks them.
type Payload struct {
	ID        string
	Name      string
	URL       string
	Source    string
	Hazardous bool
}

// Items returns the non-empty items in share order: name, then URL.
func (p Payload) Items() []string {
	var items []string
	if p.Name != "" {
		items = append(items, p.Name)
	}
	if p.URL != "" {
		items = append(items, p.URL)
	}
	return items
}

// FromObject builds the payload for o. A JPL URL that does not parse as an
// absolute URL is left out.
func FromObject(o neo.NearEarthObject) Payload {
	p := Payload{ID: o.ID, Name: o.Name.Or(""), Hazardous: o.Hazardous()}
	if raw, ok := o.NasaJPLURL.Get(); ok {
		if u, err := url.Parse(raw); err == nil && u.Host != "" {
			p.URL = raw
			p.Source, _ = RootDomain(u.Hostname())
		}
	}
	return p
}

// RootDomain returns the registrable domain of host,
// e.g. "ssd.jpl.nasa.gov" -> "nasa.gov".
func RootDomain(host string) (string, bool) {
	host = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(host)), ".")
	if !strings.Contains(host, ".") || strings.Contains(host, "*") {
		return "", false
	}
	domain, err := publicsuffix.Domain(host)
	if err != nil {
		return "", false
	}
	return domain, true
}

// Sink receives share payloads.
type Sink interface {
	Share(ctx context.Context, p Payload) error
}

type SinkFunc func(ctx context.Context, p Payload) error

func (f SinkFunc) Share(ctx context.Context, p Payload) error {
	return f(ctx, p)
}

// WriterSink writes each payload's items one per line.
type WriterSink struct {
	W io.Writer
}

func (s WriterSink) Share(ctx context.Context, p Payload) error {
	items := p.Items()
	if len(items) == 0 {
		return fmt.Errorf("nothing to share for object %s", p.ID)
	}
	for _, it := range items {
		if _, err := fmt.Fprintln(s.W, it); err != nil {
			return err
		}
	}
	return nil
}

// Multi fans a payload out to every sink in order, stopping at the first
// error.
func Multi(sinks ...Sink) Sink {
	return SinkFunc(func(ctx context.Context, p Payload) error {
		for _, s := range sinks {
			if err := s.Share(ctx, p); err != nil {
				return err
			}
		}
		return nil
	})
}
