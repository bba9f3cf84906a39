package storage

import (
	"context"
	"time"

	"github.com/neofeed/neofeed/pkg/share"
)

// ShareEntry is one row of the share log. The log is an audit trail only;
// nothing reads it back to serve feed data.
type ShareEntry struct {
	ID       string
	SharedAt time.Time

	// Object info
	ObjectID  string
	Name      string
	URL       string
	Source    string
	Hazardous bool
}

// EntryFromPayload converts a share payload into a log entry.
func EntryFromPayload(p share.Payload) ShareEntry {
	return ShareEntry{
		ObjectID:  p.ID,
		Name:      p.Name,
		URL:       p.URL,
		Source:    p.Source,
		Hazardous: p.Hazardous,
	}
}

// Sink records every shared payload in d.
func (d *DB) Sink() share.Sink {
	return share.SinkFunc(func(ctx context.Context, p share.Payload) error {
		_, err := d.RecordShare(ctx, EntryFromPayload(p))
		return err
	})
}
