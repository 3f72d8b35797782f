package persist

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/nurpe/contracts-service/internal/model"
	"github.com/nurpe/contracts-service/internal/store"
)

const defaultWriteTimeout = 5 * time.Second

// Recorder is notified of every write attempt.
type Recorder interface {
	PersistResult(err error)
}

type Persister struct {
	backend      Backend
	key          string
	log          zerolog.Logger
	recorder     Recorder
	writeTimeout time.Duration
}

type Option func(*Persister)

func WithRecorder(r Recorder) Option {
	return func(p *Persister) {
		p.recorder = r
	}
}

func WithWriteTimeout(d time.Duration) Option {
	return func(p *Persister) {
		if d > 0 {
			p.writeTimeout = d
		}
	}
}

func NewPersister(backend Backend, key string, log zerolog.Logger, opts ...Option) *Persister {
	p := &Persister{
		backend:      backend,
		key:          key,
		log:          log.With().Str("component", "persist").Str("key", key).Logger(),
		writeTimeout: defaultWriteTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Load reads the stored snapshot. Absent or unreadable state yields
// fallback; the failure is logged and not returned.
func (p *Persister) Load(ctx context.Context, fallback model.Snapshot) model.Snapshot {
	blob, err := p.backend.Load(ctx, p.key)
	if errors.Is(err, ErrNotFound) {
		p.log.Info().Msg("no persisted state, starting fresh")
		return fallback.Clone()
	}
	if err != nil {
		p.log.Warn().Err(err).Msg("read persisted state failed, starting fresh")
		return fallback.Clone()
	}

	snapshot, err := Decode(blob)
	if err != nil {
		p.log.Warn().Err(err).Msg("persisted state unreadable, starting fresh")
		return fallback.Clone()
	}

	p.log.Info().
		Int("contracts", len(snapshot.Contracts)).
		Int("invoices", len(snapshot.Invoices)).
		Msg("state restored")
	return snapshot
}

// Hydrate loads persisted state into s without triggering a write.
func (p *Persister) Hydrate(ctx context.Context, s *store.Store, fallback model.Snapshot) {
	s.Replace(p.Load(ctx, fallback))
}

// Attach subscribes the persister to s and returns the unsubscribe func.
func (p *Persister) Attach(s *store.Store) func() {
	return s.Subscribe(p.Write)
}

// Write serialises snapshot under the persister's key. Failures are logged;
// the in-memory state stays authoritative.
func (p *Persister) Write(snapshot model.Snapshot) {
	err := p.save(snapshot)
	if p.recorder != nil {
		p.recorder.PersistResult(err)
	}
	if err != nil {
		p.log.Error().Err(err).Msg("persist state failed")
		return
	}
	p.log.Debug().
		Int("contracts", len(snapshot.Contracts)).
		Int("invoices", len(snapshot.Invoices)).
		Msg("state persisted")
}

func (p *Persister) save(snapshot model.Snapshot) error {
	blob, err := Encode(snapshot)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), p.writeTimeout)
	defer cancel()
	return p.backend.Save(ctx, p.key, blob)
}
