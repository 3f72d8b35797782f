package persist

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nurpe/contracts-service/internal/model"
	"github.com/nurpe/contracts-service/internal/store"
)

const testKey = "contract-storage"

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Entry{}))
	return db
}

type countingRecorder struct {
	ok, failed int
}

func (r *countingRecorder) PersistResult(err error) {
	if err != nil {
		r.failed++
		return
	}
	r.ok++
}

type failingBackend struct {
	loadErr error
	saveErr error
}

func (b failingBackend) Load(context.Context, string) ([]byte, error) { return nil, b.loadErr }
func (b failingBackend) Save(context.Context, string, []byte) error   { return b.saveErr }

func TestEncodeDecodeRoundTripPreservesOrder(t *testing.T) {
	snapshot := store.DemoSnapshot()

	blob, err := Encode(snapshot)
	require.NoError(t, err)

	decoded, err := Decode(blob)
	require.NoError(t, err)
	assert.Equal(t, snapshot, decoded)
	for i := range snapshot.Invoices {
		assert.Equal(t, snapshot.Invoices[i].ID, decoded.Invoices[i].ID)
	}
}

func TestEncodeUsesEnvelope(t *testing.T) {
	blob, err := Encode(model.Snapshot{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"state":{"contracts":[],"invoices":[]},"version":0}`, string(blob))
}

func TestDecodeRejectsGarbageAndUnknownVersion(t *testing.T) {
	_, err := Decode([]byte("{not json"))
	assert.Error(t, err)

	_, err = Decode([]byte(`{"state":{"contracts":[],"invoices":[]},"version":7}`))
	assert.Error(t, err)
}

func TestFileBackendRoundTrip(t *testing.T) {
	dir := t.TempDir()
	backend, err := NewFileBackend(dir)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = backend.Load(ctx, testKey)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, backend.Save(ctx, testKey, []byte("first")))
	require.NoError(t, backend.Save(ctx, testKey, []byte("second")))

	got, err := backend.Load(ctx, testKey)
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, testKey+".json", entries[0].Name())
}

func TestFileBackendSanitizesKey(t *testing.T) {
	dir := t.TempDir()
	backend, err := NewFileBackend(dir)
	require.NoError(t, err)

	require.NoError(t, backend.Save(context.Background(), "../escape/me", []byte("x")))

	_, err = os.Stat(filepath.Join(dir, "escape-me.json"))
	assert.NoError(t, err)
}

func TestNewFileBackendRequiresDir(t *testing.T) {
	_, err := NewFileBackend("  ")
	assert.Error(t, err)
}

func TestGormBackendUpserts(t *testing.T) {
	backend := NewGormBackend(openTestDB(t))
	ctx := context.Background()

	_, err := backend.Load(ctx, testKey)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, backend.Save(ctx, testKey, []byte(`{"a":1}`)))
	require.NoError(t, backend.Save(ctx, testKey, []byte(`{"a":2}`)))

	got, err := backend.Load(ctx, testKey)
	require.NoError(t, err)
	assert.Equal(t, `{"a":2}`, string(got))

	var count int64
	require.NoError(t, backend.db.Model(&Entry{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestPersisterLoadFallsBack(t *testing.T) {
	ctx := context.Background()
	fallback := store.DemoSnapshot()

	p := NewPersister(failingBackend{loadErr: ErrNotFound}, testKey, zerolog.Nop())
	assert.Equal(t, fallback, p.Load(ctx, fallback))

	p = NewPersister(failingBackend{loadErr: errors.New("disk gone")}, testKey, zerolog.Nop())
	assert.Equal(t, model.EmptySnapshot(), p.Load(ctx, model.EmptySnapshot()))

	backend, err := NewFileBackend(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, backend.Save(ctx, testKey, []byte("corrupt")))
	p = NewPersister(backend, testKey, zerolog.Nop())
	assert.Equal(t, model.EmptySnapshot(), p.Load(ctx, model.EmptySnapshot()))
}

func TestPersisterWritesEveryMutationAndRestores(t *testing.T) {
	ctx := context.Background()
	backend := NewGormBackend(openTestDB(t))
	rec := &countingRecorder{}
	p := NewPersister(backend, testKey, zerolog.Nop(), WithRecorder(rec))

	clock := func() time.Time { return time.Date(2026, time.October, 14, 9, 0, 0, 0, time.UTC) }
	s := store.New(store.WithClock(clock))
	p.Hydrate(ctx, s, model.EmptySnapshot())
	p.Attach(s)

	c := s.AddContract(model.ContractInput{
		Municipality: "Prefeitura de Santos",
		Object:       "Gestão de RH",
		StartDate:    model.NewDate(2026, time.March, 1),
		EndDate:      model.NewDate(2026, time.November, 1),
		TotalValue:   95000,
	})
	inv := s.AddInvoice(model.InvoiceInput{ContractID: c.ID, Number: "004/2026", Value: 35000, Date: model.NewDate(2026, time.April, 1)})
	s.AddInvoice(model.InvoiceInput{ContractID: c.ID, Number: "005/2026", Value: 1000, Date: model.NewDate(2026, time.May, 1)})
	s.RemoveInvoice(inv.ID)
	s.RemoveContract("missing")

	assert.Equal(t, 4, rec.ok)
	assert.Zero(t, rec.failed)

	restored := store.New()
	NewPersister(backend, testKey, zerolog.Nop()).Hydrate(ctx, restored, model.EmptySnapshot())
	assert.Equal(t, s.Snapshot(), restored.Snapshot())
}

func TestPersisterWriteFailureKeepsMemoryState(t *testing.T) {
	rec := &countingRecorder{}
	p := NewPersister(failingBackend{saveErr: errors.New("read-only")}, testKey, zerolog.Nop(), WithRecorder(rec))
	s := store.New()
	p.Attach(s)

	s.AddContract(model.ContractInput{Municipality: "Campinas", Object: "Portal", TotalValue: 1})

	assert.Equal(t, 1, rec.failed)
	assert.Len(t, s.Contracts(), 1)
}
