package numerator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mock objects

type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

type mockQuerier struct {
	mu      sync.Mutex
	seqs    map[string]int64
	lastKey string
	err     error
}

func newMockQuerier() *mockQuerier {
	return &mockQuerier{seqs: make(map[string]int64)}
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return &mockRow{err: m.err}
	}

	key, _ := args[0].(string)
	m.lastKey = key
	m.seqs[key]++
	return &mockRow{val: m.seqs[key]}
}

func TestNext_PlainPrefix(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	got, err := svc.Next(context.Background(), DefaultConfig("HTL"), now)
	require.NoError(t, err)
	assert.Equal(t, "HTL-0001", got)
	assert.Equal(t, "HTL", q.lastKey)

	got, err = svc.Next(context.Background(), DefaultConfig("HTL"), now)
	require.NoError(t, err)
	assert.Equal(t, "HTL-0002", got)
}

func TestNext_YearScoped(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)

	cfg := DefaultConfig("INV")
	cfg.IncludeYear = true

	got, err := svc.Next(context.Background(), cfg, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "INV-2026-0001", got)
	assert.Equal(t, "INV_2026", q.lastKey)

	// New year starts a fresh sequence under its own key.
	got, err = svc.Next(context.Background(), cfg, time.Date(2027, 1, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "INV-2027-0001", got)
}

func TestNext_SeparatePrefixesDoNotShareSequences(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	now := time.Now()

	_, err := svc.Next(context.Background(), DefaultConfig("HTL"), now)
	require.NoError(t, err)

	got, err := svc.Next(context.Background(), DefaultConfig("AULA"), now)
	require.NoError(t, err)
	assert.Equal(t, "AULA-0001", got)
}

func TestNext_QueryError(t *testing.T) {
	q := newMockQuerier()
	q.err = assert.AnError
	svc := New(q)

	_, err := svc.Next(context.Background(), DefaultConfig("HTL"), time.Now())
	assert.Error(t, err)
}
