package idx_test

import (
	"sync"
	"testing"
	"time"

	"github.com/crituk/authcore/pkg/idx"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/require"
)

func TestNewIsCanonicalULID(t *testing.T) {
	id := idx.New()
	require.Len(t, id.String(), ulid.EncodedSize)

	u, err := ulid.ParseStrict(id.String())
	require.NoError(t, err)
	require.WithinDuration(t, time.Now(), ulid.Time(u.Time()), time.Second)
}

func TestNewAtSortsByTime(t *testing.T) {
	a := idx.NewAt(time.Unix(1, 0).UTC())
	b := idx.NewAt(time.Unix(2, 0).UTC())
	require.Less(t, a.String(), b.String())

	// Same millisecond stays monotonic.
	now := time.Now().UTC()
	c := idx.NewAt(now)
	d := idx.NewAt(now)
	require.Less(t, c.String(), d.String())
}

func TestConcurrentUnique(t *testing.T) {
	const n = 200

	var (
		mu   sync.Mutex
		seen = make(map[idx.ID]struct{}, n)
		wg   sync.WaitGroup
	)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := idx.New()
			mu.Lock()
			seen[id] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, seen, n)
}
