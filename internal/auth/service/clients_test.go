package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClientRegistry(t *testing.T) {
	t.Parallel()

	src := map[string]string{"svc-a": "alpha", "svc-b": "bravo"}
	r := NewClientRegistry(src)

	require.True(t, r.IsValid("svc-a", "alpha"))
	require.True(t, r.IsValid("svc-b", "bravo"))

	require.False(t, r.IsValid("svc-a", "bravo"))
	require.False(t, r.IsValid("svc-a", "alph"))
	require.False(t, r.IsValid("svc-a", "ALPHA"))
	require.False(t, r.IsValid("svc-c", "alpha"))
	require.False(t, r.IsValid("", ""))

	t.Run("later map changes are ignored", func(t *testing.T) {
		src["svc-c"] = "charlie"
		src["svc-a"] = "changed"

		require.False(t, r.IsValid("svc-c", "charlie"))
		require.True(t, r.IsValid("svc-a", "alpha"))
		require.Equal(t, []string{"svc-a", "svc-b"}, r.IDs())
	})

	t.Run("concurrent readers", func(t *testing.T) {
		var wg sync.WaitGroup
		for range 32 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range 100 {
					if !r.IsValid("svc-b", "bravo") || r.IsValid("svc-b", "nope") {
						t.Error("unexpected registry answer")
						return
					}
				}
			}()
		}
		wg.Wait()
	})
}
