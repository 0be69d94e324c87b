package schema

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryResolve(t *testing.T) {
	r := NewRegistry(0)

	f, err := r.Resolve([]byte(testABI), ByName("transfer"))
	require.NoError(t, err)
	assert.Equal(t, "transfer", f.Name)

	f, err = r.Resolve([]byte(testABI), BySelector(0x3b7ac349))
	require.NoError(t, err)
	assert.Equal(t, "transfer", f.Name)

	_, err = r.Resolve([]byte(testABI), ByName("nosuchmethod"))
	require.ErrorIs(t, err, ErrMethodNotFound)

	_, err = r.Resolve([]byte(testABI), BySelector(0x0badf00d))
	require.ErrorIs(t, err, ErrMethodNotFound)

	_, err = r.Resolve([]byte(`{]`), ByName("transfer"))
	require.ErrorIs(t, err, ErrMalformedABI)
}

func TestRegistryResolveEvent(t *testing.T) {
	r := NewRegistry(0)

	e, err := r.ResolveEvent([]byte(testABI), "Deposit")
	require.NoError(t, err)
	assert.Equal(t, uint32(0x57f202d9), e.ID)

	_, err = r.ResolveEvent([]byte(testABI), "Withdrawal")
	require.ErrorIs(t, err, ErrMethodNotFound)
}

func TestRegistryCaching(t *testing.T) {
	r := NewRegistry(2)

	d1, err := r.Definition([]byte(testABI))
	require.NoError(t, err)
	d2, err := r.Definition([]byte(testABI))
	require.NoError(t, err)
	assert.Same(t, d1, d2)

	// A different text gets its own entry.
	other := []byte(`{"functions":[{"name":"f","inputs":[],"outputs":[]}]}`)
	d3, err := r.Definition(other)
	require.NoError(t, err)
	assert.NotSame(t, d1, d3)
}

func TestRegistryConcurrentResolve(t *testing.T) {
	const workers = 16

	r := NewRegistry(4)

	var (
		wg   sync.WaitGroup
		fail atomic.Int32
	)
	texts := [][]byte{
		[]byte(testABI),
		[]byte(`{"functions":[{"name":"ping","inputs":[],"outputs":[]}]}`),
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if _, err := r.Definition(texts[(i+j)%len(texts)]); err != nil {
					fail.Add(1)
					return
				}
			}
		}(i)
	}
	wg.Wait()
	require.Zero(t, fail.Load())
}

func TestRegistryConcurrentDistinctKeys(t *testing.T) {
	r := NewRegistry(64)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			text := fmt.Appendf(nil, `{"functions":[{"name":"f%d","inputs":[],"outputs":[]}]}`, i)
			d, err := r.Definition(text)
			assert.NoError(t, err)
			assert.NotNil(t, d)
		}(i)
	}
	wg.Wait()
}
