package shell

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeNative is a native window stub tracking destruction.
type fakeNative struct {
	handle    uintptr
	destroyed bool
}

func (w *fakeNative) Handle() uintptr           { return w.handle }
func (w *fakeNative) LogicalSize() LogicalSize  { return LogicalSize{Width: 800, Height: 600} }
func (w *fakeNative) ScaleFactor() float64      { return 1 }
func (w *fakeNative) RequestResize(LogicalSize) {}
func (w *fakeNative) SetTitle(string)           {}
func (w *fakeNative) Minimized() bool           { return false }
func (w *fakeNative) Destroy()                  { w.destroyed = true }

type fakeWindowBackend struct {
	nextHandle uintptr
	embedErr   error
	embedded   []uintptr
}

func (b *fakeWindowBackend) Open(WindowDescription) (NativeWindow, error) {
	b.nextHandle++
	return &fakeNative{handle: b.nextHandle}, nil
}

func (b *fakeWindowBackend) OpenEmbedded(parent uintptr, desc WindowDescription) (NativeWindow, error) {
	if b.embedErr != nil {
		return nil, b.embedErr
	}
	b.embedded = append(b.embedded, parent)
	return b.Open(desc)
}

func TestWindowManagerLifecycle(t *testing.T) {
	m := NewWindowManager(&fakeWindowBackend{})

	win, err := m.Open(RootEntity, NewWindowDescription())
	require.NoError(t, err)
	assert.Equal(t, 1, m.Count())

	looked, ok := m.Lookup(RootEntity)
	require.True(t, ok)
	assert.Same(t, win, looked)

	entity, ok := m.EntityFor(win.Handle())
	require.True(t, ok)
	assert.Equal(t, RootEntity, entity)

	m.Close(RootEntity)
	assert.Equal(t, 0, m.Count())
	assert.True(t, win.(*fakeNative).destroyed)

	_, ok = m.Lookup(RootEntity)
	assert.False(t, ok)

	// Closing again is a no-op.
	m.Close(RootEntity)
}

func TestWindowManagerRejectsDoubleOpen(t *testing.T) {
	m := NewWindowManager(&fakeWindowBackend{})

	_, err := m.Open(RootEntity, NewWindowDescription())
	require.NoError(t, err)

	_, err = m.Open(RootEntity, NewWindowDescription())
	assert.Error(t, err)
	assert.Equal(t, 1, m.Count())
}

func TestWindowManagerOpenEmbedded(t *testing.T) {
	backend := &fakeWindowBackend{}
	m := NewWindowManager(backend)

	_, err := m.OpenEmbedded(Entity(7), 0xABC, NewWindowDescription())
	require.NoError(t, err)
	assert.Equal(t, []uintptr{0xABC}, backend.embedded)

	_, ok := m.Lookup(Entity(7))
	assert.True(t, ok)
}

func TestWindowManagerEmbeddingUnsupported(t *testing.T) {
	backend := &fakeWindowBackend{
		embedErr: fmt.Errorf("%w: no embedding support on this platform", ErrEmbeddingUnsupported),
	}
	m := NewWindowManager(backend)

	_, err := m.OpenEmbedded(Entity(7), 0xABC, NewWindowDescription())
	require.ErrorIs(t, err, ErrEmbeddingUnsupported)
	assert.Equal(t, 0, m.Count())
}
