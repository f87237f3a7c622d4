package presence

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivplatonov/stackd/internal/device"
	"github.com/ivplatonov/stackd/internal/logging"
)

func TestWatcherAttachesAndDetaches(t *testing.T) {
	dev, err := device.New(device.Options{InitialCapacity: 4, Gated: true}, logging.NewNop(), nil)
	require.NoError(t, err)

	keyPath := filepath.Join(t.TempDir(), "key")

	w := NewWatcher(dev, keyPath, 10*time.Millisecond, logging.NewNop())
	w.Start(context.Background())
	defer w.Stop()

	assert.False(t, dev.Present())

	require.NoError(t, os.WriteFile(keyPath, nil, 0o600))
	assert.Eventually(t, dev.Present, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, os.Remove(keyPath))
	assert.Eventually(t, func() bool { return !dev.Present() }, 2*time.Second, 5*time.Millisecond)
}

func TestWatcherInitialCheck(t *testing.T) {
	dev, err := device.New(device.Options{InitialCapacity: 4, Gated: true}, logging.NewNop(), nil)
	require.NoError(t, err)

	keyPath := filepath.Join(t.TempDir(), "key")
	require.NoError(t, os.WriteFile(keyPath, nil, 0o600))

	// Long interval: only the immediate startup check can attach in time.
	w := NewWatcher(dev, keyPath, time.Minute, logging.NewNop())
	w.Start(context.Background())
	defer w.Stop()

	assert.Eventually(t, dev.Present, 2*time.Second, 5*time.Millisecond)
}

func TestStopWithoutStart(t *testing.T) {
	dev, err := device.New(device.Options{Gated: true}, logging.NewNop(), nil)
	require.NoError(t, err)

	w := NewWatcher(dev, "/nonexistent", 0, logging.NewNop())
	w.Stop() // must not panic
}
