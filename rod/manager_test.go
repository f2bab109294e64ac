//go:build integration

package rod_test

import (
	"testing"

	"github.com/fwojciec/prospect"
	"github.com/fwojciec/prospect/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowserManager_RecyclesBrowserAfterMaxPages(t *testing.T) {
	t.Parallel()

	manager, err := rod.NewBrowserManager(rod.WithMaxPages(3))
	require.NoError(t, err)
	defer manager.Close()

	first, err := manager.Browser()
	require.NoError(t, err)

	manager.IncrementPageCount()
	manager.IncrementPageCount()
	manager.IncrementPageCount()

	second, err := manager.Browser()
	require.NoError(t, err)
	assert.NotSame(t, first, second)
}

func TestBrowserManager_DoesNotRecycleBeforeMaxPages(t *testing.T) {
	t.Parallel()

	manager, err := rod.NewBrowserManager(rod.WithMaxPages(5))
	require.NoError(t, err)
	defer manager.Close()

	first, err := manager.Browser()
	require.NoError(t, err)

	manager.IncrementPageCount()
	manager.IncrementPageCount()

	same, err := manager.Browser()
	require.NoError(t, err)
	assert.Same(t, first, same)
}

func TestBrowserManager_RecyclesWithUserDataDir(t *testing.T) {
	t.Parallel()

	manager, err := rod.NewBrowserManager(rod.WithMaxPages(1), rod.WithUserDataDir(t.TempDir()))
	require.NoError(t, err)
	defer manager.Close()

	first, err := manager.Browser()
	require.NoError(t, err)
	manager.IncrementPageCount()

	second, err := manager.Browser()
	require.NoError(t, err)
	assert.NotSame(t, first, second)
}

func TestBrowserManager_BrowserAfterClose(t *testing.T) {
	t.Parallel()

	manager, err := rod.NewBrowserManager()
	require.NoError(t, err)
	require.NoError(t, manager.Close())

	_, err = manager.Browser()
	assert.Equal(t, prospect.EINVALID, prospect.ErrorCode(err))
}
