package db

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingOrder(t *testing.T) {
	fsys := fstest.MapFS{
		"002_listings.sql":      {Data: []byte("SELECT 1")},
		"001_users.sql":         {Data: []byte("SELECT 1")},
		"README.md":             {Data: []byte("docs")},
		".003_hidden.sql":       {Data: []byte("SELECT 1")},
		"010_notifications.sql": {Data: []byte("SELECT 1")},
		"old/000_legacy.sql":    {Data: []byte("SELECT 1")},
	}

	names, err := PendingOrder(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_users.sql", "002_listings.sql", "010_notifications.sql"}, names)
}
