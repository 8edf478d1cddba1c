package migrations

import (
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	src, err := Source()
	require.NoError(t, err)
	defer src.Close()

	version, err := src.First()
	require.NoError(t, err)

	count := 0
	for {
		count++
		up, _, err := src.ReadUp(version)
		require.NoError(t, err, "version %d has no up migration", version)
		upSQL, err := io.ReadAll(up)
		require.NoError(t, err)
		up.Close()
		assert.Contains(t, strings.ToUpper(string(upSQL)), "CREATE TABLE")

		down, _, err := src.ReadDown(version)
		require.NoError(t, err, "version %d has no down migration", version)
		downSQL, err := io.ReadAll(down)
		require.NoError(t, err)
		down.Close()
		assert.Contains(t, strings.ToUpper(string(downSQL)), "DROP TABLE")

		next, err := src.Next(version)
		if errors.Is(err, os.ErrNotExist) {
			break
		}
		require.NoError(t, err)
		assert.Greater(t, next, version)
		version = next
	}
	assert.Equal(t, 5, count)
}

func TestEveryTableIsDropped(t *testing.T) {
	entries, err := FS.ReadDir(sourceDir)
	require.NoError(t, err)

	created := map[string]bool{}
	dropped := map[string]bool{}
	for _, entry := range entries {
		data, err := FS.ReadFile(sourceDir + "/" + entry.Name())
		require.NoError(t, err)
		for _, line := range strings.Split(string(data), "\n") {
			fields := strings.Fields(line)
			switch {
			case len(fields) >= 3 && fields[0] == "CREATE" && fields[1] == "TABLE":
				created[fields[2]] = true
			case len(fields) >= 5 && fields[0] == "DROP" && fields[1] == "TABLE":
				dropped[strings.TrimSuffix(fields[4], ";")] = true
			}
		}
	}
	require.NotEmpty(t, created)
	for table := range created {
		assert.True(t, dropped[table], "table %v is never dropped", table)
	}
}
