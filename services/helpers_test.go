package services

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"bikeshare-dashboard/models"
	"bikeshare-dashboard/storage"
	"bikeshare-dashboard/utils"
)

func newTestLogger() *utils.Logger { return utils.NewLoggerTo(io.Discard, utils.LevelDebug) }

// dataset parses an inline CSV into a loaded dataset.
func dataset(t *testing.T, csv string) models.Dataset {
	t.Helper()
	path := writeCSV(t, csv)
	ds, err := NewLoader(storage.NewCSVSource(path), newTestLogger()).Load(context.Background())
	require.NoError(t, err)
	return ds
}

func writeCSV(t *testing.T, csv string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "all_df.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.TrimLeft(csv, "\n")), 0o644))
	return path
}

// hourlyCSV has every column the views use.
const hourlyCSV = `
season,workingday,weathersit,hr,casual,registered,cnt
1,0,1,0,3,13,16
1,0,1,1,8,32,40
2,1,2,0,0,50,50
2,1,1,1,10,190,200
3,1,1,7,20,300,320
3,0,,7,30,400,430
4,1,3,23,2,1000,1002
`
