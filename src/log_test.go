package callerid

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	var f, err = os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var records, rerr = csv.NewReader(f).ReadAll()
	require.NoError(t, rerr)

	return records
}

func TestLogFile(t *testing.T) {
	var path = filepath.Join(t.TempDir(), "cid.csv")

	CaptureOutput(t, func() {
		LogInit(false, path)

		var ev = eventFor(t, "5551234", "JOHN SMITH")
		ev.CallerID.Extra = map[string]string{"z": "1", "a": "2"}
		LogWrite(ev)
		LogWrite(eventFor(t, "P", ""))

		LogTerm()
	})

	var records = readCSV(t, path)
	require.Len(t, records, 3)
	assert.Equal(t, log_header, records[0])

	var row = records[1]
	assert.Equal(t, "1792333925", row[1])
	assert.Equal(t, "2026-10-18T14:32:05Z", row[2])
	assert.Equal(t, "MDMF", row[4])
	assert.Equal(t, "true", row[5])
	assert.Equal(t, "5551234", row[7])
	assert.Equal(t, "JOHN SMITH", row[8])
	assert.Equal(t, "10181432", row[9])
	assert.Equal(t, "a=2;z=1", row[10])

	assert.Equal(t, PRIVATE_TEXT, records[2][7])

	// Appending doesn't repeat the header.
	CaptureOutput(t, func() {
		LogInit(false, path)
		LogWrite(eventFor(t, "5551234", ""))
		LogTerm()
	})

	assert.Len(t, readCSV(t, path), 4)
}

func TestLogDaily(t *testing.T) {
	var dir = filepath.Join(t.TempDir(), "logs")

	CaptureOutput(t, func() {
		LogInit(true, dir)

		var ev = eventFor(t, "5551234", "")
		LogWrite(ev)

		ev.Time = ev.Time.Add(24 * time.Hour)
		LogWrite(ev)

		LogTerm()
	})

	assert.Len(t, readCSV(t, filepath.Join(dir, "2026-10-18.log")), 2)
	assert.Len(t, readCSV(t, filepath.Join(dir, "2026-10-19.log")), 2)
}

func TestLogDisabled(t *testing.T) {
	var out = CaptureOutput(t, func() {
		LogInit(false, "")
		LogWrite(eventFor(t, "5551234", ""))
	})

	assert.Empty(t, out)
}

func TestDailyName(t *testing.T) {
	assert.Equal(t, "2026-10-18.log", dailyName(testTime))
}
