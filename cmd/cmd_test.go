package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landscout/config"
	"landscout/services"
)

const listingsCSV = `Address,City,State,Price,Acres,Latitude,Longitude,Drive Dist (mi),LLM Score
Ridge Rd,Bluemont,VA,300000,10,38.9,-77.4,42,95
Creek Ln,Hume,VA,0,5,38.8,-77.3,50,80
`

func setupCLI(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("SOURCE_KIND", config.SourceFile)
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("AVG_PER_ACRE_MODE", "")

	path := filepath.Join(dir, "listings.csv")
	require.NoError(t, os.WriteFile(path, []byte(listingsCSV), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})
	err := Execute()
	return out.String(), err
}

func TestSummaryCommand(t *testing.T) {
	path := setupCLI(t)

	out, err := execute(t, "summary", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "LAND LISTING SUMMARY")
	assert.Contains(t, out, "Top pick: Ridge Rd, Bluemont, VA scores 95/100, 42 mi away.")
	assert.Contains(t, out, "Source: listings.csv | rows read: 2 | dropped: 1")
}

func TestSummaryCommandMissingFile(t *testing.T) {
	setupCLI(t)

	_, err := execute(t, "summary", "--file", filepath.Join(t.TempDir(), "gone.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load gone.csv")
}

func TestExportCommand(t *testing.T) {
	path := setupCLI(t)
	dest := filepath.Join(t.TempDir(), "out", "records.csv")

	_, err := execute(t, "export", "--file", path, "--out", dest)
	require.NoError(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t,
		"id,address,price,acres,score,latitude,longitude,drive_miles,url,type\n"+
			"0,\"Ridge Rd, Bluemont, VA\",300000,10,95,38.9,-77.4,42,#,Land\n",
		string(data))
}

func TestAreaModeFallsBackToFold(t *testing.T) {
	prev := cfg
	t.Cleanup(func() { cfg = prev })

	cfg = &config.Config{AvgPerAcreMode: "exlude"}
	assert.Equal(t, services.FoldZeroArea, areaMode())

	cfg = &config.Config{AvgPerAcreMode: "exclude"}
	assert.Equal(t, services.ExcludeZeroArea, areaMode())
}

// chdir changes the working directory for the duration of the test,
// restoring it on cleanup (equivalent of testing.T.Chdir, Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
