package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// run executes one wguard invocation against dataDir and returns stdout.
func run(t *testing.T, dataDir string, args ...string) (string, error) {
	t.Helper()
	root, a := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--data-dir", dataDir}, args...))
	err := root.ExecuteContext(context.Background())
	a.close()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const secureScan = `[
  {"ssid": "Office", "bssid": "ac:d7:5b:00:00:01", "capabilities": "[WPA2-PSK-CCMP][ESS]", "rssi": -60, "frequency": 2437},
  {"ssid": "Lab", "bssid": "B8:27:EB:00:00:02", "capabilities": "[WPA2-PSK-CCMP][ESS]", "rssi": -70, "frequency": 5180}
]`

const downgradedScan = `[
  {"ssid": "Office", "bssid": "AC:D7:5B:00:00:01", "capabilities": "[ESS]", "rssi": -60, "frequency": 2437},
  {"ssid": "Lab", "bssid": "B8:27:EB:00:00:02", "capabilities": "[WPA2-PSK-CCMP][ESS]", "rssi": -70, "frequency": 5180}
]`

func TestScanAnalyze_HistoryAndChanges(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "scan1.json", secureScan)
	second := writeFile(t, dir, "scan2.json", downgradedScan)

	out, err := run(t, dir, "scan", "analyze", first, second)
	require.NoError(t, err)
	assert.Contains(t, out, "OPEN_NETWORK")
	assert.Contains(t, out, "Raspberry Pi Foundation")
	assert.Contains(t, out, "2 distinct networks")

	out, err = run(t, dir, "history", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "2 of at most 50 records")

	out, err = run(t, dir, "changes", "--json")
	require.NoError(t, err)

	var result struct {
		Changes []struct {
			Type  string `json:"type"`
			BSSID string `json:"bssid"`
		} `json:"changes"`
		RecordsAnalyzed int `json:"records_analyzed"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 2, result.RecordsAnalyzed)
	require.NotEmpty(t, result.Changes)
	assert.Equal(t, "SECURITY_DOWNGRADE", result.Changes[0].Type)
	assert.Equal(t, "AC:D7:5B:00:00:01", result.Changes[0].BSSID)
}

func TestScanAnalyze_JSON(t *testing.T) {
	dir := t.TempDir()
	scan := writeFile(t, dir, "scan.json", downgradedScan)

	out, err := run(t, dir, "scan", "analyze", "--json", scan)
	require.NoError(t, err)

	var parsed scanOutput
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))
	assert.Nil(t, parsed.Changes)

	var networks []map[string]any
	require.NoError(t, json.Unmarshal(parsed.Networks, &networks))
	require.Len(t, networks, 2)
	assert.Contains(t, networks[0]["threats"], "OPEN_NETWORK")
}

func TestScanAnalyze_BadInput(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.json", `{"not": "an array"}`)

	_, err := run(t, dir, "scan", "analyze", bad)
	assert.Error(t, err)

	_, err = run(t, dir, "scan", "analyze", filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestHistoryClear(t *testing.T) {
	dir := t.TempDir()
	scan := writeFile(t, dir, "scan.json", secureScan)
	_, err := run(t, dir, "scan", "analyze", scan)
	require.NoError(t, err)

	_, err = run(t, dir, "history", "clear")
	assert.Error(t, err, "clearing requires --yes")

	_, err = run(t, dir, "history", "clear", "--yes")
	require.NoError(t, err)

	out, err := run(t, dir, "history", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No scans stored")
}

func TestImportCommands(t *testing.T) {
	dir := t.TempDir()
	wigle := writeFile(t, dir, "wigle.csv",
		"WigleWifi-1.4,appRelease=2.70\n"+
			"MAC,SSID,AuthMode,FirstSeen,Channel,RSSI,CurrentLatitude,CurrentLongitude,AltitudeMeters,AccuracyMeters,Type\n"+
			"ac:d7:5b:a1:8f:96,HomeNet,[WPA2-PSK-CCMP][ESS],2026-03-14 09:30:00,6,-61,40.4168,-3.7038,657,5,WIFI\n")
	cells := writeFile(t, dir, "cells.csv",
		"radio,mcc,net,area,cell,unit,lon,lat,range,samples\n"+
			"LTE,214,7,2801,12345678,0,-3.7038,40.4168,1000,12\n")

	out, err := run(t, dir, "import", "wigle", wigle)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 rows (0 skipped), 1 new networks")

	out, err = run(t, dir, "import", "opencellid", cells)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 towers")

	out, err = run(t, dir, "cells", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "12345678")
	assert.Contains(t, out, "1 of 1 towers")
}

func TestPinCommands(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "pin", "add", "ac-d7-5b-00-00-01", "--ssid", "Office", "--note", "front desk")
	require.NoError(t, err)
	assert.Contains(t, out, "Pinned AC:D7:5B:00:00:01")

	_, err = run(t, dir, "pin", "add", "not-a-bssid")
	assert.Error(t, err)

	out, err = run(t, dir, "pin", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "front desk")

	scan := writeFile(t, dir, "scan.json", secureScan)
	out, err = run(t, dir, "scan", "analyze", scan)
	require.NoError(t, err)
	assert.Contains(t, out, "Pinned network AC:D7:5B:00:00:01 (Office) is in range")

	out, err = run(t, dir, "pin", "remove", "AC:D7:5B:00:00:01")
	require.NoError(t, err)
	assert.Contains(t, out, "Unpinned")

	out, err = run(t, dir, "pin", "remove", "AC:D7:5B:00:00:01")
	require.NoError(t, err)
	assert.Contains(t, out, "is not pinned")
}

func TestOUICommands(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "oui", "lookup", "b8:27:eb:12:34:56", "02:00:00:00:00:01", "nope")
	require.NoError(t, err)
	assert.Contains(t, out, "B8:27:EB:12:34:56\tRaspberry Pi Foundation")
	assert.Contains(t, out, "02:00:00:00:00:01\tunknown")
	assert.Contains(t, out, "nope: not a BSSID")

	small := writeFile(t, dir, "small.txt", "001122=Tiny Corp\n")
	_, err = run(t, dir, "oui", "refresh", "--from", small)
	assert.Error(t, err)

	var table strings.Builder
	for i := 0; i < 12; i++ {
		fmt.Fprintf(&table, "0000%02X=Vendor %d\n", i, i)
	}
	table.WriteString("B827EB=Custom Pi Label\n")
	full := writeFile(t, dir, "full.txt", table.String())

	out, err = run(t, dir, "oui", "refresh", "--from", full)
	require.NoError(t, err)
	assert.Contains(t, out, "OUI cache updated with 13 entries")

	out, err = run(t, dir, "oui", "lookup", "B8:27:EB:00:00:01")
	require.NoError(t, err)
	assert.Contains(t, out, "Custom Pi Label")

	var registry strings.Builder
	registry.WriteString("Registry,Assignment,Organization Name,Organization Address\n")
	for i := 0; i < 11; i++ {
		fmt.Fprintf(&registry, "MA-L,0011%02X,Registry Vendor %d,Somewhere\n", i+0xA0, i)
	}
	csvPath := writeFile(t, dir, "oui.csv", registry.String())

	out, err = run(t, dir, "oui", "refresh", "--from", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "OUI cache updated with 11 entries")

	out, err = run(t, dir, "oui", "lookup", "00:11:A0:00:00:01")
	require.NoError(t, err)
	assert.Contains(t, out, "00:11:A0:00:00:01\tRegistry Vendor 0")
}

func TestReport(t *testing.T) {
	dir := t.TempDir()
	pdf := filepath.Join(dir, "report.pdf")

	_, err := run(t, dir, "report", "--out", pdf)
	assert.Error(t, err, "no history yet")

	for i, scan := range []string{secureScan, downgradedScan} {
		path := writeFile(t, dir, "scan"+string(rune('0'+i))+".json", scan)
		_, err := run(t, dir, "scan", "analyze", path)
		require.NoError(t, err)
	}

	out, err := run(t, dir, "report", "--out", pdf, "--title", "Test report")
	require.NoError(t, err)
	assert.Contains(t, out, "written to")

	data, err := os.ReadFile(pdf)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestMetricsFile(t *testing.T) {
	dir := t.TempDir()
	metrics := filepath.Join(dir, "wguard.prom")
	scan := writeFile(t, dir, "scan.json", secureScan)

	_, err := run(t, dir, "--metrics-file", metrics, "scan", "analyze", scan)
	require.NoError(t, err)

	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), "wguard_scans_analyzed_total")
}
