package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/nvstore/internal/logger"
	"github.com/joshuapare/nvstore/store"
)

func TestInitInfoFlow(t *testing.T) {
	path := useImage(t, 4096)

	out, err := captureOutput(t, runInit)
	require.NoError(t, err)
	assertContains(t, out, []string{"Initialized", "4076 free"})
	_, err = os.Stat(path + store.OccupancySuffix)
	require.NoError(t, err)

	out, err = captureOutput(t, func() error { return runWrite([]string{"bool", "true"}) })
	require.NoError(t, err)
	assertContains(t, out, []string{"Wrote bool true at offset 20"})

	out, err = captureOutput(t, func() error { return runWrite([]string{"float", "2.5"}) })
	require.NoError(t, err)
	assertContains(t, out, []string{"at offset 21"})

	jsonOut = true
	out, err = captureOutput(t, runInfo)
	require.NoError(t, err)
	var st store.Stats
	assertJSON(t, out, &st)
	assert.Equal(t, 4096-20-1-4, st.Free)
	assert.True(t, st.Dirty)
	assert.Equal(t, 25, st.LastAddress)

	out, err = captureOutput(t, func() error { return runRead([]string{"21", "float"}) })
	require.NoError(t, err)
	var rec map[string]any
	assertJSON(t, out, &rec)
	assert.Equal(t, 2.5, rec["value"])
	assert.Equal(t, "float", rec["kind"])

	jsonOut = false
	out, err = captureOutput(t, runVerify)
	require.NoError(t, err)
	assertContains(t, out, []string{"Header consistent"})
}

func TestInitPowerOff(t *testing.T) {
	useImage(t, 64)
	settings.Store.Power = "off"

	_, err := captureOutput(t, runInit)
	require.ErrorIs(t, err, store.ErrPowerOff)
}

func TestCommandsNeedFormattedImage(t *testing.T) {
	useImage(t, 64)
	_, err := captureOutput(t, runInfo)
	require.ErrorIs(t, err, store.ErrNotFormatted)
}

func TestWriteAtReadFree(t *testing.T) {
	useImage(t, 128)
	_, err := captureOutput(t, runInit)
	require.NoError(t, err)

	_, err = captureOutput(t, func() error { return runWriteAt([]string{"0x40", "char", "Z"}) })
	require.NoError(t, err)

	out, err := captureOutput(t, func() error { return runRead([]string{"64", "char"}) })
	require.NoError(t, err)
	assert.Equal(t, "'Z'\n", out)

	out, err = captureOutput(t, func() error { return runFree([]string{"64", "char"}) })
	require.NoError(t, err)
	assertContains(t, out, []string{"Freed char at offset 64", "108 bytes free"})

	out, err = captureOutput(t, func() error { return runRead([]string{"64", "uint8"}) })
	require.NoError(t, err)
	assert.Equal(t, "255\n", out)
}

func TestWriteErrors(t *testing.T) {
	useImage(t, 24)
	_, err := captureOutput(t, runInit)
	require.NoError(t, err)

	tests := []struct {
		name    string
		run     func() error
		wantErr error
	}{
		{"no space", func() error {
			if err := runWrite([]string{"float", "1"}); err != nil {
				return err
			}
			return runWrite([]string{"uint8", "1"})
		}, store.ErrNoSpace},
		{"header offset", func() error { return runWriteAt([]string{"3", "uint8", "1"}) }, store.ErrOutOfRange},
		{"bad kind", func() error { return runWrite([]string{"double", "1"}) }, store.ErrBadKind},
		{"read past end", func() error { return runRead([]string{"24", "bool"}) }, store.ErrOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := captureOutput(t, tt.run)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err = captureOutput(t, func() error { return runWrite([]string{"uint8", "300"}) })
	require.Error(t, err)
}

func TestHeaderCommands(t *testing.T) {
	useImage(t, 64)
	_, err := captureOutput(t, runInit)
	require.NoError(t, err)

	out, err := captureOutput(t, func() error { return runDirty(nil) })
	require.NoError(t, err)
	assert.Equal(t, "false\n", out)

	_, err = captureOutput(t, func() error { return runDirty([]string{"true"}) })
	require.NoError(t, err)
	out, err = captureOutput(t, func() error { return runDirty(nil) })
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)

	for i := 0; i < 2; i++ {
		_, err = captureOutput(t, func() error { return runHours([]string{"incr"}) })
		require.NoError(t, err)
	}
	out, err = captureOutput(t, func() error { return runHours(nil) })
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)
	out, err = captureOutput(t, func() error { return runHours([]string{"reset"}) })
	require.NoError(t, err)
	assert.Equal(t, "0\n", out)

	jsonOut = true
	out, err = captureOutput(t, func() error { return runStart([]string{"33"}) })
	require.NoError(t, err)
	var got map[string]int
	assertJSON(t, out, &got)
	assert.Equal(t, 33, got["start_address"])
}

func TestDump(t *testing.T) {
	useImage(t, 64)
	_, err := captureOutput(t, runInit)
	require.NoError(t, err)

	dumpOffset, dumpLength = 16, 8
	t.Cleanup(func() { dumpOffset, dumpLength = 0, 0 })

	out, err := captureOutput(t, runDump)
	require.NoError(t, err)
	assertContains(t, out, []string{"4e 56 53 31 ff ff ff ff", "|NVS1....|"})
}

func TestParseRecord(t *testing.T) {
	rec, err := parseRecord("uint8", "0x7f")
	require.NoError(t, err)
	assert.Equal(t, uint8(127), rec.Uint8)

	rec, err = parseRecord("char", "é")
	require.NoError(t, err)
	assert.Equal(t, 'é', rec.Char)

	_, err = parseRecord("char", "ab")
	require.Error(t, err)
	_, err = parseRecord("bool", "yes")
	require.Error(t, err)
	_, err = parseRecord("float", "x")
	require.Error(t, err)
}

func TestLoadSettingsFromConfig(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "nvstore.yaml")
	img := filepath.Join(dir, "dev.img")
	require.NoError(t, os.WriteFile(cfgFile, []byte("store:\n  image: "+img+"\n  capacity: 256\n  flush: data\n"), 0o644))

	configPath = cfgFile
	t.Cleanup(func() { configPath = "" })

	require.NoError(t, loadSettings(newInfoCmd(), nil))
	assert.Equal(t, img, settings.Store.Image)
	assert.Equal(t, 256, settings.Store.Capacity)
	assert.Equal(t, "data", settings.Store.Flush)
	assert.Equal(t, "on", settings.Store.Power)
}

func TestLogFileFromConfig(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "nvstore.yaml")
	img := filepath.Join(dir, "dev.img")
	logPath := filepath.Join(dir, "nvctl.log")
	require.NoError(t, os.WriteFile(cfgFile, []byte("store:\n  image: "+img+"\n  capacity: 64\nlog:\n  file: "+logPath+"\n"), 0o644))

	configPath = cfgFile
	quiet, verbose, jsonOut = false, false, false
	t.Cleanup(func() {
		configPath = ""
		if logCloser != nil {
			_ = logCloser.Close()
			logCloser = nil
		}
		_, _ = logger.Init(logger.Options{})
	})

	require.NoError(t, loadSettings(newInitCmd(), nil))
	assert.Equal(t, logPath, settings.Log.File)
	_, err := captureOutput(t, runInit)
	require.NoError(t, err)
	require.NoError(t, logCloser.Close())
	logCloser = nil

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assertContains(t, string(data), []string{"store initialized", "image formatted", "dev.img"})
}
