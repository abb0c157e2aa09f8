package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/seriesflow/pkg/frequency"
	"github.com/ajitpratap0/seriesflow/pkg/sferrors"
)

func TestNewDefaults(t *testing.T) {
	cfg := New()
	assert.Equal(t, "target", cfg.TargetColumn)
	assert.Equal(t, "timestamp", cfg.TimestampColumn)
	assert.Equal(t, "item_id", cfg.ItemIDColumn)
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsEmptyNames(t *testing.T) {
	cfg := New()
	cfg.TargetColumn = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, sferrors.IsType(err, sferrors.ErrorTypeConfig))
}

func TestValidateRejectsBadFreq(t *testing.T) {
	cfg := New()
	cfg.Freq = "fortnight"
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsRoleOverlap(t *testing.T) {
	cfg := New()
	cfg.StaticCat = []string{"target"}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "target_column")

	cfg = New()
	cfg.DynamicReal = []string{"temperature"}
	cfg.DynamicCat = []string{"temperature"}
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsIdentifierCollisions(t *testing.T) {
	cfg := New()
	cfg.ItemIDColumn = cfg.TargetColumn
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "item_id_column")

	cfg = New()
	cfg.ItemIDColumn = cfg.TimestampColumn
	assert.Error(t, cfg.Validate())

	cfg = New()
	cfg.StaticCat = []string{cfg.ItemIDColumn}
	assert.Error(t, cfg.Validate())
}

func TestFrequencyParsing(t *testing.T) {
	cfg := New()
	cfg.Freq = "2H"
	f, err := cfg.Frequency()
	require.NoError(t, err)
	assert.Equal(t, frequency.Frequency{N: 2, Unit: frequency.UnitHour}, f)

	cfg.Freq = ""
	f, err = cfg.Frequency()
	require.NoError(t, err)
	assert.True(t, f.IsZero())
}

func TestLoadFileAppliesDefaultsAndEnv(t *testing.T) {
	t.Setenv("SERIES_FREQ", "1H")

	dir := t.TempDir()
	path := filepath.Join(dir, "dataset.yaml")
	content := []byte("freq: ${SERIES_FREQ}\nstatic_cat:\n  - store_id\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1H", cfg.Freq)
	assert.Equal(t, "target", cfg.TargetColumn)
	assert.Equal(t, []string{"store_id"}, cfg.StaticCat)
}

func TestLoadFileRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dataset.yaml")
	require.NoError(t, os.WriteFile(path, []byte("freq: nonsense\n"), 0o644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestSaveFileRoundTrip(t *testing.T) {
	cfg := New()
	cfg.Freq = "D"
	cfg.DynamicReal = []string{"price"}

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, SaveFile(path, cfg))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
