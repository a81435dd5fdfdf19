package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return home
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 10, c.TopNGenres)
	assert.Equal(t, 20, c.MaxLanguages)
	assert.Equal(t, "summary_report.txt", c.ReportFileName)
	assert.Equal(t, 50, c.PreviewRows)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("top_n_genres: 5\npreview_rows: 7\n"), 0o644))
	t.Setenv("SHOWLOOM_TOP_N_GENRES", "12")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 12, c.TopNGenres)
	assert.Equal(t, 7, c.PreviewRows)
}

func TestLoad_DotEnv(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile(".env", []byte("SHOWLOOM_LOG_LEVEL=debug\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("SHOWLOOM_LOG_LEVEL") })

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", c.LogLevel)
}

func TestSaveThenLoad(t *testing.T) {
	home := isolate(t)
	c, err := Load("")
	require.NoError(t, err)
	require.NoError(t, c.Set("default_csv", "/data/titles.csv"))
	require.NoError(t, Save(c, ""))

	_, err = os.Stat(filepath.Join(home, ".showloom", "config.yaml"))
	require.NoError(t, err)

	c2, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/data/titles.csv", c2.DefaultCSV)
}

func TestSet_Validation(t *testing.T) {
	c := &Global{}
	assert.Error(t, c.Set("top_n_genres", "2"))
	assert.Error(t, c.Set("top_n_genres", "abc"))
	assert.NoError(t, c.Set("top_n_genres", "15"))
	assert.Equal(t, 15, c.TopNGenres)

	for key, get := range map[string]func() int{
		"max_languages": func() int { return c.MaxLanguages },
		"preview_rows":  func() int { return c.PreviewRows },
		"max_upload_mb": func() int { return c.MaxUploadMB },
	} {
		require.NoError(t, c.Set(key, "7"), key)
		assert.Error(t, c.Set(key, "0"), key)
		assert.Error(t, c.Set(key, "many"), key)
		assert.Equal(t, 7, get(), key)
	}

	assert.Error(t, c.Set("report_file_name", "../x.txt"))
	assert.Error(t, c.Set("log_format", "xml"))
	assert.Error(t, c.Set("nope", "1"))

	for _, k := range Keys {
		_, err := c.Get(k)
		assert.NoError(t, err, k)
	}
}

func TestDefaults(t *testing.T) {
	c := Defaults()
	assert.Equal(t, "127.0.0.1:8080", c.ListenAddr)
	assert.Equal(t, 32, c.MaxUploadMB)
	assert.Equal(t, "text", c.LogFormat)
}
