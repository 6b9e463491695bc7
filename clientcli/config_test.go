package clientcli_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sagarc03/sheetbridge/clientcli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		wantErr  bool
	}{
		{name: "http", endpoint: "http://localhost:3000"},
		{name: "https with path", endpoint: "https://sheets.example.com/base"},
		{name: "no scheme", endpoint: "localhost:3000", wantErr: true},
		{name: "ftp", endpoint: "ftp://example.com", wantErr: true},
		{name: "empty", endpoint: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&clientcli.Config{Endpoint: tt.endpoint}).Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, clientcli.ErrInvalidURL)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestConfig_WithDefaults(t *testing.T) {
	cfg := &clientcli.Config{}

	got := cfg.WithDefaults()

	assert.Equal(t, clientcli.DefaultEndpoint, got.Endpoint)
	assert.Empty(t, cfg.Endpoint, "original is not mutated")
}

func TestConfigFile_Profiles(t *testing.T) {
	newFile := func() *clientcli.ConfigFile {
		return &clientcli.ConfigFile{Profiles: []clientcli.Profile{
			{Name: "local", Endpoint: "http://localhost:3000"},
			{Name: "prod", Endpoint: "https://sheets.example.com", Default: true},
		}}
	}

	t.Run("get by name", func(t *testing.T) {
		p, err := newFile().GetProfile("local")
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:3000", p.Endpoint)
	})

	t.Run("empty name returns default", func(t *testing.T) {
		p, err := newFile().GetProfile("")
		require.NoError(t, err)
		assert.Equal(t, "prod", p.Name)
	})

	t.Run("first profile when none is default", func(t *testing.T) {
		cf := &clientcli.ConfigFile{Profiles: []clientcli.Profile{{Name: "a"}, {Name: "b"}}}
		assert.Equal(t, "a", cf.DefaultName())
	})

	t.Run("missing profile", func(t *testing.T) {
		_, err := newFile().GetProfile("staging")
		assert.ErrorIs(t, err, clientcli.ErrProfileNotFound)
	})

	t.Run("no profiles", func(t *testing.T) {
		_, err := (&clientcli.ConfigFile{}).GetProfile("")
		assert.ErrorIs(t, err, clientcli.ErrNoProfiles)
		assert.Empty(t, (&clientcli.ConfigFile{}).DefaultName())
	})

	t.Run("add rejects duplicates", func(t *testing.T) {
		cf := newFile()
		assert.ErrorIs(t, cf.AddProfile(clientcli.Profile{Name: "local"}), clientcli.ErrProfileExists)
		require.NoError(t, cf.AddProfile(clientcli.Profile{Name: "staging"}))
		assert.Len(t, cf.Profiles, 3)
	})

	t.Run("update replaces", func(t *testing.T) {
		cf := newFile()
		require.NoError(t, cf.UpdateProfile(clientcli.Profile{Name: "local", Endpoint: "http://127.0.0.1:8080"}))
		p, _ := cf.GetProfile("local")
		assert.Equal(t, "http://127.0.0.1:8080", p.Endpoint)
		assert.ErrorIs(t, cf.UpdateProfile(clientcli.Profile{Name: "x"}), clientcli.ErrProfileNotFound)
	})

	t.Run("remove", func(t *testing.T) {
		cf := newFile()
		require.NoError(t, cf.RemoveProfile("local"))
		assert.Len(t, cf.Profiles, 1)
		assert.ErrorIs(t, cf.RemoveProfile("local"), clientcli.ErrProfileNotFound)
	})

	t.Run("set default moves the flag", func(t *testing.T) {
		cf := newFile()
		require.NoError(t, cf.SetDefault("local"))
		assert.True(t, cf.Profiles[0].Default)
		assert.False(t, cf.Profiles[1].Default)
		assert.ErrorIs(t, cf.SetDefault("x"), clientcli.ErrProfileNotFound)
	})
}

func TestConfigFile_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cf := &clientcli.ConfigFile{Profiles: []clientcli.Profile{
		{Name: "prod", Endpoint: "https://sheets.example.com", Timeout: 5 * time.Second, Default: true},
	}}

	require.NoError(t, cf.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "timeout: 5s")

	loaded, err := clientcli.LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, cf.Profiles, loaded.Profiles)
}

func TestLoadConfigFile_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := clientcli.LoadConfigFile(filepath.Join(t.TempDir(), "none.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("profiles: [unclosed"), 0o600))

		_, err := clientcli.LoadConfigFile(path)
		assert.ErrorContains(t, err, "parse config file")
	})
}

func TestMergeConfig(t *testing.T) {
	t.Run("later wins", func(t *testing.T) {
		got := clientcli.MergeConfig(
			&clientcli.Config{Endpoint: "http://a", Timeout: time.Second},
			&clientcli.Config{Endpoint: "http://b"},
		)
		assert.Equal(t, "http://b", got.Endpoint)
		assert.Equal(t, time.Second, got.Timeout)
	})

	t.Run("nil configs are skipped", func(t *testing.T) {
		got := clientcli.MergeConfig(nil, &clientcli.Config{Endpoint: "http://a"}, nil)
		assert.Equal(t, "http://a", got.Endpoint)
	})
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv(clientcli.EnvEndpoint, "http://env:3000")
	t.Setenv(clientcli.EnvProfile, "prod")
	t.Setenv(clientcli.EnvConfigPath, "/tmp/sb.yaml")

	assert.Equal(t, "http://env:3000", clientcli.ConfigFromEnv().Endpoint)
	assert.Equal(t, "prod", clientcli.ProfileFromEnv())
	assert.Equal(t, "/tmp/sb.yaml", clientcli.ConfigPathFromEnv())
}

func TestConfigFromProfile(t *testing.T) {
	assert.Equal(t, &clientcli.Config{}, clientcli.ConfigFromProfile(nil))

	cfg := clientcli.ConfigFromProfile(&clientcli.Profile{Endpoint: "http://x", Timeout: time.Minute})
	assert.Equal(t, "http://x", cfg.Endpoint)
	assert.Equal(t, time.Minute, cfg.Timeout)
}
