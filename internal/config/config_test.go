package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocator(fs afero.Fs, env map[string]string) *Locator {
	v := viper.New()
	l := NewLocator(fs, v)
	// Shadow whatever the machine running the tests has exported.
	v.Set(keyCargoHome, "")
	v.Set(keyInstallRoot, "")
	for k, val := range env {
		v.Set(k, val)
	}
	l.HomeDir = func() (string, error) { return "/home/crab", nil }
	return l
}

func TestLocator_InstallRootFromEnv(t *testing.T) {
	t.Parallel()

	l := newTestLocator(afero.NewMemMapFs(), map[string]string{
		keyInstallRoot: "/opt/rust",
		keyCargoHome:   "/srv/cargo",
	})

	root, err := l.InstallRoot()
	require.NoError(t, err)
	assert.Equal(t, "/opt/rust", root)

	crates, err := l.CratesFile()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/opt/rust", ".crates.toml"), crates)
}

func TestLocator_InstallRootFromConfig(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		config string
		want   string
	}{
		{"relative", "[install]\nroot = \"tools\"\n", filepath.Join("/home/crab", "tools")},
		{"absolute", "[install]\nroot = \"/usr/local\"\n", "/usr/local"},
		{"missing key", "[build]\njobs = 4\n", "/srv/cargo"},
		{"broken toml", "[install\nroot=", "/srv/cargo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, "/srv/cargo/config.toml", []byte(tt.config), 0o644))

			l := newTestLocator(fs, map[string]string{keyCargoHome: "/srv/cargo"})
			root, err := l.InstallRoot()
			require.NoError(t, err)
			assert.Equal(t, tt.want, root)
		})
	}
}

func TestLocator_DefaultCargoHome(t *testing.T) {
	t.Parallel()

	l := newTestLocator(afero.NewMemMapFs(), nil)

	home, err := l.CargoHome()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/crab", ".cargo"), home)

	root, err := l.InstallRoot()
	require.NoError(t, err)
	assert.Equal(t, home, root)
}

func TestLocator_NoHomeDirectory(t *testing.T) {
	t.Parallel()

	l := newTestLocator(afero.NewMemMapFs(), nil)
	l.HomeDir = func() (string, error) { return "", errors.New("unset") }

	_, err := l.CratesFile()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no home directory")
}

func TestSettings_Defaults(t *testing.T) {
	t.Parallel()

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	v := viper.New()
	require.NoError(t, Bind(v, fs))

	s, err := Load(v, []string{"bat"})
	require.NoError(t, err)
	assert.Equal(t, 8, s.Jobs)
	assert.Equal(t, "https://index.crates.io", s.IndexURL)
	assert.Equal(t, 30*time.Second, s.Timeout)
	assert.Equal(t, "table", s.Output)
	assert.Equal(t, "cargo", s.Cargo)
	assert.Equal(t, []string{"bat"}, s.Packages)
	assert.False(t, s.Git)
	assert.Equal(t, "info", s.EffectiveLogLevel())
	assert.Equal(t, "console", s.LogFormat)
}

func TestSettings_FlagsOverride(t *testing.T) {
	t.Parallel()

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"-g", "-l", "-j", "3", "-o", "JSON", "-v", "--timeout", "2s", "--log-format", "JSON"}))
	v := viper.New()
	require.NoError(t, Bind(v, fs))

	s, err := Load(v, nil)
	require.NoError(t, err)
	assert.True(t, s.Git)
	assert.True(t, s.List)
	assert.Equal(t, 3, s.Jobs)
	assert.Equal(t, "json", s.Output)
	assert.Equal(t, 2*time.Second, s.Timeout)
	assert.Equal(t, "debug", s.EffectiveLogLevel())
	assert.Equal(t, "json", s.LogFormat)
}

func TestSettings_EnvDefaults(t *testing.T) {
	t.Setenv("CARGO_FRESHEN_JOBS", "2")
	t.Setenv("CARGO_FRESHEN_INDEX_URL", "http://mirror.local")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	v := viper.New()
	require.NoError(t, Bind(v, fs))

	s, err := Load(v, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Jobs)
	assert.Equal(t, "http://mirror.local", s.IndexURL)
}

func TestSettings_Validate(t *testing.T) {
	t.Parallel()

	valid := Settings{Jobs: 1, Output: "table", LogFormat: "console", IndexURL: "x", Cargo: "cargo"}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"zero jobs", func(s *Settings) { s.Jobs = 0 }},
		{"negative retries", func(s *Settings) { s.Retries = -1 }},
		{"bad output", func(s *Settings) { s.Output = "xml" }},
		{"bad log format", func(s *Settings) { s.LogFormat = "logfmt" }},
		{"empty index", func(s *Settings) { s.IndexURL = "" }},
		{"empty cargo", func(s *Settings) { s.Cargo = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := valid
			tt.mutate(&s)
			assert.Error(t, s.Validate())
		})
	}
}
