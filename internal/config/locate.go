// Package config finds cargo's install root and holds the runtime settings
// of the CLI.
package config

import (
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/alexandre1a/cargo-freshen/internal/models/consts"
)

const (
	keyCargoHome   = "cargo_home"
	keyInstallRoot = "cargo_install_root"
	keyConfigRoot  = "install.root"
)

// Locator resolves where `cargo install` puts binaries and its manifest.
type Locator struct {
	Fs      afero.Fs
	Env     *viper.Viper
	HomeDir func() (string, error)
}

// NewLocator binds CARGO_HOME and CARGO_INSTALL_ROOT on env.
func NewLocator(fs afero.Fs, env *viper.Viper) *Locator {
	_ = env.BindEnv(keyCargoHome, consts.EnvCargoHome)
	_ = env.BindEnv(keyInstallRoot, consts.EnvCargoInstallRoot)
	return &Locator{Fs: fs, Env: env, HomeDir: homedir.Dir}
}

// CargoHome is $CARGO_HOME, or ~/.cargo.
func (l *Locator) CargoHome() (string, error) {
	if home := l.Env.GetString(keyCargoHome); home != "" {
		return home, nil
	}
	userHome, err := l.HomeDir()
	if err != nil {
		return "", errors.Wrap(err, "no home directory found")
	}
	return filepath.Join(userHome, consts.CargoDir), nil
}

// InstallRoot is $CARGO_INSTALL_ROOT, else install.root from
// $CARGO_HOME/config.toml, else $CARGO_HOME.
func (l *Locator) InstallRoot() (string, error) {
	if root := l.Env.GetString(keyInstallRoot); root != "" {
		return root, nil
	}

	cargoHome, err := l.CargoHome()
	if err != nil {
		return "", err
	}

	cfgPath := filepath.Join(cargoHome, consts.CargoConfigName)
	root, err := l.readInstallRoot(cfgPath)
	if err != nil {
		log.Debug().Err(err).Str("config", cfgPath).Msg("using cargo home as install root")
		return cargoHome, nil
	}
	return root, nil
}

// CratesFile is the path of the install manifest.
func (l *Locator) CratesFile() (string, error) {
	root, err := l.InstallRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, consts.CratesFileName), nil
}

// readInstallRoot reads install.root from a cargo config file. Relative
// values are taken relative to the user's home directory.
func (l *Locator) readInstallRoot(path string) (string, error) {
	v := viper.New()
	v.SetFs(l.Fs)
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return "", errors.Wrapf(err, "reading %s", path)
	}

	root := v.GetString(keyConfigRoot)
	if root == "" {
		return "", errors.Errorf("`%s` not present in %s", keyConfigRoot, path)
	}
	if filepath.IsAbs(root) {
		return root, nil
	}

	userHome, err := l.HomeDir()
	if err != nil {
		return "", errors.Wrap(err, "no home directory found")
	}
	return filepath.Join(userHome, root), nil
}
