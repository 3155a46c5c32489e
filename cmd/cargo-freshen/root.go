package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"slices"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/alexandre1a/cargo-freshen/internal/config"
	"github.com/alexandre1a/cargo-freshen/internal/index"
	"github.com/alexandre1a/cargo-freshen/internal/logger"
	"github.com/alexandre1a/cargo-freshen/internal/manifest"
	"github.com/alexandre1a/cargo-freshen/internal/models/consts"
	"github.com/alexandre1a/cargo-freshen/internal/operations"
	"github.com/alexandre1a/cargo-freshen/internal/report"
	"github.com/alexandre1a/cargo-freshen/internal/utils/checks"
)

const rootCmdDesc = `Update packages installed with cargo install.

Reads the install manifest (.crates.toml), looks up the latest published
version of every package in the sparse index, prints which ones are
outdated and reinstalls them.

With PACKAGES, only those packages are checked and they are reinstalled
even when they are up to date. With --all, every outdated package is
updated and PACKAGES is ignored.`

// app holds what a run talks to. Tests swap the filesystem, the HTTP
// client and the installer or the process runner behind it.
type app struct {
	fs         afero.Fs
	env        *viper.Viper
	stdout     io.Writer
	stderr     io.Writer
	httpClient *http.Client         // nil: a pooled client built from the settings
	installer  operations.Installer // nil: cargo install through newRunner
	newRunner  func(stdout, stderr io.Writer) operations.Runner
}

func newApp() *app {
	return &app{
		fs:        afero.NewOsFs(),
		env:       viper.New(),
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		newRunner: func(stdout, stderr io.Writer) operations.Runner {
			return operations.ExecRunner{Stdout: stdout, Stderr: stderr}
		},
	}
}

func newRootCmd(a *app) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:           consts.AppName + " [flags] [PACKAGES...]",
		Short:         "Update packages installed with cargo install",
		Long:          rootCmdDesc,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := config.Load(v, args)
			if err != nil {
				return err
			}
			initLogger(a.stderr, s)
			return a.run(cmd.Context(), s)
		},
	}
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	config.RegisterFlags(cmd.Flags())
	if err := config.Bind(v, cmd.Flags()); err != nil {
		log.Fatal().Err(err).Msg("could not bind flags")
	}
	return cmd
}

func initLogger(out io.Writer, s config.Settings) {
	noColor := true
	if f, ok := out.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd())
	}
	logger.Setup(out, s.LogFormat, noColor)

	// environment variables always over-write custom flags
	if envLevel, ok := logger.GetEnvLogLevel(); ok {
		logger.Set(envLevel)
		return
	}
	logger.Set(s.EffectiveLogLevel())
}

func (a *app) run(ctx context.Context, s config.Settings) error {
	locator := config.NewLocator(a.fs, a.env)
	path, err := locator.CratesFile()
	if err != nil {
		return err
	}

	exists, err := afero.Exists(a.fs, path)
	if err != nil {
		return errors.Wrapf(err, "checking %s", path)
	}
	if !exists {
		log.Info().Str("path", path).Msg("no installed packages")
		return nil
	}

	records, err := manifest.Load(a.fs, path)
	if err != nil {
		return err
	}
	log.Debug().Str("path", path).Int("packages", len(records)).Msg("manifest loaded")

	names := s.Packages
	if s.All {
		names = nil
	}
	records = operations.Select(records, operations.SelectProvenance(s.Git))
	for _, name := range operations.Missing(records, names) {
		log.Warn().Str("package", name).Msg("package is not installed, use --git for packages installed from git")
	}
	records = operations.Select(records, operations.SelectNames(names))

	client := a.httpClient
	if client == nil {
		client = cleanhttp.DefaultPooledClient()
		client.Timeout = s.Timeout
	}
	if err := checks.CheckConnectivity(ctx, client, s.IndexURL); err != nil {
		log.Warn().Err(err).Msg("the index looks unreachable, lookups will probably fail")
	}

	lookup := index.NewClient(
		index.WithHTTPClient(client),
		index.WithIndexRoot(s.IndexURL),
		index.WithRetries(s.Retries),
	)
	records = operations.RefreshAll(ctx, lookup, records, s.Jobs)

	if err := report.Render(a.stdout, s.Output, records); err != nil {
		return err
	}
	if s.List {
		return nil
	}

	// The report owns stdout when it is machine readable.
	textOut := a.stdout
	if s.Output != report.FormatTable {
		textOut = a.stderr
	}

	force := len(names) > 0
	if !force && !slices.ContainsFunc(records, operations.HasUpdate) {
		report.Summary(textOut, nil)
		return nil
	}

	installer := a.installer
	if installer == nil {
		// cargo's own output must not end up inside a json or yaml report.
		installer = &operations.CargoInstaller{Cargo: s.Cargo, Runner: a.newRunner(textOut, a.stderr)}
	}
	results, err := operations.UpdateAll(ctx, installer, records, force)
	report.Summary(textOut, results)
	return err
}
