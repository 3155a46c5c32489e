package operations

import (
	"context"
	"io"
	"os"
	"os/exec"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"go.uber.org/multierr"

	"github.com/alexandre1a/cargo-freshen/internal/models/types"
)

// ErrInstall marks a package whose install command failed.
var ErrInstall = errors.New("install failed")

// Runner starts a program and waits for it.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// ExecRunner runs programs with os/exec, streaming their output.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

func (r ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	return cmd.Run()
}

// Installer (re)installs one package.
type Installer interface {
	Install(ctx context.Context, record types.PackageRecord, force bool) error
}

// CargoInstaller installs packages with `cargo install`.
type CargoInstaller struct {
	Cargo  string
	Runner Runner
}

// InstallArgs builds the cargo arguments that reinstall record from where it
// came from.
func InstallArgs(record types.PackageRecord, force bool) []string {
	args := []string{"install"}
	if force {
		args = append(args, "--force")
	}
	switch p := record.Provenance.(type) {
	case types.SourceControl:
		args = append(args, "--git", p.Repo)
	case types.Index:
		// cargo's default registry
	}
	return append(args, record.Name)
}

func (c *CargoInstaller) Install(ctx context.Context, record types.PackageRecord, force bool) error {
	args := InstallArgs(record, force)
	log.Debug().Str("cargo", c.Cargo).Strs("args", args).Msg("running")
	if err := c.Runner.Run(ctx, c.Cargo, args...); err != nil {
		return errors.Wrapf(err, "%s %v", c.Cargo, args)
	}
	return nil
}

// UpdateAll installs every record that has an update, or every record when
// force is set, one after the other. A failure does not stop the remaining
// installs; all failures are returned together.
func UpdateAll(ctx context.Context, inst Installer, records []types.PackageRecord, force bool) ([]types.UpdateResult, error) {
	results := make([]types.UpdateResult, 0, len(records))
	var errs error

	for _, record := range records {
		result := types.UpdateResult{
			Name:            record.Name,
			PreviousVersion: record.Installed.Original(),
		}
		if record.Latest != nil {
			result.NewVersion = record.Latest.Original()
		}

		if !force && !HasUpdate(record) {
			result.Status = types.StatusSkipped
			result.Message = "up to date"
			results = append(results, result)
			continue
		}

		if err := ctx.Err(); err != nil {
			result.Status = types.StatusError
			result.Message = err.Error()
			errs = multierr.Append(errs, errors.Wrapf(ErrInstall, "%s: %v", record.Name, err))
			results = append(results, result)
			continue
		}

		log.Info().Str("package", record.Name).Str("from", result.PreviousVersion).Str("to", result.NewVersion).Msg("installing")
		if err := inst.Install(ctx, record, force); err != nil {
			log.Error().Err(err).Str("package", record.Name).Msg("install failed")
			result.Status = types.StatusError
			result.Message = err.Error()
			errs = multierr.Append(errs, errors.Wrapf(ErrInstall, "%s: %v", record.Name, err))
			results = append(results, result)
			continue
		}

		result.Status = types.StatusSuccess
		results = append(results, result)
	}
	return results, errs
}
