package config

import (
	"slices"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/alexandre1a/cargo-freshen/internal/models/consts"
)

// Flag names, also the viper keys.
const (
	FlagAll       = "all"
	FlagGit       = "git"
	FlagList      = "list"
	FlagJobs      = "jobs"
	FlagIndexURL  = "index-url"
	FlagTimeout   = "timeout"
	FlagRetries   = "retries"
	FlagOutput    = "output"
	FlagVerbose   = "verbose"
	FlagLogLevel  = "log-level"
	FlagLogFormat = "log-format"
	FlagCargo     = "cargo"
)

// Output formats.
var Outputs = []string{"table", "json", "yaml"}

// Log formats.
var LogFormats = []string{"console", "json"}

// Settings is everything a run needs to know.
type Settings struct {
	All       bool          // Update every outdated package, ignoring names
	Git       bool          // Include packages installed from git
	List      bool          // Only report, do not install
	Jobs      int           // Concurrent index lookups
	IndexURL  string        // Index root
	Timeout   time.Duration // Per request
	Retries   int
	Output    string
	Verbose   bool
	LogLevel  string
	LogFormat string
	Cargo     string // cargo executable
	Packages  []string
}

// RegisterFlags declares the CLI flags on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.BoolP(FlagAll, "a", false, "Update all outdated packages, ignoring PACKAGES")
	fs.BoolP(FlagGit, "g", false, "Include packages installed from git repositories")
	fs.BoolP(FlagList, "l", false, "Only list outdated packages")
	fs.IntP(FlagJobs, "j", consts.DefaultJobs, "Number of concurrent index lookups")
	fs.String(FlagIndexURL, consts.CratesIndexURL, "Root of the sparse package index")
	fs.Duration(FlagTimeout, consts.DefaultTimeout, "Timeout of a single index request")
	fs.Int(FlagRetries, consts.DefaultRetries, "Retries for a failed index request")
	fs.StringP(FlagOutput, "o", consts.DefaultOutput, "Report format: "+strings.Join(Outputs, ", "))
	fs.BoolP(FlagVerbose, "v", false, "Verbose output")
	fs.String(FlagLogLevel, consts.DefaultLogLevel, "Log level: error, warn, info, debug, trace")
	fs.String(FlagLogFormat, consts.DefaultLogFormat, "Log format: "+strings.Join(LogFormats, ", "))
	fs.String(FlagCargo, consts.CargoBinary, "cargo executable used to install packages")
}

// Bind wires every flag of fs into v and lets CARGO_FRESHEN_* variables
// provide defaults.
func Bind(v *viper.Viper, fs *pflag.FlagSet) error {
	v.SetEnvPrefix(consts.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		if bindErr := v.BindPFlag(f.Name, f); bindErr != nil && err == nil {
			err = errors.Wrapf(bindErr, "binding flag %s", f.Name)
		}
	})
	return err
}

// Load reads settings back from v and validates them.
func Load(v *viper.Viper, packages []string) (Settings, error) {
	s := Settings{
		All:       v.GetBool(FlagAll),
		Git:       v.GetBool(FlagGit),
		List:      v.GetBool(FlagList),
		Jobs:      v.GetInt(FlagJobs),
		IndexURL:  v.GetString(FlagIndexURL),
		Timeout:   v.GetDuration(FlagTimeout),
		Retries:   v.GetInt(FlagRetries),
		Output:    strings.ToLower(v.GetString(FlagOutput)),
		Verbose:   v.GetBool(FlagVerbose),
		LogLevel:  v.GetString(FlagLogLevel),
		LogFormat: strings.ToLower(v.GetString(FlagLogFormat)),
		Cargo:     v.GetString(FlagCargo),
		Packages:  packages,
	}
	return s, s.Validate()
}

// Validate rejects settings a run cannot work with.
func (s Settings) Validate() error {
	if s.Jobs < 1 {
		return errors.Errorf("--%s must be at least 1, got %d", FlagJobs, s.Jobs)
	}
	if s.Retries < 0 {
		return errors.Errorf("--%s must not be negative, got %d", FlagRetries, s.Retries)
	}
	if !slices.Contains(Outputs, s.Output) {
		return errors.Errorf("unknown --%s %q, expected one of %s", FlagOutput, s.Output, strings.Join(Outputs, ", "))
	}
	if !slices.Contains(LogFormats, s.LogFormat) {
		return errors.Errorf("unknown --%s %q, expected one of %s", FlagLogFormat, s.LogFormat, strings.Join(LogFormats, ", "))
	}
	if s.IndexURL == "" {
		return errors.Errorf("--%s must not be empty", FlagIndexURL)
	}
	if s.Cargo == "" {
		return errors.Errorf("--%s must not be empty", FlagCargo)
	}
	return nil
}

// EffectiveLogLevel folds --verbose into the log level.
func (s Settings) EffectiveLogLevel() string {
	if s.Verbose {
		return "debug"
	}
	return s.LogLevel
}
