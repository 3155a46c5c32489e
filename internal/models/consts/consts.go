package consts

import "time"

// All consts
const (
	AppName         = "cargo-freshen"
	SubcommandName  = "freshen" // argv[1] when cargo runs us as `cargo freshen`
	CargoDir        = ".cargo"
	CratesFileName  = ".crates.toml"
	CargoConfigName = "config.toml"
	ManifestTable   = "v1"
	CratesIndexURL  = "https://index.crates.io" // Sparse index root, change it with --index-url
	CargoBinary     = "cargo"
	UserAgent       = AppName + " (+https://github.com/alexandre1a/cargo-freshen)"
)

// Environment variables
const (
	EnvCargoHome        = "CARGO_HOME"
	EnvCargoInstallRoot = "CARGO_INSTALL_ROOT"
	EnvPrefix           = "CARGO_FRESHEN"
)

// Defaults
const (
	DefaultJobs      = 8
	DefaultRetries   = 2
	DefaultTimeout   = 30 * time.Second
	ProbeTimeout     = 5 * time.Second
	DefaultOutput    = "table"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"
)
