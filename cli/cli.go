package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

const (
	DefaultPath      = "."
	DefaultExtension = ".gd"

	EnvPath    = "GDINDENT_PATH"
	EnvUseTabs = "GDINDENT_USE_TABS"
)

// ErrInvalidConfig marks errors found after flag parsing. pflag prints its
// own parse errors; these are left to the caller.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the options of a run.
type Config struct {
	// Root of the recursive scan.
	Path string
	// Indent with tabs; spaces (4 per level) otherwise.
	UseTabs bool
	// Suffix a file name must end with to be processed.
	Extension   string
	NoAnimation bool
}

// DefaultConfig returns the options used when nothing is set.
func DefaultConfig() *Config {
	return &Config{
		Path:      DefaultPath,
		UseTabs:   true,
		Extension: DefaultExtension,
	}
}

// Validate checks the options and normalizes the extension.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Path) == "" {
		return fmt.Errorf("%w: path must not be empty", ErrInvalidConfig)
	}
	if c.Extension == "" {
		return fmt.Errorf("%w: extension must not be empty", ErrInvalidConfig)
	}
	if c.Extension[0] != '.' {
		c.Extension = "." + c.Extension
	}
	return nil
}

// applyEnv overrides defaults with GDINDENT_* variables. A .env file in the
// working directory is loaded first; it never overrides the real environment.
func (c *Config) applyEnv() error {
	_ = godotenv.Load()

	if path := strings.TrimSpace(os.Getenv(EnvPath)); path != "" {
		c.Path = path
	}
	if raw := strings.TrimSpace(os.Getenv(EnvUseTabs)); raw != "" {
		useTabs, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalidConfig, EnvUseTabs, raw)
		}
		c.UseTabs = useTabs
	}
	return nil
}

// ParseFlags builds a Config from defaults, the environment and args, in
// that order of precedence. args excludes the program name.
func ParseFlags(args []string) (*Config, error) {
	cfg := DefaultConfig()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	var (
		path   string
		spaces bool
	)
	flags := pflag.NewFlagSet("gdindent", pflag.ContinueOnError)
	flags.StringVarP(&path, "path", "p", "", fmt.Sprintf("Root directory to scan (default %q, or $%s).", cfg.Path, EnvPath))
	flags.BoolVarP(&spaces, "spaces", "s", false, "Indent with 4 spaces per level instead of tabs.")
	flags.BoolVar(&cfg.NoAnimation, "no-animation", false, "Disable the progress view and print plain status lines.")

	flags.Usage = func() {
		fmt.Println("Usage: gdindent [flags] [path]")
		fmt.Println("\nRewrite the leading indentation of every .gd file under path.")
		fmt.Println("\nExample: gdindent --spaces ~/CastleFight")
		fmt.Println("\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	switch rest := flags.Args(); {
	case len(rest) > 1:
		return nil, fmt.Errorf("%w: expected at most one path, got %d", ErrInvalidConfig, len(rest))
	case len(rest) == 1 && path != "":
		return nil, fmt.Errorf("%w: --path and a positional path are mutually exclusive", ErrInvalidConfig)
	case len(rest) == 1:
		cfg.Path = rest[0]
	case path != "":
		cfg.Path = path
	}

	if spaces {
		cfg.UseTabs = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
