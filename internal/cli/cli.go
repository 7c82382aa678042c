package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/nickerso/cellml-decompose/internal/app"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Version is reported by --version. Release builds set it with -ldflags.
var Version = "dev"

// EnvPrefix prefixes the environment variable of every flag.
const EnvPrefix = "CELLML_DECOMPOSE"

// Exit codes.
const (
	ExitRunFailure = 1
	ExitUsage      = 2
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// NewCommand builds the root command. When it runs it stores the validated
// configuration in *out.
func NewCommand(output io.Writer, out **app.Config) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "cellml-decompose [flags] MODEL_LOCATOR OUTPUT_DIR",
		Short: "Split a CellML 1.0 model into reusable CellML 1.1 fragments",
		Long: `cellml-decompose reads a CellML 1.0 model and writes a set of CellML 1.1
documents: one per component, plus shared units, variable values, an
interface model that wires everything together and an experiment model.

MODEL_LOCATOR is a file path, a file:// URL or an http(s):// URL.
OUTPUT_DIR is a directory or an s3://bucket/prefix location.

Every flag can also be set through the environment as
CELLML_DECOMPOSE_<FLAG>, with dashes replaced by underscores.`,
		Args:          cobra.ExactArgs(2),
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.NewConfig(app.Config{
				Locator:      args[0],
				OutputDir:    args[1],
				LogLevel:     strings.ToLower(v.GetString("log-level")),
				LogFormat:    strings.ToLower(v.GetString("log-format")),
				SettingsPath: v.GetString("settings"),
				ReportPath:   v.GetString("report"),
			})
			if err != nil {
				return err
			}
			*out = cfg
			return nil
		},
	}
	cmd.SetOut(output)
	cmd.SetErr(output)

	flags := cmd.Flags()
	flags.String("log-level", "info", "Logging level: debug, info, warn or error.")
	flags.String("log-format", "text", "Log output format: text or json.")
	flags.String("settings", "", "Path to an HCL settings file.")
	flags.String("report", "", "Write a YAML run report to this path.")

	if err := bindFlags(v, flags); err != nil {
		// Unreachable unless a flag above is misdeclared.
		panic(err)
	}
	return cmd
}

// bindFlags makes every flag readable through v, with CELLML_DECOMPOSE_<FLAG>
// as the fallback when the flag is not given.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	var errs []error
	flags.VisitAll(func(f *pflag.Flag) {
		if err := bindFlag(v, f.Name, f); err != nil {
			errs = append(errs, err)
		}
	})
	return errors.Join(errs...)
}

func bindFlag(v *viper.Viper, name string, f *pflag.Flag) error {
	if err := v.BindPFlag(name, f); err != nil {
		return fmt.Errorf("failed to bind flag %q: %w", name, err)
	}
	return nil
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	var cfg *app.Config
	cmd := NewCommand(output, &cfg)
	cmd.SetArgs(args)

	if err := cmd.Execute(); err != nil {
		return nil, false, &ExitError{
			Code:    ExitUsage,
			Message: fmt.Sprintf("%v\nRun '%s --help' for usage.", err, cmd.Name()),
		}
	}
	if cfg == nil {
		// --help or --version
		return nil, true, nil
	}

	slog.Debug("CLI parser finished successfully.", "config", cfg)
	return cfg, false, nil
}
