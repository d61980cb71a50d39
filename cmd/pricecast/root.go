package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Ujjwal-270/Stock-Prediction/internal/config"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
)

const (
	profileCPU = "cpu"
	profileMem = "mem"
)

// app carries the global flags and the loaded configuration shared by every subcommand
type app struct {
	configFile string
	logLevel   string
	logJSON    bool
	profile    string
	profileDir string

	cfg     *config.Config
	stopper interface{ Stop() }
}

func newRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:   "pricecast",
		Short: "Forecast daily closing prices",
		Long: `Fits an additive model of piecewise linear trend, weekly and yearly seasonality to a
daily closing price series and projects it forward with widening uncertainty bounds.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.stopper != nil {
				a.stopper.Stop()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configFile, "config", "c", "", "yaml config file")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error), overrides the config")
	rootCmd.PersistentFlags().BoolVar(&a.logJSON, "log-json", false, "log as json instead of text")
	rootCmd.PersistentFlags().StringVar(&a.profile, "profile", "", "write a cpu or mem profile")
	rootCmd.PersistentFlags().StringVar(&a.profileDir, "profile-dir", ".", "directory profiles are written to")

	rootCmd.AddCommand(forecastCmd(a))
	rootCmd.AddCommand(componentsCmd(a))
	rootCmd.AddCommand(serveCmd(a))
	return rootCmd
}

func (a *app) setup(logOut io.Writer) error {
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg

	handlerOpt := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var handler slog.Handler = slog.NewTextHandler(logOut, handlerOpt)
	if a.logJSON {
		handler = slog.NewJSONHandler(logOut, handlerOpt)
	}
	slog.SetDefault(slog.New(handler))

	switch a.profile {
	case "":
	case profileCPU:
		a.stopper = profile.Start(profile.CPUProfile, profile.ProfilePath(a.profileDir), profile.Quiet)
	case profileMem:
		a.stopper = profile.Start(profile.MemProfile, profile.ProfilePath(a.profileDir), profile.Quiet)
	default:
		return fmt.Errorf("unknown profile %q, expected %s or %s", a.profile, profileCPU, profileMem)
	}
	return nil
}

func createFile(path string) (*os.File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("unable to create %s, %w", path, err)
	}
	return f, nil
}
