package main

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:               "invoker",
		Short:             "Sends invoke transactions to Starknet on behalf of a single-owner account",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}

	configPath string
	cfg        *Config
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "2006-01-02 15:04:05",
	}).Level(zerolog.InfoLevel)

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "dipdup.yml", "path to YAML config file")
	rootCmd.AddCommand(
		newInvokeCmd(),
		newCallCmd(),
		newTrackCmd(),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Err(err).Msg("command line execute")
		cancel()
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, args []string) error {
	loaded, err := LoadOptional(configPath)
	if err != nil {
		return err
	}
	cfg = loaded

	logLevel := zerolog.LevelInfoValue
	if cfg != nil {
		if cfg.LogLevel != "" {
			logLevel = cfg.LogLevel
		}
		if cfg.Invoker.MaxCPU > 0 {
			runtime.GOMAXPROCS(cfg.Invoker.MaxCPU)
		}
	}

	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(level)
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		short := file
		for i := len(file) - 1; i > 0; i-- {
			if file[i] == '/' {
				short = file[i+1:]
				break
			}
		}
		file = short
		return file + ":" + strconv.Itoa(line)
	}
	log.Logger = log.Logger.Level(zerolog.TraceLevel).With().Caller().Logger()
	return nil
}
