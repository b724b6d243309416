package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	abciserver "github.com/cometbft/cometbft/abci/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/acuity-network/atomicswap/internal/app"
	"github.com/acuity-network/atomicswap/internal/config"
	"github.com/acuity-network/atomicswap/internal/rpc"
	"github.com/acuity-network/atomicswap/pkg/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var home string

	root := &cobra.Command{
		Use:           "swapd",
		Short:         "atomic-swap settlement daemon",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&home, "home", defaultHome(), "app home directory")

	root.AddCommand(newInitCmd(&home))
	root.AddCommand(newStartCmd(&home))
	return root
}

func defaultHome() string {
	dir, err := os.UserHomeDir()
	if err != nil {
		return ".swapd"
	}
	return filepath.Join(dir, ".swapd")
}

func newInitCmd(home *string) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "create the app home directory and a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(*home, 0o755); err != nil {
				return fmt.Errorf("mkdir home: %w", err)
			}
			v := viper.New()
			cfg, err := config.Load(*home, v)
			if err != nil {
				return err
			}
			v.SetConfigFile(filepath.Join(*home, "config.yaml"))
			if err := v.SafeWriteConfig(); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "initialized %s (abci=%s rpc=%s)\n", *home, cfg.ABCIAddr, cfg.RPCAddr)
			return nil
		},
	}
}

func newStartCmd(home *string) *cobra.Command {
	var (
		abciAddr      string
		abciTransport string
		rpcAddr       string
		logLevel      string
	)

	cmd := &cobra.Command{
		Use:   "start",
		Short: "run the ABCI application and RPC facade",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*home, nil)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("abci-addr") {
				cfg.ABCIAddr = abciAddr
			}
			if cmd.Flags().Changed("abci-transport") {
				cfg.ABCITransport = abciTransport
			}
			if cmd.Flags().Changed("rpc-addr") {
				cfg.RPCAddr = rpcAddr
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}

			log := logging.New(&logging.Config{Level: cfg.LogLevel})
			logging.SetDefault(log)

			return run(cfg, log)
		},
	}
	cmd.Flags().StringVar(&abciAddr, "abci-addr", "", "ABCI listen address (overrides config)")
	cmd.Flags().StringVar(&abciTransport, "abci-transport", "", "ABCI transport: socket|grpc (overrides config)")
	cmd.Flags().StringVar(&rpcAddr, "rpc-addr", "", "RPC facade listen address (overrides config)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log level: debug|info|warn|error (overrides config)")
	return cmd
}

func run(cfg *config.Config, log *logging.Logger) error {
	a, err := app.New(cfg.Home, log)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}

	abciSrv, err := abciserver.NewServer(cfg.ABCIAddr, cfg.ABCITransport, a)
	if err != nil {
		return fmt.Errorf("init abci server: %w", err)
	}
	if err := abciSrv.Start(); err != nil {
		return fmt.Errorf("start abci server: %w", err)
	}
	defer func() { _ = abciSrv.Stop() }()
	log.Info("abci server listening", "addr", cfg.ABCIAddr, "transport", cfg.ABCITransport)

	rpcSrv := rpc.NewServer(a)
	if err := rpcSrv.Start(cfg.RPCAddr); err != nil {
		return fmt.Errorf("start rpc facade: %w", err)
	}
	defer func() { _ = rpcSrv.Stop() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Info("shutting down")
	return nil
}
