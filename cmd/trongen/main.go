package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Amr-9/trongen/internal/ui"
	"github.com/Amr-9/trongen/pkg/generator"
	"github.com/Amr-9/trongen/pkg/generator/cpu"
	"github.com/Amr-9/trongen/pkg/generator/keypair"
	"github.com/Amr-9/trongen/pkg/generator/tron"
	"github.com/Amr-9/trongen/pkg/tronnode"
)

const version = "1.0"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s✗ %v%s\n", ui.ColorRed, err, ui.ColorReset)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	v := viper.New()
	root := &cobra.Command{
		Use:           "trongen",
		Short:         "Generate and inspect Tron addresses",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(cmd, v)
		},
	}
	root.PersistentFlags().String("config", "", "config file (yaml, json or toml)")
	root.PersistentFlags().String("log-level", "warning", "log level: debug, info, warning, error")
	root.PersistentFlags().Bool("no-color", false, "disable ANSI colors")
	root.PersistentFlags().Bool("json", false, "print results as JSON lines")

	root.AddCommand(newGenerateCommand(v), newInspectCommand(v), newConvertCommand())
	return root
}

func newGenerateCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate",
		Short:   "Generate new Tron addresses",
		Example: "  trongen generate -n 3 --node https://api.trongrid.io",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			return runGenerate(cmd, cfg)
		},
	}
	cmd.Flags().IntP("count", "n", 1, "number of addresses to generate")
	cmd.Flags().IntP("workers", "w", 0, "number of concurrent workers (0 = CPU cores)")
	cmd.Flags().String("node", "", "full node URL used to validate addresses (offline if empty)")
	cmd.Flags().Duration("node-timeout", tronnode.DefaultTimeout, "timeout of a single node request")
	cmd.Flags().Duration("timeout", 0, "abort the whole batch after this duration (0 = no limit)")
	cmd.Flags().StringP("output", "o", "", "also write the results to this file (mode 0600)")
	return cmd
}

func runGenerate(cmd *cobra.Command, cfg *Config) error {
	console := ui.NewConsole(cmd.OutOrStdout(), cfg.JSON, !cfg.NoColor)
	console.PrintBanner(version)

	var validator generator.AddressValidator = tron.LocalValidator{}
	if cfg.Node != "" {
		validator = tronnode.NewValidator(tronnode.NewClient(cfg.Node, cfg.NodeWait))
		logrus.WithField("node", cfg.Node).Info("validating addresses against full node")
	}

	runner := cpu.NewRunner(cfg.Workers,
		func() generator.KeyPairSource { return keypair.NewSecp256k1Source() },
		func(keys generator.KeyPairSource) generator.Generator { return tron.NewGenerator(keys, validator) },
	)

	// Handle interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	results, errs := runner.Run(ctx, cfg.Count)

	var (
		collected []generator.Result
		failures  []error
	)
	for results != nil || errs != nil {
		select {
		case r, ok := <-results:
			if !ok {
				results = nil
				continue
			}
			collected = append(collected, r)
			if err := console.PrintResult(len(collected), r); err != nil {
				return err
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logrus.WithError(err).Error("address generation failed")
			console.PrintError(err)
			failures = append(failures, err)
		}
	}

	if cfg.Output != "" && len(collected) > 0 {
		if err := os.WriteFile(cfg.Output, []byte(ui.FormatResults(collected, time.Now())), 0600); err != nil {
			return fmt.Errorf("save results: %w", err)
		}
	}
	console.PrintSummary(runner.Stats(), cfg.Output)

	if len(failures) > 0 {
		return fmt.Errorf("%d of %d generations failed: %w", len(failures), cfg.Count, errors.Join(failures...))
	}
	if len(collected) < cfg.Count {
		return fmt.Errorf("generated %d of %d addresses: %w", len(collected), cfg.Count, ctx.Err())
	}
	return nil
}

func newInspectCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <private-key-hex>",
		Short: "Show the addresses of an existing private key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := inspectPrivateKey(args[0])
			if err != nil {
				return err
			}
			return ui.NewConsole(cmd.OutOrStdout(), v.GetBool("json"), !v.GetBool("no-color")).PrintResult(1, result)
		},
	}
}

// inspectPrivateKey runs the derivation pipeline on a known key, without
// any validation round.
func inspectPrivateKey(privateKeyHex string) (generator.Result, error) {
	keyPair, err := keypair.FromPrivateKeyHex(privateKeyHex)
	if err != nil {
		return generator.Result{}, err
	}
	pub, err := hex.DecodeString(keyPair.PublicKeyHex)
	if err != nil {
		return generator.Result{}, err
	}
	addressHex, err := tron.DeriveAddressHex(pub)
	if err != nil {
		return generator.Result{}, err
	}
	address, err := tron.HexToBase58(addressHex)
	if err != nil {
		return generator.Result{}, err
	}
	return generator.Result{
		PrivateKey: keyPair.PrivateKeyHex,
		Address:    address,
		HexAddress: addressHex,
	}, nil
}

func newConvertCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <address>",
		Short: "Convert an address between hex (41...) and Base58 (T...) form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := convertAddress(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func convertAddress(address string) (string, error) {
	address = strings.TrimSpace(address)
	if strings.HasPrefix(address, "0x") {
		address = address[2:]
	}
	if len(address) == tron.AddressHexLength {
		return tron.HexToBase58(address)
	}
	if invalid := tron.InvalidBase58Chars(address); len(invalid) > 0 {
		return "", fmt.Errorf("%w: invalid characters %q", tron.ErrInvalidAddress, string(invalid))
	}
	return tron.Base58ToHex(address)
}
