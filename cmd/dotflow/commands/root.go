package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"dotflow/internal/app"
	"dotflow/internal/domain"
	"dotflow/internal/logging"
	"dotflow/internal/metrics"
)

// needsKeyring marks commands that read or write chain keys.
const needsKeyring = "dotflow/needs-keyring"

var (
	configFile string
	appCtx     *app.Wire
)

// Execute runs the CLI until completion or an interrupt.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd builds the command tree with a fresh configuration.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	root := &cobra.Command{
		Use:          "dotflow",
		Short:        "Private chain addresses with selective disclosure",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if appCtx != nil {
				// left open by a previous command that failed
				_ = appCtx.Close()
			}
			cfg, err := app.LoadConfig(v, configFile)
			if err != nil {
				return err
			}
			if cmd.Annotations[needsKeyring] != "" && cfg.Passphrase == "" {
				return fmt.Errorf("passphrase required (-p or DOTFLOW_PASSPHRASE)")
			}
			log, err := logging.New(cfg.LogLevel)
			if err != nil {
				return err
			}
			appCtx, err = app.NewWire(cmd.Context(), cfg, log, metrics.New())
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if appCtx == nil {
				return nil
			}
			err := appCtx.Close()
			appCtx = nil
			return err
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file (default ~/.dotflow/config.yaml)")
	pf.String("home", "", "data dir (default ~/.dotflow)")
	pf.String("ledger", "", "ledger database (default <home>/ledger.db)")
	pf.String("account", "", "acting account for mutating commands")
	pf.StringP("passphrase", "p", "", "passphrase protecting the keyring")
	pf.String("vault-url", "", "resolve against a remote vaultd (e.g. http://127.0.0.1:8645)")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	for key, flag := range map[string]string{
		"home":       "home",
		"ledger":     "ledger",
		"account":    "account",
		"passphrase": "passphrase",
		"vault_url":  "vault-url",
		"log_level":  "log-level",
	} {
		_ = v.BindPFlag(key, pf.Lookup(flag))
	}

	root.AddCommand(
		identityCmd(),
		addressCmd(),
		fingerprintCmd(),
		discloseCmd(),
		resolveCmd(),
		chainCmd(),
		bookCmd(),
	)
	return root
}

func withKeyring(cmd *cobra.Command) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[needsKeyring] = "true"
	return cmd
}

func caller() (domain.AccountID, error) {
	if appCtx.Config.Account == "" {
		return "", errors.New("account required (--account or DOTFLOW_ACCOUNT)")
	}
	return domain.AccountID(appCtx.Config.Account), nil
}

// ownIdentity returns the identity owned by the acting account.
func ownIdentity(ctx context.Context) (domain.AccountID, domain.Identity, error) {
	acct, err := caller()
	if err != nil {
		return "", domain.Identity{}, err
	}
	ident, err := appCtx.Registry.IdentityOf(ctx, acct)
	return acct, ident, err
}

// The read helpers below go to the remote vault when --vault-url is set and
// to the local ledger otherwise.

func readIdentity(ctx context.Context, id domain.IdentityID) (domain.Identity, error) {
	if appCtx.Remote != nil {
		return appCtx.Remote.Identity(ctx, id)
	}
	return appCtx.Registry.Identity(ctx, id)
}

func readRecords(ctx context.Context, id domain.IdentityID) ([]domain.AddressRecord, error) {
	if appCtx.Remote != nil {
		return appCtx.Remote.List(ctx, id)
	}
	return appCtx.Identity.ListAddresses(ctx, id)
}

func readChains(ctx context.Context) ([]domain.ChainInfo, error) {
	if appCtx.Remote != nil {
		return appCtx.Remote.Chains(ctx)
	}
	return appCtx.Registry.AvailableChains(ctx)
}

func parseUint32(kind, s string) (uint32, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", kind, s)
	}
	return uint32(n), nil
}

func parseIdentity(s string) (domain.IdentityID, error) {
	n, err := parseUint32("identity", s)
	return domain.IdentityID(n), err
}

func parseChain(s string) (domain.ChainID, error) {
	n, err := parseUint32("chain", s)
	return domain.ChainID(n), err
}

func parseChains(args []string) ([]domain.ChainID, error) {
	out := make([]domain.ChainID, 0, len(args))
	for _, a := range args {
		c, err := parseChain(a)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
