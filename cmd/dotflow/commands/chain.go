package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"dotflow/internal/domain"
	"dotflow/internal/services/registry"
)

type chainFlags struct {
	rpcURLs     []string
	accountType string
	suite       string
}

func (f *chainFlags) register(fs *pflag.FlagSet) {
	fs.StringSliceVar(&f.rpcURLs, "rpc-url", nil, "RPC endpoint (repeatable)")
	fs.StringVar(&f.accountType, "account-type", "", "AccountId32 or AccountKey20")
	fs.StringVar(&f.suite, "suite", "", "aes-256-gcm or xchacha20-poly1305")
}

func (f *chainFlags) parseSuite() (domain.CipherSuite, error) {
	if f.suite == "" {
		return domain.SuiteUnknown, nil
	}
	return domain.ParseCipherSuite(f.suite)
}

func chainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chain",
		Short: "Inspect or administer the chain registry",
	}

	var add chainFlags
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Register a chain (admin only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			acct, err := caller()
			if err != nil {
				return err
			}
			suite, err := add.parseSuite()
			if err != nil {
				return err
			}
			id, err := appCtx.Registry.AddChain(cmd.Context(), acct, domain.ChainInfo{
				RPCURLs:     add.rpcURLs,
				AccountType: domain.AccountType(add.accountType),
				Suite:       suite,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Chain added.\nID: %s\n", id)
			return nil
		},
	}
	add.register(addCmd.Flags())

	var upd chainFlags
	updateCmd := &cobra.Command{
		Use:   "update <chain>",
		Short: "Update a chain (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			acct, err := caller()
			if err != nil {
				return err
			}
			id, err := parseChain(args[0])
			if err != nil {
				return err
			}
			suite, err := upd.parseSuite()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			change := registry.ChainUpdate{AccountType: domain.AccountType(upd.accountType), Suite: suite}
			if len(upd.rpcURLs) == 0 {
				return appCtx.Registry.UpdateChain(ctx, acct, id, change)
			}
			for _, u := range upd.rpcURLs {
				change.RPCURL = u
				if err := appCtx.Registry.UpdateChain(ctx, acct, id, change); err != nil {
					return err
				}
			}
			return nil
		},
	}
	upd.register(updateCmd.Flags())

	cmd.AddCommand(
		addCmd,
		updateCmd,
		&cobra.Command{
			Use:   "remove <chain>",
			Short: "Remove a chain (admin only)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				acct, err := caller()
				if err != nil {
					return err
				}
				id, err := parseChain(args[0])
				if err != nil {
					return err
				}
				return appCtx.Registry.RemoveChain(cmd.Context(), acct, id)
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List supported chains",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				chains, err := readChains(cmd.Context())
				if err != nil {
					return err
				}
				for _, c := range chains {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n",
						c.ID, c.AccountType, c.Suite, strings.Join(c.RPCURLs, ","))
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "seed <chains.yaml>",
			Short: "Seed an empty registry from a chains file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				chains, err := registry.LoadChainsFile(args[0])
				if err != nil {
					return err
				}
				seeded, err := appCtx.Registry.InitWithChains(cmd.Context(), chains)
				if err != nil {
					return err
				}
				if !seeded {
					fmt.Fprintln(cmd.OutOrStdout(), "Registry already has chains; nothing seeded")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d chains\n", len(chains))
				return nil
			},
		},
	)
	return cmd
}
