package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"dotflow/internal/domain"
)

func identityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "identity",
		Short: "Manage your identity",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "create",
			Short: "Register a new identity owned by --account",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				acct, err := caller()
				if err != nil {
					return err
				}
				ident, err := appCtx.Identity.CreateIdentity(cmd.Context(), acct)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Identity created.\nID: %s\n", ident.ID)
				return nil
			},
		},
		&cobra.Command{
			Use:   "show [identity]",
			Short: "Show an identity and its address records",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				var ident domain.Identity
				var err error
				if len(args) == 1 {
					id, perr := parseIdentity(args[0])
					if perr != nil {
						return perr
					}
					ident, err = readIdentity(ctx, id)
				} else {
					_, ident, err = ownIdentity(ctx)
				}
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "ID:       %s\nOwner:    %s\n", ident.ID, ident.Owner)
				if ident.RecoveryAccount != "" {
					fmt.Fprintf(out, "Recovery: %s\n", ident.RecoveryAccount)
				}
				recs, err := readRecords(ctx, ident.ID)
				if err != nil {
					return err
				}
				for _, r := range recs {
					fmt.Fprintf(out, "Chain %s: key v%d, %s\n", r.Chain, r.KeyVersion, r.Suite)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "transfer <identity> <new-owner>",
			Short: "Transfer an identity you own or recover to another account",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				acct, err := caller()
				if err != nil {
					return err
				}
				id, err := parseIdentity(args[0])
				if err != nil {
					return err
				}
				if err := appCtx.Registry.TransferOwnership(cmd.Context(), acct, id, domain.AccountID(args[1])); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Identity %s now owned by %s\n", id, args[1])
				return nil
			},
		},
		&cobra.Command{
			Use:   "recovery <account>",
			Short: "Set the recovery account of your identity",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				acct, err := caller()
				if err != nil {
					return err
				}
				if err := appCtx.Registry.SetRecoveryAccount(cmd.Context(), acct, domain.AccountID(args[0])); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Recovery account set")
				return nil
			},
		},
		withKeyring(&cobra.Command{
			Use:   "remove",
			Short: "Remove your identity, its records and its chain keys",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				acct, err := caller()
				if err != nil {
					return err
				}
				if err := appCtx.Identity.RemoveIdentity(cmd.Context(), acct); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Identity removed")
				return nil
			},
		}),
	)
	return cmd
}
