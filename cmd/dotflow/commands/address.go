package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"dotflow/internal/crypto"
	"dotflow/internal/domain"
)

// ownChainCommand runs fn against the acting account's identity and a chain argument.
func ownChainCommand(
	use, short string,
	fn func(cmd *cobra.Command, acct domain.AccountID, id domain.IdentityID, chain domain.ChainID, args []string) error,
	extraArgs int,
) *cobra.Command {
	return withKeyring(&cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1 + extraArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			chain, err := parseChain(args[0])
			if err != nil {
				return err
			}
			acct, ident, err := ownIdentity(cmd.Context())
			if err != nil {
				return err
			}
			return fn(cmd, acct, ident.ID, chain, args[1:])
		},
	})
}

func addressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "address",
		Short: "Manage encrypted chain addresses",
	}
	cmd.AddCommand(
		ownChainCommand("register <chain> <address>", "Encrypt and store your address on a chain",
			func(cmd *cobra.Command, acct domain.AccountID, id domain.IdentityID, chain domain.ChainID, args []string) error {
				rec, err := appCtx.Identity.RegisterAddress(cmd.Context(), acct, id, chain, []byte(args[0]))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Address registered on chain %s (key v%d, %s)\n", chain, rec.KeyVersion, rec.Suite)
				return nil
			}, 1),
		ownChainCommand("rotate <chain>", "Rotate a chain key without re-encrypting",
			func(cmd *cobra.Command, acct domain.AccountID, id domain.IdentityID, chain domain.ChainID, _ []string) error {
				v, err := appCtx.Identity.RotateChainKey(cmd.Context(), acct, id, chain)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Chain %s key rotated to v%d; register the address again to re-encrypt it\n", chain, v)
				return nil
			}, 0),
		ownChainCommand("refresh <chain>", "Rotate a chain key and re-encrypt the stored address",
			func(cmd *cobra.Command, acct domain.AccountID, id domain.IdentityID, chain domain.ChainID, _ []string) error {
				rec, err := appCtx.Identity.RefreshAddress(cmd.Context(), acct, id, chain)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Chain %s refreshed (key v%d)\n", chain, rec.KeyVersion)
				return nil
			}, 0),
		ownChainCommand("remove <chain>", "Delete your address on a chain and revoke its key",
			func(cmd *cobra.Command, acct domain.AccountID, id domain.IdentityID, chain domain.ChainID, _ []string) error {
				if err := appCtx.Identity.RemoveAddress(cmd.Context(), acct, id, chain); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Address on chain %s removed\n", chain)
				return nil
			}, 0),
		&cobra.Command{
			Use:   "get <identity> <chain>",
			Short: "Print the public ciphertext record",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseIdentity(args[0])
				if err != nil {
					return err
				}
				chain, err := parseChain(args[1])
				if err != nil {
					return err
				}
				rec, err := appCtx.Identity.GetAddress(cmd.Context(), id, chain)
				if err != nil {
					return err
				}
				printRecord(cmd, rec)
				return nil
			},
		},
		&cobra.Command{
			Use:   "list <identity>",
			Short: "List the public records of an identity",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseIdentity(args[0])
				if err != nil {
					return err
				}
				recs, err := readRecords(cmd.Context(), id)
				if err != nil {
					return err
				}
				for _, r := range recs {
					printRecord(cmd, r)
				}
				return nil
			},
		},
	)
	return cmd
}

func printRecord(cmd *cobra.Command, r domain.AddressRecord) {
	fmt.Fprintf(cmd.OutOrStdout(), "identity=%s chain=%s version=%d suite=%s nonce=%s ciphertext=%s\n",
		r.Identity, r.Chain, r.KeyVersion, r.Suite, crypto.B64(r.Nonce), crypto.B64(r.Ciphertext))
}

func fingerprintCmd() *cobra.Command {
	return ownChainCommand("fingerprint <chain>", "Print the fingerprint of your current chain key",
		func(cmd *cobra.Command, _ domain.AccountID, id domain.IdentityID, chain domain.ChainID, _ []string) error {
			key, err := appCtx.Keys.CurrentKey(id, chain)
			if err != nil {
				return err
			}
			defer crypto.WipeKey(key)
			fmt.Fprintf(cmd.OutOrStdout(), "Fingerprint: %s (v%d)\n", crypto.Fingerprint(key.Key), key.Version)
			return nil
		}, 0)
}
