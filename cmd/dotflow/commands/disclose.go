package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"dotflow/internal/crypto"
	"dotflow/internal/domain"
	"dotflow/internal/protocol/bundle"
)

func discloseCmd() *cobra.Command {
	var out string
	cmd := withKeyring(&cobra.Command{
		Use:   "disclose <chain>...",
		Short: "Compose an armored key bundle for the given chains",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chains, err := parseChains(args)
			if err != nil {
				return err
			}
			acct, ident, err := ownIdentity(cmd.Context())
			if err != nil {
				return err
			}
			b, err := appCtx.Identity.ComposeDisclosure(cmd.Context(), acct, ident.ID, chains)
			if err != nil {
				return err
			}
			defer crypto.WipeBundle(b)
			armored, err := bundle.Armor(b)
			if err != nil {
				return err
			}
			if out != "" {
				if err := os.WriteFile(out, []byte(armored+"\n"), 0o600); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Bundle %s written to %s\n", b.ID, out)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), armored)
			return nil
		},
	})
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the bundle to a file instead of stdout")
	return cmd
}

func resolveCmd() *cobra.Command {
	var bundleArg string
	cmd := &cobra.Command{
		Use:   "resolve <identity> <chain>",
		Short: "Decrypt an address with a disclosed bundle",
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
			armored, err := readBundleArg(bundleArg)
			if err != nil {
				return err
			}
			b, err := bundle.Dearmor(armored)
			if err != nil {
				return err
			}
			defer crypto.WipeBundle(b)
			addr, err := appCtx.Identity.ResolveAddress(cmd.Context(), id, chain, b)
			if errors.Is(err, domain.ErrAddressUnreadable) {
				return errors.New("address cannot currently be read with this bundle")
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(addr))
			return nil
		},
	}
	cmd.Flags().StringVarP(&bundleArg, "bundle", "b", "", "armored bundle, or @path to read it from a file")
	_ = cmd.MarkFlagRequired("bundle")
	return cmd
}

func readBundleArg(s string) (string, error) {
	if path, ok := strings.CutPrefix(s, "@"); ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		s = string(data)
	}
	return strings.TrimSpace(s), nil
}
