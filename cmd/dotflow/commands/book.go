package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"dotflow/internal/domain"
)

// bookCommand runs fn as the acting account.
func bookCommand(use, short string, nargs int, fn func(cmd *cobra.Command, acct domain.AccountID, args []string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			acct, err := caller()
			if err != nil {
				return err
			}
			return fn(cmd, acct, args)
		},
	}
}

func bookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Manage your address book",
	}
	var nickname string
	add := bookCommand("add <identity>", "Add an identity to your book", 1,
		func(cmd *cobra.Command, acct domain.AccountID, args []string) error {
			id, err := parseIdentity(args[0])
			if err != nil {
				return err
			}
			return appCtx.AddressBook.AddIdentity(cmd.Context(), acct, id, domain.Nickname(nickname))
		})
	add.Flags().StringVarP(&nickname, "nickname", "n", "", "optional nickname")

	cmd.AddCommand(
		bookCommand("create", "Create your address book", 0,
			func(cmd *cobra.Command, acct domain.AccountID, _ []string) error {
				return appCtx.AddressBook.CreateBook(cmd.Context(), acct)
			}),
		bookCommand("remove", "Delete your address book", 0,
			func(cmd *cobra.Command, acct domain.AccountID, _ []string) error {
				return appCtx.AddressBook.RemoveBook(cmd.Context(), acct)
			}),
		add,
		bookCommand("remove-identity <identity>", "Remove an identity from your book", 1,
			func(cmd *cobra.Command, acct domain.AccountID, args []string) error {
				id, err := parseIdentity(args[0])
				if err != nil {
					return err
				}
				return appCtx.AddressBook.RemoveIdentity(cmd.Context(), acct, id)
			}),
		bookCommand("rename <identity> <nickname>", "Change the nickname of an entry", 2,
			func(cmd *cobra.Command, acct domain.AccountID, args []string) error {
				id, err := parseIdentity(args[0])
				if err != nil {
					return err
				}
				return appCtx.AddressBook.UpdateNickname(cmd.Context(), acct, id, domain.Nickname(args[1]))
			}),
		bookCommand("list", "List your book", 0,
			func(cmd *cobra.Command, acct domain.AccountID, _ []string) error {
				entries, err := appCtx.AddressBook.Entries(cmd.Context(), acct)
				if err != nil {
					return err
				}
				for _, e := range entries {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", e.Identity, e.Nickname)
				}
				return nil
			}),
		bookCommand("lookup <nickname>", "Print the identity behind a nickname", 1,
			func(cmd *cobra.Command, acct domain.AccountID, args []string) error {
				id, err := appCtx.AddressBook.Lookup(cmd.Context(), acct, domain.Nickname(args[0]))
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), id)
				return nil
			}),
	)
	return cmd
}
