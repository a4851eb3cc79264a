package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/bnema/messenger-accounts-cli/internal/application"
	"github.com/bnema/messenger-accounts-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newOptionCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "option",
		Short: "Manage per-account persistent options",
	}

	cmd.AddCommand(
		newOptionSetCmd(app),
		newOptionGetCmd(app),
	)

	return cmd
}

func newOptionSetCmd(app *app) *cobra.Command {
	var (
		account string
		name    string
		value   string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Merge one option into an account's persistent options",
		RunE: func(cmd *cobra.Command, _ []string) error {
			payload := json.RawMessage(value)
			if !json.Valid(payload) {
				// Bare words are stored as JSON strings.
				quoted, err := json.Marshal(value)
				if err != nil {
					return fmt.Errorf("encode option value: %w", err)
				}
				payload = quoted
			}

			err := app.lifecycle.SetPersistentOption(cmd.Context(), domain.AccountID(account), application.OptionUpdate{
				Kind:    domain.OptionKind(name),
				Payload: payload,
			})
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "set %s for account %s\n", name, account)
			return err
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "account ID")
	cmd.Flags().StringVar(&name, "name", "", "option name (notifications, theme, tooltips, debug)")
	cmd.Flags().StringVar(&value, "value", "", "option value, JSON or a bare string")
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("value")

	return cmd
}

func newOptionGetCmd(app *app) *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Print an account's full persistent options record",
		RunE: func(cmd *cobra.Command, _ []string) error {
			options, err := app.lifecycle.PersistentOptions(cmd.Context(), domain.AccountID(account))
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(options, "", "  ")
			if err != nil {
				return fmt.Errorf("encode options record: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "account ID")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}
