package cmd

import (
	"context"
	"fmt"
	"time"

	accountsrender "github.com/bnema/messenger-accounts-cli/internal/adapters/render/accounts"
	"github.com/bnema/messenger-accounts-cli/internal/application"
	"github.com/bnema/messenger-accounts-cli/internal/domain"
	"github.com/bnema/messenger-accounts-cli/internal/event"
	"github.com/spf13/cobra"
)

func newAccountCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage accounts and their sessions",
	}

	cmd.AddCommand(
		newAccountCreateCmd(app),
		newAccountListCmd(app),
		newAccountImportCmd(app),
		newAccountExportCmd(app),
		newAccountSwitchCmd(app),
		newAccountUpdateCmd(app),
		newAccountDeleteCmd(app),
		newAccountRestartCmd(app),
	)

	return cmd
}

// capturedAccountID records the account named by the next event of one
// type, so commands can report what the controller created or switched
// to.
type capturedAccountID struct {
	subID uint64
	id    domain.AccountID
}

func captureAccountID(app *app, eventType string) *capturedAccountID {
	captured := &capturedAccountID{}
	captured.subID = app.bus.Subscribe(eventType, func(e event.Event) {
		switch ev := e.(type) {
		case event.AccountCreatedEvent:
			captured.id = ev.AccountID
		case event.SwitchAccountEvent:
			captured.id = ev.AccountID
		}
	})
	return captured
}

func (c *capturedAccountID) stop(app *app) {
	app.bus.Unsubscribe(c.subID)
}

func newAccountCreateCmd(app *app) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new account and open its session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			created := captureAccountID(app, event.TypeAccountCreated)
			defer created.stop(app)

			if name == "" {
				// Onboarding default: suggest the local username.
				if username, err := app.lifecycle.Username(ctx); err == nil {
					name = username
				}
			}

			err := runWithCloseProgress(ctx, cmd.OutOrStdout(), "Closing current session...", func(ctx context.Context) error {
				return app.lifecycle.CreateNewAccount(ctx, nil)
			})
			if err != nil {
				return err
			}

			if name != "" && created.id != "" {
				if err := app.lifecycle.UpdateAccount(ctx, application.UpdateAccountCommand{
					AccountID:   created.id,
					AccountName: name,
				}); err != nil {
					return err
				}
			}

			if created.id != "" {
				if err := app.lifecycle.SwitchAccount(ctx, created.id); err != nil {
					return err
				}
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "created account %s\n", created.id)
			return err
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name for the new account")

	return cmd
}

func newAccountListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered accounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			statuses, err := app.lifecycle.Accounts(cmd.Context())
			if err != nil {
				return err
			}

			view := accountsrender.Render(statuses, accountsrender.RenderOptions{Now: time.Now()})
			_, err = fmt.Fprintln(cmd.OutOrStdout(), view)
			return err
		},
	}
}

func newAccountImportCmd(app *app) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import an account from a backup file and switch to it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			imported := captureAccountID(app, event.TypeSwitchAccount)
			defer imported.stop(app)

			err := runWithCloseProgress(ctx, cmd.OutOrStdout(), "Closing current session...", func(ctx context.Context) error {
				return app.lifecycle.ImportAccount(ctx, path)
			})
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "imported account %s\n", imported.id)
			return err
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "path to the backup file")
	_ = cmd.MarkFlagRequired("path")

	return cmd
}

func newAccountExportCmd(app *app) *cobra.Command {
	var (
		account string
		path    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export an account's metadata to a backup file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.bridge.ExportAccount(cmd.Context(), domain.AccountID(account), path); err != nil {
				return err
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "exported account %s to %s\n", account, path)
			return err
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "account ID to export")
	cmd.Flags().StringVar(&path, "path", "", "destination backup file")
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("path")

	return cmd
}

func newAccountSwitchCmd(app *app) *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "switch",
		Short: "Close the current session and open another account's",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			err := runWithCloseProgress(ctx, cmd.OutOrStdout(), "Closing current session...", func(ctx context.Context) error {
				return app.lifecycle.SwitchAccount(ctx, domain.AccountID(account))
			})
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "switched to account %s\n", account)
			return err
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "account ID to switch to")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func newAccountUpdateCmd(app *app) *cobra.Command {
	var (
		account   string
		name      string
		publicKey string
		avatarCID string
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update an account's metadata",
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := app.lifecycle.UpdateAccount(cmd.Context(), application.UpdateAccountCommand{
				AccountID:   domain.AccountID(account),
				AccountName: name,
				PublicKey:   publicKey,
				AvatarCID:   avatarCID,
			})
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "updated account %s\n", account)
			return err
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "account ID to update")
	cmd.Flags().StringVar(&name, "name", "", "new display name")
	cmd.Flags().StringVar(&publicKey, "public-key", "", "identity public key")
	cmd.Flags().StringVar(&avatarCID, "avatar-cid", "", "avatar content address")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func newAccountDeleteCmd(app *app) *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete an account and fall back to the most recently opened survivor",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			next := captureAccountID(app, event.TypeSwitchAccount)
			defer next.stop(app)
			created := captureAccountID(app, event.TypeAccountCreated)
			defer created.stop(app)

			err := runWithCloseProgress(ctx, cmd.OutOrStdout(), "Closing current session...", func(ctx context.Context) error {
				return app.lifecycle.DeleteAccount(ctx, domain.AccountID(account))
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if created.id != "" {
				_, err = fmt.Fprintf(out, "deleted account %s, created replacement %s\n", account, created.id)
			} else {
				_, err = fmt.Fprintf(out, "deleted account %s, next account %s\n", account, next.id)
			}
			return err
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "account ID to delete")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func newAccountRestartCmd(app *app) *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "restart",
		Short: "Restart an account's session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			err := runWithCloseProgress(ctx, cmd.OutOrStdout(), "Closing current session...", func(ctx context.Context) error {
				return app.lifecycle.Restart(ctx, domain.AccountID(account))
			})
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "restarted account %s\n", account)
			return err
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "account ID to restart")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}
