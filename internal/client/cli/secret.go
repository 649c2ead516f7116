package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iudanet/gophadmin/internal/client/secret"
)

func (c *Cli) secretCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Manage the signing secret stored in the local profile",
		Long: `Manage the signing secret stored in the local profile.

Secret priority (highest to lowest):
  1. GOPHADMIN_SECRET_KEY environment variable
  2. --secret-file (file path)
  3. --secret (command line)
  4. Secret stored in the profile (asks for the passphrase)
  5. Interactive prompt`,
	}

	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Encrypt the signing secret with a passphrase and store it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.storage(ctx)
			if err != nil {
				return err
			}

			// Без профиля: ключ берется из окружения, файла, флага или вводится
			provider := secret.NewProvider(nil, c.io, c.opts.SecretFile, c.opts.Secret)
			provider.Lookup = c.lookupEnv
			key, _, err := provider.Resolve(ctx)
			if err != nil {
				return err
			}

			passphrase, err := c.io.ReadPassword("Passphrase: ")
			if err != nil {
				return fmt.Errorf("failed to read passphrase: %w", err)
			}
			confirm, err := c.io.ReadPassword("Repeat passphrase: ")
			if err != nil {
				return fmt.Errorf("failed to read passphrase: %w", err)
			}
			if passphrase != confirm {
				return fmt.Errorf("passphrases do not match")
			}

			if err := secret.NewStore(store).Save(ctx, key, passphrase); err != nil {
				return err
			}
			c.io.Println("✓ Secret stored")
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove the stored secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.storage(ctx)
			if err != nil {
				return err
			}
			if err := secret.NewStore(store).Clear(ctx); err != nil {
				return err
			}
			c.io.Println("✓ Secret removed")
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether a secret is stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.storage(ctx)
			if err != nil {
				return err
			}
			st, err := secret.NewStore(store).Status(ctx)
			if err != nil {
				return err
			}

			c.io.Printf("Signing:     %s\n", enabled(c.cfg.Signing.Enabled))
			if !st.Stored {
				c.io.Println("Stored:      no")
				return nil
			}
			c.io.Println("Stored:      yes")
			c.io.Printf("Fingerprint: %s\n", st.Fingerprint)
			c.io.Printf("Updated:     %s\n", st.UpdatedAt.Format("2006-01-02 15:04:05"))
			return nil
		},
	}

	cmd.AddCommand(setCmd, clearCmd, statusCmd)
	return cmd
}

func enabled(v bool) string {
	if v {
		return "enabled"
	}
	return "disabled"
}
