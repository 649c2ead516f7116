package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/iudanet/gophadmin/internal/validation"
)

func (c *Cli) staticCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "static",
		Short: "Fetch and upload static files",
	}

	var output string
	get := &cobra.Command{
		Use:   "get <fileName>",
		Short: "Download a file from the first replica that serves it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := c.client(ctx, c.cfg.StaticEndpoints)
			if err != nil {
				return err
			}
			res, err := client.LookupStatic(ctx, args[0])
			if err != nil {
				return err
			}

			path := output
			if path == "" {
				path = args[0]
			}
			if err := os.WriteFile(path, res.Body, 0600); err != nil {
				return fmt.Errorf("failed to save file: %w", err)
			}
			c.io.Printf("✓ Saved %d bytes to %s (from %s)\n", len(res.Body), path, res.Endpoint)
			return nil
		},
	}
	get.Flags().StringVarP(&output, "output", "o", "", "Output path (default: file name)")

	upload := &cobra.Command{
		Use:   "upload <path>",
		Short: "Upload a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path := args[0]

			// Размер проверяется до чтения файла в память
			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("failed to stat file: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("%s is a directory", path)
			}
			if err := validation.UploadSize(info.Size()); err != nil {
				return err
			}

			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}

			client, err := c.client(ctx, c.cfg.StaticEndpoints)
			if err != nil {
				return err
			}
			resp, err := client.UploadFile(ctx, filepath.Base(path), content)
			if err != nil {
				return err
			}
			c.io.Printf("✓ Uploaded %s (%d bytes)\n", resp.FileName, resp.Size)
			return nil
		},
	}

	cmd.AddCommand(get, upload)
	return cmd
}
