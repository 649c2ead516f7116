package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/iudanet/gophadmin/internal/client/iocli"
	"github.com/iudanet/gophadmin/internal/client/storage"
	"github.com/iudanet/gophadmin/internal/client/view"
)

func (c *Cli) membersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "members",
		Short: "Manage members",
	}

	var (
		search string
		page   int
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List members",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := c.client(ctx, c.cfg.MemberEndpoints)
			if err != nil {
				return err
			}

			members, err := client.ListMembers(ctx)
			if err != nil {
				return err
			}
			c.cacheMembers(cmd, &storage.MemberSnapshot{
				Info:    storage.FetchInfo{FetchedAt: c.now().UTC(), Query: "all"},
				Members: members,
			})

			state := view.NewState(view.MemberScreen(), c.cfg.PageSize)
			state.Replace(members)
			state.SetKeyword(search)
			state.SetPage(page)
			return c.renderMembers(state)
		},
	}
	list.Flags().StringVar(&search, "search", "", "Filter by name (case-insensitive)")
	list.Flags().IntVar(&page, "page", 1, "Page number")

	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := c.client(ctx, c.cfg.MemberEndpoints)
			if err != nil {
				return err
			}
			member, err := client.CreateMember(ctx, args[0])
			if err != nil {
				return err
			}
			c.io.Println("✓ Member created")
			return c.printMember(member)
		},
	}

	update := &cobra.Command{
		Use:   "update <id> <name>",
		Short: "Rename a member",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := c.client(ctx, c.cfg.MemberEndpoints)
			if err != nil {
				return err
			}
			member, err := client.UpdateMember(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			c.io.Println("✓ Member updated")
			return c.printMember(member)
		},
	}

	var yes bool
	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !yes {
				ok, err := iocli.Confirm(c.io, fmt.Sprintf("Delete member %s?", args[0]))
				if err != nil {
					return err
				}
				if !ok {
					c.io.Println("Deletion cancelled.")
					return nil
				}
			}

			client, err := c.client(ctx, c.cfg.MemberEndpoints)
			if err != nil {
				return err
			}
			if err := client.DeleteMember(ctx, args[0]); err != nil {
				return err
			}
			c.io.Println("✓ Member deleted")
			return nil
		},
	}
	del.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	cmd.AddCommand(list, add, update, del)
	return cmd
}

// cacheMembers сохраняет выборку; сбой кэша не прерывает команду
func (c *Cli) cacheMembers(cmd *cobra.Command, snap *storage.MemberSnapshot) {
	store, err := c.cacheStorage(cmd.Context())
	if err == nil {
		err = store.SaveMembers(cmd.Context(), snap)
	}
	if err != nil && !errors.Is(err, storage.ErrStorageClosed) {
		c.logger.WarnContext(cmd.Context(), "failed to cache members", slog.Any("error", err))
	}
}
