package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iudanet/gophadmin/internal/client/storage"
	"github.com/iudanet/gophadmin/internal/client/view"
)

func (c *Cli) cacheCommand() *cobra.Command {
	var (
		search, server string
		page           int
	)
	show := &cobra.Command{
		Use:       "show <members|orders>",
		Short:     "Show the last fetched list without contacting backends",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"members", "orders"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.cacheStorage(ctx)
			if err != nil {
				return err
			}

			switch args[0] {
			case "members":
				snap, err := store.GetMembers(ctx)
				if err != nil {
					return cacheErr(err, "members list")
				}
				c.printFetchInfo(snap.Info)
				state := view.NewState(view.MemberScreen(), c.cfg.PageSize)
				state.Replace(snap.Members)
				state.SetKeyword(search)
				state.SetPage(page)
				return c.renderMembers(state)
			case "orders":
				snap, err := store.GetOrders(ctx)
				if err != nil {
					return cacheErr(err, "orders list")
				}
				c.printFetchInfo(snap.Info)
				state := view.NewState(view.OrderScreen(), c.cfg.PageSize)
				state.Replace(snap.Orders)
				state.SetKeyword(search)
				state.SetServerFilter(server)
				state.SetPage(page)
				withServer := false
				for _, o := range snap.Orders {
					if o.Server != "" {
						withServer = true
						break
					}
				}
				return c.renderOrders(state, withServer)
			default:
				return fmt.Errorf("unknown cache kind %q: use members or orders", args[0])
			}
		},
	}
	show.Flags().StringVar(&search, "search", "", "Filter by keyword")
	show.Flags().StringVar(&server, "server", view.AllServers, "Filter orders by replica label")
	show.Flags().IntVar(&page, "page", 1, "Page number")

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the local cache of the last fetch",
	}
	cmd.AddCommand(show)
	return cmd
}

func (c *Cli) printFetchInfo(info storage.FetchInfo) {
	c.io.Printf("Cached %s (query: %s)\n", info.FetchedAt.Local().Format("2006-01-02 15:04:05"), info.Query)
}

func cacheErr(err error, what string) error {
	if errors.Is(err, storage.ErrCacheEmpty) {
		return fmt.Errorf("no cached %s yet: run the list command first", what)
	}
	return err
}
