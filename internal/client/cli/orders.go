package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	apiclient "github.com/iudanet/gophadmin/internal/client/api"
	"github.com/iudanet/gophadmin/internal/client/iocli"
	"github.com/iudanet/gophadmin/internal/client/storage"
	"github.com/iudanet/gophadmin/internal/client/view"
	"github.com/iudanet/gophadmin/internal/models"
	"github.com/iudanet/gophadmin/internal/validation"
	"github.com/iudanet/gophadmin/pkg/api"
)

func (c *Cli) ordersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Manage orders",
	}
	cmd.AddCommand(
		c.ordersListCommand(),
		c.ordersHistoryCommand(),
		c.ordersAddCommand(),
		c.ordersUpdateCommand(),
		c.ordersDeleteCommand(),
	)
	return cmd
}

func (c *Cli) ordersListCommand() *cobra.Command {
	var (
		from, to, search, server string
		page                     int
		allServers               bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List order versions created in a date range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := c.client(ctx, c.cfg.OrderEndpoints)
			if err != nil {
				return err
			}

			start, end, err := client.DateRange(from, to)
			if err != nil {
				return err
			}

			// Метки серверов есть только у заказов, собранных со всех реплик
			if server != view.AllServers {
				allServers = true
			}

			var orders []models.Order
			if allServers {
				collection, err := client.CollectOrders(ctx, start, end)
				if err != nil {
					return err
				}
				for _, f := range collection.Failures {
					c.io.Printf("Warning: %s (%s) skipped: %s\n", f.Server, f.Endpoint, view.Describe(f.Err))
				}
				orders = collection.Orders
			} else {
				orders, err = client.FindOrders(ctx, start, end)
				if err != nil {
					return err
				}
			}

			c.cacheOrders(cmd, &storage.OrderSnapshot{
				Info:   storage.FetchInfo{FetchedAt: c.now().UTC(), Query: start + ".." + end},
				Orders: orders,
			})

			state := view.NewState(view.OrderScreen(), c.cfg.PageSize)
			state.Replace(orders)
			state.SetKeyword(search)
			state.SetServerFilter(server)
			state.SetPage(page)
			return c.renderOrders(state, allServers)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&from, "from", "", "Start date YYYY-MM-DD (default "+apiclient.DefaultStartDate+")")
	flags.StringVar(&to, "to", "", "End date YYYY-MM-DD (default today)")
	flags.StringVar(&search, "search", "", "Filter by order id")
	flags.StringVar(&server, "server", view.AllServers, `Show only one replica, e.g. "Server 2" (implies --all-servers)`)
	flags.IntVar(&page, "page", 1, "Page number")
	flags.BoolVar(&allServers, "all-servers", false, "Query every replica and merge the results")
	return cmd
}

func (c *Cli) ordersHistoryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "history <orderId>",
		Short: "Show every version of an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := c.client(ctx, c.cfg.OrderEndpoints)
			if err != nil {
				return err
			}
			versions, err := client.OrderHistory(ctx, args[0])
			if err != nil {
				return err
			}
			if len(versions) == 0 {
				c.io.Println("No versions found.")
				return nil
			}
			for i := range versions {
				if err := c.printOrder(&versions[i]); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (c *Cli) ordersAddCommand() *cobra.Command {
	var req api.CreateOrderRequest
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := c.client(ctx, c.cfg.OrderEndpoints)
			if err != nil {
				return err
			}
			order, err := client.CreateOrder(ctx, req)
			if err != nil {
				return err
			}
			c.io.Println("✓ Order created")
			return c.printOrder(order)
		},
	}
	cmd.Flags().StringVar(&req.MemberID, "member", "", "Member id")
	cmd.Flags().Int64Var(&req.Price, "price", 0, "Price")
	cmd.Flags().StringVar(&req.ExpiredAt, "expires", "", "Expiry time, e.g. 2025-12-31T00:00:00")
	_ = cmd.MarkFlagRequired("member")
	return cmd
}

func (c *Cli) ordersUpdateCommand() *cobra.Command {
	var (
		paid    int
		price   int64
		expires string
	)
	cmd := &cobra.Command{
		Use:   "update <orderId> <version>",
		Short: "Store a new version of an order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			version, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("%w: version must be a number", validation.ErrInvalid)
			}

			client, err := c.client(ctx, c.cfg.OrderEndpoints)
			if err != nil {
				return err
			}

			// Бэкенд ждет заказ целиком, берем указанную версию как основу
			versions, err := client.OrderHistory(ctx, args[0])
			if err != nil {
				return err
			}
			var base *models.Order
			for i := range versions {
				if versions[i].ID.Version == version {
					base = &versions[i]
					break
				}
			}
			if base == nil {
				return fmt.Errorf("order %s has no version %d", args[0], version)
			}

			flags := cmd.Flags()
			if flags.Changed("paid") {
				base.IsPaid = paid
			}
			if flags.Changed("price") {
				base.Price = price
			}
			if flags.Changed("expires") {
				base.ExpiredAt = expires
			}

			updated, err := client.UpdateOrder(ctx, *base)
			if err != nil {
				return err
			}
			c.io.Println("✓ Order updated")
			return c.printOrder(updated)
		},
	}
	cmd.Flags().IntVar(&paid, "paid", 0, "Paid flag: 0 or 1")
	cmd.Flags().Int64Var(&price, "price", 0, "New price")
	cmd.Flags().StringVar(&expires, "expires", "", "New expiry time")
	return cmd
}

func (c *Cli) ordersDeleteCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <orderId>",
		Short: "Mark an order as deleted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !yes {
				ok, err := iocli.Confirm(c.io, fmt.Sprintf("Delete order %s?", args[0]))
				if err != nil {
					return err
				}
				if !ok {
					c.io.Println("Deletion cancelled.")
					return nil
				}
			}

			client, err := c.client(ctx, c.cfg.OrderEndpoints)
			if err != nil {
				return err
			}
			if err := client.DeleteOrder(ctx, args[0]); err != nil {
				return err
			}
			c.io.Println("✓ Order deleted")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

// cacheOrders сохраняет выборку; сбой кэша не прерывает команду
func (c *Cli) cacheOrders(cmd *cobra.Command, snap *storage.OrderSnapshot) {
	store, err := c.cacheStorage(cmd.Context())
	if err == nil {
		err = store.SaveOrders(cmd.Context(), snap)
	}
	if err != nil && !errors.Is(err, storage.ErrStorageClosed) {
		c.logger.WarnContext(cmd.Context(), "failed to cache orders", slog.Any("error", err))
	}
}
