package main

import (
	"errors"
	"fmt"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/palanikalyan/K-MATO/pkg/model"
	"github.com/palanikalyan/K-MATO/pkg/orders"
)

func checkoutCmd() *cobra.Command {
	var (
		addressID    int64
		payment      string
		instructions string
	)

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place the cart as an order",
		Long: `Place the cart as an order.

Without --address, your default delivery address is used.

Examples:
  kmato checkout --payment UPI
  kmato checkout --address 5 --payment CARD --note "ring the bell"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := loadClient()
			if err != nil {
				return err
			}
			defer client.Close()

			if addressID == 0 {
				addrs, err := client.API.Addresses(cmd.Context())
				if err != nil {
					return err
				}
				for _, a := range addrs {
					if a.IsDefault || addressID == 0 {
						addressID = a.ID
					}
				}
			}

			order, err := client.Checkout.PlaceOrder(cmd.Context(), addressID, payment, instructions)
			switch {
			case errors.Is(err, orders.ErrNotLoggedIn):
				return fmt.Errorf("sign in first: kmato login")
			case errors.Is(err, orders.ErrEmptyCart):
				return fmt.Errorf("the cart is empty")
			case errors.Is(err, orders.ErrMixedCart):
				return fmt.Errorf("the cart mixes restaurants; an order can only cover one")
			case errors.Is(err, orders.ErrNoAddress):
				return fmt.Errorf("no delivery address; add one or pass --address")
			case err != nil:
				return err
			}

			success("Order #%d placed (₹%.2f)", order.ID, order.TotalAmount)
			info("Follow it with: kmato orders --watch")
			return nil
		},
	}

	cmd.Flags().Int64VarP(&addressID, "address", "a", 0, "Delivery address id")
	cmd.Flags().StringVarP(&payment, "payment", "p", "CASH_ON_DELIVERY", "Payment method")
	cmd.Flags().StringVar(&instructions, "note", "", "Special instructions")

	return cmd
}

func ordersCmd() *cobra.Command {
	var (
		watch   bool
		history bool
	)

	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Show your orders",
		Long: `Show your orders.

With --watch, the command stays connected and reprints an order
whenever its status or delivery changes.

Examples:
  kmato orders
  kmato orders --history
  kmato orders --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := loadClient()
			if err != nil {
				return err
			}
			defer client.Close()

			if !watch {
				if err := client.Orders.Refresh(cmd.Context()); err != nil {
					return err
				}
				list := client.Orders.Active()
				if history {
					list = client.Orders.History()
				}
				if len(list) == 0 {
					info("No orders.")
					return nil
				}
				for _, o := range list {
					printOrder(o)
				}
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := client.WatchOrders(ctx); err != nil {
				return err
			}
			for _, o := range client.Orders.Active() {
				printOrder(o)
			}
			info("Watching for updates. Ctrl-C to stop.")

			seen := map[int64]string{}
			ticker := time.NewTicker(500 * time.Millisecond)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					for _, o := range client.Orders.Orders() {
						key := string(o.Status)
						if o.Delivery != nil {
							key += "/" + string(o.Delivery.Status)
						}
						if seen[o.ID] != key {
							seen[o.ID] = key
							printOrder(o)
						}
					}
				}
			}
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Stay connected and show live updates")
	cmd.Flags().BoolVar(&history, "history", false, "Show delivered and cancelled orders")

	cmd.AddCommand(orderCancelCmd())

	return cmd
}

func orderCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <order-id>",
		Short: "Cancel an order that has not started preparing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid order id %q", args[0])
			}

			client, err := loadClient()
			if err != nil {
				return err
			}
			defer client.Close()

			if err := client.Orders.Cancel(cmd.Context(), id); err != nil {
				return err
			}
			success("Order #%d cancelled", id)
			return nil
		},
	}
}

func printOrder(o model.Order) {
	line := fmt.Sprintf("  #%-5d %-16s ₹%8.2f", o.ID, o.Status, o.TotalAmount)
	if o.RestaurantName != "" {
		line += "  " + o.RestaurantName
	}
	if o.Status.IsActive() {
		line += fmt.Sprintf("  ~%d min", orders.EstimatedMinutes(o))
	}
	if o.Delivery != nil {
		line += fmt.Sprintf("  [%s]", o.Delivery.Status)
	}
	fmt.Println(line)
}
