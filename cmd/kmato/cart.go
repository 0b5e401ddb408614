package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/palanikalyan/K-MATO/pkg/model"
)

func cartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage the pending order",
		Long: `Manage the cart. The cart persists locally, so it survives
between runs and is still there after you sign out.

Examples:
  kmato cart add 11 --qty 2
  kmato cart show
  kmato cart set 11 3
  kmato cart rm 11
  kmato cart clear`,
	}

	cmd.AddCommand(
		cartAddCmd(),
		cartShowCmd(),
		cartSetCmd(),
		cartRemoveCmd(),
		cartClearCmd(),
	)

	return cmd
}

func cartAddCmd() *cobra.Command {
	var qty int

	cmd := &cobra.Command{
		Use:   "add <menu-item-id>",
		Short: "Add a menu item to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid menu item id %q", args[0])
			}

			client, err := loadClient()
			if err != nil {
				return err
			}
			defer client.Close()

			item, err := client.API.MenuItemByID(cmd.Context(), id)
			if err != nil {
				return err
			}

			client.Cart.AddItem(model.CartLine{
				ID:           item.ID,
				Name:         item.Name,
				Price:        item.Price,
				Category:     item.Category,
				RestaurantID: item.RestaurantID,
			}, qty)
			success("Added %s ×%d", item.Name, max(qty, 1))
			return nil
		},
	}

	cmd.Flags().IntVarP(&qty, "qty", "q", 1, "Quantity to add")

	return cmd
}

func cartShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the cart and the checkout total",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := loadClient()
			if err != nil {
				return err
			}
			defer client.Close()

			items := client.Cart.Items()
			if len(items) == 0 {
				info("The cart is empty.")
				return nil
			}

			for _, line := range items {
				qty := max(line.Quantity, 1)
				fmt.Printf("  %4d  %-24s ×%-3d ₹%8.2f\n", line.ID, line.Name, qty, line.Price*float64(qty))
			}
			fmt.Println()

			q := client.Checkout.Quote()
			info("Subtotal      ₹%8.2f", q.Subtotal)
			info("Delivery fee  ₹%8.2f", q.DeliveryFee)
			info("Platform fee  ₹%8.2f", q.PlatformFee)
			info("GST           ₹%8.2f", q.Tax)
			info("Total         ₹%8.2f", q.GrandTotal)
			return nil
		},
	}
}

func cartSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <menu-item-id> <qty>",
		Short: "Set a cart line's quantity (0 removes it)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid menu item id %q", args[0])
			}
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}

			client, err := loadClient()
			if err != nil {
				return err
			}
			defer client.Close()

			client.Cart.UpdateQuantity(id, qty)
			success("Updated")
			return nil
		},
	}
}

func cartRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <menu-item-id>",
		Aliases: []string{"remove"},
		Short:   "Remove a line from the cart",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid menu item id %q", args[0])
			}

			client, err := loadClient()
			if err != nil {
				return err
			}
			defer client.Close()

			client.Cart.RemoveItem(id)
			success("Removed")
			return nil
		},
	}
}

func cartClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := loadClient()
			if err != nil {
				return err
			}
			defer client.Close()

			client.Cart.Clear()
			success("Cart cleared")
			return nil
		},
	}
}
