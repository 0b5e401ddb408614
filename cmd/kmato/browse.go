package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/palanikalyan/K-MATO/pkg/model"
)

func restaurantsCmd() *cobra.Command {
	var city string

	cmd := &cobra.Command{
		Use:   "restaurants",
		Short: "List restaurants",
		Long: `List restaurants, optionally filtered by city.

Examples:
  kmato restaurants
  kmato restaurants --city Chennai`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := loadClient()
			if err != nil {
				return err
			}
			defer client.Close()

			var restaurants []model.Restaurant
			if city != "" {
				restaurants, err = client.API.RestaurantsByCity(cmd.Context(), city)
			} else {
				restaurants, err = client.API.Restaurants(cmd.Context())
			}
			if err != nil {
				return err
			}
			if len(restaurants) == 0 {
				warn("No restaurants found.")
				return nil
			}

			for _, r := range restaurants {
				open := "open"
				if !r.IsOpen {
					open = "closed"
				}
				fmt.Printf("  %4d  %-24s %-12s %.1f★  %s\n", r.ID, r.Name, r.City, r.Rating, open)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&city, "city", "", "Only restaurants in this city")

	return cmd
}

func menuCmd() *cobra.Command {
	var vegOnly bool

	cmd := &cobra.Command{
		Use:   "menu <restaurant-id>",
		Short: "Show a restaurant's menu",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid restaurant id %q", args[0])
			}

			client, err := loadClient()
			if err != nil {
				return err
			}
			defer client.Close()

			items, err := client.API.MenuByRestaurant(cmd.Context(), id)
			if err != nil {
				return err
			}

			for _, item := range items {
				if vegOnly && !item.IsVegetarian {
					continue
				}
				mark := " "
				if !item.IsAvailable {
					mark = "✗"
				}
				fmt.Printf("  %4d  %-24s ₹%7.2f  %-10s %s\n", item.ID, item.Name, item.Price, item.Category, mark)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&vegOnly, "veg", false, "Only vegetarian items")

	return cmd
}
