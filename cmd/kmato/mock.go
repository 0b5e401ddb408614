package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/palanikalyan/K-MATO/internal/mockapi"
	"github.com/palanikalyan/K-MATO/pkg/model"
)

func mockCmd() *cobra.Command {
	var (
		addr   string
		demo   bool
		period time.Duration
	)

	cmd := &cobra.Command{
		Use:   "mock",
		Short: "Run a local mock backend",
		Long: `Run an in-process mock of the K-MATO backend for offline use.

It serves the whole REST surface seeded with a few restaurants and
the demo@kmato.app / password account, plus the order-update
websocket. With --demo, pending orders are walked through the
delivery lifecycle automatically so 'kmato orders --watch' has
something to show.

Examples:
  kmato mock
  kmato mock --addr :9090 --demo`,
		RunE: func(cmd *cobra.Command, args []string) error {
			backend := mockapi.New(slog.Default())

			if demo {
				go runDemoDriver(backend, period)
			}

			printBanner()
			info("Mock backend on http://localhost%s/api", addr)
			info("Websocket on ws://localhost%s/ws/orders", addr)
			info("Sign in with demo@kmato.app / password")
			fmt.Println()
			return http.ListenAndServe(addr, backend.Handler())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().BoolVar(&demo, "demo", false, "Advance orders through the lifecycle automatically")
	cmd.Flags().DurationVar(&period, "period", 5*time.Second, "Delay between demo lifecycle steps")

	return cmd
}

// runDemoDriver periodically advances every active order one lifecycle step
// and pushes the matching live updates.
func runDemoDriver(backend *mockapi.Server, period time.Duration) {
	next := map[model.OrderStatus]model.OrderStatus{
		model.StatusPending:        model.StatusConfirmed,
		model.StatusConfirmed:      model.StatusPreparing,
		model.StatusPreparing:      model.StatusOutForDelivery,
		model.StatusOutForDelivery: model.StatusDelivered,
	}
	deliveryFor := map[model.OrderStatus]model.DeliveryStatus{
		model.StatusConfirmed:      model.DeliveryScheduled,
		model.StatusPreparing:      model.DeliveryScheduled,
		model.StatusOutForDelivery: model.DeliveryInTransit,
		model.StatusDelivered:      model.DeliveryDelivered,
	}

	for range time.Tick(period) {
		for _, o := range backend.Orders() {
			status, found := next[o.Status]
			if !found {
				continue
			}
			backend.PushOrderUpdate(o.ID, status)
			if ds, found := deliveryFor[status]; found {
				backend.PushDeliveryUpdate(model.Delivery{
					OrderID:        o.ID,
					Status:         ds,
					AssignedDriver: "Demo Driver",
					EtaSeconds:     int(3 * period / time.Second),
				})
			}
		}
	}
}
