package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	kmato "github.com/palanikalyan/K-MATO"
	"github.com/palanikalyan/K-MATO/internal/config"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╦╔═  ╔╦╗╔═╗╔╦╗╔═╗
  ╠╩╗──║║║╠═╣ ║ ║ ║
  ╩ ╩  ╩ ╩╩ ╩ ╩ ╚═╝
`

var verbose bool

func main() {
	rootCmd := &cobra.Command{
		Use:   "kmato",
		Short: "Order food from the terminal",
		Long: `K-MATO is a food delivery client.

Browse restaurants, fill a cart, place orders and follow their
delivery live. Your session, profile and cart persist locally
between runs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})))
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")

	rootCmd.AddCommand(
		loginCmd(),
		registerCmd(),
		logoutCmd(),
		whoamiCmd(),
		restaurantsCmd(),
		menuCmd(),
		cartCmd(),
		checkoutCmd(),
		ordersCmd(),
		mockCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

// loadClient wires a client from kmato.json (or defaults) in the working
// directory. Callers own Close.
func loadClient() (*kmato.Client, error) {
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		return nil, err
	}
	return kmato.New(cfg, kmato.WithLogger(slog.Default()))
}

func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
