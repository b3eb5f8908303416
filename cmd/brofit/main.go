package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "brofit",
	Short: "BroFit — Gym membership & class booking API",
	Long:  "BroFit is an HTTP API for a gym: account registration and login, membership plan purchase and cancellation, class browsing, and class bookings with capacity enforcement.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: configs/brofit.yaml)")
}

func main() {
	// Optional .env for local development; missing file is fine.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
