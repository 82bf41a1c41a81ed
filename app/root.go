// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cancha-admin",
	Short: "cancha-admin is a web-based management console for the Cancha platform",
	Long: `cancha-admin is a web-based management console for the Cancha
sports-venue reservation platform. It provides role-gated screens for
administrators, athletes, companies, venues, reservations and payments,
all backed by the remote Cancha REST API.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
