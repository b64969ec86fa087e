package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/troophq/packtrack/internal/config"
	"github.com/troophq/packtrack/internal/db"
	"github.com/troophq/packtrack/internal/logger"
	"github.com/troophq/packtrack/internal/server"
)

// Version is set via ldflags at build time
var Version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "packtrack",
		Short: "PackTrack - scout gear inventory server",
		Long: `PackTrack tracks storage boxes, their contents, campout packing
profiles and reusable item templates, and serves both the REST API and the
browser client.

Examples:
  # Start the server
  packtrack serve

  # Start on a specific port
  packtrack serve --port 8080

  # Create the first admin account
  packtrack create-admin quartermaster qm@troop.example s3cret-pass`,
	}

	root.AddCommand(serveCmd(), createAdminCmd(), versionCmd())
	return root
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return server.RunWithSignalHandling(server.Options{
				Port:    port,
				Version: Version,
			})
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "Port to run the server on (overrides config)")
	return cmd
}

func createAdminCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create-admin <username> <email> <password>",
		Short: "Create an admin user",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			username, email, password := args[0], args[1], args[2]

			cfg, err := config.Load()
			if err != nil {
				log.Fatal(err)
			}

			logger.Init(cfg.Log.Format, cfg.Log.Level)

			database, err := db.New(cfg.Database)
			if err != nil {
				log.Fatal(err)
			}

			// Run migrations to ensure tables exist
			if err := db.Migrate(database); err != nil {
				log.Fatal(err)
			}

			if err := db.CreateAdmin(database, username, email, password); err != nil {
				log.Fatal(err)
			}

			fmt.Printf("Admin user %q created.\n", username)
			fmt.Printf("\nYou can now login with:\n")
			fmt.Printf("  curl -X POST http://localhost:%d/api/auth/login \\\n", cfg.Server.Port)
			fmt.Printf("    -H \"Content-Type: application/json\" \\\n")
			fmt.Printf("    -d '{\"username\": \"%s\", \"password\": \"...\"}'\n", username)
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(Version)
		},
	}
}
