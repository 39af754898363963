package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	_ "github.com/splatmarket/splatmarket/database/migrations"
	"github.com/splatmarket/splatmarket/database/seeders"
	"github.com/splatmarket/splatmarket/internal/server"
	"github.com/splatmarket/splatmarket/pkg/database"
	"github.com/splatmarket/splatmarket/pkg/migration"
)

func main() {
	root := &cobra.Command{
		Use:   "splatmarket",
		Short: "3D model marketplace backend",
	}

	root.AddCommand(
		serveCmd(),
		migrateCmd(),
		rollbackCmd(),
		statusCmd(),
		seedCmd(),
		routeListCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, websocket relay and gRPC health sidecar",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv, err := server.New(ctx)
			if err != nil {
				return err
			}
			return srv.Run(ctx)
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := database.Connect(); err != nil {
				return err
			}

			ran, err := migration.Run(database.DB)
			if err != nil {
				return err
			}
			if len(ran) == 0 {
				cmd.Println("nothing to migrate")
				return nil
			}
			for _, name := range ran {
				cmd.Println("migrated:", name)
			}
			return nil
		},
	}
}

func rollbackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate:rollback",
		Short: "Revert the last migration batch",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := database.Connect(); err != nil {
				return err
			}

			reverted, err := migration.Rollback(database.DB)
			if err != nil {
				return err
			}
			if len(reverted) == 0 {
				cmd.Println("nothing to roll back")
				return nil
			}
			for _, name := range reverted {
				cmd.Println("rolled back:", name)
			}
			return nil
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate:status",
		Short: "Show applied and pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := database.Connect(); err != nil {
				return err
			}

			statuses, err := migration.StatusAll(database.DB)
			if err != nil {
				return err
			}
			for _, st := range statuses {
				if st.Applied {
					cmd.Printf("[x] %s (batch %d)\n", st.Name, st.Batch)
				} else {
					cmd.Printf("[ ] %s\n", st.Name)
				}
			}
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the database with demo records",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := database.Connect(); err != nil {
				return err
			}

			ran, err := seeders.RunAll(database.DB)
			if err != nil {
				return err
			}
			for _, name := range ran {
				cmd.Println("seeded:", name)
			}
			return nil
		},
	}
}

func routeListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "route:list",
		Short: "List registered routes",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := server.New(cmd.Context())
			if err != nil {
				return err
			}

			for _, ri := range srv.Router.Routes() {
				cmd.Printf("%-7s %-45s %s\n", ri.Method, ri.Path, ri.Name)
			}
			return nil
		},
	}
}
