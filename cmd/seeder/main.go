// cmd/seeder/main.go
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/unclebandit/walink-backend/internal/config"
	"github.com/unclebandit/walink-backend/internal/db"
)

// DemoOwnerID owns every row in seed/demo.sql.
const DemoOwnerID = "00000000-0000-0000-0000-000000000001"

var (
	baseDir      string
	demoEmail    string
	demoPassword string
)

var migrationFiles = []string{"migrations/001_init.sql"}

var seedFiles = []string{"seed/demo.sql"}

var rootCmd = &cobra.Command{
	Use:          "seeder",
	Short:        "Database migrations and demo data",
	SilenceUsage: true,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), func(ctx context.Context, conn *sql.DB) error {
			return execFiles(ctx, conn, baseDir, migrationFiles)
		})
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the demo user, templates and contacts",
	Long: `Insert the demo account and its data. Safe to run more than once.

The demo user signs in with --email and --password.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), func(ctx context.Context, conn *sql.DB) error {
			if err := seedUser(ctx, conn, demoEmail, demoPassword); err != nil {
				return err
			}
			return execFiles(ctx, conn, baseDir, seedFiles)
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseDir, "dir", ".", "directory holding migrations/ and seed/")
	seedCmd.Flags().StringVar(&demoEmail, "email", "demo@walink.local", "demo account email")
	seedCmd.Flags().StringVar(&demoPassword, "password", "demo1234", "demo account password")

	rootCmd.AddCommand(migrateCmd, seedCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func withDB(ctx context.Context, fn func(ctx context.Context, conn *sql.DB) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	conn, err := db.Open(ctx, cfg.Database.Postgres)
	if err != nil {
		return err
	}
	defer conn.Close()
	return fn(ctx, conn)
}

// execFiles runs each SQL file as one statement batch, in order.
func execFiles(ctx context.Context, conn *sql.DB, dir string, files []string) error {
	for _, file := range files {
		content, err := os.ReadFile(filepath.Join(dir, file))
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}

		if _, err := conn.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("failed to execute %s: %w", file, err)
		}
		fmt.Printf("✅ Applied: %s\n", file)
	}
	return nil
}

func seedUser(ctx context.Context, conn *sql.DB, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = conn.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash) VALUES ($1, $2, $3) ON CONFLICT (id) DO NOTHING`,
		DemoOwnerID, email, string(hash))
	if err != nil {
		return fmt.Errorf("failed to create demo user: %w", err)
	}
	fmt.Printf("👤 Demo user: %s\n", email)
	return nil
}
