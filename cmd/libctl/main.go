package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/geocoder89/libraryhub/internal/config"
	"github.com/geocoder89/libraryhub/internal/db"
	"github.com/geocoder89/libraryhub/internal/domain/book"
	"github.com/geocoder89/libraryhub/internal/repo/postgres"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "libctl",
		Short:         "Admin tooling for the library catalogue",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(importBooksCmd())
	root.AddCommand(seedLibrarianCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func importBooksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-books <file.json>",
		Short: "Bulk insert books from a JSON array",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(filepath.Clean(args[0]))
			if err != nil {
				return err
			}

			var reqs []book.CreateBookRequest

			err = json.Unmarshal(raw, &reqs)
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}

			cfg := config.Load()

			pool, err := db.NewPool(cfg.DBURL)
			if err != nil {
				return err
			}
			defer pool.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			err = db.EnsureSchema(ctx, pool)
			if err != nil {
				return err
			}

			books := postgres.NewBooksRepo(pool, nil)

			imported := 0
			failed := 0

			for _, req := range reqs {
				b, err := books.Create(ctx, req)
				if err != nil {
					fmt.Fprintf(os.Stderr, "skipping %q: %v\n", req.Title, err)
					failed++
					continue
				}

				fmt.Printf("imported %q by %s (id %d)\n", b.Title, b.Author, b.ID)
				imported++
			}

			fmt.Printf("\nImport complete: %d imported, %d failed\n", imported, failed)
			return nil
		},
	}
}

func seedLibrarianCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-librarian",
		Short: "Create the librarian account from LIBRARIAN_EMAIL / LIBRARIAN_PASSWORD",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()

			if cfg.LibrarianEmail == "" || cfg.LibrarianPassword == "" {
				return fmt.Errorf("LIBRARIAN_EMAIL and LIBRARIAN_PASSWORD must be set")
			}

			pool, err := db.NewPool(cfg.DBURL)
			if err != nil {
				return err
			}
			defer pool.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			err = db.EnsureSchema(ctx, pool)
			if err != nil {
				return err
			}

			err = db.EnsureLibrarianUser(ctx, pool, cfg)
			if err != nil {
				return err
			}

			fmt.Printf("librarian account ready: %s\n", cfg.LibrarianEmail)
			return nil
		},
	}
}
