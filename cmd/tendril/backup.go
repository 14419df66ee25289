// ABOUTME: Export, import and journal commands built on the backup package
// ABOUTME: Sealed backups are passphrase-encrypted; journals render to HTML

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/tendril-app/tendril/internal/backup"
	"github.com/tendril-app/tendril/internal/protocol"
)

func exportCmd() *cobra.Command {
	var (
		out        string
		passphrase string
		tables     []string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export data to a backup file",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.shutdown()

			doc, err := sess.client.Export(cmd.Context(), tables)
			if err != nil {
				return err
			}

			path := out
			if path == "" {
				path = filepath.Join(sess.cfg.Backup.Dir, backup.DefaultFileName(time.Now()))
			}
			if err := backup.Write(path, doc, passphrase); err != nil {
				return err
			}

			if passphrase != "" {
				fmt.Printf("sealed backup written to %s\n", path)
			} else {
				fmt.Printf("backup written to %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output path, defaults to the configured backup dir")
	cmd.Flags().StringVar(&passphrase, "passphrase", "", "encrypt the backup with this passphrase")
	cmd.Flags().StringSliceVar(&tables, "table", nil, "table to export (repeatable); empty means all")
	return cmd
}

func importCmd() *cobra.Command {
	var (
		mode       string
		passphrase string
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import data from a backup file",
		Long: `Import a backup created by tendril export.

Merge mode upserts rows by id, keeping data the backup does not
mention. Replace mode clears each imported table first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if mode != protocol.ImportModeMerge && mode != protocol.ImportModeReplace {
				return fmt.Errorf("invalid --mode %q, expected merge or replace", mode)
			}

			doc, err := backup.Read(args[0], passphrase)
			if err != nil {
				return err
			}

			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.shutdown()

			result, err := sess.client.Import(cmd.Context(), doc, mode)
			if err != nil {
				return err
			}

			tables := make([]string, 0, len(result.Inserted))
			for t := range result.Inserted {
				tables = append(tables, t)
			}
			sort.Strings(tables)
			total := 0
			for _, t := range tables {
				n := result.Inserted[t]
				total += n
				if n > 0 {
					fmt.Printf("  %s: %d\n", t, n)
				}
			}
			fmt.Printf("imported %d rows (%s mode)\n", total, mode)
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", protocol.ImportModeMerge, "conflict policy: merge or replace")
	cmd.Flags().StringVar(&passphrase, "passphrase", "", "passphrase for sealed backups")
	return cmd
}

func journalCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Render daily entries and scribbles to a standalone HTML page",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.shutdown()

			doc, err := sess.client.Export(cmd.Context(), []string{"checkin_entries", "scribbles"})
			if err != nil {
				return err
			}

			html, err := backup.RenderJournal(doc)
			if err != nil {
				return err
			}

			if out == "" {
				_, err := os.Stdout.Write(html)
				return err
			}
			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(out, html, 0o644); err != nil {
				return err
			}
			fmt.Printf("journal written to %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file, defaults to stdout")
	return cmd
}
