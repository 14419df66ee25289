// ABOUTME: Bored oracle commands: categories, activities and random draws
// ABOUTME: Draw filters honor user prefs unless flags override them

package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tendril-app/tendril/internal/protocol"
)

func boredCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bored",
		Aliases: []string{"oracle"},
		Short:   "Suggestion pool for when you don't know what to do",
	}
	cmd.AddCommand(boredDrawCmd())
	cmd.AddCommand(boredCategoryCmd())
	cmd.AddCommand(boredActivityCmd())
	return cmd
}

func boredDrawCmd() *cobra.Command {
	var (
		maxMinutes int
		exclude    []string
	)

	cmd := &cobra.Command{
		Use:   "draw",
		Short: "Draw a random suggestion",
		RunE: func(cmd *cobra.Command, args []string) error {
			prefs, err := loadPrefs()
			if err != nil {
				return err
			}

			params := &protocol.DrawParams{
				ExcludedCategoryIDs: prefs.Oracle.ExcludedCategories,
			}
			if len(exclude) > 0 {
				params.ExcludedCategoryIDs = exclude
			}
			switch {
			case cmd.Flags().Changed("max"):
				params.MaxMinutes = &maxMinutes
			case prefs.Oracle.MaxMinutes > 0:
				m := prefs.Oracle.MaxMinutes
				params.MaxMinutes = &m
			}

			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.shutdown()

			result, err := sess.client.Draw(cmd.Context(), params)
			if err != nil {
				return err
			}

			switch {
			case result.Activity != nil:
				a := result.Activity
				line := color.GreenString(a.Title)
				if a.EstimateMinutes != nil {
					line += fmt.Sprintf(" (~%d min)", *a.EstimateMinutes)
				}
				fmt.Println(line)
				fmt.Printf("mark it done with: tendril bored activity done %s\n", a.ID)
			case result.Todo != nil:
				t := result.Todo
				line := color.GreenString(t.Title)
				if t.EstimateMinutes != nil {
					line += fmt.Sprintf(" (~%d min)", *t.EstimateMinutes)
				}
				fmt.Println(line)
				fmt.Printf("mark it done with: tendril todo done %s\n", t.ID)
			default:
				fmt.Println("nothing in the pool matches; relax the filters or add activities")
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&maxMinutes, "max", 0, "only suggestions up to this many minutes")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "category id to skip (repeatable, overrides prefs)")
	return cmd
}

func boredCategoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Manage suggestion categories",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.shutdown()

			c, err := sess.client.CreateBoredCategory(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("created category %s (%s)\n", c.Name, c.ID)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.shutdown()

			categories, err := sess.client.ListBoredCategories(cmd.Context())
			if err != nil {
				return err
			}
			if len(categories) == 0 {
				fmt.Println("no categories")
				return nil
			}
			for _, c := range categories {
				line := fmt.Sprintf("%s  %s", c.ID, c.Name)
				if c.ArchivedAt != nil {
					line += "  (archived)"
				}
				fmt.Println(line)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.shutdown()

			if err := sess.client.RenameBoredCategory(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Println("renamed")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "archive <id>",
		Short: "Archive a category and hide its activities from draws",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.shutdown()

			if err := sess.client.ArchiveBoredCategory(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("archived")
			return nil
		},
	})

	return cmd
}

func boredActivityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Manage suggestion-pool activities",
	}

	var (
		estimate  int
		recurring bool
	)
	addCmd := &cobra.Command{
		Use:   "add <category-id> <title>",
		Short: "Add an activity to a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := &protocol.CreateActivityParams{
				CategoryID: args[0],
				Title:      args[1],
				Recurring:  recurring,
			}
			if cmd.Flags().Changed("estimate") {
				params.EstimateMinutes = &estimate
			}

			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.shutdown()

			a, err := sess.client.CreateBoredActivity(cmd.Context(), params)
			if err != nil {
				return err
			}
			fmt.Printf("added activity %s (%s)\n", a.Title, a.ID)
			return nil
		},
	}
	addCmd.Flags().IntVar(&estimate, "estimate", 0, "estimated minutes")
	addCmd.Flags().BoolVar(&recurring, "recurring", false, "flag the activity as repeatable")
	cmd.AddCommand(addCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List activities",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.shutdown()

			activities, err := sess.client.ListBoredActivities(cmd.Context())
			if err != nil {
				return err
			}
			if len(activities) == 0 {
				fmt.Println("no activities")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tCATEGORY\tESTIMATE\tDONE\tFLAGS")
			for _, a := range activities {
				estimateCol := ""
				if a.EstimateMinutes != nil {
					estimateCol = fmt.Sprintf("%d min", *a.EstimateMinutes)
				}
				var flags []string
				if a.Recurring {
					flags = append(flags, "recurring")
				}
				if a.IsDone {
					flags = append(flags, "done")
				}
				if a.ArchivedAt != nil {
					flags = append(flags, "archived")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
					a.ID, a.Title, a.CategoryID, estimateCol, a.DoneCount, strings.Join(flags, ","))
			}
			return w.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "done <id>",
		Short: "Mark an activity done and drop it from the pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.shutdown()

			a, err := sess.client.MarkActivityDone(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s done %d time(s)\n", a.Title, a.DoneCount)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "archive <id>",
		Short: "Archive an activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.shutdown()

			if err := sess.client.ArchiveBoredActivity(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("archived")
			return nil
		},
	})

	return cmd
}
