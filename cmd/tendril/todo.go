// ABOUTME: Todo commands: add, list, complete and archive tasks
// ABOUTME: Recurring todos advance their due date on completion

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

func todoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "todo",
		Short: "Manage todos",
	}
	cmd.AddCommand(todoAddCmd())
	cmd.AddCommand(todoListCmd())
	cmd.AddCommand(todoDoneCmd())
	cmd.AddCommand(todoArchiveCmd())
	return cmd
}

func todoAddCmd() *cobra.Command {
	var (
		notes      string
		due        string
		priority   string
		recurrence string
		bored      bool
		estimate   int
		categoryID string
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := &protocol.CreateTodoParams{
				Title:       args[0],
				Notes:       notes,
				Priority:    strings.ToUpper(priority),
				Recurrence:  strings.ToUpper(recurrence),
				ShowInBored: bored,
			}
			if due != "" {
				if !protocol.ValidDate(due) {
					return fmt.Errorf("invalid --due date %q, expected YYYY-MM-DD", due)
				}
				params.DueDate = &due
			}
			if cmd.Flags().Changed("estimate") {
				params.EstimateMinutes = &estimate
			}
			if categoryID != "" {
				params.CategoryID = &categoryID
			}

			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.shutdown()

			t, err := sess.client.CreateTodo(cmd.Context(), params)
			if err != nil {
				return err
			}
			fmt.Printf("created todo %s (%s)\n", color.GreenString(t.Title), t.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&notes, "notes", "", "freeform notes")
	cmd.Flags().StringVar(&due, "due", "", "due date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&priority, "priority", "p", protocol.PriorityMedium, "priority: LOW, MEDIUM or HIGH")
	cmd.Flags().StringVar(&recurrence, "recur", "", "recurrence: DAILY, WEEKLY or MONTHLY")
	cmd.Flags().BoolVar(&bored, "bored", false, "make eligible for oracle draws")
	cmd.Flags().IntVar(&estimate, "estimate", 0, "estimated minutes")
	cmd.Flags().StringVar(&categoryID, "category", "", "suggestion-pool category id")
	return cmd
}

func todoListCmd() *cobra.Command {
	var (
		includeDone     bool
		includeArchived bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List todos",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.shutdown()

			todos, err := sess.client.ListTodos(cmd.Context(), includeDone, includeArchived)
			if err != nil {
				return err
			}
			if len(todos) == 0 {
				fmt.Println("no todos")
				return nil
			}

			date := today()
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tPRIORITY\tDUE\tSTATE")
			for _, t := range todos {
				due := ""
				if t.DueDate != nil {
					due = *t.DueDate
					if t.DoneAt == nil && due < date {
						due = color.RedString(due + " (overdue)")
					}
				}
				state := ""
				switch {
				case t.ArchivedAt != nil:
					state = "archived"
				case t.DoneAt != nil:
					state = color.GreenString("done")
				case t.Recurrence != "":
					state = strings.ToLower(t.Recurrence)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", t.ID, t.Title, t.Priority, due, state)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&includeDone, "done", false, "include completed todos")
	cmd.Flags().BoolVarP(&includeArchived, "archived", "a", false, "include archived todos")
	return cmd
}

func todoDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Complete a todo (recurring todos roll their due date forward)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.shutdown()

			t, err := sess.client.CompleteTodo(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if t.Recurrence != "" && t.DoneAt == nil && t.DueDate != nil {
				fmt.Printf("%s: next due %s\n", t.Title, *t.DueDate)
			} else {
				fmt.Printf("%s done\n", t.Title)
			}
			return nil
		},
	}
}

func todoArchiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archive <id>",
		Short: "Archive a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.shutdown()

			if err := sess.client.ArchiveTodo(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("archived")
			return nil
		},
	}
}
