// ABOUTME: Check-in commands: templates, questions, answers and daily entries
// ABOUTME: The fill command walks a template's questions interactively

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tendril-app/tendril/internal/protocol"
)

func checkinCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkin",
		Short: "Daily check-ins",
	}
	cmd.AddCommand(checkinTemplateCmd())
	cmd.AddCommand(checkinQuestionCmd())
	cmd.AddCommand(checkinFillCmd())
	cmd.AddCommand(checkinEntryCmd())
	cmd.AddCommand(checkinShowCmd())
	cmd.AddCommand(checkinRemindCmd())
	return cmd
}

func checkinRemindCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Manage check-in reminders",
	}

	var days []int
	addCmd := &cobra.Command{
		Use:   "add <template-id> <time>",
		Short: "Add a reminder trigger (HH:MM)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.shutdown()

			r, err := sess.client.CreateCheckinReminder(cmd.Context(), &protocol.CreateCheckinReminderParams{
				TemplateID:  args[0],
				TriggerTime: args[1],
				DaysActive:  days,
			})
			if err != nil {
				return err
			}
			fmt.Printf("reminder %s set for %s\n", r.ID, r.TriggerTime)
			return nil
		},
	}
	addCmd.Flags().IntSliceVar(&days, "day", nil, "active day 0..6 (repeatable, Sunday is 0); empty means every day")
	cmd.AddCommand(addCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "list <template-id>",
		Short: "List reminders for a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.shutdown()

			reminders, err := sess.client.ListCheckinReminders(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(reminders) == 0 {
				fmt.Println("no reminders")
				return nil
			}
			for _, r := range reminders {
				line := fmt.Sprintf("%s  %s", r.ID, r.TriggerTime)
				if len(r.DaysActive) > 0 {
					line += fmt.Sprintf("  days=%v", r.DaysActive)
				}
				fmt.Println(line)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rm <reminder-id>",
		Short: "Delete a reminder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.shutdown()

			if err := sess.client.DeleteCheckinReminder(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("deleted")
			return nil
		},
	})

	return cmd
}

func checkinTemplateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Manage check-in templates",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Create a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.shutdown()

			t, err := sess.client.CreateCheckinTemplate(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("created template %s (%s)\n", t.Name, t.ID)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.shutdown()

			templates, err := sess.client.ListCheckinTemplates(cmd.Context())
			if err != nil {
				return err
			}
			if len(templates) == 0 {
				fmt.Println("no templates")
				return nil
			}
			for _, t := range templates {
				line := fmt.Sprintf("%s  %s", t.ID, t.Name)
				if t.ArchivedAt != nil {
					line += "  (archived)"
				}
				fmt.Println(line)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a template",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.shutdown()

			if err := sess.client.RenameCheckinTemplate(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Println("renamed")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "archive <id>",
		Short: "Archive a template (answers are kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.shutdown()

			if err := sess.client.ArchiveCheckinTemplate(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("archived")
			return nil
		},
	})

	return cmd
}

func checkinQuestionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "question",
		Short: "Manage template questions",
	}

	var position int
	addCmd := &cobra.Command{
		Use:   "add <template-id> <prompt>",
		Short: "Add a question to a template",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.shutdown()

			q, err := sess.client.CreateCheckinQuestion(cmd.Context(), &protocol.CreateQuestionParams{
				TemplateID: args[0],
				Prompt:     args[1],
				Position:   position,
			})
			if err != nil {
				return err
			}
			fmt.Printf("added question %s at position %d\n", q.ID, q.Position)
			return nil
		},
	}
	addCmd.Flags().IntVar(&position, "position", 0, "sort position within the template")
	cmd.AddCommand(addCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "list <template-id>",
		Short: "List a template's questions in order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.shutdown()

			questions, err := sess.client.ListCheckinQuestions(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(questions) == 0 {
				fmt.Println("no questions")
				return nil
			}
			for _, q := range questions {
				fmt.Printf("%s  [%d] %s\n", q.ID, q.Position, q.Prompt)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rm <question-id>",
		Short: "Delete a question and its answers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.shutdown()

			if err := sess.client.DeleteCheckinQuestion(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("deleted")
			return nil
		},
	})

	return cmd
}

func checkinFillCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "fill <template-id>",
		Short: "Answer a template's questions for a date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := resolveDate(date)
			if err != nil {
				return err
			}

			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.shutdown()

			questions, err := sess.client.ListCheckinQuestions(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(questions) == 0 {
				fmt.Println("template has no questions")
				return nil
			}

			reader := bufio.NewReader(os.Stdin)
			answered := 0
			for _, q := range questions {
				fmt.Printf("%s ", color.CyanString(q.Prompt))
				line, err := reader.ReadString('\n')
				if err != nil {
					break
				}
				answer := strings.TrimSpace(line)
				// Empty answer skips the question, keeping any earlier response.
				if answer == "" {
					continue
				}
				if _, err := sess.client.UpsertCheckinResponse(cmd.Context(), &protocol.UpsertResponseParams{
					QuestionID: q.ID,
					Date:       d,
					Response:   answer,
				}); err != nil {
					return err
				}
				answered++
			}
			fmt.Printf("recorded %d of %d answers for %s\n", answered, len(questions), d)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "date (YYYY-MM-DD), defaults to today")
	return cmd
}

func checkinEntryCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "entry <body>",
		Short: "Write the free-text daily entry (replaces any earlier one)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := resolveDate(date)
			if err != nil {
				return err
			}

			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.shutdown()

			e, err := sess.client.UpsertCheckinEntry(cmd.Context(), d, strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Printf("entry saved for %s\n", e.Date)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "date (YYYY-MM-DD), defaults to today")
	return cmd
}

func checkinShowCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a date's entry and recorded answers",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := resolveDate(date)
			if err != nil {
				return err
			}

			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.shutdown()

			entry, err := sess.client.GetCheckinEntry(cmd.Context(), d)
			if err == nil && entry != nil {
				fmt.Println(entry.Body)
				fmt.Println()
			}

			responses, err := sess.client.ListCheckinResponsesForDate(cmd.Context(), d)
			if err != nil {
				return err
			}
			for _, r := range responses {
				fmt.Printf("%s: %s\n", r.QuestionID, r.Response)
			}
			if entry == nil && len(responses) == 0 {
				fmt.Printf("nothing recorded for %s\n", d)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "date (YYYY-MM-DD), defaults to today")
	return cmd
}
