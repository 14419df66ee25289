// ABOUTME: Habit commands: create, list, pause, toggle, log and streaks
// ABOUTME: Enforces habit-type rules before commands reach the engine

package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tendril-app/tendril/internal/protocol"
)

func today() string {
	return time.Now().Format("2006-01-02")
}

// resolveDate accepts "" (today) or an explicit YYYY-MM-DD date.
func resolveDate(s string) (string, error) {
	if s == "" {
		return today(), nil
	}
	if !protocol.ValidDate(s) {
		return "", fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return s, nil
}

// parseScheduleSpec turns a compact schedule flag into schedule params.
// Accepted forms: "daily", "weekly:3", "days:0,3,5".
func parseScheduleSpec(spec, dueTime string) (*protocol.ScheduleParams, error) {
	switch {
	case spec == "daily":
		return &protocol.ScheduleParams{ScheduleType: protocol.ScheduleDaily, DueTime: dueTime}, nil

	case strings.HasPrefix(spec, "weekly:"):
		n, err := strconv.Atoi(strings.TrimPrefix(spec, "weekly:"))
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid weekly schedule %q, expected weekly:N with N >= 1", spec)
		}
		return &protocol.ScheduleParams{
			ScheduleType:   protocol.ScheduleWeeklyFlex,
			FrequencyCount: n,
			DueTime:        dueTime,
		}, nil

	case strings.HasPrefix(spec, "days:"):
		parts := strings.Split(strings.TrimPrefix(spec, "days:"), ",")
		days := make([]int, 0, len(parts))
		for _, p := range parts {
			d, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil || d < 0 || d > 6 {
				return nil, fmt.Errorf("invalid day %q in schedule, expected 0..6 (Sunday is 0)", p)
			}
			days = append(days, d)
		}
		return &protocol.ScheduleParams{
			ScheduleType: protocol.ScheduleSpecificDays,
			DaysOfWeek:   days,
			DueTime:      dueTime,
		}, nil
	}
	return nil, fmt.Errorf("invalid schedule %q, expected daily, weekly:N or days:0,3,5", spec)
}

func habitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "habit",
		Short: "Manage habits",
	}
	cmd.AddCommand(habitAddCmd())
	cmd.AddCommand(habitListCmd())
	cmd.AddCommand(habitArchiveCmd())
	cmd.AddCommand(habitPauseCmd())
	cmd.AddCommand(habitResumeCmd())
	cmd.AddCommand(habitPauseAllCmd())
	cmd.AddCommand(habitResumeAllCmd())
	cmd.AddCommand(habitDoneCmd())
	cmd.AddCommand(habitLogCmd())
	cmd.AddCommand(habitStreakCmd())
	cmd.AddCommand(habitScheduleCmd())
	cmd.AddCommand(habitRemindCmd())
	return cmd
}

func habitAddCmd() *cobra.Command {
	var (
		habitType string
		emoji     string
		colorHex  string
		target    float64
		unit      string
		tags      []string
		schedule  string
		dueTime   string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a habit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sched, err := parseScheduleSpec(schedule, dueTime)
			if err != nil {
				return err
			}

			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.shutdown()

			habit, err := sess.client.CreateHabit(cmd.Context(), &protocol.CreateHabitParams{
				Name:        args[0],
				Emoji:       emoji,
				Color:       colorHex,
				Type:        strings.ToUpper(habitType),
				TargetValue: target,
				Unit:        unit,
				Tags:        tags,
				Schedule:    *sched,
			})
			if err != nil {
				return err
			}

			fmt.Printf("created habit %s (%s)\n", color.GreenString(habit.Name), habit.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&habitType, "type", "t", protocol.HabitBoolean, "habit type: BOOLEAN, NUMERIC or LIMIT")
	cmd.Flags().StringVar(&emoji, "emoji", "", "display emoji")
	cmd.Flags().StringVar(&colorHex, "color", "", "display color (hex)")
	cmd.Flags().Float64Var(&target, "target", 0, "daily target (NUMERIC) or cap (LIMIT)")
	cmd.Flags().StringVar(&unit, "unit", "", "unit label for logged values")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tag (repeatable)")
	cmd.Flags().StringVar(&schedule, "schedule", "daily", "schedule: daily, weekly:N or days:0,3,5")
	cmd.Flags().StringVar(&dueTime, "due-time", "", "due time of day (HH:MM)")
	return cmd
}

func habitListCmd() *cobra.Command {
	var includeArchived bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List habits with today's status",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.shutdown()

			habits, err := sess.client.ListHabits(cmd.Context(), includeArchived)
			if err != nil {
				return err
			}
			if len(habits) == 0 {
				fmt.Println("no habits yet")
				return nil
			}

			date := today()
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tTYPE\tTODAY\tSTATE")
			for _, h := range habits {
				state := ""
				switch {
				case h.ArchivedAt != nil:
					state = "archived"
				case h.PausedUntil != nil && *h.PausedUntil >= date:
					state = "paused until " + *h.PausedUntil
				}

				todayCol := "-"
				done, err := sess.client.IsHabitDone(cmd.Context(), h.ID, date)
				if err == nil {
					if h.Type == protocol.HabitBoolean {
						if done {
							todayCol = color.GreenString("done")
						} else {
							todayCol = "open"
						}
					} else {
						total, terr := sess.client.DayTotal(cmd.Context(), h.ID, date)
						if terr == nil {
							todayCol = fmt.Sprintf("%g", total)
							if h.Unit != "" {
								todayCol += " " + h.Unit
							}
							if done {
								todayCol = color.GreenString(todayCol)
							}
						}
					}
				}

				name := h.Name
				if h.Emoji != "" {
					name = h.Emoji + " " + name
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", h.ID, name, h.Type, todayCol, state)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVarP(&includeArchived, "archived", "a", false, "include archived habits")
	return cmd
}

func habitArchiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archive <id>",
		Short: "Archive a habit (history is kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.shutdown()

			if err := sess.client.ArchiveHabit(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("archived")
			return nil
		},
	}
}

func habitPauseCmd() *cobra.Command {
	var until string

	cmd := &cobra.Command{
		Use:   "pause <id>",
		Short: "Pause a habit until a date (inclusive)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !protocol.ValidDate(until) {
				return fmt.Errorf("invalid --until date %q, expected YYYY-MM-DD", until)
			}

			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.shutdown()

			if err := sess.client.PauseHabit(cmd.Context(), args[0], until); err != nil {
				return err
			}
			fmt.Printf("paused until %s\n", until)
			return nil
		},
	}

	cmd.Flags().StringVar(&until, "until", "", "last paused date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("until")
	return cmd
}

func habitResumeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resume <id>",
		Short: "Resume a paused habit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.shutdown()

			if err := sess.client.ResumeHabit(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("resumed")
			return nil
		},
	}
}

func habitPauseAllCmd() *cobra.Command {
	var until string

	cmd := &cobra.Command{
		Use:   "pause-all",
		Short: "Pause every active habit until a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !protocol.ValidDate(until) {
				return fmt.Errorf("invalid --until date %q, expected YYYY-MM-DD", until)
			}

			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.shutdown()

			if err := sess.client.PauseAll(cmd.Context(), until); err != nil {
				return err
			}
			fmt.Printf("all habits paused until %s\n", until)
			return nil
		},
	}

	cmd.Flags().StringVar(&until, "until", "", "last paused date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("until")
	return cmd
}

func habitResumeAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resume-all",
		Short: "Resume every paused habit",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.shutdown()

			if err := sess.client.ResumeAll(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("all habits resumed")
			return nil
		},
	}
}

func habitDoneCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle a boolean habit's completion for a date",
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

			habit, err := sess.client.GetHabit(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			// Numeric habits track values, not checkmarks.
			if habit.Type != protocol.HabitBoolean {
				return fmt.Errorf("habit %q is %s; use 'tendril habit log' instead", habit.Name, habit.Type)
			}

			completed, err := sess.client.ToggleCompletion(cmd.Context(), args[0], d)
			if err != nil {
				return err
			}
			if completed {
				fmt.Printf("%s marked done for %s\n", habit.Name, d)
			} else {
				fmt.Printf("%s unmarked for %s\n", habit.Name, d)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "date (YYYY-MM-DD), defaults to today")
	return cmd
}

func habitLogCmd() *cobra.Command {
	var (
		date     string
		setTotal bool
	)

	cmd := &cobra.Command{
		Use:   "log <id> <value>",
		Short: "Log a value for a numeric or limit habit",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid value %q", args[1])
			}
			d, err := resolveDate(date)
			if err != nil {
				return err
			}

			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.shutdown()

			habit, err := sess.client.GetHabit(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if habit.Type == protocol.HabitBoolean {
				return fmt.Errorf("habit %q is BOOLEAN; use 'tendril habit done' instead", habit.Name)
			}

			if setTotal {
				if _, err := sess.client.SetLogTotal(cmd.Context(), args[0], d, value); err != nil {
					return err
				}
			} else {
				if _, err := sess.client.AddLog(cmd.Context(), args[0], d, value); err != nil {
					return err
				}
			}

			total, err := sess.client.DayTotal(cmd.Context(), args[0], d)
			if err != nil {
				return err
			}
			line := fmt.Sprintf("%s: %g", d, total)
			if habit.Unit != "" {
				line += " " + habit.Unit
			}
			if habit.TargetValue > 0 {
				line += fmt.Sprintf(" (target %g)", habit.TargetValue)
			}
			fmt.Println(line)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "date (YYYY-MM-DD), defaults to today")
	cmd.Flags().BoolVar(&setTotal, "set", false, "set the day's total instead of adding")
	return cmd
}

func habitStreakCmd() *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "streak <id>",
		Short: "Show the consecutive-day streak for a habit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := resolveDate(from)
			if err != nil {
				return err
			}

			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.shutdown()

			days, err := sess.client.Streak(cmd.Context(), args[0], d)
			if err != nil {
				return err
			}
			if days == 1 {
				fmt.Println("1 day")
			} else {
				fmt.Printf("%d days\n", days)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "count backwards from this date, defaults to today")
	return cmd
}

func habitScheduleCmd() *cobra.Command {
	var (
		schedule string
		dueTime  string
	)

	cmd := &cobra.Command{
		Use:   "schedule <id>",
		Short: "Show or replace a habit's schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.shutdown()

			if schedule == "" {
				s, err := sess.client.GetSchedule(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Println(describeSchedule(s))
				return nil
			}

			params, err := parseScheduleSpec(schedule, dueTime)
			if err != nil {
				return err
			}
			s, err := sess.client.ReplaceSchedule(cmd.Context(), args[0], params)
			if err != nil {
				return err
			}
			fmt.Printf("schedule replaced: %s\n", describeSchedule(s))
			return nil
		},
	}

	cmd.Flags().StringVar(&schedule, "set", "", "new schedule: daily, weekly:N or days:0,3,5")
	cmd.Flags().StringVar(&dueTime, "due-time", "", "due time of day (HH:MM)")
	return cmd
}

func describeSchedule(s *protocol.HabitSchedule) string {
	var desc string
	switch s.ScheduleType {
	case protocol.ScheduleDaily:
		desc = "every day"
	case protocol.ScheduleWeeklyFlex:
		desc = fmt.Sprintf("%d times per week", s.FrequencyCount)
	case protocol.ScheduleSpecificDays:
		names := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
		days := make([]string, 0, len(s.DaysOfWeek))
		for _, d := range s.DaysOfWeek {
			if d >= 0 && d < len(names) {
				days = append(days, names[d])
			}
		}
		desc = strings.Join(days, ", ")
	default:
		desc = s.ScheduleType
	}
	if s.DueTime != "" {
		desc += " at " + s.DueTime
	}
	return desc
}

func habitRemindCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Manage habit reminders",
	}

	var days []int
	addCmd := &cobra.Command{
		Use:   "add <habit-id> <time>",
		Short: "Add a reminder trigger (HH:MM)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.shutdown()

			r, err := sess.client.CreateReminder(cmd.Context(), &protocol.CreateReminderParams{
				HabitID:     args[0],
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
		Use:   "list <habit-id>",
		Short: "List reminders for a habit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.shutdown()

			reminders, err := sess.client.ListRemindersForHabit(cmd.Context(), args[0])
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

			if err := sess.client.DeleteReminder(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("deleted")
			return nil
		},
	})

	return cmd
}
