// ABOUTME: Scribble commands: capture, list, show and delete freeform notes
// ABOUTME: Bodies are markdown; the journal export renders them to HTML

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tendril-app/tendril/internal/protocol"
)

func scribbleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "scribble",
		Aliases: []string{"note"},
		Short:   "Capture freeform notes",
	}
	cmd.AddCommand(scribbleAddCmd())
	cmd.AddCommand(scribbleListCmd())
	cmd.AddCommand(scribbleShowCmd())
	cmd.AddCommand(scribbleRmCmd())
	return cmd
}

func scribbleAddCmd() *cobra.Command {
	var tags []string

	cmd := &cobra.Command{
		Use:   "add <body>",
		Short: "Add a scribble",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.shutdown()

			s, err := sess.client.CreateScribble(cmd.Context(), &protocol.CreateScribbleParams{
				Body: strings.Join(args, " "),
				Tags: tags,
			})
			if err != nil {
				return err
			}
			fmt.Printf("saved scribble %s\n", s.ID)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tag (repeatable)")
	return cmd
}

func scribbleListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List scribbles, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.shutdown()

			scribbles, err := sess.client.ListScribbles(cmd.Context())
			if err != nil {
				return err
			}
			if len(scribbles) == 0 {
				fmt.Println("no scribbles")
				return nil
			}
			for _, s := range scribbles {
				preview := s.Body
				if i := strings.IndexByte(preview, '\n'); i >= 0 {
					preview = preview[:i]
				}
				if len(preview) > 72 {
					preview = preview[:72] + "…"
				}
				line := fmt.Sprintf("%s  %s", s.ID, preview)
				if len(s.Tags) > 0 {
					line += "  [" + strings.Join(s.Tags, ", ") + "]"
				}
				fmt.Println(line)
			}
			return nil
		},
	}
}

func scribbleShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a scribble's full body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.shutdown()

			s, err := sess.client.GetScribble(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Println(s.Body)
			if len(s.Tags) > 0 {
				fmt.Printf("\ntags: %s\n", strings.Join(s.Tags, ", "))
			}
			return nil
		},
	}
}

func scribbleRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a scribble",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.shutdown()

			if err := sess.client.DeleteScribble(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("deleted")
			return nil
		},
	}
}
