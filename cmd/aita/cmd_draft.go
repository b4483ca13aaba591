package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newDraftCmd(app *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Manage the essay draft used when analyze gets no text",
	}

	var file string
	set := &cobra.Command{
		Use:   "set [text...]",
		Short: "Replace the draft with text or a file's contents",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireTeacher(cmd); err != nil {
				return err
			}
			text := strings.Join(args, " ")
			if file != "" {
				loaded, err := readEssayFile(file)
				if err != nil {
					return err
				}
				text = loaded
			}
			app.local.SetDraft(cmd.Context(), text)
			warnIfLong(app, text)
			fmt.Fprintf(cmd.OutOrStdout(), "Draft saved (%d characters).\n", charCount(text))
			return nil
		},
	}
	set.Flags().StringVar(&file, "file", "", "plain-text file to load")

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the draft",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireTeacher(cmd); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), app.local.Draft(cmd.Context()))
			return nil
		},
	}

	clear := &cobra.Command{
		Use:   "clear",
		Short: "Discard the draft",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireTeacher(cmd); err != nil {
				return err
			}
			app.local.SetDraft(cmd.Context(), "")
			fmt.Fprintln(cmd.OutOrStdout(), "Draft cleared.")
			return nil
		},
	}

	cmd.AddCommand(set, show, clear)
	return cmd
}
