package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newProfileCmd(app *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show the signed-in teacher",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			teacher, err := app.bridge.RequireTeacher(cmd.Context())
			if err != nil {
				return fmt.Errorf("%w: run \"aita login\" first", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Name:    %s\n", teacher.Name)
			fmt.Fprintf(out, "Email:   %s\n", teacher.Email)
			if teacher.Picture != "" {
				fmt.Fprintf(out, "Picture: %s\n", teacher.Picture)
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set-name <name>",
		Short: "Change the display name; email and picture are kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireTeacher(cmd); err != nil {
				return err
			}
			teacher, err := app.bridge.UpdateName(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Profile updated: %s\n", teacher.Name)
			return nil
		},
	})

	return cmd
}
