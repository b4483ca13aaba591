package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var settingNames = []string{"theme", "accent", "model", "api-key"}

func newSettingsCmd(app *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Read and change preferences",
	}

	get := &cobra.Command{
		Use:       "get [name]",
		Short:     "Print one setting or all of them",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: settingNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireTeacher(cmd); err != nil {
				return err
			}

			names := settingNames
			if len(args) == 1 {
				names = args
			}
			for _, name := range names {
				value, err := app.setting(cmd, name)
				if err != nil {
					return err
				}
				if len(args) == 1 {
					fmt.Fprintln(cmd.OutOrStdout(), value)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", name, value)
				}
			}
			return nil
		},
	}

	set := &cobra.Command{
		Use:       "set <name> <value>",
		Short:     "Change a setting; an empty api-key removes it",
		Args:      cobra.ExactArgs(2),
		ValidArgs: settingNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireTeacher(cmd); err != nil {
				return err
			}

			ctx := cmd.Context()
			name, value := args[0], strings.TrimSpace(args[1])
			switch name {
			case "theme":
				if value != "light" && value != "dark" {
					return fmt.Errorf("theme must be light or dark")
				}
				app.local.SetTheme(ctx, value)
			case "accent":
				app.local.SetAccent(ctx, value)
			case "model":
				app.local.SetModel(ctx, value)
			case "api-key":
				if value == "" {
					app.local.ClearCredential(ctx)
				} else {
					app.local.SaveCredential(ctx, value)
				}
			default:
				return fmt.Errorf("unknown setting %q (want one of %s)", name, strings.Join(settingNames, ", "))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s updated.\n", name)
			return nil
		},
	}

	cmd.AddCommand(get, set)
	return cmd
}

func (a *cli) setting(cmd *cobra.Command, name string) (string, error) {
	ctx := cmd.Context()
	switch name {
	case "theme":
		return a.local.Theme(ctx), nil
	case "accent":
		return a.local.Accent(ctx), nil
	case "model":
		return a.local.Model(ctx), nil
	case "api-key":
		return maskCredential(a.local.Credential(ctx)), nil
	default:
		return "", fmt.Errorf("unknown setting %q (want one of %s)", name, strings.Join(settingNames, ", "))
	}
}

func maskCredential(credential string) string {
	if credential == "" {
		return "(not set)"
	}
	if len(credential) <= 8 {
		return strings.Repeat("*", len(credential))
	}
	return credential[:3] + strings.Repeat("*", len(credential)-7) + credential[len(credential)-4:]
}
