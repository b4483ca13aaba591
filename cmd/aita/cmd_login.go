package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/aita-go-api/internal/models"
	"github.com/noah-isme/aita-go-api/internal/session"
)

func newLoginCmd(app *cli) *cobra.Command {
	var (
		credential string
		mock       bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with a Google ID token or as the demo teacher",
		Long: `Signs the teacher in. With --credential the ID token is verified by the
backend and the returned profile is stored. With --mock a demonstration teacher
is stored without any network call.

If a teacher is already signed in the stored profile is kept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if teacher, ok := app.bridge.Current(ctx); ok {
				printTeacher(cmd, "Already signed in as", teacher)
				return nil
			}

			if mock {
				printTeacher(cmd, "Signed in as", app.bridge.SignInMock(ctx))
				return nil
			}

			teacher, err := app.bridge.SignIn(ctx, credential)
			if err != nil {
				if errors.Is(err, session.ErrMissingCredential) {
					return fmt.Errorf("%w: pass --credential or --mock", err)
				}
				return err
			}
			printTeacher(cmd, "Signed in as", teacher)
			return nil
		},
	}

	cmd.Flags().StringVar(&credential, "credential", "", "Google ID token to verify")
	cmd.Flags().BoolVar(&mock, "mock", false, "sign in as the demo teacher without verification")
	cmd.MarkFlagsMutuallyExclusive("credential", "mock")

	return cmd
}

func newLogoutCmd(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out; reports and settings are kept",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.bridge.Logout(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

func printTeacher(cmd *cobra.Command, prefix string, teacher models.Teacher) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s <%s>\n", prefix, teacher.Name, teacher.Email)
}
