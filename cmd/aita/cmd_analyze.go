package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/noah-isme/aita-go-api/internal/models"
	"github.com/noah-isme/aita-go-api/internal/reports"
)

func newAnalyzeCmd(app *cli) *cobra.Command {
	var (
		student string
		title   string
		text    string
		file    string
		rubric  string
		explain bool
		approve bool
		model   string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Get grammar and clarity feedback for an essay",
		Long: `Analyses an essay and prints the feedback and score. The essay comes from
--text, --file (plain text only) or, when neither is given, the saved draft.

With --approve the feedback is saved as a report and the draft is cleared.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.requireTeacher(cmd); err != nil {
				return err
			}

			essay := text
			switch {
			case file != "":
				loaded, err := readEssayFile(file)
				if err != nil {
					return err
				}
				essay = loaded
			case essay == "":
				essay = app.local.Draft(ctx)
			}
			if file != "" || text != "" {
				app.local.SetDraft(ctx, essay)
			}
			warnIfLong(app, essay)

			sub := reports.Submission{
				StudentName: strings.TrimSpace(student),
				EssayTitle:  strings.TrimSpace(title),
				EssayText:   strings.TrimSpace(essay),
				Rubric:      models.ParseRubric(rubric),
				Explain:     explain,
			}
			if sub.StudentName == "" || sub.EssayTitle == "" || sub.EssayText == "" {
				return fmt.Errorf("please fill student name, essay title, and essay text")
			}

			result, err := app.workflow.Analyze(ctx, sub.EssayText, models.AnalysisOptions{
				Rubric:  sub.Rubric,
				Explain: sub.Explain,
				Model:   model,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, reports.FormatFeedback(sub.Rubric, sub.Explain, result))
			fmt.Fprintf(out, "\nScore: %d\n", result.Score)

			if !approve {
				return nil
			}

			if _, err := app.reports.Create(ctx, sub, result); err != nil {
				return err
			}
			fmt.Fprintln(out, "Saved to Reports.")
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&student, "student", "", "student name")
	flags.StringVar(&title, "title", "", "essay title")
	flags.StringVar(&text, "text", "", "essay text")
	flags.StringVar(&file, "file", "", "plain-text essay file")
	flags.StringVar(&rubric, "rubric", string(models.RubricBasic), "rubric: basic, mechanics, evidence or customary")
	flags.BoolVar(&explain, "explain", false, "ask for an explanation with each suggestion")
	flags.BoolVar(&approve, "approve", false, "save the feedback as a report")
	flags.StringVar(&model, "model", "", "model override (defaults to the saved model setting)")
	cmd.MarkFlagsMutuallyExclusive("text", "file")

	return cmd
}
