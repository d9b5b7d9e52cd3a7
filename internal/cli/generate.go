package cli

import (
	"fmt"
	"log/slog"

	"assessment-service/internal/domain"
	"github.com/spf13/cobra"
)

// NewGenerateCmd generates and stores an assessment without starting the server.
func NewGenerateCmd(configPath *string) *cobra.Command {
	var req domain.GenerateRequest
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate an assessment with the configured model and print its id",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			b, err := newBackend(cmd.Context(), cfg, slog.Default())
			if err != nil {
				return err
			}
			defer b.Close()

			a, err := b.assessments.Generate(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d questions\n", a.ID, len(a.Questions))
			return nil
		},
	}
	cmd.Flags().StringVar(&req.UserID, "user", "cli", "owner of the assessment")
	cmd.Flags().StringVar(&req.Topic, "topic", "", "assessment topic")
	cmd.Flags().StringVar(&req.CourseID, "course", "", "generate a course-end assessment for this course")
	cmd.Flags().StringSliceVar(&req.Skills, "skills", nil, "skills covered by a course-end assessment")
	cmd.Flags().StringVar(&req.Difficulty, "difficulty", "", "difficulty of a course-end assessment")
	_ = cmd.MarkFlagRequired("topic")
	return cmd
}
