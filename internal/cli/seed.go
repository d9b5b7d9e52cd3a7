package cli

import (
	"fmt"
	"log/slog"
	"os"

	"assessment-service/internal/generator"
	"github.com/spf13/cobra"
)

// NewSeedCmd stores a question set read from a JSON file as a new assessment.
func NewSeedCmd(configPath *string) *cobra.Command {
	var (
		file     string
		userID   string
		topic    string
		courseID string
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Import a JSON question set as an assessment",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read question file: %w", err)
			}
			questions, err := generator.Parse(string(data))
			if err != nil {
				return err
			}

			b, err := newBackend(cmd.Context(), cfg, slog.Default())
			if err != nil {
				return err
			}
			defer b.Close()

			a, err := b.assessments.Import(cmd.Context(), userID, topic, courseID, questions)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), a.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "path to a JSON question set")
	cmd.Flags().StringVar(&userID, "user", "", "owner of the assessment")
	cmd.Flags().StringVar(&topic, "topic", "", "assessment topic")
	cmd.Flags().StringVar(&courseID, "course", "", "course the assessment belongs to")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("topic")
	return cmd
}
