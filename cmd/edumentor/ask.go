package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAskCmd(configFile *string) *cobra.Command {
	var studentID string

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a one-shot question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(*configFile)
			if err != nil {
				return err
			}
			defer a.Close()

			query := strings.Join(args, " ")
			answer, err := a.mentor.Ask(cmd.Context(), studentID, query)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), answer)
			return nil
		},
	}
	cmd.Flags().StringVar(&studentID, "student", "default", "student id")
	return cmd
}
