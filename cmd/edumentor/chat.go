package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newChatCmd(configFile *string) *cobra.Command {
	var studentID string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive tutoring session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(*configFile)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			sessionID, greeting := a.mentor.StartSession(studentID)
			log := a.logger.WithComponent("chat").WithStudent(studentID, sessionID)
			fmt.Fprintln(out, greeting)
			fmt.Fprintln(out, "\nType 'progress' for a progress report, 'quit' to exit.")

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(out, "\nYou: ")
				if !scanner.Scan() {
					break
				}
				input := strings.TrimSpace(scanner.Text())
				if input == "" {
					continue
				}
				switch strings.ToLower(input) {
				case "quit", "exit", "bye":
					if stats, ok := a.mentor.Sessions().Stats(sessionID); ok {
						fmt.Fprintf(out, "\nSession summary: %d exchanges over %.0f seconds.\n", stats.MessageCount, stats.DurationSeconds)
					}
					a.mentor.Sessions().End(sessionID)
					fmt.Fprintln(out, "Great session! See you next time.")
					return scanner.Err()
				case "progress":
					report, err := a.mentor.Progress(cmd.Context(), studentID)
					if err != nil {
						log.Error("progress report failed", "error", err)
						fmt.Fprintln(out, "\nCould not build your progress report, please try again.")
						continue
					}
					fmt.Fprintf(out, "\n%s\n", report)
					continue
				case "help":
					fmt.Fprintln(out, "\nAsk anything, request a quiz ('quiz me on fractions'),")
					fmt.Fprintln(out, "ask for homework help, or type 'progress' for your report.")
					continue
				}

				answer, err := a.mentor.Ask(cmd.Context(), studentID, input)
				if err != nil {
					log.Error("query failed", "error", err)
					fmt.Fprintln(out, "\nSomething went wrong, please try again.")
					continue
				}
				fmt.Fprintf(out, "\nEduMentor: %s\n", answer)
			}
			return scanner.Err()
		},
	}
	cmd.Flags().StringVar(&studentID, "student", "default", "student id")
	return cmd
}
