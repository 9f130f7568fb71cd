// Command interviewctl is a small client for the interview service.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/priyanshupaikra/Inter-AI/internal/transport/ws"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var server string

	root := &cobra.Command{
		Use:           "interviewctl",
		Short:         "Client for the interview service",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&server, "server", "http://localhost:8080", "interview service base URL")

	root.AddCommand(newChatCmd(&server), newTranscriptCmd(&server), newReportCmd(&server))
	return root
}

func newChatCmd(server *string) *cobra.Command {
	return &cobra.Command{
		Use:   "chat SESSION_ID",
		Short: "Run an interview interactively as the respondent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr := "ws" + strings.TrimPrefix(strings.TrimRight(*server, "/"), "http") + "/v1/ws/interview"
			client, err := dialChat(addr, args[0])
			if err != nil {
				return err
			}
			defer client.Close()

			out := cmd.OutOrStdout()
			reply, err := client.call(ws.TypeInitialize, "")
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "[%s]\ninterviewer> %s\ninterviewer> %s\n", reply.Engine, reply.OpeningMessage, reply.FirstQuestion)
			fmt.Fprintln(out, "\nType your answer and press Enter. /end finishes the interview.")

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(out, "you> ")
				if !scanner.Scan() {
					break
				}
				input := strings.TrimSpace(scanner.Text())
				if input == "" {
					continue
				}
				if input == "/end" || input == "/quit" {
					break
				}
				reply, err := client.call(ws.TypeRespond, input)
				if err != nil {
					fmt.Fprintf(out, "error: %v\n", err)
					continue
				}
				fmt.Fprintf(out, "interviewer> %s\n", reply.AIResponse)
			}

			reply, err = client.call(ws.TypeEnd, "")
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "interviewer> %s\n", reply.ClosingMessage)
			if s := reply.Summary; s != nil {
				fmt.Fprintf(out, "\n%d messages (%d yours, %d interviewer), ~%d tokens\n",
					s.TotalMessages, s.RespondentMessages, s.InterviewerMessages, s.ApproxTokens)
			}
			return nil
		},
	}
}

func newTranscriptCmd(server *string) *cobra.Command {
	return &cobra.Command{
		Use:   "transcript SESSION_ID",
		Short: "Print the transcript of a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := newAPIClient(*server).Transcript(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, e := range entries {
				fmt.Fprintf(out, "[%s] %s: %s\n", e.Timestamp.Local().Format("15:04:05"), e.Speaker, e.Message)
			}
			return nil
		},
	}
}

func newReportCmd(server *string) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "report SESSION_ID",
		Short: "Generate and download the HTML report of a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := newAPIClient(*server).Report(args[0])
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(doc)
				return err
			}
			if err := os.WriteFile(output, doc, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "report written to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the report to a file instead of stdout")
	return cmd
}
