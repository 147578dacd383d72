package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	host     string
	memberID string
)

var rootCmd = &cobra.Command{
	Use:   "clubdesk",
	Short: "A CLI to interact with the clubdesk server",
	Long: `A command-line interface for browsing members, matches and rankings
of a clubdesk server and for recording matches.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&host, "host", "http://localhost:8080", "The host address of the server")
	rootCmd.PersistentFlags().StringVar(&memberID, "member", os.Getenv("CLUBDESK_MEMBER_ID"), "The member id to act as")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your command '%s'\n", err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
