package main

import (
	"os"
	"os/exec"
	"strings"

	"github.com/gatherhq/gather/internal/client"
	"github.com/spf13/cobra"
)

var (
	httpURL    string
	authToken  string
	caller     string
	jsonOutput bool

	eventsClient client.EventsClient
)

// defaultCaller resolves the identity sent with every request: the GATHER_CALLER
// env var, falling back to the git user name.
func defaultCaller() string {
	if c := os.Getenv("GATHER_CALLER"); c != "" {
		return c
	}
	out, err := exec.Command("git", "config", "user.name").Output()
	if err == nil {
		name := strings.TrimSpace(string(out))
		if name != "" {
			return name
		}
	}
	return "unknown"
}

func defaultHTTPURL() string {
	if s := os.Getenv("GATHER_URL"); s != "" {
		return s
	}
	if u := activeRemoteURL(); u != "" {
		return u
	}
	return "http://localhost:8080"
}

func defaultToken() string {
	if t := os.Getenv("GATHER_TOKEN"); t != "" {
		return t
	}
	return activeRemoteToken()
}

var rootCmd = &cobra.Command{
	Use:   "gd <command>",
	Short: "CLI client for the Gather events service",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		eventsClient = client.NewHTTPClient(httpURL, authToken, caller)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if eventsClient != nil {
			eventsClient.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&httpURL, "url", defaultHTTPURL(), "HTTP server URL")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", defaultToken(), "bearer token for authentication")
	rootCmd.PersistentFlags().StringVar(&caller, "caller", defaultCaller(), "caller identity for ownership and attendance")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	rootCmd.AddGroup(
		&cobra.Group{ID: "events", Title: "Events:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	cobra.EnableCommandSorting = false
	rootCmd.SetHelpFunc(colorizedHelpFunc())

	// Events
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(attendCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(watchCmd)

	// System
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(remoteCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
