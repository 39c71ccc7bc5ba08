package cmd

import (
	"fmt"
	"log"
	"os"

	"netlab/internal/config"
	"netlab/internal/session"
	"netlab/pkg/sdk"

	"github.com/spf13/cobra"
)

var (
	Client  *sdk.Client
	Session *session.Store
	BaseURL string
)

var RootCmd = &cobra.Command{
	Use:   "netlab",
	Short: "Terminal client for the netlab topology builder",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		Client = sdk.NewClient(BaseURL)
		dir, err := config.Dir()
		if err != nil {
			log.Fatalf("Error resolving config directory: %v", err)
		}
		Session = session.NewStore(Client, dir)
		Session.Init()
	},
	Run: func(cmd *cobra.Command, args []string) {
		RunLab()
	},
}

func Execute() {
	RootCmd.PersistentFlags().StringVar(&BaseURL, "url", "http://localhost:5001", "URL of the netlab daemon")

	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// requireAuth re-checks the session on every invocation; a token that
// expired since the last command sends the user back to login.
func requireAuth() bool {
	if !Session.IsAuthenticated() {
		fmt.Println("You are not logged in. Run 'netlab login' first.")
		return false
	}
	return true
}

func requireAdmin() bool {
	if !requireAuth() {
		return false
	}
	if !Session.IsAdmin() {
		fmt.Println("Administration rights required.")
		return false
	}
	return true
}
