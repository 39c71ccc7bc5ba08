package cmd

import (
	"fmt"
	"log"

	"netlab/internal/cli/ui"

	"github.com/spf13/cobra"
)

var loginUser, loginPass string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the daemon",
	Run: func(cmd *cobra.Command, args []string) {
		if loginUser != "" && loginPass != "" {
			if err := Session.Login(loginUser, loginPass); err != nil {
				log.Fatalf("Login failed: %v", err)
			}
			fmt.Printf("Logged in as %s.\n", Session.User().Username)
			return
		}
		ui.RunLogin(Session)
	},
}

var registerUser, registerPass string

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	Run: func(cmd *cobra.Command, args []string) {
		resp, err := Session.Register(registerUser, registerPass)
		if err != nil {
			log.Fatalf("Registration failed: %v", err)
		}
		fmt.Println(resp.Msg)
		fmt.Println("Run 'netlab login' to sign in.")
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and discard the stored token",
	Run: func(cmd *cobra.Command, args []string) {
		Session.Logout()
		fmt.Println("Logged out.")
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current user",
	Run: func(cmd *cobra.Command, args []string) {
		if !requireAuth() {
			return
		}
		user := Session.User()
		role := "user"
		if user.IsAdmin {
			role = "admin"
		}
		fmt.Printf("%s (%s)\n", user.Username, role)
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginUser, "username", "", "Username")
	loginCmd.Flags().StringVar(&loginPass, "password", "", "Password")

	registerCmd.Flags().StringVar(&registerUser, "username", "", "Username")
	registerCmd.Flags().StringVar(&registerPass, "password", "", "Password")
	registerCmd.MarkFlagRequired("username")
	registerCmd.MarkFlagRequired("password")

	RootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd)
}
