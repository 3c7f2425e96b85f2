package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/Roadmunk/clientsuccess-go/pkg/clientsuccess"
	"github.com/Roadmunk/clientsuccess-go/pkg/csclient"
)

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var (
		username string
		password string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login to ClientSuccess",
		Long:  "Authenticate against the ClientSuccess API and store the session in the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" {
				username = viper.GetString("username")
			}

			if username == "" {
				reader := bufio.NewReader(os.Stdin)
				fmt.Print("Username: ")
				username, _ = reader.ReadString('\n')
				username = strings.TrimSpace(username)
			}

			if username == "" {
				return ErrUsernameRequired
			}

			if password == "" {
				fmt.Print("Password: ")

				bytePassword, err := term.ReadPassword(int(syscall.Stdin))
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}

				password = string(bytePassword)

				fmt.Println()
			}

			api, err := csclient.New(&clientsuccess.Config{
				Endpoint: viper.GetString("api"),
				Username: username,
				Password: password,
			})
			if err != nil {
				return fmt.Errorf("creating client: %w", err)
			}

			// Verify the credentials before persisting anything.
			if err := api.Authenticate(context.Background()); err != nil {
				return fmt.Errorf("authentication failed: %w", err)
			}

			token, err := api.Token(context.Background())
			if err != nil {
				return fmt.Errorf("reading session token: %w", err)
			}

			err = writeConfigFile(&savedConfig{
				API:             viper.GetString("api"),
				Username:        username,
				Password:        password,
				Token:           token,
				EventsEndpoint:  viper.GetString("events-endpoint"),
				EventsProjectID: viper.GetString("events-project-id"),
				EventsAPIKey:    viper.GetString("events-api-key"),
			})
			if err != nil {
				return err
			}

			fmt.Printf("Logged in as %s\n", username)

			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "ClientSuccess username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "ClientSuccess password (prompted when omitted)")

	return cmd
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Logout from ClientSuccess",
		Long:  "Remove stored credentials from the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := writeConfigFile(&savedConfig{
				API:             viper.GetString("api"),
				EventsEndpoint:  viper.GetString("events-endpoint"),
				EventsProjectID: viper.GetString("events-project-id"),
				EventsAPIKey:    viper.GetString("events-api-key"),
			})
			if err != nil {
				return err
			}

			fmt.Println("Logged out")

			return nil
		},
	}
}
