package commands

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var loginPassword string

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Authenticate and print an access token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password := loginPassword
		if password == "" {
			fmt.Fprint(os.Stderr, "Password: ")
			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			password = strings.TrimRight(line, "\r\n")
		}

		resp, err := apiClient().Login(args[0], password)
		if err != nil {
			return err
		}

		if outputJSON {
			return json.NewEncoder(os.Stdout).Encode(resp)
		}

		fmt.Printf("Logged in as %s (%s)\n", resp.User.Name, resp.User.Role)
		fmt.Printf("Token (valid %ds):\n%s\n", resp.ExpiresIn, resp.AccessToken)
		fmt.Fprintln(os.Stderr, "\nExport it with: export FLEET_API_TOKEN=<token>")
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Password (prompted on stdin when omitted)")
	rootCmd.AddCommand(loginCmd)
}
