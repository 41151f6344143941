package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var assetsCmd = &cobra.Command{
	Use:   "assets",
	Short: "Inspect fleet assets",
}

var assetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List fleet assets and their status",
	RunE: func(cmd *cobra.Command, args []string) error {
		assets, err := apiClient().ListAssets()
		if err != nil {
			return err
		}

		if outputJSON {
			return json.NewEncoder(os.Stdout).Encode(assets)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "FICHA\tNAME\tSTATUS\tID")
		for _, a := range assets {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.Code, a.Name, a.Status, a.ID)
		}
		return w.Flush()
	},
}

var assetsLogCmd = &cobra.Command{
	Use:   "log <ficha>",
	Short: "Show the maintenance log for an asset code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := apiClient().MaintenanceLog(args[0])
		if err != nil {
			return err
		}

		if outputJSON {
			return json.NewEncoder(os.Stdout).Encode(entries)
		}

		for _, e := range entries {
			line := fmt.Sprintf("%s  %s", e.CreatedAt.Format("2006-01-02 15:04"), e.Detail)
			if e.Cost != nil {
				line += fmt.Sprintf("  (cost %.2f)", *e.Cost)
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	assetsCmd.AddCommand(assetsListCmd)
	assetsCmd.AddCommand(assetsLogCmd)
	rootCmd.AddCommand(assetsCmd)
}
