package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fleetworks/fleet-maintenance/internal/models"
)

var (
	poNumber      string
	poDescription string
	poAmount      float64
	poLevel       int
	poComment     string
	poReason      string
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Manage purchase orders and their approvals",
}

var ordersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a draft purchase order",
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &models.CreatePurchaseOrderRequest{
			Number: poNumber,
			Amount: poAmount,
		}
		if poDescription != "" {
			req.Description = &poDescription
		}

		po, err := apiClient().CreatePurchaseOrder(req)
		if err != nil {
			return err
		}
		return printPurchaseOrder(po)
	},
}

var ordersSubmitCmd = &cobra.Command{
	Use:   "submit <id>",
	Short: "Submit a draft order for approval",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		po, err := apiClient().SubmitPurchaseOrder(args[0])
		if err != nil {
			return err
		}
		return printPurchaseOrder(po)
	},
}

var ordersApproveCmd = &cobra.Command{
	Use:   "approve <id>",
	Short: "Approve an order at one workflow level",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		po, err := apiClient().ApprovePurchaseOrder(args[0], poLevel, poComment)
		if err != nil {
			return err
		}
		return printPurchaseOrder(po)
	},
}

var ordersRejectCmd = &cobra.Command{
	Use:   "reject <id>",
	Short: "Reject an order at one workflow level",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		po, err := apiClient().RejectPurchaseOrder(args[0], poLevel, poReason)
		if err != nil {
			return err
		}
		return printPurchaseOrder(po)
	},
}

var ordersPendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List orders awaiting your role's approval",
	RunE: func(cmd *cobra.Command, args []string) error {
		orders, err := apiClient().PendingPurchaseOrders()
		if err != nil {
			return err
		}

		if outputJSON {
			return json.NewEncoder(os.Stdout).Encode(orders)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNUMBER\tAMOUNT\tSTATUS\tLEVEL")
		for _, po := range orders {
			fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\t%d\n", po.ID, po.Number, po.Amount, po.Status, po.CurrentLevel)
		}
		return w.Flush()
	},
}

var ordersHistoryCmd = &cobra.Command{
	Use:   "history <id>",
	Short: "Show the approval audit trail for an order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := apiClient().PurchaseOrderHistory(args[0])
		if err != nil {
			return err
		}

		if outputJSON {
			return json.NewEncoder(os.Stdout).Encode(entries)
		}

		for _, e := range entries {
			line := fmt.Sprintf("%s  L%d %-10s %s by %s",
				e.CreatedAt.Format("2006-01-02 15:04"), e.Level, e.Action, e.LevelName, e.ApproverName)
			if e.Comment != nil {
				line += fmt.Sprintf("  (%s)", *e.Comment)
			}
			fmt.Println(line)
		}
		return nil
	},
}

func printPurchaseOrder(po *models.PurchaseOrder) error {
	if outputJSON {
		return json.NewEncoder(os.Stdout).Encode(po)
	}
	fmt.Printf("%s  %s  %.2f  [%s] level %d\n", po.ID, po.Number, po.Amount, po.Status, po.CurrentLevel)
	return nil
}

func init() {
	ordersCreateCmd.Flags().StringVar(&poNumber, "number", "", "Order number (required)")
	ordersCreateCmd.Flags().StringVar(&poDescription, "description", "", "Description")
	ordersCreateCmd.Flags().Float64Var(&poAmount, "amount", 0, "Order amount (required)")
	ordersCreateCmd.MarkFlagRequired("number")
	ordersCreateCmd.MarkFlagRequired("amount")

	ordersApproveCmd.Flags().IntVar(&poLevel, "level", 0, "Approval level (required)")
	ordersApproveCmd.Flags().StringVar(&poComment, "comment", "", "Optional comment")
	ordersApproveCmd.MarkFlagRequired("level")

	ordersRejectCmd.Flags().IntVar(&poLevel, "level", 0, "Approval level (required)")
	ordersRejectCmd.Flags().StringVar(&poReason, "reason", "", "Rejection reason (required)")
	ordersRejectCmd.MarkFlagRequired("level")
	ordersRejectCmd.MarkFlagRequired("reason")

	ordersCmd.AddCommand(ordersCreateCmd)
	ordersCmd.AddCommand(ordersSubmitCmd)
	ordersCmd.AddCommand(ordersApproveCmd)
	ordersCmd.AddCommand(ordersRejectCmd)
	ordersCmd.AddCommand(ordersPendingCmd)
	ordersCmd.AddCommand(ordersHistoryCmd)
	rootCmd.AddCommand(ordersCmd)
}
