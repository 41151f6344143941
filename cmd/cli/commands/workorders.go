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
	woAssetID     string
	woTitle       string
	woDescription string
	woType        string
	woPriority    string
	woReason      string
	woAssignee    string
	woNotes       string
	woTechnician  string
	woHours       float64
	woCost        float64
	woState       string
)

var workOrdersCmd = &cobra.Command{
	Use:   "workorders",
	Short: "Manage work orders",
}

var workOrdersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List work orders",
	RunE: func(cmd *cobra.Command, args []string) error {
		orders, err := apiClient().ListWorkOrders(woState)
		if err != nil {
			return err
		}

		if outputJSON {
			return json.NewEncoder(os.Stdout).Encode(orders)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tTYPE\tSTATE")
		for _, wo := range orders {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", wo.ID, wo.Title, wo.Type, wo.State)
		}
		return w.Flush()
	},
}

var workOrdersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Open a work order on an asset",
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &models.CreateWorkOrderRequest{
			AssetID:  woAssetID,
			Title:    woTitle,
			Type:     woType,
			Priority: woPriority,
		}
		if woDescription != "" {
			req.Description = &woDescription
		}

		wo, err := apiClient().CreateWorkOrder(req)
		if err != nil {
			return err
		}
		return printWorkOrder(wo)
	},
}

var workOrdersAssignCmd = &cobra.Command{
	Use:   "assign <id>",
	Short: "Assign a technician to a work order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		wo, err := apiClient().TransitionWorkOrder(args[0], "assign", models.AssignWorkOrderRequest{
			AssigneeID: woAssignee,
		})
		if err != nil {
			return err
		}
		return printWorkOrder(wo)
	},
}

var workOrdersStartCmd = &cobra.Command{
	Use:   "start <id>",
	Short: "Start work on an assigned order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		wo, err := apiClient().TransitionWorkOrder(args[0], "start", nil)
		if err != nil {
			return err
		}
		return printWorkOrder(wo)
	},
}

var workOrdersPauseCmd = &cobra.Command{
	Use:   "pause <id>",
	Short: "Pause an order in progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		wo, err := apiClient().TransitionWorkOrder(args[0], "pause", models.PauseWorkOrderRequest{
			Reason: woReason,
		})
		if err != nil {
			return err
		}
		return printWorkOrder(wo)
	},
}

var workOrdersResumeCmd = &cobra.Command{
	Use:   "resume <id>",
	Short: "Resume a paused order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		wo, err := apiClient().TransitionWorkOrder(args[0], "resume", nil)
		if err != nil {
			return err
		}
		return printWorkOrder(wo)
	},
}

var workOrdersCloseCmd = &cobra.Command{
	Use:   "close <id>",
	Short: "Close a work order with its completion summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		wo, err := apiClient().TransitionWorkOrder(args[0], "close", models.CloseWorkOrderRequest{
			Notes:       woNotes,
			Technician:  woTechnician,
			ActualHours: woHours,
			ActualCost:  woCost,
		})
		if err != nil {
			return err
		}
		return printWorkOrder(wo)
	},
}

var workOrdersCancelCmd = &cobra.Command{
	Use:   "cancel <id>",
	Short: "Cancel a work order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		wo, err := apiClient().TransitionWorkOrder(args[0], "cancel", models.CancelWorkOrderRequest{
			Reason: woReason,
		})
		if err != nil {
			return err
		}
		return printWorkOrder(wo)
	},
}

func printWorkOrder(wo *models.WorkOrder) error {
	if outputJSON {
		return json.NewEncoder(os.Stdout).Encode(wo)
	}
	fmt.Printf("%s  %s  [%s]\n", wo.ID, wo.Title, wo.State)
	return nil
}

func init() {
	workOrdersListCmd.Flags().StringVar(&woState, "state", "", "Filter by state")

	workOrdersCreateCmd.Flags().StringVar(&woAssetID, "asset", "", "Asset ID (required)")
	workOrdersCreateCmd.Flags().StringVar(&woTitle, "title", "", "Title (required)")
	workOrdersCreateCmd.Flags().StringVar(&woDescription, "description", "", "Description")
	workOrdersCreateCmd.Flags().StringVar(&woType, "type", "corrective", "Type (preventive|corrective|predictive|emergency)")
	workOrdersCreateCmd.Flags().StringVar(&woPriority, "priority", "medium", "Priority (low|medium|high|critical)")
	workOrdersCreateCmd.MarkFlagRequired("asset")
	workOrdersCreateCmd.MarkFlagRequired("title")

	workOrdersAssignCmd.Flags().StringVar(&woAssignee, "assignee", "", "Technician user ID (required)")
	workOrdersAssignCmd.MarkFlagRequired("assignee")

	workOrdersPauseCmd.Flags().StringVar(&woReason, "reason", "", "Pause reason (required)")
	workOrdersPauseCmd.MarkFlagRequired("reason")

	workOrdersCloseCmd.Flags().StringVar(&woNotes, "notes", "", "Closing notes (required)")
	workOrdersCloseCmd.Flags().StringVar(&woTechnician, "technician", "", "Technician name (required)")
	workOrdersCloseCmd.Flags().Float64Var(&woHours, "hours", 0, "Actual hours")
	workOrdersCloseCmd.Flags().Float64Var(&woCost, "cost", 0, "Actual cost")
	workOrdersCloseCmd.MarkFlagRequired("notes")
	workOrdersCloseCmd.MarkFlagRequired("technician")

	workOrdersCancelCmd.Flags().StringVar(&woReason, "reason", "", "Cancellation reason (required)")
	workOrdersCancelCmd.MarkFlagRequired("reason")

	workOrdersCmd.AddCommand(workOrdersListCmd)
	workOrdersCmd.AddCommand(workOrdersCreateCmd)
	workOrdersCmd.AddCommand(workOrdersAssignCmd)
	workOrdersCmd.AddCommand(workOrdersStartCmd)
	workOrdersCmd.AddCommand(workOrdersPauseCmd)
	workOrdersCmd.AddCommand(workOrdersResumeCmd)
	workOrdersCmd.AddCommand(workOrdersCloseCmd)
	workOrdersCmd.AddCommand(workOrdersCancelCmd)
	rootCmd.AddCommand(workOrdersCmd)
}
