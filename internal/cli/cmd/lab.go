package cmd

import (
	"fmt"
	"log"

	"netlab/internal/cli/ui"
	"netlab/pkg/sdk"

	"github.com/spf13/cobra"
)

var labCmd = &cobra.Command{
	Use:   "lab",
	Short: "Manage and edit lab topologies",
	Run: func(cmd *cobra.Command, args []string) {
		RunLab()
	},
}

var labListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your topologies",
	Run: func(cmd *cobra.Command, args []string) {
		if !requireAuth() {
			return
		}
		topologies, err := Client.ListTopologies()
		if err != nil {
			log.Fatalf("Error listing topologies: %v", err)
		}
		fmt.Println("Topologies:")
		for _, t := range topologies {
			fmt.Printf("- %s (id %d) updated %s\n", t.Name, t.ID, t.UpdatedAt.Format("2006-01-02 15:04"))
		}
	},
}

var labName, labDescription string

var labCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a topology",
	Run: func(cmd *cobra.Command, args []string) {
		if !requireAuth() {
			return
		}
		req := sdk.CreateTopologyRequest{Name: labName}
		if labDescription != "" {
			req.Description = &labDescription
		}
		topology, err := Client.CreateTopology(req)
		if err != nil {
			log.Fatalf("Error creating topology: %v", err)
		}
		fmt.Printf("Created topology %s (id %d).\n", topology.Name, topology.ID)
	},
}

var labDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a topology",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if !requireAuth() {
			return
		}
		if err := Client.DeleteTopology(parseID(args[0])); err != nil {
			log.Fatalf("Error deleting topology: %v", err)
		}
		fmt.Println("Topology deleted successfully.")
	},
}

var labEditCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Open a topology in the canvas editor",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if !requireAuth() {
			return
		}
		var id uint
		if len(args) == 1 {
			id = parseID(args[0])
		}
		ui.RunEditor(Client, Session, id)
	},
}

func init() {
	labCreateCmd.Flags().StringVar(&labName, "name", "", "Topology name")
	labCreateCmd.Flags().StringVar(&labDescription, "description", "", "Topology description")
	labCreateCmd.MarkFlagRequired("name")

	labCmd.AddCommand(labListCmd, labCreateCmd, labDeleteCmd, labEditCmd)
	RootCmd.AddCommand(labCmd)
}

// RunLab drives the picker/editor loop: pick a topology, edit it, and on
// exit from the editor return to the picker until the user quits there.
func RunLab() {
	if !requireAuth() {
		return
	}
	for {
		topologyID := ui.RunTopologyPicker(Client)
		if topologyID == 0 {
			break
		}
		back := ui.RunEditor(Client, Session, topologyID)
		if !back {
			break
		}
	}
}
