package cmd

import (
	"fmt"
	"log"
	"strconv"

	"netlab/internal/cli/ui"
	"netlab/pkg/sdk"

	"github.com/spf13/cobra"
)

var deviceTypesCmd = &cobra.Command{
	Use:   "device-types",
	Short: "Manage device types",
	Run: func(cmd *cobra.Command, args []string) {
		if !requireAuth() {
			return
		}
		ui.RunDeviceTypes(Client, Session)
	},
}

var typeName, typeIcon string

var deviceTypesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List device types",
	Run: func(cmd *cobra.Command, args []string) {
		if !requireAuth() {
			return
		}
		handleListTypes()
	},
}

var deviceTypesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a device type",
	Run: func(cmd *cobra.Command, args []string) {
		if !requireAdmin() {
			return
		}
		dt, err := Client.CreateDeviceType(typePayload())
		if err != nil {
			log.Fatalf("Error creating device type: %v", err)
		}
		fmt.Printf("Created device type %s (id %d).\n", dt.Name, dt.ID)
	},
}

var deviceTypesUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Update a device type",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if !requireAdmin() {
			return
		}
		dt, err := Client.UpdateDeviceType(parseID(args[0]), typePayload())
		if err != nil {
			log.Fatalf("Error updating device type: %v", err)
		}
		fmt.Printf("Updated device type %s.\n", dt.Name)
	},
}

var deviceTypesDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a device type",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if !requireAdmin() {
			return
		}
		if err := Client.DeleteDeviceType(parseID(args[0])); err != nil {
			log.Fatalf("Error deleting device type: %v", err)
		}
		fmt.Println("Device type deleted successfully.")
	},
}

var deviceConfigsCmd = &cobra.Command{
	Use:   "device-configs",
	Short: "Manage device configurations",
	Run: func(cmd *cobra.Command, args []string) {
		if !requireAuth() {
			return
		}
		ui.RunDeviceConfigs(Client, Session)
	},
}

var configName, configHost, configIcon, configNotes string
var configTypeID uint

var deviceConfigsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List device configurations",
	Run: func(cmd *cobra.Command, args []string) {
		if !requireAuth() {
			return
		}
		handleListConfigs()
	},
}

var deviceConfigsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a device configuration",
	Run: func(cmd *cobra.Command, args []string) {
		if !requireAdmin() {
			return
		}
		cfg, err := Client.CreateDeviceConfig(configPayload())
		if err != nil {
			log.Fatalf("Error creating device config: %v", err)
		}
		fmt.Printf("Created device config %s (id %d).\n", cfg.Name, cfg.ID)
	},
}

var deviceConfigsUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Update a device configuration",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if !requireAdmin() {
			return
		}
		cfg, err := Client.UpdateDeviceConfig(parseID(args[0]), configPayload())
		if err != nil {
			log.Fatalf("Error updating device config: %v", err)
		}
		fmt.Printf("Updated device config %s.\n", cfg.Name)
	},
}

var deviceConfigsDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a device configuration",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if !requireAdmin() {
			return
		}
		if err := Client.DeleteDeviceConfig(parseID(args[0])); err != nil {
			log.Fatalf("Error deleting device config: %v", err)
		}
		fmt.Println("Device config deleted successfully.")
	},
}

func init() {
	deviceTypesCreateCmd.Flags().StringVar(&typeName, "name", "", "Type name")
	deviceTypesCreateCmd.Flags().StringVar(&typeIcon, "icon", "", "Default icon path")
	deviceTypesCreateCmd.MarkFlagRequired("name")
	deviceTypesUpdateCmd.Flags().StringVar(&typeName, "name", "", "Type name")
	deviceTypesUpdateCmd.Flags().StringVar(&typeIcon, "icon", "", "Default icon path")
	deviceTypesUpdateCmd.MarkFlagRequired("name")
	deviceTypesCmd.AddCommand(deviceTypesListCmd, deviceTypesCreateCmd, deviceTypesUpdateCmd, deviceTypesDeleteCmd)

	for _, c := range []*cobra.Command{deviceConfigsCreateCmd, deviceConfigsUpdateCmd} {
		c.Flags().StringVar(&configName, "name", "", "Config name")
		c.Flags().UintVar(&configTypeID, "type", 0, "Device type id")
		c.Flags().StringVar(&configHost, "host", "", "Hostname or IP")
		c.Flags().StringVar(&configIcon, "icon", "", "Icon path override")
		c.Flags().StringVar(&configNotes, "notes", "", "Notes")
		c.MarkFlagRequired("name")
		c.MarkFlagRequired("type")
	}
	deviceConfigsCmd.AddCommand(deviceConfigsListCmd, deviceConfigsCreateCmd, deviceConfigsUpdateCmd, deviceConfigsDeleteCmd)

	RootCmd.AddCommand(deviceTypesCmd, deviceConfigsCmd)
}

func parseID(arg string) uint {
	id, err := strconv.ParseUint(arg, 10, 32)
	if err != nil {
		log.Fatalf("Invalid id %q", arg)
	}
	return uint(id)
}

// Empty optional fields are sent as absent, not as empty strings.
func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func typePayload() sdk.DeviceTypePayload {
	return sdk.DeviceTypePayload{Name: typeName, DefaultIconPath: optional(typeIcon)}
}

func configPayload() sdk.DeviceConfigPayload {
	return sdk.DeviceConfigPayload{
		Name:            configName,
		DeviceTypeID:    configTypeID,
		HostnameIP:      configHost,
		DefaultIconPath: optional(configIcon),
		Notes:           optional(configNotes),
	}
}

func handleListTypes() {
	types, err := Client.ListDeviceTypes()
	if err != nil {
		log.Fatalf("Error listing device types: %v", err)
	}
	fmt.Println("Device types:")
	for _, t := range types {
		icon := "-"
		if t.DefaultIconPath != nil {
			icon = *t.DefaultIconPath
		}
		fmt.Printf("- %s (id %d) icon: %s\n", t.Name, t.ID, icon)
	}
}

func handleListConfigs() {
	configs, err := Client.ListDeviceConfigs()
	if err != nil {
		log.Fatalf("Error listing device configs: %v", err)
	}
	fmt.Println("Device configs:")
	for _, c := range configs {
		host := "-"
		if c.HostnameIP != "" {
			host = c.HostnameIP
		}
		fmt.Printf("- %s (id %d) [%s] host: %s\n", c.Name, c.ID, c.DeviceTypeName, host)
	}
}
