package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dhippley/ado-mcp/azdo"
	"github.com/dhippley/ado-mcp/tools"
)

// NewToolsCmd creates the "tools" command group.
func NewToolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Inspect the tool catalog",
	}
	cmd.AddCommand(newToolsListCmd())
	cmd.AddCommand(newToolsInspectCmd())
	return cmd
}

func newToolsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the tools the server exposes",
		RunE:  runToolsList,
	}
}

func runToolsList(cmd *cobra.Command, _ []string) error {
	defs, err := catalogForInspection()
	if err != nil {
		return exitError(exitRuntime, "building tool catalog: %v", err)
	}

	writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
	fmt.Fprintln(writer, "NAME\tACCESS\tDESCRIPTION")
	for _, def := range defs {
		access := "read-write"
		if def.Tool.Annotations.ReadOnlyHint != nil && *def.Tool.Annotations.ReadOnlyHint {
			access = "read-only"
		}
		fmt.Fprintf(writer, "%s\t%s\t%s\n", def.Tool.Name, access, def.Tool.Description)
	}
	return writer.Flush()
}

func newToolsInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <name>",
		Short: "Print a tool's input schema as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  runToolsInspect,
	}
}

func runToolsInspect(cmd *cobra.Command, args []string) error {
	defs, err := catalogForInspection()
	if err != nil {
		return exitError(exitRuntime, "building tool catalog: %v", err)
	}

	name := args[0]
	for _, def := range defs {
		if def.Tool.Name != name {
			continue
		}
		data, err := json.MarshalIndent(def.Tool, "", "  ")
		if err != nil {
			return exitError(exitRuntime, "encoding tool: %v", err)
		}
		_, _ = cmd.OutOrStdout().Write(append(data, '\n'))
		return nil
	}
	return exitError(exitConfig, "unknown tool %q (run: ado-mcp tools list)", name)
}

// catalogForInspection builds the catalog without real credentials. Tool
// schemas do not depend on the client, only handlers do, and inspection
// never invokes them.
func catalogForInspection() ([]tools.Definition, error) {
	client, err := azdo.NewClient(azdo.ClientConfig{
		OrganizationURL: "https://dev.azure.com/example",
		PAT:             "inspection",
	})
	if err != nil {
		return nil, err
	}
	return tools.Catalog(client, tools.Defaults{})
}
