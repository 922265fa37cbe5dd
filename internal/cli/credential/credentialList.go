package credential

import (
	"fmt"
	"strings"

	"github.com/clintjedwards/stepper/internal/cli/cl"
	"github.com/clintjedwards/stepper/internal/cli/format"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var cmdCredentialList = &cobra.Command{
	Use:   "list [prefix]",
	Short: "List credential ids in the secret store",
	Example: `$ stepper credential list
$ stepper credential list docker`,
	RunE: credentialList,
	Args: cobra.MaximumNArgs(1),
}

func init() {
	cmdCredentialList.Flags().Bool("detail", false, "show exact creation time instead of humanized")
	CmdCredential.AddCommand(cmdCredentialList)
}

func credentialList(cmd *cobra.Command, args []string) error {
	prefix := ""
	if len(args) > 0 {
		prefix = args[0]
	}
	detail, _ := cmd.Flags().GetBool("detail")

	cl.State.Fmt.Print("Retrieving credentials")

	store, err := newStore()
	if err != nil {
		return err
	}

	ids, err := store.List(prefix)
	if err != nil {
		cl.State.Fmt.PrintErr(fmt.Sprintf("could not list credentials: %v", err))
		cl.State.Fmt.Finish()
		return err
	}

	data := [][]string{}
	for _, id := range ids {
		credential, err := store.Describe(id)
		if err != nil {
			data = append(data, []string{id, "Unreadable", "", ""})
			continue
		}

		data = append(data, []string{
			credential.ID,
			format.CredentialKind(credential.Kind),
			credential.Username,
			format.UnixMilli(credential.Created, "Unknown", detail),
		})
	}

	table := formatTable(data, !cl.State.Config.NoColor)

	cl.State.Fmt.Println(table)
	cl.State.Fmt.Finish()
	return nil
}

func formatTable(data [][]string, color bool) string {
	tableString := &strings.Builder{}
	table := tablewriter.NewWriter(tableString)

	table.SetHeader([]string{"ID", "Kind", "Username", "Created"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(true)
	table.SetBorder(false)
	table.SetAutoFormatHeaders(false)
	table.SetRowSeparator("―")
	table.SetRowLine(false)
	table.SetColumnSeparator("")
	table.SetCenterSeparator("")

	if color {
		table.SetHeaderColor(
			tablewriter.Color(tablewriter.FgBlueColor),
			tablewriter.Color(tablewriter.FgBlueColor),
			tablewriter.Color(tablewriter.FgBlueColor),
			tablewriter.Color(tablewriter.FgBlueColor),
		)
		table.SetColumnColor(
			tablewriter.Color(tablewriter.FgYellowColor),
			tablewriter.Color(0),
			tablewriter.Color(0),
			tablewriter.Color(0),
		)
	}

	table.AppendBulk(data)

	table.Render()
	return tableString.String()
}
