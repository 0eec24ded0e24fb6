package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/turtacn/MolCanon/pkg/client"
	"github.com/turtacn/MolCanon/pkg/types/chem"
	"github.com/turtacn/MolCanon/pkg/types/common"
)

// NewRegisterCmd creates the register command.
func NewRegisterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register [molecule.json]",
		Short: "Canonicalize a molecule and store it in the registry",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRegister,
	}
}

func runRegister(cmd *cobra.Command, args []string) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}

	mol, err := readMolecule(cmd, argOrEmpty(args))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cliCtx.Timeout)
	defer cancel()

	entry, err := cliCtx.Client.Registry().Register(ctx, mol)
	if err != nil {
		return err
	}

	if cliCtx.OutputFormat == "text" {
		fmt.Fprintf(cmd.OutOrStdout(), "registered %s (id %s)\n", entry.IDCode, entry.ID)
		return nil
	}
	return PrintResult(cmd, entry)
}

// NewGetCmd creates the get command.
func NewGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <idcode>",
		Short: "Fetch a registry entry by canonical identifier",
		Args:  cobra.ExactArgs(1),
		RunE:  runGet,
	}
}

func runGet(cmd *cobra.Command, args []string) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cliCtx.Timeout)
	defer cancel()

	entry, err := cliCtx.Client.Registry().Get(ctx, args[0])
	if err != nil {
		return err
	}

	return PrintResult(cmd, entry)
}

// NewListCmd creates the list command.
func NewListCmd() *cobra.Command {
	var page, pageSize int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered molecules, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, page, pageSize)
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 20, "entries per page (max 100)")

	return cmd
}

// entryTable adapts a page of registry entries to the table output format.
type entryTable struct {
	page *common.PageResponse[*chem.RegistryEntryDTO]
}

func (t entryTable) TableHeaders() []string {
	return []string{"IDCODE", "NAME", "ATOMS", "BONDS", "STEREO CENTERS", "CHIRALITY"}
}

func (t entryTable) TableRows() [][]string {
	rows := make([][]string, 0, len(t.page.Items))
	for _, e := range t.page.Items {
		rows = append(rows, []string{
			e.IDCode,
			e.Name,
			strconv.Itoa(e.AtomCount),
			strconv.Itoa(e.BondCount),
			strconv.Itoa(e.Stereo.StereoCenterCount),
			e.Stereo.Chirality.String(),
		})
	}
	return rows
}

func runList(cmd *cobra.Command, page, pageSize int) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cliCtx.Timeout)
	defer cancel()

	result, err := cliCtx.Client.Registry().List(ctx, client.ListOptions{
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return err
	}

	switch cliCtx.OutputFormat {
	case "json":
		return PrintResult(cmd, result)
	default:
		out := cmd.OutOrStdout()
		fmt.Fprint(out, FormatTable(entryTable{result}.TableHeaders(), entryTable{result}.TableRows()))
		fmt.Fprintf(out, "\npage %d of %d entries total\n", result.Page, result.Total)
		return nil
	}
}
