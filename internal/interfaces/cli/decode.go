package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// NewDecodeCmd creates the decode command.
func NewDecodeCmd() *cobra.Command {
	var coordinates string

	cmd := &cobra.Command{
		Use:   "decode <idcode>",
		Short: "Expand a canonical identifier back into a molecule",
		Long:  "Decode reconstructs the molecule description encoded in a canonical\nidentifier, optionally applying a coordinate encoding, and prints it as\nJSON.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(cmd, args[0], coordinates)
		},
	}

	cmd.Flags().StringVar(&coordinates, "coordinates", "", "coordinate encoding to apply")

	return cmd
}

func runDecode(cmd *cobra.Command, idcode, coordinates string) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cliCtx.Timeout)
	defer cancel()

	mol, err := cliCtx.Client.Registry().Decode(ctx, idcode, coordinates)
	if err != nil {
		return err
	}

	// A molecule graph has no useful plain-text rendering; always emit JSON.
	return printJSON(cmd, mol)
}
