package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewCanonicalizeCmd creates the canonicalize command.
func NewCanonicalizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "canonicalize [molecule.json]",
		Short: "Compute the canonical identifier of a molecule",
		Long:  "Canonicalize reads a molecule JSON document from a file or stdin and\nprints its canonical identifier, coordinate encoding, and stereo summary\nwithout registering anything.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCanonicalize,
	}
	return cmd
}

func runCanonicalize(cmd *cobra.Command, args []string) error {
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

	result, err := cliCtx.Client.Registry().Canonicalize(ctx, mol)
	if err != nil {
		return err
	}

	if cliCtx.OutputFormat == "text" {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "idcode: %s\n", result.IDCode)
		if result.Coordinates != "" {
			fmt.Fprintf(out, "coordinates: %s\n", result.Coordinates)
		}
		fmt.Fprintf(out, "stereo centers: %d\n", result.Stereo.StereoCenterCount)
		fmt.Fprintf(out, "stereo bonds: %d\n", result.Stereo.StereoBondCount)
		fmt.Fprintf(out, "chirality: %s\n", result.Stereo.Chirality)
		return nil
	}
	return PrintResult(cmd, result)
}
