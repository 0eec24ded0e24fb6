package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewValidateCmd creates the validate command.
func NewValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [molecule.json]",
		Short: "Check a molecule's stereo annotations",
		Long:  "Validate reads a molecule JSON document from a file or stdin and reports\nthe first ill-formed stereo specification, such as conflicting wedges or a\nwedge on a non-stereogenic atom.  A failed validation exits non-zero.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
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

	verdict, err := cliCtx.Client.Registry().Validate(ctx, mol)
	if err != nil {
		return err
	}

	if cliCtx.OutputFormat != "text" {
		if err := PrintResult(cmd, verdict); err != nil {
			return err
		}
	} else if verdict.Valid {
		fmt.Fprintln(cmd.OutOrStdout(), "valid")
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "invalid: %s (%s)\n", verdict.Message, verdict.Condition)
	}

	if !verdict.Valid {
		return fmt.Errorf("stereo validation failed: %s", verdict.Condition)
	}
	return nil
}
