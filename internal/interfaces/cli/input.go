package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/turtacn/MolCanon/pkg/types/chem"
)

// readMolecule loads a molecule JSON document from the given file path, or
// from stdin when path is "-" or empty.
func readMolecule(cmd *cobra.Command, path string) (*chem.MoleculeDTO, error) {
	var (
		data []byte
		err  error
	)

	if path == "" || path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read molecule from stdin: %w", err)
		}
	} else {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read molecule file: %w", err)
		}
	}

	var mol chem.MoleculeDTO
	if err := json.Unmarshal(data, &mol); err != nil {
		return nil, fmt.Errorf("failed to parse molecule JSON: %w", err)
	}
	if err := mol.Validate(); err != nil {
		return nil, fmt.Errorf("invalid molecule: %w", err)
	}

	return &mol, nil
}

// argOrEmpty returns the first positional argument or "".
func argOrEmpty(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
