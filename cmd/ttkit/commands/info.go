package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ttkit-ml/ttkit/tt"
)

var infoCmd = &cobra.Command{
	Use:   "info <matrix.ttm>",
	Short: "Inspect a stored Tensor Train factorization",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	payload, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	var m tt.Matrix
	if err := m.UnmarshalBinary(payload); err != nil {
		return fmt.Errorf("failed to decode %s: %w", args[0], err)
	}

	rows, cols := m.Shape()
	denseParams := rows * cols
	ttParams := m.NumParameters()

	fmt.Printf("shape:             %dx%d\n", rows, cols)
	fmt.Printf("order:             %d\n", m.Order())
	fmt.Printf("row factors:       %v\n", m.RowFactors())
	fmt.Printf("col factors:       %v\n", m.ColFactors())
	fmt.Printf("rank sequence:     %s\n", formatRanks(m.Rank()))
	fmt.Printf("parameters:        %d (dense: %d)\n", ttParams, denseParams)
	fmt.Printf("compression ratio: %.2fx\n", float64(denseParams)/float64(ttParams))

	if verbose {
		for i, c := range m.Cores() {
			fmt.Printf("core %d:            (%d, %d, %d, %d)\n",
				i, c.LeftRank(), c.RowDim(), c.ColDim(), c.RightRank())
		}
	}
	return nil
}
