package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ttkit-ml/ttkit/tt"
)

var (
	compressRowFactors string
	compressColFactors string
	compressMaxRank    int
	compressTolerance  float64
	compressOutput     string
)

var compressCmd = &cobra.Command{
	Use:   "compress <matrix.csv>",
	Short: "Decompose a dense CSV matrix into Tensor Train form",
	Long: `Compress reads a dense matrix from a CSV file and runs the TT-SVD
decomposition against the given row and column factorizations.

The factor products must match the matrix dimensions exactly: for a
784x625 matrix, --row-factors 4,7,4,7 and --col-factors 5,5,5,5.
Truncation is controlled by --max-rank (hard cap on every internal rank)
or --tolerance (relative Frobenius error bound); the two are mutually
exclusive. With neither, the decomposition is exact.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompress,
}

func init() {
	compressCmd.Flags().StringVar(&compressRowFactors, "row-factors", "", "comma-separated row mode sizes (required)")
	compressCmd.Flags().StringVar(&compressColFactors, "col-factors", "", "comma-separated column mode sizes (required)")
	compressCmd.Flags().IntVar(&compressMaxRank, "max-rank", 0, "cap every internal TT rank")
	compressCmd.Flags().Float64Var(&compressTolerance, "tolerance", 0, "relative Frobenius error bound")
	compressCmd.Flags().StringVarP(&compressOutput, "output", "o", "", "write the factorization to a .ttm file")

	if err := compressCmd.MarkFlagRequired("row-factors"); err != nil {
		panic(err)
	}
	if err := compressCmd.MarkFlagRequired("col-factors"); err != nil {
		panic(err)
	}
	compressCmd.MarkFlagsMutuallyExclusive("max-rank", "tolerance")

	rootCmd.AddCommand(compressCmd)
}

func runCompress(cmd *cobra.Command, args []string) error {
	rowFactors, err := parseFactors(compressRowFactors)
	if err != nil {
		return fmt.Errorf("--row-factors: %w", err)
	}
	colFactors, err := parseFactors(compressColFactors)
	if err != nil {
		return fmt.Errorf("--col-factors: %w", err)
	}

	dense, err := loadCSVMatrix(args[0])
	if err != nil {
		return err
	}
	rows, cols := dense.Shape()[0], dense.Shape()[1]
	if verbose {
		fmt.Fprintf(os.Stderr, "loaded %dx%d matrix from %s\n", rows, cols, args[0])
	}

	var opts []tt.DecomposeOption
	if compressMaxRank > 0 {
		opts = append(opts, tt.WithMaxRank(compressMaxRank))
	}
	if cmd.Flags().Changed("tolerance") {
		opts = append(opts, tt.WithTolerance(compressTolerance))
	}

	m, err := tt.Decompose(dense, rowFactors, colFactors, opts...)
	if err != nil {
		return fmt.Errorf("decomposition failed: %w", err)
	}

	recon := m.Reconstruct()
	diff := recon.Add(dense.Scale(-1))
	relErr := 0.0
	if norm := dense.FrobeniusNorm(); norm > 0 {
		relErr = diff.FrobeniusNorm() / norm
	}

	denseParams := rows * cols
	ttParams := m.NumParameters()

	fmt.Printf("shape:             %dx%d\n", rows, cols)
	fmt.Printf("row factors:       %v\n", rowFactors)
	fmt.Printf("col factors:       %v\n", colFactors)
	fmt.Printf("rank sequence:     %s\n", formatRanks(m.Rank()))
	fmt.Printf("parameters:        %d (dense: %d)\n", ttParams, denseParams)
	fmt.Printf("compression ratio: %.2fx\n", float64(denseParams)/float64(ttParams))
	fmt.Printf("relative error:    %.6e\n", relErr)

	if compressOutput != "" {
		payload, err := m.MarshalBinary()
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", compressOutput, err)
		}
		if err := os.WriteFile(compressOutput, payload, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", compressOutput, err)
		}
		fmt.Printf("wrote %s (%d bytes)\n", compressOutput, len(payload))
	}
	return nil
}
