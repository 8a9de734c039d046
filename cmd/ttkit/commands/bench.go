package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ttkit-ml/ttkit/tensor"
	"github.com/ttkit-ml/ttkit/tt"
)

var (
	benchRowFactors string
	benchColFactors string
	benchRank       int
	benchBatch      int
	benchIters      int
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Compare TT contraction against dense matrix multiply",
	Long: `Bench builds a random TT-matrix for the given factorization and rank,
reconstructs its dense equivalent, and times batched matrix-vector
products through both paths.`,
	RunE: runBench,
}

func init() {
	benchCmd.Flags().StringVar(&benchRowFactors, "row-factors", "4,7,4,7", "comma-separated row mode sizes")
	benchCmd.Flags().StringVar(&benchColFactors, "col-factors", "5,5,5,5", "comma-separated column mode sizes")
	benchCmd.Flags().IntVar(&benchRank, "rank", 8, "internal TT rank")
	benchCmd.Flags().IntVar(&benchBatch, "batch", 64, "input batch size")
	benchCmd.Flags().IntVar(&benchIters, "iterations", 100, "timed iterations per path")

	rootCmd.AddCommand(benchCmd)
}

func runBench(cmd *cobra.Command, args []string) error {
	rowFactors, err := parseFactors(benchRowFactors)
	if err != nil {
		return fmt.Errorf("--row-factors: %w", err)
	}
	colFactors, err := parseFactors(benchColFactors)
	if err != nil {
		return fmt.Errorf("--col-factors: %w", err)
	}

	w, err := tt.Random(rowFactors, colFactors, benchRank)
	if err != nil {
		return err
	}
	rows, cols := w.Shape()
	dense := w.Reconstruct()
	x := tensor.Randn(tensor.Shape{benchBatch, cols})

	// Warm up both paths once before timing.
	if _, err := tt.Multiply(w, x); err != nil {
		return err
	}
	wT := dense.Transpose()
	_ = x.MatMul(wT)

	start := time.Now()
	for i := 0; i < benchIters; i++ {
		if _, err := tt.Multiply(w, x); err != nil {
			return err
		}
	}
	ttElapsed := time.Since(start)

	start = time.Now()
	for i := 0; i < benchIters; i++ {
		_ = x.MatMul(wT)
	}
	denseElapsed := time.Since(start)

	ttPer := ttElapsed / time.Duration(benchIters)
	densePer := denseElapsed / time.Duration(benchIters)

	fmt.Printf("matrix:        %dx%d, rank %d, batch %d\n", rows, cols, benchRank, benchBatch)
	fmt.Printf("rank sequence: %s\n", formatRanks(w.Rank()))
	fmt.Printf("parameters:    %d (dense: %d)\n", w.NumParameters(), rows*cols)
	fmt.Printf("tt multiply:   %v/op\n", ttPer)
	fmt.Printf("dense matmul:  %v/op\n", densePer)
	if ttPer > 0 {
		fmt.Printf("speedup:       %.2fx\n", float64(densePer)/float64(ttPer))
	}
	return nil
}
