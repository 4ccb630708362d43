package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "genoscan",
	Short: "Genoscan - windowed genome scan tools",
	Long: `Genoscan scans position-sorted variant data into genomic windows.

It reads VCF or coordinate-sorted BAM input, slides fixed-width or
caller-defined windows over each chromosome, and reports per-window
summaries for downstream population-genetics analyses.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(contigsCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("genoscan version 0.1.0")
		fmt.Println("Windowed genome scans over VCF and BAM input")
	},
}
