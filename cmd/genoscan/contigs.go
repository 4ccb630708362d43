package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lczech/genoscan/pkg/vcf"
)

var contigsCmd = &cobra.Command{
	Use:   "contigs <input.vcf>",
	Short: "Show header information for a VCF file",
	Long: `Display the contigs, samples and field definitions declared in the
header of a VCF file.

The information is read from the header alone, without scanning the
records.

Example:
  genoscan contigs sample.vcf.gz`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reader, err := vcf.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open VCF: %w", err)
		}
		defer reader.Close()

		header := reader.Header()

		fmt.Println("===========================================")
		fmt.Println("VCF Header")
		fmt.Println("===========================================")
		fmt.Println()
		fmt.Printf("File format: %s\n", header.FileFormat)
		fmt.Printf("Samples: %d\n", len(header.Samples))
		for _, s := range header.Samples {
			fmt.Printf("  %s\n", s)
		}
		fmt.Println()

		fmt.Printf("Contigs: %d\n", len(header.Contigs))
		for _, c := range header.Contigs {
			if c.Length > 0 {
				fmt.Printf("  %s: %d bp\n", c.Name, c.Length)
			} else {
				fmt.Printf("  %s: unknown length\n", c.Name)
			}
		}
		fmt.Println()

		fmt.Printf("INFO fields: %d\n", len(header.Info))
		for _, f := range header.Info {
			fmt.Printf("  %s (%s, %s): %s\n", f.ID, f.Type, f.Number, f.Description)
		}
		fmt.Println()

		fmt.Printf("FORMAT fields: %d\n", len(header.Format))
		for _, f := range header.Format {
			fmt.Printf("  %s (%s, %s): %s\n", f.ID, f.Type, f.Number, f.Description)
		}

		return nil
	},
}
