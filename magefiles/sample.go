package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// sampleCSV has mixed-case, spaced and colliding labels so the sample run
// exercises normalization and the suffix policy.
var sampleCSV = []string{
	"Order ID,Customer Name,  Total Sales ,Order Date,total sales",
	"1001,Ada Lovelace,120.50,2024-01-03,1",
	"1002,Alan Turing,75.00,2024-01-04,2",
	"1003,Grace Hopper,,2024-01-05,3",
}

// Sample writes a generated CSV into samples/ and converts it with the CLI.
// The result lands in samples/output/.
func Sample() error {
	mg.Deps(Init, Build)

	in := filepath.Join("samples", "sales.csv")
	if err := os.WriteFile(in, []byte(strings.Join(sampleCSV, "\n")+"\n"), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", in, err)
	}
	fmt.Println("[sample] wrote", in)

	return sh.RunV(filepath.Join(binDir, binName), "convert", in)
}
