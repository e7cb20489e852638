// validate-presets checks preset YAML files before they are deployed.
package main

import (
	"fmt"
	"os"

	"github.com/hishmat-dev/job-listing-app/internal/presets"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("No files to check.")
		os.Exit(0)
	}

	failed := false
	for _, path := range os.Args[1:] {
		set, err := presets.LoadFile(path)
		if err != nil {
			fmt.Printf("❌ %v\n", err)
			failed = true
			continue
		}
		fmt.Printf("✅ %s is valid (%d presets)\n", path, set.Len())
	}

	if failed {
		os.Exit(1)
	}
}
