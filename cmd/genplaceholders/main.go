package main

import (
	"flag"
	"fmt"
	"os"

	"chosenoffset.com/stardodge/internal/placeholders"
)

func main() {
	out := flag.String("out", "assets", "directory to write the PNGs into")
	width := flag.Int("width", 1000, "background width")
	height := flag.Int("height", 800, "background height")
	flag.Parse()

	fmt.Println("Stardodge Placeholder Graphics Generator")
	fmt.Println("========================================")
	fmt.Println()

	paths, err := placeholders.GenerateAndSave(*out, *width, *height)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	for _, p := range paths {
		fmt.Printf("  wrote %s\n", p)
	}

	fmt.Println()
	fmt.Println("Done! Point the assets section of stardodge.yaml at these files.")
}
