package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"ttcli/internal/dataset"
)

func main() {
	file := flag.String("file", "", "path of the CSV file to profile")
	flag.Parse()

	// Accept the path as a bare argument too
	if *file == "" && flag.NArg() > 0 {
		*file = flag.Arg(0)
	}
	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: sydney [-file] <path.csv>")
		os.Exit(2)
	}

	f, err := os.Open(*file)
	if err != nil {
		slog.Error("Failed to open CSV file", "path", *file, "error", err)
		os.Exit(1)
	}
	defer f.Close()

	profile, err := dataset.ProfileCSV(f)
	if err != nil {
		slog.Error("Failed to profile CSV file", "path", *file, "error", err)
		os.Exit(1)
	}

	profile.Render(os.Stdout)
}
