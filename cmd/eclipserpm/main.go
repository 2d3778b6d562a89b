package main

import (
	"fmt"
	"os"
)

// Version will be set at build time via -ldflags
var Version = "v0.1.0"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "version":
			fmt.Printf("eclipserpm %s\n", Version)
			return
		case "prep":
			code, err := runPrep(os.Args[2:])
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			os.Exit(code)
		case "help", "-h", "--help":
			printUsage()
			return
		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
			printUsage()
			os.Exit(1)
		}
	}

	printUsage()
}

func printUsage() {
	fmt.Println(`eclipserpm - prepare Eclipse binary releases for rpmbuild

Usage:
  eclipserpm prep [options] [url]

The prep command downloads a release artifact, verifies it against the
published SHA-512 checksum, extracts icon assets, and generates an RPM
spec file in the staging tree. When no URL argument is given, prep asks
for one interactively.

Options:
  -latest          Discover the newest release from the upstream listing
  -config <path>   Load settings from a YAML file
  -staging <path>  Override the staging root directory
  -no-verify       Skip checksum verification
  -h, --help       Show help

Other commands:
  eclipserpm version    Show version information`)
}
