package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"nuevoser/internal/ops"
)

func main() {
	logger := log.New(os.Stderr, "", log.LstdFlags)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "backup":
		fs := flag.NewFlagSet("backup", flag.ExitOnError)
		dataDir := fs.String("data", "data", "data directory to back up")
		out := fs.String("out", "", "archive path (default backups/nuevoser-<timestamp>.tar.gz)")
		_ = fs.Parse(os.Args[2:])

		path := *out
		if path == "" {
			path = fmt.Sprintf("backups/nuevoser-%s.tar.gz", time.Now().UTC().Format("20060102-150405"))
		}
		if err := ops.BackupDataDir(*dataDir, path); err != nil {
			logger.Fatalf("backup failed: %v", err)
		}
		logger.Printf("backup written to %s", path)

	case "restore":
		fs := flag.NewFlagSet("restore", flag.ExitOnError)
		archive := fs.String("archive", "", "archive to restore from")
		dataDir := fs.String("data", "data", "target data directory")
		_ = fs.Parse(os.Args[2:])

		if *archive == "" {
			logger.Fatal("restore requires -archive")
		}
		if err := ops.RestoreDataDir(*archive, *dataDir); err != nil {
			logger.Fatalf("restore failed: %v", err)
		}
		present, missing, err := ops.Verify(*dataDir)
		if err != nil {
			logger.Fatalf("verify failed: %v", err)
		}
		logger.Printf("restored to %s (present: %v, missing: %v)", *dataDir, present, missing)

	case "verify":
		fs := flag.NewFlagSet("verify", flag.ExitOnError)
		dataDir := fs.String("data", "data", "data directory to inspect")
		_ = fs.Parse(os.Args[2:])

		present, missing, err := ops.Verify(*dataDir)
		if err != nil {
			logger.Fatalf("verify failed: %v", err)
		}
		logger.Printf("present: %v, missing: %v", present, missing)

	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: ops <backup|restore|verify> [flags]")
}
