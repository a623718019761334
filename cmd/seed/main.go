package main

import (
	"fmt"
	"log"
	"os"

	"github.com/kaduna-connect/directory-backend/config"
	"github.com/kaduna-connect/directory-backend/internal/app/repository"
	"github.com/kaduna-connect/directory-backend/internal/db"
	"github.com/kaduna-connect/directory-backend/internal/importer"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	businessRepo := repository.NewBusinessRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	file, err := os.Open(filePath)
	if err != nil {
		log.Fatal("Failed to open XLSX:", err)
	}
	defer file.Close()

	businesses, summary, err := importer.ReadBusinesses(file)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", summary.TotalRows)
	fmt.Printf("  Valid businesses: %d\n", summary.Valid)
	fmt.Printf("  Skipped rows: %d (duplicates: %d)\n", summary.Skipped, summary.Duplicates)
	fmt.Printf("  Rows with invalid coordinates: %d\n", summary.InvalidCoords)

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	// one row at a time so each slug sees the rows before it
	failed := 0
	for i := range businesses {
		if err := businessRepo.Create(&businesses[i]); err != nil {
			failed++
			fmt.Printf("  failed to import %q: %v\n", businesses[i].Name, err)
			continue
		}
		if (i+1)%500 == 0 {
			fmt.Printf("Imported %d businesses...\n", i+1)
		}
	}

	fmt.Println("Import completed!")
	fmt.Printf("Total businesses imported: %d (failed: %d)\n", len(businesses)-failed, failed)
}
