// Command seed imports a menu workbook (.xlsx) into an existing business.
//
//	go run cmd/seed/main.go <business_id> <menu.xlsx>
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/drukmenu/drukmenu-backend/config"
	"github.com/drukmenu/drukmenu-backend/internal/app/repository"
	"github.com/drukmenu/drukmenu-backend/internal/app/service"
	"github.com/drukmenu/drukmenu-backend/internal/db"
	"github.com/drukmenu/drukmenu-backend/pkg/menusheet"
	"github.com/google/uuid"
)

func main() {
	if len(os.Args) < 3 {
		log.Fatal("Usage: go run cmd/seed/main.go <business_id> <menu.xlsx>")
	}

	businessID, err := uuid.Parse(os.Args[1])
	if err != nil {
		log.Fatal("Invalid business id:", err)
	}
	filePath := os.Args[2]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	conn := db.GetDB()
	business, err := repository.NewBusinessRepository(conn).FindByID(businessID)
	if err != nil {
		log.Fatal("Failed to load business:", err)
	}

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	f, err := os.Open(filePath)
	if err != nil {
		log.Fatal("Failed to open XLSX:", err)
	}
	defer f.Close()

	categories, err := menusheet.Read(f)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	itemTotal := 0
	for _, c := range categories {
		itemTotal += len(c.Items)
	}
	fmt.Printf("Importing %d categories (%d items) into %q\n", len(categories), itemTotal, business.BusinessName)

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	// No live viewers are notified from the command line.
	menuService := service.NewMenuService(conn, repository.NewMenuRepository(conn), nil)
	createdCategories, createdItems, err := menuService.ImportMenu(businessID, categories)
	if err != nil {
		var v *service.ValidationError
		if errors.As(err, &v) {
			for field, msg := range v.Fields {
				fmt.Printf("  %s: %s\n", field, msg)
			}
		}
		log.Fatal("Failed to import menu:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Categories created: %d\n", createdCategories)
	fmt.Printf("Items created: %d\n", createdItems)
}
