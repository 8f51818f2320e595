package main

import (
	"context"
	"log"
	"os"

	mongorepo "github.com/dglmedia/adops-backend/internal/repositories/mongodb"
	"github.com/dglmedia/adops-backend/internal/utils"
	"github.com/dglmedia/adops-backend/pkg/mongodb"
	"github.com/joho/godotenv"
)

// Imports a material registry CSV into MongoDB. Usage:
//
//	go run ./cmd/scripts materials.csv
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		log.Fatal("MONGODB_URI environment variable is required")
	}
	dbName := os.Getenv("MONGODB_DATABASE")
	if dbName == "" {
		dbName = "adops"
	}

	if len(os.Args) < 2 {
		log.Fatal("CSV file path is required as a command line argument")
	}
	csvFilePath := os.Args[1]

	client, err := mongodb.NewClient(mongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())

	db := client.Database(dbName)

	file, err := os.Open(csvFilePath)
	if err != nil {
		log.Fatalf("Failed to open CSV file: %v", err)
	}
	defer file.Close()

	materials, skipped, err := utils.ParseMaterialsCSV(file)
	if err != nil {
		log.Fatalf("Failed to parse CSV file: %v", err)
	}
	for _, reason := range skipped {
		log.Printf("Warning: %s", reason)
	}
	if len(materials) == 0 {
		log.Fatal("No valid material rows found")
	}

	materialRepo := mongorepo.NewMaterialRepository(db)
	if err := materialRepo.CreateMany(context.Background(), materials); err != nil {
		log.Fatalf("Failed to import materials: %v", err)
	}

	log.Printf("Imported %d materials (%d rows skipped)", len(materials), len(skipped))
}
