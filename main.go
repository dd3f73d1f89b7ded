package main

import (
	"log"
	"os"

	"github.com/eufratt/EduLedger/config"
	"github.com/eufratt/EduLedger/controllers"
	"github.com/eufratt/EduLedger/models"
	"github.com/eufratt/EduLedger/routes"
	"github.com/eufratt/EduLedger/storage"
	"github.com/eufratt/EduLedger/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env lokal kalau ada; env yang sudah di-set tidak ditimpa
	_ = godotenv.Load()

	utils.SetSecret(os.Getenv("JWT_SECRET"))

	// `./eduledger migrate` jalankan AutoMigrate + seed lalu keluar
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		config.ConnectDB()
		migrate()
		log.Println("migrasi dan seeding selesai")
		return
	}

	config.ConnectDB()
	migrate()

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "public/uploads"
	}
	controllers.ProofStore = storage.NewLocalStore(uploadDir)

	r := gin.Default()
	routes.SetupRoutes(r)

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "EduLedger API is running"})
	})
	r.Static("/uploads", uploadDir)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	_ = r.Run(":" + port)
}

func migrate() {
	if err := config.DB.AutoMigrate(
		&models.User{},
		&models.FundingSource{},
		&models.BudgetRequest{},
		&models.Rkab{},
		&models.RkabItem{},
		&models.LedgerEntry{},
		&models.RequestProof{},
		&models.FinancialReport{},
	); err != nil {
		log.Fatalf("auto-migrate gagal: %v", err)
	}
	config.SeedUsers()
}
