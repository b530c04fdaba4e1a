package main

import (
	"fmt"
	"log"
	"os"

	"eldercare-data/internal/config"
	"eldercare-data/internal/database"
)

// 迁移工具：整体执行一个 SQL 文件。
// 不按分号切分，plpgsql 函数体里的分号会被切坏。
func main() {
	if len(os.Args) < 2 {
		log.Fatalf("Usage: %s <migration_file.sql>", os.Args[0])
	}

	migrationFile := os.Args[1]
	sqlContent, err := os.ReadFile(migrationFile)
	if err != nil {
		log.Fatalf("Failed to read migration file: %v", err)
	}

	cfg := config.Load()
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Cannot connect to database: %v", err)
	}
	defer db.Close()

	fmt.Printf("Connected to database: %s\n", cfg.Database.Database)

	if _, err := db.Exec(string(sqlContent)); err != nil {
		log.Fatalf("Failed to apply migration %s: %v", migrationFile, err)
	}

	fmt.Printf("Migration %s applied successfully\n", migrationFile)
}
