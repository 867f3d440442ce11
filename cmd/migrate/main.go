package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/pressly/goose/v3"

	"gostockflow/config"
	"gostockflow/internal/pkg/database"
	"gostockflow/migrations"
)

func main() {
	var migrationsDir string
	flag.StringVar(&migrationsDir, "dir", "", "diretório com migrações (vazio usa as embutidas no binário)")
	flag.Parse()

	dsn, err := config.DatabaseURLFromEnv()
	if err != nil {
		log.Fatalf("goose: %v", err)
	}

	db, err := database.NewPostgresDB(dsn, database.DefaultPoolConfig())
	if err != nil {
		log.Fatalf("goose: falha ao conectar ao DB: %v\n", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Fatalf("goose: falha ao fechar DB: %v\n", err)
		}
	}()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("goose: %v", err)
	}
	if migrationsDir == "" {
		goose.SetBaseFS(migrations.FS)
		migrationsDir = "."
	}

	arguments := flag.Args()
	if len(arguments) == 0 {
		arguments = []string{"up"}
	}

	command := arguments[0]
	var args []string
	if len(arguments) > 1 {
		args = arguments[1:]
	}

	if err := goose.Run(command, db, migrationsDir, args...); err != nil {
		log.Fatalf("goose %v: %v", command, err)
	}

	fmt.Printf("goose %s success\n", command)
}
