package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/m3rciful/quizbot/internal/app"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}
	if err := app.Main(); err != nil {
		log.Fatalf("quizbot: %v", err)
	}
}
