package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "simulate-synthesis":
		err = runSimulateSynthesis(os.Args[2:])
	case "simulate-hunt":
		err = runSimulateHunt(os.Args[2:])
	case "migrate":
		err = runMigrate()
	default:
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "devtool: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: devtool <command> [args...]")
	fmt.Println("Commands:")
	fmt.Println("  simulate-synthesis  Run seeded synthesis attempts and print outcome rates")
	fmt.Println("  simulate-hunt       Run seeded hunts and print death/reward distribution")
	fmt.Println("  migrate             Apply save-store database migrations")
}
