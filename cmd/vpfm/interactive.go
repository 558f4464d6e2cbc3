package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/venomio/vpfm/internal/config"
	"github.com/venomio/vpfm/internal/logging"
	"github.com/venomio/vpfm/internal/simulate"
	"github.com/venomio/vpfm/internal/store"
)

// runInteractive is the no-flags fallback: a direct, prompt-driven menu
// in the same style as the teacher's own main.go (GetUserChoice/GetInput
// over bufio.Reader), for operators who'd rather answer prompts than
// remember cobra flags.
func runInteractive() {
	fmt.Println("\n=== VPFM ===")
	fmt.Println("1. Train ratings and context boosters")
	fmt.Println("2. Simulate a fixture from a scenario file")
	fmt.Println("3. Exit")
	fmt.Print("Enter your choice (1-3): ")

	switch getUserChoice() {
	case 1:
		runInteractiveTrain()
	case 2:
		runInteractiveSimulate()
	default:
		fmt.Println("Exiting...")
	}
}

func runInteractiveTrain() {
	dsn := getInput("Database URL (blank for vpfm.toml default): ")
	uptoDate := getInput("Upto date (YYYY-MM-DD, logged only; all stored data is used): ")

	cfg, err := config.Load("")
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}
	if dsn != "" {
		cfg.Database.URL = dsn
	}

	ctx := context.Background()
	st, err := store.Open(ctx, cfg.Database.URL)
	if err != nil {
		fmt.Println("Error opening store:", err)
		return
	}
	defer st.Close()

	driver := simulate.NewDriver(st, logging.New(false))
	if err := driver.TrainAndExtract(ctx, uptoDate); err != nil {
		fmt.Println("Error training:", err)
		return
	}
	fmt.Println("training complete")
}

func runInteractiveSimulate() {
	scenarioPath := getInput("Scenario JSON file path: ")
	cfg, err := config.Load("")
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	ctx := context.Background()
	st, err := store.Open(ctx, cfg.Database.URL)
	if err != nil {
		fmt.Println("Error opening store:", err)
		return
	}
	defer st.Close()

	sc, err := loadScenario(scenarioPath)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Printf("Loaded scenario for schedule %d (%d sims)\n", sc.ScheduleID, simulate.NSims(sc.StartMinute))

	if err := runSimulate(ctx, logging.New(false), st, scenarioPath); err != nil {
		fmt.Println("Error simulating:", err)
	}
}

func getUserChoice() int {
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	choice, err := strconv.Atoi(input)
	if err != nil {
		return 0
	}
	return choice
}

func getInput(prompt string) string {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}
