// Command rewards-cli is a terminal client for the rewards API: log in,
// follow the dorm standings and buy palettes with spendable points.
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	defaultServer := os.Getenv("ECOWATTCH_SERVER")
	if defaultServer == "" {
		defaultServer = "http://localhost:3000"
	}
	server := flag.String("server", defaultServer, "rewards API base URL")
	price := flag.Int("price", 50, "points to spend per palette")
	flag.Parse()

	if *price <= 0 {
		fmt.Println("Error: -price must be positive")
		os.Exit(2)
	}

	p := tea.NewProgram(initialModel(newClient(*server), *price))
	if _, err := p.Run(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
