package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	session "github.com/koscakluka/crew-core/core"
	"github.com/koscakluka/crew-core/core/backends/bridge"
	"github.com/koscakluka/crew-core/tui"
)

func main() {
	config, err := tui.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using defaults\n", err)
	}
	if len(os.Args) > 2 && os.Args[1] == "--base-url" {
		config.BaseURL = os.Args[2]
	}

	mode := session.ModeSolo
	if config.Mode == "team" {
		mode = session.ModeTeam
	}

	client := bridge.NewClient(config.BaseURL)
	sess := session.New(
		session.WithBackend(client),
		session.WithMode(mode),
	)

	p := tea.NewProgram(tui.NewModel(sess, client, config), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
