package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jhin-47/RAG-API/internal/client"
	"github.com/jhin-47/RAG-API/internal/tui"
)

func main() {
	var addr string
	var topK int
	flag.StringVar(&addr, "addr", "http://localhost:8000", "Base URL of the RAG API")
	flag.IntVar(&topK, "k", 5, "Number of results per query")
	flag.Parse()

	api := client.New(addr)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	health, err := api.GetHealth(ctx)
	cancel()
	if err != nil {
		log.Fatalf("cannot reach RAG API at %s: %v", addr, err)
	}

	header := fmt.Sprintf("Connected to %s (%s, %d postings). Type to search.", addr, health.DBFile, health.Postings)
	m := tui.New(api, topK, header)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}
