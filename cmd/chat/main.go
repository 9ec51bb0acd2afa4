package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/kailas-cloud/guidechat/internal/tui"
	"github.com/kailas-cloud/guidechat/pkg/sdk"
)

func main() {
	_ = godotenv.Load()

	serverURL := flag.String("server", envOr("GUIDECHAT_SERVER", "http://localhost:8080"), "guidechat server base URL")
	apiKey := flag.String("api-key", os.Getenv("GUIDECHAT_API_KEY"), "API key (if the server requires one)")
	flag.Parse()

	var opts []sdk.Option
	if *apiKey != "" {
		opts = append(opts, sdk.WithAPIKey(*apiKey))
	}
	client := sdk.New(*serverURL, opts...)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sess, err := client.CreateSession(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not reach the server at %s: %v\n", *serverURL, err)
		os.Exit(1)
	}

	p := tea.NewProgram(tui.New(client, sess), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "chat error: %v\n", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
