package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/mizuki-f/topic-insight/internal/application"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <topic>\n", os.Args[0])
		os.Exit(2)
	}
	topic := strings.Join(os.Args[1:], " ")

	ctx := context.Background()

	app, err := application.New(ctx)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}
	defer app.Close()

	result, err := app.AnalyzeService.Run(ctx, topic)
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("Encoding result failed: %v", err)
	}

	fmt.Println(string(output))
}
