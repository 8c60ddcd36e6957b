// README: Offline conversation demo over an in-memory store, no collaborators.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"tripcover/internal/config"
	"tripcover/internal/modules/dialogue"
	"tripcover/internal/modules/extract"
	"tripcover/internal/modules/handoff"
	"tripcover/internal/modules/intent"
	"tripcover/internal/modules/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	intentSvc := intent.NewService(nil, time.Second)
	extractSvc := extract.NewService(nil, nil, time.Second)
	questionGen := dialogue.NewQuestionGenerator(nil, time.Second)

	dialogueSvc := dialogue.NewService(dialogue.Deps{
		Store:      session.NewMemoryStore(),
		Classifier: intentSvc,
		Extractor:  extractSvc,
		Questions:  questionGen,
		Boundary:   handoff.NewService(nil),
	}, cfg.Dialogue)

	fmt.Println("tripcover demo. Describe your trip (ctrl-D to quit)")

	const sessionID = "demo"
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if line == "" {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		result, err := dialogueSvc.HandleTurn(ctx, sessionID, "demo-user", line)
		cancel()
		if err != nil {
			fmt.Printf("(error: %v)\n", err)
			continue
		}
		fmt.Println(result.Reply)
		if result.RequiresHuman {
			fmt.Println("(a human agent would take over here)")
			return
		}
		if result.State.HandoffComplete {
			return
		}
	}
}
