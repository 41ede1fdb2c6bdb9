package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/squad-ai/squadctl/internal/session"
)

// runChat starts the interactive chat (REPL) mode.
func runChat() error {
	cfg := initConfig()

	client, cleanup, err := buildSession(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	aiID, squadID, conversationID := chatTarget()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	target := aiID
	if squadID != "" {
		target = "squad " + squadID
	}
	fmt.Printf("Chatting with %s (conversation %s). /help for commands.\n", target, conversationID)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("you> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			done, err := handleCommand(ctx, client, conversationID, line)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
			if done {
				return nil
			}
			continue
		}

		reply, err := client.Send(ctx, conversationID, aiID, squadID, line)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			fmt.Println(friendlyError(cfg.RateLimit.Requests, err))
			continue
		}
		name := reply.Metadata.AIPersonality
		if name == "" {
			name = target
		}
		fmt.Printf("%s> %s\n", name, reply.Content)
	}
}

func handleCommand(ctx context.Context, client *session.Client, conversationID, line string) (done bool, err error) {
	switch line {
	case "/quit", "/exit":
		return true, nil
	case "/clear":
		if err := client.ClearConversation(ctx, conversationID); err != nil {
			return false, fmt.Errorf("clear conversation: %w", err)
		}
		fmt.Println("Conversation cleared.")
	case "/history":
		turns, err := client.History(ctx, conversationID)
		if err != nil {
			return false, fmt.Errorf("load history: %w", err)
		}
		for _, t := range turns {
			fmt.Printf("[%s] %s: %s\n", t.CreatedAt.Local().Format("15:04"), t.Role, t.Content)
		}
	case "/help":
		fmt.Println("/quit  exit\n/clear wipe this conversation\n/history  show stored turns")
	default:
		fmt.Printf("Unknown command %s\n", line)
	}
	return false, nil
}

// friendlyError turns the session error taxonomy into something a person
// wants to read. Technical detail goes to the debug log, not the REPL.
func friendlyError(limit int, err error) string {
	var rlErr *session.RateLimitError
	var srvErr *session.ServerError
	var trErr *session.TransportError
	var decErr *session.DecodeError
	switch {
	case errors.Is(err, session.ErrUnauthenticated):
		return "You are not logged in (or your session expired). Run `squadctl login` first."
	case errors.As(err, &rlErr):
		if rlErr.Server {
			return "The server asked us to slow down. Give it a minute."
		}
		return fmt.Sprintf("Easy there! You can send %d messages per minute.", limit)
	case errors.As(err, &srvErr), errors.As(err, &trErr):
		return "The AI is taking a break. Try again in a moment."
	case errors.As(err, &decErr):
		return "The server sent back something unreadable. Try again, and report it if this keeps happening."
	case errors.Is(err, session.ErrInvalidRequest):
		return err.Error()
	default:
		return err.Error()
	}
}
