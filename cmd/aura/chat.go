package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/realtyaura/aura/config"
	"github.com/realtyaura/aura/pkg/auth"
	"github.com/realtyaura/aura/pkg/container"
)

var (
	plainOutput  bool
	tokenSubject string
	tokenTTL     time.Duration
)

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Talk to the assistant",
	Long: `Send one message to the assistant, or start an interactive session when no
message is given. Type "exit" or press Ctrl-D to leave.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		c, err := openContainer(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		render := newRenderer()
		if len(args) > 0 {
			return ask(ctx, c, render, strings.Join(args, " "))
		}
		return interactive(ctx, c, render)
	},
}

func newRenderer() func(string) string {
	if plainOutput {
		return func(s string) string { return s }
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return func(s string) string { return s }
	}
	return func(s string) string {
		out, err := renderer.Render(s)
		if err != nil {
			return s
		}
		return out
	}
}

func ask(ctx context.Context, c *container.Container, render func(string) string, message string) error {
	resp, err := c.Assistant.Handle(ctx, message)
	if err != nil {
		return err
	}
	fmt.Print(render(resp.Response))
	if verbose {
		fmt.Fprintf(os.Stderr, "(route: %s)\n", resp.Route)
	}
	return nil
}

func interactive(ctx context.Context, c *container.Container, render func(string) string) error {
	fmt.Println(`AURA assistant. Try "who owns Palm Tower 3401?", "show follow ups" or "market analysis for Palm Jumeirah".`)
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "exit", "quit":
			return nil
		}
		if err := ask(ctx, c, render, line); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an API token signed with JWT_SECRET",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		ttl := tokenTTL
		if ttl <= 0 {
			ttl = time.Duration(cfg.JWTExpirationHours) * time.Hour
		}
		token, expires, err := auth.GenerateToken(tokenSubject, cfg.JWTSecret, ttl, time.Now())
		if err != nil {
			return err
		}
		fmt.Println(token)
		if verbose {
			fmt.Fprintf(os.Stderr, "expires %s\n", expires.Format(time.RFC3339))
		}
		return nil
	},
}

func init() {
	chatCmd.Flags().BoolVar(&plainOutput, "plain", false, "Print replies without markdown rendering")
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "agent", "Token subject")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "Token lifetime (default: JWT_EXPIRATION_HOURS)")
}
