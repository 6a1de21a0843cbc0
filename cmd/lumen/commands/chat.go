package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	chatModel string
	chatMCP   bool
)

// NewChatCmd builds the interactive chat command.
func NewChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat [prompt]",
		Short: "Chat with the documentation agent",
		Long: `Chat starts an interactive session with the retrieval agent. The
model decides per turn whether to search the local documentation
before answering. With --mcp, tools from the configured MCP servers
are also available to the model.

A single prompt argument runs one turn and exits.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runChat,
	}
	cmd.Flags().StringVar(&chatModel, "model", "", "Chat model to use (default from config)")
	cmd.Flags().BoolVar(&chatMCP, "mcp", false, "Discover tools from configured MCP servers")
	return cmd
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	gateway, err := newGateway(cfg)
	if err != nil {
		return err
	}
	svc, closer, err := newChatService(ctx, cfg, gateway, chatMCP)
	if err != nil {
		return err
	}
	defer closer()

	sessionID := uuid.NewString()

	if len(args) == 1 {
		answer, err := svc.Chat(ctx, sessionID, chatModel, args[0])
		if err != nil {
			return err
		}
		fmt.Println(answer.Content)
		return nil
	}

	fmt.Println("Chatting with the documentation agent. Type 'exit' to quit, 'clear' to reset the session.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		prompt := strings.TrimSpace(scanner.Text())
		switch prompt {
		case "":
			continue
		case "exit", "quit":
			return nil
		case "clear":
			svc.Sessions().Clear(sessionID)
			fmt.Println("Session cleared.")
			continue
		}

		answer, err := svc.Chat(ctx, sessionID, chatModel, prompt)
		if err != nil {
			return err
		}
		fmt.Printf("\n%s\n\n", answer.Content)
	}
}
