package cli

import (
	"bufio"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

func newPlayCmd() *cobra.Command {
	var room, password, name, role string

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Join a room and play a match interactively",
		Long: `Connect to the server, join (or create) a room and play a match.

The room is created on first use of its identifier; the match starts as
soon as a second player joins with the same identifier and password.

Each turn, type the card to play:
  emperor (e), citizen (c) or slave (s)

Press Ctrl+C or Ctrl+D to disconnect. Disconnecting destroys the room.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(room, password, name, role)
		},
	}

	cmd.Flags().StringVarP(&room, "room", "r", "", "Room identifier")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Room password")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Display name")
	cmd.Flags().StringVar(&role, "role", "", "Preferred side: emperor or slave (default auto)")
	_ = cmd.MarkFlagRequired("room")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func runPlay(room, password, name, role string) error {
	out := NewOutput(cfg.Output)

	session, err := Connect(cfg.ServerURL)
	if err != nil {
		return err
	}
	defer func() { _ = session.Close() }()

	if err := session.Join(room, password, name, role); err != nil {
		return err
	}

	// Print server events until the connection drops
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range session.Events() {
			out.PrintEvent(ev)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	input := readLines(os.Stdin)

	for {
		select {
		case <-sigCh:
			_ = session.Close()
			<-done
			out.PrintMessage("Disconnected")
			return nil
		case <-done:
			out.PrintMessage("Disconnected")
			return nil
		case line, ok := <-input:
			if !ok {
				_ = session.Close()
				<-done
				out.PrintMessage("Disconnected")
				return nil
			}
			card, ok := parseCard(line)
			if !ok {
				out.PrintMessage(`Unknown card. Use "emperor", "citizen" or "slave".`)
				continue
			}
			if err := session.Play(card); err != nil {
				return err
			}
		}
	}
}

func readLines(f *os.File) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	return lines
}

func parseCard(input string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "e", "emperor":
		return "emperor", true
	case "c", "citizen":
		return "citizen", true
	case "s", "slave":
		return "slave", true
	}
	return "", false
}
