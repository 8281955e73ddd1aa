package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/grimoire/internal/app"
	"github.com/rcliao/grimoire/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "chat <contact-id> [message]",
		Short: "Send a message to a contact",
		Long: `Send a message and print the reply. Without a message (and nothing piped on
stdin) the contact continues the conversation. With -i, read messages line
by line: /next continues, /settings shows the contact, /back or /quit leaves.`,
		Args: cobra.MinimumNArgs(1),
		Run:  runChat,
	}

	cmd.Flags().BoolP("interactive", "i", false, "Interactive session")
	cmd.Flags().Duration("timeout", 2*time.Minute, "Timeout per reply")

	RootCmd.AddCommand(cmd)
}

func runChat(cmd *cobra.Command, args []string) {
	interactive, _ := cmd.Flags().GetBool("interactive")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	a := mustOpenApp(cmd)
	defer a.Close()

	if interactive {
		if err := chatSession(cmd, a, args[0], timeout); err != nil {
			exitErr("chat", err)
		}
		return
	}

	text := readContent(args[1:])
	msg, err := sendOne(cmd.Context(), a, args[0], text, timeout)
	if err != nil {
		exitErr("chat", err)
	}
	printReply(a, args[0], msg)
}

func sendOne(ctx context.Context, a *app.App, contactID, text string, timeout time.Duration) (model.Message, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return a.SendMessage(ctx, contactID, text)
}

func printReply(a *app.App, contactID string, msg model.Message) {
	if !textFormat() {
		printJSON(msg)
		return
	}
	c, err := a.Contact(contactID)
	if err != nil || len(c.ResponseQueue) == 0 {
		fmt.Println(msg.Content)
		return
	}
	for _, chunk := range c.ResponseQueue {
		fmt.Printf("%s: %s\n", c.Name, chunk)
	}
}

func chatSession(cmd *cobra.Command, a *app.App, contactID string, timeout time.Duration) error {
	nav := app.NewNavigator(a)
	nav.Navigate(model.ViewContactList)
	if err := nav.OpenContact(contactID); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for nav.View() == model.ViewChat || nav.View() == model.ViewChatSettings {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "":
			continue
		case "/back", "/quit":
			nav.Back()
			continue
		case "/settings":
			if err := nav.OpenContactSettings(); err != nil {
				return err
			}
			c, err := a.Contact(nav.ActiveContact())
			if err != nil {
				return err
			}
			printJSON(c)
			nav.Back()
			if err := nav.OpenContact(c.ID); err != nil {
				return err
			}
			continue
		case "/next":
			line = ""
		}

		msg, err := sendOne(cmd.Context(), a, nav.ActiveContact(), line, timeout)
		if err != nil {
			return err
		}
		printReply(a, nav.ActiveContact(), msg)
	}
	return scanner.Err()
}
