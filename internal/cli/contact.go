package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/grimoire/internal/app"
	"github.com/rcliao/grimoire/internal/model"
)

func init() {
	contactCmd := &cobra.Command{
		Use:   "contact",
		Short: "Manage contacts",
	}

	addCmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Create a contact",
		Run:   runContactAdd,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List contacts",
		Run:   runContactList,
	}

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a contact with its history",
		Args:  cobra.ExactArgs(1),
		Run:   runContactShow,
	}

	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a contact",
		Args:  cobra.ExactArgs(1),
		Run:   runContactUpdate,
	}
	updateCmd.Flags().String("name", "", "Display name")
	updateCmd.Flags().String("persona", "", "Character persona (AI side)")
	updateCmd.Flags().String("user-name", "", "What the contact calls you")
	updateCmd.Flags().String("user-persona", "", "Your persona for this contact")
	updateCmd.Flags().String("avatar", "", "Avatar URL")
	updateCmd.Flags().String("background", "", "Chat background URL")
	updateCmd.Flags().String("bubble-css", "", "Bubble CSS")
	updateCmd.Flags().Bool("narrative", false, "Narrative (story) mode")
	updateCmd.Flags().Int("words", 0, "Target word count, 0 for none")

	rmCmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a contact and its history",
		Args:  cobra.ExactArgs(1),
		Run:   runContactRm,
	}

	permCmd := &cobra.Command{
		Use:   "perm <id> <autoPost|autoReply>",
		Short: "Toggle a forum permission",
		Args:  cobra.ExactArgs(2),
		Run:   runContactPerm,
	}

	contactCmd.AddCommand(addCmd, listCmd, showCmd, updateCmd, rmCmd, permCmd)
	RootCmd.AddCommand(contactCmd)
}

func runContactAdd(cmd *cobra.Command, args []string) {
	a := mustOpenApp(cmd)
	defer a.Close()

	c, err := a.AddContact(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		exitErr("add contact", err)
	}
	printJSON(c)
}

func runContactList(cmd *cobra.Command, args []string) {
	a := mustOpenApp(cmd)
	defer a.Close()

	contacts := a.Contacts()
	if textFormat() {
		for _, c := range contacts {
			mode := "chat"
			if c.IsOfflineMode {
				mode = "story"
			}
			fmt.Printf("%s\t%s\t%s\t%d messages\n", c.ID, c.Name, mode, len(c.History))
		}
		return
	}
	printJSON(contacts)
}

func runContactShow(cmd *cobra.Command, args []string) {
	a := mustOpenApp(cmd)
	defer a.Close()

	c, err := a.Contact(args[0])
	if err != nil {
		exitErr("show contact", err)
	}
	if textFormat() {
		for _, m := range c.History {
			speaker := c.Name
			if m.Role == model.RoleUser {
				speaker = "you"
			}
			fmt.Printf("%s: %s\n", speaker, m.Content)
		}
		return
	}
	printJSON(c)
}

func runContactUpdate(cmd *cobra.Command, args []string) {
	a := mustOpenApp(cmd)
	defer a.Close()

	c, err := a.Contact(args[0])
	if err != nil {
		exitErr("update contact", err)
	}

	flags := cmd.Flags()
	str := func(name string, dst *string) {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	str("name", &c.Name)
	str("persona", &c.AIPersona)
	str("user-name", &c.UserName)
	str("user-persona", &c.UserPersona)
	str("avatar", &c.AvatarURL)
	str("background", &c.BackgroundURL)
	str("bubble-css", &c.BubbleCSS)
	if flags.Changed("narrative") {
		c.IsOfflineMode, _ = flags.GetBool("narrative")
	}
	if flags.Changed("words") {
		c.TargetWordCount, _ = flags.GetInt("words")
	}

	updated, err := a.UpdateContact(cmd.Context(), c)
	if err != nil {
		exitErr("update contact", err)
	}
	printJSON(updated)
}

func runContactRm(cmd *cobra.Command, args []string) {
	a := mustOpenApp(cmd)
	defer a.Close()

	if err := a.DeleteContact(cmd.Context(), args[0]); err != nil {
		exitErr("delete contact", err)
	}
	fmt.Printf(`{"ok":true,"deleted":%q}`+"\n", args[0])
}

func runContactPerm(cmd *cobra.Command, args []string) {
	perm, err := app.ParsePermission(args[1])
	if err != nil {
		exitErr("permission", err)
	}

	a := mustOpenApp(cmd)
	defer a.Close()

	v, err := a.TogglePermission(cmd.Context(), args[0], perm)
	if err != nil {
		exitErr("toggle permission", err)
	}
	fmt.Printf(`{"ok":true,"permission":%q,"enabled":%t}`+"\n", perm, v)
}
