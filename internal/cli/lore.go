package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/grimoire/internal/lore"
	"github.com/rcliao/grimoire/internal/model"
)

func init() {
	loreCmd := &cobra.Command{
		Use:   "lore",
		Short: "Manage the world book",
	}

	addCmd := &cobra.Command{
		Use:   "add [content]",
		Short: "Add an entry (content from args or stdin)",
		Run:   runLoreAdd,
	}
	addCmd.Flags().StringP("title", "t", "", "Entry title")
	addCmd.Flags().BoolP("global", "g", false, "Apply to every contact")

	editCmd := &cobra.Command{
		Use:   "edit <id> [content]",
		Short: "Change the title or content of an entry",
		Args:  cobra.MinimumNArgs(1),
		Run:   runLoreEdit,
	}
	editCmd.Flags().StringP("title", "t", "", "New title")

	rmCmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete an entry and unlink it everywhere",
		Args:  cobra.ExactArgs(1),
		Run:   runLoreRm,
	}

	toggleCmd := &cobra.Command{
		Use:   "toggle <id>",
		Short: "Switch an entry on or off",
		Args:  cobra.ExactArgs(1),
		Run:   runLoreToggle,
	}

	globalCmd := &cobra.Command{
		Use:   "global <id>",
		Short: "Toggle whether an entry applies to every contact",
		Args:  cobra.ExactArgs(1),
		Run:   runLoreGlobal,
	}

	linkCmd := &cobra.Command{
		Use:   "link <entry-id> <contact-id>",
		Short: "Link or unlink an entry for a contact",
		Args:  cobra.ExactArgs(2),
		Run:   runLoreLink,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List every entry",
		Run:   runLoreList,
	}

	activeCmd := &cobra.Command{
		Use:   "active <contact-id>",
		Short: "Show the lore injected into a contact's prompts",
		Args:  cobra.ExactArgs(1),
		Run:   runLoreActive,
	}

	loreCmd.AddCommand(addCmd, editCmd, rmCmd, toggleCmd, globalCmd, linkCmd, listCmd, activeCmd)
	RootCmd.AddCommand(loreCmd)
}

func runLoreAdd(cmd *cobra.Command, args []string) {
	title, _ := cmd.Flags().GetString("title")
	global, _ := cmd.Flags().GetBool("global")
	content := readContent(args)

	a := mustOpenApp(cmd)
	defer a.Close()

	e, err := a.AddWorldEntry(cmd.Context(), title, content)
	if err != nil {
		exitErr("add lore", err)
	}
	if global {
		if e, err = a.ToggleWorldEntryGlobal(cmd.Context(), e.ID); err != nil {
			exitErr("add lore", err)
		}
	}
	printJSON(e)
}

func runLoreEdit(cmd *cobra.Command, args []string) {
	a := mustOpenApp(cmd)
	defer a.Close()

	e, err := a.WorldEntry(args[0])
	if err != nil {
		exitErr("edit lore", err)
	}
	if cmd.Flags().Changed("title") {
		e.Title, _ = cmd.Flags().GetString("title")
	}
	if content := readContent(args[1:]); content != "" {
		e.Content = content
	}

	e, err = a.UpdateWorldEntry(cmd.Context(), e.ID, e.Title, e.Content)
	if err != nil {
		exitErr("edit lore", err)
	}
	printJSON(e)
}

func runLoreRm(cmd *cobra.Command, args []string) {
	a := mustOpenApp(cmd)
	defer a.Close()

	if err := a.DeleteWorldEntry(cmd.Context(), args[0]); err != nil {
		exitErr("delete lore", err)
	}
	fmt.Printf(`{"ok":true,"deleted":%q}`+"\n", args[0])
}

func runLoreToggle(cmd *cobra.Command, args []string) {
	a := mustOpenApp(cmd)
	defer a.Close()

	e, err := a.ToggleWorldEntryActive(cmd.Context(), args[0])
	if err != nil {
		exitErr("toggle lore", err)
	}
	printJSON(e)
}

func runLoreGlobal(cmd *cobra.Command, args []string) {
	a := mustOpenApp(cmd)
	defer a.Close()

	e, err := a.ToggleWorldEntryGlobal(cmd.Context(), args[0])
	if err != nil {
		exitErr("toggle global", err)
	}
	printJSON(e)
}

func runLoreLink(cmd *cobra.Command, args []string) {
	a := mustOpenApp(cmd)
	defer a.Close()

	linked, err := a.ToggleLoreLink(cmd.Context(), args[0], args[1])
	if err != nil {
		exitErr("link lore", err)
	}
	fmt.Printf(`{"ok":true,"entry":%q,"contact":%q,"linked":%t}`+"\n", args[0], args[1], linked)
}

func runLoreList(cmd *cobra.Command, args []string) {
	a := mustOpenApp(cmd)
	defer a.Close()

	entries := a.WorldEntries()
	if textFormat() {
		for _, e := range entries {
			fmt.Printf("%s\t%s\t%s\n", e.ID, entryState(e), e.Title)
		}
		return
	}
	printJSON(entries)
}

func runLoreActive(cmd *cobra.Command, args []string) {
	a := mustOpenApp(cmd)
	defer a.Close()

	entries, err := a.ActiveLore(args[0])
	if err != nil {
		exitErr("active lore", err)
	}
	if textFormat() {
		fmt.Println(lore.Format(entries))
		return
	}
	printJSON(entries)
}

func entryState(e model.WorldEntry) string {
	state := "off"
	if e.Active {
		state = "on"
	}
	if e.IsGlobal {
		return state + ",global"
	}
	return state + ",local"
}
