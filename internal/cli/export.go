package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export chat history or a full backup as JSON",
	}

	historyCmd := &cobra.Command{
		Use:   "history <contact-id>",
		Short: "Export one contact's conversation",
		Long:  "Export one contact's conversation. With --save the file is written to chat_<name>_<date>.json in the current directory.",
		Args:  cobra.ExactArgs(1),
		Run:   runExportHistory,
	}
	historyCmd.Flags().StringP("out", "o", "", "Write to this file instead of stdout")
	historyCmd.Flags().Bool("save", false, "Write to the suggested file name")

	backupCmd := &cobra.Command{
		Use:   "backup",
		Short: "Export settings, contacts and the world book",
		Run:   runExportBackup,
	}
	backupCmd.Flags().StringP("out", "o", "", "Write to this file instead of stdout")

	exportCmd.AddCommand(historyCmd, backupCmd)
	RootCmd.AddCommand(exportCmd)
}

func runExportHistory(cmd *cobra.Command, args []string) {
	out, _ := cmd.Flags().GetString("out")
	save, _ := cmd.Flags().GetBool("save")

	a := mustOpenApp(cmd)
	defer a.Close()

	exp, err := a.ExportHistory(args[0])
	if err != nil {
		exitErr("export history", err)
	}
	if save && out == "" {
		out = exp.Filename
	}
	writeJSON(out, exp)
}

func runExportBackup(cmd *cobra.Command, args []string) {
	out, _ := cmd.Flags().GetString("out")

	a := mustOpenApp(cmd)
	defer a.Close()

	writeJSON(out, a.Backup())
}

func writeJSON(path string, v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	if path == "" {
		fmt.Println(string(b))
		return
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o600); err != nil {
		exitErr("write export", err)
	}
	fmt.Printf(`{"ok":true,"file":%q}`+"\n", path)
}
