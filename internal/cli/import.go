package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/grimoire/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Restore a backup",
		Long:  "Restore a backup (file or stdin) produced by export backup. Settings, contacts and the world book are replaced; the profile and forum are kept.",
		Args:  cobra.MaximumNArgs(1),
		Run:   runImport,
	}

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	var (
		data []byte
		err  error
	)
	if len(args) == 1 {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		exitErr("read backup", err)
	}

	var backup model.Backup
	if err := json.Unmarshal(data, &backup); err != nil {
		exitErr("parse json", err)
	}

	a := mustOpenApp(cmd)
	defer a.Close()

	if err := a.RestoreBackup(cmd.Context(), backup); err != nil {
		exitErr("import", err)
	}

	fmt.Printf(`{"ok":true,"contacts":%d,"world_entries":%d}`+"\n", len(backup.Contacts), len(backup.WorldEntries))
}
