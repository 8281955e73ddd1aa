package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/grimoire/internal/model"
)

func init() {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "API connection settings",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show settings (the API key is masked)",
		Run:   runSettingsShow,
	}

	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Change settings",
		Run:   runSettingsSet,
	}
	setCmd.Flags().String("api-key", "", "Gemini API key")
	setCmd.Flags().String("base-url", "", "API base URL (proxy or mirror)")
	setCmd.Flags().String("model", "", "Model id")
	setCmd.Flags().Bool("status-bar", true, "Show the status bar")
	setCmd.Flags().String("css", "", "Global CSS")

	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "Your global persona",
	}

	profileShowCmd := &cobra.Command{
		Use:   "show",
		Short: "Show your profile",
		Run:   runProfileShow,
	}

	profileSetCmd := &cobra.Command{
		Use:   "set",
		Short: "Change your profile",
		Run:   runProfileSet,
	}
	profileSetCmd.Flags().String("name", "", "Your name")
	profileSetCmd.Flags().String("avatar", "", "Avatar URL")
	profileSetCmd.Flags().String("persona", "", "Your persona")

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "List the models available to your key",
		Run:   runModels,
	}

	settingsCmd.AddCommand(showCmd, setCmd)
	profileCmd.AddCommand(profileShowCmd, profileSetCmd)
	RootCmd.AddCommand(settingsCmd, profileCmd, modelsCmd)
}

type settingsView struct {
	Settings     model.AppSettings `json:"settings"`
	KeyAvailable bool              `json:"key_available"`
}

func runSettingsShow(cmd *cobra.Command, args []string) {
	a := mustOpenApp(cmd)
	defer a.Close()

	s := a.Settings()
	s.APIKey = mask(s.APIKey)
	printJSON(settingsView{Settings: s, KeyAvailable: a.HasAPIKey()})
}

func runSettingsSet(cmd *cobra.Command, args []string) {
	a := mustOpenApp(cmd)
	defer a.Close()

	s := a.Settings()
	flags := cmd.Flags()
	if flags.Changed("api-key") {
		s.APIKey, _ = flags.GetString("api-key")
	}
	if flags.Changed("base-url") {
		s.BaseURL, _ = flags.GetString("base-url")
	}
	if flags.Changed("model") {
		s.ModelName, _ = flags.GetString("model")
	}
	if flags.Changed("status-bar") {
		s.ShowStatusBar, _ = flags.GetBool("status-bar")
	}
	if flags.Changed("css") {
		s.GlobalCSS, _ = flags.GetString("css")
	}

	s, err := a.UpdateSettings(cmd.Context(), s)
	if err != nil {
		exitErr("update settings", err)
	}
	s.APIKey = mask(s.APIKey)
	printJSON(s)
}

func runProfileShow(cmd *cobra.Command, args []string) {
	a := mustOpenApp(cmd)
	defer a.Close()
	printJSON(a.Profile())
}

func runProfileSet(cmd *cobra.Command, args []string) {
	a := mustOpenApp(cmd)
	defer a.Close()

	p := a.Profile()
	flags := cmd.Flags()
	if flags.Changed("name") {
		p.Name, _ = flags.GetString("name")
	}
	if flags.Changed("avatar") {
		p.AvatarURL, _ = flags.GetString("avatar")
	}
	if flags.Changed("persona") {
		p.Persona, _ = flags.GetString("persona")
	}

	p, err := a.UpdateProfile(cmd.Context(), p)
	if err != nil {
		exitErr("update profile", err)
	}
	printJSON(p)
}

func runModels(cmd *cobra.Command, args []string) {
	a := mustOpenApp(cmd)
	defer a.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	models, err := a.ListModels(ctx)
	if err != nil {
		exitErr("list models", err)
	}
	if textFormat() {
		for _, m := range models {
			fmt.Println(m)
		}
		return
	}
	printJSON(models)
}

func mask(key string) string {
	if len(key) <= 4 {
		if key == "" {
			return ""
		}
		return "****"
	}
	return "****" + key[len(key)-4:]
}
