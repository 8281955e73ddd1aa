package cli

import (
	"testing"

	"github.com/rcliao/grimoire/internal/config"
	"github.com/rcliao/grimoire/internal/model"
)

func TestGetDBPath(t *testing.T) {
	oldFlag, oldCfg := dbPath, cfg
	t.Cleanup(func() { dbPath, cfg = oldFlag, oldCfg })

	dbPath, cfg = "", &config.Config{}
	if got := getDBPath(); got != config.DefaultDBPath() {
		t.Errorf("expected default path, got %q", got)
	}

	cfg = &config.Config{DB: "/from/config.db"}
	if got := getDBPath(); got != "/from/config.db" {
		t.Errorf("expected config path, got %q", got)
	}

	dbPath = "/from/flag.db"
	if got := getDBPath(); got != "/from/flag.db" {
		t.Errorf("expected flag to win, got %q", got)
	}
}

func TestMask(t *testing.T) {
	cases := map[string]string{
		"":              "",
		"abc":           "****",
		"AIzaSyD-12345": "****2345",
	}
	for in, want := range cases {
		if got := mask(in); got != want {
			t.Errorf("mask(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEntryState(t *testing.T) {
	if got := entryState(model.WorldEntry{Active: true, IsGlobal: true}); got != "on,global" {
		t.Errorf("unexpected state %q", got)
	}
	if got := entryState(model.WorldEntry{}); got != "off,local" {
		t.Errorf("unexpected state %q", got)
	}
}

func TestReadContentFromArgs(t *testing.T) {
	if got := readContent([]string{"the", "fog", "rolls"}); got != "the fog rolls" {
		t.Errorf("unexpected content %q", got)
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"contact", "chat", "lore", "forum", "settings", "profile", "models", "export", "import", "stats", "serve", "version"}
	for _, name := range want {
		cmd, _, err := RootCmd.Find([]string{name})
		if err != nil || cmd == RootCmd {
			t.Errorf("command %q not registered", name)
		}
	}
}
