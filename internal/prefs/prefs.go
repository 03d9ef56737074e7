// Package prefs stores per-page scene and tree customization on the client.
// Each page gets its own file so preferences never bleed between pages.
package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jingleboxpro/jinglebox/internal/model"
)

// Dir returns the preference directory, honoring XDG_CONFIG_HOME.
func Dir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "jinglebox", "pages")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "jinglebox", "pages")
}

// Path returns the preference file for a page's username.
func Path(username string) string {
	return filepath.Join(Dir(), username+".json")
}

// Load reads the saved customization for a page. A missing or unreadable file
// yields the defaults; invalid stored values are replaced with defaults too so
// a stale file never breaks rendering.
func Load(username string) model.Customization {
	b, err := os.ReadFile(Path(username))
	if err != nil {
		return model.DefaultCustomization()
	}
	var c model.Customization
	if err := json.Unmarshal(b, &c); err != nil {
		return model.DefaultCustomization()
	}
	if err := c.Validate(); err != nil {
		return model.DefaultCustomization()
	}
	return c
}

// Save validates and writes the customization atomically. It writes a temp
// file first and renames it over the target so a crash mid-write cannot
// leave a torn file.
func Save(username string, c model.Customization) error {
	if username == "" {
		return errors.New("validation: empty username")
	}
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(Dir(), 0o700); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(Dir(), username+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), Path(username))
}
