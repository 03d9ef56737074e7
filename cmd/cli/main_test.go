package main

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jingleboxpro/jinglebox/internal/model"
	"github.com/jingleboxpro/jinglebox/internal/prefs"
)

func withTmpConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return dir
}

func Test_cfgDir_And_Paths(t *testing.T) {
	_ = withTmpConfig(t)
	got := cfgDir()
	base := os.Getenv("XDG_CONFIG_HOME") + "/jinglebox"
	if got != base {
		t.Fatalf("cfgDir=%q, want %q", got, base)
	}
	if !strings.HasPrefix(tokenPath(), base) || !strings.HasSuffix(tokenPath(), "token.json") {
		t.Fatalf("tokenPath unexpected: %s", tokenPath())
	}
}

func Test_token_SaveLoad(t *testing.T) {
	_ = withTmpConfig(t)

	if _, err := loadToken(); err == nil {
		t.Fatalf("expected error when token file missing")
	}
	if err := saveToken(tokenFile{AccessToken: "tok", ExpiresAt: time.Now().Add(time.Minute), Username: "frosty"}); err != nil {
		t.Fatalf("saveToken: %v", err)
	}
	tf, err := loadToken()
	if err != nil || tf.AccessToken != "tok" || tf.Username != "frosty" {
		t.Fatalf("loadToken: %+v err=%v", tf, err)
	}
	if err := saveToken(tokenFile{AccessToken: "tok2", ExpiresAt: time.Now().Add(-time.Minute)}); err != nil {
		t.Fatalf("saveToken expired: %v", err)
	}
	if _, err := loadToken(); err == nil {
		t.Fatalf("want error for expired token")
	}
}

func Test_waitReveal_CancelAborts(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := waitReveal(ctx, time.Second, "testing"); err == nil {
		t.Fatal("expected context error")
	}
	if err := waitReveal(context.Background(), 0, "testing"); err != nil {
		t.Fatalf("zero delay should pass: %v", err)
	}
}

func Test_runCustomize_EditsPrefs(t *testing.T) {
	_ = withTmpConfig(t)

	err := runCustomize(context.Background(), []string{
		"-u", "frosty", "-scene", "cozy-cabin", "-tree", "mint",
		"-ornament", "gold:40:60", "-delay", "0s",
	})
	if err != nil {
		t.Fatalf("runCustomize: %v", err)
	}

	got := prefs.Load("frosty")
	if got.Scene != model.SceneCozyCabin || got.TreeColor != model.TreeMint {
		t.Fatalf("got %+v", got)
	}
	if len(got.PlacedOrnaments) != 1 || got.PlacedOrnaments[0].Kind != model.OrnamentGold {
		t.Fatalf("ornaments: %+v", got.PlacedOrnaments)
	}

	// scene carousel steps from the saved value
	if err := runCustomize(context.Background(), []string{"-u", "frosty", "-scene", "next", "-delay", "0s"}); err != nil {
		t.Fatalf("runCustomize next: %v", err)
	}
	if got := prefs.Load("frosty"); got.Scene != model.SceneCozyCabin.Next() {
		t.Fatalf("scene after next = %q", got.Scene)
	}

	// cancelled delay leaves the file untouched
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := runCustomize(ctx, []string{"-u", "frosty", "-reset", "-delay", "1s"}); err != nil {
		t.Fatalf("runCustomize cancelled: %v", err)
	}
	if got := prefs.Load("frosty"); got.Scene == model.DefaultCustomization().Scene {
		t.Fatalf("cancelled reset must not save, got %+v", got)
	}
}

func Test_runCustomize_Validation(t *testing.T) {
	_ = withTmpConfig(t)

	if err := runCustomize(context.Background(), []string{"-u", "frosty", "-scene", "mars-base", "-delay", "0s"}); err == nil {
		t.Fatal("unknown scene accepted")
	}
	if err := runCustomize(context.Background(), []string{"-u", "frosty", "-ornament", "gold:40:120", "-delay", "0s"}); err == nil {
		t.Fatal("out-of-range ornament accepted")
	}
	if err := runCustomize(context.Background(), []string{"-delay", "0s"}); err == nil {
		t.Fatal("missing username accepted")
	}
}
