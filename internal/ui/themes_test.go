package ui

import (
	"os"
	"testing"
)

// Theme state is global, so these tests do not run in parallel.

func TestSetTheme(t *testing.T) {
	defer SetCurrentTheme(GetCurrentTheme())

	for _, name := range []string{"dark", "light", "none"} {
		SetTheme(name)
		if got := GetCurrentTheme().Name; got != name {
			t.Errorf("SetTheme(%q) activated %q", name, got)
		}
	}
	SetTheme("neon")
	if GetCurrentTheme().Name != "dark" {
		t.Error("unknown theme names must fall back to dark")
	}
}

func TestInitThemeRespectsNoColor(t *testing.T) {
	defer SetCurrentTheme(GetCurrentTheme())

	InitTheme(true)
	if ColorRed() != "" || ColorReset() != "" {
		t.Error("no-color theme must produce empty sequences")
	}
	if GetCurrentTUITheme() != NoColorTUITheme {
		t.Error("no-color theme must select the no-color dashboard palette")
	}

	t.Setenv("NO_COLOR", "1")
	InitTheme(false)
	if GetCurrentTheme().Name != "none" {
		t.Error("NO_COLOR must disable colors")
	}
}

func TestColorAccessorsFollowTheme(t *testing.T) {
	defer SetCurrentTheme(GetCurrentTheme())

	SetCurrentTheme(DarkTheme)
	if ColorRed() != DarkTheme.Error || ColorGreen() != DarkTheme.Success ||
		ColorYellow() != DarkTheme.Warning || ColorCyan() != DarkTheme.Info ||
		ColorBlue() != DarkTheme.Primary || ColorUnderline() != DarkTheme.Underline {
		t.Error("accessors do not match the dark theme")
	}
}

func TestInitThemeFromEnv(t *testing.T) {
	defer SetCurrentTheme(GetCurrentTheme())
	if _, set := os.LookupEnv("NO_COLOR"); set {
		t.Skip("NO_COLOR is set in the environment")
	}

	t.Setenv("MATBENCH_THEME", "light")
	InitTheme(false)
	if GetCurrentTheme().Name != "light" {
		t.Errorf("MATBENCH_THEME=light activated %q", GetCurrentTheme().Name)
	}

	t.Setenv("MATBENCH_THEME", "")
	InitTheme(false)
	if GetCurrentTheme().Name != "dark" {
		t.Errorf("the default theme should be dark, got %q", GetCurrentTheme().Name)
	}
}
