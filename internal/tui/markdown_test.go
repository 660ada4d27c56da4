package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/glamour/styles"
)

func resetPreviewPreferences(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		themeName = "auto"
		mdStyleName = "auto"
	})
}

func TestMarkdownStyle_RespectsTUITheme(t *testing.T) {
	resetPreviewPreferences(t)
	applyMarkdownPreference("auto")

	applyThemePreference("Light")
	if got := markdownStyle(); got != styles.LightStyle {
		t.Fatalf("expected light; got %q", got)
	}

	applyThemePreference("dark")
	if got := markdownStyle(); got != styles.DarkStyle {
		t.Fatalf("expected dark; got %q", got)
	}
}

func TestMarkdownStyle_MDStyleOverridesTheme(t *testing.T) {
	resetPreviewPreferences(t)
	applyThemePreference("light")
	applyMarkdownPreference("dark")
	if got := markdownStyle(); got != styles.DarkStyle {
		t.Fatalf("expected dark; got %q", got)
	}
}

func TestRenderMarkdown_RendersTableText(t *testing.T) {
	resetPreviewPreferences(t)
	applyMarkdownPreference("notty")

	out := renderMarkdown("## User\n\n| Property | Type |\n| --- | --- |\n| email | string |\n", 60)
	for _, want := range []string{"User", "email", "string"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in rendered markdown; got:\n%s", want, out)
		}
	}
	if got := renderMarkdown("   ", 60); got != "" {
		t.Fatalf("expected empty output for blank markdown; got %q", got)
	}
}
