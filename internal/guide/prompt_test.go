package guide

import (
	"strings"
	"testing"
)

func TestBuildPrompt(t *testing.T) {
	worksheet := "## Service Context\n\nPayments handles card authorization."
	prompt := BuildPrompt(worksheet, PlatformDynatrace)

	for _, want := range []string{
		"tailored for: **Dynatrace**",
		"DQL (Dynatrace Query Language)",
		"```\n" + worksheet + "\n```",
		"99.9% availability",
		"configuring SLIs in Dynatrace",
		"configuring SLOs in Dynatrace",
		"Begin generating the SLO Implementation Guide now.",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	for _, section := range RequiredSections {
		if !strings.Contains(prompt, section) {
			t.Errorf("prompt missing required section %q", section)
		}
	}

	if strings.Contains(prompt, "%!") {
		t.Error("prompt contains a formatting artifact")
	}
	if strings.Contains(prompt, "part 1 of") {
		t.Error("unchunked prompt mentions worksheet parts")
	}
}

func TestBuildPromptCustomPlatform(t *testing.T) {
	prompt := BuildPrompt("content", ParsePlatform("Honeycomb"))

	if !strings.Contains(prompt, "tailored for: **Honeycomb**") {
		t.Error("prompt missing custom platform name")
	}
	if !strings.Contains(prompt, "Use the native SLO, query, and alerting capabilities of Honeycomb where relevant.") {
		t.Error("prompt missing generic guidance for custom platform")
	}
}

func TestBuildChunkPrompt(t *testing.T) {
	prompt := BuildChunkPrompt("partial content", PlatformGrafana, 2, 3)

	noteIdx := strings.Index(prompt, "This is part 2 of 3 of the worksheet.")
	fenceIdx := strings.Index(prompt, "```\npartial content\n```")
	if noteIdx < 0 {
		t.Fatal("chunk prompt missing part note")
	}
	if fenceIdx < 0 {
		t.Fatal("chunk prompt missing fenced content")
	}
	if noteIdx > fenceIdx {
		t.Error("part note should come before the worksheet content")
	}
}
