package main

import (
	"strings"
	"testing"
)

func TestLinkHandler(t *testing.T) {
	tests := map[string]string{
		"volboot.md":               "README.md",
		"volboot_mount.md":         "mount.md",
		"volboot_volume_attach.md": "volume.md#volboot-volume-attach",
		"other.md":                 "other.md",
	}
	for in, want := range tests {
		if got := linkHandler(in); got != want {
			t.Errorf("linkHandler(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRemoveInheritedFlagsSection(t *testing.T) {
	in := strings.Join([]string{
		"### Options",
		"  -h, --help",
		"### Options inherited from parent commands",
		"  -P, --profile string",
		"### SEE ALSO",
		"* volboot",
	}, "\n")

	got := removeInheritedFlagsSection(in)
	if strings.Contains(got, "--profile") {
		t.Errorf("inherited flags not removed:\n%s", got)
	}
	if !strings.Contains(got, "### SEE ALSO") || !strings.Contains(got, "--help") {
		t.Errorf("other sections removed:\n%s", got)
	}
}
