package cmd

import (
	"context"
	"os"
	"testing"

	"github.com/spf13/cobra"
)

func TestParseOwner(t *testing.T) {
	tests := []struct {
		in       string
		uid, gid int
		wantErr  bool
	}{
		{in: "0:0"},
		{in: "1000:1001", uid: 1000, gid: 1001},
		{in: "1000", wantErr: true},
		{in: "a:b", wantErr: true},
		{in: "-1:0", wantErr: true},
	}
	for _, tt := range tests {
		uid, gid, err := parseOwner(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseOwner(%q) succeeded, want error", tt.in)
			}
			continue
		}
		if err != nil || uid != tt.uid || gid != tt.gid {
			t.Errorf("parseOwner(%q) = %d, %d, %v; want %d, %d", tt.in, uid, gid, err, tt.uid, tt.gid)
		}
	}
}

func TestParseMode(t *testing.T) {
	got, err := parseMode("0750")
	if err != nil {
		t.Fatalf("parseMode: %v", err)
	}
	if got != os.FileMode(0o750) {
		t.Errorf("parseMode = %v, want 0750", got)
	}
	for _, in := range []string{"rwx", "0999", "17777"} {
		if _, err := parseMode(in); err == nil {
			t.Errorf("parseMode(%q) succeeded, want error", in)
		}
	}
}

func TestNeedsAws(t *testing.T) {
	find := func(args ...string) *cobra.Command {
		c, _, err := RootCmd.Find(args)
		if err != nil {
			t.Fatalf("Find(%v): %v", args, err)
		}
		return c
	}

	tests := []struct {
		args []string
		want bool
	}{
		{[]string{"mount"}, false},
		{[]string{"version"}, false},
		{[]string{"env", "show"}, false},
		{[]string{"volume", "attach"}, true},
		{[]string{"volume", "ls"}, true},
		{[]string{"param", "get"}, true},
	}
	for _, tt := range tests {
		if got := needsAws(find(tt.args...)); got != tt.want {
			t.Errorf("needsAws(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}
}

func TestResolveEnv(t *testing.T) {
	prev := deployEnv
	t.Cleanup(func() { deployEnv = prev })

	deployEnv = ""
	t.Setenv("VOLBOOT_ENV", "prod")
	if err := resolveEnv(); err != nil {
		t.Fatalf("resolveEnv: %v", err)
	}
	if deployEnv != "prod" {
		t.Errorf("deployEnv = %q, want prod", deployEnv)
	}

	deployEnv = "qa"
	if err := resolveEnv(); err == nil {
		t.Error("resolveEnv succeeded for qa, want error")
	}
}

func TestResolveVolumeIDWithoutParam(t *testing.T) {
	t.Setenv("VOLBOOT_VOLUME_ID", "vol-fromenv")

	got, err := resolveVolumeID(context.Background(), "vol-fromflag", false)
	if err != nil || got != "vol-fromflag" {
		t.Errorf("flag: got %q, %v", got, err)
	}
	got, err = resolveVolumeID(context.Background(), "", false)
	if err != nil || got != "vol-fromenv" {
		t.Errorf("env: got %q, %v", got, err)
	}

	t.Setenv("VOLBOOT_VOLUME_ID", "")
	if _, err := resolveVolumeID(context.Background(), "", false); err == nil {
		t.Error("resolveVolumeID succeeded without any source, want error")
	}
}
