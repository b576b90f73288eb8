package bootstrap

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestContainsUUID(t *testing.T) {
	data := []byte(`# /etc/fstab
UUID=aaaa-bbbb /     xfs  defaults 0 0
# UUID=3f1c2a9e-5b7d-4e8f-9a01-23456789abcd /old ext4 defaults 0 2

UUID="3F1C2A9E-5B7D-4E8F-9A01-23456789ABCD" /data ext4 defaults,nofail 0 2
`)
	tests := []struct {
		name string
		data []byte
		id   string
		want bool
	}{
		{name: "quoted upper-case entry", data: data, id: testUUID, want: true},
		{name: "absent uuid", data: data, id: "11111111-2222-3333-4444-555555555555", want: false},
		{name: "commented-out line", data: []byte("# UUID=" + testUUID + " /data ext4 defaults 0 2\n"), id: testUUID, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := containsUUID(tt.data, tt.id)
			if err != nil {
				t.Fatalf("containsUUID: %v", err)
			}
			if got != tt.want {
				t.Errorf("containsUUID() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMountTableEnsureRejectsOversizedLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fstab")
	existing := "# " + strings.Repeat("x", 70*1024) + "\n"
	if err := os.WriteFile(path, []byte(existing), 0o644); err != nil {
		t.Fatal(err)
	}

	table := NewMountTable(path)
	if _, err := table.HasUUID(testUUID); err == nil {
		t.Error("HasUUID() error = nil for oversized line, want error")
	}
	added, err := table.Ensure(MountEntry{UUID: testUUID, MountPoint: "/data", FSType: "ext4", Options: "defaults"})
	if err == nil {
		t.Fatal("Ensure() error = nil for oversized line, want error")
	}
	if added {
		t.Error("added = true, want false")
	}
	assertFile(t, path, existing)
}

func TestMountTableEnsureKeepsSymlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target", "fstab")
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		t.Fatal(err)
	}
	existing := "UUID=aaaa-bbbb / xfs defaults 0 0\n"
	if err := os.WriteFile(target, []byte(existing), 0o644); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(dir, "fstab")
	if err := os.Symlink(target, link); err != nil {
		t.Fatal(err)
	}

	table := NewMountTable(link)
	if _, err := table.Ensure(MountEntry{UUID: testUUID, MountPoint: "/data", FSType: "ext4", Options: "defaults,nofail", Pass: 2}); err != nil {
		t.Fatalf("Ensure: %v", err)
	}

	info, err := os.Lstat(link)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode()&os.ModeSymlink == 0 {
		t.Errorf("fstab mode = %v after Ensure, want symlink", info.Mode())
	}
	assertFile(t, target, existing+"UUID="+testUUID+" /data ext4 defaults,nofail 0 2\n")
}

func TestMountTableEnsure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fstab")
	existing := "UUID=aaaa-bbbb / xfs defaults 0 0"
	if err := os.WriteFile(path, []byte(existing), 0o644); err != nil {
		t.Fatal(err)
	}

	table := NewMountTable(path)
	entry := MountEntry{UUID: testUUID, MountPoint: "/data", FSType: "ext4", Options: "defaults,nofail", Pass: 2}

	added, err := table.Ensure(entry)
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if !added {
		t.Fatal("added = false on first Ensure, want true")
	}

	added, err = table.Ensure(entry)
	if err != nil {
		t.Fatalf("Ensure (second): %v", err)
	}
	if added {
		t.Error("added = true on second Ensure, want false")
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := existing + "\nUUID=" + testUUID + " /data ext4 defaults,nofail 0 2\n"
	if string(got) != want {
		t.Errorf("fstab = %q, want %q", got, want)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o644 {
		t.Errorf("fstab mode = %#o, want 0644", info.Mode().Perm())
	}
}

func TestMountTableEnsureCreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fstab")
	table := NewMountTable(path)

	ok, err := table.HasUUID(testUUID)
	if err != nil {
		t.Fatalf("HasUUID: %v", err)
	}
	if ok {
		t.Fatal("HasUUID() = true on missing file")
	}

	if _, err := table.Ensure(MountEntry{UUID: testUUID, MountPoint: "/data", FSType: "ext4", Options: "defaults"}); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if ok, _ := table.HasUUID(testUUID); !ok {
		t.Error("HasUUID() = false after Ensure")
	}
}
