package fs

import (
	"context"
	"os"
	"syscall"
	"testing"

	"bazil.org/fuse"
)

func setupTestFS(t *testing.T) (*MetaFS, *Engine) {
	t.Helper()
	engine := NewEngine(1000, 1000)
	return New(engine), engine
}

func rootDir(t *testing.T, mfs *MetaFS) *Dir {
	t.Helper()
	root, err := mfs.Root()
	if err != nil {
		t.Fatalf("Failed to get root: %v", err)
	}
	dir, ok := root.(*Dir)
	if !ok {
		t.Fatal("Root should be a Dir")
	}
	return dir
}

func TestDirOperations(t *testing.T) {
	mfs, _ := setupTestFS(t)
	ctx := context.Background()

	t.Run("RootAttributes", func(t *testing.T) {
		dir := rootDir(t, mfs)
		attr := &fuse.Attr{}
		if err := dir.Attr(ctx, attr); err != nil {
			t.Fatalf("Failed to get root attributes: %v", err)
		}
		if attr.Mode&os.ModeDir == 0 {
			t.Error("Root should be a directory")
		}
		if attr.Uid != 1000 || attr.Gid != 1000 {
			t.Errorf("Expected uid/gid 1000/1000, got %d/%d", attr.Uid, attr.Gid)
		}
		if attr.Nlink != 2 {
			t.Errorf("Expected empty root nlink 2, got %d", attr.Nlink)
		}
	})

	t.Run("MkdirAndLookup", func(t *testing.T) {
		dir := rootDir(t, mfs)
		newDir, err := dir.Mkdir(ctx, &fuse.MkdirRequest{Name: "docs", Mode: os.ModeDir | 0o755})
		if err != nil {
			t.Fatalf("Failed to mkdir: %v", err)
		}
		if newDir == nil {
			t.Fatal("Mkdir returned nil node")
		}

		found, err := dir.Lookup(ctx, "docs")
		if err != nil {
			t.Fatalf("Failed to lookup new directory: %v", err)
		}
		if _, ok := found.(*Dir); !ok {
			t.Error("Lookup of a directory should return a Dir")
		}
	})

	t.Run("MkdirExistingFailsEEXIST", func(t *testing.T) {
		dir := rootDir(t, mfs)
		_, err := dir.Mkdir(ctx, &fuse.MkdirRequest{Name: "docs", Mode: os.ModeDir | 0o755})
		if err != syscall.EEXIST {
			t.Errorf("Expected EEXIST, got %v", err)
		}
	})

	t.Run("LookupMissingFailsENOENT", func(t *testing.T) {
		dir := rootDir(t, mfs)
		if _, err := dir.Lookup(ctx, "nothing"); err != syscall.ENOENT {
			t.Errorf("Expected ENOENT, got %v", err)
		}
	})

	t.Run("CreateAndReadDirAll", func(t *testing.T) {
		dir := rootDir(t, mfs)
		node, handle, err := dir.Create(ctx, &fuse.CreateRequest{Name: "notes.txt", Mode: 0o644}, &fuse.CreateResponse{})
		if err != nil {
			t.Fatalf("Failed to create file: %v", err)
		}
		if node == nil || handle == nil {
			t.Fatal("Create should return a node and a handle")
		}

		entries, err := dir.ReadDirAll(ctx)
		if err != nil {
			t.Fatalf("Failed to read directory: %v", err)
		}

		var names []string
		for _, e := range entries {
			names = append(names, e.Name)
		}
		want := map[string]fuse.DirentType{
			".":         fuse.DT_Dir,
			"..":        fuse.DT_Dir,
			"docs":      fuse.DT_Dir,
			"notes.txt": fuse.DT_File,
		}
		if len(entries) != len(want) {
			t.Fatalf("Expected %d entries, got %v", len(want), names)
		}
		for _, e := range entries {
			wantType, ok := want[e.Name]
			if !ok {
				t.Errorf("Unexpected entry %q", e.Name)
				continue
			}
			if e.Type != wantType {
				t.Errorf("Entry %q: expected type %v, got %v", e.Name, wantType, e.Type)
			}
		}
	})

	t.Run("RemoveFile", func(t *testing.T) {
		dir := rootDir(t, mfs)
		if err := dir.Remove(ctx, &fuse.RemoveRequest{Name: "notes.txt", Dir: false}); err != nil {
			t.Fatalf("Failed to remove file: %v", err)
		}
		if _, err := dir.Lookup(ctx, "notes.txt"); err != syscall.ENOENT {
			t.Errorf("Expected ENOENT after remove, got %v", err)
		}
	})

	t.Run("RemoveNonEmptyDirFailsENOTEMPTY", func(t *testing.T) {
		dir := rootDir(t, mfs)
		docs, err := dir.Lookup(ctx, "docs")
		if err != nil {
			t.Fatalf("Failed to lookup docs: %v", err)
		}
		if _, _, err := docs.(*Dir).Create(ctx, &fuse.CreateRequest{Name: "a.txt", Mode: 0o644}, &fuse.CreateResponse{}); err != nil {
			t.Fatalf("Failed to create file in docs: %v", err)
		}

		if err := dir.Remove(ctx, &fuse.RemoveRequest{Name: "docs", Dir: true}); err != syscall.ENOTEMPTY {
			t.Errorf("Expected ENOTEMPTY, got %v", err)
		}

		if err := docs.(*Dir).Remove(ctx, &fuse.RemoveRequest{Name: "a.txt", Dir: false}); err != nil {
			t.Fatalf("Failed to empty docs: %v", err)
		}
		if err := dir.Remove(ctx, &fuse.RemoveRequest{Name: "docs", Dir: true}); err != nil {
			t.Errorf("Expected rmdir of emptied directory to succeed, got %v", err)
		}
	})

	t.Run("SetattrChmod", func(t *testing.T) {
		dir := rootDir(t, mfs)
		newDir, err := dir.Mkdir(ctx, &fuse.MkdirRequest{Name: "modes", Mode: os.ModeDir | 0o755})
		if err != nil {
			t.Fatalf("Failed to mkdir: %v", err)
		}

		req := &fuse.SetattrRequest{Valid: fuse.SetattrMode, Mode: 0o700}
		resp := &fuse.SetattrResponse{}
		if err := newDir.(*Dir).Setattr(ctx, req, resp); err != nil {
			t.Fatalf("Failed to setattr: %v", err)
		}
		if resp.Attr.Mode.Perm() != 0o700 {
			t.Errorf("Expected mode 700, got %o", resp.Attr.Mode.Perm())
		}
		if resp.Attr.Mode&os.ModeDir == 0 {
			t.Error("Directory bit should survive chmod")
		}
	})
}

func TestDirXattrs(t *testing.T) {
	mfs, _ := setupTestFS(t)
	ctx := context.Background()
	dir := rootDir(t, mfs)

	if err := dir.Setxattr(ctx, &fuse.SetxattrRequest{Name: "user.root-tag", Xattr: []byte("top")}); err != nil {
		t.Fatalf("Failed to setxattr on root: %v", err)
	}

	resp := &fuse.GetxattrResponse{}
	if err := dir.Getxattr(ctx, &fuse.GetxattrRequest{Name: "user.root-tag"}, resp); err != nil {
		t.Fatalf("Failed to getxattr: %v", err)
	}
	if string(resp.Xattr) != "top" {
		t.Errorf("Expected %q, got %q", "top", resp.Xattr)
	}

	if err := dir.Removexattr(ctx, &fuse.RemovexattrRequest{Name: "user.root-tag"}); err != nil {
		t.Fatalf("Failed to removexattr: %v", err)
	}
	if err := dir.Getxattr(ctx, &fuse.GetxattrRequest{Name: "user.root-tag"}, &fuse.GetxattrResponse{}); err != fuse.ErrNoXattr {
		t.Errorf("Expected ErrNoXattr, got %v", err)
	}
}
