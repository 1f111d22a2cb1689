package fs

import (
	"bytes"
	"testing"
	"time"
)

func TestContentBuffer(t *testing.T) {
	now := time.Now()

	t.Run("WriteThenRead", func(t *testing.T) {
		n := newFileNode(0o644, 0, 0, now)
		if got := n.writeContent(0, []byte("hello")); got != 5 {
			t.Errorf("Expected 5 bytes written, got %d", got)
		}
		if got := n.readContent(0, 5); !bytes.Equal(got, []byte("hello")) {
			t.Errorf("Expected %q, got %q", "hello", got)
		}
		if n.size() != 5 {
			t.Errorf("Expected size 5, got %d", n.size())
		}
	})

	t.Run("OverwriteKeepsTail", func(t *testing.T) {
		n := newFileNode(0o644, 0, 0, now)
		n.writeContent(0, []byte("abcdef"))
		n.writeContent(1, []byte("XY"))
		if got := n.readContent(0, 6); !bytes.Equal(got, []byte("aXYdef")) {
			t.Errorf("Expected %q, got %q", "aXYdef", got)
		}
	})

	t.Run("WriteBeyondEndZeroFills", func(t *testing.T) {
		n := newFileNode(0o644, 0, 0, now)
		n.writeContent(0, []byte("ab"))
		n.writeContent(5, []byte("cd"))
		want := []byte{'a', 'b', 0, 0, 0, 'c', 'd'}
		if got := n.readContent(0, 10); !bytes.Equal(got, want) {
			t.Errorf("Expected %v, got %v", want, got)
		}
		if n.size() != 7 {
			t.Errorf("Expected size 7, got %d", n.size())
		}
	})

	t.Run("ReadClampsToBuffer", func(t *testing.T) {
		n := newFileNode(0o644, 0, 0, now)
		n.writeContent(0, []byte("short"))
		if got := n.readContent(3, 100); !bytes.Equal(got, []byte("rt")) {
			t.Errorf("Expected %q, got %q", "rt", got)
		}
		if got := n.readContent(99, 10); got != nil {
			t.Errorf("Expected nil for read past end, got %v", got)
		}
	})

	t.Run("ReadReturnsCopy", func(t *testing.T) {
		n := newFileNode(0o644, 0, 0, now)
		n.writeContent(0, []byte("data"))
		got := n.readContent(0, 4)
		got[0] = 'X'
		if !bytes.Equal(n.readContent(0, 4), []byte("data")) {
			t.Error("Read must not alias the content buffer")
		}
	})

	t.Run("TruncateShrink", func(t *testing.T) {
		n := newFileNode(0o644, 0, 0, now)
		n.writeContent(0, []byte("abcdef"))
		n.truncateContent(3)
		if got := n.readContent(0, 10); !bytes.Equal(got, []byte("abc")) {
			t.Errorf("Expected %q, got %q", "abc", got)
		}
	})

	t.Run("TruncateZeroExtend", func(t *testing.T) {
		n := newFileNode(0o644, 0, 0, now)
		n.writeContent(0, []byte("ab"))
		n.truncateContent(4)
		want := []byte{'a', 'b', 0, 0}
		if got := n.readContent(0, 10); !bytes.Equal(got, want) {
			t.Errorf("Expected %v, got %v", want, got)
		}
		if n.size() != 4 {
			t.Errorf("Expected size 4, got %d", n.size())
		}
	})
}

func TestXattrSet(t *testing.T) {
	t.Run("InsertionOrderPreserved", func(t *testing.T) {
		x := newXattrSet()
		x.set("user.c", []byte("3"))
		x.set("user.a", []byte("1"))
		x.set("user.b", []byte("2"))

		names := x.list()
		want := []string{"user.c", "user.a", "user.b"}
		if len(names) != len(want) {
			t.Fatalf("Expected %d names, got %d", len(want), len(names))
		}
		for i := range want {
			if names[i] != want[i] {
				t.Errorf("Expected names[%d]=%q, got %q", i, want[i], names[i])
			}
		}
	})

	t.Run("OverwriteKeepsPosition", func(t *testing.T) {
		x := newXattrSet()
		x.set("user.a", []byte("1"))
		x.set("user.b", []byte("2"))
		x.set("user.a", []byte("updated"))

		names := x.list()
		if len(names) != 2 || names[0] != "user.a" {
			t.Errorf("Expected user.a to keep first position, got %v", names)
		}
		if v, _ := x.get("user.a"); !bytes.Equal(v, []byte("updated")) {
			t.Errorf("Expected updated value, got %q", v)
		}
	})

	t.Run("ValueIsCopied", func(t *testing.T) {
		x := newXattrSet()
		buf := []byte("original")
		x.set("user.a", buf)
		buf[0] = 'X'
		if v, _ := x.get("user.a"); !bytes.Equal(v, []byte("original")) {
			t.Errorf("Expected stored value to be isolated, got %q", v)
		}
	})

	t.Run("Remove", func(t *testing.T) {
		x := newXattrSet()
		x.set("user.a", []byte("1"))
		x.set("user.b", []byte("2"))

		if !x.remove("user.a") {
			t.Error("Expected remove to succeed")
		}
		if x.remove("user.a") {
			t.Error("Expected second remove to fail")
		}
		names := x.list()
		if len(names) != 1 || names[0] != "user.b" {
			t.Errorf("Expected only user.b, got %v", names)
		}
	})
}
