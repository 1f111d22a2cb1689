package fs

import (
	"testing"
)

func TestNewPath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "root",
			input:    "/",
			expected: "/",
		},
		{
			name:     "simple path",
			input:    "/test.txt",
			expected: "/test.txt",
		},
		{
			name:     "relative path becomes absolute",
			input:    "test.txt",
			expected: "/test.txt",
		},
		{
			name:     "nested path",
			input:    "/dir/test.txt",
			expected: "/dir/test.txt",
		},
		{
			name:     "trailing slash gets cleaned",
			input:    "/dir/",
			expected: "/dir",
		},
		{
			name:     "dot segments get cleaned",
			input:    "/dir/./test.txt",
			expected: "/dir/test.txt",
		},
		{
			name:     "double dot segments get cleaned",
			input:    "/dir/../test.txt",
			expected: "/test.txt",
		},
		{
			name:     "double slashes get cleaned",
			input:    "//dir//test.txt",
			expected: "/dir/test.txt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPath(tt.input)
			if p.String() != tt.expected {
				t.Errorf("Expected path %q, got %q", tt.expected, p.String())
			}
		})
	}
}

func TestPathNavigation(t *testing.T) {
	t.Run("IsRoot", func(t *testing.T) {
		if !NewPath("/").IsRoot() {
			t.Error("Expected / to be root")
		}
		if NewPath("/a").IsRoot() {
			t.Error("Expected /a not to be root")
		}
	})

	t.Run("Parent", func(t *testing.T) {
		if got := NewPath("/a/b/c").Parent().String(); got != "/a/b" {
			t.Errorf("Expected parent /a/b, got %q", got)
		}
		if got := NewPath("/a").Parent().String(); got != "/" {
			t.Errorf("Expected parent /, got %q", got)
		}
		if got := NewPath("/").Parent().String(); got != "/" {
			t.Errorf("Expected root to be its own parent, got %q", got)
		}
	})

	t.Run("Base", func(t *testing.T) {
		if got := NewPath("/a/b/c.txt").Base(); got != "c.txt" {
			t.Errorf("Expected base c.txt, got %q", got)
		}
	})

	t.Run("Child", func(t *testing.T) {
		if got := NewPath("/").Child("a").String(); got != "/a" {
			t.Errorf("Expected child /a, got %q", got)
		}
		if got := NewPath("/a/b").Child("c").String(); got != "/a/b/c" {
			t.Errorf("Expected child /a/b/c, got %q", got)
		}
	})

	t.Run("Split", func(t *testing.T) {
		parent, name := NewPath("/docs/a.txt").Split()
		if parent.String() != "/docs" || name != "a.txt" {
			t.Errorf("Expected (/docs, a.txt), got (%q, %q)", parent.String(), name)
		}
	})
}
