package history

import "testing"

func TestDisplayAuthor(t *testing.T) {
	tests := []struct {
		name      string
		author    string
		committer string
		want      string
	}{
		{"same person", "alice", "alice", "alice"},
		{"different committer", "alice", "bob", "alice [bob]"},
		{"case differs", "Alice", "alice", "Alice [alice]"},
		{"empty committer", "alice", "", "alice []"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := CommitRecord{Author: tt.author, Committer: tt.committer}
			if got := c.DisplayAuthor(); got != tt.want {
				t.Errorf("DisplayAuthor() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestShortHash(t *testing.T) {
	tests := map[string]string{
		"0123456789abcdef0123456789abcdef01234567": "0123456",
		"abc123": "abc123",
		"":       "",
	}
	for in, want := range tests {
		if got := ShortHash(in); got != want {
			t.Errorf("ShortHash(%q) = %q, want %q", in, got, want)
		}
	}
	if got := (CommitRecord{Hash: "fedcba9876"}).Short(); got != "fedcba9" {
		t.Errorf("Short() = %q, want fedcba9", got)
	}
}

func TestDecorate(t *testing.T) {
	tests := []struct {
		name     string
		branches []string
		want     string
	}{
		{"no branches", nil, "Fix parser"},
		{"one branch", []string{"master"}, "[master] Fix parser"},
		{"several branches", []string{"dev", "master"}, "[dev, master] Fix parser"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decorate("Fix parser", tt.branches); got != tt.want {
				t.Errorf("Decorate() = %q, want %q", got, tt.want)
			}
		})
	}
}
