package main

import (
	"strings"
	"testing"
)

func TestJoinURLFormat(t *testing.T) {
	url := joinURL(":8080")
	if !strings.HasPrefix(url, "http://") {
		t.Errorf("expected http URL, got %s", url)
	}
	if !strings.HasSuffix(url, ":8080/") {
		t.Errorf("expected port 8080, got %s", url)
	}
}

func TestJoinURLKeepsDefaultPortOnGarbage(t *testing.T) {
	url := joinURL("not-an-address")
	if !strings.HasSuffix(url, ":8080/") {
		t.Errorf("expected fallback port 8080, got %s", url)
	}
}
