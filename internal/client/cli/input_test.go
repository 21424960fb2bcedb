package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestGetSimpleText(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("hello world\n"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name?", &out)
	if err != nil || got != "hello world" {
		t.Fatalf("got %q, err=%v", got, err)
	}
}

func TestGetSimpleTextEOF(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("lastline"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name?", &out)
	if err != nil || got != "lastline" {
		t.Fatalf("got %q, err=%v", got, err)
	}
}

func TestGetOptionalText_EmptyKeepsFallback(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("\n"))
	var out bytes.Buffer
	got, err := GetOptionalText(in, "Name", "Alice", &out)
	if err != nil || got != "Alice" {
		t.Fatalf("got %q, err=%v", got, err)
	}
}

func TestGetOptionalText_InputOverridesFallback(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("Bob\n"))
	var out bytes.Buffer
	got, err := GetOptionalText(in, "Name", "Alice", &out)
	if err != nil || got != "Bob" {
		t.Fatalf("got %q, err=%v", got, err)
	}
}

func TestGetPassword_Error(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) {
		return nil, errors.New("boom")
	}
	var out bytes.Buffer
	_, err := GetPassword(&out, "Enter password")
	if err == nil {
		t.Fatal("expected error")
	}
}
