package requester_test

import (
	"context"
	"testing"

	"github.com/Chinenye997/IMS/internal/domain"
	"github.com/Chinenye997/IMS/internal/service/requester"
)

func TestStaticDirectory_DisplayName(t *testing.T) {
	ctx := context.Background()
	dir := requester.NewStaticDirectory(map[string]string{
		"requester-1": "Ada Obi",
	})

	name, err := dir.DisplayName(ctx, "requester-1")
	if err != nil {
		t.Fatalf("display name failed: %v", err)
	}
	if name != "Ada Obi" {
		t.Fatalf("expected Ada Obi, got %q", name)
	}

	name, err = dir.DisplayName(ctx, "ghost")
	if err != nil {
		t.Fatalf("display name failed: %v", err)
	}
	if name != "" {
		t.Fatalf("unknown requester must resolve to empty string, got %q", name)
	}

	name, err = dir.DisplayName(ctx, domain.AnonymousRequester)
	if err != nil {
		t.Fatalf("display name failed: %v", err)
	}
	if name != domain.AnonymousRequester {
		t.Fatalf("expected Anonymous passthrough, got %q", name)
	}
}

func TestStaticDirectory_Register(t *testing.T) {
	ctx := context.Background()
	dir := requester.NewStaticDirectory(nil)

	dir.Register("requester-2", "Chidi Eze")
	name, err := dir.DisplayName(ctx, "requester-2")
	if err != nil {
		t.Fatalf("display name failed: %v", err)
	}
	if name != "Chidi Eze" {
		t.Fatalf("expected Chidi Eze, got %q", name)
	}
}
