package models

import (
	"testing"
	"time"
)

func TestBeforeCreateAssignsIdentityOnce(t *testing.T) {
	p := &Post{Title: "hello", Content: "world"}
	if err := p.BeforeCreate(nil); err != nil {
		t.Fatalf("before create failed: %v", err)
	}
	if p.ID == "" {
		t.Fatal("expected generated id")
	}
	first := p.ID
	if err := p.BeforeCreate(nil); err != nil {
		t.Fatalf("before create failed: %v", err)
	}
	if p.ID != first {
		t.Fatalf("id reassigned: %s -> %s", first, p.ID)
	}
}

func TestBeforeCreateGeneratesDistinctIDs(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		p := &Post{}
		if err := p.BeforeCreate(nil); err != nil {
			t.Fatalf("before create failed: %v", err)
		}
		if _, dup := seen[p.ID]; dup {
			t.Fatalf("duplicate id generated: %s", p.ID)
		}
		seen[p.ID] = struct{}{}
	}
}

func TestBeforeCreateDefaultsAuthor(t *testing.T) {
	p := &Post{}
	if err := p.BeforeCreate(nil); err != nil {
		t.Fatalf("before create failed: %v", err)
	}
	if p.Author != AnonymousAuthor {
		t.Fatalf("author want %q got %q", AnonymousAuthor, p.Author)
	}

	p = &Post{Author: "alice"}
	if err := p.BeforeCreate(nil); err != nil {
		t.Fatalf("before create failed: %v", err)
	}
	if p.Author != "alice" {
		t.Fatalf("author overwritten: got %q", p.Author)
	}
}

func TestImagesCodecRoundTrip(t *testing.T) {
	paths := []string{"/fanstatic/blog/uploads/img_a.png", "/fanstatic/blog/uploads/img_b.png"}
	encoded := EncodeImages(paths)
	if encoded == nil {
		t.Fatal("expected encoded payload")
	}
	decoded := DecodeImages(encoded)
	if len(decoded) != 2 || decoded[0] != paths[0] || decoded[1] != paths[1] {
		t.Fatalf("round trip mismatch: %v", decoded)
	}
}

func TestEncodeImagesEmptyStaysNull(t *testing.T) {
	if EncodeImages(nil) != nil {
		t.Fatal("nil slice should encode to nil")
	}
	if EncodeImages([]string{}) != nil {
		t.Fatal("empty slice should encode to nil")
	}
}

func TestDecodeImagesFallsBackToEmptyList(t *testing.T) {
	if got := DecodeImages(nil); len(got) != 0 || got == nil {
		t.Fatalf("nil column want empty list got %#v", got)
	}
	malformed := "{not json"
	if got := DecodeImages(&malformed); len(got) != 0 || got == nil {
		t.Fatalf("malformed payload want empty list got %#v", got)
	}
	null := "null"
	if got := DecodeImages(&null); len(got) != 0 || got == nil {
		t.Fatalf("json null want empty list got %#v", got)
	}
}

func TestAppendImagesPreservesOrder(t *testing.T) {
	p := &Post{}
	p.AppendImages([]string{"a", "b"})
	p.AppendImages([]string{"c"})
	p.AppendImages(nil)

	got := DecodeImages(p.Images)
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("images want %v got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("images want %v got %v", want, got)
		}
	}
}

func TestToViewShape(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	p := &Post{
		ID:      "abc",
		Title:   "Hello",
		Content: "World",
		Author:  "alice",
		Created: created,
		Updated: created,
	}

	view := p.ToView()
	if view["title"] != "Hello" || view["content"] != "World" || view["author"] != "alice" {
		t.Fatalf("unexpected view: %v", view)
	}
	if view["thumbnail"] != nil {
		t.Fatalf("thumbnail want nil got %v", view["thumbnail"])
	}
	images, ok := view["images"].([]string)
	if !ok || len(images) != 0 {
		t.Fatalf("images want empty list got %#v", view["images"])
	}
	if view["created"] != "2026-03-14" || view["updated"] != "2026-03-14" {
		t.Fatalf("dates want 2026-03-14 got %v / %v", view["created"], view["updated"])
	}

	thumb := "/fanstatic/blog/uploads/thumb_x.png"
	p.Thumbnail = &thumb
	if got := p.ToView()["thumbnail"]; got != thumb {
		t.Fatalf("thumbnail want %q got %v", thumb, got)
	}
}
