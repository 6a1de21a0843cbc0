package cleaner

import (
	"testing"

	"lumen/internal/models"
)

// fakeDoc records page deletions against a fixed page count.
type fakeDoc struct {
	toc     []models.TOCEntry
	pages   int
	deleted map[int]bool
	saved   string
}

func newFakeDoc(toc []models.TOCEntry, pages int) *fakeDoc {
	return &fakeDoc{toc: toc, pages: pages, deleted: map[int]bool{}}
}

func (d *fakeDoc) TOC() []models.TOCEntry { return d.toc }

func (d *fakeDoc) PageCount() int { return d.pages }

func (d *fakeDoc) DeletePages(from, to int) {
	for p := from; p <= to; p++ {
		if p >= 1 && p <= d.pages {
			d.deleted[p] = true
		}
	}
}

func (d *fakeDoc) Save(path string) error {
	d.saved = path
	return nil
}

func (d *fakeDoc) remaining() []int {
	var out []int
	for p := 1; p <= d.pages; p++ {
		if !d.deleted[p] {
			out = append(out, p)
		}
	}
	return out
}

func TestTrim_RemovesFrontMatterAndHistory(t *testing.T) {
	doc := newFakeDoc([]models.TOCEntry{
		{Level: 1, Heading: "Table of Contents", PageNumber: 2},
		{Level: 1, Heading: "Intro", PageNumber: 3},
		{Level: 1, Heading: "Document History", PageNumber: 10},
	}, 12)

	Trim(doc)

	got := doc.remaining()
	want := []int{3, 4, 5, 6, 7, 8, 9}
	if len(got) != len(want) {
		t.Fatalf("remaining pages = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("remaining pages = %v, want %v", got, want)
		}
	}
}

func TestTrim_NoHistoryHeading(t *testing.T) {
	doc := newFakeDoc([]models.TOCEntry{
		{Level: 1, Heading: "Table of Contents", PageNumber: 2},
		{Level: 1, Heading: "Intro", PageNumber: 4},
	}, 10)

	Trim(doc)

	// Front matter 1-3 gone, nothing trimmed from the tail.
	for p := 1; p <= 3; p++ {
		if !doc.deleted[p] {
			t.Errorf("page %d should be deleted", p)
		}
	}
	for p := 4; p <= 10; p++ {
		if doc.deleted[p] {
			t.Errorf("page %d should be kept", p)
		}
	}
}

func TestTrim_TOCHeadingIsLastEntry(t *testing.T) {
	// No successor entry, so the front-matter trim is skipped.
	doc := newFakeDoc([]models.TOCEntry{
		{Level: 1, Heading: "Intro", PageNumber: 1},
		{Level: 1, Heading: "Table of Contents", PageNumber: 8},
	}, 10)

	Trim(doc)

	if len(doc.deleted) != 0 {
		t.Errorf("expected no deletions, got %v", doc.deleted)
	}
}

func TestTrim_CaseInsensitiveMatching(t *testing.T) {
	doc := newFakeDoc([]models.TOCEntry{
		{Level: 1, Heading: "TABLE OF CONTENTS", PageNumber: 1},
		{Level: 1, Heading: "Guide", PageNumber: 2},
		{Level: 1, Heading: "document history", PageNumber: 9},
	}, 10)

	Trim(doc)

	if !doc.deleted[9] || !doc.deleted[10] {
		t.Error("history pages 9-10 should be deleted")
	}
	if !doc.deleted[1] {
		t.Error("front matter page 1 should be deleted")
	}
	if doc.deleted[2] {
		t.Error("page 2 should be kept")
	}
}

func TestTrim_FirstHistoryMatchOnly(t *testing.T) {
	doc := newFakeDoc([]models.TOCEntry{
		{Level: 1, Heading: "Intro", PageNumber: 1},
		{Level: 1, Heading: "Document History", PageNumber: 8},
		{Level: 2, Heading: "Old Document History", PageNumber: 9},
	}, 10)

	Trim(doc)

	// Only the first match acts, deleting 8 through the end; the
	// second match never extends or repeats the deletion.
	for p := 1; p <= 7; p++ {
		if doc.deleted[p] {
			t.Errorf("page %d should be kept", p)
		}
	}
	for p := 8; p <= 10; p++ {
		if !doc.deleted[p] {
			t.Errorf("page %d should be deleted", p)
		}
	}
}
