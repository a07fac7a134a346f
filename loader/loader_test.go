package loader

import (
	"bytes"
	"testing"
)

func TestWriteThenReadRoundTrips(t *testing.T) {
	img := Image{
		{Origin: 0x3000, Words: []uint16{0x1261, 0xF025}},
		{Origin: 0x4000, Words: []uint16{0x00FF}},
	}

	var buf bytes.Buffer
	if err := WriteImage(&buf, img); err != nil {
		t.Fatalf("WriteImage: %v", err)
	}

	got, err := ReadImage(&buf)
	if err != nil {
		t.Fatalf("ReadImage: %v", err)
	}
	if len(got) != len(img) {
		t.Fatalf("got %d segments, want %d", len(got), len(img))
	}
	for i := range img {
		if got[i].Origin != img[i].Origin {
			t.Errorf("segment %d origin = %#x, want %#x", i, got[i].Origin, img[i].Origin)
		}
		if !wordsEqual(got[i].Words, img[i].Words) {
			t.Errorf("segment %d words = %v, want %v", i, got[i].Words, img[i].Words)
		}
	}
}

func TestReadEmptyImage(t *testing.T) {
	img, err := ReadImage(bytes.NewReader(nil))
	if err != nil {
		t.Fatalf("ReadImage: %v", err)
	}
	if len(img) != 0 {
		t.Errorf("got %d segments, want 0", len(img))
	}
}

func wordsEqual(a, b []uint16) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
