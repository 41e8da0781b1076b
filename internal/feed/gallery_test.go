package feed

import (
	"strings"
	"testing"
)

const galleryHTML = `<div id="gallery">
  <div class="sticker">
    <img src="https://cdn.example/orpheus.png" alt="">
    <div class="name"> Orpheus </div>
  </div>
  <div class="sticker rare">
    <a href="#"><img src="https://cdn.example/heidi.png"></a>
    <div class="name"><span>Heidi</span> the Hedgehog</div>
  </div>
  <div class="sticker">
    <div class="name">No image</div>
  </div>
  <div class="sticker">
    <img alt="missing src">
    <div class="name">No src</div>
  </div>
  <div class="stickers-footer">
    <img src="https://cdn.example/footer.png">
    <div class="name">Footer</div>
  </div>
</div>`

func TestParseGalleryExtractsStickerBlocksInOrder(t *testing.T) {
	entries, err := ParseGallery(strings.NewReader(galleryHTML))
	if err != nil {
		t.Fatalf("parse gallery: %v", err)
	}
	want := []Entry{
		{Name: "Orpheus", Src: "https://cdn.example/orpheus.png"},
		{Name: "Heidi the Hedgehog", Src: "https://cdn.example/heidi.png"},
	}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d: %+v", len(want), len(entries), entries)
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Fatalf("entry %d = %+v, want %+v", i, entries[i], want[i])
		}
	}
}

func TestParseGalleryEmptyDocument(t *testing.T) {
	entries, err := ParseGallery(strings.NewReader("<html><body></body></html>"))
	if err != nil {
		t.Fatalf("parse gallery: %v", err)
	}
	if entries == nil || len(entries) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", entries)
	}
}
