package feed

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// ParseGallery extracts entries from gallery markup. Each element
// <div class="sticker"> contributes the src of its first <img> and the text
// of its first <div class="name">. Blocks missing either, or with an img
// lacking src, are skipped. Entries keep document order.
func ParseGallery(r io.Reader) ([]Entry, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse gallery html: %w", err)
	}

	entries := []Entry{}
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if isDivWithClass(n, "sticker") {
			if entry, ok := stickerEntry(n); ok {
				entries = append(entries, entry)
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return entries, nil
}

func stickerEntry(block *html.Node) (Entry, bool) {
	img := findFirst(block, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "img"
	})
	nameDiv := findFirst(block, func(n *html.Node) bool {
		return isDivWithClass(n, "name")
	})
	if img == nil || nameDiv == nil {
		return Entry{}, false
	}
	src, ok := attr(img, "src")
	if !ok {
		return Entry{}, false
	}
	return Entry{
		Name: strings.TrimSpace(textContent(nameDiv)),
		Src:  src,
	}, true
}

func findFirst(root *html.Node, match func(*html.Node) bool) *html.Node {
	for child := root.FirstChild; child != nil; child = child.NextSibling {
		if match(child) {
			return child
		}
		if found := findFirst(child, match); found != nil {
			return found
		}
	}
	return nil
}

func isDivWithClass(n *html.Node, class string) bool {
	if n.Type != html.ElementNode || n.Data != "div" {
		return false
	}
	value, ok := attr(n, "class")
	if !ok {
		return false
	}
	for _, field := range strings.Fields(value) {
		if field == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			collect(child)
		}
	}
	collect(n)
	return b.String()
}
