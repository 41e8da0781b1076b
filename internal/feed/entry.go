// Package feed reads the remote sticker feed: a JSON array of {name, src}
// objects, either fetched over HTTP or built from a gallery page.
package feed

// Entry is one sticker as published by the feed.
type Entry struct {
	Name string `json:"name"`
	Src  string `json:"src"`
}
