package domain

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"golang.org/x/net/html/charset"
)

// City is one selectable location. ID is the opaque provider-assigned code
// used as the forecast-fetch key.
type City struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Prefecture groups the cities published under one prefecture entry.
// Cities keep the feed's document order.
type Prefecture struct {
	Name   string `json:"name"`
	Cities []City `json:"cities"`
}

// Directory is one immutable snapshot of the location feed. Prefectures keep
// the feed's document order; every retained prefecture has at least one city.
// Prefecture names are not required to be unique; lookups use first match.
type Directory struct {
	Prefectures []Prefecture
}

// Empty reports whether the snapshot contains no usable prefectures.
// An empty directory parses fine but means initialization failed for callers.
func (d Directory) Empty() bool {
	return len(d.Prefectures) == 0
}

// PrefectureNames returns the display names in document order.
func (d Directory) PrefectureNames() []string {
	names := make([]string, len(d.Prefectures))
	for i, p := range d.Prefectures {
		names[i] = p.Name
	}
	return names
}

// Feed document shapes. The feed nests prefecture elements under a channel
// source element; namespace prefixes vary between mirrors, so matching is by
// local element name only.

type directoryXML struct {
	Prefectures []prefectureXML `xml:"channel>source>pref"`
}

type prefectureXML struct {
	Title  string    `xml:"title,attr"`
	Cities []cityXML `xml:"city"`
}

type cityXML struct {
	Title string `xml:"title,attr"`
	ID    string `xml:"id,attr"`
}

// ParseDirectory builds a Directory from the raw bytes of the location feed.
// The document's character encoding is taken from its XML declaration rather
// than assumed to be UTF-8.
//
// Entries with incomplete attributes are dropped, not fatal: a prefecture
// without a title is skipped whole, a city missing its id or title is skipped
// individually, and a prefecture left with zero cities is removed. Ordering
// at both levels follows the document.
func ParseDirectory(data []byte) (Directory, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel

	var doc directoryXML
	if err := dec.Decode(&doc); err != nil {
		return Directory{}, fmt.Errorf("parse location feed: %w", err)
	}

	var prefectures []Prefecture
	for _, p := range doc.Prefectures {
		if p.Title == "" {
			continue
		}
		var cities []City
		for _, c := range p.Cities {
			if c.ID == "" || c.Title == "" {
				continue
			}
			cities = append(cities, City{ID: c.ID, Name: c.Title})
		}
		if len(cities) == 0 {
			continue
		}
		prefectures = append(prefectures, Prefecture{Name: p.Title, Cities: cities})
	}

	return Directory{Prefectures: prefectures}, nil
}
