package rbxml

import "encoding/xml"

// Document is the root of the exported XML: a DJ_PLAYLISTS element carrying
// the product stamp, the track collection and the playlist tree.
//
// The element and attribute layout mirrors the vendor's own XML export.
// Attribute order follows struct field order, which encoding/xml emits
// deterministically; the byte-identical-output property the export
// guarantees rests on that.
type Document struct {
	XMLName xml.Name `xml:"DJ_PLAYLISTS"`
	Version string   `xml:"Version,attr"`

	Product    Product    `xml:"PRODUCT"`
	Collection Collection `xml:"COLLECTION"`
	Playlists  Playlists  `xml:"PLAYLISTS"`
}

// Product identifies the generating application.
type Product struct {
	Name    string `xml:"Name,attr"`
	Version string `xml:"Version,attr"`
	Company string `xml:"Company,attr"`
}

// Collection lists every exported track with full metadata and markers.
type Collection struct {
	Entries int     `xml:"Entries,attr"`
	Tracks  []Track `xml:"TRACK"`
}

// Track is one COLLECTION entry. TrackID, Name and Location are always
// emitted; the remaining attributes appear only when the source has a value,
// matching the vendor export.
type Track struct {
	TrackID     string `xml:"TrackID,attr"`
	Name        string `xml:"Name,attr"`
	Artist      string `xml:"Artist,attr,omitempty"`
	Composer    string `xml:"Composer,attr,omitempty"`
	Album       string `xml:"Album,attr,omitempty"`
	Grouping    string `xml:"Grouping,attr,omitempty"`
	Genre       string `xml:"Genre,attr,omitempty"`
	Kind        string `xml:"Kind,attr,omitempty"`
	Size        int64  `xml:"Size,attr,omitempty"`
	TotalTime   int    `xml:"TotalTime,attr,omitempty"`
	DiscNumber  int    `xml:"DiscNumber,attr,omitempty"`
	TrackNumber int    `xml:"TrackNumber,attr,omitempty"`
	Year        int    `xml:"Year,attr,omitempty"`
	AverageBpm  string `xml:"AverageBpm,attr,omitempty"`
	DateAdded   string `xml:"DateAdded,attr,omitempty"`
	BitRate     int    `xml:"BitRate,attr,omitempty"`
	SampleRate  int    `xml:"SampleRate,attr,omitempty"`
	Comments    string `xml:"Comments,attr,omitempty"`
	PlayCount   int    `xml:"PlayCount,attr,omitempty"`
	Rating      int    `xml:"Rating,attr,omitempty"`
	Remixer     string `xml:"Remixer,attr,omitempty"`
	Tonality    string `xml:"Tonality,attr,omitempty"`
	Label       string `xml:"Label,attr,omitempty"`
	Mix         string `xml:"Mix,attr,omitempty"`
	Location    string `xml:"Location,attr"`

	Tempos        []Tempo        `xml:"TEMPO"`
	PositionMarks []PositionMark `xml:"POSITION_MARK"`
}

// Tempo is one beatgrid marker. Inizio is seconds with three decimals, Bpm
// has two decimals, Metro is the time signature.
type Tempo struct {
	Inizio  string `xml:"Inizio,attr"`
	Bpm     string `xml:"Bpm,attr"`
	Metro   string `xml:"Metro,attr"`
	Battito int    `xml:"Battito,attr"`
}

// PositionMark is one cue point. Num is the hot cue slot, -1 for memory
// cues.
type PositionMark struct {
	Name  string `xml:"Name,attr"`
	Type  int    `xml:"Type,attr"`
	Start string `xml:"Start,attr"`
	Num   int    `xml:"Num,attr"`
}

// Playlists wraps the playlist tree under the vendor's ROOT node.
type Playlists struct {
	Root Node `xml:"NODE"`
}

// Node is a playlist-tree node: Type "0" folders carry Count and child
// nodes, Type "1" playlists carry KeyType, Entries and TRACK references.
type Node struct {
	Name    string `xml:"Name,attr"`
	Type    string `xml:"Type,attr"`
	Count   string `xml:"Count,attr,omitempty"`
	KeyType string `xml:"KeyType,attr,omitempty"`
	Entries string `xml:"Entries,attr,omitempty"`

	Nodes  []Node     `xml:"NODE"`
	Tracks []TrackKey `xml:"TRACK"`
}

// TrackKey references a collection track by its TrackID.
type TrackKey struct {
	Key string `xml:"Key,attr"`
}

const (
	nodeTypeFolder   = "0"
	nodeTypePlaylist = "1"
)
