package model

// Track is an immutable snapshot of one collection entry from the data
// source.
//
// Tracks are never mutated during an export: metadata transforms always
// produce a separate effective-metadata record, and tag rewriting happens on
// the materialized copy, never on the source file.
//
// BPM is in beats per minute, already converted from the source's
// hundredths-of-a-BPM representation. A zero BPM means the source has no
// tempo information for the track.
type Track struct {
	// ID is the stable collection identifier, also used as the TrackID
	// attribute and as the playlist TRACK Key in the XML document.
	ID string

	Title  string
	Artist string
	Album  string

	// BPM is the average tempo, 0 when unknown.
	BPM float64

	// Location is the source audio file path.
	Location string

	// Extended attributes carried into the COLLECTION section.
	Composer    string
	Grouping    string
	Genre       string
	Kind        string
	Comments    string
	Remixer     string
	Tonality    string
	Label       string
	Mix         string
	DateAdded   string
	Size        int64
	TotalTime   int
	DiscNumber  int
	TrackNumber int
	Year        int
	BitRate     int
	SampleRate  int
	PlayCount   int
	Rating      int

	// CuePoints are the track's memory and hot cues, in source order.
	CuePoints []CuePoint

	// BeatGrid holds the track's tempo markers, in source order.
	BeatGrid []BeatMark
}

// CuePoint is one memory cue or hot cue on a track.
type CuePoint struct {
	// PositionMs is the cue position in milliseconds from the start.
	PositionMs float64

	// Type is the source cue type (0 = cue, 4 = loop).
	Type int

	// Num is the hot cue slot, -1 for memory cues.
	Num int

	// Comment is the user-entered cue name, often empty.
	Comment string
}

// BeatMark is one beatgrid tempo marker on a track.
type BeatMark struct {
	// PositionMs is the marker position in milliseconds from the start.
	PositionMs float64

	// BPM is the tempo from this marker onward.
	BPM float64

	// BeatNumber is the beat's position within its bar (1-4).
	BeatNumber int
}
