package rekordbox

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/kuwa72/rkbdb2xml/internal/model"
)

// ErrEncrypted is returned by Open when the database file does not carry the
// plain SQLite header. Rekordbox ships master.db encrypted with SQLCipher;
// this tool reads decrypted copies only.
var ErrEncrypted = errors.New("database appears to be encrypted; export requires a decrypted copy")

// sqliteMagic is the first 16 bytes of every plain SQLite 3 file.
const sqliteMagic = "SQLite format 3\x00"

// The library root uses the literal parent ID "root" in djmdPlaylist.
const rootParentID = "root"

// SQLiteSource reads a rekordbox master.db. The database is opened read-only
// and never modified.
type SQLiteSource struct {
	db *sql.DB
}

var _ Source = (*SQLiteSource)(nil)

// Open opens the database at path read-only. It fails fast when the file is
// missing or still SQLCipher-encrypted, before any query runs.
func Open(path string) (*SQLiteSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	header := make([]byte, len(sqliteMagic))
	_, readErr := f.Read(header)
	f.Close()
	if readErr != nil || string(header) != sqliteMagic {
		return nil, fmt.Errorf("open database %s: %w", path, ErrEncrypted)
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro&immutable=1")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}
	return &SQLiteSource{db: db}, nil
}

// Close closes the database handle.
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

// Playlists returns the playlist and folder rows. Smart playlists are
// skipped: their listings are query expressions the database does not
// materialize. The top-level parent marker "root" maps to an empty ParentID.
func (s *SQLiteSource) Playlists(ctx context.Context) ([]model.PlaylistRow, error) {
	const q = `
		SELECT ID, IFNULL(ParentID, ''), IFNULL(Name, ''), IFNULL(Attribute, 0), IFNULL(Seq, 0)
		FROM djmdPlaylist
		WHERE rb_local_deleted = 0 AND Attribute IN (0, 1)
		ORDER BY Seq, ID`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query playlists: %w", err)
	}
	defer rows.Close()

	var out []model.PlaylistRow
	for rows.Next() {
		var row model.PlaylistRow
		var attribute int
		if err := rows.Scan(&row.ID, &row.ParentID, &row.Name, &attribute, &row.Seq); err != nil {
			return nil, fmt.Errorf("scan playlist row: %w", err)
		}
		row.IsFolder = attribute == 1
		if row.ParentID == rootParentID {
			row.ParentID = ""
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query playlists: %w", err)
	}
	return out, nil
}

// PlaylistEntries returns the playlist membership rows ordered by playlist
// and position.
func (s *SQLiteSource) PlaylistEntries(ctx context.Context) ([]model.PlaylistEntryRow, error) {
	const q = `
		SELECT PlaylistID, ContentID, IFNULL(TrackNo, 0)
		FROM djmdSongPlaylist
		WHERE rb_local_deleted = 0
		ORDER BY PlaylistID, TrackNo`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query playlist entries: %w", err)
	}
	defer rows.Close()

	var out []model.PlaylistEntryRow
	for rows.Next() {
		var row model.PlaylistEntryRow
		if err := rows.Scan(&row.PlaylistID, &row.TrackID, &row.Seq); err != nil {
			return nil, fmt.Errorf("scan playlist entry row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query playlist entries: %w", err)
	}
	return out, nil
}

// Tracks returns the full collection. Tempo comes back in the database's
// centi-BPM encoding and is converted here; cue points are attached from
// djmdCue.
//
// Rekordbox keeps full beatgrids in its ANLZ analysis files, not in
// master.db, so each track with a known tempo gets a single synthesized
// beatgrid marker at position zero.
func (s *SQLiteSource) Tracks(ctx context.Context) ([]model.Track, error) {
	const q = `
		SELECT c.ID, IFNULL(c.Title, ''), IFNULL(ar.Name, ''), IFNULL(al.Name, ''),
		       IFNULL(cp.Name, ''), IFNULL(g.Name, ''), IFNULL(k.ScaleName, ''),
		       IFNULL(lb.Name, ''), IFNULL(rm.Name, ''), IFNULL(c.Subtitle, ''),
		       IFNULL(c.BPM, 0), IFNULL(c.Length, 0), IFNULL(c.TrackNo, 0),
		       IFNULL(c.DiscNo, 0), IFNULL(c.ReleaseYear, 0), IFNULL(c.FileSize, 0),
		       IFNULL(c.BitRate, 0), IFNULL(c.SampleRate, 0), IFNULL(c.Commnt, ''),
		       IFNULL(c.Rating, 0), IFNULL(c.DJPlayCount, 0), IFNULL(c.StockDate, ''),
		       IFNULL(c.FileType, 0), IFNULL(c.FolderPath, '')
		FROM djmdContent c
		LEFT JOIN djmdArtist ar ON ar.ID = c.ArtistID
		LEFT JOIN djmdAlbum  al ON al.ID = c.AlbumID
		LEFT JOIN djmdArtist cp ON cp.ID = c.ComposerID
		LEFT JOIN djmdGenre  g  ON g.ID = c.GenreID
		LEFT JOIN djmdKey    k  ON k.ID = c.KeyID
		LEFT JOIN djmdLabel  lb ON lb.ID = c.LabelID
		LEFT JOIN djmdArtist rm ON rm.ID = c.RemixerID
		WHERE c.rb_local_deleted = 0
		ORDER BY c.ID`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query tracks: %w", err)
	}
	defer rows.Close()

	var out []model.Track
	index := make(map[string]int)
	for rows.Next() {
		var tr model.Track
		var centiBpm int64
		var stockDate string
		var fileType int
		if err := rows.Scan(
			&tr.ID, &tr.Title, &tr.Artist, &tr.Album,
			&tr.Composer, &tr.Genre, &tr.Tonality,
			&tr.Label, &tr.Remixer, &tr.Mix,
			&centiBpm, &tr.TotalTime, &tr.TrackNumber,
			&tr.DiscNumber, &tr.Year, &tr.Size,
			&tr.BitRate, &tr.SampleRate, &tr.Comments,
			&tr.Rating, &tr.PlayCount, &stockDate,
			&fileType, &tr.Location,
		); err != nil {
			return nil, fmt.Errorf("scan track row: %w", err)
		}
		tr.BPM = float64(centiBpm) / 100
		tr.DateAdded = dateOnly(stockDate)
		tr.Kind = kindForFileType(fileType)
		if tr.BPM > 0 {
			tr.BeatGrid = []model.BeatMark{{PositionMs: 0, BPM: tr.BPM, BeatNumber: 1}}
		}
		index[tr.ID] = len(out)
		out = append(out, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query tracks: %w", err)
	}

	cues, err := s.cuePoints(ctx)
	if err != nil {
		return nil, err
	}
	for trackID, points := range cues {
		if i, ok := index[trackID]; ok {
			out[i].CuePoints = points
		}
	}
	return out, nil
}

// cuePoints reads djmdCue grouped by track. Kind 0 rows are memory cues
// (slot -1), Kind N>=1 rows are hot cues in slot N-1. Rows with an out
// position are loops.
func (s *SQLiteSource) cuePoints(ctx context.Context) (map[string][]model.CuePoint, error) {
	const q = `
		SELECT ContentID, IFNULL(InMsec, 0), IFNULL(OutMsec, 0), IFNULL(Kind, 0), IFNULL(Comment, '')
		FROM djmdCue
		WHERE rb_local_deleted = 0
		ORDER BY ContentID, InMsec`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query cue points: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]model.CuePoint)
	for rows.Next() {
		var trackID, comment string
		var inMsec, outMsec float64
		var kind int
		if err := rows.Scan(&trackID, &inMsec, &outMsec, &kind, &comment); err != nil {
			return nil, fmt.Errorf("scan cue row: %w", err)
		}
		cue := model.CuePoint{PositionMs: inMsec, Comment: comment, Num: -1}
		if kind >= 1 {
			cue.Num = kind - 1
		}
		if outMsec > 0 {
			cue.Type = cueTypeLoop
		}
		out[trackID] = append(out[trackID], cue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query cue points: %w", err)
	}
	return out, nil
}

// Position mark types used by the XML format.
const (
	cueTypeCue  = 0
	cueTypeLoop = 4
)

// dateOnly trims a database timestamp to its yyyy-mm-dd prefix.
func dateOnly(ts string) string {
	if len(ts) > 10 {
		return ts[:10]
	}
	return ts
}

// kindForFileType maps djmdContent.FileType codes to the format labels the
// XML uses.
func kindForFileType(fileType int) string {
	switch fileType {
	case 1:
		return "MP3 File"
	case 4:
		return "M4A File"
	case 5:
		return "FLAC File"
	case 11:
		return "WAV File"
	case 12:
		return "AIFF File"
	default:
		return ""
	}
}

// IsDatabase reports whether path looks like a library database file by
// extension. Used by the CLI to catch obviously wrong -db arguments early.
func IsDatabase(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".db")
}
