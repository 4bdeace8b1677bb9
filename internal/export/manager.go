package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/kuwa72/rkbdb2xml/internal/config"
	"github.com/kuwa72/rkbdb2xml/internal/library"
	"github.com/kuwa72/rkbdb2xml/internal/materialize"
	"github.com/kuwa72/rkbdb2xml/internal/model"
	"github.com/kuwa72/rkbdb2xml/internal/rbxml"
	"github.com/kuwa72/rkbdb2xml/internal/rekordbox"
	"github.com/kuwa72/rkbdb2xml/internal/transform"
)

// ErrCancelled is returned by Run when the context was cancelled before the
// document was written. A cancelled run never produces an output file.
var ErrCancelled = errors.New("export cancelled")

// Phase is the orchestrator's position in the export sequence.
type Phase int32

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseResolving
	PhaseTransforming
	PhaseMaterializing
	PhaseSerializing
	PhaseDone
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseResolving:
		return "resolving"
	case PhaseTransforming:
		return "transforming"
	case PhaseMaterializing:
		return "materializing"
	case PhaseSerializing:
		return "serializing"
	case PhaseDone:
		return "done"
	case PhaseFailed:
		return "failed"
	default:
		return fmt.Sprintf("Phase(%d)", int32(p))
	}
}

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents an export progress update. The counters are
// monotonically non-decreasing over a run: playlists advance during the
// transforming phase, tracks during the materializing phase. Totals are zero
// until the corresponding phase has begun.
type ProgressEvent struct {
	Phase   Phase
	Message string
	Level   ProgressLevel

	PlaylistsDone  int
	PlaylistsTotal int
	TracksDone     int
	TracksTotal    int
}

// Warning records a non-fatal per-track problem. The export finished, but
// this track was copied without tags, or excluded from the document.
type Warning struct {
	TrackID string
	Message string
}

// Report summarizes a finished export.
type Report struct {
	XMLPath   string
	Playlists int
	Tracks    int

	// File copy counters; zero unless copying was enabled.
	CopiedFiles  int
	SkippedFiles int

	Warnings []Warning
}

// Manager coordinates a library export from database to XML document.
//
// A Manager runs one export at a time. Progress is reported through the
// onProgress callback, which must be safe to call from multiple goroutines
// during the materializing phase.
type Manager struct {
	settings *config.Settings
	source   rekordbox.Source
	pipeline *transform.Pipeline
	builder  *rbxml.Builder

	phase          int32
	totalPlaylists int32
	donePlaylists  int32
	totalFiles     int32
	doneFiles      int32

	onProgress func(ProgressEvent)

	warnMu   sync.Mutex
	warnings []Warning
}

// NewManager creates a new export Manager reading from source.
func NewManager(settings *config.Settings, source rekordbox.Source, onProgress func(ProgressEvent)) *Manager {
	return &Manager{
		settings:   settings,
		source:     source,
		pipeline:   transform.NewPipeline(nil),
		builder:    rbxml.NewBuilder(settings.ProductVersion),
		onProgress: onProgress,
	}
}

// Phase returns the current phase. Safe to call concurrently with Run.
func (m *Manager) Phase() Phase {
	return Phase(atomic.LoadInt32(&m.phase))
}

// GetProgress returns file-copy progress for the materializing phase.
func (m *Manager) GetProgress() (done, total int32) {
	return atomic.LoadInt32(&m.doneFiles), atomic.LoadInt32(&m.totalFiles)
}

// Run executes the export end to end: load the library, resolve the
// playlist selection, transform metadata, optionally materialize files and
// write the document.
//
// Selection errors, source errors and output conflicts fail the run before
// anything is written. Per-track copy and tag problems do not fail the run;
// they are reported as warnings and the affected tracks are dropped from
// the document.
func (m *Manager) Run(ctx context.Context, selection []string) (*Report, error) {
	report, err := m.run(ctx, selection)
	if err != nil {
		m.setPhase(PhaseFailed)
		m.progress(ProgressEvent{Phase: PhaseFailed, Message: fmt.Sprintf("Export failed: %v", err), Level: LevelError})
		return nil, err
	}
	m.setPhase(PhaseDone)
	m.progress(ProgressEvent{Phase: PhaseDone, Message: fmt.Sprintf("Export complete: %s", report.XMLPath), Level: LevelSuccess})
	return report, nil
}

func (m *Manager) run(ctx context.Context, selection []string) (*Report, error) {
	atomic.StoreInt32(&m.totalPlaylists, 0)
	atomic.StoreInt32(&m.donePlaylists, 0)
	atomic.StoreInt32(&m.totalFiles, 0)
	atomic.StoreInt32(&m.doneFiles, 0)

	// Fail on an output conflict before touching the database.
	if !m.settings.Overwrite {
		if _, err := os.Stat(m.settings.OutputPath); err == nil {
			return nil, &rbxml.OutputExistsError{Path: m.settings.OutputPath}
		}
	}

	tree, tracks, err := m.load(ctx)
	if err != nil {
		return nil, err
	}

	selected, err := m.resolve(tree, selection)
	if err != nil {
		return nil, err
	}

	listings, meta := m.transformAll(tree, tracks, selected)
	if err := cancelled(ctx); err != nil {
		return nil, err
	}

	var locations map[string]string
	report := &Report{XMLPath: m.settings.OutputPath, Playlists: len(selected)}
	if m.settings.CopyFiles {
		locations, err = m.materializeAll(ctx, tracks, meta, listings, selected, report)
		if err != nil {
			return nil, err
		}
	}
	if err := cancelled(ctx); err != nil {
		return nil, err
	}

	m.setPhase(PhaseSerializing)
	m.progress(ProgressEvent{Phase: PhaseSerializing, Message: "Writing XML document", Level: LevelInfo})

	doc := m.builder.Build(rbxml.BuildInput{
		Tree:      tree,
		Playlists: selected,
		Listings:  listings,
		Tracks:    tracks,
		Meta:      meta,
		Locations: locations,
	})
	report.Tracks = doc.Collection.Entries

	if err := rbxml.WriteFile(doc, m.settings.OutputPath, m.settings.Overwrite); err != nil {
		return nil, err
	}

	report.Warnings = m.warnings
	return report, nil
}

// load reads the library and assembles the playlist tree.
func (m *Manager) load(ctx context.Context) (*library.Tree, map[string]model.Track, error) {
	m.setPhase(PhaseLoading)
	m.progress(ProgressEvent{Phase: PhaseLoading, Message: "Loading library database", Level: LevelInfo})

	rows, err := m.source.Playlists(ctx)
	if err != nil {
		return nil, nil, err
	}
	tree, err := library.BuildTree(rows)
	if err != nil {
		return nil, nil, err
	}

	entries, err := m.source.PlaylistEntries(ctx)
	if err != nil {
		return nil, nil, err
	}
	tree.AttachTracks(entries)

	trackList, err := m.source.Tracks(ctx)
	if err != nil {
		return nil, nil, err
	}
	tracks := make(map[string]model.Track, len(trackList))
	for _, tr := range trackList {
		tracks[tr.ID] = tr
	}

	m.progress(ProgressEvent{
		Phase:   PhaseLoading,
		Message: fmt.Sprintf("Loaded %d playlists, %d tracks", len(rows), len(tracks)),
		Level:   LevelVerbose,
	})
	return tree, tracks, nil
}

// resolve maps the selection tokens to playlist IDs. Resolution is
// all-or-nothing: one bad token fails the run.
func (m *Manager) resolve(tree *library.Tree, selection []string) ([]string, error) {
	m.setPhase(PhaseResolving)

	selected, err := library.Resolve(tree, selection)
	if err != nil {
		return nil, err
	}
	atomic.StoreInt32(&m.totalPlaylists, int32(len(selected)))
	m.progress(ProgressEvent{
		Phase:   PhaseResolving,
		Message: fmt.Sprintf("Exporting %d playlists", len(selected)),
		Level:   LevelInfo,
	})
	return selected, nil
}

// transformAll computes each selected playlist's listing and every exported
// track's effective metadata.
//
// Options resolve per playlist, but a track appears in the collection once.
// When differently configured playlists share a track, the first selected
// playlist containing it wins.
func (m *Manager) transformAll(tree *library.Tree, tracks map[string]model.Track, selected []string) (map[string][]string, map[string]transform.Metadata) {
	m.setPhase(PhaseTransforming)

	listings := make(map[string][]string, len(selected))
	meta := make(map[string]transform.Metadata)

	for _, playlistID := range selected {
		node := tree.Node(playlistID)
		if node == nil {
			continue
		}
		opts := m.settings.OptionsFor(playlistID)

		playlistTracks := make([]model.Track, 0, len(node.TrackIDs))
		for _, trackID := range node.TrackIDs {
			tr, ok := tracks[trackID]
			if !ok {
				m.warn(trackID, "listed in playlist but missing from collection")
				continue
			}
			playlistTracks = append(playlistTracks, tr)
		}

		sorted := transform.SortTracks(playlistTracks, opts.SortOrder)
		listing := make([]string, len(sorted))
		for i, tr := range sorted {
			listing[i] = tr.ID
			if _, done := meta[tr.ID]; !done {
				meta[tr.ID] = m.pipeline.Apply(tr, opts)
			}
		}
		listings[playlistID] = listing

		atomic.AddInt32(&m.donePlaylists, 1)
		m.progress(ProgressEvent{
			Phase:   PhaseTransforming,
			Message: fmt.Sprintf("Prepared playlist %s (%d tracks)", node.Name, len(listing)),
			Level:   LevelVerbose,
		})
	}
	return listings, meta
}

// materializeAll copies the exported tracks into the files directory with a
// bounded worker pool. A failed copy drops the track from every listing and
// becomes a warning; it never aborts the export.
func (m *Manager) materializeAll(
	ctx context.Context,
	tracks map[string]model.Track,
	meta map[string]transform.Metadata,
	listings map[string][]string,
	selected []string,
	report *Report,
) (map[string]string, error) {
	m.setPhase(PhaseMaterializing)

	// Unique track IDs in deterministic first-appearance order.
	var order []string
	seen := make(map[string]bool)
	for _, playlistID := range selected {
		for _, trackID := range listings[playlistID] {
			if !seen[trackID] {
				seen[trackID] = true
				order = append(order, trackID)
			}
		}
	}

	atomic.StoreInt32(&m.totalFiles, int32(len(order)))
	atomic.StoreInt32(&m.doneFiles, 0)
	m.progress(ProgressEvent{
		Phase:   PhaseMaterializing,
		Message: fmt.Sprintf("Copying %d files to %s", len(order), m.settings.FilesDir),
		Level:   LevelInfo,
	})

	mat := materialize.New(m.settings.FilesDir, m.settings.Overwrite)

	var mu sync.Mutex
	locations := make(map[string]string, len(order))
	failed := make(map[string]bool)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrency(m.settings.MaxConcurrentCopies))

	for _, trackID := range order {
		trackID := trackID
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			out, err := mat.Materialize(ctx, tracks[trackID], meta[trackID])
			atomic.AddInt32(&m.doneFiles, 1)
			if err != nil {
				m.warn(trackID, err.Error())
				m.progress(ProgressEvent{Phase: PhaseMaterializing, Message: fmt.Sprintf("Skipping track %s: %v", trackID, err), Level: LevelWarning})
				mu.Lock()
				failed[trackID] = true
				mu.Unlock()
				return nil
			}

			switch out.TagStatus {
			case materialize.TagUnsupported:
				m.warn(trackID, fmt.Sprintf("unsupported format, copied without tag rewrite: %s", out.SourcePath))
			case materialize.TagFailed:
				m.warn(trackID, fmt.Sprintf("tag rewrite failed: %v", out.TagErr))
			}

			mu.Lock()
			locations[trackID] = out.Path
			if out.Copied {
				report.CopiedFiles++
			} else {
				report.SkippedFiles++
			}
			mu.Unlock()

			m.progress(ProgressEvent{Phase: PhaseMaterializing, Message: fmt.Sprintf("Copied: %s", out.Path), Level: LevelVerbose})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrCancelled
		}
		return nil, err
	}

	// Drop failed tracks from every listing so the document never points
	// at files that were not copied.
	if len(failed) > 0 {
		for playlistID, listing := range listings {
			kept := listing[:0]
			for _, trackID := range listing {
				if !failed[trackID] {
					kept = append(kept, trackID)
				}
			}
			listings[playlistID] = kept
		}
	}
	return locations, nil
}

func (m *Manager) setPhase(p Phase) {
	atomic.StoreInt32(&m.phase, int32(p))
}

func (m *Manager) warn(trackID, message string) {
	m.warnMu.Lock()
	m.warnings = append(m.warnings, Warning{TrackID: trackID, Message: message})
	m.warnMu.Unlock()
}

// progress stamps the current counter values onto the event before
// delivering it, so every event carries a consistent snapshot.
func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress == nil {
		return
	}
	event.PlaylistsDone = int(atomic.LoadInt32(&m.donePlaylists))
	event.PlaylistsTotal = int(atomic.LoadInt32(&m.totalPlaylists))
	event.TracksDone = int(atomic.LoadInt32(&m.doneFiles))
	event.TracksTotal = int(atomic.LoadInt32(&m.totalFiles))
	m.onProgress(event)
}

func cancelled(ctx context.Context) error {
	if ctx.Err() != nil {
		return ErrCancelled
	}
	return nil
}

func maxConcurrency(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
