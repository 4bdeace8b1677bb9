package materialize

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kuwa72/rkbdb2xml/internal/model"
	"github.com/kuwa72/rkbdb2xml/internal/transform"
)

// recordingWriter captures WriteTags calls and optionally fails them.
type recordingWriter struct {
	calls []transform.Metadata
	err   error
}

func (w *recordingWriter) WriteTags(path string, meta transform.Metadata) error {
	w.calls = append(w.calls, meta)
	return w.err
}

func sourceTrack(t *testing.T, name string) model.Track {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("audio payload"), 0o644); err != nil {
		t.Fatal(err)
	}
	return model.Track{ID: "t1", Location: path}
}

func TestMaterialize_CopiesAndTags(t *testing.T) {
	dir := t.TempDir()
	m := New(dir, false)
	writer := &recordingWriter{}
	m.writers[".mp3"] = writer

	track := sourceTrack(t, "song.mp3")
	meta := transform.Metadata{Title: "128 - Song", Artist: "DJ"}

	out, err := m.Materialize(context.Background(), track, meta)
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}

	if !out.Copied || out.TagStatus != TagUpdated {
		t.Errorf("result = %+v", out)
	}
	if filepath.Dir(out.Path) != dir {
		t.Errorf("destination %q not flat inside %q", out.Path, dir)
	}
	if !strings.HasSuffix(out.Path, ".mp3") {
		t.Errorf("destination %q lost source extension", out.Path)
	}
	if base := filepath.Base(out.Path); base != out.ContentHash+".mp3" {
		t.Errorf("destination name %q not derived from hash %q", base, out.ContentHash)
	}
	if data, _ := os.ReadFile(out.Path); string(data) != "audio payload" {
		t.Errorf("copied content = %q", data)
	}
	if len(writer.calls) != 1 || writer.calls[0].Title != "128 - Song" {
		t.Errorf("tag writer calls = %+v", writer.calls)
	}
}

func TestMaterialize_StableDestination(t *testing.T) {
	track := sourceTrack(t, "song.mp3")
	m1 := New(t.TempDir(), false)
	m2 := New(t.TempDir(), false)

	out1, err := m1.Materialize(context.Background(), track, transform.Metadata{})
	if err != nil {
		t.Fatal(err)
	}
	out2, err := m2.Materialize(context.Background(), track, transform.Metadata{})
	if err != nil {
		t.Fatal(err)
	}

	if filepath.Base(out1.Path) != filepath.Base(out2.Path) {
		t.Errorf("same source mapped to %q and %q", out1.Path, out2.Path)
	}
}

func TestMaterialize_SkipsExisting(t *testing.T) {
	dir := t.TempDir()
	m := New(dir, false)
	writer := &recordingWriter{}
	m.writers[".mp3"] = writer
	track := sourceTrack(t, "song.mp3")

	first, err := m.Materialize(context.Background(), track, transform.Metadata{})
	if err != nil {
		t.Fatal(err)
	}
	second, err := m.Materialize(context.Background(), track, transform.Metadata{})
	if err != nil {
		t.Fatal(err)
	}

	if !first.Copied || second.Copied {
		t.Errorf("Copied = %v then %v, want true then false", first.Copied, second.Copied)
	}
	if second.TagStatus != TagSkipped {
		t.Errorf("second TagStatus = %v, want TagSkipped", second.TagStatus)
	}
	// The reused file is not retagged.
	if len(writer.calls) != 1 {
		t.Errorf("tag writer called %d times, want 1", len(writer.calls))
	}
}

func TestMaterialize_OverwriteRecopies(t *testing.T) {
	dir := t.TempDir()
	m := New(dir, true)
	writer := &recordingWriter{}
	m.writers[".mp3"] = writer
	track := sourceTrack(t, "song.mp3")

	for i := 0; i < 2; i++ {
		out, err := m.Materialize(context.Background(), track, transform.Metadata{})
		if err != nil {
			t.Fatal(err)
		}
		if !out.Copied || out.TagStatus != TagUpdated {
			t.Errorf("run %d: %+v", i, out)
		}
	}
	if len(writer.calls) != 2 {
		t.Errorf("tag writer called %d times, want 2", len(writer.calls))
	}
}

func TestMaterialize_MissingSource(t *testing.T) {
	m := New(t.TempDir(), false)
	track := model.Track{ID: "t1", Location: "/nowhere/gone.mp3"}

	if _, err := m.Materialize(context.Background(), track, transform.Metadata{}); err == nil {
		t.Fatal("Materialize succeeded with a missing source file")
	}
}

func TestMaterialize_NoLocation(t *testing.T) {
	m := New(t.TempDir(), false)

	if _, err := m.Materialize(context.Background(), model.Track{ID: "t1"}, transform.Metadata{}); err == nil {
		t.Fatal("Materialize succeeded without a source location")
	}
}

func TestMaterialize_UnsupportedFormatCopiedUntagged(t *testing.T) {
	m := New(t.TempDir(), false)
	track := sourceTrack(t, "song.wav")

	out, err := m.Materialize(context.Background(), track, transform.Metadata{})
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}

	if !out.Copied || out.TagStatus != TagUnsupported {
		t.Errorf("result = %+v, want copied with unsupported tags", out)
	}
	if data, _ := os.ReadFile(out.Path); string(data) != "audio payload" {
		t.Errorf("copied content = %q", data)
	}
}

func TestMaterialize_TagFailureKeepsCopy(t *testing.T) {
	m := New(t.TempDir(), false)
	wantErr := errors.New("corrupt frame")
	m.writers[".mp3"] = &recordingWriter{err: wantErr}
	track := sourceTrack(t, "song.mp3")

	out, err := m.Materialize(context.Background(), track, transform.Metadata{})
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}

	if out.TagStatus != TagFailed || !errors.Is(out.TagErr, wantErr) {
		t.Errorf("result = %+v", out)
	}
	if _, statErr := os.Stat(out.Path); statErr != nil {
		t.Error("copy removed after tag failure")
	}
}
