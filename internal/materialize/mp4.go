package materialize

import (
	"os"

	"github.com/abema/go-mp4"

	"github.com/kuwa72/rkbdb2xml/internal/transform"
)

// MP4Writer rewrites the title, artist and album items of an M4A file's
// ilst box. Other item atoms the file carries (release date, album artist,
// track numbers, cover art) are read out first and written back, since the
// ilst box has to be rebuilt as a whole.
type MP4Writer struct{}

// Metadata item atoms. The \251 prefix is the iTunes "©" marker.
const (
	itemTitle  = "\251nam"
	itemArtist = "\251ART"
	itemAlbum  = "\251alb"
)

var managedItems = map[string]bool{
	itemTitle:  true,
	itemArtist: true,
	itemAlbum:  true,
}

// preservedItem is one unmanaged ilst entry carried through the rewrite.
type preservedItem struct {
	name string
	data mp4.Data
}

// WriteTags rebuilds the file's ilst box with the managed items replaced.
// The rewrite goes through a temporary file and a rename, so a failure
// leaves the original copy intact.
func (MP4Writer) WriteTags(path string, meta transform.Metadata) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	preserved, err := readUnmanagedItems(file)
	if err != nil {
		return err
	}
	if _, err := file.Seek(0, 0); err != nil {
		return err
	}

	tmpPath := path + ".tmp"
	tmpFile, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer tmpFile.Close()

	w := mp4.NewWriter(tmpFile)

	metaBoxes, err := mp4.ExtractBox(file, nil, mp4.BoxPath{mp4.BoxTypeMoov(), mp4.BoxTypeUdta(), mp4.BoxTypeMeta()})
	if err != nil {
		os.Remove(tmpPath)
		return err
	}
	noMetaBox := len(metaBoxes) == 0
	if _, err := file.Seek(0, 0); err != nil {
		os.Remove(tmpPath)
		return err
	}

	_, err = mp4.ReadBoxStructure(file, func(h *mp4.ReadHandle) (interface{}, error) {
		switch h.BoxInfo.Type {
		case mp4.BoxTypeMoov(), mp4.BoxTypeUdta(), mp4.BoxTypeMeta():
			if _, err := w.StartBox(&h.BoxInfo); err != nil {
				return nil, err
			}

			box, _, err := h.ReadPayload()
			if err != nil {
				return nil, err
			}
			if _, err := mp4.Marshal(w, box, h.BoxInfo.Context); err != nil {
				return nil, err
			}

			createMetaBox := noMetaBox && h.BoxInfo.Type == mp4.BoxTypeUdta()
			if createMetaBox {
				if _, err := w.StartBox(&mp4.BoxInfo{Type: mp4.BoxTypeMeta()}); err != nil {
					return nil, err
				}
				if _, err := mp4.Marshal(w, &mp4.Meta{}, mp4.Context{UnderUdta: true}); err != nil {
					return nil, err
				}
			}

			if createMetaBox || h.BoxInfo.Type == mp4.BoxTypeMeta() {
				if err := writeItemList(w, meta, preserved); err != nil {
					return nil, err
				}
			}

			if createMetaBox {
				if _, err := w.EndBox(); err != nil {
					return nil, err
				}
			}

			if _, err := h.Expand(); err != nil {
				return nil, err
			}
			_, err = w.EndBox()
			return nil, err

		case mp4.BoxTypeIlst():
			// Replaced by writeItemList.
			return nil, nil

		default:
			return nil, w.CopyBox(file, &h.BoxInfo)
		}
	})
	if err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	file.Close()
	return os.Rename(tmpPath, path)
}

// readUnmanagedItems collects the ilst entries that are not rewritten so
// they can be carried into the new box.
func readUnmanagedItems(file *os.File) ([]preservedItem, error) {
	parents := map[string]bool{"moov": true, "udta": true, "meta": true, "ilst": true}

	var preserved []preservedItem
	var itemName string

	_, err := mp4.ReadBoxStructure(file, func(h *mp4.ReadHandle) (interface{}, error) {
		if !h.BoxInfo.IsSupportedType() {
			return nil, nil
		}
		typeName := h.BoxInfo.Type.String()

		if parents[typeName] {
			return h.Expand()
		}
		if h.BoxInfo.Context.UnderIlst && !managedItems[typeName] {
			itemName = typeName
			return h.Expand()
		}
		if typeName == "data" && itemName != "" {
			box, _, err := h.ReadPayload()
			if err != nil {
				return nil, nil
			}
			if data, ok := box.(*mp4.Data); ok {
				preserved = append(preserved, preservedItem{name: itemName, data: *data})
			}
			itemName = ""
		}
		return nil, nil
	})
	return preserved, err
}

// writeItemList emits a fresh ilst box with the managed string items plus
// every preserved entry.
func writeItemList(w *mp4.Writer, meta transform.Metadata, preserved []preservedItem) error {
	if _, err := w.StartBox(&mp4.BoxInfo{Type: mp4.BoxTypeIlst()}); err != nil {
		return err
	}

	if err := writeStringItem(w, itemTitle, meta.Title); err != nil {
		return err
	}
	if err := writeStringItem(w, itemArtist, meta.Artist); err != nil {
		return err
	}
	if err := writeStringItem(w, itemAlbum, meta.Album); err != nil {
		return err
	}
	for _, item := range preserved {
		if err := writeDataItem(w, item.name, item.data); err != nil {
			return err
		}
	}

	_, err := w.EndBox()
	return err
}

func writeStringItem(w *mp4.Writer, name, value string) error {
	return writeDataItem(w, name, mp4.Data{DataType: mp4.DataTypeStringUTF8, Data: []byte(value)})
}

func writeDataItem(w *mp4.Writer, name string, data mp4.Data) error {
	if _, err := w.StartBox(&mp4.BoxInfo{Type: mp4.BoxType([]byte(name))}); err != nil {
		return err
	}
	if _, err := w.StartBox(&mp4.BoxInfo{Type: mp4.BoxTypeData()}); err != nil {
		return err
	}
	if _, err := mp4.Marshal(w, &data, mp4.Context{UnderIlstMeta: true}); err != nil {
		return err
	}
	if _, err := w.EndBox(); err != nil {
		return err
	}
	_, err := w.EndBox()
	return err
}
