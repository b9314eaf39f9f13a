package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	ColumnWeather  = "Weather"
	ColumnEvent    = "Event"
	ColumnSkinTone = "Skin_Tone"
	ColumnOutfit   = "Outfit"
)

// Header is the first row of every corpus file.
var Header = []string{ColumnWeather, ColumnEvent, ColumnSkinTone, ColumnOutfit}

var ErrMalformedCorpus = errors.New("MALFORMED_CORPUS")

func WriteCSV(w io.Writer, corpus Corpus) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, ex := range corpus {
		if err := cw.Write([]string{ex.Weather, ex.Event, ex.SkinTone, ex.Outfit}); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func ReadCSV(r io.Reader) (Corpus, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: missing header", ErrMalformedCorpus)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCorpus, err)
	}
	for i, col := range Header {
		if header[i] != col {
			return nil, fmt.Errorf("%w: column %d is %q, want %q", ErrMalformedCorpus, i, header[i], col)
		}
	}

	var corpus Corpus
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedCorpus, err)
		}
		corpus = append(corpus, Example{
			Weather:  rec[0],
			Event:    rec[1],
			SkinTone: rec[2],
			Outfit:   rec[3],
		})
	}
	return corpus, nil
}

// SaveFile writes the corpus to path, creating parent directories.
func SaveFile(path string, corpus Corpus) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create corpus directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create corpus file: %w", err)
	}
	if err := WriteCSV(f, corpus); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func LoadFile(path string) (Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus file: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}
