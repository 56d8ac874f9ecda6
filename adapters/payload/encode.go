package payload

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// Encode writes p to w in format f.
func (p Payload) Encode(w io.Writer, f Format) error {
	switch f {
	case FormatJSON:
		return EncodeJSON(w, p)
	case FormatRDump:
		return EncodeRDump(w, p)
	default:
		return fmt.Errorf("unsupported payload format %q", f)
	}
}

// EncodeJSON writes p as a JSON data object.
func EncodeJSON(w io.Writer, p Payload) error {
	return json.NewEncoder(w).Encode(p)
}

// DecodeJSON reads a payload written by EncodeJSON.
func DecodeJSON(r io.Reader) (Payload, error) {
	var p Payload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return Payload{}, fmt.Errorf("decode payload: %w", err)
	}
	return p, nil
}

// EncodeRDump writes p as R dump assignments ("N <- 100", "ii <- c(...)").
func EncodeRDump(w io.Writer, p Payload) error {
	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 64)

	for _, s := range []struct {
		name  string
		value int
	}{{"N", p.N}, {"R", p.R}, {"C", p.C}} {
		buf = append(buf[:0], s.name...)
		buf = append(buf, " <- "...)
		buf = strconv.AppendInt(buf, int64(s.value), 10)
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}

	writeInts := func(name string, xs []int) error {
		return writeVector(bw, name, len(xs), func(b []byte, i int) []byte {
			return strconv.AppendInt(b, int64(xs[i]), 10)
		})
	}
	if err := writeInts("ii", p.II); err != nil {
		return err
	}
	if err := writeInts("jj", p.JJ); err != nil {
		return err
	}
	err := writeVector(bw, "y", len(p.Y), func(b []byte, i int) []byte {
		return strconv.AppendFloat(b, p.Y[i], 'g', -1, 64)
	})
	if err != nil {
		return err
	}
	return bw.Flush()
}

func writeVector(bw *bufio.Writer, name string, n int, appendAt func([]byte, int) []byte) error {
	if n == 0 {
		_, err := fmt.Fprintf(bw, "%s <- numeric(0)\n", name)
		return err
	}
	if _, err := fmt.Fprintf(bw, "%s <- c(", name); err != nil {
		return err
	}
	buf := make([]byte, 0, 32)
	for i := 0; i < n; i++ {
		buf = buf[:0]
		if i > 0 {
			buf = append(buf, ", "...)
		}
		buf = appendAt(buf, i)
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	_, err := bw.WriteString(")\n")
	return err
}

// WriteFile encodes p into path, creating parent directories. An empty
// format is inferred from the extension.
func WriteFile(path string, f Format, p Payload) error {
	if f == "" {
		f = FormatForPath(path)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create payload dir: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create payload file: %w", err)
	}
	if err := p.Encode(file, f); err != nil {
		file.Close()
		return fmt.Errorf("encode payload: %w", err)
	}
	return file.Close()
}
