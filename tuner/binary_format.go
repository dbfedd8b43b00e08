package tuner

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Loss logs are written as NumPy .npy v1.0 files holding one little-endian float64
// vector, so they load directly with numpy.load.

var npyMagic = []byte("\x93NUMPY")

const npyAlign = 64

// WriteNPY writes xs as a 1-D '<f8' array.
func WriteNPY(w io.Writer, xs []float64) error {
	header := fmt.Sprintf("{'descr': '<f8', 'fortran_order': False, 'shape': (%d,), }", len(xs))
	// magic(6) + version(2) + header length(2) + header, padded with spaces and
	// terminated by a newline to a multiple of 64 bytes.
	pre := len(npyMagic) + 4
	pad := npyAlign - (pre+len(header)+1)%npyAlign
	if pad == npyAlign {
		pad = 0
	}
	header += strings.Repeat(" ", pad) + "\n"

	bw := bufio.NewWriter(w)
	bw.Write(npyMagic)
	bw.Write([]byte{1, 0})
	if err := binary.Write(bw, binary.LittleEndian, uint16(len(header))); err != nil {
		return err
	}
	bw.WriteString(header)
	if err := binary.Write(bw, binary.LittleEndian, xs); err != nil {
		return err
	}
	return bw.Flush()
}

// SaveNPY writes xs to path, replacing any existing file.
func SaveNPY(path string, xs []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteNPY(f, xs); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadNPY reads a 1-D '<f8' array written by WriteNPY.
func ReadNPY(r io.Reader) ([]float64, error) {
	pre := make([]byte, len(npyMagic)+4)
	if _, err := io.ReadFull(r, pre); err != nil {
		return nil, fmt.Errorf("read npy preamble: %w", err)
	}
	if !bytes.Equal(pre[:len(npyMagic)], npyMagic) {
		return nil, errors.New("not an npy file")
	}
	if pre[6] != 1 {
		return nil, fmt.Errorf("unsupported npy version %d.%d", pre[6], pre[7])
	}
	hlen := binary.LittleEndian.Uint16(pre[8:10])
	header := make([]byte, hlen)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("read npy header: %w", err)
	}
	h := string(header)
	if !strings.Contains(h, "'descr': '<f8'") {
		return nil, fmt.Errorf("unsupported npy dtype in header %q", strings.TrimSpace(h))
	}
	i := strings.Index(h, "'shape': (")
	if i < 0 {
		return nil, errors.New("npy header has no shape")
	}
	rest := h[i+len("'shape': ("):]
	end := strings.IndexAny(rest, ",)")
	if end < 0 {
		return nil, errors.New("malformed npy shape")
	}
	n, err := strconv.Atoi(strings.TrimSpace(rest[:end]))
	if err != nil {
		return nil, fmt.Errorf("npy shape: %w", err)
	}
	out := make([]float64, n)
	if err := binary.Read(r, binary.LittleEndian, out); err != nil {
		return nil, fmt.Errorf("read npy data: %w", err)
	}
	return out, nil
}
