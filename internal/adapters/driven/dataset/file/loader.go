// Package file implements driven.DatasetSource for on-disk datasets.
//
// Two layouts are supported:
//
//   - A raw little-endian matrix of embeddings (.f32 for float32, .f16
//     for IEEE half precision) plus a labels file with one 0/1 per line.
//   - A CSV file where every row is a feature vector with the label in
//     the last column.
package file

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/x448/float16"

	"github.com/custodia-labs/seals-cli/internal/core/domain"
	"github.com/custodia-labs/seals-cli/internal/core/ports/driven"
)

// Ensure both sources implement the interface.
var (
	_ driven.DatasetSource = (*MatrixSource)(nil)
	_ driven.DatasetSource = (*CSVSource)(nil)
)

// MatrixSource loads embeddings from a raw binary matrix file and
// labels from a companion text file.
type MatrixSource struct {
	embeddingsPath string
	labelsPath     string
	dim            int
}

// NewMatrixSource creates a source for a raw embedding matrix.
// The file extension selects the element type: .f32 or .f16.
func NewMatrixSource(embeddingsPath, labelsPath string, dim int) *MatrixSource {
	return &MatrixSource{embeddingsPath: embeddingsPath, labelsPath: labelsPath, dim: dim}
}

// Load implements driven.DatasetSource.
func (s *MatrixSource) Load(ctx context.Context) (*domain.Dataset, error) {
	if s.dim <= 0 {
		return nil, fmt.Errorf("%w: embedding dim %d", domain.ErrDimensionMismatch, s.dim)
	}

	data, err := os.ReadFile(s.embeddingsPath)
	if err != nil {
		return nil, fmt.Errorf("read embeddings: %w", err)
	}

	var vectors [][]float32
	switch ext := filepath.Ext(s.embeddingsPath); ext {
	case ".f32":
		vectors, err = decodeF32(data, s.dim)
	case ".f16":
		vectors, err = decodeF16(data, s.dim)
	default:
		return nil, fmt.Errorf("unsupported embedding format %q (want .f32 or .f16)", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.embeddingsPath, err)
	}

	labels, err := readLabels(s.labelsPath)
	if err != nil {
		return nil, fmt.Errorf("read labels: %w", err)
	}
	if len(labels) != len(vectors) {
		return nil, fmt.Errorf("%w: %d embeddings, %d labels", domain.ErrDimensionMismatch, len(vectors), len(labels))
	}

	return domain.NewDataset(vectors, labels)
}

// decodeF32 splits a little-endian float32 buffer into dim-sized rows.
func decodeF32(data []byte, dim int) ([][]float32, error) {
	rowBytes := dim * 4
	if len(data) == 0 || len(data)%rowBytes != 0 {
		return nil, fmt.Errorf("%d bytes is not a whole number of %d-dim float32 rows", len(data), dim)
	}

	n := len(data) / rowBytes
	vectors := make([][]float32, n)
	for i := 0; i < n; i++ {
		row := make([]float32, dim)
		base := i * rowBytes
		for j := 0; j < dim; j++ {
			bits := binary.LittleEndian.Uint32(data[base+j*4:])
			row[j] = math.Float32frombits(bits)
		}
		vectors[i] = row
	}
	return vectors, nil
}

// decodeF16 splits a little-endian float16 buffer into dim-sized rows.
func decodeF16(data []byte, dim int) ([][]float32, error) {
	rowBytes := dim * 2
	if len(data) == 0 || len(data)%rowBytes != 0 {
		return nil, fmt.Errorf("%d bytes is not a whole number of %d-dim float16 rows", len(data), dim)
	}

	n := len(data) / rowBytes
	vectors := make([][]float32, n)
	for i := 0; i < n; i++ {
		row := make([]float32, dim)
		base := i * rowBytes
		for j := 0; j < dim; j++ {
			bits := binary.LittleEndian.Uint16(data[base+j*2:])
			row[j] = float16.Frombits(bits).Float32()
		}
		vectors[i] = row
	}
	return vectors, nil
}

// readLabels reads one 0/1 label per line. Blank lines are skipped.
func readLabels(path string) ([]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var labels []int
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		v, err := strconv.Atoi(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if v != 0 && v != 1 {
			return nil, fmt.Errorf("line %d: %w: %d", line, domain.ErrInvalidLabel, v)
		}
		labels = append(labels, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return labels, nil
}

// CSVSource loads a dataset from a CSV file where the last column of
// every row is the label.
type CSVSource struct {
	path string
}

// NewCSVSource creates a CSV dataset source.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

// Load implements driven.DatasetSource.
func (s *CSVSource) Load(ctx context.Context) (*domain.Dataset, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	var vectors [][]float32
	var labels []int

	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		fields := strings.Split(text, ",")
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: need at least one feature and a label", line)
		}

		row := make([]float32, len(fields)-1)
		for j := 0; j < len(fields)-1; j++ {
			v, err := strconv.ParseFloat(strings.TrimSpace(fields[j]), 32)
			if err != nil {
				return nil, fmt.Errorf("line %d, column %d: %w", line, j+1, err)
			}
			row[j] = float32(v)
		}

		label, err := strconv.Atoi(strings.TrimSpace(fields[len(fields)-1]))
		if err != nil {
			return nil, fmt.Errorf("line %d: label: %w", line, err)
		}

		vectors = append(vectors, row)
		labels = append(labels, label)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return domain.NewDataset(vectors, labels)
}
