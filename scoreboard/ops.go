package scoreboard

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// OpsFileName is the operator support table in a results folder
const OpsFileName = "nodes.csv"

// OpStatus is the support status of a single ONNX operator
type OpStatus struct {
	Op     string
	Status string
}

// LoadOps reads the operator table in dir, in file order. The Op column
// names the operator and the None column holds its status. The status is
// lower cased with any "!" removed. A missing file gives no operators.
func LoadOps(dir, name string) ([]OpStatus, error) {
	if name == "" {
		name = OpsFileName
	}

	f, err := os.Open(filepath.Join(dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return []OpStatus{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("error opening the ops table %v: %w", filepath.Join(dir, name), err)
	}
	defer f.Close()

	return DecodeOps(f)
}

// DecodeOps reads an operator table from r
func DecodeOps(r io.Reader) ([]OpStatus, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return []OpStatus{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("error reading the ops table header %v", err)
	}

	opCol, statusCol := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case "Op":
			opCol = i
		case "None":
			statusCol = i
		}
	}

	if opCol < 0 || statusCol < 0 {
		return nil, fmt.Errorf("the ops table needs an Op and a None column, found %v", header)
	}

	ops := []OpStatus{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("error reading the ops table %v", err)
		}

		if opCol >= len(row) || statusCol >= len(row) {
			continue
		}

		ops = append(ops, OpStatus{
			Op:     row[opCol],
			Status: strings.ToLower(strings.ReplaceAll(row[statusCol], "!", "")),
		})
	}

	return ops, nil
}
