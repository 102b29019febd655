package debugfeed

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/lixenwraith/gridhash/spatial"
)

// CellFrame is one live cell in a frame
type CellFrame struct {
	X     int `msgpack:"x"`
	Y     int `msgpack:"y"`
	Count int `msgpack:"n"`
}

// Frame is a snapshot of the index pushed to feed clients
type Frame struct {
	CellSize int                `msgpack:"cs"`
	Tick     uint64             `msgpack:"t"`
	Objects  int                `msgpack:"o"`
	Cells    []CellFrame        `msgpack:"c"`
	Metrics  map[string]float64 `msgpack:"m,omitempty"`
}

// FrameFromIndex captures the live cells and metrics of idx
func FrameFromIndex(idx *spatial.Index, tick uint64) *Frame {
	infos := idx.Cells()
	cells := make([]CellFrame, len(infos))
	for i, info := range infos {
		cells[i] = CellFrame{X: info.Coord.X, Y: info.Coord.Y, Count: info.Count}
	}
	return &Frame{
		CellSize: idx.CellSize(),
		Tick:     tick,
		Objects:  idx.Count(),
		Cells:    cells,
		Metrics:  idx.Status().Snapshot(),
	}
}

// Encode serializes a frame as msgpack
func Encode(f *Frame) ([]byte, error) {
	data, err := msgpack.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	return data, nil
}

// Decode parses a msgpack frame
func Decode(data []byte) (*Frame, error) {
	var f Frame
	if err := msgpack.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	return &f, nil
}
