package batching

import (
	"fmt"

	"github.com/GT-AcerZhang/helix-linear-wheel/tape/tokenizer"
)

// Tensor names produced by GenBatchData, matching the model's feed names.
const (
	FeedProteinToken = "protein_token"
	FeedProteinPos   = "protein_pos"
)

// DeviceKind selects the device class batch tensors are staged for.
type DeviceKind int

const (
	DeviceCPU DeviceKind = iota
	DeviceCUDA
)

// Place identifies a concrete compute device.
type Place struct {
	Kind   DeviceKind
	Device int
}

// CPUPlace returns the host-memory place.
func CPUPlace() Place { return Place{Kind: DeviceCPU} }

// CUDAPlace returns the place for the given GPU ordinal.
func CUDAPlace(device int) Place { return Place{Kind: DeviceCUDA, Device: device} }

func (p Place) String() string {
	if p.Kind == DeviceCUDA {
		return fmt.Sprintf("cuda:%d", p.Device)
	}
	return "cpu"
}

// LoDTensor is a jagged column tensor: a flat (sum(L_i), 1) data buffer
// plus a level-of-detail offsets table [0, l0, l0+l1, ...] delimiting
// the examples, staged for a compute place.
type LoDTensor struct {
	Data  []int64
	Lod   []int64
	Place Place
}

// NumSequences returns the number of examples delimited by the lod table.
func (t *LoDTensor) NumSequences() int { return len(t.Lod) - 1 }

// GenBatchData builds one inference batch straight from raw sequences,
// bypassing the archive path. Both returned tensors share one lod
// table; no labels are produced. A tokenizer failure on any sequence
// aborts the whole batch and propagates unchanged.
func GenBatchData(examples []string, tok tokenizer.Tokenizer, place Place) (map[string]*LoDTensor, error) {
	var tokenIDs []int64
	var pos []int64
	lods := make([]int64, 1, len(examples)+1)
	for _, example := range examples {
		ids, err := tok.GenTokenIDs(example)
		if err != nil {
			return nil, err
		}
		tokenIDs = append(tokenIDs, ids...)
		pos = append(pos, positions(len(ids))...)
		lods = append(lods, int64(len(tokenIDs)))
	}
	return map[string]*LoDTensor{
		FeedProteinToken: {Data: tokenIDs, Lod: lods, Place: place},
		FeedProteinPos:   {Data: pos, Lod: lods, Place: place},
	}, nil
}
