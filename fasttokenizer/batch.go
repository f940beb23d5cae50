package fasttokenizer

import (
	"runtime"

	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"

	"github.com/gomlx/go-tokenizers/api"
	"github.com/gomlx/go-tokenizers/encoding"
)

// Sample is one batch item: a text and an optional pair (empty means none).
type Sample struct {
	Text string
	Pair string
}

// Batch is the rectangular batch-encoding record. The first axis enumerates
// rows — the flattened concatenation of every sample's overflow windows in
// sample order — and the second axis is token position. OffsetMapping and
// SpecialTokensMask are present only when requested in the options.
//
// OverflowToSampleMapping maps each row to the index of its originating
// sample; it is emitted only when some sample produced more than one window
// and, unlike the other fields, has no token axis.
type Batch struct {
	InputIDs          [][]int
	TokenTypeIDs      [][]int
	AttentionMask     [][]int
	SpecialTokensMask [][]int
	OffsetMapping     [][]*api.TokenSpan

	OverflowToSampleMapping []int
}

// Rows returns the number of encoded rows.
func (b *Batch) Rows() int { return len(b.InputIDs) }

// EncodeBatch applies the full pipeline to each sample, in parallel, and
// pads the flattened windows into uniform shapes. Samples are independent;
// results are merged back in input order and padding never reorders samples
// or windows within a sample. A configuration error on any sample fails the
// whole batch; unknown tokens never do.
func (t *Tokenizer) EncodeBatch(samples []Sample, opts api.EncodeOptions) (*Batch, error) {
	if err := t.validate(opts); err != nil {
		return nil, err
	}

	// Padding is applied across the whole batch below, after the longest
	// row is known.
	sampleOpts := opts
	sampleOpts.Padding = api.PadNone

	chains := make([][]*encoding.Encoding, len(samples))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, sample := range samples {
		g.Go(func() error {
			main, err := t.Encode(sample.Text, sample.Pair, sampleOpts)
			if err != nil {
				return err
			}
			chains[i] = append([]*encoding.Encoding{main}, main.Overflowing...)
			main.Overflowing = nil
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var rows []*encoding.Encoding
	var mapping []int
	overflowed := false
	for i, chain := range chains {
		if len(chain) > 1 {
			overflowed = true
		}
		for _, enc := range chain {
			rows = append(rows, enc)
			mapping = append(mapping, i)
		}
	}

	target := 0
	switch opts.Padding {
	case api.PadMaxLength:
		target = opts.MaxLength
	case api.PadLongest:
		for _, row := range rows {
			if row.Len() > target {
				target = row.Len()
			}
		}
	}
	if target > 0 {
		pad, err := t.padSentinel()
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			row.Pad(target, pad.ID, pad.Text, opts.PaddingSide)
		}
	}

	batch := &Batch{
		InputIDs:      make([][]int, len(rows)),
		TokenTypeIDs:  make([][]int, len(rows)),
		AttentionMask: make([][]int, len(rows)),
	}
	for i, row := range rows {
		batch.InputIDs[i] = row.IDs
		batch.TokenTypeIDs[i] = row.TypeIDs
		batch.AttentionMask[i] = row.AttentionMask
	}
	if opts.ReturnSpecialTokensMask {
		batch.SpecialTokensMask = make([][]int, len(rows))
		for i, row := range rows {
			batch.SpecialTokensMask[i] = row.SpecialTokensMask
		}
	}
	if opts.ReturnOffsets {
		batch.OffsetMapping = make([][]*api.TokenSpan, len(rows))
		for i, row := range rows {
			batch.OffsetMapping[i] = row.Offsets
		}
	}
	if overflowed {
		batch.OverflowToSampleMapping = mapping
	}
	klog.V(2).Infof("batch-encoded %d sample(s) into %d row(s)", len(samples), len(rows))
	return batch, nil
}

// MismatchFraction returns the fraction of positions at which two id
// sequences disagree, counting length differences as mismatches. It is the
// comparison used to check agreement between independently engineered
// encoders over one vocabulary and configuration.
func MismatchFraction(a, b []int) float64 {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}
	mismatches := 0
	for i := 0; i < n; i++ {
		if i >= len(a) || i >= len(b) || a[i] != b[i] {
			mismatches++
		}
	}
	return float64(mismatches) / float64(n)
}
