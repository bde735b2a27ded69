package redactkit

import (
	"github.com/wudi/redactkit/contentstream"
	"github.com/wudi/redactkit/correlate"
	"github.com/wudi/redactkit/geom"
	"github.com/wudi/redactkit/layout"
	"github.com/wudi/redactkit/observability"
	"github.com/wudi/redactkit/segment"
)

// showPlan is the per-instruction analysis for one text-showing
// operation inside a text block.
type showPlan struct {
	// op carries the effective show payload (bounding box possibly
	// repaired from font metrics).
	op         contentstream.Operation
	matches    []correlate.LetterMatch
	segs       []segment.Segment
	removedAny bool
}

// blockPlan describes one begin/end-text range. Derived per call,
// never persisted.
type blockPlan struct {
	start, end       int
	hasEnd           bool
	needsRebuild     bool
	anySurvives      bool
	hasUntouchedShow bool
}

type redactionPlan struct {
	blocks  []blockPlan
	blockOf []int
	shows   map[int]*showPlan
}

// analyze runs the discovery and pre-analysis passes: find text
// blocks, correlate and segment every contained text-showing
// operation, and decide per block whether reconstruction is needed and
// whether any content survives.
func (e *Engine) analyze(ops []contentstream.Operation, glyphs []layout.Glyph, rect geom.Rect) (*redactionPlan, error) {
	plan := &redactionPlan{
		blockOf: make([]int, len(ops)),
		shows:   make(map[int]*showPlan),
	}
	for i := range plan.blockOf {
		plan.blockOf[i] = -1
	}

	// Discovery: pair up BT/ET ranges. A stack tolerates malformed
	// nested begin-text; only the outermost range counts as the block.
	var stack []int
	record := func(start, end int, hasEnd bool) {
		idx := len(plan.blocks)
		plan.blocks = append(plan.blocks, blockPlan{start: start, end: end, hasEnd: hasEnd})
		for i := start; i <= end; i++ {
			plan.blockOf[i] = idx
		}
	}
	for i, op := range ops {
		switch op.Operator {
		case "BT":
			stack = append(stack, i)
		case "ET":
			if len(stack) == 0 {
				continue
			}
			start := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				record(start, i, true)
			}
		}
	}
	if len(stack) > 0 {
		e.log.Warn("unterminated text object in input stream",
			observability.Int("op", stack[0]))
		record(stack[0], len(ops)-1, false)
	}

	// Correlate and segment every text-showing operation inside a
	// block. A block needs reconstruction as soon as one of its
	// instructions loses a character.
	for i, op := range ops {
		b := plan.blockOf[i]
		if b < 0 || op.Kind != contentstream.KindTextShow || op.Show == nil {
			continue
		}
		opEff := op
		opEff.Show = e.effectiveShow(op)

		matches, err := e.correlator.Match(opEff, glyphs)
		if err != nil {
			return nil, err
		}
		segs := e.segmenter.Split(opEff, matches, rect)
		sp := &showPlan{
			op:         opEff,
			matches:    matches,
			segs:       segs,
			removedAny: segment.AnyRemoved(segs),
		}
		plan.shows[i] = sp
		if sp.removedAny {
			plan.blocks[b].needsRebuild = true
		}
	}

	// Pre-analysis: decide survival per flagged block. A block
	// survives if it keeps an untouched instruction or if any
	// intersecting instruction retains kept characters.
	for b := range plan.blocks {
		blk := &plan.blocks[b]
		if !blk.needsRebuild {
			continue
		}
		for i := blk.start; i <= blk.end; i++ {
			sp, ok := plan.shows[i]
			if !ok {
				continue
			}
			if !sp.removedAny {
				blk.hasUntouchedShow = true
				blk.anySurvives = true
				continue
			}
			for _, s := range segment.Kept(sp.segs) {
				if s.Len() > 0 {
					blk.anySurvives = true
					break
				}
			}
		}
		if !blk.anySurvives {
			e.log.Info("text block fully elided",
				observability.Int("start", blk.start),
				observability.Int("end", blk.end))
		}
	}
	return plan, nil
}

// emit is the final pass: walk instructions in original order, copy
// what is untouched, drop dead blocks, and rebuild intersecting
// instructions. Rebuilt text objects must not nest inside the original
// block they replace content within, so they are deferred to a
// per-block queue and flushed immediately after the block's end-text.
func (e *Engine) emit(ops []contentstream.Operation, plan *redactionPlan, rotation int, width, height float64) []contentstream.Operation {
	out := make([]contentstream.Operation, 0, len(ops))
	deferred := make([][]contentstream.Operation, len(plan.blocks))

	for i, op := range ops {
		b := plan.blockOf[i]
		if b < 0 {
			out = append(out, op)
			continue
		}
		blk := plan.blocks[b]
		if !blk.needsRebuild {
			out = append(out, op)
			continue
		}
		if !blk.anySurvives {
			// Nothing survives: everything goes, begin/end-text
			// included.
			continue
		}

		switch {
		case i == blk.start || (blk.hasEnd && i == blk.end && op.Operator == "ET"):
			out = append(out, op)
			if blk.hasEnd && i == blk.end {
				out = append(out, deferred[b]...)
				deferred[b] = nil
			}
		case op.Kind == contentstream.KindTextShow:
			sp := plan.shows[i]
			if sp == nil || !sp.removedAny {
				// Zero-overlap instruction: exact original placement
				// preserved.
				out = append(out, op)
				continue
			}
			kept := segment.Kept(sp.segs)
			if len(kept) == 0 {
				continue
			}
			rebuilt := e.reconstructor.Rebuild(sp.op, kept, rotation, width, height)
			deferred[b] = append(deferred[b], rebuilt...)
		case op.Kind == contentstream.KindTextState:
			// Positioning and state operators only matter to
			// instructions kept in place; rebuilt ones carry their
			// own state.
			if blk.hasUntouchedShow {
				out = append(out, op)
			}
		default:
			out = append(out, op)
		}
	}

	// Unterminated blocks never hit an ET; flush their queues at the
	// end of the stream.
	for b, q := range deferred {
		if len(q) > 0 {
			e.log.Warn("flushing rebuilt text object for unterminated block",
				observability.Int("block", b))
			out = append(out, q...)
		}
	}
	return out
}
