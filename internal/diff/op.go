package diff

import (
	"github.com/lehigh-university-libraries/scorediff/internal/annotation"
	"github.com/lehigh-university-libraries/scorediff/internal/cost"
)

// Op is one edit turning the predicted score (A) into the ground truth
// (B). A is nil for inserts and B is nil for deletes. Aspect names the
// edited property of a matched pair and is empty when a whole entity is
// inserted or deleted.
type Op struct {
	Action cost.Action       `json:"action"`
	Aspect string            `json:"aspect,omitempty"`
	A      annotation.Entity `json:"-"`
	B      annotation.Entity `json:"-"`
	Cost   int               `json:"cost"`
	Pos    annotation.Anchor `json:"pos"`
}

// Label is the entity label, qualified by the aspect for edits, e.g.
// "Note:tie".
func (o Op) Label() string {
	e := o.B
	if e == nil {
		e = o.A
	}
	if e == nil {
		return ""
	}
	if o.Aspect == "" {
		return e.Label()
	}
	return e.Label() + ":" + o.Aspect
}

func insertOp(e annotation.Entity, size int) Op {
	return Op{Action: cost.Insert, B: e, Cost: size, Pos: e.Position()}
}

func deleteOp(e annotation.Entity, size int) Op {
	return Op{Action: cost.Delete, A: e, Cost: size, Pos: e.Position()}
}

// changeOps wraps the changes between a matched pair. The position is
// taken from the ground truth side.
func changeOps(a, b annotation.Entity, changes []cost.Change) []Op {
	ops := make([]Op, 0, len(changes))
	for _, c := range changes {
		ops = append(ops, Op{
			Action: c.Action,
			Aspect: c.Aspect,
			A:      a,
			B:      b,
			Cost:   c.Cost,
			Pos:    b.Position(),
		})
	}
	return ops
}

func total(ops []Op) int {
	sum := 0
	for _, op := range ops {
		sum += op.Cost
	}
	return sum
}
