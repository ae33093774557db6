package radiosity

import (
	"context"

	"github.com/taigrr/marcher/pkg/march"
	"github.com/taigrr/marcher/pkg/scene"
)

// link is one non-zero entry of a transfer row.
type link struct {
	from   int
	weight float64
}

// transfer is a sparse form-factor matrix. rows[r] lists the patches that
// can send light to patch r and the geometric weight of each.
type transfer struct {
	rows [][]link
}

// buildTransfer computes cosR*cosE/d² for every pair of mutually facing
// patches on different objects. A pair counts only if a ray from the
// emitter toward the receiver first hits the receiver's object.
func buildTransfer(ctx context.Context, s *scene.Scene, c *Cloud, workers int) (*transfer, error) {
	t := &transfer{rows: make([][]link, c.Len())}
	err := forEach(ctx, workers, c.Len(), func(r int) {
		t.rows[r] = transferRow(s, c, r)
	})
	return t, err
}

func transferRow(s *scene.Scene, c *Cloud, r int) []link {
	recv := &c.Patches[r]
	var row []link
	for e := range c.Patches {
		emit := &c.Patches[e]
		if emit.Object == recv.Object {
			continue
		}
		delta := recv.Position.Sub(emit.Position)
		d2 := delta.LenSq()
		if d2 == 0 {
			continue
		}
		dir := delta.Normalize()
		cosE := emit.Normal.Dot(dir)
		cosR := -recv.Normal.Dot(dir)
		if cosE <= 0 || cosR <= 0 {
			continue
		}

		ray := march.Ray{Position: emit.Position, Direction: dir}
		idx, hit := ray.March(s.Objects, emit.Object)
		if !hit || idx != recv.Object {
			continue
		}
		row = append(row, link{from: e, weight: cosR * cosE / d2})
	}
	return row
}

// gather returns Σ weight·values[from] over row r.
func (t *transfer) gather(r int, values []scene.Colour) scene.Colour {
	var sum scene.Colour
	for _, l := range t.rows[r] {
		sum = sum.Add(values[l.from].Scale(l.weight))
	}
	return sum
}

// links returns the number of non-zero entries.
func (t *transfer) links() int {
	var n int
	for _, row := range t.rows {
		n += len(row)
	}
	return n
}
