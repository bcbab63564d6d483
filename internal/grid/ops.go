package grid

// Fill overwrites dst positionally from src. Source rows/cols beyond dst
// are ignored; dst cells not covered by src keep their value.
func Fill(dst, src *Grid) {
	CopyOverlap(src, dst)
}

// CopyOverlap copies src into dst over the intersection of their shapes.
// Cells outside the overlap are left untouched.
func CopyOverlap(src, dst *Grid) {
	if src == nil || dst == nil {
		return
	}
	rows := min(src.rows, dst.rows)
	cols := min(src.cols, dst.cols)
	for r := 0; r < rows; r++ {
		copy(dst.cells[r*dst.cols:r*dst.cols+cols], src.cells[r*src.cols:r*src.cols+cols])
	}
}

// Stamp writes patch into dst with its top-left corner at (anchorRow,
// anchorCol). Patch cells landing outside dst are dropped.
func Stamp(dst, patch *Grid, anchorRow, anchorCol int) int {
	if dst == nil || patch == nil {
		return 0
	}
	written := 0
	for r := 0; r < patch.rows; r++ {
		tr := anchorRow + r
		if tr < 0 || tr >= dst.rows {
			continue
		}
		for c := 0; c < patch.cols; c++ {
			tc := anchorCol + c
			if tc < 0 || tc >= dst.cols {
				continue
			}
			dst.cells[tr*dst.cols+tc] = patch.cells[r*patch.cols+c]
			written++
		}
	}
	return written
}

// Scale resamples src to rows x cols with nearest-neighbour lookup:
// target (i, j) reads src at (floor(i*srcRows/rows), floor(j*srcCols/cols)).
func Scale(src *Grid, rows, cols int) (*Grid, error) {
	out, err := New(rows, cols)
	if err != nil {
		return nil, err
	}
	for i := 0; i < rows; i++ {
		si := min(i*src.rows/rows, src.rows-1)
		for j := 0; j < cols; j++ {
			sj := min(j*src.cols/cols, src.cols-1)
			out.cells[i*cols+j] = src.cells[si*src.cols+sj]
		}
	}
	return out, nil
}
