package render

// ViewOffset returns the first visible field cell on one axis so that center
// stays in the middle of a view of viewLen cells, without scrolling past
// either end of a field of fieldLen cells.
func ViewOffset(center, fieldLen, viewLen int) int {
	if viewLen >= fieldLen {
		return 0
	}
	offset := center - viewLen/2
	if offset < 0 {
		return 0
	}
	if last := fieldLen - viewLen; offset > last {
		return last
	}
	return offset
}
