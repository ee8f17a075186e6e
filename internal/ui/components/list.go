package components

// List tracks a cursor and scroll offset over n rows. Rows themselves
// live with the caller.
type List struct {
	Len      int
	Cursor   int
	Offset   int
	PageSize int
}

// NewList creates a list with the given page size.
func NewList(pageSize int) *List {
	return &List{PageSize: pageSize}
}

// SetLen replaces the row count, clamping the cursor so a refetch keeps
// the user near where they were.
func (l *List) SetLen(n int) {
	l.Len = n
	if l.Cursor >= n {
		l.Cursor = n - 1
	}
	if l.Cursor < 0 {
		l.Cursor = 0
	}
	if l.Offset > l.Cursor {
		l.Offset = l.Cursor
	}
	if l.PageSize > 0 && l.Cursor >= l.Offset+l.PageSize {
		l.Offset = l.Cursor - l.PageSize + 1
	}
}

// Reset moves back to the first row.
func (l *List) Reset() {
	l.Cursor = 0
	l.Offset = 0
}

// Down moves the cursor down.
func (l *List) Down() {
	if l.Cursor < l.Len-1 {
		l.Cursor++
		if l.Cursor >= l.Offset+l.PageSize {
			l.Offset++
		}
	}
}

// Up moves the cursor up.
func (l *List) Up() {
	if l.Cursor > 0 {
		l.Cursor--
		if l.Cursor < l.Offset {
			l.Offset--
		}
	}
}

// Window returns the [start, end) range of visible rows.
func (l *List) Window() (int, int) {
	end := l.Offset + l.PageSize
	if end > l.Len {
		end = l.Len
	}
	if l.Offset > end {
		return end, end
	}
	return l.Offset, end
}

// Selected returns the index of the cursor row.
func (l *List) Selected() int {
	return l.Cursor
}
