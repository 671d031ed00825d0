package result

// Pagination describes the position of a page in the full ordered result set.
type Pagination struct {
	Page          int
	Size          int
	TotalElements int
	TotalPages    int
	HasNext       bool
	HasPrevious   bool
}

// NewPagination computes page metadata. TotalPages is ceil(total/size), 0 when total is 0.
func NewPagination(page, size, total int) Pagination {
	p := Pagination{Page: page, Size: size, TotalElements: total}
	if size > 0 {
		p.TotalPages = (total + size - 1) / size
	}
	p.HasNext = page+1 < p.TotalPages
	p.HasPrevious = page > 0
	return p
}

// Bounds returns the slice bounds of the page within the full ordered result set.
// Pages past the end yield an empty range.
func (p Pagination) Bounds() (start, end int) {
	if p.Page >= p.TotalPages {
		return p.TotalElements, p.TotalElements
	}
	start = p.Page * p.Size
	end = min(start+p.Size, p.TotalElements)
	return start, end
}
