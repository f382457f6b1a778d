package xlsxwriter

// Outcome is the state of a workbook after a sheet has been written:
// either still open for more sheets (Ongoing) or flushed to disk (Completed).
type Outcome interface {
	outcome()
}

// Ongoing carries a workbook that stays open for further sheets.
type Ongoing struct {
	Workbook *Workbook
}

// Completed carries the path of a workbook that has been saved.
type Completed struct {
	Path string
}

func (Ongoing) outcome()   {}
func (Completed) outcome() {}

// Finish closes wb when closeWorkbook is set and reports the resulting state.
func Finish(wb *Workbook, closeWorkbook bool) (Outcome, error) {
	if !closeWorkbook {
		return Ongoing{Workbook: wb}, nil
	}
	if err := wb.Close(); err != nil {
		return nil, err
	}
	return Completed{Path: wb.Path()}, nil
}
