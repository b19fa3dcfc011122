package model

// DateLayout is the partition date format used in remote store file names.
const DateLayout = "2006-01-02"

// StoreSizeState is the running baseline of the remote store sampler.
// The zero value means no cycle has completed yet.
type StoreSizeState struct {
	LastObservedDate             string
	CumulativeWrittenBeforeToday int64
	// TotalBytesTodaySoFar is today's listed size at the last cycle. It
	// mirrors the baseline and is kept for inspection only.
	TotalBytesTodaySoFar int64
}

// Bootstrapped reports whether a baseline has been recorded.
func (s StoreSizeState) Bootstrapped() bool {
	return s.LastObservedDate != ""
}

// ListingTotals is the parsed result of one storage listing.
type ListingTotals struct {
	Size      int64 // bytes across every queried partition
	SizeToday int64 // bytes in files whose path carries today's date
	Skipped   int   // lines that could not be parsed
}
