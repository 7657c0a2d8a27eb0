package fdw

import "time"

const maxScanMetadataItems = 1000

// ScanMetadata describes one completed scan.
type ScanMetadata struct {
	Id           int
	CallId       string
	Table        string
	RowsReturned int64
	Rescans      int
	Quals        string
	Error        string
	StartTime    time.Time
	Duration     time.Duration
}

// AsResultRow returns the ScanMetadata as a map[string]interface which can be returned as a query result
func (m ScanMetadata) AsResultRow() map[string]interface{} {
	res := map[string]interface{}{
		"id":            m.Id,
		"call_id":       m.CallId,
		"table":         m.Table,
		"rows_returned": m.RowsReturned,
		"rescans":       m.Rescans,
		"quals":         m.Quals,
		"start_time":    m.StartTime,
		"duration_ms":   m.Duration.Milliseconds(),
	}
	if m.Error == "" {
		res["error"] = nil
	} else {
		res["error"] = m.Error
	}
	return res
}

// addScanMetadata appends m to the history, trimming the oldest items
// once there are more than maxScanMetadataItems.
func (f *FDW) addScanMetadata(m ScanMetadata) {
	f.metadataLock.Lock()
	defer f.metadataLock.Unlock()

	// ids start at 1
	m.Id = 1
	if n := len(f.scanMetadata); n > 0 {
		m.Id = f.scanMetadata[n-1].Id + 1
	}
	f.scanMetadata = append(f.scanMetadata, m)

	if excess := len(f.scanMetadata) - maxScanMetadataItems; excess > 0 {
		f.scanMetadata = f.scanMetadata[excess:]
	}
}

// ScanMetadata returns the metadata of completed scans, oldest first.
func (f *FDW) ScanMetadata() []ScanMetadata {
	f.metadataLock.Lock()
	defer f.metadataLock.Unlock()
	res := make([]ScanMetadata, len(f.scanMetadata))
	copy(res, f.scanMetadata)
	return res
}

// ClearScanMetadata deletes all stored scan metadata.
func (f *FDW) ClearScanMetadata() {
	f.metadataLock.Lock()
	defer f.metadataLock.Unlock()
	f.scanMetadata = nil
}
