package models

// Outcome classifies what happened to a single candidate file.
type Outcome string

const (
	OutcomeConverted          Outcome = "converted"
	OutcomeFailed             Outcome = "failed"
	OutcomeInvalidName        Outcome = "invalid_name"
	OutcomeSkippedUnsupported Outcome = "skipped_unsupported"
	OutcomeSkippedAlreadyAV1  Outcome = "skipped_already_av1"
	OutcomeSkippedExists      Outcome = "skipped_output_exists"
)

// IsValid returns true if the outcome is a known Outcome value.
func (o Outcome) IsValid() bool {
	switch o {
	case OutcomeConverted, OutcomeFailed, OutcomeInvalidName,
		OutcomeSkippedUnsupported, OutcomeSkippedAlreadyAV1, OutcomeSkippedExists:
		return true
	}
	return false
}

// Skipped reports whether the outcome belongs in the skipped-files list.
func (o Outcome) Skipped() bool {
	switch o {
	case OutcomeSkippedUnsupported, OutcomeSkippedAlreadyAV1, OutcomeSkippedExists:
		return true
	}
	return false
}

// Failed reports whether the outcome belongs in the bad-files list.
func (o Outcome) Failed() bool {
	return o == OutcomeFailed || o == OutcomeInvalidName
}

// FileResult records the outcome for one candidate file.
type FileResult struct {
	Path        string  `json:"path"`
	Outcome     Outcome `json:"outcome"`
	Detail      string  `json:"detail,omitempty"`
	InputBytes  int64   `json:"inputBytes,omitempty"`
	OutputBytes int64   `json:"outputBytes,omitempty"`
}

// Summary aggregates the results of one batch invocation.
type Summary struct {
	Total       int          `json:"total"`
	Converted   int          `json:"converted"`
	Skipped     int          `json:"skipped"`
	Failed      int          `json:"failed"`
	InputBytes  int64        `json:"inputBytes"`
	OutputBytes int64        `json:"outputBytes"`
	Results     []FileResult `json:"results"`
}

// Record appends a result and updates the counters.
func (s *Summary) Record(r FileResult) {
	s.Results = append(s.Results, r)
	s.Total++
	s.InputBytes += r.InputBytes
	s.OutputBytes += r.OutputBytes
	switch {
	case r.Outcome == OutcomeConverted:
		s.Converted++
	case r.Outcome.Failed():
		s.Failed++
	case r.Outcome.Skipped():
		s.Skipped++
	}
}

// SpaceSaved returns input minus output bytes for converted files. Negative
// when conversions grew the data.
func (s *Summary) SpaceSaved() int64 {
	return s.InputBytes - s.OutputBytes
}
