package domain

import "fmt"

// SourceUnavailableError reports that an ingestion collaborator could not
// connect to, query, or fetch its source. It aborts the pipeline run.
type SourceUnavailableError struct {
	Resource string
	Err      error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("source unavailable: %s: %v", e.Resource, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error {
	return e.Err
}

// ExtractionError reports a message that matched a pattern but yielded no
// usable numeric value: either no capture group participated in the match, or
// the captured text is not numeric. Unlike an unmatched message, this is a
// content/configuration defect and is fatal to the extraction stage.
type ExtractionError struct {
	Message string
	Reason  string
	Err     error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extract %q: %s: %v", e.Message, e.Reason, e.Err)
	}
	return fmt.Sprintf("extract %q: %s", e.Message, e.Reason)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
