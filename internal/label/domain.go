package label

// SampleType identifies the kind of content a sample holds.
type SampleType string

const (
	SampleTypeImage      SampleType = "image"
	SampleTypeText       SampleType = "text"
	SampleTypeAudio      SampleType = "audio"
	SampleTypeVideo      SampleType = "video"
	SampleTypeTimeSeries SampleType = "time-series"
)

// KnownSampleTypes lists every sample type the store understands.
var KnownSampleTypes = []SampleType{
	SampleTypeImage,
	SampleTypeText,
	SampleTypeAudio,
	SampleTypeVideo,
	SampleTypeTimeSeries,
}

// Valid reports whether t is one of the known sample types.
func (t SampleType) Valid() bool {
	for _, known := range KnownSampleTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Sample is one external content unit to be labeled. Samples come from the
// project configuration and are immutable from the store's perspective.
// FileName is either a key relative to the project data path or an absolute
// http(s) URL.
type Sample struct {
	ID       string            `json:"id" yaml:"id"`
	FileName string            `json:"fileName" yaml:"fileName"`
	Type     SampleType        `json:"type" yaml:"type"`
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// AnnotationStatus marks whether an annotation is still being worked on.
type AnnotationStatus string

const (
	StatusDraft     AnnotationStatus = "draft"
	StatusSubmitted AnnotationStatus = "submitted"
)

// Annotation is a single user's labeling result for one sample.
// Exactly one current annotation exists per (SampleID, UserID) pair;
// re-submission overwrites the previous one (last write wins, no versions).
type Annotation struct {
	ID            string                `json:"id"`
	SampleID      string                `json:"sampleId"`
	UserID        string                `json:"userId"`
	UserEmail     string                `json:"userEmail,omitempty"`
	UserName      string                `json:"userName,omitempty"`
	Timestamp     string                `json:"timestamp"`
	Labels        map[string]LabelValue `json:"labels"`
	Status        AnnotationStatus      `json:"status"`
	AzureObjectID string                `json:"azureObjectId,omitempty"`
	TenantID      string                `json:"tenantId,omitempty"`
}

// ProjectStats summarizes annotation progress across the whole project.
// AnnotatedSamples counts samples with at least one annotation from any
// user, under either storage layout.
type ProjectStats struct {
	TotalSamples     int `json:"totalSamples"`
	AnnotatedSamples int `json:"annotatedSamples"`
}
