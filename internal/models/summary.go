package models

// SummaryType selects the layout of a generated summary.
type SummaryType string

const (
	SummaryTypeBullet    SummaryType = "bullet"
	SummaryTypeParagraph SummaryType = "paragraph"
	SummaryTypeOutline   SummaryType = "outline"
)

// Valid reports whether t is a known summary type.
func (t SummaryType) Valid() bool {
	switch t {
	case SummaryTypeBullet, SummaryTypeParagraph, SummaryTypeOutline:
		return true
	}
	return false
}

// Summary is a condensed version of a submitted text.
type Summary struct {
	ID               string      `json:"id" yaml:"id"`
	Title            string      `json:"title" yaml:"title"`
	OriginalLength   int         `json:"originalLength" yaml:"originalLength"` // words
	SummaryLength    int         `json:"summaryLength" yaml:"summaryLength"`   // words
	CompressionRatio int         `json:"compressionRatio" yaml:"compressionRatio"`
	Content          string      `json:"content" yaml:"content"`
	KeyPoints        []string    `json:"keyPoints" yaml:"keyPoints"`
	CreatedAt        string      `json:"createdAt" yaml:"createdAt"` // YYYY-MM-DD
	Type             SummaryType `json:"type" yaml:"type"`
}

// SummaryStats are the header figures of the summariser.
type SummaryStats struct {
	Count               int `json:"count"`
	AverageCompression  int `json:"averageCompression"`
	TotalWordsProcessed int `json:"totalWordsProcessed"`
}
