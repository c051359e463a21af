package jobxml

import "github.com/google/uuid"

// OpenAnalysisTask opens an analysis from the Spotfire library.
type OpenAnalysisTask struct {
	// Path is the library path to the analysis, e.g. "/Samples/Analysis.dxp".
	Path string
	// ConfigurationBlock is an optional configuration block.
	ConfigurationBlock string
	// Namespace overrides DefaultTaskNamespace when set.
	Namespace string
}

func (t *OpenAnalysisTask) TaskName() string  { return "OpenAnalysisFromLibrary" }
func (t *OpenAnalysisTask) TaskTitle() string { return "Open Analysis from Library" }

func (t *OpenAnalysisTask) TaskNamespace() string {
	if t.Namespace != "" {
		return t.Namespace
	}
	return DefaultTaskNamespace
}

func (t *OpenAnalysisTask) TaskAttributes() []Attribute {
	return []Attribute{
		{Name: "AnalysisPath", Value: t.Path},
		{Name: "ConfigurationBlock", Value: t.ConfigurationBlock},
	}
}

// ApplyBookmarkTask applies a bookmark to the open analysis, addressed
// either by id or by name.
type ApplyBookmarkTask struct {
	bookmarkID      string
	bookmarkName    string
	useBookmarkName bool

	// Namespace overrides DefaultTaskNamespace when set.
	Namespace string
}

// NewApplyBookmarkTaskByID creates a task that applies the bookmark with the
// given id.
func NewApplyBookmarkTaskByID(bookmarkID string) *ApplyBookmarkTask {
	return &ApplyBookmarkTask{bookmarkID: bookmarkID}
}

// NewApplyBookmarkTaskByName creates a task that applies the bookmark with
// the given name. The bookmark id is filled with the zero UUID placeholder.
func NewApplyBookmarkTaskByName(bookmarkName string) *ApplyBookmarkTask {
	return &ApplyBookmarkTask{
		bookmarkID:      uuid.Nil.String(),
		bookmarkName:    bookmarkName,
		useBookmarkName: true,
	}
}

func (t *ApplyBookmarkTask) TaskName() string  { return "ApplyBookmark" }
func (t *ApplyBookmarkTask) TaskTitle() string { return "Apply Bookmark" }

func (t *ApplyBookmarkTask) TaskNamespace() string {
	if t.Namespace != "" {
		return t.Namespace
	}
	return DefaultTaskNamespace
}

func (t *ApplyBookmarkTask) TaskAttributes() []Attribute {
	useName := "false"
	if t.useBookmarkName {
		useName = "true"
	}
	return []Attribute{
		{Name: "BookmarkId", Value: t.bookmarkID},
		{Name: "BookmarkName", Value: t.bookmarkName},
		{Name: "UseBookmarkName", Value: useName},
	}
}
