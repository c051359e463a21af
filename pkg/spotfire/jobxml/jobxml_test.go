package jobxml_test

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrankin/spotfire-community/pkg/spotfire/jobxml"
)

func TestJobDefinitionDocument(t *testing.T) {
	def := jobxml.NewJobDefinition()
	def.AddTask(&jobxml.OpenAnalysisTask{Path: "/Samples/Analysis.dxp"})
	def.AddTask(jobxml.NewApplyBookmarkTaskByName("Quarterly View"))

	payload, err := def.Bytes()
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(payload))

	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "Job", root.Tag)
	assert.Equal(t, "urn:tibco:spotfire.dxp.automation", root.SelectAttrValue("xmlns:as", ""))

	tasks := root.SelectElement("Tasks")
	require.NotNil(t, tasks)
	require.Len(t, tasks.ChildElements(), 2)

	open := tasks.ChildElements()[0]
	assert.Equal(t, "OpenAnalysisFromLibrary", open.Tag)
	assert.Equal(t, jobxml.DefaultTaskNamespace, open.SelectAttrValue("xmlns", ""))
	assert.Equal(t, "Open Analysis from Library", open.SelectElement("Title").Text())
	assert.Equal(t, "/Samples/Analysis.dxp", open.SelectElement("AnalysisPath").Text())

	bookmark := tasks.ChildElements()[1]
	assert.Equal(t, "ApplyBookmark", bookmark.Tag)
	assert.Equal(t, "Quarterly View", bookmark.SelectElement("BookmarkName").Text())
	assert.Equal(t, "true", bookmark.SelectElement("UseBookmarkName").Text())
	assert.Equal(t, "00000000-0000-0000-0000-000000000000", bookmark.SelectElement("BookmarkId").Text())
}

func TestApplyBookmarkByID(t *testing.T) {
	task := jobxml.NewApplyBookmarkTaskByID("598f5e27-4a62-4ecc-bb05-2a27a0f13289")

	attrs := task.TaskAttributes()
	require.Len(t, attrs, 3)
	assert.Equal(t, jobxml.Attribute{Name: "BookmarkId", Value: "598f5e27-4a62-4ecc-bb05-2a27a0f13289"}, attrs[0])
	assert.Equal(t, jobxml.Attribute{Name: "BookmarkName", Value: ""}, attrs[1])
	assert.Equal(t, jobxml.Attribute{Name: "UseBookmarkName", Value: "false"}, attrs[2])
}

func TestTaskNamespaceOverride(t *testing.T) {
	task := &jobxml.OpenAnalysisTask{
		Path:      "/x",
		Namespace: "urn:example:custom.tasks",
	}
	assert.Equal(t, "urn:example:custom.tasks", task.TaskNamespace())
}
