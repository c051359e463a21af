// Package jobxml builds the XML job definitions accepted by the Automation
// Services start-content endpoint.
package jobxml

import "github.com/beevik/etree"

// XML namespaces used by Automation Services job definitions.
const (
	jobNamespace         = "urn:tibco:spotfire.dxp.automation"
	DefaultTaskNamespace = "urn:tibco:spotfire.dxp.automation.tasks"
)

// Attribute is a simple named value serialized as a child element of a task.
type Attribute struct {
	Name  string
	Value string
}

// Task is one step of a job definition.
type Task interface {
	// TaskName is the XML element name of the task.
	TaskName() string
	// TaskTitle is the human-readable title placed in <as:Title>.
	TaskTitle() string
	// TaskNamespace is the xmlns the task element is declared in.
	TaskNamespace() string
	// TaskAttributes are the task's child elements in serialization order.
	TaskAttributes() []Attribute
}

// JobDefinition is an ordered sequence of tasks serializable to the XML
// format expected by the REST API.
type JobDefinition struct {
	tasks []Task
}

// NewJobDefinition creates an empty job definition.
func NewJobDefinition() *JobDefinition {
	return &JobDefinition{}
}

// AddTask appends a task in execution order.
func (d *JobDefinition) AddTask(task Task) {
	d.tasks = append(d.tasks, task)
}

// Tasks returns the current task list.
func (d *JobDefinition) Tasks() []Task {
	return d.tasks
}

// Document serializes the definition into an XML document with declaration.
func (d *JobDefinition) Document() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)

	job := doc.CreateElement("as:Job")
	job.CreateAttr("xmlns:as", jobNamespace)

	tasks := job.CreateElement("as:Tasks")
	for _, task := range d.tasks {
		el := tasks.CreateElement(task.TaskName())
		el.CreateAttr("xmlns", task.TaskNamespace())
		el.CreateElement("as:Title").SetText(task.TaskTitle())
		for _, attr := range task.TaskAttributes() {
			el.CreateElement(attr.Name).SetText(attr.Value)
		}
	}
	return doc
}

// Bytes returns the serialized XML.
func (d *JobDefinition) Bytes() ([]byte, error) {
	return d.Document().WriteToBytes()
}
