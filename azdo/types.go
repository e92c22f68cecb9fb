package azdo

import "time"

// listResponse is the count/value envelope most list endpoints return.
type listResponse[T any] struct {
	Count int `json:"count"`
	Value []T `json:"value"`
}

// Project is a team project reference.
type Project struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	State          string `json:"state,omitempty"`
	Visibility     string `json:"visibility,omitempty"`
	LastUpdateTime string `json:"lastUpdateTime,omitempty"`
	URL            string `json:"url,omitempty"`
}

// Pipeline is a pipeline definition reference.
type Pipeline struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Folder   string `json:"folder,omitempty"`
	Revision int    `json:"revision,omitempty"`
	URL      string `json:"url,omitempty"`
}

// PipelineRun is the result of queueing a pipeline.
type PipelineRun struct {
	ID          int            `json:"id"`
	Name        string         `json:"name,omitempty"`
	State       string         `json:"state,omitempty"`
	Result      string         `json:"result,omitempty"`
	CreatedDate string         `json:"createdDate,omitempty"`
	URL         string         `json:"url,omitempty"`
	Pipeline    Pipeline       `json:"pipeline,omitempty"`
	Variables   map[string]any `json:"variables,omitempty"`
}

// RunPipelineRequest is the body for queueing a pipeline run.
type RunPipelineRequest struct {
	Resources          *RunResources  `json:"resources,omitempty"`
	TemplateParameters map[string]any `json:"templateParameters,omitempty"`
}

// RunResources pins the source ref for a pipeline run.
type RunResources struct {
	Repositories map[string]RunRepository `json:"repositories"`
}

// RunRepository selects the ref of one repository resource.
type RunRepository struct {
	RefName string `json:"refName"`
}

// Build is one entry from the build list/detail endpoints.
type Build struct {
	ID            int            `json:"id"`
	BuildNumber   string         `json:"buildNumber,omitempty"`
	Status        string         `json:"status,omitempty"`
	Result        string         `json:"result,omitempty"`
	QueueTime     string         `json:"queueTime,omitempty"`
	StartTime     string         `json:"startTime,omitempty"`
	FinishTime    string         `json:"finishTime,omitempty"`
	SourceBranch  string         `json:"sourceBranch,omitempty"`
	SourceVersion string         `json:"sourceVersion,omitempty"`
	Definition    map[string]any `json:"definition,omitempty"`
	RequestedFor  map[string]any `json:"requestedFor,omitempty"`
	URL           string         `json:"url,omitempty"`
}

// BuildLog is one log index entry for a build.
type BuildLog struct {
	ID        int    `json:"id"`
	Type      string `json:"type,omitempty"`
	LineCount int    `json:"lineCount,omitempty"`
	URL       string `json:"url,omitempty"`
}

// WorkItem is a pass-through work item document. Fields is kept as a raw
// map; this layer does not interpret field semantics.
type WorkItem struct {
	ID        int              `json:"id"`
	Rev       int              `json:"rev,omitempty"`
	Fields    map[string]any   `json:"fields,omitempty"`
	Relations []map[string]any `json:"relations,omitempty"`
	URL       string           `json:"url,omitempty"`
}

// WorkItemReference pairs a work item id with its API URL.
type WorkItemReference struct {
	ID  int    `json:"id"`
	URL string `json:"url,omitempty"`
}

// WorkItemLink is one edge of a link-type WIQL result.
type WorkItemLink struct {
	Rel    string            `json:"rel,omitempty"`
	Source WorkItemReference `json:"source,omitempty"`
	Target WorkItemReference `json:"target,omitempty"`
}

// WiqlRequest carries a WIQL query string.
type WiqlRequest struct {
	Query string `json:"query"`
}

// WiqlResponse is the result of a WIQL query. Flat queries populate
// WorkItems; link queries populate WorkItemRelations.
type WiqlResponse struct {
	QueryType         string              `json:"queryType,omitempty"`
	QueryResultType   string              `json:"queryResultType,omitempty"`
	AsOf              string              `json:"asOf,omitempty"`
	WorkItems         []WorkItemReference `json:"workItems,omitempty"`
	WorkItemRelations []WorkItemLink      `json:"workItemRelations,omitempty"`
}

// WorkItemsBatchRequest requests multiple work items in one call.
type WorkItemsBatchRequest struct {
	IDs    []int    `json:"ids"`
	Fields []string `json:"fields,omitempty"`
}

// WorkItemComment is a comment posted to a work item discussion.
type WorkItemComment struct {
	ID           int    `json:"id"`
	WorkItemID   int    `json:"workItemId,omitempty"`
	Text         string `json:"text,omitempty"`
	CreatedDate  string `json:"createdDate,omitempty"`
	ModifiedDate string `json:"modifiedDate,omitempty"`
	URL          string `json:"url,omitempty"`
}

// Board is a team board reference.
type Board struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// BoardColumn is one column of a team board.
type BoardColumn struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	ItemLimit     int            `json:"itemLimit,omitempty"`
	ColumnType    string         `json:"columnType,omitempty"`
	IsSplit       bool           `json:"isSplit,omitempty"`
	StateMappings map[string]any `json:"stateMappings,omitempty"`
}

// Iteration is a team settings iteration (sprint).
type Iteration struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Path       string              `json:"path,omitempty"`
	Attributes IterationAttributes `json:"attributes,omitempty"`
	URL        string              `json:"url,omitempty"`
}

// IterationAttributes carries the sprint window and timeframe.
type IterationAttributes struct {
	StartDate  *time.Time `json:"startDate,omitempty"`
	FinishDate *time.Time `json:"finishDate,omitempty"`
	TimeFrame  string     `json:"timeFrame,omitempty"`
}

// IterationWorkItems lists the work item links inside an iteration.
type IterationWorkItems struct {
	WorkItemRelations []WorkItemLink `json:"workItemRelations,omitempty"`
	URL               string         `json:"url,omitempty"`
}
