package tools

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// The visualization tools render on the client from their input. Executing
// one only validates the arguments so the model gets a useful error back.

type chartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

func (p chartPoint) Validate() error {
	return validation.ValidateStruct(&p, validation.Field(&p.Label, validation.Required))
}

type pieChartInput struct {
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Unit        string       `json:"unit,omitempty"`
	Data        []chartPoint `json:"data"`
}

func (in pieChartInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required),
		validation.Field(&in.Data, validation.Required),
	)
}

type seriesValue struct {
	SeriesName string  `json:"seriesName"`
	Value      float64 `json:"value"`
}

type seriesPoint struct {
	XAxisLabel string        `json:"xAxisLabel"`
	Series     []seriesValue `json:"series"`
}

type seriesChartInput struct {
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	YAxisLabel  string        `json:"yAxisLabel,omitempty"`
	Data        []seriesPoint `json:"data"`
}

func (in seriesChartInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required),
		validation.Field(&in.Data, validation.Required),
	)
}

type tableColumn struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type,omitempty"`
}

func (c tableColumn) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Key, validation.Required),
		validation.Field(&c.Label, validation.Required),
		validation.Field(&c.Type, validation.In("string", "number", "date", "boolean")),
	)
}

type tableInput struct {
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Columns     []tableColumn    `json:"columns"`
	Data        []map[string]any `json:"data"`
}

func (in tableInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required),
		validation.Field(&in.Columns, validation.Required),
	)
}

func renderTool[T any]() ToolExecutor {
	return ExecutorFunc(func(_ context.Context, input map[string]any) (any, error) {
		var in T
		if err := decodeInput(input, &in); err != nil {
			return nil, err
		}
		return "Success", nil
	})
}

var seriesSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"title":       map[string]any{"type": "string"},
		"description": map[string]any{"type": "string"},
		"yAxisLabel":  map[string]any{"type": "string"},
		"data": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"xAxisLabel": map[string]any{"type": "string"},
					"series": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"seriesName": map[string]any{"type": "string"},
								"value":      map[string]any{"type": "number"},
							},
							"required": []string{"seriesName", "value"},
						},
					},
				},
				"required": []string{"xAxisLabel", "series"},
			},
		},
	},
	"required": []string{"title", "data"},
}

func visualizationTools() []Tool {
	return []Tool{
		{
			Name:        ToolCreatePieChart,
			Toolkit:     ToolkitVisualization,
			Description: "Create a pie chart visualization from labelled values.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title":       map[string]any{"type": "string"},
					"description": map[string]any{"type": "string"},
					"unit":        map[string]any{"type": "string"},
					"data": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"label": map[string]any{"type": "string"},
								"value": map[string]any{"type": "number"},
							},
							"required": []string{"label", "value"},
						},
					},
				},
				"required": []string{"title", "data"},
			},
			Executor: renderTool[pieChartInput](),
		},
		{
			Name:        ToolCreateBarChart,
			Toolkit:     ToolkitVisualization,
			Description: "Create a bar chart comparing one or more series across categories.",
			Parameters:  seriesSchema,
			Executor:    renderTool[seriesChartInput](),
		},
		{
			Name:        ToolCreateLineChart,
			Toolkit:     ToolkitVisualization,
			Description: "Create a line chart showing one or more series over an axis.",
			Parameters:  seriesSchema,
			Executor:    renderTool[seriesChartInput](),
		},
		{
			Name:        ToolCreateTable,
			Toolkit:     ToolkitVisualization,
			Description: "Create an interactive table. Prefer this over writing a markdown table when showing structured rows.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title":       map[string]any{"type": "string"},
					"description": map[string]any{"type": "string"},
					"columns": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"key":   map[string]any{"type": "string"},
								"label": map[string]any{"type": "string"},
								"type":  map[string]any{"type": "string", "enum": []string{"string", "number", "date", "boolean"}},
							},
							"required": []string{"key", "label"},
						},
					},
					"data": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "object"},
					},
				},
				"required": []string{"title", "columns", "data"},
			},
			Executor: renderTool[tableInput](),
		},
	}
}
