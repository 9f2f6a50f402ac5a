package server

import (
	"strings"

	"github.com/ironsheep/image-editor-mcp/internal/filter"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// objectSchema builds an input schema from properties. Every tool accepts
// the optional document id.
func objectSchema(props map[string]interface{}, required ...string) map[string]interface{} {
	all := map[string]interface{}{
		"document": map[string]interface{}{
			"type":        "string",
			"description": "Document id. Defaults to \"default\".",
		},
	}
	for k, v := range props {
		all[k] = v
	}
	schema := map[string]interface{}{
		"type":       "object",
		"properties": all,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func integerProp(desc string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": desc,
		"minimum":     0,
	}
}

func marginProps() map[string]interface{} {
	return map[string]interface{}{
		"left":   integerProp("Pixels removed from the left edge"),
		"right":  integerProp("Pixels removed from the right edge"),
		"bottom": integerProp("Pixels removed from the bottom edge"),
		"top":    integerProp("Pixels removed from the top edge"),
	}
}

func filterNameProp() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Filter name: " + strings.Join(filter.Names(), ", "),
		"enum":        filter.Names(),
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Documents
		{
			Name:        "image_open",
			Description: "Open an image file for editing. Replaces any image already open in the document and starts a fresh edit history.",
			InputSchema: objectSchema(map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Path to the image file. Relative paths resolve against the server working directory.",
				},
			}, "path"),
		},
		{
			Name:        "image_close",
			Description: "Close the document, discarding its image and edit history.",
			InputSchema: objectSchema(nil),
		},
		{
			Name:        "image_save",
			Description: "Save the current image. The format follows the file extension (png, jpg, gif, tif, bmp).",
			InputSchema: objectSchema(map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Destination path. Defaults to the path the image was opened from.",
				},
			}),
		},
		{
			Name:        "image_info",
			Description: "Report the dimensions, undo and redo depth, preview state and last status of the document.",
			InputSchema: objectSchema(nil),
		},
		{
			Name:        "image_list_documents",
			Description: "List the ids of the open documents.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "image_export",
			Description: "Return the image currently shown, including any preview, as base64-encoded PNG. An optional coordinate grid helps choose crop margins.",
			InputSchema: objectSchema(map[string]interface{}{
				"grid_spacing": integerProp("Pixels between grid lines. 0 (default) draws no grid"),
				"show_coordinates": map[string]interface{}{
					"type":        "boolean",
					"description": "Label grid intersections with their x,y coordinates",
					"default":     false,
				},
				"grid_color": map[string]interface{}{
					"type":        "string",
					"description": "Grid line color as #RRGGBB. Default #FF0000",
				},
			}),
		},

		// Filters
		{
			Name:        "image_list_filters",
			Description: "List the available filters in catalog order.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "image_apply_filter",
			Description: "Apply a filter to the current image. The edit can be undone.",
			InputSchema: objectSchema(map[string]interface{}{
				"name": filterNameProp(),
			}, "name"),
		},

		// Geometry
		{
			Name:        "image_enlarge",
			Description: "Double the width and height of the current image. Each pixel becomes a 2x2 block.",
			InputSchema: objectSchema(nil),
		},
		{
			Name:        "image_shrink",
			Description: "Halve the width and height of the current image. Each 2x2 block is averaged into one pixel.",
			InputSchema: objectSchema(nil),
		},
		{
			Name:        "image_crop",
			Description: "Remove the given number of pixels from each edge of the current image.",
			InputSchema: objectSchema(marginProps()),
		},

		// Preview
		{
			Name:        "image_preview_crop",
			Description: "Show a crop without committing it. Each call starts again from the image as it was before the preview.",
			InputSchema: objectSchema(marginProps()),
		},
		{
			Name:        "image_preview_filter",
			Description: "Show a filter without committing it. Each call starts again from the image as it was before the preview.",
			InputSchema: objectSchema(map[string]interface{}{
				"name": filterNameProp(),
			}, "name"),
		},
		{
			Name:        "image_preview_commit",
			Description: "Commit the current preview as a single undoable edit.",
			InputSchema: objectSchema(nil),
		},
		{
			Name:        "image_preview_discard",
			Description: "Discard the current preview and restore the image from before it.",
			InputSchema: objectSchema(nil),
		},

		// History
		{
			Name:        "image_undo",
			Description: "Undo the most recent edit.",
			InputSchema: objectSchema(nil),
		},
		{
			Name:        "image_redo",
			Description: "Redo the most recently undone edit.",
			InputSchema: objectSchema(nil),
		},
		{
			Name:        "image_history",
			Description: "List the edits in the document's history, oldest first, with their applied or undone state.",
			InputSchema: objectSchema(nil),
		},

		// Colors
		{
			Name:        "image_sample_color",
			Description: "Get the color of the pixel at (x, y) in the image currently shown as hex, RGB and HSL.",
			InputSchema: objectSchema(map[string]interface{}{
				"x": integerProp("X coordinate (0 = left edge)"),
				"y": integerProp("Y coordinate (0 = top edge)"),
			}, "x", "y"),
		},
		{
			Name:        "image_sample_colors_multi",
			Description: "Sample colors at several points in one call.",
			InputSchema: objectSchema(map[string]interface{}{
				"points": map[string]interface{}{
					"type":        "array",
					"description": "Points to sample",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"x":     map[string]interface{}{"type": "integer"},
							"y":     map[string]interface{}{"type": "integer"},
							"label": map[string]interface{}{"type": "string"},
						},
						"required": []string{"x", "y"},
					},
				},
			}, "points"),
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
