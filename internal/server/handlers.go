package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/image-editor-mcp/internal/editor"
	"github.com/ironsheep/image-editor-mcp/internal/filter"
	"github.com/ironsheep/image-editor-mcp/internal/imaging"
)

// errInvalidParams marks argument errors, reported as JSON-RPC -32602.
var errInvalidParams = errors.New("invalid params")

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_open", "image_crop").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Argument errors return -32602; any other tool error returns -32000 with
// the error text as data.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	log := s.log.WithField("tool", params.Name)
	log.Debug("tool call")

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		log.WithError(err).Warn("tool call failed")
		if errors.Is(err, errInvalidParams) {
			return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
		}
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Documents
	case "image_open":
		return s.handleImageOpen(args)
	case "image_close":
		return s.handleImageClose(args)
	case "image_save":
		return s.handleImageSave(args)
	case "image_info":
		return s.handleImageInfo(args)
	case "image_list_documents":
		return map[string]interface{}{"documents": s.documentIDs()}, nil
	case "image_export":
		return s.handleImageExport(args)

	// Filters
	case "image_list_filters":
		return map[string]interface{}{"filters": filter.Names()}, nil
	case "image_apply_filter":
		return s.handleApplyFilter(args)

	// Geometry
	case "image_enlarge":
		return s.handleEdit(args, (*editor.Engine).Enlarge)
	case "image_shrink":
		return s.handleEdit(args, (*editor.Engine).Shrink)
	case "image_crop":
		return s.handleCrop(args, (*editor.Engine).Crop)

	// Preview
	case "image_preview_crop":
		return s.handleCrop(args, (*editor.Engine).PreviewCrop)
	case "image_preview_filter":
		return s.handlePreviewFilter(args)
	case "image_preview_commit":
		return s.handleEdit(args, (*editor.Engine).CommitPreview)
	case "image_preview_discard":
		return s.handleEdit(args, statusOnly((*editor.Engine).DiscardPreview))

	// History
	case "image_undo":
		return s.handleEdit(args, statusOnly((*editor.Engine).Undo))
	case "image_redo":
		return s.handleEdit(args, statusOnly((*editor.Engine).Redo))
	case "image_history":
		return s.handleImageHistory(args)

	// Colors
	case "image_sample_color":
		return s.handleImageSampleColor(args)
	case "image_sample_colors_multi":
		return s.handleImageSampleColorsMulti(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments into v. Missing arguments leave v
// at its zero value.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidParams, err)
	}
	return nil
}

func statusOnly(fn func(*editor.Engine) string) func(*editor.Engine) (string, error) {
	return func(e *editor.Engine) (string, error) { return fn(e), nil }
}

// docArgs is embedded by every tool's arguments.
type docArgs struct {
	Document string `json:"document"`
}

func (a docArgs) id() string {
	if a.Document == "" {
		return DefaultDocument
	}
	return a.Document
}

// documentResult reports the state of a document after a tool call.
type documentResult struct {
	Document string            `json:"document"`
	Path     string            `json:"path,omitempty"`
	File     *imaging.FileInfo `json:"file,omitempty"`
	editor.Info
}

func (d *document) result(id string) *documentResult {
	return &documentResult{Document: id, Path: d.path, Info: d.engine.Info()}
}

func noImage(id string) *documentResult {
	return &documentResult{Document: id, Info: editor.Info{Status: editor.StatusNoImage}}
}

// edit runs fn on the document's engine under its lock and reports the
// resulting state. A missing document behaves like an engine with no image.
func (s *Server) edit(id string, fn func(*editor.Engine) (string, error)) (interface{}, error) {
	doc := s.lookup(id)
	if doc == nil {
		return noImage(id), nil
	}
	doc.mu.Lock()
	defer doc.mu.Unlock()

	if _, err := fn(doc.engine); err != nil {
		return nil, err
	}
	return doc.result(id), nil
}

// view runs fn with the document locked, provided it has an image.
func (s *Server) view(id string, fn func(*document) (interface{}, error)) (interface{}, error) {
	doc := s.lookup(id)
	if doc == nil {
		return noImage(id), nil
	}
	doc.mu.Lock()
	defer doc.mu.Unlock()

	if !doc.engine.HasImage() {
		return doc.result(id), nil
	}
	return fn(doc)
}

// === Document Handlers ===

type pathArgs struct {
	docArgs
	Path string `json:"path"`
}

func (s *Server) handleImageOpen(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("%w: path is required", errInvalidParams)
	}
	path := s.resolvePath(a.Path)
	id := a.id()

	// The document is only registered once there is an image to put in it.
	b, err := s.cache.Load(path)
	if imaging.IsInvalidFormat(err) {
		s.log.WithFields(logrus.Fields{"document": id, "path": path}).WithError(err).Info("open rejected")
		doc := s.lookup(id)
		if doc == nil {
			return &documentResult{Document: id, Info: editor.Info{Status: editor.StatusInvalidFormat}}, nil
		}
		doc.mu.Lock()
		defer doc.mu.Unlock()
		doc.engine.Load(nil)
		return doc.result(id), nil
	}
	if err != nil {
		return nil, err
	}
	info, err := imaging.Stat(path, b)
	if err != nil {
		return nil, err
	}

	doc := s.open(id)
	doc.mu.Lock()
	defer doc.mu.Unlock()
	doc.engine.Load(b)
	doc.path = path

	res := doc.result(id)
	res.File = info
	return res, nil
}

func (s *Server) handleImageClose(args json.RawMessage) (interface{}, error) {
	var a docArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	id := a.id()
	doc := s.lookup(id)
	if doc == nil {
		return noImage(id), nil
	}

	doc.mu.Lock()
	doc.engine.Close()
	res := &documentResult{Document: id, Info: doc.engine.Info()}
	doc.mu.Unlock()

	s.drop(id)
	return res, nil
}

func (s *Server) handleImageSave(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	id := a.id()
	return s.view(id, func(doc *document) (interface{}, error) {
		path := doc.path
		if a.Path != "" {
			path = s.resolvePath(a.Path)
		}
		if path == "" {
			return nil, fmt.Errorf("%w: path is required", errInvalidParams)
		}

		b := doc.engine.Current()
		if err := imaging.Save(b, path); err != nil {
			return nil, err
		}
		s.cache.Evict(path)

		info, err := imaging.Stat(path, b)
		if err != nil {
			return nil, err
		}
		doc.path = path
		s.log.WithFields(logrus.Fields{"document": id, "path": path}).Info("image saved")

		res := doc.result(id)
		res.File = info
		return res, nil
	})
}

func (s *Server) handleImageInfo(args json.RawMessage) (interface{}, error) {
	var a docArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return s.edit(a.id(), func(e *editor.Engine) (string, error) { return e.Status(), nil })
}

type exportArgs struct {
	docArgs
	GridSpacing     int    `json:"grid_spacing"`
	ShowCoordinates bool   `json:"show_coordinates"`
	GridColor       string `json:"grid_color"`
}

func (s *Server) handleImageExport(args json.RawMessage) (interface{}, error) {
	var a exportArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	grid := imaging.Grid{
		Spacing: a.GridSpacing,
		Labels:  a.ShowCoordinates,
		Color:   imaging.DefaultGridColor,
	}
	if a.GridColor != "" {
		c, err := imaging.ParseHexColor(a.GridColor)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errInvalidParams, err)
		}
		grid.Color = c
	}
	return s.view(a.id(), func(doc *document) (interface{}, error) {
		b, err := imaging.Overlay(doc.engine.Current(), grid)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errInvalidParams, err)
		}
		return imaging.Encode(b)
	})
}

// === Editing Handlers ===

func (s *Server) handleEdit(args json.RawMessage, fn func(*editor.Engine) (string, error)) (interface{}, error) {
	var a docArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return s.edit(a.id(), fn)
}

type filterArgs struct {
	docArgs
	Name string `json:"name"`
}

func (s *Server) handleApplyFilter(args json.RawMessage) (interface{}, error) {
	var a filterArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return s.edit(a.id(), func(e *editor.Engine) (string, error) {
		return e.ApplyFilter(a.Name)
	})
}

func (s *Server) handlePreviewFilter(args json.RawMessage) (interface{}, error) {
	var a filterArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return s.edit(a.id(), func(e *editor.Engine) (string, error) {
		return e.PreviewFilter(a.Name)
	})
}

type cropArgs struct {
	docArgs
	imaging.Margins
}

func (s *Server) handleCrop(args json.RawMessage, fn func(*editor.Engine, imaging.Margins) (string, error)) (interface{}, error) {
	var a cropArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return s.edit(a.id(), func(e *editor.Engine) (string, error) {
		return fn(e, a.Margins)
	})
}

func (s *Server) handleImageHistory(args json.RawMessage) (interface{}, error) {
	var a docArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	id := a.id()
	doc := s.lookup(id)
	if doc == nil {
		return map[string]interface{}{"document": id, "entries": []editor.Entry{}}, nil
	}
	doc.mu.Lock()
	defer doc.mu.Unlock()
	return map[string]interface{}{"document": id, "entries": doc.engine.History()}, nil
}

// === Color Handlers ===

type sampleColorArgs struct {
	docArgs
	X int `json:"x"`
	Y int `json:"y"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a sampleColorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return s.view(a.id(), func(doc *document) (interface{}, error) {
		return imaging.SampleColor(doc.engine.Current(), a.X, a.Y)
	})
}

type sampleColorsMultiArgs struct {
	docArgs
	Points []imaging.LabeledPoint `json:"points"`
}

func (s *Server) handleImageSampleColorsMulti(args json.RawMessage) (interface{}, error) {
	var a sampleColorsMultiArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if len(a.Points) == 0 {
		return nil, fmt.Errorf("%w: points is required", errInvalidParams)
	}
	return s.view(a.id(), func(doc *document) (interface{}, error) {
		return imaging.SampleColorsMulti(doc.engine.Current(), a.Points)
	})
}
