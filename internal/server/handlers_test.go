package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ironsheep/image-editor-mcp/internal/editor"
	"github.com/ironsheep/image-editor-mcp/internal/imaging"
)

// writeTestImage writes a solid width x height PNG into dir and returns its path.
func writeTestImage(t *testing.T, dir, name string, width, height int, c color.Color) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

func callTool(s *Server, name string, args map[string]interface{}) *MCPResponse {
	params := map[string]interface{}{"name": name}
	if args != nil {
		params["arguments"] = args
	}
	paramsJSON, _ := json.Marshal(params)
	return s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
}

// call invokes a tool and reports a JSON-RPC error as a test failure. It
// is safe to use from other goroutines.
func call(t *testing.T, s *Server, name string, args map[string]interface{}) *MCPResponse {
	t.Helper()
	resp := callTool(s, name, args)
	if resp == nil {
		t.Errorf("%s: nil response", name)
		return nil
	}
	if resp.Error != nil {
		t.Errorf("%s: unexpected error %+v", name, resp.Error)
	}
	return resp
}

// callResult invokes a tool and decodes the JSON text content of the result.
func callResult(t *testing.T, s *Server, name string, args map[string]interface{}) map[string]interface{} {
	t.Helper()
	resp := call(t, s, name, args)
	if resp == nil || resp.Error != nil {
		t.FailNow()
	}
	content := resp.Result.(map[string]interface{})["content"].([]map[string]interface{})
	var out map[string]interface{}
	if err := json.Unmarshal([]byte(content[0]["text"].(string)), &out); err != nil {
		t.Fatalf("%s: result is not JSON: %v", name, err)
	}
	return out
}

func expectError(t *testing.T, s *Server, name string, args map[string]interface{}, code int) *MCPError {
	t.Helper()
	resp := callTool(s, name, args)
	if resp == nil || resp.Error == nil {
		t.Fatalf("%s: expected error %d, got %+v", name, code, resp)
	}
	if resp.Error.Code != code {
		t.Errorf("%s: error code got %d, want %d (%v)", name, resp.Error.Code, code, resp.Error.Data)
	}
	return resp.Error
}

func openTestImage(t *testing.T, width, height int, c color.Color) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	path := writeTestImage(t, dir, "input.png", width, height, c)
	s := New(WithWorkDir(dir))
	res := callResult(t, s, "image_open", map[string]interface{}{"path": "input.png"})
	if res["status"] != editor.StatusLoaded {
		t.Fatalf("image_open: got %v", res)
	}
	return s, path
}

func TestImageOpen(t *testing.T) {
	dir := t.TempDir()
	writeTestImage(t, dir, "photo.png", 100, 80, color.RGBA{255, 0, 0, 255})
	s := New(WithWorkDir(dir))

	res := callResult(t, s, "image_open", map[string]interface{}{"path": "photo.png"})

	if res["document"] != DefaultDocument {
		t.Errorf("document: got %v", res["document"])
	}
	if res["width"] != float64(100) || res["height"] != float64(80) {
		t.Errorf("dimensions: got %vx%v", res["width"], res["height"])
	}
	if res["path"] != filepath.Join(dir, "photo.png") {
		t.Errorf("path: got %v", res["path"])
	}
	file := res["file"].(map[string]interface{})
	if file["format"] != "png" {
		t.Errorf("format: got %v", file["format"])
	}
}

func TestImageOpen_InvalidFormat(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "notes.png")
	if err := os.WriteFile(bad, []byte("plain text"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := New(WithWorkDir(dir))

	res := callResult(t, s, "image_open", map[string]interface{}{"path": bad})
	if res["status"] != editor.StatusInvalidFormat {
		t.Errorf("status: got %v, want %q", res["status"], editor.StatusInvalidFormat)
	}
	if res["loaded"] != false {
		t.Error("invalid file should not load")
	}
	if ids := s.documentIDs(); len(ids) != 0 {
		t.Errorf("rejected open registered documents %v", ids)
	}

	// An open document keeps its image when a later open is rejected.
	good := writeTestImage(t, dir, "good.png", 3, 2, color.White)
	callResult(t, s, "image_open", map[string]interface{}{"path": good})
	res = callResult(t, s, "image_open", map[string]interface{}{"path": bad})
	if res["status"] != editor.StatusInvalidFormat || res["loaded"] != true {
		t.Errorf("rejected reopen: got %v", res)
	}
}

func TestImageOpen_Errors(t *testing.T) {
	s := New(WithWorkDir(t.TempDir()))
	expectError(t, s, "image_open", map[string]interface{}{}, -32602)
	expectError(t, s, "image_open", map[string]interface{}{"path": 12}, -32602)
	expectError(t, s, "image_open", map[string]interface{}{"path": "missing.png"}, -32000)

	list := callResult(t, s, "image_list_documents", nil)
	if docs, _ := list["documents"].([]interface{}); len(docs) != 0 {
		t.Errorf("failed opens left documents behind: %v", list["documents"])
	}
}

func TestNoImage(t *testing.T) {
	s := New()
	tools := []string{
		"image_apply_filter", "image_enlarge", "image_shrink", "image_crop",
		"image_undo", "image_redo", "image_info", "image_export",
		"image_sample_color", "image_preview_commit", "image_save",
	}
	for _, name := range tools {
		t.Run(name, func(t *testing.T) {
			res := callResult(t, s, name, map[string]interface{}{"name": "Invert"})
			if res["status"] != editor.StatusNoImage {
				t.Errorf("status: got %v, want %q", res["status"], editor.StatusNoImage)
			}
		})
	}
}

func TestEditUndoRedo(t *testing.T) {
	s, _ := openTestImage(t, 4, 4, color.RGBA{R: 10, G: 100, B: 200, A: 255})

	res := callResult(t, s, "image_apply_filter", map[string]interface{}{"name": "Invert"})
	if res["status"] != "Applied: Invert" || res["undo_depth"] != float64(1) {
		t.Errorf("apply: got %v", res)
	}
	sample := callResult(t, s, "image_sample_color", map[string]interface{}{"x": 1, "y": 1})
	if sample["hex"] != "#F59B37" {
		t.Errorf("inverted hex: got %v", sample["hex"])
	}

	res = callResult(t, s, "image_undo", nil)
	if res["status"] != "Undo: Invert" {
		t.Errorf("undo: got %v", res["status"])
	}
	sample = callResult(t, s, "image_sample_color", map[string]interface{}{"x": 1, "y": 1})
	if sample["hex"] != "#0A64C8" {
		t.Errorf("restored hex: got %v", sample["hex"])
	}

	res = callResult(t, s, "image_redo", nil)
	if res["status"] != "Redo: Invert" || res["redo_depth"] != float64(0) {
		t.Errorf("redo: got %v", res)
	}
}

func TestGeometryTools(t *testing.T) {
	s, _ := openTestImage(t, 10, 6, color.White)

	res := callResult(t, s, "image_enlarge", nil)
	if res["width"] != float64(20) || res["height"] != float64(12) {
		t.Errorf("enlarge: got %v", res)
	}
	res = callResult(t, s, "image_shrink", nil)
	if res["width"] != float64(10) || res["height"] != float64(6) {
		t.Errorf("shrink: got %v", res)
	}
	res = callResult(t, s, "image_crop", map[string]interface{}{"left": 1, "right": 2, "top": 3})
	if res["width"] != float64(7) || res["height"] != float64(3) {
		t.Errorf("crop: got %v", res)
	}

	e := expectError(t, s, "image_crop", map[string]interface{}{"left": 7}, -32000)
	if e.Data == nil {
		t.Error("tool failure should carry the error text")
	}
	res = callResult(t, s, "image_info", nil)
	if res["undo_depth"] != float64(3) {
		t.Errorf("rejected crop changed the history: %v", res)
	}
}

func TestApplyFilter_Unknown(t *testing.T) {
	s, _ := openTestImage(t, 2, 2, color.Black)
	expectError(t, s, "image_apply_filter", map[string]interface{}{"name": "Blur"}, -32000)
}

func TestPreviewTools(t *testing.T) {
	s, _ := openTestImage(t, 10, 10, color.White)

	callResult(t, s, "image_preview_crop", map[string]interface{}{"left": 5})
	res := callResult(t, s, "image_preview_crop", map[string]interface{}{"left": 2, "bottom": 2})
	if res["preview"] != true || res["width"] != float64(8) || res["height"] != float64(8) {
		t.Errorf("preview: got %v", res)
	}
	if res["undo_depth"] != float64(0) {
		t.Error("preview touched the history")
	}

	res = callResult(t, s, "image_preview_discard", nil)
	if res["preview"] != false || res["width"] != float64(10) {
		t.Errorf("discard: got %v", res)
	}

	callResult(t, s, "image_preview_filter", map[string]interface{}{"name": "Darker"})
	res = callResult(t, s, "image_preview_commit", nil)
	if res["preview"] != false || res["undo_depth"] != float64(1) {
		t.Errorf("commit: got %v", res)
	}
}

func TestImageHistory(t *testing.T) {
	s, _ := openTestImage(t, 4, 4, color.White)
	callResult(t, s, "image_apply_filter", map[string]interface{}{"name": "Smooth"})
	callResult(t, s, "image_enlarge", nil)
	callResult(t, s, "image_undo", nil)

	res := callResult(t, s, "image_history", nil)
	var got []editor.Entry
	b, _ := json.Marshal(res["entries"])
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatal(err)
	}
	want := []editor.Entry{
		{Kind: "filter", Label: "Smooth", State: editor.Applied},
		{Kind: "enlarge", Label: "Larger", State: editor.Undone},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}
}

func TestImageExport(t *testing.T) {
	s, _ := openTestImage(t, 6, 3, color.RGBA{R: 1, G: 2, B: 3, A: 255})
	callResult(t, s, "image_enlarge", nil)

	res := callResult(t, s, "image_export", nil)
	if res["mime_type"] != "image/png" {
		t.Errorf("mime_type: got %v", res["mime_type"])
	}
	data, err := base64.StdEncoding.DecodeString(res["image_base64"].(string))
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if got := img.Bounds().Size(); got != image.Pt(12, 6) {
		t.Errorf("exported size: got %v, want 12x6", got)
	}
}

func TestImageSave(t *testing.T) {
	s, path := openTestImage(t, 4, 4, color.RGBA{R: 100, G: 100, B: 100, A: 255})
	callResult(t, s, "image_apply_filter", map[string]interface{}{"name": "Invert"})

	out := filepath.Join(filepath.Dir(path), "out.bmp")
	res := callResult(t, s, "image_save", map[string]interface{}{"path": out})
	if res["path"] != out {
		t.Errorf("path: got %v", res["path"])
	}

	b, err := imaging.Load(out)
	if err != nil {
		t.Fatal(err)
	}
	c, _ := b.At(0, 0)
	if c != (imaging.Color{R: 155, G: 155, B: 155}) {
		t.Errorf("saved pixel: got %+v", c)
	}

	// Saving over the opened file refreshes the cache.
	callResult(t, s, "image_save", map[string]interface{}{"path": path})
	res = callResult(t, s, "image_open", map[string]interface{}{"path": path, "document": "copy"})
	sample := callResult(t, s, "image_sample_color", map[string]interface{}{"document": "copy", "x": 0, "y": 0})
	if sample["hex"] != "#9B9B9B" {
		t.Errorf("reopened hex: got %v (%v)", sample["hex"], res)
	}

	expectError(t, s, "image_save", map[string]interface{}{"path": "out.xyz"}, -32000)
}

func TestImageClose(t *testing.T) {
	s, _ := openTestImage(t, 2, 2, color.White)
	res := callResult(t, s, "image_close", nil)
	if res["status"] != editor.StatusClosed {
		t.Errorf("close: got %v", res["status"])
	}
	if ids := s.documentIDs(); len(ids) != 0 {
		t.Errorf("documents after close: %v", ids)
	}
	res = callResult(t, s, "image_undo", nil)
	if res["status"] != editor.StatusNoImage {
		t.Errorf("undo after close: got %v", res["status"])
	}
}

func TestDocumentsAreIndependent(t *testing.T) {
	s, path := openTestImage(t, 4, 4, color.White)
	callResult(t, s, "image_open", map[string]interface{}{"document": "second", "path": path})
	callResult(t, s, "image_enlarge", map[string]interface{}{"document": "second"})

	first := callResult(t, s, "image_info", nil)
	second := callResult(t, s, "image_info", map[string]interface{}{"document": "second"})
	if first["width"] != float64(4) || second["width"] != float64(8) {
		t.Errorf("documents share state: %v / %v", first, second)
	}

	list := callResult(t, s, "image_list_documents", nil)
	if diff := cmp.Diff([]interface{}{"default", "second"}, list["documents"]); diff != "" {
		t.Errorf("documents mismatch (-want +got):\n%s", diff)
	}
}

func TestListFilters(t *testing.T) {
	s := New()
	res := callResult(t, s, "image_list_filters", nil)
	got := res["filters"].([]interface{})
	if len(got) != 11 || got[0] != "Darker" || got[10] != "Fish Eye" {
		t.Errorf("filters: got %v", got)
	}
}

func TestSampleColorsMulti(t *testing.T) {
	s, _ := openTestImage(t, 4, 4, color.RGBA{R: 255, A: 255})
	res := callResult(t, s, "image_sample_colors_multi", map[string]interface{}{
		"points": []map[string]interface{}{
			{"x": 0, "y": 0, "label": "corner"},
			{"x": 3, "y": 3},
		},
	})
	samples := res["samples"].([]interface{})
	if len(samples) != 2 {
		t.Fatalf("got %d samples", len(samples))
	}
	first := samples[0].(map[string]interface{})
	if first["label"] != "corner" {
		t.Errorf("label: got %v", first["label"])
	}

	expectError(t, s, "image_sample_colors_multi", map[string]interface{}{}, -32602)
	expectError(t, s, "image_sample_color", map[string]interface{}{"x": 4, "y": 0}, -32000)
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := New()
	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  json.RawMessage(`"not an object"`),
	})
	if resp.Error == nil || resp.Error.Code != -32602 {
		t.Errorf("got %+v, want -32602", resp.Error)
	}
}

func TestImageExport_Grid(t *testing.T) {
	s, _ := openTestImage(t, 8, 8, color.Black)

	res := callResult(t, s, "image_export", map[string]interface{}{"grid_spacing": 4, "grid_color": "#00FF00"})
	data, _ := base64.StdEncoding.DecodeString(res["image_base64"].(string))
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if r, g, b, _ := img.At(4, 1).RGBA(); r != 0 || g>>8 != 255 || b != 0 {
		t.Errorf("grid pixel: got (%d,%d,%d)", r>>8, g>>8, b>>8)
	}
	if r, g, b, _ := img.At(1, 1).RGBA(); r != 0 || g != 0 || b != 0 {
		t.Errorf("background pixel: got (%d,%d,%d)", r>>8, g>>8, b>>8)
	}

	// The grid is drawn on the export only.
	sample := callResult(t, s, "image_sample_color", map[string]interface{}{"x": 4, "y": 1})
	if sample["hex"] != "#000000" {
		t.Errorf("document pixel: got %v", sample["hex"])
	}

	expectError(t, s, "image_export", map[string]interface{}{"grid_spacing": 4, "grid_color": "green"}, -32602)
	expectError(t, s, "image_export", map[string]interface{}{"grid_spacing": -4}, -32602)
}
