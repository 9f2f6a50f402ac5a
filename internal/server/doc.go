// Package server implements the MCP (Model Context Protocol) server for the
// image editor.
//
// This package provides a JSON-RPC 2.0 server that exposes editing sessions
// through the MCP protocol, so MCP clients can open an image, apply filters
// and geometry edits, preview and commit crops, and walk the undo history.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Documents
//
// Each tool call addresses a document by the optional "document" argument
// (default "default"). A document is one editing session: an image, its
// history and its preview. Calls to the same document are serialized;
// different documents are independent. image_open creates a document and
// image_close removes it. Calls to a document that does not exist report
// the "No image loaded." status.
//
// # Available Tools
//
// Documents:
//   - image_open, image_close, image_save
//   - image_info, image_list_documents, image_export
//
// Editing:
//   - image_list_filters, image_apply_filter
//   - image_enlarge, image_shrink, image_crop
//
// Preview:
//   - image_preview_crop, image_preview_filter
//   - image_preview_commit, image_preview_discard
//
// History:
//   - image_undo, image_redo, image_history
//
// Colors:
//   - image_sample_color, image_sample_colors_multi
//
// Editing tools return the document state: dimensions, undo and redo
// depth, preview flag and the status line of the last operation.
//
// # Image Caching
//
// Decoded files are cached by path. Documents always receive their own
// copy, and saving over a file evicts it from the cache.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32602 for malformed arguments, -32000 for any other failure
//   - message: Human-readable error description
//   - data: The Go error string
//
// An operation that finds nothing to do (undo with an empty history, an
// edit with no image loaded) is not an error; the status line says so.
//
// # Usage
//
//	srv := server.New(server.WithLogger(logger), server.WithWorkDir(dir))
//	if err := srv.Run(); err != nil {
//	    logger.Fatal(err)
//	}
package server
