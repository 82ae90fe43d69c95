// Package server implements the MCP (Model Context Protocol) server for the
// interactive image cropper.
//
// This package provides a JSON-RPC 2.0 server that exposes the crop pipeline
// through the MCP protocol. The client plays the rendering surface: it shows
// the display image with the box, reports the user's edits, and asks for the
// final crop.
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
// # Available Tools
//
// Image information:
//   - cropper_load: Load image and get metadata
//   - cropper_dimensions: Get width and height
//   - cropper_recommend: Default box in the image's own coordinates
//
// Interactive session:
//   - cropper_prepare: Scale the image, compute the initial box, open a session
//   - cropper_update: Report a box edit (display coordinates)
//   - cropper_crop: Finish a session, or crop a file in one shot
//   - cropper_close: Discard a session
//
// Previews:
//   - cropper_preview: Box outline over the display image
//   - cropper_mask: Full-size image with only the box visible
//
// # Sessions
//
// A session holds the prepared request and every accepted update. Updates
// are clipped to the display canvas and, for aspect-locked sessions, brought
// back to the ratio. Without realtime_update only updates sent with
// confirm=true are kept. cropper_crop replays the accepted updates through
// the cropper, maps the last one to original coordinates and closes the
// session.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	srv := server.NewWithConfig(cfg)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
