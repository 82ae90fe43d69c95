package server

import (
	"github.com/ironsheep/image-cropper-mcp/internal/geometry"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

func sessionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session id returned by cropper_prepare",
	}
}

func boxProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": description,
		"properties": map[string]interface{}{
			"left":   map[string]interface{}{"type": "integer"},
			"top":    map[string]interface{}{"type": "integer"},
			"width":  map[string]interface{}{"type": "integer"},
			"height": map[string]interface{}{"type": "integer"},
		},
		"required": []string{"left", "top", "width", "height"},
	}
}

func aspectRatioProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Lock the box to W:H (e.g. \"16:9\", \"1:1\"). Empty or \"free\" for no constraint",
		"examples":    geometry.PresetNames(),
	}
}

// cropOptionProperties are the per-request settings shared by cropper_prepare
// and a one-shot cropper_crop.
func cropOptionProperties() map[string]interface{} {
	return map[string]interface{}{
		"path":         pathProperty(),
		"aspect_ratio": aspectRatioProperty(),
		"box_color": map[string]interface{}{
			"type":        "string",
			"description": "Box outline color, hex (#0000FF) or a color name. Default from config",
		},
		"stroke_width": map[string]interface{}{
			"type":        "integer",
			"description": "Box outline width in display pixels. Default 3",
		},
		"realtime_update": map[string]interface{}{
			"type":        "boolean",
			"description": "Accept every cropper_update instead of only confirmed ones. Default true",
		},
		"return_type": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"image", "box"},
			"description": "\"image\" returns the cropped pixels, \"box\" only the box in original coordinates. Default \"image\"",
		},
		"should_resize_image": map[string]interface{}{
			"type":        "boolean",
			"description": "Scale the image down to fit 700x700 before showing it. Default true",
		},
		"session_key": map[string]interface{}{
			"type":        "string",
			"description": "Remember the final box under this key and start from it next time",
		},
	}
}

func outputProperties(props map[string]interface{}) map[string]interface{} {
	props["format"] = map[string]interface{}{
		"type":        "string",
		"enum":        []string{"png", "jpg", "webp"},
		"description": "Encoding of the cropped image. Default from config (png)",
	}
	props["quality"] = map[string]interface{}{
		"type":        "integer",
		"description": "JPEG/WebP quality 1-100",
	}
	props["lossless"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Lossless WebP",
	}
	props["output_path"] = map[string]interface{}{
		"type":        "string",
		"description": "Write the cropped image to this file instead of returning base64",
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	oneShot := outputProperties(cropOptionProperties())
	oneShot["session"] = sessionProperty()
	oneShot["box"] = boxProperty("Final box in display coordinates when no session is used. Defaults to the recommended box")

	prepare := cropOptionProperties()
	prepare["include_image"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Also return the display image as base64 PNG",
	}

	return []Tool{
		// Image information
		{
			Name:        "cropper_load",
			Description: "Load an image file and return its dimensions, format and the size it is displayed at.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"reload": map[string]interface{}{
						"type":        "boolean",
						"description": "Read the file again even if it is cached",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "cropper_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "cropper_recommend",
			Description: "Compute the default crop box (central 60%, fitted to the aspect ratio) in the image's own coordinates.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":         pathProperty(),
					"aspect_ratio": aspectRatioProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Interactive session
		{
			Name:        "cropper_prepare",
			Description: "Open a crop session: scale the image for display, compute the initial box and return the rendering parameters.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": prepare,
				"required":   []string{"path"},
			},
		},
		{
			Name:        "cropper_update",
			Description: "Report a box edit for a session, in display coordinates. Outside realtime mode only confirmed edits are kept.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session": sessionProperty(),
					"coords":  boxProperty("Box in display coordinates"),
					"confirm": map[string]interface{}{
						"type":        "boolean",
						"description": "The user confirmed this box",
					},
				},
				"required": []string{"session", "coords"},
			},
		},
		{
			Name:        "cropper_crop",
			Description: "Finish a session, or crop a file in one shot, returning the cropped image (base64) or the box in original coordinates.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": oneShot,
			},
		},
		{
			Name:        "cropper_close",
			Description: "Discard a session without cropping, optionally forgetting a remembered box.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session": sessionProperty(),
					"session_key": map[string]interface{}{
						"type":        "string",
						"description": "Also forget the box remembered under this key",
					},
				},
			},
		},

		// Previews
		{
			Name:        "cropper_preview",
			Description: "Render the box outline over the display image, for a session or for a file and a box in original coordinates.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session": sessionProperty(),
					"path":    pathProperty(),
					"box":     boxProperty("Box in original coordinates (with path)"),
					"box_color": map[string]interface{}{
						"type":        "string",
						"description": "Outline color (with path)",
					},
					"stroke_width": map[string]interface{}{
						"type":        "integer",
						"description": "Outline width (with path)",
					},
				},
			},
		},
		{
			Name:        "cropper_mask",
			Description: "Render the full-size image with everything outside the box blacked out.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session": sessionProperty(),
					"path":    pathProperty(),
					"box":     boxProperty("Box in original coordinates (with path)"),
				},
			},
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
