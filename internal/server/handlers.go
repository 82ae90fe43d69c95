package server

import (
	"encoding/json"
	"fmt"
	"image"
	"log"

	"github.com/ironsheep/image-cropper-mcp/internal/cropper"
	"github.com/ironsheep/image-cropper-mcp/internal/geometry"
	"github.com/ironsheep/image-cropper-mcp/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "cropper_prepare", "cropper_crop").
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
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		if s.debug {
			log.Printf("tool %s failed: %v", params.Name, err)
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
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
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Image information
	case "cropper_load":
		return s.handleLoad(args)
	case "cropper_dimensions":
		return s.handleDimensions(args)
	case "cropper_recommend":
		return s.handleRecommend(args)

	// Interactive session
	case "cropper_prepare":
		return s.handlePrepare(args)
	case "cropper_update":
		return s.handleUpdate(args)
	case "cropper_crop":
		return s.handleCrop(args)
	case "cropper_close":
		return s.handleClose(args)

	// Previews
	case "cropper_preview":
		return s.handlePreview(args)
	case "cropper_mask":
		return s.handleMask(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Image Information Handlers ===

type pathArgs struct {
	Path string `json:"path"`
}

type loadArgs struct {
	Path   string `json:"path"`
	Reload bool   `json:"reload"`
}

func (s *Server) handleLoad(args json.RawMessage) (interface{}, error) {
	var a loadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Reload {
		s.cache.Evict(a.Path)
	}
	var limit geometry.Size
	if s.config.Display.Resize {
		limit = geometry.Size{Width: s.config.Display.MaxWidth, Height: s.config.Display.MaxHeight}
	}
	return imaging.LoadImageInfo(s.cache, a.Path, limit)
}

func (s *Server) handleDimensions(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

type recommendArgs struct {
	Path        string `json:"path"`
	AspectRatio string `json:"aspect_ratio"`
}

type recommendResult struct {
	Box         geometry.Box          `json:"box"`
	Image       geometry.Size         `json:"image"`
	AspectRatio *geometry.AspectRatio `json:"aspect_ratio,omitempty"`
}

func (s *Server) handleRecommend(args json.RawMessage) (interface{}, error) {
	var a recommendArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	ratio, err := geometry.ParseAspectRatio(a.AspectRatio)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	size := geometry.SizeOf(img)
	box, err := geometry.Recommend(size, ratio)
	if err != nil {
		return nil, err
	}
	return &recommendResult{Box: box, Image: size, AspectRatio: ratio}, nil
}

// === Session Handlers ===

// cropOptionArgs are the per-request crop settings. Unset fields fall back to
// the server configuration.
type cropOptionArgs struct {
	Path              string `json:"path"`
	AspectRatio       string `json:"aspect_ratio"`
	BoxColor          string `json:"box_color"`
	StrokeWidth       *int   `json:"stroke_width"`
	RealtimeUpdate    *bool  `json:"realtime_update"`
	ReturnType        string `json:"return_type"`
	ShouldResizeImage *bool  `json:"should_resize_image"`
	SessionKey        string `json:"session_key"`
}

func (s *Server) options(a cropOptionArgs) (cropper.Options, error) {
	opts, err := s.config.Options()
	if err != nil {
		return cropper.Options{}, err
	}
	if a.AspectRatio != "" {
		ratio, err := geometry.ParseAspectRatio(a.AspectRatio)
		if err != nil {
			return cropper.Options{}, err
		}
		opts.AspectRatio = ratio
	}
	if a.BoxColor != "" {
		opts.BoxColor = a.BoxColor
	}
	if a.StrokeWidth != nil {
		opts.StrokeWidth = *a.StrokeWidth
	}
	if a.RealtimeUpdate != nil {
		opts.RealtimeUpdate = *a.RealtimeUpdate
	}
	if a.ReturnType != "" {
		opts.ReturnType = a.ReturnType
	}
	if a.ShouldResizeImage != nil {
		opts.ShouldResizeImage = *a.ShouldResizeImage
	}
	opts.SessionKey = a.SessionKey
	return opts, nil
}

// prepare loads the image and runs cropper.Prepare with the merged options.
func (s *Server) prepare(a cropOptionArgs) (*cropper.Prepared, error) {
	opts, err := s.options(a)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return s.cropper.Prepare(img, opts)
}

type prepareArgs struct {
	cropOptionArgs
	IncludeImage bool `json:"include_image"`
}

type prepareResult struct {
	Session  string                `json:"session"`
	Original geometry.Size         `json:"original"`
	Scale    geometry.ScaleFactor  `json:"scale"`
	Params   cropper.RenderParams  `json:"params"`
	Image    *imaging.EncodedImage `json:"image,omitempty"`
}

func (s *Server) handlePrepare(args json.RawMessage) (interface{}, error) {
	var a prepareArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	p, err := s.prepare(a.cropOptionArgs)
	if err != nil {
		return nil, err
	}

	sess := s.sessions.open(a.Path, p)
	if s.debug {
		log.Printf("opened %s for %s: display %dx%d, box %s", sess.id, a.Path, p.Params.CanvasWidth, p.Params.CanvasHeight, p.Initial)
	}

	params := p.Params
	params.ImageData = nil
	res := &prepareResult{
		Session:  sess.id,
		Original: geometry.SizeOf(p.Original),
		Scale:    p.Scale,
		Params:   params,
	}
	if a.IncludeImage {
		res.Image, err = imaging.EncodeBase64(p.Display, imaging.DefaultEncodeOptions())
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

type updateArgs struct {
	Session string        `json:"session"`
	Coords  *geometry.Box `json:"coords"`
	Confirm bool          `json:"confirm"`
}

type updateResult struct {
	Session  string       `json:"session"`
	Box      geometry.Box `json:"box"`
	Accepted bool         `json:"accepted"`
}

func (s *Server) handleUpdate(args json.RawMessage) (interface{}, error) {
	var a updateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Coords == nil {
		return nil, fmt.Errorf("%w: coords is required", geometry.ErrInvalidArgument)
	}
	box, accepted, err := s.sessions.update(a.Session, *a.Coords, a.Confirm)
	if err != nil {
		return nil, err
	}
	return &updateResult{Session: a.Session, Box: box, Accepted: accepted}, nil
}

type cropArgs struct {
	cropOptionArgs
	Session    string        `json:"session"`
	Box        *geometry.Box `json:"box"`
	Format     string        `json:"format"`
	Quality    int           `json:"quality"`
	Lossless   *bool         `json:"lossless"`
	OutputPath string        `json:"output_path"`
}

type cropResult struct {
	*cropper.Result
	Image     *imaging.EncodedImage `json:"image,omitempty"`
	SavedPath string                `json:"saved_path,omitempty"`
}

func (s *Server) handleCrop(args json.RawMessage) (interface{}, error) {
	var a cropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	enc, err := s.encodeOptions(a)
	if err != nil {
		return nil, err
	}

	var res *cropper.Result
	if a.Session != "" {
		sess, err := s.sessions.snapshot(a.Session)
		if err != nil {
			return nil, err
		}
		res, err = s.cropper.Complete(sess.prepared, sess)
		if err != nil {
			return nil, err
		}
		s.sessions.close(a.Session)
	} else {
		if a.Path == "" {
			return nil, fmt.Errorf("%w: either session or path is required", geometry.ErrInvalidArgument)
		}
		p, err := s.prepare(a.cropOptionArgs)
		if err != nil {
			return nil, err
		}
		var surface cropper.Surface
		if a.Box != nil {
			surface = cropper.StaticSurface{Boxes: []geometry.Box{*a.Box}}
		}
		res, err = s.cropper.Complete(p, surface)
		if err != nil {
			return nil, err
		}
	}

	out := &cropResult{Result: res}
	if res.Image == nil {
		return out, nil
	}
	if a.OutputPath != "" {
		if err := imaging.Save(res.Image, a.OutputPath, enc); err != nil {
			return nil, err
		}
		out.SavedPath = a.OutputPath
		return out, nil
	}
	out.Image, err = imaging.EncodeBase64(res.Image, enc)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Server) encodeOptions(a cropArgs) (imaging.EncodeOptions, error) {
	enc, err := s.config.EncodeOptions()
	if err != nil {
		return imaging.EncodeOptions{}, err
	}
	switch {
	case a.Format != "":
		if enc.Format, err = imaging.ParseFormat(a.Format); err != nil {
			return imaging.EncodeOptions{}, err
		}
	case a.OutputPath != "":
		if f, err := imaging.FormatFromPath(a.OutputPath); err == nil {
			enc.Format = f
		}
	}
	if a.Quality != 0 {
		if a.Quality < 1 || a.Quality > 100 {
			return imaging.EncodeOptions{}, fmt.Errorf("%w: quality %d must be between 1 and 100", geometry.ErrInvalidArgument, a.Quality)
		}
		enc.Quality = a.Quality
	}
	if a.Lossless != nil {
		enc.Lossless = *a.Lossless
	}
	return enc, nil
}

type closeArgs struct {
	Session    string `json:"session"`
	SessionKey string `json:"session_key"`
}

func (s *Server) handleClose(args json.RawMessage) (interface{}, error) {
	var a closeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.SessionKey != "" {
		s.cropper.Sessions().Delete(a.SessionKey)
	}
	return map[string]interface{}{
		"session": a.Session,
		"closed":  s.sessions.close(a.Session),
	}, nil
}

// === Preview Handlers ===

type previewArgs struct {
	Session     string        `json:"session"`
	Path        string        `json:"path"`
	Box         *geometry.Box `json:"box"`
	BoxColor    string        `json:"box_color"`
	StrokeWidth *int          `json:"stroke_width"`
}

type previewResult struct {
	*imaging.EncodedImage
	Box geometry.Box `json:"box"`
}

func (s *Server) handlePreview(args json.RawMessage) (interface{}, error) {
	var a previewArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	var (
		display     image.Image
		box         geometry.Box
		boxColor    = s.config.Box.Color
		strokeWidth = s.config.Box.StrokeWidth
	)
	if a.Session != "" {
		sess, err := s.sessions.snapshot(a.Session)
		if err != nil {
			return nil, err
		}
		display, box = sess.prepared.Display, sess.current
		boxColor, strokeWidth = sess.prepared.Params.BoxColor, sess.prepared.Params.StrokeWidth
	} else {
		img, orig, err := s.loadWithBox(a.Path, a.Box)
		if err != nil {
			return nil, err
		}
		var scale geometry.ScaleFactor
		display, scale = imaging.Scale(img, s.config.Display.MaxWidth, s.config.Display.MaxHeight)
		box = geometry.ToDisplay(orig, scale, geometry.SizeOf(display))
		if a.BoxColor != "" {
			boxColor = a.BoxColor
		}
		if a.StrokeWidth != nil {
			strokeWidth = *a.StrokeWidth
		}
	}

	preview, err := imaging.RenderPreview(display, box, boxColor, strokeWidth)
	if err != nil {
		return nil, err
	}
	encoded, err := imaging.EncodeBase64(preview, imaging.DefaultEncodeOptions())
	if err != nil {
		return nil, err
	}
	return &previewResult{EncodedImage: encoded, Box: box}, nil
}

type maskArgs struct {
	Session string        `json:"session"`
	Path    string        `json:"path"`
	Box     *geometry.Box `json:"box"`
}

func (s *Server) handleMask(args json.RawMessage) (interface{}, error) {
	var a maskArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	var (
		img image.Image
		box geometry.Box
	)
	if a.Session != "" {
		sess, err := s.sessions.snapshot(a.Session)
		if err != nil {
			return nil, err
		}
		p := sess.prepared
		img = p.Original
		box = geometry.ToOriginal(sess.current, p.Scale, geometry.SizeOf(p.Original))
	} else {
		var err error
		if img, box, err = s.loadWithBox(a.Path, a.Box); err != nil {
			return nil, err
		}
	}

	masked, err := imaging.Mask(img, box)
	if err != nil {
		return nil, err
	}
	encoded, err := imaging.EncodeBase64(masked, imaging.DefaultEncodeOptions())
	if err != nil {
		return nil, err
	}
	return &previewResult{EncodedImage: encoded, Box: box}, nil
}

// loadWithBox loads path and returns box, or the recommended box for the
// whole image when box is nil.
func (s *Server) loadWithBox(path string, box *geometry.Box) (image.Image, geometry.Box, error) {
	if path == "" {
		return nil, geometry.Box{}, fmt.Errorf("%w: either session or path is required", geometry.ErrInvalidArgument)
	}
	img, err := s.cache.Load(path)
	if err != nil {
		return nil, geometry.Box{}, err
	}
	if box != nil {
		return img, *box, nil
	}
	b, err := geometry.Recommend(geometry.SizeOf(img), nil)
	if err != nil {
		return nil, geometry.Box{}, err
	}
	return img, b, nil
}
