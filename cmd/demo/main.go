// Command demo opens a window and exercises the vg-renderer public API:
// paths, solid and gradient fills, image patterns, text and the perfgraph
// overlay, all driven through one Context against the goxjs/gl reference
// backend.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/goxjs/gl"
	"github.com/goxjs/glfw"

	vg "github.com/bkaradzic/vg-renderer"
	"github.com/bkaradzic/vg-renderer/perfgraph"
)

var assetsDir = flag.String("assets", "assets", "directory containing demo fonts/images")

func main() {
	flag.Parse()

	if err := glfw.Init(gl.ContextWatcher); err != nil {
		log.Fatalf("glfw.Init: %v", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.Samples, 4)
	window, err := glfw.CreateWindow(1000, 600, "vg-renderer demo", nil, nil)
	if err != nil {
		log.Fatalf("glfw.CreateWindow: %v", err)
	}
	window.MakeContextCurrent()
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
		}
	})

	backend, err := vg.NewGLBackend()
	if err != nil {
		log.Fatalf("vg.NewGLBackend: %v", err)
	}

	ctx, err := vg.NewContext(backend, vg.AntiAlias|vg.StencilStrokes, vg.DefaultContextConfig())
	if err != nil {
		log.Fatalf("vg.NewContext: %v", err)
	}
	defer ctx.Close()

	sans := loadFont(ctx, "sans", filepath.Join(*assetsDir, "Roboto-Regular.ttf"))
	fps := perfgraph.NewPerfGraph(perfgraph.RenderMS, "Frame Time", sans)

	glfw.SwapInterval(0)

	for !window.ShouldClose() {
		fps.Update()

		fbWidth, fbHeight := window.GetFramebufferSize()
		winWidth, winHeight := window.GetSize()
		pixelRatio := float32(fbWidth) / float32(winWidth)

		gl.Viewport(0, 0, fbWidth, fbHeight)
		gl.ClearColor(0.3, 0.3, 0.32, 1.0)
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT | gl.STENCIL_BUFFER_BIT)
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
		gl.Disable(gl.DEPTH_TEST)

		ctx.BeginFrame(0, float32(winWidth), float32(winHeight), pixelRatio)
		drawScene(ctx, sans, float32(winWidth), float32(winHeight))
		fps.Render(ctx, 5, 5)
		if err := ctx.EndFrame(); err != nil {
			log.Printf("EndFrame: %v", err)
		}

		gl.Enable(gl.DEPTH_TEST)
		window.SwapBuffers()
		glfw.PollEvents()
	}
}

func loadFont(ctx *vg.Context, name, path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("demo: font %q unavailable (%v), labels will be skipped", path, err)
		return -1
	}
	id, err := ctx.CreateFontFromMemory(name, data)
	if err != nil {
		log.Printf("demo: registering font %q: %v", name, err)
		return -1
	}
	return id
}

func drawScene(ctx *vg.Context, fontID int, w, h float32) {
	ctx.BeginPath()
	ctx.RoundedRect(50, 50, 200, 120, 12)
	ctx.FillColor(vg.RGBA(220, 60, 60, 255), vg.FillAA)

	ctx.BeginPath()
	ctx.Circle(380, 110, 60)
	grad := ctx.CreateRadialGradient(380, 110, 10, 60, vg.RGBA(255, 230, 120, 255), vg.RGBA(255, 230, 120, 0))
	ctx.FillGradient(grad, vg.FillAA)

	ctx.BeginPath()
	ctx.MoveTo(50, 250)
	ctx.BezierTo(150, 150, 350, 350, 450, 250)
	ctx.StrokeColor(8, vg.RGBA(80, 160, 220, 255), vg.StrokeAA)

	ctx.PushState()
	ctx.TransformTranslate(w-260, h-140)
	ctx.BeginPath()
	ctx.Rect(0, 0, 220, 100)
	box := ctx.CreateBoxGradient(0, 0, 220, 100, 16, 24, vg.RGBA(40, 200, 120, 200), vg.RGBA(40, 200, 120, 0))
	ctx.FillGradient(box, vg.FillAA)
	ctx.PopState()

	if fontID >= 0 {
		cfg := vg.TextConfig{FontID: fontID, FontSize: 22, Align: vg.AlignLeft | vg.AlignTop, Color: vg.RGBA(255, 255, 255, 255)}
		ctx.Text(cfg, 50, 190, "vg-renderer")
	}
}
