package opengl

import (
	"fmt"
	"strings"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"pathtracer/core"
)

// Renderer is the preview backend: a single full-screen textured quad
// that a render.Session's RGBA8 Image() is blitted into every frame via
// glTexSubImage2D. There is no mesh pipeline here — analytic spheres have
// nothing to upload as vertex data, only a pixel buffer to display.
type Renderer struct {
	program  uint32
	vao      uint32
	texture  uint32
	texW     int
	texH     int
	texelLoc int32
}

const quadVertSrc = `
#version 410 core
const vec2 positions[4] = vec2[4](
    vec2(-1.0, -1.0),
    vec2( 1.0, -1.0),
    vec2(-1.0,  1.0),
    vec2( 1.0,  1.0)
);
const vec2 uvs[4] = vec2[4](
    vec2(0.0, 1.0),
    vec2(1.0, 1.0),
    vec2(0.0, 0.0),
    vec2(1.0, 0.0)
);
out vec2 fragUV;
void main() {
    gl_Position = vec4(positions[gl_VertexID], 0.0, 1.0);
    fragUV = uvs[gl_VertexID];
}
` + "\x00"

const quadFragSrc = `
#version 410 core
in vec2 fragUV;
out vec4 outColor;
uniform sampler2D frame;
void main() {
    outColor = texture(frame, fragUV);
}
` + "\x00"

// NewRenderer initializes OpenGL and compiles the blit shader. Must be
// called after the GLFW window's context is made current.
func NewRenderer() (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	fmt.Printf("OpenGL version: %s\n", version)

	prog, err := newProgram(quadVertSrc, quadFragSrc)
	if err != nil {
		return nil, fmt.Errorf("shader compile: %w", err)
	}

	r := &Renderer{
		program:  prog,
		texelLoc: gl.GetUniformLocation(prog, gl.Str("frame\x00")),
	}

	gl.GenVertexArrays(1, &r.vao)
	gl.GenTextures(1, &r.texture)
	gl.BindTexture(gl.TEXTURE_2D, r.texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	return r, nil
}

// SetViewport resizes the OpenGL viewport.
func (r *Renderer) SetViewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

// UpdateFrame uploads an RGBA8 buffer (as produced by render.Session's
// Image()) to the backing texture, reallocating storage if the image
// dimensions changed since the last call.
func (r *Renderer) UpdateFrame(rgba []byte, width, height int) {
	gl.BindTexture(gl.TEXTURE_2D, r.texture)
	if width != r.texW || height != r.texH {
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
		r.texW, r.texH = width, height
	}
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba))
}

// BeginFrame sets the clear color shown behind the quad before the
// first sample of a render has produced any pixels.
func (r *Renderer) BeginFrame(background core.Color) {
	gl.ClearColor(background.R, background.G, background.B, background.A)
}

// DrawFrame issues the full-screen quad draw call against the current
// texture contents.
func (r *Renderer) DrawFrame() {
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.UseProgram(r.program)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.texture)
	gl.Uniform1i(r.texelLoc, 0)
	gl.BindVertexArray(r.vao)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
	gl.BindVertexArray(0)
}

// Destroy releases all GPU resources.
func (r *Renderer) Destroy() {
	gl.DeleteTextures(1, &r.texture)
	gl.DeleteVertexArrays(1, &r.vao)
	gl.DeleteProgram(r.program)
}

func newProgram(vertSrc, fragSrc string) (uint32, error) {
	vert, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	frag, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment: %w", err)
	}

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		return 0, fmt.Errorf("link failed: %v", log)
	}

	gl.DeleteShader(vert)
	gl.DeleteShader(frag)
	return prog, nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		return 0, fmt.Errorf("compile failed: %v", log)
	}
	return shader, nil
}
