// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

package gpu

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/gogpu/fractal"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// dispatchTimeout bounds the fence wait of a single render.
const dispatchTimeout = 30 * time.Second

// MandelbrotAccelerator renders the escape-time kernel with wgpu/hal
// compute shaders. It implements fractal.AcceleratedBackend.
//
// Unlike the CPU strategies the kernel runs in single precision, so deep
// zooms diverge from the CPU output sooner.
type MandelbrotAccelerator struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	adapter  string

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline

	gpuReady bool

	// show presents a rendered image. Nil uses a gogpu window.
	show func(title string, img *image.RGBA) error
}

var _ fractal.AcceleratedBackend = (*MandelbrotAccelerator)(nil)

func (a *MandelbrotAccelerator) Name() string { return "wgpu" }

// SetLogger sets the logger for the GPU backend.
// Called by fractal.SetLogger to propagate the logger.
func (a *MandelbrotAccelerator) SetLogger(l *slog.Logger) {
	setLogger(l)
}

// Init opens a Vulkan device and builds the compute pipeline.
// A missing backend, adapter or device is reported as an error; there is
// no CPU fallback.
func (a *MandelbrotAccelerator) Init() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.gpuReady {
		return nil
	}
	if err := a.initGPU(); err != nil {
		a.release()
		return errors.Join(fractal.ErrBackendUnavailable, err)
	}
	return nil
}

func (a *MandelbrotAccelerator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.release()
}

// release destroys every GPU object. Callers hold a.mu.
func (a *MandelbrotAccelerator) release() {
	a.destroyPipeline()
	if a.device != nil {
		a.device.Destroy()
		a.device = nil
	}
	if a.instance != nil {
		a.instance.Destroy()
		a.instance = nil
	}
	a.queue = nil
	a.gpuReady = false
}

// RenderToFile runs the kernel for req and writes req.FileName with the
// shared artifact encoders. With req.UseInteractive set the image is shown
// in a window instead.
func (a *MandelbrotAccelerator) RenderToFile(req fractal.AcceleratedRequest) error {
	if err := validateRequest(req); err != nil {
		return err
	}

	img, err := a.render(req)
	if err != nil {
		return err
	}
	if req.UseInteractive {
		return a.present(img)
	}
	return fractal.SaveImage(req.FileName, img)
}

// RenderInteractive renders the default view at width x height on the GPU
// and shows it in a window until the window is closed.
func (a *MandelbrotAccelerator) RenderInteractive(width, height int) error {
	cfg := fractal.NewConfig(fractal.WithGrid(width, height))
	req := fractal.NewAcceleratedRequest(cfg, "")
	req.UseInteractive = true
	return a.RenderToFile(req)
}

func (a *MandelbrotAccelerator) present(img *image.RGBA) error {
	show := a.show
	if show == nil {
		show = showWindow
	}
	return show("Mandelbrot Fractal", img)
}

// render dispatches the kernel and reads the pixels back.
func (a *MandelbrotAccelerator) render(req fractal.AcceleratedRequest) (*image.RGBA, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.gpuReady {
		return nil, fractal.ErrBackendUnavailable
	}

	start := time.Now()
	params := newKernelParams(req)
	w, h := params.Width, params.Height
	pixelBufSize := uint64(w) * uint64(h) * 4
	palette := paletteBytes(req.Colors, req.ColorsAmount)

	paramsBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "mandel_params", Size: kernelParamsSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create params buffer: %w", err)
	}
	defer a.device.DestroyBuffer(paramsBuf)

	paletteBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "mandel_palette", Size: uint64(len(palette)),
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create palette buffer: %w", err)
	}
	defer a.device.DestroyBuffer(paletteBuf)

	pixelBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "mandel_pixels", Size: pixelBufSize,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("create pixel buffer: %w", err)
	}
	defer a.device.DestroyBuffer(pixelBuf)

	stagingBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "mandel_staging", Size: pixelBufSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create staging buffer: %w", err)
	}
	defer a.device.DestroyBuffer(stagingBuf)

	a.queue.WriteBuffer(paramsBuf, 0, params.bytes())
	a.queue.WriteBuffer(paletteBuf, 0, palette)

	bindGroup, err := a.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label: "mandel_bind", Layout: a.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: paramsBuf.NativeHandle(), Offset: 0, Size: kernelParamsSize}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: paletteBuf.NativeHandle(), Offset: 0, Size: uint64(len(palette))}},
			{Binding: 2, Resource: gputypes.BufferBinding{Buffer: pixelBuf.NativeHandle(), Offset: 0, Size: pixelBufSize}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create bind group: %w", err)
	}
	defer a.device.DestroyBindGroup(bindGroup)

	if err := a.submit(bindGroup, pixelBuf, stagingBuf, w, h, pixelBufSize); err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
	if err := a.queue.ReadBuffer(stagingBuf, 0, img.Pix); err != nil {
		return nil, fmt.Errorf("readback: %w", err)
	}

	slogger().Debug("gpu: kernel dispatched",
		"width", w, "height", h,
		"max_iter", params.MaxIter,
		"groups_x", workgroups(w), "groups_y", workgroups(h),
		"elapsed", time.Since(start))
	return img, nil
}

// submit encodes one compute pass plus the staging copy and waits for it.
func (a *MandelbrotAccelerator) submit(
	bindGroup hal.BindGroup, pixelBuf, stagingBuf hal.Buffer,
	w, h uint32, pixelBufSize uint64,
) error {
	encoder, err := a.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "mandel_encoder"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("mandel"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	computePass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "mandel_pass"})
	computePass.SetPipeline(a.pipeline)
	computePass.SetBindGroup(0, bindGroup, nil)
	computePass.Dispatch(workgroups(w), workgroups(h), 1)
	computePass.End()

	encoder.CopyBufferToBuffer(pixelBuf, stagingBuf, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: pixelBufSize},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer a.device.FreeCommandBuffer(cmdBuf)

	fence, err := a.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer a.device.DestroyFence(fence)
	if err := a.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	fenceOK, err := a.device.Wait(fence, 1, dispatchTimeout)
	if err != nil || !fenceOK {
		return fmt.Errorf("wait for GPU: ok=%v err=%w", fenceOK, err)
	}
	return nil
}

func (a *MandelbrotAccelerator) initGPU() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	a.instance = instance
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return fmt.Errorf("no GPU adapters found")
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return fmt.Errorf("open device: %w", err)
	}
	a.device = openDev.Device
	a.queue = openDev.Queue
	a.adapter = selected.Info.Name
	if err := a.createPipeline(); err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}
	a.gpuReady = true
	slogger().Info("gpu: mandelbrot accelerator initialized", "adapter", a.adapter)
	return nil
}

func (a *MandelbrotAccelerator) createPipeline() error {
	spirv, err := compileKernel()
	if err != nil {
		return err
	}
	shader, err := a.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "mandelbrot",
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return fmt.Errorf("create shader module: %w", err)
	}
	a.shader = shader

	bindLayout, err := a.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "mandel_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: 2, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	a.bindLayout = bindLayout

	pipeLayout, err := a.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "mandel_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{a.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	a.pipeLayout = pipeLayout

	pipeline, err := a.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label: "mandel_pipeline", Layout: a.pipeLayout,
		Compute: hal.ComputeState{Module: a.shader, EntryPoint: kernelEntryPoint},
	})
	if err != nil {
		return fmt.Errorf("create compute pipeline: %w", err)
	}
	a.pipeline = pipeline
	return nil
}

func (a *MandelbrotAccelerator) destroyPipeline() {
	if a.device == nil {
		return
	}
	if a.pipeline != nil {
		a.device.DestroyComputePipeline(a.pipeline)
		a.pipeline = nil
	}
	if a.pipeLayout != nil {
		a.device.DestroyPipelineLayout(a.pipeLayout)
		a.pipeLayout = nil
	}
	if a.bindLayout != nil {
		a.device.DestroyBindGroupLayout(a.bindLayout)
		a.bindLayout = nil
	}
	if a.shader != nil {
		a.device.DestroyShaderModule(a.shader)
		a.shader = nil
	}
}
