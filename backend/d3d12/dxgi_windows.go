//go:build windows

package d3d12

import (
	"fmt"
	"math"
	"syscall"
	"time"
	"unsafe"

	"go.uber.org/zap"
	"golang.org/x/sys/windows"

	"github.com/linden-ui/shell"
)

var (
	dxgiDLL  = windows.NewLazySystemDLL("dxgi.dll")
	d3d12DLL = windows.NewLazySystemDLL("d3d12.dll")
	user32   = windows.NewLazySystemDLL("user32.dll")

	procCreateDXGIFactory2 = dxgiDLL.NewProc("CreateDXGIFactory2")
	procD3D12CreateDevice  = d3d12DLL.NewProc("D3D12CreateDevice")
	procMonitorFromWindow  = user32.NewProc("MonitorFromWindow")
	procGetMonitorInfo     = user32.NewProc("GetMonitorInfoW")
)

// DXGI/D3D12 constants
const (
	featureLevel11_0 = 0xb000

	formatR8G8B8A8          = 28    // DXGI_FORMAT_R8G8B8A8_UNORM
	usageRenderTargetOutput = 0x20  // DXGI_USAGE_RENDER_TARGET_OUTPUT
	swapEffectFlipSequntl   = 3     // DXGI_SWAP_EFFECT_FLIP_SEQUENTIAL
	flagFrameLatencyWait    = 0x40  // DXGI_SWAP_CHAIN_FLAG_FRAME_LATENCY_WAITABLE_OBJECT
	flagAllowTearing        = 0x800 // DXGI_SWAP_CHAIN_FLAG_ALLOW_TEARING

	gpuPreferenceHighPerformance = 2 // DXGI_GPU_PREFERENCE_HIGH_PERFORMANCE
	adapterFlagSoftware          = 2 // DXGI_ADAPTER_FLAG_SOFTWARE
	commandListTypeDirect        = 0 // D3D12_COMMAND_LIST_TYPE_DIRECT
	featurePresentAllowTearing   = 0 // DXGI_FEATURE_PRESENT_ALLOW_TEARING

	dxgiErrNotFound = 0x887A0002

	monitorDefaultToNearest = 2
)

// COM vtable indices
const (
	vtblQueryInterface = 0
	vtblRelease        = 2

	factory6CreateSwapChainForHwnd  = 15
	factory5CheckFeatureSupport     = 28
	factory6EnumAdapterByGpuPref    = 29
	adapter1GetDesc1                = 10
	deviceCreateCommandQueue        = 8
	deviceCreateCommandAllocator    = 9
	allocatorReset                  = 8
	chainGetBuffer                  = 9
	chainResizeBuffers              = 13
	chain1Present1                  = 22
	chain2SetMaximumFrameLatency    = 31
	chain2GetFrameLatencyWaitable   = 33
	chain3GetCurrentBackBufferIndex = 36
)

// COM GUIDs
var (
	iidIDXGIFactory6          = comGUID{0xc1b6694f, 0xff09, 0x44a9, [8]byte{0xb0, 0x3c, 0x77, 0x90, 0x0a, 0x0a, 0x1d, 0x17}}
	iidIDXGIAdapter1          = comGUID{0x29038f61, 0x3839, 0x4626, [8]byte{0x91, 0xfd, 0x08, 0x68, 0x79, 0x01, 0x1a, 0x05}}
	iidIDXGISwapChain3        = comGUID{0x94d99bdb, 0xf1f8, 0x4ab0, [8]byte{0xb2, 0x36, 0x7d, 0xa0, 0x17, 0x0e, 0xda, 0xb1}}
	iidID3D12Device           = comGUID{0x189819f1, 0x1db6, 0x4b57, [8]byte{0xbe, 0x54, 0x18, 0x21, 0x33, 0x9b, 0x85, 0xf7}}
	iidID3D12CommandQueue     = comGUID{0x0ec870a6, 0x5d7e, 0x4c22, [8]byte{0x8c, 0xfc, 0x5b, 0xaa, 0xe0, 0x76, 0x16, 0xed}}
	iidID3D12CommandAllocator = comGUID{0x6102dee4, 0xaf59, 0x4b09, [8]byte{0xb9, 0x99, 0xb4, 0x4d, 0x73, 0xf0, 0x9b, 0x24}}
	iidID3D12Resource         = comGUID{0x696442be, 0xa72e, 0x4059, [8]byte{0xbc, 0x79, 0x5b, 0x5c, 0x98, 0x04, 0x0f, 0xad}}
)

type comGUID struct {
	Data1 uint32
	Data2 uint16
	Data3 uint16
	Data4 [8]byte
}

// comVtblFn resolves a COM vtable function pointer by index.
func comVtblFn(obj uintptr, idx int) uintptr {
	vtable := *(*uintptr)(unsafe.Pointer(obj))
	return *(*uintptr)(unsafe.Pointer(vtable + uintptr(idx)*unsafe.Sizeof(uintptr(0))))
}

func comCall(obj uintptr, idx int, args ...uintptr) error {
	hr, _, _ := syscall.SyscallN(comVtblFn(obj, idx), append([]uintptr{obj}, args...)...)
	if int32(hr) < 0 {
		return fmt.Errorf("hresult 0x%08X", uint32(hr))
	}
	return nil
}

func comRelease(obj uintptr) {
	if obj != 0 {
		syscall.SyscallN(comVtblFn(obj, vtblRelease), obj)
	}
}

// swapChainDesc1 matches DXGI_SWAP_CHAIN_DESC1.
type swapChainDesc1 struct {
	Width         uint32
	Height        uint32
	Format        uint32
	Stereo        int32
	SampleCount   uint32 // DXGI_SAMPLE_DESC.Count
	SampleQuality uint32 // DXGI_SAMPLE_DESC.Quality
	BufferUsage   uint32
	BufferCount   uint32
	Scaling       uint32
	SwapEffect    uint32
	AlphaMode     uint32
	Flags         uint32
}

// commandQueueDesc matches D3D12_COMMAND_QUEUE_DESC.
type commandQueueDesc struct {
	Type     uint32
	Priority int32
	Flags    uint32
	NodeMask uint32
}

// adapterDesc1 matches DXGI_ADAPTER_DESC1.
type adapterDesc1 struct {
	Description           [128]uint16
	VendorID              uint32
	DeviceID              uint32
	SubSysID              uint32
	Revision              uint32
	DedicatedVideoMemory  uintptr
	DedicatedSystemMemory uintptr
	SharedSystemMemory    uintptr
	AdapterLuid           int64
	Flags                 uint32
}

// winRect matches RECT.
type winRect struct {
	Left, Top, Right, Bottom int32
}

// monitorInfo matches MONITORINFO.
type monitorInfo struct {
	CbSize    uint32
	RcMonitor winRect
	RcWork    winRect
	DwFlags   uint32
}

// presentParameters matches DXGI_PRESENT_PARAMETERS.
type presentParameters struct {
	DirtyRectsCount uint32
	PDirtyRects     uintptr
	PScrollRect     uintptr
	PScrollOffset   uintptr
}

// comDevice holds the D3D12 device, its direct command queue and the
// command allocator. Implements deviceContext.
type comDevice struct {
	device    uintptr // ID3D12Device
	queue     uintptr // ID3D12CommandQueue
	allocator uintptr // ID3D12CommandAllocator
}

func (d *comDevice) FreeResources() {
	// Command lists recorded against the back buffers are transient; the
	// allocator reset in Reset is what invalidates them. Nothing else on
	// the device side holds buffer references.
}

func (d *comDevice) Reset() error {
	if err := comCall(d.allocator, allocatorReset); err != nil {
		return fmt.Errorf("ID3D12CommandAllocator::Reset: %w", err)
	}
	return nil
}

func (d *comDevice) Release() {
	comRelease(d.allocator)
	comRelease(d.queue)
	comRelease(d.device)
	d.allocator, d.queue, d.device = 0, 0, 0
}

// Queue returns the ID3D12CommandQueue handle for draw layers.
func (d *comDevice) Queue() uintptr { return d.queue }

// comSwapChain wraps IDXGISwapChain3 and the frame-latency waitable
// object. Implements swapChain.
type comSwapChain struct {
	chain   uintptr // IDXGISwapChain3
	latency windows.Handle
	buffers [bufferCount]uintptr // ID3D12Resource

	// chainFlags are the creation flags; ResizeBuffers must repeat them.
	chainFlags   uint32
	syncInterval uint32
	presentFlags uint32
}

func (s *comSwapChain) WaitFrameLatency(timeout time.Duration) error {
	ret, err := windows.WaitForSingleObject(s.latency, uint32(timeout.Milliseconds()))
	switch ret {
	case windows.WAIT_OBJECT_0:
		return nil
	case uint32(windows.WAIT_TIMEOUT):
		return fmt.Errorf("frame latency object not signaled within %s", timeout)
	default:
		return fmt.Errorf("WaitForSingleObject: %w", err)
	}
}

func (s *comSwapChain) ReleaseBuffers() {
	for i := range s.buffers {
		comRelease(s.buffers[i])
		s.buffers[i] = 0
	}
}

func (s *comSwapChain) ResizeBuffers(size shell.Size) error {
	err := comCall(s.chain, chainResizeBuffers,
		uintptr(bufferCount),
		uintptr(size.Width),
		uintptr(size.Height),
		uintptr(formatR8G8B8A8),
		uintptr(s.chainFlags),
	)
	if err != nil {
		return fmt.Errorf("IDXGISwapChain::ResizeBuffers: %w", err)
	}
	return nil
}

func (s *comSwapChain) Buffer(index int) (uintptr, error) {
	if s.buffers[index] == 0 {
		var resource uintptr
		err := comCall(s.chain, chainGetBuffer,
			uintptr(index),
			uintptr(unsafe.Pointer(&iidID3D12Resource)),
			uintptr(unsafe.Pointer(&resource)),
		)
		if err != nil {
			return 0, fmt.Errorf("IDXGISwapChain::GetBuffer(%d): %w", index, err)
		}
		s.buffers[index] = resource
	}
	return s.buffers[index], nil
}

func (s *comSwapChain) CurrentIndex() int {
	idx, _, _ := syscall.SyscallN(comVtblFn(s.chain, chain3GetCurrentBackBufferIndex), s.chain)
	return int(idx)
}

func (s *comSwapChain) Present(dirty shell.Region) error {
	rect := winRect{
		Left:   int32(math.Floor(float64(dirty.X))),
		Top:    int32(math.Floor(float64(dirty.Y))),
		Right:  int32(math.Ceil(float64(dirty.X + dirty.W))),
		Bottom: int32(math.Ceil(float64(dirty.Y + dirty.H))),
	}
	params := presentParameters{
		DirtyRectsCount: 1,
		PDirtyRects:     uintptr(unsafe.Pointer(&rect)),
	}
	err := comCall(s.chain, chain1Present1,
		uintptr(s.syncInterval),
		uintptr(s.presentFlags),
		uintptr(unsafe.Pointer(&params)),
	)
	if err != nil {
		return fmt.Errorf("IDXGISwapChain1::Present1: %w", err)
	}
	return nil
}

func (s *comSwapChain) Release() {
	s.ReleaseBuffers()
	if s.latency != 0 {
		windows.CloseHandle(s.latency)
		s.latency = 0
	}
	comRelease(s.chain)
	s.chain = 0
}

// newPlatformDevice picks the highest-performance hardware adapter that
// accepts feature level 11_0, creates the device, a direct command
// queue and allocator, and a two-buffer flip-model swap chain in
// frame-latency waitable mode. With vsync off the swap chain requests
// tearing support when the adapter offers it, so presents never wait
// for vblank.
func newPlatformDevice(win shell.NativeWindow, size shell.Size, vsync bool, log *zap.Logger) (deviceContext, swapChain, error) {
	hwnd := win.Handle()
	if hwnd == 0 {
		return nil, nil, fmt.Errorf("%w: window has no native handle", shell.ErrSurfaceCreation)
	}

	var factory uintptr
	hr, _, _ := procCreateDXGIFactory2.Call(
		0, // Flags
		uintptr(unsafe.Pointer(&iidIDXGIFactory6)),
		uintptr(unsafe.Pointer(&factory)),
	)
	if int32(hr) < 0 {
		return nil, nil, fmt.Errorf("%w: CreateDXGIFactory2: 0x%08X", shell.ErrDeviceAcquisition, uint32(hr))
	}
	defer comRelease(factory)

	device, err := createDevice(factory, log)
	if err != nil {
		return nil, nil, err
	}

	ctx, err := createCommandContext(device)
	if err != nil {
		comRelease(device)
		return nil, nil, err
	}

	tearing := !vsync && supportsTearing(factory)
	chain, err := createSwapChain(factory, ctx.queue, hwnd, size, vsync, tearing)
	if err != nil {
		ctx.Release()
		return nil, nil, err
	}
	return ctx, chain, nil
}

// supportsTearing asks the factory whether unsynchronized presents are
// allowed (IDXGIFactory5::CheckFeatureSupport).
func supportsTearing(factory uintptr) bool {
	var allowed int32
	err := comCall(factory, factory5CheckFeatureSupport,
		uintptr(featurePresentAllowTearing),
		uintptr(unsafe.Pointer(&allowed)),
		unsafe.Sizeof(allowed),
	)
	return err == nil && allowed != 0
}

// createDevice enumerates adapters by descending GPU performance,
// skipping software adapters, and returns the first one that accepts
// feature level 11_0.
func createDevice(factory uintptr, log *zap.Logger) (uintptr, error) {
	for i := 0; ; i++ {
		var adapter uintptr
		hr, _, _ := syscall.SyscallN(comVtblFn(factory, factory6EnumAdapterByGpuPref),
			factory,
			uintptr(i),
			uintptr(gpuPreferenceHighPerformance),
			uintptr(unsafe.Pointer(&iidIDXGIAdapter1)),
			uintptr(unsafe.Pointer(&adapter)),
		)
		if uint32(hr) == dxgiErrNotFound {
			break
		}
		if int32(hr) < 0 {
			return 0, fmt.Errorf("%w: EnumAdapterByGpuPreference: 0x%08X", shell.ErrDeviceAcquisition, uint32(hr))
		}

		var desc adapterDesc1
		if err := comCall(adapter, adapter1GetDesc1, uintptr(unsafe.Pointer(&desc))); err != nil {
			comRelease(adapter)
			continue
		}
		if desc.Flags&adapterFlagSoftware != 0 {
			comRelease(adapter)
			continue
		}

		var device uintptr
		hr, _, _ = procD3D12CreateDevice.Call(
			adapter,
			uintptr(featureLevel11_0),
			uintptr(unsafe.Pointer(&iidID3D12Device)),
			uintptr(unsafe.Pointer(&device)),
		)
		comRelease(adapter)
		if int32(hr) < 0 {
			continue
		}

		log.Info("d3d12 device created",
			zap.String("adapter", windows.UTF16ToString(desc.Description[:])),
			zap.Uint32("vendor", desc.VendorID))
		return device, nil
	}
	return 0, fmt.Errorf("%w: no hardware adapter accepts feature level 11_0", shell.ErrDeviceAcquisition)
}

func createCommandContext(device uintptr) (*comDevice, error) {
	queueDesc := commandQueueDesc{Type: commandListTypeDirect}
	var queue uintptr
	err := comCall(device, deviceCreateCommandQueue,
		uintptr(unsafe.Pointer(&queueDesc)),
		uintptr(unsafe.Pointer(&iidID3D12CommandQueue)),
		uintptr(unsafe.Pointer(&queue)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateCommandQueue: %v", shell.ErrDeviceAcquisition, err)
	}

	var allocator uintptr
	err = comCall(device, deviceCreateCommandAllocator,
		uintptr(commandListTypeDirect),
		uintptr(unsafe.Pointer(&iidID3D12CommandAllocator)),
		uintptr(unsafe.Pointer(&allocator)),
	)
	if err != nil {
		comRelease(queue)
		return nil, fmt.Errorf("%w: CreateCommandAllocator: %v", shell.ErrDeviceAcquisition, err)
	}
	return &comDevice{device: device, queue: queue, allocator: allocator}, nil
}

func createSwapChain(factory, queue, hwnd uintptr, size shell.Size, vsync, tearing bool) (*comSwapChain, error) {
	chainFlags := uint32(flagFrameLatencyWait)
	if tearing {
		chainFlags |= flagAllowTearing
	}
	desc := swapChainDesc1{
		Width:       size.Width,
		Height:      size.Height,
		Format:      formatR8G8B8A8,
		SampleCount: 1,
		BufferUsage: usageRenderTargetOutput,
		BufferCount: bufferCount,
		SwapEffect:  swapEffectFlipSequntl,
		Flags:       chainFlags,
	}

	var chain1 uintptr
	err := comCall(factory, factory6CreateSwapChainForHwnd,
		queue, // for D3D12 the device argument is the command queue
		hwnd,
		uintptr(unsafe.Pointer(&desc)),
		0, // pFullscreenDesc
		0, // pRestrictToOutput
		uintptr(unsafe.Pointer(&chain1)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateSwapChainForHwnd: %v", shell.ErrSurfaceCreation, err)
	}

	var chain3 uintptr
	err = comCall(chain1, vtblQueryInterface,
		uintptr(unsafe.Pointer(&iidIDXGISwapChain3)),
		uintptr(unsafe.Pointer(&chain3)),
	)
	comRelease(chain1)
	if err != nil {
		return nil, fmt.Errorf("%w: QueryInterface IDXGISwapChain3: %v", shell.ErrSurfaceCreation, err)
	}

	if err := comCall(chain3, chain2SetMaximumFrameLatency, 1); err != nil {
		comRelease(chain3)
		return nil, fmt.Errorf("%w: SetMaximumFrameLatency: %v", shell.ErrSurfaceCreation, err)
	}
	latency, _, _ := syscall.SyscallN(comVtblFn(chain3, chain2GetFrameLatencyWaitable), chain3)
	if latency == 0 {
		comRelease(chain3)
		return nil, fmt.Errorf("%w: no frame latency waitable object", shell.ErrSurfaceCreation)
	}
	interval, flags := presentArgs(vsync, tearing)
	return &comSwapChain{
		chain:        chain3,
		latency:      windows.Handle(latency),
		chainFlags:   chainFlags,
		syncInterval: interval,
		presentFlags: flags,
	}, nil
}

// platformBufferSize returns the window's monitor size, so interactive
// resizes within the monitor never rebuild the swap chain. Falls back to
// the window size when the monitor cannot be queried.
func platformBufferSize(win shell.NativeWindow, size shell.Size) shell.Size {
	if win == nil {
		return size
	}
	hwnd := win.Handle()
	if hwnd == 0 {
		return size
	}
	monitor, _, _ := procMonitorFromWindow.Call(hwnd, uintptr(monitorDefaultToNearest))
	if monitor == 0 {
		return size
	}
	info := monitorInfo{CbSize: uint32(unsafe.Sizeof(monitorInfo{}))}
	ret, _, _ := procGetMonitorInfo.Call(monitor, uintptr(unsafe.Pointer(&info)))
	if ret == 0 {
		return size
	}
	return shell.Size{
		Width:  uint32(info.RcMonitor.Right - info.RcMonitor.Left),
		Height: uint32(info.RcMonitor.Bottom - info.RcMonitor.Top),
	}
}
