//go:build js && wasm

package main

import (
	"syscall/js"
	"unsafe"

	"github.com/cwbudde/algo-keysynth/keyboard"
	"github.com/cwbudde/algo-keysynth/synth"
)

var (
	globalSynth  *synth.Pipeline
	globalKeys   *keyboard.Keyboard
	outputBuffer []float32
)

func main() {
	// Keep program running
	c := make(chan struct{})

	// Export functions to JavaScript
	js.Global().Set("wasmInit", js.FuncOf(wasmInit))
	js.Global().Set("wasmPress", js.FuncOf(wasmPress))
	js.Global().Set("wasmPressKey", js.FuncOf(wasmPressKey))
	js.Global().Set("wasmRelease", js.FuncOf(wasmRelease))
	js.Global().Set("wasmProcessBlock", js.FuncOf(wasmProcessBlock))
	js.Global().Set("wasmGetMemoryBuffer", js.FuncOf(wasmGetMemoryBuffer))

	println("WASM keysynth module loaded")
	<-c
}

// wasmInit(sampleRate, [waveform])
func wasmInit(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	params := synth.NewDefaultParams()
	params.SampleRate = args[0].Int()
	if len(args) > 1 && args[1].Type() == js.TypeString {
		params.Waveform = synth.Waveform(args[1].String())
	}

	p, err := synth.NewPipeline(params)
	if err != nil {
		println("keysynth init failed:", err.Error())
		return nil
	}
	globalSynth = p
	globalKeys = keyboard.New(params.Octave)

	// One AudioWorklet render quantum.
	outputBuffer = make([]float32, 128)

	println("Keysynth initialized at", params.SampleRate, "Hz")
	return nil
}

func wasmPress(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || globalSynth == nil {
		return nil
	}
	_ = globalSynth.Sender.Send(synth.Press(float32(args[0].Float())))
	return nil
}

// wasmPressKey routes a keyboard character through the musical-typing
// layout, including octave keys.
func wasmPressKey(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || globalSynth == nil {
		return nil
	}
	key := args[0].String()
	if key == "" {
		return nil
	}
	action, ev := globalKeys.Handle([]rune(key)[0])
	if action == keyboard.ActionNote || action == keyboard.ActionRelease {
		_ = globalSynth.Sender.Send(ev)
	}
	return globalKeys.Octave()
}

func wasmRelease(this js.Value, args []js.Value) interface{} {
	if globalSynth == nil {
		return nil
	}
	_ = globalSynth.Sender.Send(synth.Up())
	return nil
}

func wasmProcessBlock(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || globalSynth == nil {
		return 0
	}

	numFrames := args[0].Int()
	if numFrames > len(outputBuffer) {
		numFrames = len(outputBuffer)
	}
	if numFrames < 1 {
		return 0
	}

	globalSynth.Fill(outputBuffer[:numFrames])

	// Return pointer to buffer in WASM linear memory
	ptr := &outputBuffer[0]
	return js.ValueOf(uintptr(unsafe.Pointer(ptr)))
}

func wasmGetMemoryBuffer(this js.Value, args []js.Value) interface{} {
	// Return WASM memory buffer for access from JS
	return js.Global().Get("Go").Get("_inst").Get("exports").Get("mem").Get("buffer")
}
