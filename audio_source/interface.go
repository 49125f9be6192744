package audio_source

// Callback receives one buffer of FramesPerBuffer mono samples. The slice is
// reused by the source and is only valid until the callback returns.
type Callback func(in []int16)

// Interface is an audio capture subsystem.
type Interface interface {
	Initialize() error
	Open(cfg StreamConfig, cb Callback) (Stream, error)
	Terminate() error
}

// Stream delivers buffers to its callback between Start and Stop. Once Stop
// returns no further callbacks run.
type Stream interface {
	Start() error
	Stop() error
	Close() error
}
