package listener

type Interface interface {
	// HandleChunk is the audio callback: one buffer of samples, in order.
	HandleChunk(in []int16)
	// Flush handles whatever the engine still holds. Call it only after the
	// stream has stopped.
	Flush()
	Detections() int
}

var _ Interface = (*Listener)(nil)
