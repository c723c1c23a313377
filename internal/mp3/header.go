package mp3

// Header is a raw 4-byte MPEG audio frame header, decoded on demand.
type Header [4]byte

// Sync reports whether the header starts with the 11-bit frame sync
// pattern (0xFFE).
func (h Header) Sync() bool {
	return h[0] == 0xFF && h[1]&0xE0 == 0xE0
}

// Version decodes the 2-bit MPEG version field.
func (h Header) Version() (Version, error) {
	switch (h[1] >> 3) & 0x3 {
	case 0b11:
		return Version1, nil
	case 0b10:
		return Version2, nil
	case 0b00:
		return Version2_5, nil
	default:
		return 0, ErrReservedVersion
	}
}

// Layer decodes the 2-bit layer field.
func (h Header) Layer() (Layer, error) {
	switch (h[1] >> 1) & 0x3 {
	case 0b11:
		return Layer1, nil
	case 0b10:
		return Layer2, nil
	case 0b01:
		return Layer3, nil
	default:
		return 0, ErrReservedLayer
	}
}

// BitrateIndex returns the raw 4-bit bitrate field.
func (h Header) BitrateIndex() byte { return (h[2] >> 4) & 0xF }

// SampleRateIndex returns the raw 2-bit sample rate field.
func (h Header) SampleRateIndex() byte { return (h[2] >> 2) & 0x3 }

// Padding reports whether the padding bit is set.
func (h Header) Padding() bool { return (h[2]>>1)&0x1 == 1 }

// BitrateBPS returns the frame's bitrate in bits per second.
func (h Header) BitrateBPS() (int, error) {
	v, err := h.Version()
	if err != nil {
		return 0, err
	}
	l, err := h.Layer()
	if err != nil {
		return 0, err
	}
	kbps := bitrateTable(v, l)[h.BitrateIndex()]
	if kbps == 0 {
		return 0, ErrInvalidBitrate
	}
	return kbps * 1000, nil
}

// SampleRateHz returns the frame's sample rate in Hz.
func (h Header) SampleRateHz() (int, error) {
	v, err := h.Version()
	if err != nil {
		return 0, err
	}
	hz := sampleRateTable(v)[h.SampleRateIndex()]
	if hz == 0 {
		return 0, ErrInvalidSampleRate
	}
	return hz, nil
}

// SamplesPerFrame returns the number of PCM samples this frame encodes.
func (h Header) SamplesPerFrame() (int, error) {
	v, err := h.Version()
	if err != nil {
		return 0, err
	}
	l, err := h.Layer()
	if err != nil {
		return 0, err
	}
	return samplesPerFrame(v, l), nil
}

// FrameSizeBytes returns the total on-wire size of the frame, header
// included.
func (h Header) FrameSizeBytes() (int, error) {
	l, err := h.Layer()
	if err != nil {
		return 0, err
	}
	bitrate, err := h.BitrateBPS()
	if err != nil {
		return 0, err
	}
	rate, err := h.SampleRateHz()
	if err != nil {
		return 0, err
	}
	pad := 0
	if h.Padding() {
		pad = 1
	}
	if l == Layer1 {
		return 4 * (12*bitrate/rate + pad), nil
	}
	return 144*bitrate/rate + pad, nil
}

// Duration returns the playback duration of this single frame.
func (h Header) Duration() (float64, error) {
	samples, err := h.SamplesPerFrame()
	if err != nil {
		return 0, err
	}
	rate, err := h.SampleRateHz()
	if err != nil {
		return 0, err
	}
	return float64(samples) / float64(rate), nil
}
